package models

// DiagramType is one of the UML kinds the generator understands.
type DiagramType string

const (
	DiagramClass    DiagramType = "class"
	DiagramSequence DiagramType = "sequence"
	DiagramUseCase  DiagramType = "usecase"
	DiagramActivity DiagramType = "activity"
)

// DiagramTypes lists the known types in display order.
var DiagramTypes = []DiagramType{DiagramClass, DiagramSequence, DiagramUseCase, DiagramActivity}

// Valid reports whether t is one of DiagramTypes.
func (t DiagramType) Valid() bool {
	for _, known := range DiagramTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Diagram is a saved diagram record.
type Diagram struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"user_id"`
	Title       string      `json:"title"`
	Prompt      string      `json:"prompt"`
	MermaidCode string      `json:"mermaid_code"`
	DiagramType DiagramType `json:"diagram_type"`
	CreatedAt   Timestamp   `json:"created_at"`
}

// GenerateRequest asks the backend to produce Mermaid markup from a prompt.
// A nil DiagramType lets the backend infer the kind.
type GenerateRequest struct {
	Prompt      string       `json:"prompt"`
	DiagramType *DiagramType `json:"diagram_type"`
}

// GenerateResult is the generator's answer. Success=false comes with Error.
type GenerateResult struct {
	Success     bool        `json:"success"`
	MermaidCode string      `json:"mermaid_code,omitempty"`
	DiagramType DiagramType `json:"diagram_type,omitempty"`
	Error       string      `json:"error,omitempty"`
}

// SaveRequest persists a generated diagram.
type SaveRequest struct {
	Prompt      string      `json:"prompt"`
	Title       string      `json:"title"`
	MermaidCode string      `json:"mermaid_code"`
	DiagramType DiagramType `json:"diagram_type"`
}

// DiagramList is one page of the user's diagrams.
type DiagramList struct {
	Diagrams []Diagram `json:"diagrams"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}
