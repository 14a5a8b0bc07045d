// Package views holds the list manipulation behind the dashboard, diagram
// list and admin screens. Everything here works on data already fetched.
package views

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/umlgen/internal/client/models"
)

// TypeAll disables the type filter.
const TypeAll = "all"

// FilterDiagrams keeps diagrams whose title or prompt contains search
// (case-insensitive) and whose type equals typ. An empty typ or TypeAll
// matches every type.
func FilterDiagrams(list []models.Diagram, search, typ string) []models.Diagram {
	needle := strings.ToLower(search)
	anyType := typ == "" || strings.EqualFold(typ, TypeAll)

	out := make([]models.Diagram, 0, len(list))
	for _, d := range list {
		if !anyType && !strings.EqualFold(string(d.DiagramType), typ) {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(d.Title), needle) &&
			!strings.Contains(strings.ToLower(d.Prompt), needle) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// FilterUsers keeps users whose email contains search, ignoring case.
func FilterUsers(list []models.User, search string) []models.User {
	needle := strings.ToLower(search)
	out := make([]models.User, 0, len(list))
	for _, u := range list {
		if strings.Contains(strings.ToLower(u.Email), needle) {
			out = append(out, u)
		}
	}
	return out
}

func CountByType(list []models.Diagram) map[models.DiagramType]int {
	counts := make(map[models.DiagramType]int)
	for _, d := range list {
		counts[d.DiagramType]++
	}
	return counts
}

// MostUsedType returns the most frequent type, capitalized, or "None" for an
// empty list. Ties go to the type that appears first in list.
func MostUsedType(list []models.Diagram) string {
	counts := CountByType(list)
	if len(counts) == 0 {
		return "None"
	}

	var best models.DiagramType
	for _, d := range list {
		if best == "" || counts[d.DiagramType] > counts[best] {
			best = d.DiagramType
		}
	}
	return capitalize(string(best))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// CreatedInMonth counts diagrams created in the calendar month of now, in
// now's location.
func CreatedInMonth(list []models.Diagram, now time.Time) int {
	n := 0
	for _, d := range list {
		c := d.CreatedAt.In(now.Location())
		if c.Year() == now.Year() && c.Month() == now.Month() {
			n++
		}
	}
	return n
}

// TypeColor is the accent color of a diagram type.
func TypeColor(t models.DiagramType) string {
	switch t {
	case models.DiagramClass:
		return "blue"
	case models.DiagramSequence:
		return "purple"
	case models.DiagramUseCase:
		return "green"
	case models.DiagramActivity:
		return "yellow"
	}
	return "gray"
}

// TypeBadge is the two-letter abbreviation shown next to a diagram.
func TypeBadge(t models.DiagramType) string {
	s := string(t)
	if len(s) > 2 {
		s = s[:2]
	}
	return strings.ToUpper(s)
}

// RemoveDiagram drops the diagram with id. Call it only after the backend
// confirmed the delete.
func RemoveDiagram(list []models.Diagram, id int64) []models.Diagram {
	out := make([]models.Diagram, 0, len(list))
	for _, d := range list {
		if d.ID != id {
			out = append(out, d)
		}
	}
	return out
}

func RemoveUser(list []models.User, id int64) []models.User {
	out := make([]models.User, 0, len(list))
	for _, u := range list {
		if u.ID != id {
			out = append(out, u)
		}
	}
	return out
}

// Summary backs the dashboard counters.
type Summary struct {
	Total     int
	ThisMonth int
	MostUsed  string
	Recent    []models.Diagram
}

// RecentLimit is how many diagrams the dashboard lists.
const RecentLimit = 5

// DashboardSummary computes the counters and keeps the first RecentLimit
// diagrams in list order (the backend returns newest first).
func DashboardSummary(list []models.Diagram, total int, now time.Time) Summary {
	recent := list
	if len(recent) > RecentLimit {
		recent = recent[:RecentLimit]
	}
	return Summary{
		Total:     total,
		ThisMonth: CreatedInMonth(list, now),
		MostUsed:  MostUsedType(list),
		Recent:    recent,
	}
}
