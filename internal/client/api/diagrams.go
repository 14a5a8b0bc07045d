package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/umlgen/internal/client/models"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
)

type DiagramAPI struct {
	t Transport
}

func NewDiagramAPI(t Transport) *DiagramAPI {
	return &DiagramAPI{t: t}
}

// Generate asks the backend for Mermaid markup. A nil typ lets the backend
// pick the diagram kind.
func (d *DiagramAPI) Generate(ctx context.Context, prompt string, typ *models.DiagramType) (*models.GenerateResult, error) {
	var res models.GenerateResult
	if err := d.t.Post(ctx, "/diagrams/generate", models.GenerateRequest{Prompt: prompt, DiagramType: typ}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (d *DiagramAPI) Save(ctx context.Context, req models.SaveRequest) (*models.Diagram, error) {
	var out models.Diagram
	if err := d.t.Post(ctx, "/diagrams/save", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List fetches one page of the caller's diagrams. Non-positive arguments
// fall back to DefaultPage and DefaultPageSize.
func (d *DiagramAPI) List(ctx context.Context, page, pageSize int) (*models.DiagramList, error) {
	if page <= 0 {
		page = DefaultPage
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))

	var out models.DiagramList
	if err := d.t.Get(ctx, "/diagrams/", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (d *DiagramAPI) Get(ctx context.Context, id int64) (*models.Diagram, error) {
	var out models.Diagram
	if err := d.t.Get(ctx, fmt.Sprintf("/diagrams/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (d *DiagramAPI) Delete(ctx context.Context, id int64) (*models.Ack, error) {
	var ack models.Ack
	if err := d.t.Delete(ctx, fmt.Sprintf("/diagrams/%d", id), &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}
