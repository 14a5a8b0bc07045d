package api

import (
	"context"
	"net/url"
)

// Transport is the subset of client.HTTPClient the facades need.
type Transport interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}
