package credentials

import (
	"context"
	"errors"
)

// Fixed slot names. The session layer always writes and clears both together.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

var ErrUnknownDriver = errors.New("unknown credential store driver")

// Repository is a durable string key-value store.
//
// Get reports ok=false for a missing key. SetMany and RemoveMany apply all of
// their keys in one atomic step: after an error none of them has changed.
// Removing a missing key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	SetMany(ctx context.Context, values map[string]string) error
	RemoveMany(ctx context.Context, keys ...string) error
	Close() error
}
