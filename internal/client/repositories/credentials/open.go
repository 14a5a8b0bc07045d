package credentials

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/umlgen/internal/filex"
)

// Driver names accepted by Open.
const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
	DriverMemory = "memory"
)

// Open returns the Repository for driver, creating path's directory first for
// the file-backed drivers.
func Open(ctx context.Context, driver, path string) (Repository, error) {
	switch driver {
	case DriverMemory:
		return NewMemoryRepository(), nil
	case DriverSQLite, DriverBolt:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	if err := filex.EnsureParentDir(path); err != nil {
		return nil, err
	}

	if driver == DriverBolt {
		return OpenBolt(path)
	}
	return OpenSQLite(ctx, path)
}
