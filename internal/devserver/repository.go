// Package devserver is a stand-in for the items backend: the four routes of
// the REST collection and nothing else. It exists so the client can be run
// and tested end to end without an external server.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/idilsaglam/grocery/internal/model"
)

var (
	ErrNotFound = errors.New("item not found")
	ErrConflict = errors.New("item id already exists")
)

// Repository stores items in insertion order.
type Repository interface {
	List(ctx context.Context) ([]model.Item, error)
	Create(ctx context.Context, it model.Item) error
	SetChecked(ctx context.Context, id int, checked bool) (model.Item, error)
	Delete(ctx context.Context, id int) error
	Close() error
}

// Driver names accepted by Open.
const (
	DriverMemory = "memory"
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// Open returns the repository for driver. path is ignored for memory.
func Open(driver, path string) (Repository, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverJSON:
		if path == "" {
			path = "db.json"
		}
		return NewJSONFile(path), nil
	case DriverSQLite:
		if path == "" {
			path = "grocery.sqlite3"
		}
		return OpenSQLite(path)
	}
	return nil, fmt.Errorf("unknown driver %q (want memory, json or sqlite)", driver)
}
