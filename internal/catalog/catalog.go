// Package catalog resolves book metadata from an external volume catalog.
package catalog

import (
	"context"
	"errors"
	"fmt"
)

// Volume is the catalog metadata for a single edition.
type Volume struct {
	ISBN        string
	Title       string
	Author      string
	Description string
	Year        string
	Category    string
}

// Gateway looks up volume metadata by ISBN.
type Gateway interface {
	LookupByISBN(ctx context.Context, isbn string) (*Volume, error)
}

// Sentinel errors for catalog operations.
var (
	ErrNotFound    = errors.New("catalog: volume not found")
	ErrRateLimited = errors.New("catalog: rate limited by server")
	ErrBadRequest  = errors.New("catalog: bad request")
	ErrServer      = errors.New("catalog: server error")
	ErrInvalidISBN = errors.New("catalog: invalid ISBN format")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op   string // Operation: "lookup"
	ISBN string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("catalog %s [%s]: %v", e.Op, e.ISBN, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(op, isbn string, err error) error {
	return &Error{Op: op, ISBN: isbn, Err: err}
}
