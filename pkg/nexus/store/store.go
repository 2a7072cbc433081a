// Package store provides persistent storage for serialized graph documents.
package store

import (
	"errors"
	"time"
)

// Store persists graph documents by name.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores a document under name, overwriting any existing one.
	Save(name string, data []byte) error

	// Load retrieves a document.
	// Returns ErrNotFound if no document exists under name.
	Load(name string) ([]byte, error)

	// List returns metadata for all documents, ordered by name.
	// Returns empty slice (not error) if the store is empty.
	List() ([]Info, error)

	// Delete removes a document.
	// Returns nil if no document exists under name.
	Delete(name string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info provides document metadata without loading the data.
type Info struct {
	Name      string
	UpdatedAt time.Time
	Size      int64
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates a document doesn't exist.
	ErrNotFound = errors.New("graph document not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("graph store closed")
)
