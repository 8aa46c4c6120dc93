// Package storage persists generated assignment documents (delivery and
// return acts) and hands back opaque keys that the ledger stores on the
// assignment row.
package storage

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// Storage is the artifact backend for generated documents.
type Storage interface {
	// Store saves an artifact under the given assignment and returns the storage key.
	Store(ctx context.Context, assignmentID uuid.UUID, filename string, content io.Reader, contentType string) (string, error)

	// Retrieve gets an artifact by storage key.
	Retrieve(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes an artifact by storage key.
	Delete(ctx context.Context, key string) error

	// Exists checks if an artifact exists.
	Exists(ctx context.Context, key string) (bool, error)

	// GetURL returns a signed URL (S3) or local path for accessing the artifact.
	GetURL(ctx context.Context, key string, expiration time.Duration) (string, error)
}
