// Package storage abstracts where uploaded binary assets (actor pictures,
// movie posters) live. Handlers depend only on the FileStorage interface so
// the backend can be swapped without touching any resource logic.
package storage

import (
	"context"
	"io"
)

// FileStorage stores binary assets grouped under named containers and
// addresses them by the URL returned from Save.
//
// Save stores the content under container and returns a retrievable URL.
// fileName is the client's original file name; only its extension is kept,
// the stored object gets a generated name.
//
// Edit replaces an existing asset: the old asset is deleted first (a missing
// old asset is a no-op, not an error) and the new content saved.
//
// Delete removes the asset addressed by fileRoute from container. An empty
// fileRoute is a no-op.
type FileStorage interface {
	Save(ctx context.Context, container, fileName string, content io.Reader) (string, error)
	Edit(ctx context.Context, container, fileName string, content io.Reader, oldRoute string) (string, error)
	Delete(ctx context.Context, fileRoute, container string) error
}
