package images

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrTooLarge is returned when an upload exceeds the configured size.
	ErrTooLarge = errors.New("images: file too large")
	// ErrUnsupportedType is returned for files that are not one of the accepted image types.
	ErrUnsupportedType = errors.New("images: unsupported file type")
	// ErrForeignURL is returned when asked to delete an image the store did not produce.
	ErrForeignURL = errors.New("images: url does not belong to this store")
)

// Store persists uploaded images and returns the public URL they are served from.
type Store interface {
	Upload(ctx context.Context, dir, filename string, r io.Reader) (string, error)
	Replace(ctx context.Context, dir, filename string, r io.Reader, oldURL string) (string, error)
	Delete(ctx context.Context, url string) error
}
