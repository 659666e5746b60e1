// Package mediastore keeps copies of the photos and voice notes submitted for
// recognition, so a draft can be re-checked against its source later.
package mediastore

import (
	"context"
	"io"
)

type MediaStore interface {
	Save(ctx context.Context, prefix, mimeType string, r io.Reader) (storageKey string, err error)
	Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, storageKey string) error
}
