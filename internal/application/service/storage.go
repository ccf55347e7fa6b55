package service

import (
	"context"
	"io"
)

// AssetStorage stores binary assets under bucket/path and resolves the
// address they are publicly served from.
type AssetStorage interface {
	Upload(ctx context.Context, bucket, path string, file io.Reader) error
	PublicURL(bucket, path string) (string, error)
}

// ImageProcessor normalises an uploaded image and reports the file
// extension of the re-encoded output.
type ImageProcessor interface {
	Normalize(r io.Reader) (io.Reader, string, error)
}
