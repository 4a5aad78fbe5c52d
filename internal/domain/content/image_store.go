package content

import "context"

// ImageStore keeps uploaded blog images and serves them at a public URL
type ImageStore interface {
	// Upload stores data under key and returns its public URL
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)

	// Delete removes the object stored under key
	Delete(ctx context.Context, key string) error
}
