package port

import "context"

// ImageStore uploads image blobs and returns their public URLs. Only the
// URL matters to the rest of the system.
type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}
