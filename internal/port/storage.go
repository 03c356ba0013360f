package port

import "context"

// PhotoURLResolver turns a stored photo reference into a URL a device can fetch.
type PhotoURLResolver interface {
	ResolvePhotoURL(ctx context.Context, ref string) (string, error)
}
