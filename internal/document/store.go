package document

import "context"

//go:generate mockgen -source=store.go -destination=mock/store_mock.go -package=mock

// Store holds generated artifacts (leave form PDFs, personnel photos)
// and hands back a URL the stored object can be retrieved from.
type Store interface {
	Put(ctx context.Context, path string, content []byte, contentType string) (string, error)
}
