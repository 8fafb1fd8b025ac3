// Package storage abstracts blob persistence for published tracker
// documents. The filesystem store under internal/store is the source of
// truth; providers here mirror merged documents to secondary backends.
package storage

import "context"

// Provider uploads a named document to a backing store.
type Provider interface {
	Put(ctx context.Context, name string, data []byte) error
}
