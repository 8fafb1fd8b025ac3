// Package scraper fetches region support pages and selects their software
// item blocks into raw items for normalization.
package scraper

import "context"

// Fetcher retrieves the HTML document at url. Implementations block until
// the page is available or the context is done.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
