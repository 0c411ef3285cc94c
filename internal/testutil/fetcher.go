package testutil

import (
	"context"
	"sync"

	"github.com/pagechat/pagechat/internal/ingest"
)

// StubFetcher serves canned pages by URL and counts fetches. It satisfies
// the session package's Fetcher interface.
//
// Thread-safe for concurrent use.
type StubFetcher struct {
	mu    sync.Mutex
	pages map[string]*ingest.Page
	err   error
	calls int
}

// NewStubFetcher creates an empty stub; unknown URLs fail with
// ingest.ErrUnreachable.
func NewStubFetcher() *StubFetcher {
	return &StubFetcher{pages: make(map[string]*ingest.Page)}
}

// AddPage registers the page served for url.
func (f *StubFetcher) AddPage(url string, page *ingest.Page) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[url] = page
}

// SetError makes every subsequent fetch fail with err. Pass nil to clear.
func (f *StubFetcher) SetError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// Fetch returns the registered page for pageURL.
func (f *StubFetcher) Fetch(_ context.Context, pageURL string) (*ingest.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	page, ok := f.pages[pageURL]
	if !ok {
		return nil, ingest.ErrUnreachable
	}
	return page, nil
}

// FetchCount reports how many fetches the stub has served.
func (f *StubFetcher) FetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
