package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/firebase/genkit/go/ai"

	"github.com/pagechat/pagechat/internal/index"
	"github.com/pagechat/pagechat/internal/ingest"
)

// Ingestion sentinels. Their text is the exact user-facing message the API
// returns in the response envelope's error field; check with errors.Is or
// [IsIngestionError].
var (
	// ErrLoadFailed indicates the page could not be fetched at all.
	ErrLoadFailed = errors.New("Failed to load content from the provided URL")

	// ErrNoContent indicates the page yielded no readable text. It also
	// masks index-build failures so callers never see provider internals.
	ErrNoContent = errors.New("The webpage appears to have no readable content. This may be due to authentication requirements or dynamic content loading.")

	// ErrUnchunkable indicates the page text produced no chunks.
	ErrUnchunkable = errors.New("Unable to process the webpage content into readable chunks.")
)

// IsIngestionError reports whether err is one of the ingestion sentinels.
func IsIngestionError(err error) bool {
	return errors.Is(err, ErrLoadFailed) ||
		errors.Is(err, ErrNoContent) ||
		errors.Is(err, ErrUnchunkable)
}

// Fetcher loads a web page into a title and its readable text.
// Defined here because the Store is the consumer; *ingest.Scraper
// satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (*ingest.Page, error)
}

// Splitter cuts page text into retrieval chunks; *textsplit.Splitter
// satisfies it.
type Splitter interface {
	Split(text string) []string
}

// Store maps URLs to their sessions. URLs are compared verbatim and
// case-sensitively; no normalization is applied. Sessions live for the
// process lifetime.
//
// Store is safe for concurrent use by multiple goroutines.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	locks    map[string]*sync.Mutex

	fetcher  Fetcher
	splitter Splitter
	embedder ai.Embedder
	logger   *slog.Logger
}

// New creates a session store. The fetcher, splitter and embedder run the
// ingestion pipeline on first access to a URL. A nil logger falls back to
// slog.Default().
func New(fetcher Fetcher, splitter Splitter, embedder ai.Embedder, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		sessions: make(map[string]*Session),
		locks:    make(map[string]*sync.Mutex),
		fetcher:  fetcher,
		splitter: splitter,
		embedder: embedder,
		logger:   logger.With("component", "session"),
	}
}

// WithSession runs fn with the session for url, holding that URL's lock
// for the whole call. The session is created on first access: the page is
// fetched, chunked and indexed, and history starts with a system message
// announcing the page title.
//
// When ingestion fails, fn does not run, no session is retained, and the
// returned error is one of the ingestion sentinels. Errors from fn are
// returned unchanged.
func (s *Store) WithSession(ctx context.Context, url string, fn func(*Session) error) error {
	lock := s.lockFor(url)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.getOrCreate(ctx, url)
	if err != nil {
		return err
	}
	return fn(sess)
}

// Reset clears the session history for url to a single fresh system
// message, preserving the vector index. Returns false when no session
// exists; a missing session is not an error and nothing is created.
// Calling Reset repeatedly yields the same single-message state.
func (s *Store) Reset(url string) bool {
	lock := s.lockFor(url)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	sess, ok := s.sessions[url]
	s.mu.Unlock()
	if !ok {
		return false
	}

	sess.reset()
	s.logger.Info("cleared chat history", "url", url)
	return true
}

// lockFor returns the mutex guarding url, creating it on first use.
// Locks are never removed; like sessions they live for the process.
func (s *Store) lockFor(url string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[url]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[url] = lock
	}
	return lock
}

// getOrCreate must be called with the per-URL lock held.
func (s *Store) getOrCreate(ctx context.Context, url string) (*Session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[url]
	s.mu.Unlock()
	if ok {
		return sess, nil
	}

	sess, err := s.create(ctx, url)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[url] = sess
	s.mu.Unlock()
	return sess, nil
}

// create runs the ingestion pipeline for url. Each failure mode maps to
// its own user-facing sentinel; underlying causes are logged, not returned.
func (s *Store) create(ctx context.Context, url string) (*Session, error) {
	s.logger.Info("creating session", "url", url)

	page, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.logger.Warn("page load failed", "url", url, "error", err)
		return nil, ErrLoadFailed
	}

	if strings.TrimSpace(page.Text) == "" {
		s.logger.Warn("page has no readable content", "url", url)
		return nil, ErrNoContent
	}

	chunks := s.splitter.Split(page.Text)
	if len(chunks) == 0 {
		s.logger.Warn("page text produced no chunks", "url", url)
		return nil, ErrUnchunkable
	}

	ix, err := index.Build(ctx, s.embedder, chunks)
	if err != nil {
		s.logger.Warn("index build failed", "url", url, "error", err)
		return nil, ErrNoContent
	}

	title := strings.TrimSpace(page.Title)
	if title == "" {
		title = DefaultTitle
	}

	s.logger.Info("created session", "url", url, "title", title, "chunks", len(chunks))
	return newSession(url, title, ix), nil
}
