// Package ingest fetches web pages and extracts their readable text.
//
// Fetching goes through colly; extraction prefers go-readability's article
// view of the page and falls back to a plain goquery text walk when a page
// has no recognizable article structure. The extracted text is returned
// as-is — emptiness checks belong to the caller.
package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/gocolly/colly/v2"

	"github.com/pagechat/pagechat/internal/log"
)

// ErrUnreachable indicates the URL yielded no document at all: malformed
// address, network failure, non-success status, or an empty response body.
var ErrUnreachable = errors.New("page unreachable")

// Page is the extracted content of a single fetched URL.
type Page struct {
	URL   string
	Title string // empty when the page declares none
	Text  string // plain text, possibly empty or whitespace-only
}

// Config holds scraper settings.
type Config struct {
	UserAgent    string
	Timeout      time.Duration
	MaxBodyBytes int
}

// Scraper fetches pages over HTTP and turns them into Pages.
type Scraper struct {
	cfg    Config
	logger log.Logger
}

// New creates a Scraper.
func New(cfg Config, logger log.Logger) *Scraper {
	if cfg.UserAgent == "" {
		cfg.UserAgent = "pagechat/1.0"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 10 << 20
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Scraper{cfg: cfg, logger: logger.With("component", "ingest")}
}

// Fetch downloads pageURL and extracts its title and readable text.
// Returns ErrUnreachable when no document could be loaded.
func (s *Scraper) Fetch(ctx context.Context, pageURL string) (*Page, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing url: %v", ErrUnreachable, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrUnreachable, parsed.Scheme)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fetching %s: %w", pageURL, err)
	}

	body, err := s.download(pageURL)
	if err != nil {
		return nil, err
	}

	title, text := extract(body, parsed)
	s.logger.Debug("page fetched",
		"url", pageURL,
		"title", title,
		"bytes", len(body),
		"text_len", len(text),
	)

	return &Page{URL: pageURL, Title: title, Text: text}, nil
}

// download runs a single colly request and returns the response body.
// A fresh collector per call keeps retries of previously failed URLs possible
// (collectors remember visited URLs) and makes the Scraper safe for
// concurrent use.
func (s *Scraper) download(pageURL string) ([]byte, error) {
	c := colly.NewCollector(
		colly.UserAgent(s.cfg.UserAgent),
		colly.MaxBodySize(s.cfg.MaxBodyBytes),
		colly.IgnoreRobotsTxt(),
	)
	c.SetRequestTimeout(s.cfg.Timeout)

	var body []byte
	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = err
	})

	if err := c.Visit(pageURL); err != nil && fetchErr == nil {
		fetchErr = err
	}
	c.Wait()

	if fetchErr != nil {
		return nil, fmt.Errorf("%w: fetching %s: %v", ErrUnreachable, pageURL, fetchErr)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty response from %s", ErrUnreachable, pageURL)
	}
	return body, nil
}

// extract pulls the title and plain text out of an HTML body.
// Readability handles article-shaped pages; everything else gets the
// stripped text of <body>.
func extract(body []byte, pageURL *url.URL) (title, text string) {
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err == nil {
		title = strings.TrimSpace(article.Title)
		text = strings.TrimSpace(article.TextContent)
	}

	if title != "" && text != "" {
		return title, text
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return title, text
	}
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if text == "" {
		doc.Find("script, style, noscript").Remove()
		text = collapseWhitespace(doc.Find("body").Text())
	}
	return title, text
}

// collapseWhitespace reduces runs of whitespace to single spaces so fallback
// extraction does not drown the splitter in blank lines.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
