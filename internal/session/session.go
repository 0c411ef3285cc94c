package session

import (
	"context"
	"fmt"

	"github.com/pagechat/pagechat/internal/index"
)

// DefaultTitle is used when page ingestion yields no title.
const DefaultTitle = "Unknown Page"

// Session is the conversation state for one URL: the page's vector index,
// its title, and the message history. History element 0, once set, is
// always the most recent system message; creation and reset both install
// one.
//
// Sessions are not safe for unsynchronized use. The Store hands them out
// only inside [Store.WithSession] with the per-URL lock held; do not
// retain a *Session beyond the callback.
type Session struct {
	url     string
	title   string
	index   *index.Index
	history []Message
}

func newSession(url, title string, ix *index.Index) *Session {
	return &Session{
		url:   url,
		title: title,
		index: ix,
		history: []Message{
			SystemMessage(fmt.Sprintf("Started new conversation about: %s", title)),
		},
	}
}

// URL returns the key this session is stored under, verbatim.
func (s *Session) URL() string { return s.url }

// Title returns the ingested page title, or DefaultTitle when the page
// had none.
func (s *Session) Title() string { return s.title }

// History returns a copy of the message history, oldest first.
func (s *Session) History() []Message {
	cp := make([]Message, len(s.history))
	copy(cp, s.history)
	return cp
}

// AppendHuman records a user message.
func (s *Session) AppendHuman(content string) {
	s.history = append(s.history, HumanMessage(content))
}

// AppendAI records a model message.
func (s *Session) AppendAI(content string) {
	s.history = append(s.history, AIMessage(content))
}

// Search returns the texts of the topK chunks of this session's page most
// similar to query, most similar first.
func (s *Session) Search(ctx context.Context, query string, topK int) ([]string, error) {
	return s.index.Search(ctx, query, topK)
}

// Truncate caps history at max messages by keeping element 0 (the system
// message) plus the last max-1 entries. No-op while history fits.
func (s *Session) Truncate(max int) {
	if max <= 0 || len(s.history) <= max {
		return
	}
	kept := make([]Message, 0, max)
	kept = append(kept, s.history[0])
	kept = append(kept, s.history[len(s.history)-(max-1):]...)
	s.history = kept
}

// reset clears history to a single fresh system message. The vector index
// and title are untouched.
func (s *Session) reset() {
	s.history = []Message{
		SystemMessage(fmt.Sprintf("Chat history cleared. Restarted conversation about: %s", s.title)),
	}
}
