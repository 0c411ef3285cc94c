// Package session provides per-URL conversation state for the service.
//
// A session binds a page's vector index, its title, and the ordered
// conversation history exchanged about it. The [Store] owns all sessions
// for the process lifetime; sessions are created lazily on first access
// and never destroyed, only their history is truncated.
//
// Key operations:
//
//   - Session access: [Store.WithSession] (creates and ingests on first use)
//   - History reset: [Store.Reset] (keeps the vector index, idempotent)
//   - History state: [Session.History], [Session.AppendHuman], [Session.AppendAI], [Session.Truncate]
//
// # Concurrency
//
// Store is safe for concurrent use. Access to a session happens only
// inside [Store.WithSession], which holds a per-URL lock for the duration
// of the callback, so work on different URLs proceeds in parallel while
// work on the same URL is serialized. [Store.Reset] takes the same lock.
//
// # Ingestion failures
//
// When first-use ingestion fails, no session is retained and the error is
// one of the [ErrLoadFailed], [ErrNoContent], [ErrUnchunkable] sentinels
// whose text is the user-facing message. A later call for the same URL
// retries ingestion from scratch.
package session
