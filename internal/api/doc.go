// Package api exposes the HTTP surface of the service: one endpoint to ask
// a question about a URL, one to reset that URL's conversation, and a
// liveness root.
//
// Responses are always JSON. Ingestion failures on /query are reported as
// an ordinary 200 response carrying an error field, matching the response
// envelope the frontend expects; generation failures surface as plain 500s.
package api
