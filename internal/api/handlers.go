package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pagechat/pagechat/internal/chat"
	"github.com/pagechat/pagechat/internal/session"
)

// maxBodyBytes bounds request bodies; both endpoints carry small JSON.
const maxBodyBytes = 1 << 20

type handler struct {
	chat     *chat.Service
	sessions *session.Store
	logger   *slog.Logger
}

type queryRequest struct {
	URL   string `json:"url"`
	Query string `json:"query"`
}

type answerResponse struct {
	Answer string `json:"answer"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type resetRequest struct {
	URL string `json:"url"`
}

type resetResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type livenessResponse struct {
	Message string `json:"message"`
}

// query answers a question about a page. Ingestion failures come back as a
// 200 response with an error field; generation failures as a 500.
func (h *handler) query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}
	if strings.TrimSpace(req.URL) == "" || strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "url and query are required", h.logger)
		return
	}

	answer, err := h.chat.Answer(r.Context(), req.URL, req.Query)
	if err != nil {
		if session.IsIngestionError(err) {
			writeJSON(w, http.StatusOK, errorResponse{Error: err.Error()}, h.logger)
			return
		}
		h.logger.Error("query failed", "url", req.URL, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, answerResponse{Answer: answer}, h.logger)
}

// reset clears the conversation history for a URL. Unknown URLs are a
// normal negative result, not an error.
func (h *handler) reset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeError(w, http.StatusBadRequest, "url is required", h.logger)
		return
	}

	if h.sessions.Reset(req.URL) {
		writeJSON(w, http.StatusOK, resetResponse{
			Status:  "reset",
			Message: fmt.Sprintf("Chat history for %s has been cleared", req.URL),
		}, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resetResponse{
		Status:  "not_found",
		Message: "No chat history found for this URL",
	}, h.logger)
}

// liveness reports that the API is up.
func (h *handler) liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, livenessResponse{Message: "pagechat API is running!"}, h.logger)
}

// decodeJSON decodes a bounded JSON body into dst. Unknown fields are
// tolerated; clients ship more than we read.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}
