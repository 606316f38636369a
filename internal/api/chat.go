package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atu-portal/assistant/internal/chat"
	"github.com/atu-portal/assistant/internal/command"
	"github.com/atu-portal/assistant/internal/log"
)

// maxChatBodyBytes caps a chat request body.
const maxChatBodyBytes = 64 << 10

type chatHandler struct {
	logger       log.Logger
	orchestrator *chat.Orchestrator
	commands     *chat.CommandRecorder
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
	// Command names the confirmed portal action (clear, reload,
	// dashboard, library, profile) the page layer should perform.
	Command string `json:"command,omitempty"`
	Status  string `json:"status"`
}

type ragRequest struct {
	Enabled bool `json:"enabled"`
}

type statusResponse struct {
	Status      string `json:"status"`
	RAGEnabled  bool   `json:"rag_enabled"`
	UserContext string `json:"user_context"`
}

type contextResponse struct {
	Chunks      int    `json:"chunks"`
	UserContext string `json:"user_context"`
}

// send handles POST /api/chat.
func (h *chatHandler) send(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxChatBodyBytes)

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body", h.logger)
		return
	}

	reply, err := h.orchestrator.HandleMessage(r.Context(), req.Message, nil)
	if err != nil {
		h.writeChatError(w, err)
		return
	}

	resp := chatResponse{
		Reply:  reply,
		Status: h.orchestrator.Status(),
	}
	if h.commands != nil {
		if cmd := h.commands.Take(); cmd != command.None {
			resp.Command = cmd.String()
		}
	}
	writeJSON(w, http.StatusOK, resp, h.logger)
}

func (h *chatHandler) writeChatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chat.ErrEmptyQuestion):
		writeError(w, http.StatusBadRequest, "empty_message", chat.LocalizedError(err), h.logger)
	case errors.Is(err, chat.ErrBusy):
		writeError(w, http.StatusTooManyRequests, "busy", chat.LocalizedError(err), h.logger)
	default:
		h.logger.Error("chat request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "chat_failed", chat.LocalizedError(err), h.logger)
	}
}

// toggleRAG handles POST /api/rag.
func (h *chatHandler) toggleRAG(w http.ResponseWriter, r *http.Request) {
	var req ragRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body", h.logger)
		return
	}

	mode := h.orchestrator.EnableRAG(req.Enabled)
	writeJSON(w, http.StatusOK, map[string]string{"status": mode}, h.logger)
}

// resetSession handles POST /api/session/reset.
func (h *chatHandler) resetSession(w http.ResponseWriter, _ *http.Request) {
	h.orchestrator.ResetSession()
	writeJSON(w, http.StatusOK, map[string]string{"status": h.orchestrator.Status()}, h.logger)
}

// status handles GET /api/status.
func (h *chatHandler) status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Status:      h.orchestrator.Status(),
		RAGEnabled:  h.orchestrator.Session().RAGEnabled(),
		UserContext: h.orchestrator.UserContext(),
	}, h.logger)
}

// contextInfo handles GET /api/context.
func (h *chatHandler) contextInfo(w http.ResponseWriter, r *http.Request) {
	chunks, err := h.orchestrator.ContextInfo(r.Context())
	if err != nil {
		h.logger.Error("context load failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "context_unavailable", chat.LocalizedError(err), h.logger)
		return
	}

	writeJSON(w, http.StatusOK, contextResponse{
		Chunks:      chunks,
		UserContext: h.orchestrator.UserContext(),
	}, h.logger)
}
