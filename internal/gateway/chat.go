package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/flemzord/edgechat/internal/chat"
	"github.com/flemzord/edgechat/internal/provider"
)

// ChatRequest is the JSON body of POST /api/chat.
type ChatRequest struct {
	SessionID string `json:"sessionId"`
	User      string `json:"user"`
}

// ChatResponse is the success body of POST /api/chat.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// ErrorResponse is the failure body of POST /api/chat.
type ErrorResponse struct {
	Error string `json:"error"`
}

// handleChat runs one conversation turn. Invalid input is 400; an
// unavailable upstream model is 502; anything else is 500. The error body
// never echoes internals, only a short reason.
func (g *Gateway) handleChat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "sessionId and user required"})
			return
		}

		reply, err := g.engine.Respond(r.Context(), req.SessionID, req.User)
		if err != nil {
			g.writeChatError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, ChatResponse{Reply: reply})
	}
}

func (g *Gateway) writeChatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chat.ErrInvalidRequest):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "sessionId and user required"})
	case provider.IsUnavailable(err):
		g.logger.Warn("chat turn failed, model unavailable", "error", err)
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: "model unavailable"})
	default:
		g.logger.Error("chat turn failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
