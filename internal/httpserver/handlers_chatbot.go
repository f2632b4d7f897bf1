package httpserver

import (
	"net/http"
	"time"

	"github.com/crbuilding/server/internal/chatbot"
	apierrors "github.com/crbuilding/server/internal/errors"
	"github.com/crbuilding/server/internal/logger"
	"github.com/crbuilding/server/pkg/responders"
)

type chatbotRequest struct {
	Message   string `json:"message"`
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
}

// chatbotMessage answers a free-text question with a canned response. The
// endpoint always returns 200 once the message is present; a broken analytics
// sink must never break the conversation.
func (h *handlers) chatbotMessage(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req chatbotRequest
	if err := decodeJSON(w, r, &req); err != nil {
		apierrors.WriteSimpleError(w, apierrors.ErrCodeInvalidField, "invalid request body")
		return
	}
	if req.Message == "" {
		apierrors.WriteSimpleError(w, apierrors.ErrCodeMissingField, "message is required")
		return
	}

	reply := h.reply(req.Message)
	h.metrics.ObserveChatbotRequest(reply.Category)

	conv := chatbot.Conversation{
		UserID:    req.UserID,
		SessionID: req.SessionID,
		Message:   req.Message,
		Response:  reply.Response,
		Category:  reply.Category,
		UserAgent: r.UserAgent(),
		CreatedAt: time.Now().UTC(),
	}
	if err := h.analytics.LogConversation(r.Context(), conv); err != nil {
		log.Warn().Err(err).Msg("chatbot.analytics.log_failed")
	}
	if err := h.analytics.IncrementCategory(r.Context(), reply.Category); err != nil {
		log.Warn().Err(err).Msg("chatbot.analytics.increment_failed")
	}

	log.Debug().Str("category", reply.Category).Msg("chatbot.reply")
	responders.JSON(w, http.StatusOK, reply)
}

// reply guards the responder so a nil wiring mistake degrades to the apology
// instead of a panic.
func (h *handlers) reply(message string) chatbot.Reply {
	if h.responder == nil {
		return chatbot.Reply{
			Response: "I'm having trouble connecting right now. Please call us at " +
				h.cfg.Chatbot.FallbackPhone + " for immediate assistance.",
			Category:    "error",
			Suggestions: []string{"Contact support", "Browse materials", "View services"},
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		}
	}
	return h.responder.Reply(message)
}
