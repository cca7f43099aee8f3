// internal/transport/webhook.go
package transport

import (
	"encoding/json"
	"net/http"
	"strings"

	"reviewbot/internal/common/logger"
)

// Dispatcher accepts inbound messages for asynchronous handling.
type Dispatcher interface {
	Dispatch(msg Message) error
}

// WebhookHandler receives inbound messages pushed by the chat gateway
// and hands them to the dispatcher. It acknowledges immediately; the
// reply is delivered out of band through the gateway client.
type WebhookHandler struct {
	dispatcher Dispatcher
	logger     logger.Logger
}

func NewWebhookHandler(dispatcher Dispatcher, log logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		dispatcher: dispatcher,
		logger:     log.WithFields(map[string]interface{}{"component": "webhook"}),
	}
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var msg Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		h.logger.Warn("rejecting malformed webhook payload", map[string]interface{}{
			"error": err.Error(),
		})
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	msg.From = strings.TrimSpace(msg.From)
	if msg.From == "" {
		http.Error(w, "missing sender", http.StatusBadRequest)
		return
	}

	if err := h.dispatcher.Dispatch(msg); err != nil {
		h.logger.WithError(err).Error("dispatch rejected message", map[string]interface{}{
			"userId": msg.From,
		})
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"status": "accepted"})
}
