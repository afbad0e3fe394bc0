package handlers

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dverano/villadesk/internal/audit"
	"github.com/dverano/villadesk/internal/email"
)

// NotifyHandler sends one-off notification emails. Delivery failures are
// logged and reported inline; they are never retried automatically.
type NotifyHandler struct {
	sender   email.Sender
	recorder audit.Recorder
	logger   *slog.Logger
}

func NewNotifyHandler(sender email.Sender, recorder audit.Recorder, logger *slog.Logger) *NotifyHandler {
	return &NotifyHandler{sender: sender, recorder: recorder, logger: logger}
}

type sendEmailRequest struct {
	To             []string `json:"to"`
	Subject        string   `json:"subject"`
	HTMLBody       string   `json:"html_body"`
	AttachmentB64  string   `json:"attachment_b64"`
	AttachmentName string   `json:"attachment_name"`
}

func (h *NotifyHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.sender == nil {
		writeError(w, http.StatusServiceUnavailable, "email is not configured")
		return
	}

	var req sendEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	req.Subject = strings.TrimSpace(req.Subject)
	if len(req.To) == 0 || req.Subject == "" {
		writeError(w, http.StatusBadRequest, "to and subject required")
		return
	}

	msg := email.Message{
		To:             req.To,
		Subject:        req.Subject,
		HTMLBody:       req.HTMLBody,
		AttachmentName: strings.TrimSpace(req.AttachmentName),
	}
	if req.AttachmentB64 != "" {
		data, err := base64.StdEncoding.DecodeString(req.AttachmentB64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "attachment_b64 is not valid base64")
			return
		}
		msg.Attachment = data
	}

	if err := h.sender.Send(msg); err != nil {
		h.logger.Error("email delivery failed", "subject", req.Subject, "err", err)
		if sess, ok := SessionFromContext(r.Context()); ok {
			sess.LogActivity("error", "email delivery failed: "+req.Subject)
		}
		writeError(w, http.StatusBadGateway, "email delivery failed")
		return
	}

	actor := ""
	if sess, ok := SessionFromContext(r.Context()); ok {
		actor = sess.Actor
		sess.LogActivity("info", "email sent: "+req.Subject)
	}
	h.recorder.Record(r.Context(), audit.Event{
		Type:  audit.TypeEmailDelivered,
		Actor: actor,
		Details: map[string]string{
			"subject":    req.Subject,
			"recipients": strings.Join(req.To, ","),
		},
	})
	writeJSON(w, http.StatusOK, map[string]bool{"sent": true})
}
