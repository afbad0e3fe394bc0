// Package handlers exposes the dashboard HTTP API. Handlers follow one
// shape: method check, decode and trim input, do the work, write JSON. Every
// failure surfaces as an inline error response; none is fatal to the process.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dverano/villadesk/internal/session"
)

type ctxKey int

const ctxKeySession ctxKey = iota

func ContextWithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, ctxKeySession, s)
}

func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(ctxKeySession).(*session.Session)
	return s, ok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to build response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
