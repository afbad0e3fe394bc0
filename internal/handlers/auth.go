package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dverano/villadesk/internal/gridstore"
	"github.com/dverano/villadesk/internal/session"
	"github.com/dverano/villadesk/libs/auth"
)

type AuthHandler struct {
	passcodeHash string
	secret       string
	tokenTTL     time.Duration
	sessions     *session.Manager
	logger       *slog.Logger
}

func NewAuthHandler(passcodeHash, secret string, tokenTTL time.Duration, sessions *session.Manager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		passcodeHash: passcodeHash,
		secret:       secret,
		tokenTTL:     tokenTTL,
		sessions:     sessions,
		logger:       logger,
	}
}

type loginRequest struct {
	Operator string `json:"operator"`
	Passcode string `json:"passcode"`
}

type loginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	SessionID string `json:"session_id"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	req.Operator = strings.TrimSpace(req.Operator)
	req.Passcode = strings.TrimSpace(req.Passcode)
	if req.Operator == "" || req.Passcode == "" {
		writeError(w, http.StatusBadRequest, "operator and passcode required")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.passcodeHash), []byte(req.Passcode)); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid passcode")
		return
	}

	sess := h.sessions.Create(req.Operator)
	now := time.Now()
	token, err := auth.SignHS256(auth.Claims{
		Sub:   sess.ID,
		Actor: req.Operator,
		Role:  "operator",
		Iat:   now.Unix(),
		Exp:   now.Add(h.tokenTTL).Unix(),
	}, h.secret)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to sign token")
		return
	}

	sess.LogActivity("info", "session started")
	writeJSON(w, http.StatusOK, loginResponse{Token: token, TokenType: "Bearer", SessionID: sess.ID})
}

type credentialsResponse struct {
	ClientEmail string `json:"client_email"`
	Hint        string `json:"hint"`
}

// UploadCredentials validates an uploaded service-account JSON file and
// echoes back the client_email the workbook folder must be shared with.
func (h *AuthHandler) UploadCredentials(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	creds, err := gridstore.ParseCredentials(data)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	if sess, ok := SessionFromContext(r.Context()); ok {
		sess.LogActivity("info", "credentials validated for "+creds.ClientEmail)
	}
	writeJSON(w, http.StatusOK, credentialsResponse{
		ClientEmail: creds.ClientEmail,
		Hint:        "share the workbook folder with this address",
	})
}

// RequireSession authenticates the bearer token and attaches the operator's
// session to the request context.
func (h *AuthHandler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := auth.ParseAndVerifyHS256(strings.TrimPrefix(header, "Bearer "), h.secret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		sess, ok := h.sessions.Get(claims.Sub)
		if !ok {
			writeError(w, http.StatusUnauthorized, "session expired")
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), sess)))
	})
}
