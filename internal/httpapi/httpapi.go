// Package httpapi exposes the topicnotes operation core over a JSON API.
// One route per action; the session token travels in an HttpOnly cookie.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"topicnotes/internal/notes"
	"topicnotes/internal/validate"
)

const sessionCookie = "tn_session"

type Server struct {
	Logger      *slog.Logger
	Credentials *notes.Credentials
	Sessions    *notes.Sessions
	Repo        *notes.Repository

	BindAddr string
	Port     int
	CertPath string
	KeyPath  string
}

// Handler assembles the route table and middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/register", s.handleRegister)
	mux.HandleFunc("/api/login", s.handleLogin)
	mux.HandleFunc("/api/logout", s.withUser(s.handleLogout))
	mux.HandleFunc("/api/deregister", s.withUser(s.handleDeregister))
	mux.HandleFunc("/api/topics", s.withUser(s.handleTopics))
	mux.HandleFunc("/api/topics/", s.withUser(s.handleTopicSub))

	h := withSecurityHeaders(mux)
	h = s.withRequestLog(h)
	return s.withRecover(h)
}

// ListenAndServe starts the HTTP server, with TLS when cert and key paths
// are configured.
func (s *Server) ListenAndServe() error {
	if s.Credentials == nil || s.Sessions == nil || s.Repo == nil {
		return errors.New("core components are required")
	}

	addr := s.BindAddr + ":" + strconv.Itoa(s.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	if s.CertPath != "" && s.KeyPath != "" {
		return httpServer.ListenAndServeTLS(s.CertPath, s.KeyPath)
	}
	return httpServer.ListenAndServe()
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Username string `json:"username"`
		Secret   string `json:"secret"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := validate.Username(req.Username); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if req.Secret == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "secret is required"})
		return
	}

	id, err := s.Credentials.Register(r.Context(), req.Username, req.Secret)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Username string `json:"username"`
		Secret   string `json:"secret"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Username == "" || req.Secret == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing credentials"})
		return
	}

	ctx := r.Context()
	userID, err := s.Credentials.Verify(ctx, req.Username, req.Secret)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	tok, err := s.Sessions.Establish(ctx, userID)
	if err != nil {
		s.writeErr(w, err)
		return
	}

	s.setSessionCookie(w, tok)
	writeJSON(w, http.StatusOK, map[string]string{"ok": "1"})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if err := s.Sessions.Revoke(r.Context(), sessionToken(r.Context())); err != nil {
		s.writeErr(w, err)
		return
	}
	s.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"ok": "1"})
}

func (s *Server) handleDeregister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	// Remove deletes the user and every session bound to it in one
	// transaction, so the logout is atomic with the account deletion.
	if err := s.Credentials.Remove(r.Context(), userID(r.Context())); err != nil {
		s.writeErr(w, err)
		return
	}
	s.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"ok": "1"})
}

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		topics, err := s.Repo.ListTopics(r.Context())
		if err != nil {
			s.writeErr(w, err)
			return
		}
		type item struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		}
		out := make([]item, 0, len(topics))
		for _, t := range topics {
			out = append(out, item{ID: t.ID, Name: t.Name})
		}
		writeJSON(w, http.StatusOK, map[string]any{"topics": out})
	case http.MethodPost:
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}
		if err := validate.TopicName(req.Name); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		id, err := s.Repo.CreateTopic(r.Context(), req.Name)
		if err != nil {
			s.writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": id})
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

// handleTopicSub routes /api/topics/{id}/entries and
// /api/topics/{id}/entries/{eid}.
func (s *Server) handleTopicSub(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/topics/")
	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] != "entries" {
		http.NotFound(w, r)
		return
	}
	topicID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || topicID <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid topic id"})
		return
	}

	if len(parts) == 2 {
		switch r.Method {
		case http.MethodGet:
			s.listEntries(w, r, topicID)
		case http.MethodPost:
			s.addEntry(w, r, topicID)
		default:
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		}
		return
	}

	if len(parts) == 3 {
		entryID, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil || entryID <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid entry id"})
			return
		}
		if r.Method != http.MethodGet {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			return
		}
		s.viewEntry(w, r, topicID, entryID)
		return
	}

	http.NotFound(w, r)
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request, topicID int64) {
	entries, err := s.Repo.ListEntries(r.Context(), topicID)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	type item struct {
		ID      int64  `json:"id"`
		Content string `json:"content"`
	}
	out := make([]item, 0, len(entries))
	for _, e := range entries {
		out = append(out, item{ID: e.ID, Content: e.Content})
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": out})
}

func (s *Server) addEntry(w http.ResponseWriter, r *http.Request, topicID int64) {
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := validate.EntryContent(req.Content); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	id, err := s.Repo.CreateEntry(r.Context(), topicID, req.Content)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id})
}

func (s *Server) viewEntry(w http.ResponseWriter, r *http.Request, topicID, entryID int64) {
	e, err := s.Repo.GetEntry(r.Context(), topicID, entryID)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": e.ID, "content": e.Content})
}

// writeErr maps core errors to HTTP statuses. Unknown errors are logged and
// reported as an opaque server error.
func (s *Server) writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, notes.ErrDuplicateUsername):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, notes.ErrAuthFailed), errors.Is(err, notes.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
	case errors.Is(err, notes.ErrTopicNotFound), errors.Is(err, notes.ErrEntryNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, notes.ErrStoreUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	default:
		s.Logger.Error("unhandled error", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "server error"})
	}
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.CertPath != "",
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(s.Sessions.TTL().Seconds()),
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.CertPath != "",
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
}

func readSessionCookie(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-content-type-options", "nosniff")
		w.Header().Set("x-frame-options", "DENY")
		w.Header().Set("referrer-policy", "no-referrer")
		if r.TLS != nil {
			w.Header().Set("strict-transport-security", "max-age=31536000")
		}
		next.ServeHTTP(w, r)
	})
}
