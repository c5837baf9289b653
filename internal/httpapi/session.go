package httpapi

import (
	"context"
	"errors"
	"net/http"

	"topicnotes/internal/notes"
)

type ctxKey string

const (
	ctxUserID ctxKey = "user_id"
	ctxToken  ctxKey = "session_token"
)

// withUser resolves the session cookie to a user ID before the handler
// runs. An unresolvable token short-circuits with 401; no protected handler
// executes without an identity.
func (s *Server) withUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok, ok := readSessionCookie(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": notes.ErrUnauthenticated.Error()})
			return
		}
		id, err := s.Sessions.Resolve(r.Context(), tok)
		if err != nil {
			// Only a definitively dead token loses its cookie. A transient
			// store failure must not log the client out.
			if errors.Is(err, notes.ErrUnauthenticated) {
				s.clearSessionCookie(w)
			}
			s.writeErr(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), ctxUserID, id)
		ctx = context.WithValue(ctx, ctxToken, tok)
		next(w, r.WithContext(ctx))
	}
}

// userID returns the authenticated user's ID stored by withUser.
func userID(ctx context.Context) int64 {
	id, _ := ctx.Value(ctxUserID).(int64)
	return id
}

// sessionToken returns the resolved session token stored by withUser.
func sessionToken(ctx context.Context) string {
	tok, _ := ctx.Value(ctxToken).(string)
	return tok
}
