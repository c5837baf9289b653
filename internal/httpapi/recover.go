package httpapi

import (
	"net/http"
	"runtime/debug"
)

// withRecover converts a handler panic into a logged 500 response, so one
// bad request cannot take the whole API down.
func (s *Server) withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			s.Logger.Error("recovered handler panic",
				"value", v,
				"method", r.Method,
				"path", r.URL.Path,
				"stack", string(debug.Stack()),
			)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "server error"})
		}()
		next.ServeHTTP(w, r)
	})
}
