package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/printfarmhq/printfarm/internal/domain"
)

type ctxKey int

const userCtxKey ctxKey = iota

// currentUser returns the authenticated user stored by requireAuth.
func currentUser(r *http.Request) *domain.User {
	u, _ := r.Context().Value(userCtxKey).(*domain.User)
	return u
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("request")
	})
}

// requireAuth validates the bearer token and loads the account. The scope
// is derived from the user per request, never cached.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			writeErrorMessage(w, r, http.StatusUnauthorized, "missing bearer token", "")
			return
		}
		claims, err := s.tokens.Verify(strings.TrimSpace(authz[len("bearer "):]))
		if err != nil {
			writeErrorMessage(w, r, http.StatusUnauthorized, "invalid token", "")
			return
		}
		u, err := s.users.Get(r.Context(), claims.UserID)
		if err != nil || !u.IsActive {
			writeErrorMessage(w, r, http.StatusUnauthorized, "invalid token", "")
			return
		}
		ctx := context.WithValue(r.Context(), userCtxKey, u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
