package httpserver

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/printfarmhq/printfarm/internal/domain"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := s.users.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tok, exp, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"token": tok, "expires_at": exp, "user": u})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := s.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tok, exp, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": tok, "expires_at": exp, "user": u})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentUser(r))
}

func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil {
		writeErrorMessage(w, r, http.StatusNotFound, "google sign-in not configured", "")
		return
	}
	state := uuid.New().String()
	secure := r.TLS != nil
	http.SetCookie(w, &http.Cookie{Name: "oauth_state", Value: state, Path: "/", MaxAge: 600, HttpOnly: true, Secure: secure, SameSite: http.SameSiteLaxMode})
	http.Redirect(w, r, s.oauthCfg.AuthCodeURL(state), http.StatusFound)
}

func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil {
		writeErrorMessage(w, r, http.StatusNotFound, "google sign-in not configured", "")
		return
	}
	q := r.URL.Query()
	c, _ := r.Cookie("oauth_state")
	if c == nil || c.Value == "" || c.Value != q.Get("state") {
		writeErrorMessage(w, r, http.StatusBadRequest, "oauth state mismatch", "")
		return
	}
	tok, err := s.oauthCfg.Exchange(r.Context(), q.Get("code"))
	if err != nil {
		log.Error().Err(err).Msg("oauth exchange")
		writeErrorMessage(w, r, http.StatusBadRequest, "oauth exchange failed", "")
		return
	}
	client := s.oauthCfg.Client(r.Context(), tok)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v3/userinfo")
	if err != nil || resp.StatusCode != http.StatusOK {
		log.Error().Err(err).Msg("oauth userinfo")
		writeErrorMessage(w, r, http.StatusBadRequest, "oauth userinfo failed", "")
		return
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	var info struct {
		Email string `json:"email"`
	}
	_ = json.Unmarshal(body, &info)
	if info.Email == "" {
		writeErrorMessage(w, r, http.StatusBadRequest, "oauth userinfo missing email", "")
		return
	}
	u, err := s.users.FindActiveByEmail(r.Context(), info.Email)
	if err != nil {
		if err == domain.ErrNotFound || err == domain.ErrUnauthorized {
			writeErrorMessage(w, r, http.StatusUnauthorized, "no account for this email", "")
			return
		}
		writeError(w, r, err)
		return
	}
	bearer, exp, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": bearer, "expires_at": exp.Format(time.RFC3339), "user": u})
}

// --- Team members ---

func (s *Server) listTeam(w http.ResponseWriter, r *http.Request) {
	list, err := s.users.ListTeam(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": list, "total": len(list)})
}

func (s *Server) createMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	m, err := s.users.CreateMember(r.Context(), currentUser(r), req.Email, req.Name, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) deleteMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.users.DeleteMember(r.Context(), currentUser(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
