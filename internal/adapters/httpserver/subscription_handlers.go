package httpserver

import "net/http"

func (s *Server) getSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := s.subscriptions.Get(r.Context(), currentUser(r).Scope())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (s *Server) putSubscription(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Plan string `json:"plan"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	sub, err := s.subscriptions.SetPlan(r.Context(), currentUser(r).Scope(), req.Plan)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}
