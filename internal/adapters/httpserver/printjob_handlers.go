package httpserver

import (
	"net/http"

	"github.com/printfarmhq/printfarm/internal/domain"
	"github.com/printfarmhq/printfarm/internal/usecase"
)

func (s *Server) listPrintJobs(w http.ResponseWriter, r *http.Request) {
	list, err := s.jobs.List(r.Context(), currentUser(r).Scope())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": list, "total": len(list)})
}

func (s *Server) getPrintJob(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	job, err := s.jobs.Get(r.Context(), currentUser(r).Scope(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) createPrintJob(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string                    `json:"name"`
		Products []usecase.JobLineInput    `json:"products"`
		Printers []usecase.JobPrinterInput `json:"printers"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	job, err := s.jobs.Create(r.Context(), currentUser(r).Scope(), req.Name, req.Products, req.Printers)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

func (s *Server) updatePrintJobStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	job, err := s.jobs.UpdateStatus(r.Context(), currentUser(r).Scope(), id, domain.PrintJobStatus(req.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) deletePrintJob(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.jobs.Delete(r.Context(), currentUser(r).Scope(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) printJobCOGS(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	cost, err := s.jobs.COGS(r.Context(), currentUser(r).Scope(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cost)
}
