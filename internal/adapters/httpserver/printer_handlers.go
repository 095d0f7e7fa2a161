package httpserver

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/printfarmhq/printfarm/internal/domain"
)

// --- Printer types ---

func (s *Server) listPrinterTypes(w http.ResponseWriter, r *http.Request) {
	list, err := s.printers.ListTypes(r.Context(), currentUser(r).Scope())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": list, "total": len(list)})
}

func (s *Server) getPrinterType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	pt, err := s.printers.GetType(r.Context(), currentUser(r).Scope(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pt)
}

func (s *Server) createPrinterType(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Brand             string  `json:"brand"`
		Model             string  `json:"model"`
		ExpectedLifeHours float64 `json:"expected_life_hours"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	pt := &domain.PrinterType{
		Brand:             req.Brand,
		Model:             req.Model,
		ExpectedLifeHours: req.ExpectedLifeHours,
	}
	if err := s.printers.CreateType(r.Context(), currentUser(r).Scope(), pt); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, pt)
}

func (s *Server) updatePrinterType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	sc := currentUser(r).Scope()
	pt, err := s.printers.GetType(r.Context(), sc, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req struct {
		Brand             *string  `json:"brand"`
		Model             *string  `json:"model"`
		ExpectedLifeHours *float64 `json:"expected_life_hours"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Brand != nil {
		pt.Brand = *req.Brand
	}
	if req.Model != nil {
		pt.Model = *req.Model
	}
	if req.ExpectedLifeHours != nil {
		pt.ExpectedLifeHours = *req.ExpectedLifeHours
	}
	if err := s.printers.UpdateType(r.Context(), sc, pt); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pt)
}

func (s *Server) deletePrinterType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.printers.DeleteType(r.Context(), currentUser(r).Scope(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Printers ---

func (s *Server) listPrinters(w http.ResponseWriter, r *http.Request) {
	list, err := s.printers.List(r.Context(), currentUser(r).Scope())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": list, "total": len(list)})
}

func (s *Server) getPrinter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := s.printers.Get(r.Context(), currentUser(r).Scope(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) createPrinter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name             string     `json:"name"`
		PrinterTypeID    *uuid.UUID `json:"printer_type_id"`
		PurchasePriceEUR float64    `json:"purchase_price_eur"`
		WorkingHours     float64    `json:"working_hours"`
		Status           string     `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	p := &domain.Printer{
		Name:             req.Name,
		PrinterTypeID:    req.PrinterTypeID,
		PurchasePriceEUR: req.PurchasePriceEUR,
		WorkingHours:     req.WorkingHours,
		Status:           domain.PrinterStatus(req.Status),
	}
	if err := s.printers.Create(r.Context(), currentUser(r).Scope(), p); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) updatePrinter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	sc := currentUser(r).Scope()
	p, err := s.printers.Get(r.Context(), sc, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req struct {
		Name             *string    `json:"name"`
		PrinterTypeID    *uuid.UUID `json:"printer_type_id"`
		PurchasePriceEUR *float64   `json:"purchase_price_eur"`
		WorkingHours     *float64   `json:"working_hours"`
		Status           *string    `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.PrinterTypeID != nil {
		p.PrinterTypeID = req.PrinterTypeID
	}
	if req.PurchasePriceEUR != nil {
		p.PurchasePriceEUR = *req.PurchasePriceEUR
	}
	if req.WorkingHours != nil {
		p.WorkingHours = *req.WorkingHours
	}
	if req.Status != nil {
		p.Status = domain.PrinterStatus(*req.Status)
	}
	if err := s.printers.Update(r.Context(), sc, p); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) deletePrinter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.printers.Delete(r.Context(), currentUser(r).Scope(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
