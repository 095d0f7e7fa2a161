package httpserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/printfarmhq/printfarm/internal/domain"
)

func (s *Server) listFilaments(w http.ResponseWriter, r *http.Request) {
	list, err := s.filaments.List(r.Context(), currentUser(r).Scope())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": list, "total": len(list)})
}

func (s *Server) getFilament(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	f, err := s.filaments.Get(r.Context(), currentUser(r).Scope(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) createFilament(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Color      string  `json:"color"`
		Brand      string  `json:"brand"`
		Material   string  `json:"material"`
		PricePerKg float64 `json:"price_per_kg"`
		TotalQtyKg float64 `json:"total_qty_kg"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	f := &domain.Filament{
		Color:      req.Color,
		Brand:      req.Brand,
		Material:   req.Material,
		PricePerKg: req.PricePerKg,
		TotalQtyKg: req.TotalQtyKg,
	}
	if err := s.filaments.Create(r.Context(), currentUser(r).Scope(), f); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (s *Server) updateFilament(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	sc := currentUser(r).Scope()
	f, err := s.filaments.Get(r.Context(), sc, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req struct {
		Color      *string  `json:"color"`
		Brand      *string  `json:"brand"`
		Material   *string  `json:"material"`
		PricePerKg *float64 `json:"price_per_kg"`
		TotalQtyKg *float64 `json:"total_qty_kg"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Color != nil {
		f.Color = *req.Color
	}
	if req.Brand != nil {
		f.Brand = *req.Brand
	}
	if req.Material != nil {
		f.Material = *req.Material
	}
	if req.PricePerKg != nil {
		f.PricePerKg = *req.PricePerKg
	}
	if req.TotalQtyKg != nil {
		f.TotalQtyKg = *req.TotalQtyKg
	}
	if err := s.filaments.Update(r.Context(), sc, f); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) deleteFilament(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.filaments.Delete(r.Context(), currentUser(r).Scope(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listFilamentPurchases(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	list, err := s.filaments.ListPurchases(r.Context(), currentUser(r).Scope(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": list, "total": len(list)})
}

func (s *Server) createFilamentPurchase(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		QtyKg          float64    `json:"qty_kg"`
		PricePerKgPaid float64    `json:"price_per_kg_paid"`
		PurchasedAt    *time.Time `json:"purchased_at"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	at := time.Time{}
	if req.PurchasedAt != nil {
		at = *req.PurchasedAt
	}
	p, err := s.filaments.RecordPurchase(r.Context(), currentUser(r).Scope(), id, req.QtyKg, req.PricePerKgPaid, at)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// exportFilaments streams the tenant's inventory as an xlsx workbook.
func (s *Server) exportFilaments(w http.ResponseWriter, r *http.Request) {
	list, err := s.filaments.List(r.Context(), currentUser(r).Scope())
	if err != nil {
		writeError(w, r, err)
		return
	}
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Filaments"
	f.SetSheetName("Sheet1", sheet)
	header := []any{"Brand", "Material", "Color", "Price per kg", "Stock (kg)"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		writeError(w, r, err)
		return
	}
	for i, fl := range list {
		cell := fmt.Sprintf("A%d", i+2)
		row := []any{fl.Brand, fl.Material, fl.Color, fl.PricePerKg, fl.TotalQtyKg}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			writeError(w, r, err)
			return
		}
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=filaments.xlsx")
	if err := f.Write(w); err != nil {
		log.Error().Err(err).Msg("write filament export")
	}
}
