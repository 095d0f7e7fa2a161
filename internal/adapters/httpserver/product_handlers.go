package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/printfarmhq/printfarm/internal/domain"
)

// plateInput is the wire shape of a plate, also accepted as a JSON string
// inside multipart form data.
type plateInput struct {
	Name           string       `json:"name"`
	Quantity       int          `json:"quantity"`
	PrintTimeHrs   float64      `json:"print_time_hrs"`
	FilamentUsages []usageInput `json:"filament_usages"`
}

type usageInput struct {
	FilamentID uuid.UUID `json:"filament_id"`
	GramsUsed  float64   `json:"grams_used"`
}

func (p plateInput) toDomain() domain.Plate {
	pl := domain.Plate{
		Name:         p.Name,
		Quantity:     p.Quantity,
		PrintTimeHrs: p.PrintTimeHrs,
	}
	if pl.Quantity == 0 {
		pl.Quantity = 1
	}
	for _, u := range p.FilamentUsages {
		pl.FilamentUsages = append(pl.FilamentUsages, domain.PlateFilamentUsage{
			FilamentID: u.FilamentID,
			GramsUsed:  u.GramsUsed,
		})
	}
	return pl
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	list, err := s.products.List(r.Context(), currentUser(r).Scope())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": list, "total": len(list)})
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := s.products.Get(r.Context(), currentUser(r).Scope(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// createProduct accepts either a JSON body or a multipart form carrying
// model/G-code files plus a JSON-encoded `plates` field.
func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		s.createProductMultipart(w, r)
		return
	}
	var req struct {
		Name                string       `json:"name"`
		SKU                 string       `json:"sku"`
		PrintTimeHrs        float64      `json:"print_time_hrs"`
		AdditionalPartsCost float64      `json:"additional_parts_cost"`
		Plates              []plateInput `json:"plates"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	p := &domain.Product{
		Name:                req.Name,
		SKU:                 req.SKU,
		PrintTimeHrs:        req.PrintTimeHrs,
		AdditionalPartsCost: req.AdditionalPartsCost,
	}
	for _, in := range req.Plates {
		p.Plates = append(p.Plates, in.toDomain())
	}
	if err := s.products.Create(r.Context(), currentUser(r).Scope(), p); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) createProductMultipart(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		writeErrorMessage(w, r, http.StatusBadRequest, "invalid multipart form", "")
		return
	}
	p := &domain.Product{
		Name: strings.TrimSpace(r.FormValue("name")),
		SKU:  strings.TrimSpace(r.FormValue("sku")),
	}
	if v := r.FormValue("print_time_hrs"); v != "" {
		p.PrintTimeHrs, _ = strconv.ParseFloat(v, 64)
	}
	if v := r.FormValue("additional_parts_cost"); v != "" {
		p.AdditionalPartsCost, _ = strconv.ParseFloat(v, 64)
	}
	// nested arrays arrive as a JSON string inside the form
	if raw := r.FormValue("plates"); raw != "" {
		var plates []plateInput
		if err := json.Unmarshal([]byte(raw), &plates); err != nil {
			writeErrorMessage(w, r, http.StatusBadRequest, "invalid plates json", "plates")
			return
		}
		for _, in := range plates {
			p.Plates = append(p.Plates, in.toDomain())
		}
	}
	for field, dst := range map[string]*string{"model_file": &p.ModelFilePath, "gcode_file": &p.GCodeFilePath} {
		file, hdr, err := r.FormFile(field)
		if err != nil {
			continue
		}
		path, err := s.storage.Save(hdr.Filename, file)
		file.Close()
		if err != nil {
			writeError(w, r, err)
			return
		}
		*dst = path
	}
	if err := s.products.Create(r.Context(), currentUser(r).Scope(), p); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	sc := currentUser(r).Scope()
	p, err := s.products.Get(r.Context(), sc, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req struct {
		Name                *string  `json:"name"`
		SKU                 *string  `json:"sku"`
		PrintTimeHrs        *float64 `json:"print_time_hrs"`
		AdditionalPartsCost *float64 `json:"additional_parts_cost"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.SKU != nil {
		p.SKU = *req.SKU
	}
	if req.PrintTimeHrs != nil {
		p.PrintTimeHrs = *req.PrintTimeHrs
	}
	if req.AdditionalPartsCost != nil {
		p.AdditionalPartsCost = *req.AdditionalPartsCost
	}
	if err := s.products.Update(r.Context(), sc, p); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	sc := currentUser(r).Scope()
	p, err := s.products.Get(r.Context(), sc, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.products.Delete(r.Context(), sc, id); err != nil {
		writeError(w, r, err)
		return
	}
	_ = s.storage.Remove(p.ModelFilePath)
	_ = s.storage.Remove(p.GCodeFilePath)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) productCost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	cost, err := s.products.Cost(r.Context(), currentUser(r).Scope(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cost)
}

// --- Plates ---

func (s *Server) addPlate(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req plateInput
	if !decodeJSON(w, r, &req) {
		return
	}
	pl := req.toDomain()
	if err := s.products.AddPlate(r.Context(), currentUser(r).Scope(), productID, &pl); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, pl)
}

func (s *Server) updatePlate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	sc := currentUser(r).Scope()
	existing, err := s.products.GetPlate(r.Context(), sc, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req struct {
		Name           *string      `json:"name"`
		Quantity       *int         `json:"quantity"`
		PrintTimeHrs   *float64     `json:"print_time_hrs"`
		FilamentUsages []usageInput `json:"filament_usages"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Quantity != nil {
		existing.Quantity = *req.Quantity
	}
	if req.PrintTimeHrs != nil {
		existing.PrintTimeHrs = *req.PrintTimeHrs
	}
	if req.FilamentUsages != nil {
		existing.FilamentUsages = nil
		for _, u := range req.FilamentUsages {
			existing.FilamentUsages = append(existing.FilamentUsages, domain.PlateFilamentUsage{
				FilamentID: u.FilamentID,
				GramsUsed:  u.GramsUsed,
			})
		}
	}
	if err := s.products.UpdatePlate(r.Context(), sc, existing); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, existing)
}

func (s *Server) deletePlate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.products.DeletePlate(r.Context(), currentUser(r).Scope(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
