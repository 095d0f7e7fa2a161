// Package costing computes production costs (COGS) over already-fetched
// rows. All arithmetic is float64 with no intermediate rounding; repeated
// addition may drift at cent level, callers round at presentation time only.
// The engine never errors: missing references contribute zero and hard
// failures belong to the fetch/validation layer above it.
package costing

import (
	"github.com/google/uuid"

	"github.com/printfarmhq/printfarm/internal/domain"
)

// FilamentLookup resolves a filament id to its price per kg. A false return
// means the filament was deleted after a plate referenced it.
type FilamentLookup func(filamentID uuid.UUID) (pricePerKg float64, ok bool)

// LookupFrom builds a FilamentLookup over a fetched filament slice.
func LookupFrom(filaments []domain.Filament) FilamentLookup {
	byID := make(map[uuid.UUID]float64, len(filaments))
	for _, f := range filaments {
		byID[f.ID] = f.PricePerKg
	}
	return func(id uuid.UUID) (float64, bool) {
		price, ok := byID[id]
		return price, ok
	}
}

// PlateCost sums the filament cost of a single plate. Usages referencing a
// missing filament are skipped rather than raising.
func PlateCost(plate domain.Plate, lookup FilamentLookup) float64 {
	cost := 0.0
	for _, u := range plate.FilamentUsages {
		price, ok := lookup(u.FilamentID)
		if !ok {
			continue
		}
		cost += (u.GramsUsed / 1000.0) * price
	}
	return cost
}

// PlateLine is the cost contribution of one plate within a product.
type PlateLine struct {
	PlateID uuid.UUID `json:"plate_id"`
	Name    string    `json:"name"`
	Cost    float64   `json:"cost"`
}

// ProductCost breaks down the cost of producing one unit of a product.
type ProductCost struct {
	Plates          []PlateLine `json:"plates"`
	PlatesTotal     float64     `json:"plates_total"`
	AdditionalParts float64     `json:"additional_parts_cost"`
	UnitCost        float64     `json:"unit_cost"`
}

// ProductUnitCost sums all plate costs plus the product's additional parts.
func ProductUnitCost(product domain.Product, lookup FilamentLookup) ProductCost {
	pc := ProductCost{Plates: []PlateLine{}}
	for _, plate := range product.Plates {
		c := PlateCost(plate, lookup)
		pc.Plates = append(pc.Plates, PlateLine{PlateID: plate.ID, Name: plate.Name, Cost: c})
		pc.PlatesTotal += c
	}
	pc.AdditionalParts = product.AdditionalPartsCost
	pc.UnitCost = pc.PlatesTotal + pc.AdditionalParts
	return pc
}

// Amortization spreads a printer's purchase price over its expected life.
// A zero or negative expected life contributes nothing.
func Amortization(purchasePriceEUR, expectedLifeHours, hoursUsed float64) float64 {
	if expectedLifeHours <= 0 {
		return 0
	}
	return (purchasePriceEUR / expectedLifeHours) * hoursUsed
}

// JobLine is a product line item on a print job.
type JobLine struct {
	ProductID uuid.UUID
	ItemsQty  int
	UnitCost  float64
}

// PrinterUse is one printer assignment on a print job.
type PrinterUse struct {
	PrinterID         uuid.UUID
	PurchasePriceEUR  float64
	ExpectedLifeHours float64
	HoursUsed         float64
}

// JobLineCost is the priced form of a JobLine.
type JobLineCost struct {
	ProductID uuid.UUID `json:"product_id"`
	ItemsQty  int       `json:"items_qty"`
	UnitCost  float64   `json:"unit_cost"`
	LineCost  float64   `json:"line_cost"`
}

// JobCost is the full COGS breakdown of a print job.
type JobCost struct {
	Lines               []JobLineCost `json:"lines"`
	LinesTotal          float64       `json:"lines_total"`
	PrinterAmortization float64       `json:"printer_amortization"`
	Total               float64       `json:"total"`
}

// JobCOGS prices every product line and adds printer amortization summed
// across all assignments, charged once per job.
func JobCOGS(lines []JobLine, printers []PrinterUse) JobCost {
	jc := JobCost{Lines: []JobLineCost{}}
	for _, l := range lines {
		lineCost := l.UnitCost * float64(l.ItemsQty)
		jc.Lines = append(jc.Lines, JobLineCost{
			ProductID: l.ProductID,
			ItemsQty:  l.ItemsQty,
			UnitCost:  l.UnitCost,
			LineCost:  lineCost,
		})
		jc.LinesTotal += lineCost
	}
	for _, p := range printers {
		jc.PrinterAmortization += Amortization(p.PurchasePriceEUR, p.ExpectedLifeHours, p.HoursUsed)
	}
	jc.Total = jc.LinesTotal + jc.PrinterAmortization
	return jc
}
