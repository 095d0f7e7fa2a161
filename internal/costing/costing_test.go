package costing

import (
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/printfarmhq/printfarm/internal/domain"
)

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPlateCostEmptyUsages(t *testing.T) {
	got := PlateCost(domain.Plate{}, LookupFrom(nil))
	if got != 0 {
		t.Fatalf("cost = %v, want 0", got)
	}
}

func TestPlateCostSingleUsage(t *testing.T) {
	f := domain.Filament{ID: uuid.New(), PricePerKg: 25}
	plate := domain.Plate{FilamentUsages: []domain.PlateFilamentUsage{
		{FilamentID: f.ID, GramsUsed: 120},
	}}
	got := PlateCost(plate, LookupFrom([]domain.Filament{f}))
	if want := (120.0 / 1000.0) * 25.0; !nearlyEqual(got, want) {
		t.Fatalf("cost = %v, want %v", got, want)
	}
}

func TestPlateCostMissingFilamentSkipped(t *testing.T) {
	f := domain.Filament{ID: uuid.New(), PricePerKg: 20}
	plate := domain.Plate{FilamentUsages: []domain.PlateFilamentUsage{
		{FilamentID: f.ID, GramsUsed: 100},
		{FilamentID: uuid.New(), GramsUsed: 500}, // deleted filament
	}}
	got := PlateCost(plate, LookupFrom([]domain.Filament{f}))
	if want := 2.0; !nearlyEqual(got, want) {
		t.Fatalf("cost = %v, want %v", got, want)
	}
}

func TestPlateCostTwoFilaments(t *testing.T) {
	f1 := domain.Filament{ID: uuid.New(), PricePerKg: 20}
	f2 := domain.Filament{ID: uuid.New(), PricePerKg: 30}
	plate := domain.Plate{FilamentUsages: []domain.PlateFilamentUsage{
		{FilamentID: f1.ID, GramsUsed: 100},
		{FilamentID: f2.ID, GramsUsed: 50},
	}}
	got := PlateCost(plate, LookupFrom([]domain.Filament{f1, f2}))
	if want := 3.5; !nearlyEqual(got, want) {
		t.Fatalf("cost = %v, want %v", got, want)
	}
}

func TestProductUnitCost(t *testing.T) {
	f1 := domain.Filament{ID: uuid.New(), PricePerKg: 35}
	f2 := domain.Filament{ID: uuid.New(), PricePerKg: 24}
	product := domain.Product{
		AdditionalPartsCost: 0.5,
		Plates: []domain.Plate{
			{ID: uuid.New(), Name: "Body", FilamentUsages: []domain.PlateFilamentUsage{
				{FilamentID: f1.ID, GramsUsed: 100},
			}},
			{ID: uuid.New(), Name: "Lid", FilamentUsages: []domain.PlateFilamentUsage{
				{FilamentID: f2.ID, GramsUsed: 50},
			}},
		},
	}
	pc := ProductUnitCost(product, LookupFrom([]domain.Filament{f1, f2}))
	if len(pc.Plates) != 2 {
		t.Fatalf("plate lines = %d, want 2", len(pc.Plates))
	}
	if !nearlyEqual(pc.Plates[0].Cost, 3.5) || !nearlyEqual(pc.Plates[1].Cost, 1.2) {
		t.Fatalf("plate costs = %v, %v", pc.Plates[0].Cost, pc.Plates[1].Cost)
	}
	if want := 3.5 + 1.2 + 0.5; !nearlyEqual(pc.UnitCost, want) {
		t.Fatalf("unit cost = %v, want %v", pc.UnitCost, want)
	}
}

func TestAmortization(t *testing.T) {
	if got := Amortization(800, 20000, 10); !nearlyEqual(got, 0.4) {
		t.Fatalf("amortization = %v, want 0.4", got)
	}
	if got := Amortization(800, 0, 10); got != 0 {
		t.Fatalf("zero life should amortize to 0, got %v", got)
	}
	if got := Amortization(800, -5, 10); got != 0 {
		t.Fatalf("negative life should amortize to 0, got %v", got)
	}
}

func TestJobCOGS(t *testing.T) {
	productID := uuid.New()
	jc := JobCOGS(
		[]JobLine{{ProductID: productID, ItemsQty: 4, UnitCost: 5.2}},
		[]PrinterUse{
			{PrinterID: uuid.New(), PurchasePriceEUR: 800, ExpectedLifeHours: 20000, HoursUsed: 10},
			{PrinterID: uuid.New(), PurchasePriceEUR: 1200, ExpectedLifeHours: 10000, HoursUsed: 5},
		},
	)
	if want := 5.2 * 4; !nearlyEqual(jc.LinesTotal, want) {
		t.Fatalf("lines total = %v, want %v", jc.LinesTotal, want)
	}
	// each assignment amortizes separately and they sum
	if want := 0.4 + 0.6; !nearlyEqual(jc.PrinterAmortization, want) {
		t.Fatalf("amortization = %v, want %v", jc.PrinterAmortization, want)
	}
	if want := 20.8 + 1.0; !nearlyEqual(jc.Total, want) {
		t.Fatalf("total = %v, want %v", jc.Total, want)
	}
	if len(jc.Lines) != 1 || !nearlyEqual(jc.Lines[0].LineCost, 20.8) {
		t.Fatalf("line cost = %+v", jc.Lines)
	}
}

func TestJobCOGSLineScenario(t *testing.T) {
	// two plates at 3.50 and 1.20 plus 0.50 additional parts, four units
	f1 := domain.Filament{ID: uuid.New(), PricePerKg: 35}
	f2 := domain.Filament{ID: uuid.New(), PricePerKg: 24}
	product := domain.Product{
		AdditionalPartsCost: 0.5,
		Plates: []domain.Plate{
			{FilamentUsages: []domain.PlateFilamentUsage{{FilamentID: f1.ID, GramsUsed: 100}}},
			{FilamentUsages: []domain.PlateFilamentUsage{{FilamentID: f2.ID, GramsUsed: 50}}},
		},
	}
	pc := ProductUnitCost(product, LookupFrom([]domain.Filament{f1, f2}))
	jc := JobCOGS([]JobLine{{ProductID: uuid.New(), ItemsQty: 4, UnitCost: pc.UnitCost}}, nil)
	if want := (3.5 + 1.2 + 0.5) * 4; !nearlyEqual(jc.Total, want) {
		t.Fatalf("total = %v, want %v", jc.Total, want)
	}
}
