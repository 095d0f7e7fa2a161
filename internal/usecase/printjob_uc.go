package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/printfarmhq/printfarm/internal/costing"
	"github.com/printfarmhq/printfarm/internal/domain"
	"github.com/printfarmhq/printfarm/internal/tenancy"
)

type PrintJobUC struct {
	Jobs      domain.PrintJobRepo
	Products  domain.ProductRepo
	Printers  domain.PrinterRepo
	Types     domain.PrinterTypeRepo
	Filaments domain.FilamentRepo
}

// JobLineInput is a product line on a new job.
type JobLineInput struct {
	ProductID uuid.UUID `json:"product_id"`
	ItemsQty  int       `json:"items_qty"`
}

// JobPrinterInput assigns a printer with the hours it will run.
type JobPrinterInput struct {
	PrinterID uuid.UUID `json:"printer_id"`
	HoursUsed float64   `json:"hours_used"`
}

// Create logs a new pending print job. Every referenced product and
// printer must exist inside the caller's scope.
func (uc *PrintJobUC) Create(ctx context.Context, sc tenancy.Scope, name string, lines []JobLineInput, printers []JobPrinterInput) (*domain.PrintJob, error) {
	owner, ok := sc.OwnerForCreate()
	if !ok {
		return nil, domain.ErrForbidden
	}
	if len(lines) == 0 {
		return nil, domain.Invalid("products", "at least one product line is required")
	}
	job := &domain.PrintJob{
		ID:      uuid.New(),
		OwnerID: owner,
		Name:    name,
		Status:  domain.PrintJobStatusPending,
	}
	for _, l := range lines {
		if l.ItemsQty < 1 {
			return nil, domain.Invalid("items_qty", "must be at least 1")
		}
		if _, err := uc.Products.FindByID(ctx, sc, l.ProductID); err != nil {
			return nil, err
		}
		job.Products = append(job.Products, domain.PrintJobProduct{
			ID:         uuid.New(),
			PrintJobID: job.ID,
			ProductID:  l.ProductID,
			ItemsQty:   l.ItemsQty,
		})
	}
	for _, a := range printers {
		if a.HoursUsed < 0 {
			return nil, domain.Invalid("hours_used", "must not be negative")
		}
		if _, err := uc.Printers.FindByID(ctx, sc, a.PrinterID); err != nil {
			return nil, err
		}
		job.Printers = append(job.Printers, domain.PrintJobPrinter{
			ID:         uuid.New(),
			PrintJobID: job.ID,
			PrinterID:  a.PrinterID,
			HoursUsed:  a.HoursUsed,
		})
	}
	if err := uc.Jobs.Save(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (uc *PrintJobUC) List(ctx context.Context, sc tenancy.Scope) ([]domain.PrintJob, error) {
	return uc.Jobs.List(ctx, sc)
}

func (uc *PrintJobUC) Get(ctx context.Context, sc tenancy.Scope, id uuid.UUID) (*domain.PrintJob, error) {
	return uc.Jobs.FindByID(ctx, sc, id)
}

func (uc *PrintJobUC) Delete(ctx context.Context, sc tenancy.Scope, id uuid.UUID) error {
	return uc.Jobs.Delete(ctx, sc, id)
}

// UpdateStatus applies a status transition. Starting a job stamps
// started_at and an estimated completion from the plates' print times;
// completing it stamps completed_at and charges the assigned printers'
// working hours.
func (uc *PrintJobUC) UpdateStatus(ctx context.Context, sc tenancy.Scope, id uuid.UUID, to domain.PrintJobStatus) (*domain.PrintJob, error) {
	job, err := uc.Jobs.FindByID(ctx, sc, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(job.Status, to) {
		return nil, domain.Invalid("status", "cannot transition from "+string(job.Status)+" to "+string(to))
	}
	now := time.Now()
	switch to {
	case domain.PrintJobStatusPrinting:
		job.StartedAt = &now
		if hrs := uc.estimatedHours(ctx, sc, job); hrs > 0 {
			eta := now.Add(time.Duration(hrs * float64(time.Hour)))
			job.EstimatedCompletionAt = &eta
		}
	case domain.PrintJobStatusCompleted:
		job.CompletedAt = &now
		for _, a := range job.Printers {
			if err := uc.Printers.AddWorkingHours(ctx, a.PrinterID, a.HoursUsed); err != nil {
				return nil, err
			}
		}
	}
	job.Status = to
	if err := uc.Jobs.Save(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (uc *PrintJobUC) estimatedHours(ctx context.Context, sc tenancy.Scope, job *domain.PrintJob) float64 {
	total := 0.0
	for _, line := range job.Products {
		p, err := uc.Products.FindByID(ctx, sc, line.ProductID)
		if err != nil {
			continue
		}
		perUnit := 0.0
		for _, pl := range p.Plates {
			perUnit += pl.PrintTimeHrs
		}
		if perUnit == 0 {
			perUnit = p.PrintTimeHrs // legacy per-product time
		}
		total += perUnit * float64(line.ItemsQty)
	}
	return total
}

// COGS prices a job: product line costs plus printer amortization summed
// across all assignments.
func (uc *PrintJobUC) COGS(ctx context.Context, sc tenancy.Scope, id uuid.UUID) (*costing.JobCost, error) {
	job, err := uc.Jobs.FindByID(ctx, sc, id)
	if err != nil {
		return nil, err
	}

	lines := make([]costing.JobLine, 0, len(job.Products))
	for _, line := range job.Products {
		p, err := uc.Products.FindByID(ctx, sc, line.ProductID)
		if err != nil {
			if err == domain.ErrNotFound {
				continue // product removed after the job was logged
			}
			return nil, err
		}
		lookup, err := uc.filamentLookup(ctx, sc, p.Plates)
		if err != nil {
			return nil, err
		}
		unit := costing.ProductUnitCost(*p, lookup)
		lines = append(lines, costing.JobLine{
			ProductID: p.ID,
			ItemsQty:  line.ItemsQty,
			UnitCost:  unit.UnitCost,
		})
	}

	uses := make([]costing.PrinterUse, 0, len(job.Printers))
	for _, a := range job.Printers {
		pr, err := uc.Printers.FindByID(ctx, sc, a.PrinterID)
		if err != nil {
			if err == domain.ErrNotFound {
				continue
			}
			return nil, err
		}
		life := 0.0
		if pr.PrinterTypeID != nil {
			if pt, err := uc.Types.FindByID(ctx, sc, *pr.PrinterTypeID); err == nil {
				life = pt.ExpectedLifeHours
			}
		}
		uses = append(uses, costing.PrinterUse{
			PrinterID:         pr.ID,
			PurchasePriceEUR:  pr.PurchasePriceEUR,
			ExpectedLifeHours: life,
			HoursUsed:         a.HoursUsed,
		})
	}

	jc := costing.JobCOGS(lines, uses)
	return &jc, nil
}

func (uc *PrintJobUC) filamentLookup(ctx context.Context, sc tenancy.Scope, plates []domain.Plate) (costing.FilamentLookup, error) {
	seen := map[uuid.UUID]struct{}{}
	ids := []uuid.UUID{}
	for _, pl := range plates {
		for _, u := range pl.FilamentUsages {
			if _, ok := seen[u.FilamentID]; ok {
				continue
			}
			seen[u.FilamentID] = struct{}{}
			ids = append(ids, u.FilamentID)
		}
	}
	filaments, err := uc.Filaments.FindByIDs(ctx, sc, ids)
	if err != nil {
		return nil, err
	}
	return costing.LookupFrom(filaments), nil
}
