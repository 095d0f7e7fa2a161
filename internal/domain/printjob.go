package domain

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/printfarmhq/printfarm/internal/tenancy"
)

type PrintJobStatus string

const (
	PrintJobStatusPending   PrintJobStatus = "pending"
	PrintJobStatusPrinting  PrintJobStatus = "printing"
	PrintJobStatusCompleted PrintJobStatus = "completed"
	PrintJobStatusFailed    PrintJobStatus = "failed"
)

// CanTransition reports whether a job may move from one status to another.
// Jobs progress pending → printing → completed; pending and printing jobs
// may also fail. Completed and failed are terminal.
func CanTransition(from, to PrintJobStatus) bool {
	switch from {
	case PrintJobStatusPending:
		return to == PrintJobStatusPrinting || to == PrintJobStatusFailed
	case PrintJobStatusPrinting:
		return to == PrintJobStatusCompleted || to == PrintJobStatusFailed
	}
	return false
}

// PrintJob is a logged production run over one or more products, executed
// on one or more printer assignments.
type PrintJob struct {
	ID                    uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID               *uuid.UUID        `gorm:"type:uuid;index" json:"owner_id"`
	Name                  string            `gorm:"size:180" json:"name"`
	Status                PrintJobStatus    `gorm:"type:varchar(20);index;default:'pending'" json:"status"`
	StartedAt             *time.Time        `json:"started_at"`
	CompletedAt           *time.Time        `json:"completed_at"`
	EstimatedCompletionAt *time.Time        `json:"estimated_completion_at"`
	Products              []PrintJobProduct `json:"products"`
	Printers              []PrintJobPrinter `json:"printers"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at"`
}

// PrintJobProduct is a product line on a job with the quantity ordered.
type PrintJobProduct struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PrintJobID uuid.UUID `gorm:"type:uuid;index" json:"print_job_id"`
	ProductID  uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	ItemsQty   int       `gorm:"not null;default:1" json:"items_qty"`
}

// PrintJobPrinter assigns a printer to a job for a number of hours.
// Amortized printer cost is charged once per assignment, never per line.
type PrintJobPrinter struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PrintJobID uuid.UUID `gorm:"type:uuid;index" json:"print_job_id"`
	PrinterID  uuid.UUID `gorm:"type:uuid;index" json:"printer_id"`
	HoursUsed  float64   `gorm:"type:decimal(8,2);default:0" json:"hours_used"`
}

type PrintJobRepo interface {
	Save(ctx context.Context, j *PrintJob) error
	FindByID(ctx context.Context, sc tenancy.Scope, id uuid.UUID) (*PrintJob, error)
	List(ctx context.Context, sc tenancy.Scope) ([]PrintJob, error)
	Delete(ctx context.Context, sc tenancy.Scope, id uuid.UUID) error
}
