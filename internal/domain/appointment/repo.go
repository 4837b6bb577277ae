package appointment

import (
	"context"
	"time"
)

// Repository persists appointments, tenant-scoped throughout.
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	FindByID(ctx context.Context, tenantID string, id int64) (*Appointment, error)
	UpdateStatus(ctx context.Context, a *Appointment) error
	// CountByStatus counts confirmed and pending rows in [start, end) in a
	// single aggregate pass.
	CountByStatus(ctx context.Context, tenantID string, start, end time.Time) (BucketStats, error)
	// ListInRange returns every row with starts_at in [start, end).
	ListInRange(ctx context.Context, tenantID string, start, end time.Time) ([]*Appointment, error)
}

// PatientDirectory answers whether a patient exists within a tenant.
type PatientDirectory interface {
	Exists(ctx context.Context, tenantID string, id int64) (bool, error)
}

// ConsultorioDirectory answers whether a consultorio exists within a tenant.
type ConsultorioDirectory interface {
	Exists(ctx context.Context, tenantID string, id int64) (bool, error)
}
