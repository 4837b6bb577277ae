package appointment

import "time"

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

const (
	MinDurationMin = 15
	MaxDurationMin = 480
)

// MaxAdvance is how far ahead an appointment may be booked.
const MaxAdvance = 2 * 365 * 24 * time.Hour

// Appointment is a booking. StartsAt is stored in UTC; duration and start
// are immutable after creation, only the status transitions.
type Appointment struct {
	ID            int64      `json:"id"`
	TenantID      string     `json:"tenant_id"`
	PatientID     int64      `json:"patient_id"`
	ConsultorioID *int64     `json:"consultorio_id,omitempty"`
	StartsAt      time.Time  `json:"starts_at"`
	DurationMin   int        `json:"duration_min"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// CreateInput is the booking payload. StartsAt arrives as an ISO instant.
type CreateInput struct {
	TenantID      string `json:"tenantId" validate:"required"`
	PatientID     int64  `json:"patientId" validate:"required,min=1"`
	ConsultorioID *int64 `json:"consultorioId" validate:"omitempty,min=1"`
	StartsAt      string `json:"startsAt" validate:"required"`
	DurationMin   int    `json:"durationMin" validate:"required"`
	Status        string `json:"status" validate:"omitempty,oneof=pending confirmed cancelled"`
}

// StatusInput is the status transition payload.
type StatusInput struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled"`
}

// BucketStats counts active appointments in one bucket. Cancelled rows are
// excluded from all statistics.
type BucketStats struct {
	Confirmed int `json:"confirmed"`
	Pending   int `json:"pending"`
}

// MegaStats is the four-bucket dashboard snapshot.
type MegaStats struct {
	Today     BucketStats `json:"today"`
	Week      BucketStats `json:"week"`
	Month     BucketStats `json:"month"`
	NextMonth BucketStats `json:"nextMonth"`
}

// DayStats tallies one local calendar day for the summary endpoint.
type DayStats struct {
	Total     int `json:"total"`
	Confirmed int `json:"confirmed"`
	Pending   int `json:"pending"`
}

// Summary reports today and tomorrow in the caller's zone.
type Summary struct {
	Today    DayStats `json:"today"`
	Tomorrow DayStats `json:"tomorrow"`
}
