package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alignwork/api/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const appointmentCols = `id, tenant_id, patient_id, consultorio_id, starts_at, duration_min, status, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointments (tenant_id, patient_id, consultorio_id, starts_at, duration_min, status)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at`,
		a.TenantID, a.PatientID, a.ConsultorioID, a.StartsAt, a.DurationMin, a.Status,
	).Scan(&a.ID, &a.CreatedAt)
}

func (r *repoPG) FindByID(ctx context.Context, tenantID string, id int64) (*Appointment, error) {
	return scanAppointment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+appointmentCols+` FROM appointments WHERE tenant_id = $1 AND id = $2`, tenantID, id))
}

func (r *repoPG) UpdateStatus(ctx context.Context, a *Appointment) error {
	return r.conn(ctx).QueryRow(ctx, `
		UPDATE appointments SET status=$3, updated_at=NOW()
		WHERE tenant_id = $1 AND id = $2
		RETURNING updated_at`,
		a.TenantID, a.ID, a.Status,
	).Scan(&a.UpdatedAt)
}

// CountByStatus is one aggregate scan; FILTER keeps it a single pass over the
// interval instead of two independent counts.
func (r *repoPG) CountByStatus(ctx context.Context, tenantID string, start, end time.Time) (BucketStats, error) {
	var stats BucketStats
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'confirmed'),
			COUNT(*) FILTER (WHERE status = 'pending')
		FROM appointments
		WHERE tenant_id = $1 AND starts_at >= $2 AND starts_at < $3`,
		tenantID, start, end,
	).Scan(&stats.Confirmed, &stats.Pending)
	return stats, err
}

func (r *repoPG) ListInRange(ctx context.Context, tenantID string, start, end time.Time) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+appointmentCols+` FROM appointments
		WHERE tenant_id = $1 AND starts_at >= $2 AND starts_at < $3
		ORDER BY starts_at`,
		tenantID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []*Appointment
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.ID, &a.TenantID, &a.PatientID, &a.ConsultorioID, &a.StartsAt, &a.DurationMin, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		appts = append(appts, &a)
	}
	return appts, rows.Err()
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.TenantID, &a.PatientID, &a.ConsultorioID, &a.StartsAt, &a.DurationMin, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
