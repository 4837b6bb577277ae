package patient

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alignwork/api/internal/platform/db"
	"github.com/alignwork/api/internal/platform/validation"
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

const patientCols = `id, tenant_id, name, cpf, phone, email, address, notes, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patients (tenant_id, name, cpf, phone, email, address, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at`,
		p.TenantID, p.Name, p.CPF, p.Phone, p.Email, p.Address, p.Notes,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *repoPG) FindByID(ctx context.Context, tenantID string, id int64) (*Patient, error) {
	return scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE tenant_id = $1 AND id = $2`, tenantID, id))
}

func (r *repoPG) FindByCPF(ctx context.Context, tenantID, cpf string) (*Patient, error) {
	return scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE tenant_id = $1 AND cpf = $2`, tenantID, cpf))
}

// Search matches the term against the name (case-insensitive substring) and
// the normalized CPF. An empty term lists the whole tenant.
func (r *repoPG) Search(ctx context.Context, tenantID, term string, limit, offset int) ([]*Patient, int, error) {
	where := `tenant_id = $1`
	args := []interface{}{tenantID}
	if term != "" {
		where += ` AND (name ILIKE $2 OR cpf LIKE $3)`
		args = append(args, "%"+term+"%", "%"+validation.Digits(term)+"%")
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patients WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + patientCols + ` FROM patients WHERE ` + where + ` ORDER BY name`
	if term != "" {
		query += ` LIMIT $4 OFFSET $5`
	} else {
		query += ` LIMIT $2 OFFSET $3`
	}
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		var p Patient
		if err := rows.Scan(&p.ID, &p.TenantID, &p.Name, &p.CPF, &p.Phone, &p.Email, &p.Address, &p.Notes, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		patients = append(patients, &p)
	}
	return patients, total, rows.Err()
}

func (r *repoPG) Count(ctx context.Context, tenantID string) (int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patients WHERE tenant_id = $1`, tenantID).Scan(&total)
	return total, err
}

func (r *repoPG) Exists(ctx context.Context, tenantID string, id int64) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM patients WHERE tenant_id = $1 AND id = $2)`, tenantID, id).Scan(&exists)
	return exists, err
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	return r.conn(ctx).QueryRow(ctx, `
		UPDATE patients SET name=$3, phone=$4, email=$5, address=$6, notes=$7, updated_at=NOW()
		WHERE tenant_id = $1 AND id = $2
		RETURNING updated_at`,
		p.TenantID, p.ID, p.Name, p.Phone, p.Email, p.Address, p.Notes,
	).Scan(&p.UpdatedAt)
}

func (r *repoPG) Delete(ctx context.Context, tenantID string, id int64) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM patients WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.TenantID, &p.Name, &p.CPF, &p.Phone, &p.Email, &p.Address, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
