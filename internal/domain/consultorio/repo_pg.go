package consultorio

import (
	"context"
	"errors"

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

const consultorioCols = `id, tenant_id, nome, estado, cidade, cep, rua, numero, bairro,
	informacoes_adicionais, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, c *Consultorio) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO consultorios (tenant_id, nome, estado, cidade, cep, rua, numero, bairro, informacoes_adicionais)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, created_at`,
		c.TenantID, c.Nome, c.Estado, c.Cidade, c.CEP, c.Rua, c.Numero, c.Bairro, c.InformacoesAdicionais,
	).Scan(&c.ID, &c.CreatedAt)
}

func (r *repoPG) FindByID(ctx context.Context, tenantID string, id int64) (*Consultorio, error) {
	return scanConsultorio(r.conn(ctx).QueryRow(ctx,
		`SELECT `+consultorioCols+` FROM consultorios WHERE tenant_id = $1 AND id = $2`, tenantID, id))
}

func (r *repoPG) List(ctx context.Context, tenantID string) ([]*Consultorio, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+consultorioCols+` FROM consultorios WHERE tenant_id = $1 ORDER BY nome`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*Consultorio
	for rows.Next() {
		var c Consultorio
		if err := rows.Scan(&c.ID, &c.TenantID, &c.Nome, &c.Estado, &c.Cidade, &c.CEP, &c.Rua, &c.Numero, &c.Bairro, &c.InformacoesAdicionais, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

func (r *repoPG) Exists(ctx context.Context, tenantID string, id int64) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM consultorios WHERE tenant_id = $1 AND id = $2)`, tenantID, id).Scan(&exists)
	return exists, err
}

func (r *repoPG) Update(ctx context.Context, c *Consultorio) error {
	return r.conn(ctx).QueryRow(ctx, `
		UPDATE consultorios SET nome=$3, estado=$4, cidade=$5, cep=$6, rua=$7, numero=$8,
			bairro=$9, informacoes_adicionais=$10, updated_at=NOW()
		WHERE tenant_id = $1 AND id = $2
		RETURNING updated_at`,
		c.TenantID, c.ID, c.Nome, c.Estado, c.Cidade, c.CEP, c.Rua, c.Numero, c.Bairro, c.InformacoesAdicionais,
	).Scan(&c.UpdatedAt)
}

func (r *repoPG) Delete(ctx context.Context, tenantID string, id int64) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM consultorios WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanConsultorio(row pgx.Row) (*Consultorio, error) {
	var c Consultorio
	err := row.Scan(&c.ID, &c.TenantID, &c.Nome, &c.Estado, &c.Cidade, &c.CEP, &c.Rua, &c.Numero, &c.Bairro, &c.InformacoesAdicionais, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
