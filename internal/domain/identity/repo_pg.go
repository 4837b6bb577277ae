package identity

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

const userCols = `id, email, password_hash, first_name, last_name, gender,
	profile_photo_url, phone_personal, phone_professional, phone_clinic,
	is_active, is_verified, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, u *User) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO users (
			email, password_hash, first_name, last_name, gender,
			profile_photo_url, phone_personal, phone_professional, phone_clinic,
			is_active, is_verified
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at`,
		u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Gender,
		u.ProfilePhotoURL, u.PhonePersonal, u.PhoneProfessional, u.PhoneClinic,
		u.IsActive, u.IsVerified,
	).Scan(&u.ID, &u.CreatedAt)
}

func (r *repoPG) FindByID(ctx context.Context, id int64) (*User, error) {
	return scanUser(r.conn(ctx).QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id))
}

func (r *repoPG) FindByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.conn(ctx).QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE email = $1`, email))
}

func (r *repoPG) Update(ctx context.Context, u *User) error {
	return r.conn(ctx).QueryRow(ctx, `
		UPDATE users SET
			email=$2, password_hash=$3, first_name=$4, last_name=$5, gender=$6,
			profile_photo_url=$7, phone_personal=$8, phone_professional=$9,
			phone_clinic=$10, is_active=$11, is_verified=$12, updated_at=NOW()
		WHERE id = $1
		RETURNING updated_at`,
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Gender,
		u.ProfilePhotoURL, u.PhonePersonal, u.PhoneProfessional, u.PhoneClinic,
		u.IsActive, u.IsVerified,
	).Scan(&u.UpdatedAt)
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Gender,
		&u.ProfilePhotoURL, &u.PhonePersonal, &u.PhoneProfessional, &u.PhoneClinic,
		&u.IsActive, &u.IsVerified, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
