package patient

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/alignwork/api/internal/platform/apperr"
	"github.com/alignwork/api/internal/platform/db"
	"github.com/alignwork/api/internal/platform/validation"
	"github.com/alignwork/api/pkg/pagination"
)

type Service struct {
	repo Repository
	tx   db.TxRunner
}

func NewService(repo Repository, tx db.TxRunner) *Service {
	return &Service{repo: repo, tx: tx}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Create registers a patient. The CPF is normalized to digits before the
// per-tenant uniqueness check and the insert, which run in one transaction.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Patient, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	p := &Patient{
		TenantID: in.TenantID,
		Name:     in.Name,
		CPF:      validation.Digits(in.CPF),
		Phone:    in.Phone,
		Email:    in.Email,
		Address:  in.Address,
		Notes:    in.Notes,
	}
	err := s.tx(ctx, func(ctx context.Context) error {
		existing, err := s.repo.FindByCPF(ctx, p.TenantID, p.CPF)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperr.Conflict("patient with this CPF already exists")
		}
		return s.repo.Create(ctx, p)
	})
	if isUniqueViolation(err) {
		return nil, apperr.Conflict("patient with this CPF already exists")
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns one patient within the tenant.
func (s *Service) Get(ctx context.Context, tenantID string, id int64) (*Patient, error) {
	p, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("patient not found")
	}
	return p, nil
}

// List searches the tenant's patients by name or CPF with pagination.
func (s *Service) List(ctx context.Context, tenantID, search string, pg pagination.Params) ([]*Patient, int, error) {
	return s.repo.Search(ctx, tenantID, strings.TrimSpace(search), pg.Limit(), pg.Offset())
}

// Count returns the tenant's patient total.
func (s *Service) Count(ctx context.Context, tenantID string) (int, error) {
	return s.repo.Count(ctx, tenantID)
}

// Update applies a patch to a patient inside one transaction.
func (s *Service) Update(ctx context.Context, tenantID string, id int64, patch Patch) (*Patient, error) {
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		patch.Name = &trimmed
	}
	if patch.Address != nil {
		trimmed := strings.TrimSpace(*patch.Address)
		patch.Address = &trimmed
	}
	if err := validation.Struct(patch); err != nil {
		return nil, err
	}

	var updated *Patient
	err := s.tx(ctx, func(ctx context.Context) error {
		p, err := s.repo.FindByID(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if p == nil {
			return apperr.NotFound("patient not found")
		}
		next := ApplyPatch(*p, patch)
		if err := s.repo.Update(ctx, &next); err != nil {
			return err
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a patient. Hard delete; appointments keep their id.
func (s *Service) Delete(ctx context.Context, tenantID string, id int64) error {
	deleted, err := s.repo.Delete(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("patient not found")
	}
	return nil
}
