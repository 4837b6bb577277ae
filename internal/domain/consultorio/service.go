package consultorio

import (
	"context"
	"strings"

	"github.com/alignwork/api/internal/platform/apperr"
	"github.com/alignwork/api/internal/platform/db"
	"github.com/alignwork/api/internal/platform/validation"
)

type Service struct {
	repo Repository
	tx   db.TxRunner
}

func NewService(repo Repository, tx db.TxRunner) *Service {
	return &Service{repo: repo, tx: tx}
}

// formatCEP masks an already validated CEP as NNNNN-NNN.
func formatCEP(cep string) string {
	digits := validation.Digits(cep)
	return digits[:5] + "-" + digits[5:]
}

// Create validates and stores a consultorio. UF is uppercased and the CEP is
// normalized to the NNNNN-NNN mask before storage.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Consultorio, error) {
	in.Nome = strings.TrimSpace(in.Nome)
	in.Estado = strings.ToUpper(strings.TrimSpace(in.Estado))
	in.Cidade = strings.TrimSpace(in.Cidade)
	in.Rua = strings.TrimSpace(in.Rua)
	in.Numero = strings.TrimSpace(in.Numero)
	in.Bairro = strings.TrimSpace(in.Bairro)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	c := &Consultorio{
		TenantID:              in.TenantID,
		Nome:                  in.Nome,
		Estado:                in.Estado,
		Cidade:                in.Cidade,
		CEP:                   formatCEP(in.CEP),
		Rua:                   in.Rua,
		Numero:                in.Numero,
		Bairro:                in.Bairro,
		InformacoesAdicionais: in.InformacoesAdicionais,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns one consultorio within the tenant.
func (s *Service) Get(ctx context.Context, tenantID string, id int64) (*Consultorio, error) {
	c, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("consultorio not found")
	}
	return c, nil
}

// List returns the tenant's consultorios ordered by name.
func (s *Service) List(ctx context.Context, tenantID string) ([]*Consultorio, error) {
	return s.repo.List(ctx, tenantID)
}

// Update applies a patch inside one transaction.
func (s *Service) Update(ctx context.Context, tenantID string, id int64, patch Patch) (*Consultorio, error) {
	if patch.Estado != nil {
		uf := strings.ToUpper(strings.TrimSpace(*patch.Estado))
		patch.Estado = &uf
	}
	if err := validation.Struct(patch); err != nil {
		return nil, err
	}
	if patch.CEP != nil {
		masked := formatCEP(*patch.CEP)
		patch.CEP = &masked
	}

	var updated *Consultorio
	err := s.tx(ctx, func(ctx context.Context) error {
		c, err := s.repo.FindByID(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if c == nil {
			return apperr.NotFound("consultorio not found")
		}
		next := ApplyPatch(*c, patch)
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

// Delete removes a consultorio.
func (s *Service) Delete(ctx context.Context, tenantID string, id int64) error {
	deleted, err := s.repo.Delete(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("consultorio not found")
	}
	return nil
}
