package consultorio

import "time"

// Consultorio is a physical service location. Field names follow the API
// contract the frontend already speaks (Portuguese address vocabulary).
type Consultorio struct {
	ID                    int64      `json:"id"`
	TenantID              string     `json:"tenant_id"`
	Nome                  string     `json:"nome"`
	Estado                string     `json:"estado"`
	Cidade                string     `json:"cidade"`
	CEP                   string     `json:"cep"`
	Rua                   string     `json:"rua"`
	Numero                string     `json:"numero"`
	Bairro                string     `json:"bairro"`
	InformacoesAdicionais *string    `json:"informacoes_adicionais,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             *time.Time `json:"updated_at,omitempty"`
}

type CreateInput struct {
	TenantID              string  `json:"tenant_id" validate:"required"`
	Nome                  string  `json:"nome" validate:"required,min=3,max=200"`
	Estado                string  `json:"estado" validate:"required,uf"`
	Cidade                string  `json:"cidade" validate:"required,min=2,max=200"`
	CEP                   string  `json:"cep" validate:"required,cep"`
	Rua                   string  `json:"rua" validate:"required,min=3,max=200"`
	Numero                string  `json:"numero" validate:"required,min=1,max=20"`
	Bairro                string  `json:"bairro" validate:"required,min=2,max=200"`
	InformacoesAdicionais *string `json:"informacoes_adicionais" validate:"omitempty,max=500"`
}

type Patch struct {
	Nome                  *string `json:"nome" validate:"omitempty,min=3,max=200"`
	Estado                *string `json:"estado" validate:"omitempty,uf"`
	Cidade                *string `json:"cidade" validate:"omitempty,min=2,max=200"`
	CEP                   *string `json:"cep" validate:"omitempty,cep"`
	Rua                   *string `json:"rua" validate:"omitempty,min=3,max=200"`
	Numero                *string `json:"numero" validate:"omitempty,min=1,max=20"`
	Bairro                *string `json:"bairro" validate:"omitempty,min=2,max=200"`
	InformacoesAdicionais *string `json:"informacoes_adicionais" validate:"omitempty,max=500"`
}

// ApplyPatch returns a copy of c with every non-nil patch slot applied.
// Normalization (UF case, CEP mask) happens in the service before this runs.
func ApplyPatch(c Consultorio, p Patch) Consultorio {
	if p.Nome != nil {
		c.Nome = *p.Nome
	}
	if p.Estado != nil {
		c.Estado = *p.Estado
	}
	if p.Cidade != nil {
		c.Cidade = *p.Cidade
	}
	if p.CEP != nil {
		c.CEP = *p.CEP
	}
	if p.Rua != nil {
		c.Rua = *p.Rua
	}
	if p.Numero != nil {
		c.Numero = *p.Numero
	}
	if p.Bairro != nil {
		c.Bairro = *p.Bairro
	}
	if p.InformacoesAdicionais != nil {
		c.InformacoesAdicionais = p.InformacoesAdicionais
	}
	return c
}
