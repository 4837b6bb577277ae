package patient

import "time"

// Patient belongs to exactly one tenant. CPF is stored digits-only and is
// unique within the tenant, not globally.
type Patient struct {
	ID        int64      `json:"id"`
	TenantID  string     `json:"tenant_id"`
	Name      string     `json:"name"`
	CPF       string     `json:"cpf"`
	Phone     string     `json:"phone"`
	Email     *string    `json:"email,omitempty"`
	Address   string     `json:"address"`
	Notes     *string    `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// CreateInput is the registration payload.
type CreateInput struct {
	TenantID string  `json:"tenant_id" validate:"required"`
	Name     string  `json:"name" validate:"required,min=3,max=200"`
	CPF      string  `json:"cpf" validate:"required,cpf"`
	Phone    string  `json:"phone" validate:"required,digits_min=10"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Address  string  `json:"address" validate:"required,min=5"`
	Notes    *string `json:"notes"`
}

// Patch carries the mutable fields; CPF and tenant are immutable after
// creation.
type Patch struct {
	Name    *string `json:"name" validate:"omitempty,min=3,max=200"`
	Phone   *string `json:"phone" validate:"omitempty,digits_min=10"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Address *string `json:"address" validate:"omitempty,min=5"`
	Notes   *string `json:"notes"`
}

// ApplyPatch returns a copy of p with every non-nil patch slot applied.
func ApplyPatch(p Patient, patch Patch) Patient {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Phone != nil {
		p.Phone = *patch.Phone
	}
	if patch.Email != nil {
		p.Email = patch.Email
	}
	if patch.Address != nil {
		p.Address = *patch.Address
	}
	if patch.Notes != nil {
		p.Notes = patch.Notes
	}
	return p
}
