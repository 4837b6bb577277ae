package consultorio

import "context"

// Repository persists consultorios, tenant-scoped throughout.
type Repository interface {
	Create(ctx context.Context, c *Consultorio) error
	FindByID(ctx context.Context, tenantID string, id int64) (*Consultorio, error)
	List(ctx context.Context, tenantID string) ([]*Consultorio, error)
	Exists(ctx context.Context, tenantID string, id int64) (bool, error)
	Update(ctx context.Context, c *Consultorio) error
	Delete(ctx context.Context, tenantID string, id int64) (bool, error)
}
