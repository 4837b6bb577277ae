package patient

import "context"

// Repository persists patients. Every method is tenant-scoped; Find methods
// return (nil, nil) when no row matches within the tenant.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	FindByID(ctx context.Context, tenantID string, id int64) (*Patient, error)
	FindByCPF(ctx context.Context, tenantID, cpf string) (*Patient, error)
	Search(ctx context.Context, tenantID, term string, limit, offset int) ([]*Patient, int, error)
	Count(ctx context.Context, tenantID string) (int, error)
	Exists(ctx context.Context, tenantID string, id int64) (bool, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, tenantID string, id int64) (bool, error)
}
