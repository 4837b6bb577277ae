package consultorio

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/alignwork/api/internal/platform/apperr"
)

type fakeRepo struct {
	rows   map[int64]*Consultorio
	nextID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[int64]*Consultorio), nextID: 1}
}

func (r *fakeRepo) Create(ctx context.Context, c *Consultorio) error {
	c.ID = r.nextID
	r.nextID++
	c.CreatedAt = time.Now().UTC()
	cp := *c
	r.rows[c.ID] = &cp
	return nil
}

func (r *fakeRepo) FindByID(ctx context.Context, tenantID string, id int64) (*Consultorio, error) {
	c, ok := r.rows[id]
	if !ok || c.TenantID != tenantID {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeRepo) List(ctx context.Context, tenantID string) ([]*Consultorio, error) {
	var out []*Consultorio
	for _, c := range r.rows {
		if c.TenantID == tenantID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nome < out[j].Nome })
	return out, nil
}

func (r *fakeRepo) Exists(ctx context.Context, tenantID string, id int64) (bool, error) {
	c, ok := r.rows[id]
	return ok && c.TenantID == tenantID, nil
}

func (r *fakeRepo) Update(ctx context.Context, c *Consultorio) error {
	cp := *c
	r.rows[c.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, tenantID string, id int64) (bool, error) {
	c, ok := r.rows[id]
	if !ok || c.TenantID != tenantID {
		return false, nil
	}
	delete(r.rows, id)
	return true, nil
}

func passthroughTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func validInput() CreateInput {
	return CreateInput{
		TenantID: "clinic-a",
		Nome:     "Consultório Centro",
		Estado:   "pe",
		Cidade:   "Recife",
		CEP:      "50030230",
		Rua:      "Av. Rio Branco",
		Numero:   "240",
		Bairro:   "Recife Antigo",
	}
}

func TestCreateNormalizes(t *testing.T) {
	svc := NewService(newFakeRepo(), passthroughTx)

	c, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatal(err)
	}
	if c.Estado != "PE" {
		t.Fatalf("Estado = %q, want uppercase UF", c.Estado)
	}
	if c.CEP != "50030-230" {
		t.Fatalf("CEP = %q, want NNNNN-NNN", c.CEP)
	}
}

func TestCreateAcceptsMaskedCEP(t *testing.T) {
	svc := NewService(newFakeRepo(), passthroughTx)

	in := validInput()
	in.CEP = "50030-230"
	c, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if c.CEP != "50030-230" {
		t.Fatalf("CEP = %q", c.CEP)
	}
}

func TestCreateRejectsUnknownUF(t *testing.T) {
	svc := NewService(newFakeRepo(), passthroughTx)

	in := validInput()
	in.Estado = "XX"
	_, err := svc.Create(context.Background(), in)
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestCreateRejectsShortCEP(t *testing.T) {
	svc := NewService(newFakeRepo(), passthroughTx)

	in := validInput()
	in.CEP = "5003023"
	_, err := svc.Create(context.Background(), in)
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestUpdatePatchNormalizes(t *testing.T) {
	svc := NewService(newFakeRepo(), passthroughTx)

	c, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatal(err)
	}

	uf := "sp"
	cep := "01310100"
	updated, err := svc.Update(context.Background(), "clinic-a", c.ID, Patch{Estado: &uf, CEP: &cep})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Estado != "SP" {
		t.Fatalf("Estado = %q", updated.Estado)
	}
	if updated.CEP != "01310-100" {
		t.Fatalf("CEP = %q", updated.CEP)
	}
	if updated.Nome != c.Nome {
		t.Fatal("untouched field changed")
	}
}

func TestUpdateWrongTenant(t *testing.T) {
	svc := NewService(newFakeRepo(), passthroughTx)

	c, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatal(err)
	}

	nome := "Unidade Norte"
	_, err = svc.Update(context.Background(), "clinic-b", c.ID, Patch{Nome: &nome})
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestListScopedToTenant(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, passthroughTx)

	a := validInput()
	a.Nome = "Unidade B"
	if _, err := svc.Create(context.Background(), a); err != nil {
		t.Fatal(err)
	}
	b := validInput()
	b.Nome = "Unidade A"
	if _, err := svc.Create(context.Background(), b); err != nil {
		t.Fatal(err)
	}
	other := validInput()
	other.TenantID = "clinic-b"
	if _, err := svc.Create(context.Background(), other); err != nil {
		t.Fatal(err)
	}

	list, err := svc.List(context.Background(), "clinic-a")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].Nome != "Unidade A" || list[1].Nome != "Unidade B" {
		t.Fatalf("not ordered by nome: %s, %s", list[0].Nome, list[1].Nome)
	}
}

func TestDeleteNotFound(t *testing.T) {
	svc := NewService(newFakeRepo(), passthroughTx)

	err := svc.Delete(context.Background(), "clinic-a", 9)
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}
