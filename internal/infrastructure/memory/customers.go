package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/cartera-b2b/internal/domain"
	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
	"github.com/jhoicas/cartera-b2b/internal/domain/repository"
)

// CustomerRepo clientes B2B en memoria.
type CustomerRepo struct{ h handle }

func (r *CustomerRepo) Create(_ context.Context, c *entity.B2BCustomer) error {
	return r.h.write(func(st *state) error {
		for _, existing := range st.customers {
			if existing.IDNumber == c.IDNumber {
				return domain.ErrDuplicateCode
			}
		}
		st.customers[c.ID] = *c
		return nil
	})
}

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.B2BCustomer, error) {
	var out *entity.B2BCustomer
	err := r.h.read(func(st *state) error {
		if c, ok := st.customers[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

// GetByIDForUpdate equivale a GetByID: la transacción ya es exclusiva.
func (r *CustomerRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.B2BCustomer, error) {
	return r.GetByID(ctx, id)
}

func (r *CustomerRepo) GetByIDNumber(_ context.Context, idNumber string) (*entity.B2BCustomer, error) {
	var out *entity.B2BCustomer
	err := r.h.read(func(st *state) error {
		for _, c := range st.customers {
			if c.IDNumber == idNumber {
				c := c
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *CustomerRepo) List(_ context.Context, f repository.CustomerFilter) ([]*entity.B2BCustomer, error) {
	var out []*entity.B2BCustomer
	search := strings.ToLower(strings.TrimSpace(f.Search))
	err := r.h.read(func(st *state) error {
		for _, c := range st.customers {
			if f.Status != "" && c.Status != f.Status {
				continue
			}
			if search != "" &&
				!strings.Contains(strings.ToLower(c.LegalName), search) &&
				!strings.Contains(strings.ToLower(c.TradeName), search) &&
				!strings.Contains(c.IDNumber, search) {
				continue
			}
			c := c
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].LegalName != out[j].LegalName {
			return out[i].LegalName < out[j].LegalName
		}
		return out[i].ID < out[j].ID
	})
	return page(out, f.Limit, f.Offset), err
}

func (r *CustomerRepo) ListBlockedByOverdue(_ context.Context) ([]*entity.B2BCustomer, error) {
	var out []*entity.B2BCustomer
	err := r.h.read(func(st *state) error {
		for _, c := range st.customers {
			if c.Status == entity.CustomerBlocked && c.BlockedByOverdue {
				c := c
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *CustomerRepo) Update(_ context.Context, c *entity.B2BCustomer) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.customers[c.ID]; !ok {
			return domain.ErrNotFound
		}
		st.customers[c.ID] = *c
		return nil
	})
}

func (r *CustomerRepo) Delete(_ context.Context, id string) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.customers[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.customers, id)
		delete(st.taxDefaults, id)
		return nil
	})
}
