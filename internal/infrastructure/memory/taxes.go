package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/cartera-b2b/internal/domain"
	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
)

// TaxRepo catálogo de impuestos en memoria.
type TaxRepo struct{ h handle }

func (r *TaxRepo) Create(_ context.Context, t *entity.TaxDefinition) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.taxes[t.ID]; ok {
			return domain.ErrDuplicateCode
		}
		for _, existing := range st.taxes {
			if existing.Code == t.Code {
				return domain.ErrDuplicateCode
			}
		}
		st.taxSeq++
		t.Sequence = st.taxSeq
		st.taxes[t.ID] = *t
		return nil
	})
}

func (r *TaxRepo) Update(_ context.Context, t *entity.TaxDefinition) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.taxes[t.ID]; !ok {
			return domain.ErrNotFound
		}
		st.taxes[t.ID] = *t
		return nil
	})
}

func (r *TaxRepo) GetByID(_ context.Context, id string) (*entity.TaxDefinition, error) {
	var out *entity.TaxDefinition
	err := r.h.read(func(st *state) error {
		if t, ok := st.taxes[id]; ok {
			out = &t
		}
		return nil
	})
	return out, err
}

func (r *TaxRepo) GetByCode(_ context.Context, code string) (*entity.TaxDefinition, error) {
	var out *entity.TaxDefinition
	err := r.h.read(func(st *state) error {
		for _, t := range st.taxes {
			if t.Code == code {
				t := t
				out = &t
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *TaxRepo) GetByIDs(_ context.Context, ids []string) ([]*entity.TaxDefinition, error) {
	var out []*entity.TaxDefinition
	err := r.h.read(func(st *state) error {
		for _, id := range ids {
			if t, ok := st.taxes[id]; ok {
				out = append(out, &t)
			}
		}
		return nil
	})
	return out, err
}

func (r *TaxRepo) List(_ context.Context, activeOnly bool) ([]*entity.TaxDefinition, error) {
	var out []*entity.TaxDefinition
	err := r.h.read(func(st *state) error {
		for _, t := range st.taxes {
			if activeOnly && !t.Active {
				continue
			}
			t := t
			out = append(out, &t)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, err
}

// TaxDefaultRepo impuestos por defecto de clientes en memoria.
type TaxDefaultRepo struct{ h handle }

func (r *TaxDefaultRepo) ListByCustomer(_ context.Context, customerID string) ([]*entity.CustomerTaxDefault, error) {
	var out []*entity.CustomerTaxDefault
	err := r.h.read(func(st *state) error {
		for _, d := range st.taxDefaults[customerID] {
			d := d
			out = append(out, &d)
		}
		return nil
	})
	return out, err
}

func (r *TaxDefaultRepo) ReplaceForCustomer(_ context.Context, customerID string, defaults []*entity.CustomerTaxDefault) error {
	return r.h.write(func(st *state) error {
		list := make([]entity.CustomerTaxDefault, 0, len(defaults))
		for _, d := range defaults {
			list = append(list, *d)
		}
		st.taxDefaults[customerID] = list
		return nil
	})
}
