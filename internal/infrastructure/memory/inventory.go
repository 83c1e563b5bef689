package memory

import (
	"context"

	"github.com/jhoicas/cartera-b2b/internal/domain"
	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductRepo productos en memoria.
type ProductRepo struct{ h handle }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.products[p.ID]; ok {
			return domain.ErrDuplicateCode
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.h.read(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) UpdateCost(_ context.Context, productID string, cost decimal.Decimal) error {
	return r.h.write(func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return domain.ErrNotFound
		}
		p.Cost = cost
		st.products[productID] = p
		return nil
	})
}

// StoreRepo tiendas en memoria.
type StoreRepo struct{ h handle }

func (r *StoreRepo) Create(_ context.Context, s *entity.Store) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.stores[s.ID]; ok {
			return domain.ErrDuplicateCode
		}
		st.stores[s.ID] = *s
		return nil
	})
}

func (r *StoreRepo) GetByID(_ context.Context, id string) (*entity.Store, error) {
	var out *entity.Store
	err := r.h.read(func(st *state) error {
		if s, ok := st.stores[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

// StockRepo existencias en memoria.
type StockRepo struct{ h handle }

func (r *StockRepo) Get(_ context.Context, productID, storeID string) (*entity.Stock, error) {
	out := &entity.Stock{ProductID: productID, StoreID: storeID, Quantity: decimal.Zero}
	err := r.h.read(func(st *state) error {
		if s, ok := st.stock[stockKey{productID, storeID}]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *StockRepo) GetForUpdate(ctx context.Context, productID, storeID string) (*entity.Stock, error) {
	return r.Get(ctx, productID, storeID)
}

func (r *StockRepo) Upsert(_ context.Context, s *entity.Stock) error {
	return r.h.write(func(st *state) error {
		st.stock[stockKey{s.ProductID, s.StoreID}] = *s
		return nil
	})
}

// MovementRepo movimientos de inventario en memoria (solo se agregan).
type MovementRepo struct{ h handle }

func (r *MovementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	return r.h.write(func(st *state) error {
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r *MovementRepo) ListByTransaction(_ context.Context, transactionID string) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	err := r.h.read(func(st *state) error {
		for _, m := range st.movements {
			if m.TransactionID == transactionID {
				m := m
				out = append(out, &m)
			}
		}
		return nil
	})
	return out, err
}

// SequenceRepo consecutivos en memoria; comparten el destino de la transacción.
type SequenceRepo struct{ h handle }

func (r *SequenceRepo) Next(_ context.Context, name string) (int64, error) {
	var n int64
	err := r.h.write(func(st *state) error {
		st.sequences[name]++
		n = st.sequences[name]
		return nil
	})
	return n, err
}
