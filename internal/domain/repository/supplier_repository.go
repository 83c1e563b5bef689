package repository

import (
	"context"

	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para Supplier.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Supplier, error)
	GetByIDNumber(ctx context.Context, idNumber string) (*entity.Supplier, error)
}
