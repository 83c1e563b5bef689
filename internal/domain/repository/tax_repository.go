package repository

import (
	"context"

	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
)

// TaxRepository catálogo de impuestos y retenciones. No hay Delete: se desactiva.
type TaxRepository interface {
	// Create asigna Sequence (orden de inserción). Código repetido → domain.ErrDuplicateCode.
	Create(ctx context.Context, tax *entity.TaxDefinition) error
	Update(ctx context.Context, tax *entity.TaxDefinition) error
	GetByID(ctx context.Context, id string) (*entity.TaxDefinition, error)
	GetByCode(ctx context.Context, code string) (*entity.TaxDefinition, error)
	// GetByIDs omite los IDs inexistentes; el caller compara longitudes.
	GetByIDs(ctx context.Context, ids []string) ([]*entity.TaxDefinition, error)
	List(ctx context.Context, activeOnly bool) ([]*entity.TaxDefinition, error)
}

// CustomerTaxDefaultRepository impuestos por defecto de cada cliente.
type CustomerTaxDefaultRepository interface {
	ListByCustomer(ctx context.Context, customerID string) ([]*entity.CustomerTaxDefault, error)
	// ReplaceForCustomer borra el conjunto anterior e inserta el nuevo.
	ReplaceForCustomer(ctx context.Context, customerID string, defaults []*entity.CustomerTaxDefault) error
}
