package repository

import (
	"context"

	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
)

// CustomerFilter filtros del listado de clientes.
type CustomerFilter struct {
	Status entity.CustomerStatus // vacío = todos
	Search string                // razón social, nombre comercial o identificación
	Limit  int
	Offset int
}

// CustomerRepository define el puerto de persistencia para B2BCustomer.
// Los Get devuelven (nil, nil) cuando no existe la fila.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.B2BCustomer) error
	GetByID(ctx context.Context, id string) (*entity.B2BCustomer, error)
	// GetByIDForUpdate bloquea la fila del cliente (SELECT FOR UPDATE) hasta el fin de la tx.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.B2BCustomer, error)
	GetByIDNumber(ctx context.Context, idNumber string) (*entity.B2BCustomer, error)
	List(ctx context.Context, filter CustomerFilter) ([]*entity.B2BCustomer, error)
	// ListBlockedByOverdue clientes bloqueados automáticamente por mora.
	ListBlockedByOverdue(ctx context.Context) ([]*entity.B2BCustomer, error)
	Update(ctx context.Context, customer *entity.B2BCustomer) error
	Delete(ctx context.Context, id string) error
}
