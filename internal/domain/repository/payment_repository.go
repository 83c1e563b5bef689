package repository

import (
	"context"

	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia para abonos de clientes.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, id string) (*entity.Payment, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Payment, error)
	Update(ctx context.Context, payment *entity.Payment) error
	ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.Payment, error)
	// ListRecentByCustomer abonos APPLIED más recientes primero.
	ListRecentByCustomer(ctx context.Context, customerID string, limit int) ([]*entity.Payment, error)
}
