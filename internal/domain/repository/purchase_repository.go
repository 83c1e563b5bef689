package repository

import (
	"context"
	"time"

	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
)

// PurchaseRepository define el puerto de persistencia para compras a proveedores.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	CreateLine(ctx context.Context, line *entity.PurchaseLineItem) error
	CreateTaxLine(ctx context.Context, line *entity.PurchaseTaxLine) error
	Update(ctx context.Context, purchase *entity.Purchase) error
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Purchase, error)
	GetLines(ctx context.Context, purchaseID string) ([]*entity.PurchaseLineItem, error)
	GetTaxLines(ctx context.Context, purchaseID string) ([]*entity.PurchaseTaxLine, error)
	ListOpenBySupplier(ctx context.Context, supplierID string) ([]*entity.Purchase, error)
	// ListPastDue compras abiertas con vencimiento anterior a now.
	ListPastDue(ctx context.Context, now time.Time) ([]*entity.Purchase, error)
}

// PurchasePaymentRepository define el puerto de persistencia para egresos a proveedores.
type PurchasePaymentRepository interface {
	Create(ctx context.Context, payment *entity.PurchasePayment) error
	GetByID(ctx context.Context, id string) (*entity.PurchasePayment, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.PurchasePayment, error)
	Update(ctx context.Context, payment *entity.PurchasePayment) error
	ListByPurchase(ctx context.Context, purchaseID string) ([]*entity.PurchasePayment, error)
	ListRecentBySupplier(ctx context.Context, supplierID string, limit int) ([]*entity.PurchasePayment, error)
}
