package purchasing

import (
	"context"

	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
	"github.com/jhoicas/cartera-b2b/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// InventoryUseCase entradas y reversos de inventario dentro de la transacción de la compra.
type InventoryUseCase interface {
	RegisterINInTx(
		ctx context.Context,
		repos repository.Repositories,
		productID, storeID string,
		quantity, unitCost decimal.Decimal,
		ref entity.MovementRef, // TransactionID = ID de la compra
	) error
	ReverseInTx(ctx context.Context, repos repository.Repositories, transactionID string, ref entity.MovementRef) error
}

// Config numeración de compras y egresos.
type Config struct {
	PurchasePrefix string
	PaymentPrefix  string
	RecentPayments int
}
