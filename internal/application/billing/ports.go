package billing

import (
	"context"

	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
	"github.com/jhoicas/cartera-b2b/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// InventoryUseCase interfaz para integrar facturación con inventario.
// Las variantes InTx usan los repositorios del caller (misma transacción); si retornan error
// (ej: InsufficientStockError) el caller debe hacer rollback.
type InventoryUseCase interface {
	RegisterOUTInTx(
		ctx context.Context,
		repos repository.Repositories,
		productID, storeID string,
		quantity decimal.Decimal,
		ref entity.MovementRef, // TransactionID = ID de la factura
	) error
	ReverseInTx(ctx context.Context, repos repository.Repositories, transactionID string, ref entity.MovementRef) error
}

// Config numeración de documentos y tamaño del estado de cuenta.
type Config struct {
	InvoicePrefix  string
	ReceiptPrefix  string
	RecentPayments int
}
