package repository

import (
	"context"

	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
)

// InventoryMovementRepository define el puerto de persistencia para movimientos de inventario.
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	// ListByTransaction devuelve los movimientos de un documento (factura, compra o ajuste).
	ListByTransaction(ctx context.Context, transactionID string) ([]*entity.InventoryMovement, error)
}
