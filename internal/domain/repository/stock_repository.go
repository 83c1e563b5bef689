package repository

import (
	"context"

	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar stock por tienda+producto.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	// Get devuelve cantidad cero si no hay fila.
	Get(ctx context.Context, productID, storeID string) (*entity.Stock, error)
	Upsert(ctx context.Context, stock *entity.Stock) error
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, productID, storeID string) (*entity.Stock, error)
}
