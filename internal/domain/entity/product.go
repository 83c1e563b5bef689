package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto vendible. El catálogo lo administra otro sistema; aquí solo se lee
// nombre y precio para la factura y se actualiza el costo promedio en las compras.
type Product struct {
	ID        string
	SKU       string
	Name      string
	Price     decimal.Decimal // precio de venta sugerido
	Cost      decimal.Decimal // costo promedio ponderado
	CreatedAt time.Time
	UpdatedAt time.Time
}
