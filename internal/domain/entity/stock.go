package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock existencias de un producto en una tienda.
type Stock struct {
	ProductID string
	StoreID   string
	Quantity  decimal.Decimal
	UpdatedAt time.Time
}
