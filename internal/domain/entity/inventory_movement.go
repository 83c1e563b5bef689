package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIN         = "IN"         // entrada
	MovementTypeOUT        = "OUT"        // salida
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste
)

// Documentos que originan movimientos.
const (
	SourceInvoice           = "INVOICE"
	SourceInvoiceCancelled  = "INVOICE_CANCELLED"
	SourcePurchase          = "PURCHASE"
	SourcePurchaseCancelled = "PURCHASE_CANCELLED"
	SourceManual            = "MANUAL"
)

// InventoryMovement registro inmutable de un cambio de existencias.
type InventoryMovement struct {
	ID            string
	TransactionID string // ID del documento (factura, compra) o del ajuste manual
	Source        string
	ProductID     string
	StoreID       string
	Type          string
	Quantity      decimal.Decimal // positivo entrada, negativo salida
	UnitCost      decimal.Decimal
	TotalCost     decimal.Decimal
	Date          time.Time
	CreatedAt     time.Time
	CreatedBy     string
}

// MovementRef datos del documento que origina un grupo de movimientos.
type MovementRef struct {
	TransactionID string
	Source        string
	UserID        string
	At            time.Time
}
