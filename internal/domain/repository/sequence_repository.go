package repository

import "context"

// Nombres de los consecutivos de documentos.
const (
	SequenceInvoice         = "invoice"
	SequenceReceipt         = "receipt"
	SequencePurchase        = "purchase"
	SequencePurchasePayment = "purchase_payment"
)

// SequenceRepository consecutivos de documentos. Next debe ejecutarse dentro de la
// transacción del documento para que un rollback no deje huecos.
type SequenceRepository interface {
	Next(ctx context.Context, name string) (int64, error)
}
