package billing

import (
	"context"
	"time"

	"github.com/jhoicas/cartera-b2b/internal/application/credit"
	"github.com/jhoicas/cartera-b2b/internal/application/dto"
	"github.com/jhoicas/cartera-b2b/internal/application/ports"
	"github.com/jhoicas/cartera-b2b/internal/domain"
	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
	"github.com/jhoicas/cartera-b2b/internal/domain/repository"
)

// CancelInvoice anula la factura: devuelve el inventario, libera el cupo por el saldo vigente
// (solo CREDIT) y revierte las estadísticas del cliente. Los abonos quedan como estaban.
func (uc *InvoiceUseCase) CancelInvoice(ctx context.Context, invoiceID, actorID string, in dto.CancelRequest) (resp *dto.InvoiceSummaryResponse, err error) {
	defer func(started time.Time) { uc.observer.Observe(ports.OpCancelInvoice, started, err) }(uc.clock.Now())

	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	now := uc.clock.Now()
	var inv *entity.Invoice
	err = uc.txRunner.RunLedger(ctx, func(repos repository.Repositories) error {
		var err error
		inv, err = repos.Invoices.GetByIDForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if inv.IsCancelled() {
			return domain.ErrAlreadyCancelled
		}
		customer, err := repos.Customers.GetByIDForUpdate(ctx, inv.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.ErrNotFound
		}

		ref := entity.MovementRef{TransactionID: inv.ID, Source: entity.SourceInvoiceCancelled, UserID: actorID, At: now}
		if err := uc.inventoryUC.ReverseInTx(ctx, repos, inv.ID, ref); err != nil {
			return err
		}

		if inv.PaymentMethod.UsesCredit() {
			customer.ReleaseCredit(inv.BalanceDue)
		}
		customer.ReverseSale(inv.Total)
		inv.Cancel(in.Reason, actorID, now)
		if err := repos.Invoices.Update(ctx, inv); err != nil {
			return err
		}
		if _, err := credit.ReleaseOverdueBlock(ctx, repos, customer, now); err != nil {
			return err
		}
		customer.UpdatedAt = now
		return repos.Customers.Update(ctx, customer)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("invoice_id", inv.ID).
		Str("invoice_number", inv.InvoiceNumber).
		Str("actor", actorID).
		Str("reason", in.Reason).
		Msg("factura anulada")
	out := dto.ToInvoiceSummary(inv)
	return &out, nil
}

// GetInvoice factura completa con líneas, impuestos y abonos (incluidos los anulados).
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, err := uc.repos.Invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.repos.Invoices.GetLines(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	taxLines, err := uc.repos.Invoices.GetTaxLines(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	payments, err := uc.repos.Payments.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	var customerName string
	if c, err := uc.repos.Customers.GetByID(ctx, inv.CustomerID); err == nil && c != nil {
		customerName = c.LegalName
	}
	out := dto.ToInvoiceResponse(inv, customerName, lines, taxLines, payments)
	return &out, nil
}
