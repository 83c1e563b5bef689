package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/cartera-b2b/internal/application/credit"
	"github.com/jhoicas/cartera-b2b/internal/application/dto"
	"github.com/jhoicas/cartera-b2b/internal/application/ports"
	"github.com/jhoicas/cartera-b2b/internal/domain"
	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
	"github.com/jhoicas/cartera-b2b/internal/domain/repository"
	"github.com/jhoicas/cartera-b2b/pkg/clock"
	"github.com/jhoicas/cartera-b2b/pkg/logger"
)

// PaymentUseCase abonos de clientes y estado de cuenta.
type PaymentUseCase struct {
	repos    repository.Repositories
	txRunner repository.TxRunner
	clock    clock.Clock
	observer ports.LedgerObserver
	log      *logger.Logger
	cfg      Config
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(
	repos repository.Repositories,
	txRunner repository.TxRunner,
	clk clock.Clock,
	observer ports.LedgerObserver,
	log *logger.Logger,
	cfg Config,
) *PaymentUseCase {
	return &PaymentUseCase{
		repos:    repos,
		txRunner: txRunner,
		clock:    clk,
		observer: observer,
		log:      log.WithComponent("payments"),
		cfg:      cfg,
	}
}

// ApplyPayment registra un abono con recibo consecutivo. El monto debe ser positivo y no
// superar el saldo; si la factura es a crédito libera el mismo monto del cupo.
func (uc *PaymentUseCase) ApplyPayment(ctx context.Context, invoiceID, actorID string, in dto.ApplyPaymentRequest) (resp *dto.PaymentResultResponse, err error) {
	defer func(started time.Time) { uc.observer.Observe(ports.OpApplyPayment, started, err) }(uc.clock.Now())

	if !in.Amount.IsPositive() {
		return nil, &domain.InvalidAmountError{Amount: in.Amount}
	}
	if !in.Amount.Equal(in.Amount.Round(2)) {
		return nil, domain.NewValidationError("amount", "máximo 2 decimales")
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	var (
		inv     *entity.Invoice
		payment *entity.Payment
	)
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
			return domain.ErrInvoiceCancelled
		}
		if in.Amount.GreaterThan(inv.BalanceDue) {
			return &domain.InvalidAmountError{Amount: in.Amount, BalanceDue: inv.BalanceDue}
		}
		customer, err := repos.Customers.GetByIDForUpdate(ctx, inv.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.ErrNotFound
		}

		seq, err := repos.Sequences.Next(ctx, repository.SequenceReceipt)
		if err != nil {
			return err
		}
		payment = &entity.Payment{
			ID:            uuid.New().String(),
			ReceiptNumber: fmt.Sprintf("%s-%06d", uc.cfg.ReceiptPrefix, seq),
			InvoiceID:     inv.ID,
			CustomerID:    inv.CustomerID,
			Amount:        in.Amount,
			Method:        entity.ReceiptMethod(in.Method),
			Reference:     in.Reference,
			Bank:          in.Bank,
			PaymentDate:   now,
			ReceivedBy:    actorID,
			ShiftID:       in.ShiftID,
			Status:        entity.ReceiptApplied,
			CreatedAt:     now,
		}
		if err := repos.Payments.Create(ctx, payment); err != nil {
			return err
		}

		inv.ApplyPayment(in.Amount, now)
		inv.UpdatedAt = now
		if err := repos.Invoices.Update(ctx, inv); err != nil {
			return err
		}

		changed := false
		if inv.PaymentMethod.UsesCredit() {
			customer.ReleaseCredit(in.Amount)
			changed = true
		}
		if inv.PaymentStatus == entity.PaymentPaid {
			released, err := credit.ReleaseOverdueBlock(ctx, repos, customer, now)
			if err != nil {
				return err
			}
			changed = changed || released
		}
		if !changed {
			return nil
		}
		customer.UpdatedAt = now
		return repos.Customers.Update(ctx, customer)
	})
	if err != nil {
		return nil, err
	}

	uc.observer.AddAmount(ports.DocPayment, payment.Amount)
	uc.log.Info().
		Str("receipt_number", payment.ReceiptNumber).
		Str("invoice_id", inv.ID).
		Str("amount", payment.Amount.StringFixed(2)).
		Str("status", string(inv.PaymentStatus)).
		Msg("pago aplicado")
	return &dto.PaymentResultResponse{
		Payment: dto.ToPaymentResponse(payment),
		Invoice: dto.ToInvoiceSummary(inv),
	}, nil
}

// CancelPayment anula un abono y revierte exactamente su efecto. El cupo se vuelve a
// consumir sin validar: restaura un estado que ya fue válido.
func (uc *PaymentUseCase) CancelPayment(ctx context.Context, paymentID, actorID string, in dto.CancelRequest) (resp *dto.PaymentResultResponse, err error) {
	defer func(started time.Time) { uc.observer.Observe(ports.OpCancelPayment, started, err) }(uc.clock.Now())

	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	now := uc.clock.Now()
	var (
		inv     *entity.Invoice
		payment *entity.Payment
	)
	err = uc.txRunner.RunLedger(ctx, func(repos repository.Repositories) error {
		var err error
		payment, err = repos.Payments.GetByIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return domain.ErrNotFound
		}
		if payment.IsCancelled() {
			return domain.ErrAlreadyCancelled
		}
		inv, err = repos.Invoices.GetByIDForUpdate(ctx, payment.InvoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if inv.IsCancelled() {
			return domain.ErrInvoiceCancelled
		}

		inv.ReversePayment(payment.Amount)
		inv.UpdatedAt = now
		if err := repos.Invoices.Update(ctx, inv); err != nil {
			return err
		}
		if inv.PaymentMethod.UsesCredit() {
			customer, err := repos.Customers.GetByIDForUpdate(ctx, inv.CustomerID)
			if err != nil {
				return err
			}
			if customer == nil {
				return domain.ErrNotFound
			}
			customer.ForceReserveCredit(payment.Amount)
			customer.UpdatedAt = now
			if err := repos.Customers.Update(ctx, customer); err != nil {
				return err
			}
		}
		payment.Cancel(in.Reason, actorID, now)
		return repos.Payments.Update(ctx, payment)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("receipt_number", payment.ReceiptNumber).
		Str("invoice_id", inv.ID).
		Str("actor", actorID).
		Msg("pago anulado")
	return &dto.PaymentResultResponse{
		Payment: dto.ToPaymentResponse(payment),
		Invoice: dto.ToInvoiceSummary(inv),
	}, nil
}
