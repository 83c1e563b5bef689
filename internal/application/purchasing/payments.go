package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/cartera-b2b/internal/application/dto"
	"github.com/jhoicas/cartera-b2b/internal/application/ports"
	"github.com/jhoicas/cartera-b2b/internal/domain"
	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
	"github.com/jhoicas/cartera-b2b/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ApplyPurchasePayment registra un egreso. Mismas reglas de monto y estado que los abonos de clientes.
func (uc *PurchaseUseCase) ApplyPurchasePayment(ctx context.Context, purchaseID, actorID string, in dto.ApplyPaymentRequest) (resp *dto.PurchasePaymentResultResponse, err error) {
	defer func(started time.Time) { uc.observer.Observe(ports.OpApplyPurchasePayment, started, err) }(uc.clock.Now())

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
		p       *entity.Purchase
		payment *entity.PurchasePayment
	)
	err = uc.txRunner.RunLedger(ctx, func(repos repository.Repositories) error {
		var err error
		p, err = repos.Purchases.GetByIDForUpdate(ctx, purchaseID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if p.IsCancelled() {
			return domain.ErrInvoiceCancelled
		}
		if in.Amount.GreaterThan(p.BalanceDue) {
			return &domain.InvalidAmountError{Amount: in.Amount, BalanceDue: p.BalanceDue}
		}
		seq, err := repos.Sequences.Next(ctx, repository.SequencePurchasePayment)
		if err != nil {
			return err
		}
		payment = &entity.PurchasePayment{
			ID:            uuid.New().String(),
			PaymentNumber: fmt.Sprintf("%s-%06d", uc.cfg.PaymentPrefix, seq),
			PurchaseID:    p.ID,
			SupplierID:    p.SupplierID,
			Amount:        in.Amount,
			Method:        entity.ReceiptMethod(in.Method),
			Reference:     in.Reference,
			Bank:          in.Bank,
			PaymentDate:   now,
			PaidBy:        actorID,
			Status:        entity.ReceiptApplied,
			CreatedAt:     now,
		}
		if err := repos.PurchasePayments.Create(ctx, payment); err != nil {
			return err
		}
		p.ApplyPayment(in.Amount, now)
		p.UpdatedAt = now
		return repos.Purchases.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	uc.observer.AddAmount(ports.DocPurchasePayment, payment.Amount)
	uc.log.Info().
		Str("payment_number", payment.PaymentNumber).
		Str("purchase_id", p.ID).
		Str("amount", payment.Amount.StringFixed(2)).
		Msg("egreso aplicado")
	return &dto.PurchasePaymentResultResponse{
		Payment:  dto.ToPurchasePaymentResponse(payment),
		Purchase: dto.ToPurchaseSummary(p),
	}, nil
}

// CancelPurchasePayment anula un egreso y revierte su efecto sobre la compra.
func (uc *PurchaseUseCase) CancelPurchasePayment(ctx context.Context, paymentID, actorID string, in dto.CancelRequest) (resp *dto.PurchasePaymentResultResponse, err error) {
	defer func(started time.Time) { uc.observer.Observe(ports.OpCancelPurchasePayment, started, err) }(uc.clock.Now())

	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	now := uc.clock.Now()
	var (
		p       *entity.Purchase
		payment *entity.PurchasePayment
	)
	err = uc.txRunner.RunLedger(ctx, func(repos repository.Repositories) error {
		var err error
		payment, err = repos.PurchasePayments.GetByIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return domain.ErrNotFound
		}
		if payment.IsCancelled() {
			return domain.ErrAlreadyCancelled
		}
		p, err = repos.Purchases.GetByIDForUpdate(ctx, payment.PurchaseID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if p.IsCancelled() {
			return domain.ErrInvoiceCancelled
		}
		p.ReversePayment(payment.Amount)
		p.UpdatedAt = now
		if err := repos.Purchases.Update(ctx, p); err != nil {
			return err
		}
		payment.Cancel(in.Reason, actorID, now)
		return repos.PurchasePayments.Update(ctx, payment)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("payment_number", payment.PaymentNumber).Str("actor", actorID).Msg("egreso anulado")
	return &dto.PurchasePaymentResultResponse{
		Payment:  dto.ToPurchasePaymentResponse(payment),
		Purchase: dto.ToPurchaseSummary(p),
	}, nil
}

// GetSupplierStatement compras abiertas, últimos egresos y totales por pagar al proveedor.
func (uc *PurchaseUseCase) GetSupplierStatement(ctx context.Context, supplierID string) (*dto.SupplierStatementResponse, error) {
	s, err := uc.repos.Suppliers.GetByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	open, err := uc.repos.Purchases.ListOpenBySupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	recent, err := uc.repos.PurchasePayments.ListRecentBySupplier(ctx, supplierID, uc.cfg.RecentPayments)
	if err != nil {
		return nil, err
	}
	out := &dto.SupplierStatementResponse{
		Supplier:         dto.ToSupplierResponse(s),
		PendingPurchases: make([]dto.PurchaseSummaryResponse, 0, len(open)),
		RecentPayments:   make([]dto.PurchasePaymentResponse, 0, len(recent)),
		TotalPending:     decimal.Zero,
		TotalOverdue:     decimal.Zero,
	}
	for _, p := range open {
		out.PendingPurchases = append(out.PendingPurchases, dto.ToPurchaseSummary(p))
		out.TotalPending = out.TotalPending.Add(p.BalanceDue)
		out.PendingCount++
		if p.PaymentStatus == entity.PaymentOverdue {
			out.TotalOverdue = out.TotalOverdue.Add(p.BalanceDue)
			out.OverdueCount++
		}
	}
	for _, pp := range recent {
		out.RecentPayments = append(out.RecentPayments, dto.ToPurchasePaymentResponse(pp))
	}
	return out, nil
}
