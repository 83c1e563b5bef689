package billing

import (
	"context"

	"github.com/jhoicas/cartera-b2b/internal/application/dto"
	"github.com/jhoicas/cartera-b2b/internal/domain"
	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// GetCustomerStatement facturas abiertas, últimos abonos aplicados y totales del cliente.
func (uc *PaymentUseCase) GetCustomerStatement(ctx context.Context, customerID string) (*dto.CustomerStatementResponse, error) {
	customer, err := uc.repos.Customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	open, err := uc.repos.Invoices.ListOpenByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	recent, err := uc.repos.Payments.ListRecentByCustomer(ctx, customerID, uc.cfg.RecentPayments)
	if err != nil {
		return nil, err
	}

	out := &dto.CustomerStatementResponse{
		Customer:        dto.ToCustomerResponse(customer),
		PendingInvoices: make([]dto.InvoiceSummaryResponse, 0, len(open)),
		RecentPayments:  make([]dto.PaymentResponse, 0, len(recent)),
		Totals: dto.StatementTotals{
			TotalPending:    decimal.Zero,
			TotalOverdue:    decimal.Zero,
			CreditLimit:     customer.CreditLimit,
			CreditAvailable: customer.CreditAvailable,
		},
	}
	for _, inv := range open {
		out.PendingInvoices = append(out.PendingInvoices, dto.ToInvoiceSummary(inv))
		out.Totals.TotalPending = out.Totals.TotalPending.Add(inv.BalanceDue)
		out.Totals.PendingCount++
		if inv.PaymentStatus == entity.PaymentOverdue {
			out.Totals.TotalOverdue = out.Totals.TotalOverdue.Add(inv.BalanceDue)
			out.Totals.OverdueCount++
		}
	}
	for _, p := range recent {
		out.RecentPayments = append(out.RecentPayments, dto.ToPaymentResponse(p))
	}
	return out, nil
}
