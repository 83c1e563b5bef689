package dto

import "github.com/jhoicas/cartera-b2b/internal/domain/entity"

// ToTaxResponse convierte una definición del catálogo.
func ToTaxResponse(t *entity.TaxDefinition) TaxResponse {
	return TaxResponse{
		ID:               t.ID,
		Code:             t.Code,
		Name:             t.Name,
		Kind:             string(t.Kind),
		Rate:             t.Rate,
		BaseRule:         string(t.BaseRule),
		Applicability:    string(t.Applicability),
		ApplicationOrder: t.ApplicationOrder,
		Active:           t.Active,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

// ToCustomerResponse convierte un cliente B2B.
func ToCustomerResponse(c *entity.B2BCustomer) CustomerResponse {
	return CustomerResponse{
		ID:               c.ID,
		IDType:           c.IDType,
		IDNumber:         c.IDNumber,
		LegalName:        c.LegalName,
		TradeName:        c.TradeName,
		Email:            c.Email,
		Phone:            c.Phone,
		Address:          c.Address,
		TaxRegime:        string(c.TaxRegime),
		CreditLimit:      c.CreditLimit,
		CreditAvailable:  c.CreditAvailable,
		CreditDays:       c.CreditDays,
		DiscountPercent:  c.DiscountPercent,
		Status:           string(c.Status),
		StatusReason:     c.StatusReason,
		BlockedByOverdue: c.BlockedByOverdue,
		TotalSales:       c.TotalSales,
		TotalInvoices:    c.TotalInvoices,
		LastPurchaseDate: c.LastPurchaseDate,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

// ToInvoiceSummary convierte la cabecera de una factura.
func ToInvoiceSummary(inv *entity.Invoice) InvoiceSummaryResponse {
	return InvoiceSummaryResponse{
		ID:               inv.ID,
		InvoiceNumber:    inv.InvoiceNumber,
		CustomerID:       inv.CustomerID,
		StoreID:          inv.StoreID,
		IssueDate:        inv.IssueDate,
		DueDate:          inv.DueDate,
		PaymentMethod:    string(inv.PaymentMethod),
		Subtotal:         inv.Subtotal,
		Discount:         inv.Discount,
		TaxTotal:         inv.TaxTotal,
		WithholdingTotal: inv.WithholdingTotal,
		Total:            inv.Total,
		AmountPaid:       inv.AmountPaid,
		BalanceDue:       inv.BalanceDue,
		PaymentStatus:    string(inv.PaymentStatus),
		OverdueDays:      inv.OverdueDays,
	}
}

// ToInvoiceResponse arma la factura completa con líneas, impuestos y abonos.
func ToInvoiceResponse(
	inv *entity.Invoice,
	customerName string,
	lines []*entity.InvoiceLineItem,
	taxLines []*entity.InvoiceTaxLine,
	payments []*entity.Payment,
) InvoiceResponse {
	out := InvoiceResponse{
		InvoiceSummaryResponse: ToInvoiceSummary(inv),
		CustomerName:           customerName,
		OriginatingOrderID:     inv.OriginatingOrderID,
		Notes:                  inv.Notes,
		PaidInFullDate:         inv.PaidInFullDate,
		CreatedBy:              inv.CreatedBy,
		CancelReason:           inv.CancelReason,
		CancelledAt:            inv.CancelledAt,
		CancelledBy:            inv.CancelledBy,
		Lines:                  make([]InvoiceLineResponse, 0, len(lines)),
		TaxLines:               make([]TaxLineResponse, 0, len(taxLines)),
		Payments:               make([]PaymentResponse, 0, len(payments)),
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, InvoiceLineResponse{
			ID:              l.ID,
			ProductID:       l.ProductID,
			ProductName:     l.ProductName,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			DiscountPercent: l.DiscountPercent,
			Subtotal:        l.Subtotal,
			Discount:        l.Discount,
			Total:           l.Total,
		})
	}
	for _, t := range taxLines {
		out.TaxLines = append(out.TaxLines, TaxLineResponse{
			TaxID:          t.TaxID,
			Code:           t.Code,
			Name:           t.Name,
			Kind:           string(t.Kind),
			BaseRule:       string(t.BaseRule),
			RateApplied:    t.RateApplied,
			BaseAmount:     t.BaseAmount,
			ComputedAmount: t.ComputedAmount,
			Sequence:       t.Sequence,
		})
	}
	for _, p := range payments {
		out.Payments = append(out.Payments, ToPaymentResponse(p))
	}
	return out
}

// ToPaymentResponse convierte un abono.
func ToPaymentResponse(p *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		ReceiptNumber: p.ReceiptNumber,
		InvoiceID:     p.InvoiceID,
		CustomerID:    p.CustomerID,
		Amount:        p.Amount,
		Method:        string(p.Method),
		Reference:     p.Reference,
		Bank:          p.Bank,
		PaymentDate:   p.PaymentDate,
		ReceivedBy:    p.ReceivedBy,
		ShiftID:       p.ShiftID,
		Status:        string(p.Status),
		CancelReason:  p.CancelReason,
		CancelledAt:   p.CancelledAt,
		CancelledBy:   p.CancelledBy,
	}
}

// ToSupplierResponse convierte un proveedor.
func ToSupplierResponse(s *entity.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:         s.ID,
		IDType:     s.IDType,
		IDNumber:   s.IDNumber,
		Name:       s.Name,
		Email:      s.Email,
		Phone:      s.Phone,
		TaxRegime:  string(s.TaxRegime),
		CreditDays: s.CreditDays,
		Status:     string(s.Status),
		CreatedAt:  s.CreatedAt,
	}
}

// ToPurchaseSummary convierte la cabecera de una compra.
func ToPurchaseSummary(p *entity.Purchase) PurchaseSummaryResponse {
	return PurchaseSummaryResponse{
		ID:                 p.ID,
		PurchaseNumber:     p.PurchaseNumber,
		SupplierID:         p.SupplierID,
		StoreID:            p.StoreID,
		SupplierInvoiceRef: p.SupplierInvoiceRef,
		IssueDate:          p.IssueDate,
		DueDate:            p.DueDate,
		PaymentMethod:      string(p.PaymentMethod),
		Subtotal:           p.Subtotal,
		Discount:           p.Discount,
		TaxTotal:           p.TaxTotal,
		WithholdingTotal:   p.WithholdingTotal,
		Total:              p.Total,
		AmountPaid:         p.AmountPaid,
		BalanceDue:         p.BalanceDue,
		PaymentStatus:      string(p.PaymentStatus),
		OverdueDays:        p.OverdueDays,
	}
}

// ToPurchaseResponse arma la compra completa.
func ToPurchaseResponse(
	p *entity.Purchase,
	supplierName string,
	lines []*entity.PurchaseLineItem,
	taxLines []*entity.PurchaseTaxLine,
	payments []*entity.PurchasePayment,
) PurchaseResponse {
	out := PurchaseResponse{
		PurchaseSummaryResponse: ToPurchaseSummary(p),
		SupplierName:            supplierName,
		Notes:                   p.Notes,
		CreatedBy:               p.CreatedBy,
		CancelReason:            p.CancelReason,
		CancelledAt:             p.CancelledAt,
		CancelledBy:             p.CancelledBy,
		Lines:                   make([]PurchaseLineResponse, 0, len(lines)),
		TaxLines:                make([]TaxLineResponse, 0, len(taxLines)),
		Payments:                make([]PurchasePaymentResponse, 0, len(payments)),
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, PurchaseLineResponse{
			ID:              l.ID,
			ProductID:       l.ProductID,
			ProductName:     l.ProductName,
			Quantity:        l.Quantity,
			UnitCost:        l.UnitCost,
			DiscountPercent: l.DiscountPercent,
			Subtotal:        l.Subtotal,
			Discount:        l.Discount,
			Total:           l.Total,
		})
	}
	for _, t := range taxLines {
		out.TaxLines = append(out.TaxLines, TaxLineResponse{
			TaxID:          t.TaxID,
			Code:           t.Code,
			Name:           t.Name,
			Kind:           string(t.Kind),
			BaseRule:       string(t.BaseRule),
			RateApplied:    t.RateApplied,
			BaseAmount:     t.BaseAmount,
			ComputedAmount: t.ComputedAmount,
			Sequence:       t.Sequence,
		})
	}
	for _, pp := range payments {
		out.Payments = append(out.Payments, ToPurchasePaymentResponse(pp))
	}
	return out
}

// ToPurchasePaymentResponse convierte un egreso.
func ToPurchasePaymentResponse(p *entity.PurchasePayment) PurchasePaymentResponse {
	return PurchasePaymentResponse{
		ID:            p.ID,
		PaymentNumber: p.PaymentNumber,
		PurchaseID:    p.PurchaseID,
		SupplierID:    p.SupplierID,
		Amount:        p.Amount,
		Method:        string(p.Method),
		Reference:     p.Reference,
		Bank:          p.Bank,
		PaymentDate:   p.PaymentDate,
		PaidBy:        p.PaidBy,
		Status:        string(p.Status),
		CancelReason:  p.CancelReason,
		CancelledAt:   p.CancelledAt,
		CancelledBy:   p.CancelledBy,
	}
}

// ToMovementResponse convierte un movimiento de inventario.
func ToMovementResponse(m *entity.InventoryMovement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		Source:        m.Source,
		ProductID:     m.ProductID,
		StoreID:       m.StoreID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		UnitCost:      m.UnitCost,
		TotalCost:     m.TotalCost,
		Date:          m.Date,
	}
}
