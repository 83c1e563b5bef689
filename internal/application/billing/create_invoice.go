package billing

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/cartera-b2b/internal/application/dto"
	"github.com/jhoicas/cartera-b2b/internal/application/ports"
	"github.com/jhoicas/cartera-b2b/internal/application/taxes"
	"github.com/jhoicas/cartera-b2b/internal/domain"
	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
	"github.com/jhoicas/cartera-b2b/internal/domain/repository"
	"github.com/jhoicas/cartera-b2b/internal/domain/tax"
	"github.com/jhoicas/cartera-b2b/pkg/clock"
	"github.com/jhoicas/cartera-b2b/pkg/logger"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// InvoiceUseCase crea, anula y consulta facturas B2B. Creación y anulación mueven inventario,
// cupo del cliente y estadísticas en una sola transacción.
type InvoiceUseCase struct {
	repos       repository.Repositories
	txRunner    repository.TxRunner
	inventoryUC InventoryUseCase
	clock       clock.Clock
	observer    ports.LedgerObserver
	log         *logger.Logger
	cfg         Config
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	repos repository.Repositories,
	txRunner repository.TxRunner,
	inventoryUC InventoryUseCase,
	clk clock.Clock,
	observer ports.LedgerObserver,
	log *logger.Logger,
	cfg Config,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		repos:       repos,
		txRunner:    txRunner,
		inventoryUC: inventoryUC,
		clock:       clk,
		observer:    observer,
		log:         log.WithComponent("billing"),
		cfg:         cfg,
	}
}

// CreateInvoice liquida y guarda la factura, descuenta el inventario y reserva cupo si es a crédito.
// Cualquier falla deshace todo: no quedan filas, el stock y el cupo no cambian.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, actorID string, in dto.CreateInvoiceRequest) (resp *dto.InvoiceResponse, err error) {
	defer func(started time.Time) { uc.observer.Observe(ports.OpCreateInvoice, started, err) }(uc.clock.Now())

	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.DiscountOverride != nil && !in.DiscountOverride.Equal(in.DiscountOverride.Round(2)) {
		return nil, domain.NewValidationError("discount_override", "máximo 2 decimales")
	}

	customer, err := uc.repos.Customers.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if !customer.CanInvoice() {
		return nil, domain.ErrCustomerNotEligible
	}
	store, err := uc.repos.Stores.GetByID(ctx, in.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}

	method := entity.PaymentMethod(in.PaymentMethod)
	now := uc.clock.Now()
	invoiceID := uuid.New().String() // se usa como referencia en movimientos (TransactionID)
	var (
		inv      *entity.Invoice
		lines    []*entity.InvoiceLineItem
		taxLines []*entity.InvoiceTaxLine
	)

	err = uc.txRunner.RunLedger(ctx, func(repos repository.Repositories) error {
		var err error
		// 1) Bloquear el cliente y revalidar su estado bajo el bloqueo.
		customer, err = repos.Customers.GetByIDForUpdate(ctx, in.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.ErrNotFound
		}
		if !customer.CanInvoice() {
			return domain.ErrCustomerNotEligible
		}

		// 2) Bloquear stock en orden de producto y verificar existencias por producto.
		products, err := lockAndCheckStock(ctx, repos, in.StoreID, in.Items)
		if err != nil {
			return err
		}

		// 3) Líneas, descuento e impuestos.
		subtotal, itemDiscounts := decimal.Zero, decimal.Zero
		anyItemDiscount := false
		for _, item := range in.Items {
			p := products[item.ProductID]
			price := p.Price
			if item.UnitPrice != nil {
				price = *item.UnitPrice
			}
			line := &entity.InvoiceLineItem{
				ID:              uuid.New().String(),
				InvoiceID:       invoiceID,
				ProductID:       p.ID,
				ProductName:     p.Name,
				Quantity:        item.Quantity,
				UnitPrice:       price,
				DiscountPercent: item.DiscountPercent,
				Subtotal:        item.Quantity.Mul(price).Round(2),
			}
			line.Discount = line.Subtotal.Mul(item.DiscountPercent).Div(hundred).Round(2)
			line.Total = line.Subtotal.Sub(line.Discount)
			if item.DiscountPercent.IsPositive() {
				anyItemDiscount = true
			}
			subtotal = subtotal.Add(line.Subtotal)
			itemDiscounts = itemDiscounts.Add(line.Discount)
			lines = append(lines, line)
		}
		discount := invoiceDiscount(subtotal, itemDiscounts, anyItemDiscount, in, customer)
		if discount.GreaterThan(subtotal) {
			return domain.NewValidationError("discount_override", "el descuento supera el subtotal")
		}

		resolved, err := taxes.ResolveForCustomer(ctx, repos, customer, in.TaxIDs)
		if err != nil {
			return err
		}
		result, err := tax.Compute(subtotal.Sub(discount), resolved)
		if err != nil {
			return err
		}

		// 4) Reservar cupo (solo CREDIT).
		if method.UsesCredit() {
			if err := customer.ReserveCredit(result.Total); err != nil {
				return err
			}
		}

		// 5) Consecutivo y persistencia.
		seq, err := repos.Sequences.Next(ctx, repository.SequenceInvoice)
		if err != nil {
			return err
		}
		inv = &entity.Invoice{
			ID:                 invoiceID,
			InvoiceNumber:      fmt.Sprintf("%s-%06d", uc.cfg.InvoicePrefix, seq),
			CustomerID:         customer.ID,
			StoreID:            in.StoreID,
			OriginatingOrderID: in.OriginatingOrderID,
			Settlement: entity.Settlement{
				Subtotal:         subtotal,
				Discount:         discount,
				TaxTotal:         result.TaxTotal,
				WithholdingTotal: result.WithholdingTotal,
				Total:            result.Total,
				BalanceDue:       result.Total,
				PaymentStatus:    entity.PaymentPending,
			},
			IssueDate:     now,
			PaymentMethod: method,
			Notes:         in.Notes,
			CreatedBy:     actorID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if method.UsesCredit() {
			due := now.AddDate(0, 0, customer.CreditDays)
			inv.DueDate = &due
		}
		if result.Total.IsZero() {
			inv.PaymentStatus = entity.PaymentPaid
			inv.PaidInFullDate = &now
		}
		if err := repos.Invoices.Create(ctx, inv); err != nil {
			return err
		}
		for _, line := range lines {
			if err := repos.Invoices.CreateLine(ctx, line); err != nil {
				return err
			}
		}
		for _, l := range result.Lines {
			tl := &entity.InvoiceTaxLine{
				ID:             uuid.New().String(),
				InvoiceID:      invoiceID,
				TaxID:          l.Tax.Definition.ID,
				Code:           l.Tax.Definition.Code,
				Name:           l.Tax.Definition.Name,
				Kind:           l.Tax.Definition.Kind,
				BaseRule:       l.Tax.Definition.BaseRule,
				RateApplied:    l.Tax.Rate,
				BaseAmount:     l.Base,
				ComputedAmount: l.Amount,
				Sequence:       l.Sequence,
			}
			if err := repos.Invoices.CreateTaxLine(ctx, tl); err != nil {
				return err
			}
			taxLines = append(taxLines, tl)
		}

		// 6) Salidas de inventario (OUT) referenciando la factura.
		ref := entity.MovementRef{TransactionID: invoiceID, Source: entity.SourceInvoice, UserID: actorID, At: now}
		for _, productID := range sortedProductIDs(in.Items) {
			if err := uc.inventoryUC.RegisterOUTInTx(ctx, repos, productID, in.StoreID, totalQuantity(in.Items, productID), ref); err != nil {
				return err
			}
		}

		// 7) Estadísticas y cupo del cliente.
		customer.RecordSale(result.Total, now)
		customer.UpdatedAt = now
		return repos.Customers.Update(ctx, customer)
	})
	if err != nil {
		return nil, err
	}

	uc.observer.AddAmount(ports.DocInvoice, inv.Total)
	uc.log.Info().
		Str("invoice_id", inv.ID).
		Str("invoice_number", inv.InvoiceNumber).
		Str("customer_id", inv.CustomerID).
		Str("payment_method", string(inv.PaymentMethod)).
		Str("total", inv.Total.StringFixed(2)).
		Msg("factura creada")
	out := dto.ToInvoiceResponse(inv, customer.LegalName, lines, taxLines, nil)
	return &out, nil
}

// invoiceDiscount Σ descuentos de ítem; si ningún ítem trae descuento se usa el descuento
// explícito de la factura o, si se pidió, el porcentaje del cliente sobre el subtotal.
func invoiceDiscount(subtotal, itemDiscounts decimal.Decimal, anyItemDiscount bool, in dto.CreateInvoiceRequest, customer *entity.B2BCustomer) decimal.Decimal {
	if anyItemDiscount {
		return itemDiscounts
	}
	if in.DiscountOverride != nil {
		return *in.DiscountOverride
	}
	if in.ApplyCustomerDiscount && customer.DiscountPercent.IsPositive() {
		return subtotal.Mul(customer.DiscountPercent).Div(hundred).Round(2)
	}
	return decimal.Zero
}

// lockAndCheckStock bloquea las filas de stock en orden de producto y valida existencias
// contra la cantidad total pedida de cada producto.
func lockAndCheckStock(ctx context.Context, repos repository.Repositories, storeID string, items []dto.InvoiceItemRequest) (map[string]*entity.Product, error) {
	products := make(map[string]*entity.Product, len(items))
	for _, productID := range sortedProductIDs(items) {
		p, err := repos.Products.GetByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
		}
		products[productID] = p

		stock, err := repos.Stock.GetForUpdate(ctx, productID, storeID)
		if err != nil {
			return nil, err
		}
		requested := totalQuantity(items, productID)
		if stock.Quantity.LessThan(requested) {
			return nil, &domain.InsufficientStockError{
				ProductID:   productID,
				ProductName: p.Name,
				StoreID:     storeID,
				Requested:   requested,
				Available:   stock.Quantity,
			}
		}
	}
	return products, nil
}

func sortedProductIDs(items []dto.InvoiceItemRequest) []string {
	seen := make(map[string]bool, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}
	sort.Strings(ids)
	return ids
}

func totalQuantity(items []dto.InvoiceItemRequest, productID string) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.ProductID == productID {
			total = total.Add(item.Quantity)
		}
	}
	return total
}
