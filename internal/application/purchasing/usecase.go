package purchasing

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
	"github.com/jhoicas/cartera-b2b/pkg/nit"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PurchaseUseCase proveedores, facturas de compra y egresos. Espejo de la facturación de venta
// sin cupo de crédito: la compra aumenta inventario y actualiza el costo promedio.
type PurchaseUseCase struct {
	repos       repository.Repositories
	txRunner    repository.TxRunner
	inventoryUC InventoryUseCase
	clock       clock.Clock
	observer    ports.LedgerObserver
	log         *logger.Logger
	cfg         Config
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(
	repos repository.Repositories,
	txRunner repository.TxRunner,
	inventoryUC InventoryUseCase,
	clk clock.Clock,
	observer ports.LedgerObserver,
	log *logger.Logger,
	cfg Config,
) *PurchaseUseCase {
	return &PurchaseUseCase{
		repos:       repos,
		txRunner:    txRunner,
		inventoryUC: inventoryUC,
		clock:       clk,
		observer:    observer,
		log:         log.WithComponent("purchasing"),
		cfg:         cfg,
	}
}

// RegisterSupplier crea un proveedor ACTIVE. El número de identificación es único.
func (uc *PurchaseUseCase) RegisterSupplier(ctx context.Context, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.IDType == "NIT" {
		if err := nit.Validate(in.IDNumber); err != nil {
			return nil, domain.NewValidationError("id_number", err.Error())
		}
	}
	existing, err := uc.repos.Suppliers.GetByIDNumber(ctx, in.IDNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateCode
	}
	now := uc.clock.Now()
	s := &entity.Supplier{
		ID:         uuid.New().String(),
		IDType:     in.IDType,
		IDNumber:   in.IDNumber,
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		TaxRegime:  entity.TaxRegime(in.TaxRegime),
		CreditDays: in.CreditDays,
		Status:     entity.SupplierActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repos.Suppliers.Create(ctx, s); err != nil {
		return nil, err
	}
	uc.log.Info().Str("supplier_id", s.ID).Str("id_number", s.IDNumber).Msg("proveedor registrado")
	out := dto.ToSupplierResponse(s)
	return &out, nil
}

// GetSupplier obtiene un proveedor por ID.
func (uc *PurchaseUseCase) GetSupplier(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	s, err := uc.repos.Suppliers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.ToSupplierResponse(s)
	return &out, nil
}

// CreatePurchase liquida la compra con los impuestos del régimen del proveedor, suma
// existencias con movimientos IN y recalcula el costo promedio de cada producto.
func (uc *PurchaseUseCase) CreatePurchase(ctx context.Context, actorID string, in dto.CreatePurchaseRequest) (resp *dto.PurchaseResponse, err error) {
	defer func(started time.Time) { uc.observer.Observe(ports.OpCreatePurchase, started, err) }(uc.clock.Now())

	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	supplier, err := uc.repos.Suppliers.GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	if supplier.Status != entity.SupplierActive {
		return nil, domain.ErrConflict
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
	purchaseID := uuid.New().String()
	var (
		p        *entity.Purchase
		lines    []*entity.PurchaseLineItem
		taxLines []*entity.PurchaseTaxLine
	)
	err = uc.txRunner.RunLedger(ctx, func(repos repository.Repositories) error {
		var err error
		supplier, err = repos.Suppliers.GetByIDForUpdate(ctx, in.SupplierID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return domain.ErrNotFound
		}

		// 1) Líneas y descuentos por ítem.
		subtotal, discount := decimal.Zero, decimal.Zero
		for _, item := range in.Items {
			product, err := repos.Products.GetByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("producto %s: %w", item.ProductID, domain.ErrNotFound)
			}
			line := &entity.PurchaseLineItem{
				ID:              uuid.New().String(),
				PurchaseID:      purchaseID,
				ProductID:       product.ID,
				ProductName:     product.Name,
				Quantity:        item.Quantity,
				UnitCost:        item.UnitCost,
				DiscountPercent: item.DiscountPercent,
				Subtotal:        item.Quantity.Mul(item.UnitCost).Round(2),
			}
			line.Discount = line.Subtotal.Mul(item.DiscountPercent).Div(hundred).Round(2)
			line.Total = line.Subtotal.Sub(line.Discount)
			subtotal = subtotal.Add(line.Subtotal)
			discount = discount.Add(line.Discount)
			lines = append(lines, line)
		}

		// 2) Impuestos según el régimen del proveedor.
		resolved, err := taxes.ResolveForParty(ctx, repos, supplier.TaxRegime, in.TaxIDs)
		if err != nil {
			return err
		}
		result, err := tax.Compute(subtotal.Sub(discount), resolved)
		if err != nil {
			return err
		}

		// 3) Consecutivo y persistencia.
		seq, err := repos.Sequences.Next(ctx, repository.SequencePurchase)
		if err != nil {
			return err
		}
		p = &entity.Purchase{
			ID:                 purchaseID,
			PurchaseNumber:     fmt.Sprintf("%s-%06d", uc.cfg.PurchasePrefix, seq),
			SupplierID:         supplier.ID,
			StoreID:            in.StoreID,
			SupplierInvoiceRef: in.SupplierInvoiceRef,
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
			due := now.AddDate(0, 0, supplier.CreditDays)
			p.DueDate = &due
		}
		if result.Total.IsZero() {
			p.PaymentStatus = entity.PaymentPaid
			p.PaidInFullDate = &now
		}
		if err := repos.Purchases.Create(ctx, p); err != nil {
			return err
		}
		for _, line := range lines {
			if err := repos.Purchases.CreateLine(ctx, line); err != nil {
				return err
			}
		}
		for _, l := range result.Lines {
			tl := &entity.PurchaseTaxLine{
				ID:             uuid.New().String(),
				PurchaseID:     purchaseID,
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
			if err := repos.Purchases.CreateTaxLine(ctx, tl); err != nil {
				return err
			}
			taxLines = append(taxLines, tl)
		}

		// 4) Entradas de inventario (IN) al costo neto de descuento, en orden de producto.
		ref := entity.MovementRef{TransactionID: purchaseID, Source: entity.SourcePurchase, UserID: actorID, At: now}
		ordered := make([]*entity.PurchaseLineItem, len(lines))
		copy(ordered, lines)
		sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ProductID < ordered[j].ProductID })
		for _, line := range ordered {
			if err := uc.inventoryUC.RegisterINInTx(ctx, repos, line.ProductID, in.StoreID, line.Quantity, line.Total.Div(line.Quantity).Round(4), ref); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.observer.AddAmount(ports.DocPurchase, p.Total)
	uc.log.Info().
		Str("purchase_id", p.ID).
		Str("purchase_number", p.PurchaseNumber).
		Str("supplier_id", p.SupplierID).
		Str("total", p.Total.StringFixed(2)).
		Msg("compra registrada")
	out := dto.ToPurchaseResponse(p, supplier.Name, lines, taxLines, nil)
	return &out, nil
}

// CancelPurchase anula la compra y retira la mercancía que entró. Si ya se vendió falla con
// InsufficientStockError y nada cambia. Los egresos quedan como estaban.
func (uc *PurchaseUseCase) CancelPurchase(ctx context.Context, purchaseID, actorID string, in dto.CancelRequest) (resp *dto.PurchaseSummaryResponse, err error) {
	defer func(started time.Time) { uc.observer.Observe(ports.OpCancelPurchase, started, err) }(uc.clock.Now())

	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	now := uc.clock.Now()
	var p *entity.Purchase
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
			return domain.ErrAlreadyCancelled
		}
		ref := entity.MovementRef{TransactionID: p.ID, Source: entity.SourcePurchaseCancelled, UserID: actorID, At: now}
		if err := uc.inventoryUC.ReverseInTx(ctx, repos, p.ID, ref); err != nil {
			return err
		}
		p.Cancel(in.Reason, actorID, now)
		return repos.Purchases.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("purchase_id", p.ID).Str("actor", actorID).Str("reason", in.Reason).Msg("compra anulada")
	out := dto.ToPurchaseSummary(p)
	return &out, nil
}

// GetPurchase compra completa con líneas, impuestos y egresos.
func (uc *PurchaseUseCase) GetPurchase(ctx context.Context, purchaseID string) (*dto.PurchaseResponse, error) {
	p, err := uc.repos.Purchases.GetByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.repos.Purchases.GetLines(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	taxLines, err := uc.repos.Purchases.GetTaxLines(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	payments, err := uc.repos.PurchasePayments.ListByPurchase(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	var supplierName string
	if s, err := uc.repos.Suppliers.GetByID(ctx, p.SupplierID); err == nil && s != nil {
		supplierName = s.Name
	}
	out := dto.ToPurchaseResponse(p, supplierName, lines, taxLines, payments)
	return &out, nil
}
