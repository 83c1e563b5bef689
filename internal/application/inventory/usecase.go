package inventory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/jhoicas/cartera-b2b/internal/application/ports"
	"github.com/jhoicas/cartera-b2b/internal/domain"
	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
	"github.com/jhoicas/cartera-b2b/internal/domain/inventory"
	"github.com/jhoicas/cartera-b2b/internal/domain/repository"
	"github.com/jhoicas/cartera-b2b/pkg/clock"
	"github.com/jhoicas/cartera-b2b/pkg/logger"
	"github.com/shopspring/decimal"
)

// RegisterMovementUseCase motor de existencias. Registra ajustes manuales en su propia transacción
// y expone las variantes InTx que facturación y compras ejecutan dentro de la transacción del documento.
// Todas bloquean la fila de stock (SELECT FOR UPDATE) antes de modificarla.
type RegisterMovementUseCase struct {
	repos    repository.Repositories
	txRunner repository.TxRunner
	clock    clock.Clock
	observer ports.LedgerObserver
	log      *logger.Logger
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	repos repository.Repositories,
	txRunner repository.TxRunner,
	clk clock.Clock,
	observer ports.LedgerObserver,
	log *logger.Logger,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		repos:    repos,
		txRunner: txRunner,
		clock:    clk,
		observer: observer,
		log:      log.WithComponent("inventory"),
	}
}

// MovementInput entrada para un movimiento manual.
// IN exige UnitCost; OUT exige cantidad positiva; ADJUSTMENT positivo entra como IN y negativo sale como OUT.
type MovementInput struct {
	UserID    string
	ProductID string
	StoreID   string
	Type      string
	Quantity  decimal.Decimal
	UnitCost  *decimal.Decimal
}

// RegisterMovement valida producto y tienda, abre la transacción y aplica el movimiento.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInput) ([]*entity.InventoryMovement, error) {
	switch input.Type {
	case entity.MovementTypeIN:
		if input.UnitCost == nil || input.UnitCost.IsNegative() {
			return nil, domain.NewValidationError("unit_cost", "requerido para entradas")
		}
		if !input.Quantity.IsPositive() {
			return nil, domain.NewValidationError("quantity", "debe ser mayor que 0")
		}
	case entity.MovementTypeOUT:
		if !input.Quantity.IsPositive() {
			return nil, domain.NewValidationError("quantity", "debe ser mayor que 0")
		}
	case entity.MovementTypeADJUSTMENT:
		if input.Quantity.IsZero() {
			return nil, domain.NewValidationError("quantity", "no puede ser 0")
		}
	default:
		return nil, domain.NewValidationError("type", "debe ser uno de: IN OUT ADJUSTMENT")
	}

	product, err := uc.repos.Products.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	store, err := uc.repos.Stores.GetByID(ctx, input.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}

	ref := entity.MovementRef{
		TransactionID: uuid.New().String(),
		Source:        entity.SourceManual,
		UserID:        input.UserID,
		At:            uc.clock.Now(),
	}
	started := uc.clock.Now()
	err = uc.txRunner.RunLedger(ctx, func(repos repository.Repositories) error {
		switch {
		case input.Type == entity.MovementTypeIN:
			return uc.RegisterINInTx(ctx, repos, input.ProductID, input.StoreID, input.Quantity, *input.UnitCost, ref)
		case input.Type == entity.MovementTypeOUT:
			return uc.RegisterOUTInTx(ctx, repos, input.ProductID, input.StoreID, input.Quantity, ref)
		case input.Quantity.IsPositive():
			cost := product.Cost
			if input.UnitCost != nil {
				cost = *input.UnitCost
			}
			return uc.apply(ctx, repos, input.ProductID, input.StoreID, input.Quantity, cost, entity.MovementTypeADJUSTMENT, ref)
		default:
			return uc.apply(ctx, repos, input.ProductID, input.StoreID, input.Quantity, decimal.Zero, entity.MovementTypeADJUSTMENT, ref)
		}
	})
	uc.observer.Observe(ports.OpRegisterMovement, started, err)
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("product_id", input.ProductID).
		Str("store_id", input.StoreID).
		Str("type", input.Type).
		Str("quantity", input.Quantity.String()).
		Msg("movimiento de inventario registrado")
	return uc.repos.Movements.ListByTransaction(ctx, ref.TransactionID)
}

// RegisterOUTInTx descuenta existencias con los repositorios de la transacción del caller.
// Falla con InsufficientStockError sin tocar nada si no alcanza; el caller hace rollback.
func (uc *RegisterMovementUseCase) RegisterOUTInTx(
	ctx context.Context,
	repos repository.Repositories,
	productID, storeID string,
	quantity decimal.Decimal,
	ref entity.MovementRef,
) error {
	return uc.apply(ctx, repos, productID, storeID, quantity.Neg(), decimal.Zero, entity.MovementTypeOUT, ref)
}

// RegisterINInTx suma existencias y recalcula el costo promedio del producto (CostCalculator).
func (uc *RegisterMovementUseCase) RegisterINInTx(
	ctx context.Context,
	repos repository.Repositories,
	productID, storeID string,
	quantity, unitCost decimal.Decimal,
	ref entity.MovementRef,
) error {
	return uc.apply(ctx, repos, productID, storeID, quantity, unitCost, entity.MovementTypeIN, ref)
}

// ReverseInTx deshace los movimientos de un documento: cada salida vuelve a entrar a su costo
// original y cada entrada vuelve a salir. Se procesan en orden de producto para respetar el orden de bloqueo.
func (uc *RegisterMovementUseCase) ReverseInTx(ctx context.Context, repos repository.Repositories, transactionID string, ref entity.MovementRef) error {
	movements, err := repos.Movements.ListByTransaction(ctx, transactionID)
	if err != nil {
		return err
	}
	sort.SliceStable(movements, func(i, j int) bool { return movements[i].ProductID < movements[j].ProductID })
	for _, m := range movements {
		typ := entity.MovementTypeIN
		if m.Quantity.IsPositive() {
			typ = entity.MovementTypeOUT
		}
		if err := uc.apply(ctx, repos, m.ProductID, m.StoreID, m.Quantity.Neg(), m.UnitCost, typ, ref); err != nil {
			return err
		}
	}
	return nil
}

// apply bloquea la fila de stock, valida, actualiza y deja el movimiento. delta > 0 es entrada.
// Las entradas recalculan el costo promedio; las salidas se valorizan al costo promedio vigente.
func (uc *RegisterMovementUseCase) apply(
	ctx context.Context,
	repos repository.Repositories,
	productID, storeID string,
	delta, unitCost decimal.Decimal,
	movementType string,
	ref entity.MovementRef,
) error {
	product, err := repos.Products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	stock, err := repos.Stock.GetForUpdate(ctx, productID, storeID)
	if err != nil {
		return err
	}

	if delta.IsNegative() {
		if stock.Quantity.LessThan(delta.Neg()) {
			return &domain.InsufficientStockError{
				ProductID:   productID,
				ProductName: product.Name,
				StoreID:     storeID,
				Requested:   delta.Neg(),
				Available:   stock.Quantity,
			}
		}
		unitCost = product.Cost
	} else {
		newCost := inventory.CostCalculator(stock.Quantity, product.Cost, delta, unitCost)
		if !newCost.Equal(product.Cost) {
			if err := repos.Products.UpdateCost(ctx, productID, newCost); err != nil {
				return err
			}
		}
	}

	stock.ProductID = productID
	stock.StoreID = storeID
	stock.Quantity = stock.Quantity.Add(delta)
	stock.UpdatedAt = ref.At
	if err := repos.Stock.Upsert(ctx, stock); err != nil {
		return err
	}
	return repos.Movements.Create(ctx, &entity.InventoryMovement{
		ID:            uuid.New().String(),
		TransactionID: ref.TransactionID,
		Source:        ref.Source,
		ProductID:     productID,
		StoreID:       storeID,
		Type:          movementType,
		Quantity:      delta,
		UnitCost:      unitCost,
		TotalCost:     delta.Mul(unitCost).Round(2),
		Date:          ref.At,
		CreatedAt:     ref.At,
		CreatedBy:     ref.UserID,
	})
}

// GetStock existencias actuales y costo promedio de un producto en una tienda.
func (uc *RegisterMovementUseCase) GetStock(ctx context.Context, productID, storeID string) (*entity.Stock, *entity.Product, error) {
	product, err := uc.repos.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, domain.ErrNotFound
	}
	stock, err := uc.repos.Stock.Get(ctx, productID, storeID)
	if err != nil {
		return nil, nil, err
	}
	return stock, product, nil
}
