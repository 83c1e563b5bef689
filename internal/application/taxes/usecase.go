package taxes

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
	"github.com/jhoicas/cartera-b2b/pkg/clock"
	"github.com/jhoicas/cartera-b2b/pkg/logger"
	"github.com/shopspring/decimal"
)

// CatalogUseCase administra el catálogo de impuestos y los impuestos por defecto de los clientes.
type CatalogUseCase struct {
	repos    repository.Repositories
	txRunner repository.TxRunner
	clock    clock.Clock
	observer ports.LedgerObserver
	log      *logger.Logger
}

// NewCatalogUseCase construye el caso de uso. repos son los repositorios fuera de transacción.
func NewCatalogUseCase(
	repos repository.Repositories,
	txRunner repository.TxRunner,
	clk clock.Clock,
	observer ports.LedgerObserver,
	log *logger.Logger,
) *CatalogUseCase {
	return &CatalogUseCase{
		repos:    repos,
		txRunner: txRunner,
		clock:    clk,
		observer: observer,
		log:      log.WithComponent("taxes"),
	}
}

// DefineTax agrega un impuesto o retención al catálogo.
func (uc *CatalogUseCase) DefineTax(ctx context.Context, in dto.CreateTaxRequest) (resp *dto.TaxResponse, err error) {
	defer func(started time.Time) { uc.observer.Observe(ports.OpDefineTax, started, err) }(uc.clock.Now())

	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if !in.Rate.Equal(in.Rate.Round(2)) {
		return nil, domain.NewValidationError("rate", "máximo 2 decimales")
	}
	applicability := entity.TaxRegime(in.Applicability)
	if applicability == "" {
		applicability = entity.RegimeAll
	}
	existing, err := uc.repos.Taxes.GetByCode(ctx, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateCode
	}

	now := uc.clock.Now()
	t := &entity.TaxDefinition{
		ID:               uuid.New().String(),
		Code:             in.Code,
		Name:             in.Name,
		Kind:             entity.TaxKind(in.Kind),
		Rate:             in.Rate,
		BaseRule:         entity.BaseRule(in.BaseRule),
		Applicability:    applicability,
		ApplicationOrder: in.ApplicationOrder,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repos.Taxes.Create(ctx, t); err != nil {
		return nil, err
	}
	uc.log.Info().Str("tax_id", t.ID).Str("code", t.Code).Str("kind", string(t.Kind)).Msg("impuesto definido")
	out := dto.ToTaxResponse(t)
	return &out, nil
}

// UpdateTax modifica nombre, tasa, orden o aplicabilidad. Las facturas ya emitidas conservan
// su copia del impuesto, así que el cambio solo afecta documentos nuevos.
func (uc *CatalogUseCase) UpdateTax(ctx context.Context, id string, in dto.UpdateTaxRequest) (*dto.TaxResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	t, err := uc.repos.Taxes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		t.Name = *in.Name
	}
	if in.Rate != nil {
		if !in.Rate.Equal(in.Rate.Round(2)) {
			return nil, domain.NewValidationError("rate", "máximo 2 decimales")
		}
		t.Rate = *in.Rate
	}
	if in.Applicability != nil {
		t.Applicability = entity.TaxRegime(*in.Applicability)
	}
	if in.ApplicationOrder != nil {
		t.ApplicationOrder = *in.ApplicationOrder
	}
	t.UpdatedAt = uc.clock.Now()
	if err := uc.repos.Taxes.Update(ctx, t); err != nil {
		return nil, err
	}
	out := dto.ToTaxResponse(t)
	return &out, nil
}

// DeactivateTax desactiva el impuesto. Es idempotente; las líneas históricas no cambian.
func (uc *CatalogUseCase) DeactivateTax(ctx context.Context, id string) (*dto.TaxResponse, error) {
	t, err := uc.repos.Taxes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	if t.Active {
		t.Active = false
		t.UpdatedAt = uc.clock.Now()
		if err := uc.repos.Taxes.Update(ctx, t); err != nil {
			return nil, err
		}
		uc.log.Info().Str("tax_id", t.ID).Str("code", t.Code).Msg("impuesto desactivado")
	}
	out := dto.ToTaxResponse(t)
	return &out, nil
}

// ListTaxes lista el catálogo en orden de inserción.
func (uc *CatalogUseCase) ListTaxes(ctx context.Context, activeOnly bool) ([]dto.TaxResponse, error) {
	list, err := uc.repos.Taxes.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TaxResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.ToTaxResponse(t))
	}
	return out, nil
}

// SetCustomerTaxDefaults reemplaza en una transacción los impuestos por defecto del cliente.
func (uc *CatalogUseCase) SetCustomerTaxDefaults(ctx context.Context, customerID string, in dto.SetCustomerTaxDefaultsRequest) (out []dto.CustomerTaxDefaultResponse, err error) {
	defer func(started time.Time) { uc.observer.Observe(ports.OpSetTaxDefaults, started, err) }(uc.clock.Now())

	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(in.Taxes))
	for i, item := range in.Taxes {
		if seen[item.TaxID] {
			return nil, domain.NewValidationError(fmt.Sprintf("taxes[%d].tax_id", i), "impuesto repetido")
		}
		seen[item.TaxID] = true
		if item.RateOverride != nil && !item.RateOverride.Equal(item.RateOverride.Round(2)) {
			return nil, domain.NewValidationError(fmt.Sprintf("taxes[%d].rate_override", i), "máximo 2 decimales")
		}
	}

	now := uc.clock.Now()
	err = uc.txRunner.RunLedger(ctx, func(repos repository.Repositories) error {
		customer, err := repos.Customers.GetByIDForUpdate(ctx, customerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.ErrNotFound
		}
		defaults := make([]*entity.CustomerTaxDefault, 0, len(in.Taxes))
		out = make([]dto.CustomerTaxDefaultResponse, 0, len(in.Taxes))
		for _, item := range in.Taxes {
			t, err := repos.Taxes.GetByID(ctx, item.TaxID)
			if err != nil {
				return err
			}
			if t == nil {
				return fmt.Errorf("impuesto %s: %w", item.TaxID, domain.ErrNotFound)
			}
			if !t.Active {
				return &domain.TaxConfigError{TaxCode: t.Code, Reason: "impuesto inactivo"}
			}
			defaults = append(defaults, &entity.CustomerTaxDefault{
				CustomerID:   customerID,
				TaxID:        t.ID,
				RateOverride: item.RateOverride,
				CreatedAt:    now,
			})
			out = append(out, toDefaultResponse(t, item.RateOverride))
		}
		return repos.TaxDefaults.ReplaceForCustomer(ctx, customerID, defaults)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("customer_id", customerID).Int("taxes", len(out)).Msg("impuestos por defecto actualizados")
	return out, nil
}

// GetCustomerTaxDefaults devuelve los impuestos por defecto del cliente con su tasa efectiva.
func (uc *CatalogUseCase) GetCustomerTaxDefaults(ctx context.Context, customerID string) ([]dto.CustomerTaxDefaultResponse, error) {
	customer, err := uc.repos.Customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	defaults, err := uc.repos.TaxDefaults.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerTaxDefaultResponse, 0, len(defaults))
	for _, d := range defaults {
		t, err := uc.repos.Taxes.GetByID(ctx, d.TaxID)
		if err != nil {
			return nil, err
		}
		if t == nil {
			continue
		}
		out = append(out, toDefaultResponse(t, d.RateOverride))
	}
	return out, nil
}

// ResolveApplicableTaxes vista previa de los impuestos que se liquidarían en una factura del cliente.
func (uc *CatalogUseCase) ResolveApplicableTaxes(ctx context.Context, customerID string, selected []string) ([]dto.ResolvedTaxResponse, error) {
	customer, err := uc.repos.Customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	resolved, err := ResolveForCustomer(ctx, uc.repos, customer, selected)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ResolvedTaxResponse, 0, len(resolved))
	for _, r := range resolved {
		out = append(out, dto.ResolvedTaxResponse{
			TaxID:    r.Definition.ID,
			Code:     r.Definition.Code,
			Name:     r.Definition.Name,
			Kind:     string(r.Definition.Kind),
			BaseRule: string(r.Definition.BaseRule),
			Rate:     r.Rate,
		})
	}
	return out, nil
}

func toDefaultResponse(t *entity.TaxDefinition, override *decimal.Decimal) dto.CustomerTaxDefaultResponse {
	effective := t.Rate
	if override != nil {
		effective = *override
	}
	return dto.CustomerTaxDefaultResponse{
		TaxID:         t.ID,
		Code:          t.Code,
		Name:          t.Name,
		Rate:          t.Rate,
		RateOverride:  override,
		EffectiveRate: effective,
	}
}
