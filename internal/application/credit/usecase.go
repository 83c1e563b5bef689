package credit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/cartera-b2b/internal/application/dto"
	"github.com/jhoicas/cartera-b2b/internal/application/ports"
	"github.com/jhoicas/cartera-b2b/internal/domain"
	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
	"github.com/jhoicas/cartera-b2b/internal/domain/repository"
	"github.com/jhoicas/cartera-b2b/pkg/clock"
	"github.com/jhoicas/cartera-b2b/pkg/logger"
	"github.com/jhoicas/cartera-b2b/pkg/nit"
)

// CustomerUseCase casos de uso del cupo de crédito y el ciclo de vida de clientes B2B.
type CustomerUseCase struct {
	repos    repository.Repositories
	txRunner repository.TxRunner
	clock    clock.Clock
	observer ports.LedgerObserver
	log      *logger.Logger
}

// NewCustomerUseCase construye el caso de uso. repos son los repositorios fuera de transacción.
func NewCustomerUseCase(
	repos repository.Repositories,
	txRunner repository.TxRunner,
	clk clock.Clock,
	observer ports.LedgerObserver,
	log *logger.Logger,
) *CustomerUseCase {
	return &CustomerUseCase{
		repos:    repos,
		txRunner: txRunner,
		clock:    clk,
		observer: observer,
		log:      log.WithComponent("credit"),
	}
}

// RegisterCustomer crea un cliente ACTIVE con todo el cupo disponible.
func (uc *CustomerUseCase) RegisterCustomer(ctx context.Context, in dto.CreateCustomerRequest) (resp *dto.CustomerResponse, err error) {
	defer func(started time.Time) { uc.observer.Observe(ports.OpRegisterCustomer, started, err) }(uc.clock.Now())

	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if !in.CreditLimit.Equal(in.CreditLimit.Round(2)) {
		return nil, domain.NewValidationError("credit_limit", "máximo 2 decimales")
	}
	if in.IDType == "NIT" {
		if err := nit.Validate(in.IDNumber); err != nil {
			return nil, domain.NewValidationError("id_number", err.Error())
		}
	}
	existing, err := uc.repos.Customers.GetByIDNumber(ctx, in.IDNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateCode
	}
	now := uc.clock.Now()
	c := &entity.B2BCustomer{
		ID:              uuid.New().String(),
		IDType:          in.IDType,
		IDNumber:        in.IDNumber,
		LegalName:       in.LegalName,
		TradeName:       in.TradeName,
		Email:           in.Email,
		Phone:           in.Phone,
		Address:         in.Address,
		TaxRegime:       entity.TaxRegime(in.TaxRegime),
		CreditLimit:     in.CreditLimit,
		CreditAvailable: in.CreditLimit,
		CreditDays:      in.CreditDays,
		DiscountPercent: in.DiscountPercent,
		Status:          entity.CustomerActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repos.Customers.Create(ctx, c); err != nil {
		return nil, err
	}
	uc.log.Info().Str("customer_id", c.ID).Str("id_number", c.IDNumber).Msg("cliente registrado")
	out := dto.ToCustomerResponse(c)
	return &out, nil
}

// GetCustomer obtiene un cliente por ID.
func (uc *CustomerUseCase) GetCustomer(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	c, err := uc.repos.Customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.ToCustomerResponse(c)
	return &out, nil
}

// ListCustomers lista clientes con filtros de estado y texto.
func (uc *CustomerUseCase) ListCustomers(ctx context.Context, in dto.ListCustomersRequest) ([]dto.CustomerResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	in.DefaultPage()
	list, err := uc.repos.Customers.List(ctx, repository.CustomerFilter{
		Status: entity.CustomerStatus(in.Status),
		Search: in.Search,
		Limit:  in.Limit,
		Offset: in.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.ToCustomerResponse(c))
	}
	return out, nil
}

// ChangeStatus aplica una transición manual. Salir de ACTIVE exige motivo; volver a ACTIVE
// limpia el bloqueo por mora (el proceso de mora vuelve a bloquear si persisten vencidas).
func (uc *CustomerUseCase) ChangeStatus(ctx context.Context, id string, in dto.UpdateCustomerStatusRequest, actorID string) (resp *dto.CustomerResponse, err error) {
	defer func(started time.Time) { uc.observer.Observe(ports.OpChangeCustomerStatus, started, err) }(uc.clock.Now())

	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	to := entity.CustomerStatus(in.Status)
	if to != entity.CustomerActive && in.Reason == "" {
		return nil, domain.NewValidationError("reason", "campo requerido")
	}

	var c *entity.B2BCustomer
	err = uc.txRunner.RunLedger(ctx, func(repos repository.Repositories) error {
		var err error
		c, err = repos.Customers.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		if !c.Status.CanTransitionTo(to) {
			return domain.ErrConflict
		}
		c.Status = to
		c.StatusReason = in.Reason
		c.BlockedByOverdue = false
		c.UpdatedAt = uc.clock.Now()
		return repos.Customers.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("customer_id", id).Str("status", string(to)).Str("actor", actorID).Msg("estado de cliente actualizado")
	out := dto.ToCustomerResponse(c)
	return &out, nil
}

// UpdateCreditLimit cambia el cupo. El disponible se mueve en la misma diferencia; un cupo
// menor que el saldo pendiente se rechaza con InvalidAmount.
func (uc *CustomerUseCase) UpdateCreditLimit(ctx context.Context, id string, in dto.UpdateCreditLimitRequest) (resp *dto.CustomerResponse, err error) {
	defer func(started time.Time) { uc.observer.Observe(ports.OpUpdateCreditLimit, started, err) }(uc.clock.Now())

	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if !in.CreditLimit.Equal(in.CreditLimit.Round(2)) {
		return nil, domain.NewValidationError("credit_limit", "máximo 2 decimales")
	}

	var c *entity.B2BCustomer
	err = uc.txRunner.RunLedger(ctx, func(repos repository.Repositories) error {
		var err error
		c, err = repos.Customers.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		outstanding := c.Outstanding()
		if in.CreditLimit.LessThan(outstanding) {
			return &domain.InvalidAmountError{Amount: in.CreditLimit, BalanceDue: outstanding}
		}
		c.CreditLimit = in.CreditLimit
		c.CreditAvailable = in.CreditLimit.Sub(outstanding)
		c.UpdatedAt = uc.clock.Now()
		return repos.Customers.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("customer_id", id).Str("credit_limit", c.CreditLimit.StringFixed(2)).Msg("cupo actualizado")
	out := dto.ToCustomerResponse(c)
	return &out, nil
}

// RecalculateCredit recalcula el disponible desde las facturas a crédito abiertas.
// Una diferencia con el valor guardado indica un desajuste y se registra como advertencia.
func (uc *CustomerUseCase) RecalculateCredit(ctx context.Context, id string) (resp *dto.RecalculateCreditResponse, err error) {
	defer func(started time.Time) { uc.observer.Observe(ports.OpRecalculateCredit, started, err) }(uc.clock.Now())

	err = uc.txRunner.RunLedger(ctx, func(repos repository.Repositories) error {
		c, err := repos.Customers.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		open, err := repos.Invoices.SumOpenCreditBalance(ctx, id)
		if err != nil {
			return err
		}
		previous := c.CreditAvailable
		c.CreditAvailable = c.CreditLimit.Sub(open)
		resp = &dto.RecalculateCreditResponse{
			CustomerID: id,
			Previous:   previous,
			Current:    c.CreditAvailable,
			Drift:      c.CreditAvailable.Sub(previous),
		}
		if resp.Drift.IsZero() {
			return nil
		}
		c.UpdatedAt = uc.clock.Now()
		return repos.Customers.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	if !resp.Drift.IsZero() {
		uc.log.Warn().
			Str("customer_id", id).
			Str("previous", resp.Previous.StringFixed(2)).
			Str("current", resp.Current.StringFixed(2)).
			Msg("cupo disponible desajustado, corregido")
	}
	return resp, nil
}

// DeleteCustomer borra el cliente. Con saldo pendiente falla con Conflict; con facturas
// históricas solo lo inactiva.
func (uc *CustomerUseCase) DeleteCustomer(ctx context.Context, id, actorID string) (*dto.DeleteCustomerResponse, error) {
	resp := &dto.DeleteCustomerResponse{CustomerID: id}
	err := uc.txRunner.RunLedger(ctx, func(repos repository.Repositories) error {
		c, err := repos.Customers.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		if c.Outstanding().IsPositive() {
			return domain.ErrConflict
		}
		count, err := repos.Invoices.CountByCustomer(ctx, id)
		if err != nil {
			return err
		}
		if count == 0 {
			return repos.Customers.Delete(ctx, id)
		}
		resp.SoftDeleted = true
		c.Status = entity.CustomerInactive
		c.StatusReason = "eliminado con historial de facturas"
		c.BlockedByOverdue = false
		c.UpdatedAt = uc.clock.Now()
		return repos.Customers.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("customer_id", id).Bool("soft", resp.SoftDeleted).Str("actor", actorID).Msg("cliente eliminado")
	return resp, nil
}
