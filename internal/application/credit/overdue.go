package credit

import (
	"context"
	"time"

	"github.com/jhoicas/cartera-b2b/internal/application/dto"
	"github.com/jhoicas/cartera-b2b/internal/application/ports"
	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
	"github.com/jhoicas/cartera-b2b/internal/domain/repository"
)

const overdueReason = "bloqueo automático por cartera vencida"

// RefreshOverdue paso del proceso periódico de mora: marca OVERDUE las facturas y compras
// abiertas con vencimiento pasado, bloquea los clientes ACTIVE con facturas vencidas y
// reactiva los bloqueados automáticamente que ya no tienen ninguna.
func (uc *CustomerUseCase) RefreshOverdue(ctx context.Context) (res dto.OverdueRefreshResult, err error) {
	defer func(started time.Time) { uc.observer.Observe(ports.OpRefreshOverdue, started, err) }(uc.clock.Now())

	now := uc.clock.Now()
	err = uc.txRunner.RunLedger(ctx, func(repos repository.Repositories) error {
		res = dto.OverdueRefreshResult{}

		invoices, err := repos.Invoices.ListPastDue(ctx, now)
		if err != nil {
			return err
		}
		for _, candidate := range invoices {
			inv, err := repos.Invoices.GetByIDForUpdate(ctx, candidate.ID)
			if err != nil {
				return err
			}
			if inv == nil || !inv.MarkOverdue(now) {
				continue
			}
			inv.UpdatedAt = now
			if err := repos.Invoices.Update(ctx, inv); err != nil {
				return err
			}
			res.InvoicesMarked++
		}

		purchases, err := repos.Purchases.ListPastDue(ctx, now)
		if err != nil {
			return err
		}
		for _, candidate := range purchases {
			p, err := repos.Purchases.GetByIDForUpdate(ctx, candidate.ID)
			if err != nil {
				return err
			}
			if p == nil || !p.MarkOverdue(now) {
				continue
			}
			p.UpdatedAt = now
			if err := repos.Purchases.Update(ctx, p); err != nil {
				return err
			}
			res.PurchasesMarked++
		}

		overdueIDs, err := repos.Invoices.CustomerIDsWithOverdue(ctx)
		if err != nil {
			return err
		}
		withOverdue := make(map[string]bool, len(overdueIDs))
		for _, id := range overdueIDs {
			withOverdue[id] = true
			c, err := repos.Customers.GetByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if c == nil || c.Status != entity.CustomerActive {
				continue
			}
			c.Status = entity.CustomerBlocked
			c.StatusReason = overdueReason
			c.BlockedByOverdue = true
			c.UpdatedAt = now
			if err := repos.Customers.Update(ctx, c); err != nil {
				return err
			}
			res.CustomersBlocked++
		}

		blocked, err := repos.Customers.ListBlockedByOverdue(ctx)
		if err != nil {
			return err
		}
		for _, candidate := range blocked {
			if withOverdue[candidate.ID] {
				continue
			}
			c, err := repos.Customers.GetByIDForUpdate(ctx, candidate.ID)
			if err != nil {
				return err
			}
			if c == nil || !c.BlockedByOverdue {
				continue
			}
			unblock(c, now)
			if err := repos.Customers.Update(ctx, c); err != nil {
				return err
			}
			res.CustomersReleased++
		}
		return nil
	})
	if err != nil {
		return dto.OverdueRefreshResult{}, err
	}
	uc.log.Info().
		Int("invoices_marked", res.InvoicesMarked).
		Int("purchases_marked", res.PurchasesMarked).
		Int("customers_blocked", res.CustomersBlocked).
		Int("customers_released", res.CustomersReleased).
		Msg("proceso de mora ejecutado")
	return res, nil
}

// ReleaseOverdueBlock reactiva un cliente bloqueado automáticamente si ya no tiene facturas
// vencidas. Se llama con la fila del cliente bloqueada dentro de la transacción del pago o
// de la anulación; el caller persiste el cliente. Devuelve true si hubo cambio.
func ReleaseOverdueBlock(ctx context.Context, repos repository.Repositories, c *entity.B2BCustomer, now time.Time) (bool, error) {
	if c.Status != entity.CustomerBlocked || !c.BlockedByOverdue {
		return false, nil
	}
	open, err := repos.Invoices.ListOpenByCustomer(ctx, c.ID)
	if err != nil {
		return false, err
	}
	for _, inv := range open {
		if inv.PaymentStatus == entity.PaymentOverdue {
			return false, nil
		}
	}
	unblock(c, now)
	return true, nil
}

func unblock(c *entity.B2BCustomer, now time.Time) {
	c.Status = entity.CustomerActive
	c.StatusReason = ""
	c.BlockedByOverdue = false
	c.UpdatedAt = now
}
