package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
)

func openSettlement(total int64) entity.Settlement {
	return entity.Settlement{
		Total:         decimal.NewFromInt(total),
		AmountPaid:    decimal.Zero,
		BalanceDue:    decimal.NewFromInt(total),
		PaymentStatus: entity.PaymentPending,
	}
}

func TestSettlement_AbonosParciales(t *testing.T) {
	s := openSettlement(1000)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	s.ApplyPayment(decimal.NewFromInt(300), now)
	assert.Equal(t, entity.PaymentPartial, s.PaymentStatus)
	assert.True(t, s.BalanceDue.Equal(decimal.NewFromInt(700)))

	s.ApplyPayment(decimal.NewFromInt(700), now)
	assert.Equal(t, entity.PaymentPaid, s.PaymentStatus)
	assert.True(t, s.BalanceDue.IsZero())
	require.NotNil(t, s.PaidInFullDate)

	s.ReversePayment(decimal.NewFromInt(700))
	assert.Equal(t, entity.PaymentPartial, s.PaymentStatus)
	assert.Nil(t, s.PaidInFullDate)

	s.ReversePayment(decimal.NewFromInt(300))
	assert.Equal(t, entity.PaymentPending, s.PaymentStatus)
	assert.True(t, s.BalanceDue.Equal(s.Total))
}

func TestSettlement_VencidaSigueVencidaHastaPagar(t *testing.T) {
	due := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	s := openSettlement(500)
	s.DueDate = &due

	assert.False(t, s.MarkOverdue(due), "el mismo día de vencimiento aún no está vencida")
	assert.True(t, s.MarkOverdue(due.Add(72*time.Hour)))
	assert.Equal(t, entity.PaymentOverdue, s.PaymentStatus)
	assert.Equal(t, 3, s.OverdueDays)
	assert.False(t, s.MarkOverdue(due.Add(72*time.Hour)), "sin cambios no reporta actualización")

	s.ApplyPayment(decimal.NewFromInt(100), due.Add(96*time.Hour))
	assert.Equal(t, entity.PaymentOverdue, s.PaymentStatus)

	s.ReversePayment(decimal.NewFromInt(100))
	assert.Equal(t, entity.PaymentOverdue, s.PaymentStatus)

	s.ApplyPayment(decimal.NewFromInt(500), due.Add(120*time.Hour))
	assert.Equal(t, entity.PaymentPaid, s.PaymentStatus)
	assert.Zero(t, s.OverdueDays)
	assert.False(t, s.MarkOverdue(due.Add(240*time.Hour)), "pagada no vuelve a vencer")
}

func TestSettlement_VencidaPorHorasCuentaUnDia(t *testing.T) {
	due := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	s := openSettlement(500)
	s.DueDate = &due

	assert.True(t, s.MarkOverdue(due.Add(time.Hour)))
	assert.Equal(t, entity.PaymentOverdue, s.PaymentStatus)
	assert.Equal(t, 1, s.OverdueDays)

	assert.True(t, s.MarkOverdue(due.Add(25*time.Hour)))
	assert.Equal(t, 2, s.OverdueDays)
}

func TestInvoice_Anular(t *testing.T) {
	inv := &entity.Invoice{Settlement: openSettlement(100)}
	at := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)

	inv.Cancel("error de digitación", "u1", at)
	assert.True(t, inv.IsCancelled())
	assert.False(t, inv.PaymentStatus.AcceptsPayments())
	assert.Equal(t, "u1", inv.CancelledBy)
	require.NotNil(t, inv.CancelledAt)
	assert.Equal(t, at, *inv.CancelledAt)
}
