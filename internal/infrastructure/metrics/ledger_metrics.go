package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cartera-b2b/internal/domain"
)

// Razones de baja cardinalidad para la etiqueta reason.
const (
	ReasonOK                   = "ok"
	ReasonNotFound             = "not_found"
	ReasonInvalidInput         = "invalid_input"
	ReasonDuplicate            = "duplicate"
	ReasonConflict             = "conflict"
	ReasonCustomerNotEligible  = "customer_not_eligible"
	ReasonInsufficientStock    = "insufficient_stock"
	ReasonInsufficientCredit   = "insufficient_credit"
	ReasonInvalidAmount        = "invalid_amount"
	ReasonInvoiceCancelled     = "document_cancelled"
	ReasonAlreadyCancelled     = "already_cancelled"
	ReasonInvalidTaxConfig     = "invalid_tax_configuration"
	ReasonDBLockTimeout        = "db_lock_timeout"
	ReasonSerializationFailure = "serialization_failure"
	ReasonDeadlineExceeded     = "deadline_exceeded"
	ReasonUnknown              = "unknown"
)

const (
	resultSuccess = "success"
	resultError   = "error"
)

// LedgerMetrics adaptador Prometheus de ports.LedgerObserver.
type LedgerMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	amounts    *prometheus.CounterVec
}

// NewLedgerMetrics registra los colectores del libro en registerer.
func NewLedgerMetrics(registerer prometheus.Registerer) *LedgerMetrics {
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cartera_ledger_operations_total",
		Help: "Ledger operations by result and low-cardinality reason.",
	}, []string{"operation", "result", "reason"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cartera_ledger_operation_duration_seconds",
		Help:    "Ledger operation latency including lock waits.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"operation"})
	amounts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cartera_ledger_amount_total",
		Help: "Confirmed document amounts by document type.",
	}, []string{"document"})

	registerer.MustRegister(operations, duration, amounts)

	return &LedgerMetrics{
		operations: operations,
		duration:   duration,
		amounts:    amounts,
	}
}

// Observe implementa ports.LedgerObserver.
func (m *LedgerMetrics) Observe(operation string, started time.Time, err error) {
	if m == nil {
		return
	}
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	m.operations.WithLabelValues(operation, result, ClassifyReason(err)).Inc()
	m.duration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// AddAmount implementa ports.LedgerObserver. Los montos negativos se ignoran.
func (m *LedgerMetrics) AddAmount(document string, amount decimal.Decimal) {
	if m == nil || amount.IsNegative() {
		return
	}
	m.amounts.WithLabelValues(document).Add(amount.InexactFloat64())
}

var sentinelReasons = []struct {
	err    error
	reason string
}{
	{domain.ErrInsufficientCredit, ReasonInsufficientCredit},
	{domain.ErrInsufficientStock, ReasonInsufficientStock},
	{domain.ErrCustomerNotEligible, ReasonCustomerNotEligible},
	{domain.ErrInvalidAmount, ReasonInvalidAmount},
	{domain.ErrInvoiceCancelled, ReasonInvoiceCancelled},
	{domain.ErrAlreadyCancelled, ReasonAlreadyCancelled},
	{domain.ErrInvalidTaxConfiguration, ReasonInvalidTaxConfig},
	{domain.ErrDuplicateCode, ReasonDuplicate},
	{domain.ErrNotFound, ReasonNotFound},
	{domain.ErrInvalidInput, ReasonInvalidInput},
	{domain.ErrConflict, ReasonConflict},
}

// ClassifyReason reduce un error a una razón de baja cardinalidad.
func ClassifyReason(err error) string {
	if err == nil {
		return ReasonOK
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ReasonDeadlineExceeded
	}
	for _, s := range sentinelReasons {
		if errors.Is(err, s.err) {
			return s.reason
		}
	}
	if hasPGCode(err, "55P03") {
		return ReasonDBLockTimeout
	}
	if hasPGCode(err, "40001") {
		return ReasonSerializationFailure
	}
	return ReasonUnknown
}

func hasPGCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
