package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "read_committed", cfg.DB.TxIsolation)
	assert.Equal(t, "FV", cfg.Ledger.InvoicePrefix)
	assert.Equal(t, "RC", cfg.Ledger.ReceiptPrefix)
	assert.Equal(t, 10, cfg.Ledger.StatementRecentPayments)
	assert.Equal(t, time.Hour, cfg.Ledger.OverdueInterval)
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("LEDGER_STORE", "memory")
	t.Setenv("LEDGER_INVOICE_PREFIX", "FE")
	t.Setenv("LEDGER_OVERDUE_INTERVAL_MINUTES", "5")
	t.Setenv("DB_TX_ISOLATION", "serializable")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Ledger.Store)
	assert.Equal(t, "FE", cfg.Ledger.InvoicePrefix)
	assert.Equal(t, 5*time.Minute, cfg.Ledger.OverdueInterval)
	assert.Equal(t, "serializable", cfg.DB.TxIsolation)
}

func TestLoad_AislamientoInvalido(t *testing.T) {
	t.Setenv("DB_TX_ISOLATION", "read_uncommitted")

	_, err := Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "cartera", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/cartera?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}

func TestLoad_OpcionesDelPool(t *testing.T) {
	t.Setenv("DB_MIN_CONNS", "3")
	t.Setenv("DB_LOCK_TIMEOUT_MS", "1500")
	t.Setenv("DB_FORCE_IPV4", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.DB.MinConns)
	assert.Equal(t, 1500*time.Millisecond, cfg.DB.LockTimeout)
	assert.True(t, cfg.DB.ForceIPv4)
	assert.Equal(t, "cartera-b2b", cfg.DB.ApplicationName)
}

func TestLoad_MinConnsMayorQueMax(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "4")
	t.Setenv("DB_MIN_CONNS", "10")

	_, err := Load()
	assert.Error(t, err)
}
