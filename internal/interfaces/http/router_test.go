package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cartera-b2b/internal/application/billing"
	"github.com/jhoicas/cartera-b2b/internal/application/credit"
	"github.com/jhoicas/cartera-b2b/internal/application/dto"
	"github.com/jhoicas/cartera-b2b/internal/application/inventory"
	"github.com/jhoicas/cartera-b2b/internal/application/ports"
	"github.com/jhoicas/cartera-b2b/internal/application/purchasing"
	"github.com/jhoicas/cartera-b2b/internal/application/taxes"
	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
	"github.com/jhoicas/cartera-b2b/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/cartera-b2b/internal/interfaces/http"
	"github.com/jhoicas/cartera-b2b/pkg/clock"
	pkgjwt "github.com/jhoicas/cartera-b2b/pkg/jwt"
	"github.com/jhoicas/cartera-b2b/pkg/logger"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// buildLedgerApp arma la API completa sobre el store en memoria con una tienda y un producto con stock.
func buildLedgerApp(t *testing.T) *fiber.App {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()
	clk := clock.NewFakeClock(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	log := logger.Nop()
	obs := ports.NopObserver{}

	require.NoError(t, repos.Stores.Create(ctx, &entity.Store{ID: "s1", Name: "Bodega norte"}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p1", SKU: "CEM-50", Name: "Cemento 50kg", Price: dec("50000")}))

	invUC := inventory.NewRegisterMovementUseCase(repos, store, clk, obs, log)
	cost := dec("30000")
	_, err := invUC.RegisterMovement(ctx, inventory.MovementInput{
		UserID: "u1", ProductID: "p1", StoreID: "s1", Type: "IN", Quantity: dec("10"), UnitCost: &cost,
	})
	require.NoError(t, err)

	billingCfg := billing.Config{InvoicePrefix: "FV", ReceiptPrefix: "RC", RecentPayments: 10}
	purchasingCfg := purchasing.Config{PurchasePrefix: "FC", PaymentPrefix: "CE", RecentPayments: 10}

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		TaxUC:            taxes.NewCatalogUseCase(repos, store, clk, obs, log),
		CustomerUC:       credit.NewCustomerUseCase(repos, store, clk, obs, log),
		InvoiceUC:        billing.NewInvoiceUseCase(repos, store, invUC, clk, obs, log, billingCfg),
		PaymentUC:        billing.NewPaymentUseCase(repos, store, clk, obs, log, billingCfg),
		PurchaseUC:       purchasing.NewPurchaseUseCase(repos, store, invUC, clk, obs, log, purchasingCfg),
		RegisterMovement: invUC,
		JWTSecret:        testJWTSecret,
	})
	return app
}

// call ejecuta la petición con el rol dado y decodifica la respuesta en out (si no es nil).
func call(t *testing.T, app *fiber.App, method, path, role string, body, out interface{}) int {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, role))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func createCustomer(t *testing.T, app *fiber.App, idNumber, limit string) dto.CustomerResponse {
	t.Helper()
	var customer dto.CustomerResponse
	status := call(t, app, http.MethodPost, "/api/customers", pkgjwt.RoleCartera, dto.CreateCustomerRequest{
		IDType:      "NIT",
		IDNumber:    idNumber,
		LegalName:   "Ferretería " + idNumber,
		TaxRegime:   "COMMON_REGIME",
		CreditLimit: dec(limit),
		CreditDays:  30,
	}, &customer)
	require.Equal(t, http.StatusCreated, status)
	return customer
}

func invoiceBody(customerID, qty string) dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		CustomerID:    customerID,
		StoreID:       "s1",
		Items:         []dto.InvoiceItemRequest{{ProductID: "p1", Quantity: dec(qty)}},
		PaymentMethod: "CREDIT",
	}
}

func TestRouter_FacturaYAbonoACredito(t *testing.T) {
	app := buildLedgerApp(t)
	customer := createCustomer(t, app, "900100200", "1000000")

	var inv dto.InvoiceResponse
	status := call(t, app, http.MethodPost, "/api/invoices", pkgjwt.RoleVendedor, invoiceBody(customer.ID, "2"), &inv)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "FV-000001", inv.InvoiceNumber)
	assert.True(t, inv.Total.Equal(dec("100000")), "total: %s", inv.Total)
	assert.Equal(t, "PENDING", inv.PaymentStatus)

	var afterInvoice dto.CustomerResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/customers/"+customer.ID, pkgjwt.RoleVendedor, nil, &afterInvoice))
	assert.True(t, afterInvoice.CreditAvailable.Equal(dec("900000")), "disponible: %s", afterInvoice.CreditAvailable)

	var result dto.PaymentResultResponse
	status = call(t, app, http.MethodPost, "/api/invoices/"+inv.ID+"/payments", pkgjwt.RoleCartera,
		dto.ApplyPaymentRequest{Amount: dec("40000"), Method: "TRANSFER"}, &result)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "RC-000001", result.Payment.ReceiptNumber)
	assert.Equal(t, "PARTIAL", result.Invoice.PaymentStatus)
	assert.True(t, result.Invoice.BalanceDue.Equal(dec("60000")))

	var stock dto.StockResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/inventory/stock?product_id=p1&store_id=s1", pkgjwt.RoleVendedor, nil, &stock))
	assert.True(t, stock.Quantity.Equal(dec("8")))
}

func TestRouter_CupoInsuficiente_Retorna409ConMontos(t *testing.T) {
	app := buildLedgerApp(t)
	customer := createCustomer(t, app, "900100201", "50000")

	var errResp dto.ErrorResponse
	status := call(t, app, http.MethodPost, "/api/invoices", pkgjwt.RoleVendedor, invoiceBody(customer.ID, "2"), &errResp)

	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_CREDIT", errResp.Code)
	assert.Equal(t, "100000.00", errResp.Details["requested"])
	assert.Equal(t, "50000.00", errResp.Details["available"])
}

func TestRouter_StockInsuficiente_Retorna409(t *testing.T) {
	app := buildLedgerApp(t)
	customer := createCustomer(t, app, "900100202", "10000000")

	var errResp dto.ErrorResponse
	status := call(t, app, http.MethodPost, "/api/invoices", pkgjwt.RoleVendedor, invoiceBody(customer.ID, "11"), &errResp)

	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", errResp.Code)
	assert.Equal(t, "p1", errResp.Details["product_id"])
}

func TestRouter_FacturaSinItems_Retorna400ConCampos(t *testing.T) {
	app := buildLedgerApp(t)
	customer := createCustomer(t, app, "900100203", "1000000")

	body := invoiceBody(customer.ID, "1")
	body.Items = nil
	var errResp dto.ErrorResponse
	status := call(t, app, http.MethodPost, "/api/invoices", pkgjwt.RoleVendedor, body, &errResp)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errResp.Code)
	assert.Contains(t, errResp.Details, "items")
}

func TestRouter_FacturaInexistente_Retorna404(t *testing.T) {
	app := buildLedgerApp(t)

	var errResp dto.ErrorResponse
	status := call(t, app, http.MethodGet, "/api/invoices/no-existe", pkgjwt.RoleVendedor, nil, &errResp)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errResp.Code)
}

func TestRouter_CambioDeCupoSoloAdmin(t *testing.T) {
	app := buildLedgerApp(t)
	customer := createCustomer(t, app, "900100204", "1000000")
	path := "/api/customers/" + customer.ID + "/credit-limit"
	body := dto.UpdateCreditLimitRequest{CreditLimit: dec("2000000")}

	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodPut, path, pkgjwt.RoleVendedor, body, nil))

	var updated dto.CustomerResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPut, path, pkgjwt.RoleAdmin, body, &updated))
	assert.True(t, updated.CreditLimit.Equal(dec("2000000")))
	assert.True(t, updated.CreditAvailable.Equal(dec("2000000")))
}

func TestRouter_ClienteDuplicado_Retorna409(t *testing.T) {
	app := buildLedgerApp(t)
	createCustomer(t, app, "900100205", "1000000")

	var errResp dto.ErrorResponse
	status := call(t, app, http.MethodPost, "/api/customers", pkgjwt.RoleCartera, dto.CreateCustomerRequest{
		IDType:    "NIT",
		IDNumber:  "900100205",
		LegalName: "Otra razón social",
		TaxRegime: "COMMON_REGIME",
	}, &errResp)

	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE", errResp.Code)
}
