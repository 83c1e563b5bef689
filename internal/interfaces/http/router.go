package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cartera-b2b/internal/application/billing"
	"github.com/jhoicas/cartera-b2b/internal/application/credit"
	"github.com/jhoicas/cartera-b2b/internal/application/inventory"
	"github.com/jhoicas/cartera-b2b/internal/application/purchasing"
	"github.com/jhoicas/cartera-b2b/internal/application/taxes"
	pkgjwt "github.com/jhoicas/cartera-b2b/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	TaxUC            *taxes.CatalogUseCase
	CustomerUC       *credit.CustomerUseCase
	InvoiceUC        *billing.InvoiceUseCase
	PaymentUC        *billing.PaymentUseCase
	PurchaseUC       *purchasing.PurchaseUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Todas las rutas requieren Bearer Token; el actor de cada operación es el user_id del token.
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(pkgjwt.RoleAdmin)
	cartera := RequireRole(pkgjwt.RoleAdmin, pkgjwt.RoleCartera)

	// Catálogo de impuestos
	taxHandler := NewTaxHandler(deps.TaxUC)
	taxGroup := protected.Group("/taxes")
	taxGroup.Get("/", taxHandler.List)
	taxGroup.Post("/", adminOnly, taxHandler.Create)
	taxGroup.Put("/:id", adminOnly, taxHandler.Update)
	taxGroup.Post("/:id/deactivate", adminOnly, taxHandler.Deactivate)

	// Clientes B2B y cartera
	customerHandler := NewCustomerHandler(deps.CustomerUC, deps.PaymentUC)
	customers := protected.Group("/customers")
	customers.Post("/", cartera, customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Delete("/:id", adminOnly, customerHandler.Delete)
	customers.Get("/:id/statement", customerHandler.Statement)
	customers.Post("/:id/status", adminOnly, customerHandler.ChangeStatus)
	customers.Put("/:id/credit-limit", adminOnly, customerHandler.UpdateCreditLimit)
	customers.Post("/:id/recalculate-credit", adminOnly, customerHandler.RecalculateCredit)
	customers.Get("/:id/tax-defaults", taxHandler.GetCustomerDefaults)
	customers.Put("/:id/tax-defaults", adminOnly, taxHandler.SetCustomerDefaults)
	customers.Get("/:id/applicable-taxes", taxHandler.ApplicableTaxes)

	protected.Post("/cartera/overdue/refresh", adminOnly, customerHandler.RefreshOverdue)

	// Facturas y abonos
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PaymentUC)
	invoices := protected.Group("/invoices")
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Post("/:id/cancel", cartera, invoiceHandler.Cancel)
	invoices.Post("/:id/payments", cartera, invoiceHandler.ApplyPayment)
	protected.Post("/payments/:id/cancel", cartera, invoiceHandler.CancelPayment)

	// Proveedores, compras y egresos
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	suppliers := protected.Group("/suppliers", cartera)
	suppliers.Post("/", purchaseHandler.CreateSupplier)
	suppliers.Get("/:id", purchaseHandler.GetSupplier)
	suppliers.Get("/:id/statement", purchaseHandler.SupplierStatement)
	purchases := protected.Group("/purchases", cartera)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Post("/:id/cancel", purchaseHandler.Cancel)
	purchases.Post("/:id/payments", purchaseHandler.ApplyPayment)
	protected.Post("/purchase-payments/:id/cancel", cartera, purchaseHandler.CancelPayment)

	// Inventario
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement)
	invGroup := protected.Group("/inventory")
	invGroup.Post("/movements", adminOnly, inventoryHandler.RegisterMovement)
	invGroup.Get("/stock", inventoryHandler.GetStock)
}
