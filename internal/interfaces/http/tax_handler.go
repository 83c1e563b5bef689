package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cartera-b2b/internal/application/dto"
	"github.com/jhoicas/cartera-b2b/internal/application/taxes"
)

// TaxHandler catálogo de impuestos y retenciones, y sus valores por defecto por cliente.
type TaxHandler struct {
	uc *taxes.CatalogUseCase
}

// NewTaxHandler construye el handler.
func NewTaxHandler(uc *taxes.CatalogUseCase) *TaxHandler {
	return &TaxHandler{uc: uc}
}

// Create godoc
// @Summary      Definir impuesto o retención
// @Tags         taxes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateTaxRequest  true  "Impuesto"
// @Success      201   {object}  dto.TaxResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/taxes [post]
func (h *TaxHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTaxRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.DefineTax(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/taxes?active=true
func (h *TaxHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.ListTaxes(c.UserContext(), c.QueryBool("active", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Update PUT /api/taxes/:id
func (h *TaxHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateTaxRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateTax(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Deactivate POST /api/taxes/:id/deactivate. El impuesto no se borra, queda inactivo.
func (h *TaxHandler) Deactivate(c *fiber.Ctx) error {
	out, err := h.uc.DeactivateTax(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetCustomerDefaults PUT /api/customers/:id/tax-defaults
func (h *TaxHandler) SetCustomerDefaults(c *fiber.Ctx) error {
	var in dto.SetCustomerTaxDefaultsRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.SetCustomerTaxDefaults(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetCustomerDefaults GET /api/customers/:id/tax-defaults
func (h *TaxHandler) GetCustomerDefaults(c *fiber.Ctx) error {
	out, err := h.uc.GetCustomerTaxDefaults(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ApplicableTaxes godoc
// @Summary      Impuestos aplicables a una factura del cliente
// @Description  Sin tax_ids usa los impuestos por defecto del cliente.
// @Tags         taxes
// @Security     Bearer
// @Produce      json
// @Param        id       path   string  true   "ID del cliente"
// @Param        tax_ids  query  string  false  "IDs separados por coma"
// @Success      200  {array}   dto.ResolvedTaxResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/applicable-taxes [get]
func (h *TaxHandler) ApplicableTaxes(c *fiber.Ctx) error {
	var selected []string
	for _, id := range strings.Split(c.Query("tax_ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			selected = append(selected, id)
		}
	}
	out, err := h.uc.ResolveApplicableTaxes(c.UserContext(), c.Params("id"), selected)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
