package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cartera-b2b/internal/application/billing"
	"github.com/jhoicas/cartera-b2b/internal/application/credit"
	"github.com/jhoicas/cartera-b2b/internal/application/dto"
)

// CustomerHandler clientes B2B: alta, consulta, estado, cupo y estado de cuenta.
type CustomerHandler struct {
	uc       *credit.CustomerUseCase
	payments *billing.PaymentUseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *credit.CustomerUseCase, payments *billing.PaymentUseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc, payments: payments}
}

// Create godoc
// @Summary      Registrar cliente B2B
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateCustomerRequest  true  "Cliente"
// @Success      201   {object}  dto.CustomerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.RegisterCustomer(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/customers?status=ACTIVE&q=acme&limit=20&offset=0
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	var in dto.ListCustomersRequest
	if err := c.QueryParser(&in); err != nil {
		return invalidBody(c)
	}
	list, err := h.uc.ListCustomers(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// GetByID GET /api/customers/:id
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetCustomer(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ChangeStatus POST /api/customers/:id/status
func (h *CustomerHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.UpdateCustomerStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.ChangeStatus(c.UserContext(), c.Params("id"), in, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateCreditLimit godoc
// @Summary      Cambiar cupo de crédito
// @Description  Ajusta el disponible en la misma diferencia. Falla si el nuevo cupo queda por debajo de la cartera abierta.
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                        true  "ID del cliente"
// @Param        body  body      dto.UpdateCreditLimitRequest  true  "Nuevo cupo"
// @Success      200   {object}  dto.CustomerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/credit-limit [put]
func (h *CustomerHandler) UpdateCreditLimit(c *fiber.Ctx) error {
	var in dto.UpdateCreditLimitRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateCreditLimit(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RecalculateCredit POST /api/customers/:id/recalculate-credit
func (h *CustomerHandler) RecalculateCredit(c *fiber.Ctx) error {
	out, err := h.uc.RecalculateCredit(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/customers/:id. Con historial de facturas solo se inactiva.
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	out, err := h.uc.DeleteCustomer(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Statement GET /api/customers/:id/statement
func (h *CustomerHandler) Statement(c *fiber.Ctx) error {
	out, err := h.payments.GetCustomerStatement(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RefreshOverdue POST /api/cartera/overdue/refresh. Mismo proceso que ejecuta cmd/overdue.
func (h *CustomerHandler) RefreshOverdue(c *fiber.Ctx) error {
	out, err := h.uc.RefreshOverdue(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
