package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/payments"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// HeaderIdempotencyKey header opcional que hace idempotente el registro de un pago.
const HeaderIdempotencyKey = "Idempotency-Key"

// PaymentHandler pagos y recibos (protegido).
type PaymentHandler struct {
	process  *payments.ProcessPaymentUseCase
	payments *payments.PaymentUseCase
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(process *payments.ProcessPaymentUseCase, uc *payments.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{process: process, payments: uc}
}

type paymentListQuery struct {
	OrderID string `query:"order_id" validate:"omitempty,uuid"`
}

// List godoc
// @Summary      Listar pagos
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        order_id  query  string  false  "Filtrar por pedido"
// @Param        limit     query  int     false  "Límite (máx 100)"
// @Param        offset    query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.PaymentListResponse
// @Router       /api/payments [get]
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	page, e := pageQuery(c)
	if e != nil {
		return badRequest(c, e)
	}
	var q paymentListQuery
	if e := bindQuery(c, &q); e != nil {
		return badRequest(c, e)
	}
	out, err := h.payments.List(c.UserContext(), repository.PaymentFilter{OrderID: q.OrderID, Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar pago
// @Description  Bloquea el pedido, inserta el pago, recalcula el estado de pago a partir de la suma
// @Description  de todos los pagos y emite el recibo, todo en una transacción. Con Idempotency-Key
// @Description  repetida para el mismo pedido devuelve el pago original (200).
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                    false  "Clave de idempotencia"
// @Param        body             body    dto.CreatePaymentRequest  true   "Pedido, monto y método"
// @Success      201   {object}  dto.PaymentResponse
// @Success      200   {object}  dto.PaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/payments [post]
func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePaymentRequest
	if e := bindJSON(c, &in); e != nil {
		return badRequest(c, e)
	}
	key := c.Get(HeaderIdempotencyKey)
	if len(key) > payments.MaxIdempotencyKeyLen {
		return badRequest(c, &dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "datos inválidos",
			Fields:  map[string]string{HeaderIdempotencyKey: fmt.Sprintf("debe ser como máximo %d", payments.MaxIdempotencyKeyLen)},
		})
	}
	out, err := h.process.ProcessPaymentFromRequest(c.UserContext(), GetUserID(c), key, in)
	if err != nil {
		return respondError(c, err)
	}
	if out.Replayed {
		return c.JSON(out)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListReceipts godoc
// @Summary      Listar recibos
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite (máx 100)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.ReceiptListResponse
// @Router       /api/payments/receipts [get]
func (h *PaymentHandler) ListReceipts(c *fiber.Ctx) error {
	page, e := pageQuery(c)
	if e != nil {
		return badRequest(c, e)
	}
	out, err := h.payments.ListReceipts(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ReceiptPDF godoc
// @Summary      Descargar recibo en PDF
// @Tags         payments
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del recibo"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/payments/receipts/{id}/pdf [get]
func (h *PaymentHandler) ReceiptPDF(c *fiber.Ctx) error {
	id, e := pathID(c)
	if e != nil {
		return badRequest(c, e)
	}
	var ownerID string
	if hasRole(c, entity.RoleCustomer) {
		ownerID = GetUserID(c)
	}
	pdf, filename, err := h.payments.ReceiptPDF(c.UserContext(), id, ownerID)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdf)
}
