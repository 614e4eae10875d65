package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/ordering"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// OrderHandler pedidos (protegido).
type OrderHandler struct {
	create *ordering.CreateOrderUseCase
	orders *ordering.OrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(create *ordering.CreateOrderUseCase, orders *ordering.OrderUseCase) *OrderHandler {
	return &OrderHandler{create: create, orders: orders}
}

type orderListQuery struct {
	OrderStatus   string `query:"order_status" validate:"omitempty,oneof=PENDING DELIVERED CANCELLED"`
	PaymentStatus string `query:"payment_status" validate:"omitempty,oneof=UNPAID PARTIAL PAID"`
	CustomerID    string `query:"customer_id" validate:"omitempty,uuid"`
}

// List godoc
// @Summary      Listar pedidos
// @Description  Más recientes primero. Un Customer solo ve sus propios pedidos.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        order_status    query  string  false  "PENDING, DELIVERED, CANCELLED"
// @Param        payment_status  query  string  false  "UNPAID, PARTIAL, PAID"
// @Param        customer_id     query  string  false  "Filtrar por cliente"
// @Param        limit           query  int     false  "Límite (máx 100)"
// @Param        offset          query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.OrderListResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	page, e := pageQuery(c)
	if e != nil {
		return badRequest(c, e)
	}
	var q orderListQuery
	if e := bindQuery(c, &q); e != nil {
		return badRequest(c, e)
	}
	if hasRole(c, entity.RoleCustomer) {
		q.CustomerID = GetUserID(c)
	}
	out, err := h.orders.List(c.UserContext(), repository.OrderFilter{
		OrderStatus:   q.OrderStatus,
		PaymentStatus: q.PaymentStatus,
		CustomerID:    q.CustomerID,
		Limit:         page.Limit,
		Offset:        page.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener pedido con sus líneas
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	id, e := pathID(c)
	if e != nil {
		return badRequest(c, e)
	}
	out, err := h.orders.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "pedido no encontrado")
	}
	if hasRole(c, entity.RoleCustomer) && out.CustomerID != GetUserID(c) {
		return forbidden(c)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear pedido
// @Description  Valida stock de cada lote, crea el pedido y sus líneas, descuenta stock y asienta
// @Description  movimientos OUT en una sola transacción. Stock insuficiente aborta todo (409).
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Cliente, líneas y descuento"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if e := bindJSON(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.create.CreateOrderFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar estados del pedido
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del pedido"
// @Param        body  body  dto.UpdateOrderRequest  true  "order_status y/o payment_status"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [put]
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	id, e := pathID(c)
	if e != nil {
		return badRequest(c, e)
	}
	var in dto.UpdateOrderRequest
	if e := bindJSON(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.orders.Update(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar pedido
// @Tags         orders
// @Security     Bearer
// @Param        id   path  string  true  "ID del pedido"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	id, e := pathID(c)
	if e != nil {
		return badRequest(c, e)
	}
	if err := h.orders.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
