package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// DeliveryHandler entregas a domicilio y valoraciones.
type DeliveryHandler struct {
	uc *usecase.DeliveryUseCase
}

// NewDeliveryHandler construye el handler.
func NewDeliveryHandler(uc *usecase.DeliveryUseCase) *DeliveryHandler {
	return &DeliveryHandler{uc: uc}
}

type deliveryListQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=PENDING IN_TRANSIT DELIVERED"`
}

// List godoc
// @Summary      Listar entregas
// @Description  Un repartidor solo ve sus propias entregas.
// @Tags         deliveries
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "PENDING, IN_TRANSIT, DELIVERED"
// @Param        limit   query  int     false  "Límite (máx 100)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.DeliveryResponse
// @Router       /api/deliveries [get]
func (h *DeliveryHandler) List(c *fiber.Ctx) error {
	page, e := pageQuery(c)
	if e != nil {
		return badRequest(c, e)
	}
	var q deliveryListQuery
	if e := bindQuery(c, &q); e != nil {
		return badRequest(c, e)
	}
	filter := repository.DeliveryFilter{Status: q.Status, Limit: page.Limit, Offset: page.Offset}
	if hasRole(c, entity.RoleDelivery) {
		filter.DeliveryPersonID = GetUserID(c)
	}
	out, err := h.uc.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Asignar entrega
// @Tags         deliveries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDeliveryRequest  true  "Pedido, repartidor y dirección"
// @Success      201   {object}  dto.DeliveryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/deliveries [post]
func (h *DeliveryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDeliveryRequest
	if e := bindJSON(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateStatus godoc
// @Summary      Avanzar estado de la entrega
// @Description  PENDING → IN_TRANSIT → DELIVERED. Al entregar, el pedido pasa a DELIVERED en la misma transacción.
// @Tags         deliveries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                           true  "ID de la entrega"
// @Param        body  body  dto.UpdateDeliveryStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.DeliveryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id}/status [put]
func (h *DeliveryHandler) UpdateStatus(c *fiber.Ctx) error {
	id, e := pathID(c)
	if e != nil {
		return badRequest(c, e)
	}
	var in dto.UpdateDeliveryStatusRequest
	if e := bindJSON(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), id, in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListFeedback godoc
// @Summary      Listar valoraciones
// @Tags         deliveries
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.FeedbackResponse
// @Router       /api/deliveries/feedback [get]
func (h *DeliveryHandler) ListFeedback(c *fiber.Ctx) error {
	page, e := pageQuery(c)
	if e != nil {
		return badRequest(c, e)
	}
	out, err := h.uc.ListFeedback(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateFeedback godoc
// @Summary      Valorar un pedido
// @Tags         deliveries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateFeedbackRequest  true  "Pedido, mensaje y valoración 1-5"
// @Success      201   {object}  dto.FeedbackResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/deliveries/feedback [post]
func (h *DeliveryHandler) CreateFeedback(c *fiber.Ctx) error {
	var in dto.CreateFeedbackRequest
	if e := bindJSON(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.uc.CreateFeedback(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
