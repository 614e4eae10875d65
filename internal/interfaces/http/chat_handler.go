package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
)

// ChatHandler mensajería entre usuarios.
type ChatHandler struct {
	uc *usecase.ChatUseCase
}

// NewChatHandler construye el handler.
func NewChatHandler(uc *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{uc: uc}
}

type messagesQuery struct {
	UserID string `query:"user_id" validate:"required,uuid"`
}

// Messages godoc
// @Summary      Conversación con un usuario
// @Tags         chat
// @Security     Bearer
// @Produce      json
// @Param        user_id  query  string  true  "Interlocutor"
// @Success      200  {array}  dto.MessageResponse
// @Router       /api/chat/messages [get]
func (h *ChatHandler) Messages(c *fiber.Ctx) error {
	var q messagesQuery
	if e := bindQuery(c, &q); e != nil {
		return badRequest(c, e)
	}
	out, err := h.uc.Messages(c.UserContext(), GetUserID(c), q.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Send godoc
// @Summary      Enviar mensaje
// @Tags         chat
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SendMessageRequest  true  "Destinatario y mensaje"
// @Success      201   {object}  dto.MessageResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/chat/messages [post]
func (h *ChatHandler) Send(c *fiber.Ctx) error {
	var in dto.SendMessageRequest
	if e := bindJSON(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.uc.Send(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Conversations godoc
// @Summary      Mis conversaciones
// @Tags         chat
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ConversationResponse
// @Router       /api/chat/conversations [get]
func (h *ChatHandler) Conversations(c *fiber.Ctx) error {
	out, err := h.uc.Conversations(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
