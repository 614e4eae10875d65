package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
)

// CatalogHandler categorías y laboratorios.
type CatalogHandler struct {
	uc *usecase.CatalogUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *usecase.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// ListCategories godoc
// @Summary      Listar categorías
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/categories [get]
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	out, err := h.uc.ListCategories(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateCategory godoc
// @Summary      Crear categoría
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CategoryRequest  true  "Nombre"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var in dto.CategoryRequest
	if e := bindJSON(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.uc.CreateCategory(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateCategory godoc
// @Summary      Renombrar categoría
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID"
// @Param        body  body  dto.CategoryRequest  true  "Nombre"
// @Success      200   {object}  dto.CategoryResponse
// @Router       /api/categories/{id} [put]
func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	id, e := pathID(c)
	if e != nil {
		return badRequest(c, e)
	}
	var in dto.CategoryRequest
	if e := bindJSON(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.uc.UpdateCategory(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteCategory godoc
// @Summary      Eliminar categoría
// @Tags         catalog
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      204
// @Router       /api/categories/{id} [delete]
func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	id, e := pathID(c)
	if e != nil {
		return badRequest(c, e)
	}
	if err := h.uc.DeleteCategory(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListCompanies godoc
// @Summary      Listar laboratorios
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CompanyResponse
// @Router       /api/companies [get]
func (h *CatalogHandler) ListCompanies(c *fiber.Ctx) error {
	out, err := h.uc.ListCompanies(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateCompany godoc
// @Summary      Crear laboratorio
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CompanyRequest  true  "Datos"
// @Success      201   {object}  dto.CompanyResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/companies [post]
func (h *CatalogHandler) CreateCompany(c *fiber.Ctx) error {
	var in dto.CompanyRequest
	if e := bindJSON(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.uc.CreateCompany(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateCompany godoc
// @Summary      Actualizar laboratorio
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID"
// @Param        body  body  dto.CompanyRequest  true  "Datos"
// @Success      200   {object}  dto.CompanyResponse
// @Router       /api/companies/{id} [put]
func (h *CatalogHandler) UpdateCompany(c *fiber.Ctx) error {
	id, e := pathID(c)
	if e != nil {
		return badRequest(c, e)
	}
	var in dto.CompanyRequest
	if e := bindJSON(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.uc.UpdateCompany(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteCompany godoc
// @Summary      Eliminar laboratorio
// @Tags         catalog
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      204
// @Router       /api/companies/{id} [delete]
func (h *CatalogHandler) DeleteCompany(c *fiber.Ctx) error {
	id, e := pathID(c)
	if e != nil {
		return badRequest(c, e)
	}
	if err := h.uc.DeleteCompany(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
