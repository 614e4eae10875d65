package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/application/usecase"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// MedicineHandler catálogo de medicamentos y sus lotes (protegido).
type MedicineHandler struct {
	medicines         *usecase.MedicineUseCase
	batches           *inventory.BatchUseCase
	lowStockThreshold int
}

// NewMedicineHandler construye el handler. lowStockThreshold se aplica al filtro low_stock=true.
func NewMedicineHandler(medicines *usecase.MedicineUseCase, batches *inventory.BatchUseCase, lowStockThreshold int) *MedicineHandler {
	return &MedicineHandler{medicines: medicines, batches: batches, lowStockThreshold: lowStockThreshold}
}

type medicineListQuery struct {
	Search     string `query:"search" validate:"omitempty,max=100"`
	CategoryID string `query:"category_id" validate:"omitempty,uuid"`
	CompanyID  string `query:"company_id" validate:"omitempty,uuid"`
}

// List godoc
// @Summary      Listar medicamentos
// @Tags         medicines
// @Security     Bearer
// @Produce      json
// @Param        search       query  string  false  "Búsqueda parcial por nombre"
// @Param        category_id  query  string  false  "Filtrar por categoría"
// @Param        company_id   query  string  false  "Filtrar por laboratorio"
// @Param        limit        query  int     false  "Límite (máx 100)"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.MedicineListResponse
// @Router       /api/medicines [get]
func (h *MedicineHandler) List(c *fiber.Ctx) error {
	page, e := pageQuery(c)
	if e != nil {
		return badRequest(c, e)
	}
	var q medicineListQuery
	if e := bindQuery(c, &q); e != nil {
		return badRequest(c, e)
	}
	out, err := h.medicines.List(c.UserContext(), repository.MedicineFilter{
		Search:     q.Search,
		CategoryID: q.CategoryID,
		CompanyID:  q.CompanyID,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener medicamento
// @Tags         medicines
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del medicamento"
// @Success      200  {object}  dto.MedicineResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/medicines/{id} [get]
func (h *MedicineHandler) GetByID(c *fiber.Ctx) error {
	id, e := pathID(c)
	if e != nil {
		return badRequest(c, e)
	}
	out, err := h.medicines.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "medicamento no encontrado")
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear medicamento
// @Tags         medicines
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMedicineRequest  true  "Datos del medicamento"
// @Success      201   {object}  dto.MedicineResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/medicines [post]
func (h *MedicineHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMedicineRequest
	if e := bindJSON(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.medicines.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar medicamento
// @Tags         medicines
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del medicamento"
// @Param        body  body  dto.UpdateMedicineRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.MedicineResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/medicines/{id} [put]
func (h *MedicineHandler) Update(c *fiber.Ctx) error {
	id, e := pathID(c)
	if e != nil {
		return badRequest(c, e)
	}
	var in dto.UpdateMedicineRequest
	if e := bindJSON(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.medicines.Update(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar medicamento
// @Tags         medicines
// @Security     Bearer
// @Param        id   path  string  true  "ID del medicamento"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/medicines/{id} [delete]
func (h *MedicineHandler) Delete(c *fiber.Ctx) error {
	id, e := pathID(c)
	if e != nil {
		return badRequest(c, e)
	}
	if err := h.medicines.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type batchListQuery struct {
	MedicineID string `query:"medicine_id" validate:"omitempty,uuid"`
	LowStock   bool   `query:"low_stock"`
}

// ListBatches godoc
// @Summary      Listar lotes
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        medicine_id  query  string  false  "Filtrar por medicamento"
// @Param        low_stock    query  bool    false  "Solo lotes bajo el umbral de stock"
// @Param        limit        query  int     false  "Límite (máx 100)"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.BatchListResponse
// @Router       /api/medicines/batches/all [get]
func (h *MedicineHandler) ListBatches(c *fiber.Ctx) error {
	page, e := pageQuery(c)
	if e != nil {
		return badRequest(c, e)
	}
	var q batchListQuery
	if e := bindQuery(c, &q); e != nil {
		return badRequest(c, e)
	}
	filter := repository.BatchFilter{MedicineID: q.MedicineID, Limit: page.Limit, Offset: page.Offset}
	if q.LowStock {
		filter.LowStockThreshold = h.lowStockThreshold
	}
	out, err := h.batches.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateBatch godoc
// @Summary      Registrar lote
// @Description  Crea el lote y asienta un movimiento IN por la cantidad inicial en la misma transacción.
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBatchRequest  true  "Datos del lote"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/medicines/batches [post]
func (h *MedicineHandler) CreateBatch(c *fiber.Ctx) error {
	var in dto.CreateBatchRequest
	if e := bindJSON(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.batches.CreateBatch(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Restock godoc
// @Summary      Reabastecer lote
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del lote"
// @Param        body  body  dto.StockAdjustmentRequest  true  "Cantidad y motivo"
// @Success      200   {object}  dto.BatchResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/medicines/batches/{id}/restock [post]
func (h *MedicineHandler) Restock(c *fiber.Ctx) error {
	id, e := pathID(c)
	if e != nil {
		return badRequest(c, e)
	}
	var in dto.StockAdjustmentRequest
	if e := bindJSON(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.batches.Restock(c.UserContext(), GetUserID(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RegisterDamage godoc
// @Summary      Registrar baja por daño
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del lote"
// @Param        body  body  dto.StockAdjustmentRequest  true  "Cantidad y motivo"
// @Success      200   {object}  dto.BatchResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/medicines/batches/{id}/damage [post]
func (h *MedicineHandler) RegisterDamage(c *fiber.Ctx) error {
	id, e := pathID(c)
	if e != nil {
		return badRequest(c, e)
	}
	var in dto.StockAdjustmentRequest
	if e := bindJSON(c, &in); e != nil {
		return badRequest(c, e)
	}
	out, err := h.batches.RegisterDamage(c.UserContext(), GetUserID(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Movements godoc
// @Summary      Libro de movimientos de un lote
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del lote"
// @Param        limit   query  int     false  "Límite (máx 100)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.StockMovementResponse
// @Router       /api/medicines/batches/{id}/movements [get]
func (h *MedicineHandler) Movements(c *fiber.Ctx) error {
	id, e := pathID(c)
	if e != nil {
		return badRequest(c, e)
	}
	page, e := pageQuery(c)
	if e != nil {
		return badRequest(c, e)
	}
	out, err := h.batches.Movements(c.UserContext(), id, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
