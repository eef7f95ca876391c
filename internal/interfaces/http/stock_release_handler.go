package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/NextWave-98/api-sub002/internal/application/dto"
	"github.com/NextWave-98/api-sub002/internal/application/release"
	"github.com/NextWave-98/api-sub002/internal/domain/entity"
)

// StockReleaseHandler maneja las peticiones HTTP del flujo de liberación de stock (protegido).
type StockReleaseHandler struct {
	uc  *release.UseCase
	pdf *release.PDFUseCase
}

// NewStockReleaseHandler construye el handler.
func NewStockReleaseHandler(uc *release.UseCase, pdf *release.PDFUseCase) *StockReleaseHandler {
	return &StockReleaseHandler{uc: uc, pdf: pdf}
}

// Create godoc
// @Summary      Crear solicitud de liberación de stock
// @Tags         stock-releases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockReleaseRequest  true  "tipo, origen, destino (solo traslados) y líneas"
// @Success      201   {object}  dto.StockReleaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock-releases [post]
func (h *StockReleaseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockReleaseRequest
	if !parseBody(c, &in) {
		return nil
	}
	items := make([]release.ItemInput, 0, len(in.Items))
	for _, item := range in.Items {
		items = append(items, release.ItemInput{
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			BatchNumber:  item.BatchNumber,
			SerialNumber: item.SerialNumber,
			Notes:        item.Notes,
		})
	}
	rel, err := h.uc.Create(c.Context(), release.CreateInput{
		Type:           entity.ReleaseType(in.Type),
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Notes:          in.Notes,
		RequestedBy:    GetUserID(c),
		Items:          items,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromStockRelease(rel))
}

// Approve godoc
// @Summary      Aprobar una liberación pendiente
// @Tags         stock-releases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la liberación"
// @Param        body  body  dto.TransitionRequest  false  "notas opcionales"
// @Success      200   {object}  dto.StockReleaseResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock-releases/{id}/approve [post]
func (h *StockReleaseHandler) Approve(c *fiber.Ctx) error {
	var in dto.TransitionRequest
	if len(c.Body()) > 0 && !parseBody(c, &in) {
		return nil
	}
	rel, err := h.uc.Approve(c.Context(), c.Params("id"), GetUserID(c), in.Notes)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.FromStockRelease(rel))
}

// Release godoc
// @Summary      Ejecutar la salida física del stock aprobado
// @Description  Descuenta el inventario y escribe el libro; admite liberar menos
//
//	de lo solicitado por línea vía overrides.
//
// @Tags         stock-releases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la liberación"
// @Param        body  body  dto.ReleaseStockRequest  false  "overrides y notas"
// @Success      200   {object}  dto.StockReleaseResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock-releases/{id}/release [post]
func (h *StockReleaseHandler) Release(c *fiber.Ctx) error {
	var in dto.ReleaseStockRequest
	if len(c.Body()) > 0 && !parseBody(c, &in) {
		return nil
	}
	overrides := make(map[string]int64, len(in.Overrides))
	for _, o := range in.Overrides {
		overrides[o.ItemID] = o.Quantity
	}
	rel, err := h.uc.Release(c.Context(), c.Params("id"), GetUserID(c), overrides, in.Notes)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.FromStockRelease(rel))
}

// Receive godoc
// @Summary      Confirmar la recepción de un traslado liberado
// @Tags         stock-releases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la liberación"
// @Param        body  body  dto.TransitionRequest  false  "notas opcionales"
// @Success      200   {object}  dto.StockReleaseResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock-releases/{id}/receive [post]
func (h *StockReleaseHandler) Receive(c *fiber.Ctx) error {
	var in dto.TransitionRequest
	if len(c.Body()) > 0 && !parseBody(c, &in) {
		return nil
	}
	rel, err := h.uc.Receive(c.Context(), c.Params("id"), GetUserID(c), in.Notes)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.FromStockRelease(rel))
}

// Cancel godoc
// @Summary      Cancelar una liberación (solo PENDING o APPROVED)
// @Tags         stock-releases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la liberación"
// @Param        body  body  dto.TransitionRequest  false  "motivo"
// @Success      200   {object}  dto.StockReleaseResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock-releases/{id}/cancel [post]
func (h *StockReleaseHandler) Cancel(c *fiber.Ctx) error {
	var in dto.TransitionRequest
	if len(c.Body()) > 0 && !parseBody(c, &in) {
		return nil
	}
	rel, err := h.uc.Cancel(c.Context(), c.Params("id"), GetUserID(c), in.Notes)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.FromStockRelease(rel))
}

// GetByID godoc
// @Summary      Obtener una liberación con sus líneas
// @Tags         stock-releases
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la liberación"
// @Success      200  {object}  dto.StockReleaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-releases/{id} [get]
func (h *StockReleaseHandler) GetByID(c *fiber.Ctx) error {
	rel, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.FromStockRelease(rel))
}

// List godoc
// @Summary      Listar liberaciones por estado o ubicación
// @Tags         stock-releases
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "PENDING, APPROVED, RELEASED, RECEIVED, COMPLETED, CANCELLED"
// @Param        location_id  query  string  false  "Liberaciones que tocan la ubicación (origen o destino)"
// @Param        limit        query  int     false  "máximo de filas (default 20)"
// @Param        offset       query  int     false  "desplazamiento"
// @Success      200  {array}  dto.StockReleaseResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock-releases [get]
func (h *StockReleaseHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	var (
		releases []*entity.StockRelease
		err      error
	)
	switch {
	case c.Query("status") != "":
		releases, err = h.uc.ListByStatus(c.Context(), entity.ReleaseStatus(c.Query("status")), page.Limit, page.Offset)
	case c.Query("location_id") != "":
		releases, err = h.uc.ListByLocation(c.Context(), c.Query("location_id"), page.Limit, page.Offset)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status o location_id es requerido"})
	}
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.StockReleaseResponse, 0, len(releases))
	for _, rel := range releases {
		out = append(out, dto.FromStockRelease(rel))
	}
	return c.JSON(out)
}

// DownloadPDF godoc
// @Summary      Descargar el acta de salida de bodega (PDF)
// @Tags         stock-releases
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la liberación"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-releases/{id}/document [get]
func (h *StockReleaseHandler) DownloadPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.pdf.DownloadReleaseNotePDF(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
