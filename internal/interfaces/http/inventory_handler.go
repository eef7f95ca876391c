package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/NextWave-98/api-sub002/internal/application/dto"
	"github.com/NextWave-98/api-sub002/internal/application/inventory"
	"github.com/NextWave-98/api-sub002/internal/domain/entity"
	"github.com/NextWave-98/api-sub002/internal/domain/repository"
)

// InventoryHandler maneja las peticiones HTTP de inventario: ajustes, reservas,
// traslados, niveles y el libro de movimientos (protegido).
type InventoryHandler struct {
	adjust   *inventory.AdjustUseCase
	transfer *inventory.TransferUseCase
	query    *inventory.QueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(adjust *inventory.AdjustUseCase, transfer *inventory.TransferUseCase, query *inventory.QueryUseCase) *InventoryHandler {
	return &InventoryHandler{adjust: adjust, transfer: transfer, query: query}
}

// Adjust godoc
// @Summary      Ajustar stock (entrada, salida, daño, hallazgo, corrección)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "quantity con signo + intent"
// @Success      200   {object}  dto.InventoryRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if !parseBody(c, &in) {
		return nil
	}
	record, err := h.adjust.Adjust(c.Context(), inventory.AdjustInput{
		ProductID:     in.ProductID,
		LocationID:    in.LocationID,
		Quantity:      in.Quantity,
		Intent:        entity.StockIntent(in.Intent),
		UnitCost:      in.UnitCost,
		ReferenceType: entity.ReferenceType(in.ReferenceType),
		ReferenceID:   in.ReferenceID,
		Notes:         in.Notes,
		UserID:        GetUserID(c),
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.FromInventoryRecord(record))
}

// Reserve godoc
// @Summary      Reservar unidades sin retirarlas del stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReserveStockRequest  true  "producto, ubicación y cantidad"
// @Success      200   {object}  dto.InventoryRecordResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/reservations [post]
func (h *InventoryHandler) Reserve(c *fiber.Ctx) error {
	var in dto.ReserveStockRequest
	if !parseBody(c, &in) {
		return nil
	}
	record, err := h.adjust.Reserve(c.Context(), inventory.ReserveInput{
		ProductID:  in.ProductID,
		LocationID: in.LocationID,
		Quantity:   in.Quantity,
		UserID:     GetUserID(c),
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.FromInventoryRecord(record))
}

// ReleaseReservation godoc
// @Summary      Liberar unidades previamente reservadas
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReserveStockRequest  true  "producto, ubicación y cantidad"
// @Success      200   {object}  dto.InventoryRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/reservations/release [post]
func (h *InventoryHandler) ReleaseReservation(c *fiber.Ctx) error {
	var in dto.ReserveStockRequest
	if !parseBody(c, &in) {
		return nil
	}
	record, err := h.adjust.ReleaseReservation(c.Context(), inventory.ReserveInput{
		ProductID:  in.ProductID,
		LocationID: in.LocationID,
		Quantity:   in.Quantity,
		UserID:     GetUserID(c),
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.FromInventoryRecord(record))
}

// Transfer godoc
// @Summary      Trasladar un producto entre ubicaciones
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "producto, origen, destino y cantidad"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if !parseBody(c, &in) {
		return nil
	}
	result, err := h.transfer.Transfer(c.Context(), inventory.TransferInput{
		ProductID:      in.ProductID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Quantity:       in.Quantity,
		Notes:          in.Notes,
		UserID:         GetUserID(c),
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{
		"transfer_id": result.TransferID,
		"from":        dto.FromInventoryRecord(result.From),
		"to":          dto.FromInventoryRecord(result.To),
		"quantity":    result.Quantity,
	})
}

// BulkTransfer godoc
// @Summary      Trasladar varios productos entre las mismas dos ubicaciones
// @Description  Atómico: valida el stock de todas las líneas antes de mover;
//
//	si una falla ninguna se aplica.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkTransferRequest  true  "origen, destino y líneas"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers/bulk [post]
func (h *InventoryHandler) BulkTransfer(c *fiber.Ctx) error {
	var in dto.BulkTransferRequest
	if !parseBody(c, &in) {
		return nil
	}
	items := make([]inventory.BulkTransferItem, 0, len(in.Items))
	for _, item := range in.Items {
		items = append(items, inventory.BulkTransferItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	result, err := h.transfer.BulkTransfer(c.Context(), inventory.BulkTransferInput{
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Items:          items,
		Notes:          in.Notes,
		UserID:         GetUserID(c),
	})
	if err != nil {
		return domainError(c, err)
	}
	lines := make([]fiber.Map, 0, len(result.Lines))
	for _, line := range result.Lines {
		lines = append(lines, fiber.Map{
			"from":     dto.FromInventoryRecord(line.From),
			"to":       dto.FromInventoryRecord(line.To),
			"quantity": line.Quantity,
		})
	}
	return c.JSON(fiber.Map{"transfer_id": result.TransferID, "lines": lines})
}

// ReceivePurchaseOrder godoc
// @Summary      Registrar la recepción de una orden de compra
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden de compra"
// @Param        body  body  dto.ReceivePurchaseOrderRequest  true  "ubicación y líneas recibidas"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/receive [post]
func (h *InventoryHandler) ReceivePurchaseOrder(c *fiber.Ctx) error {
	poID := c.Params("id")
	if poID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.ReceivePurchaseOrderRequest
	if !parseBody(c, &in) {
		return nil
	}
	lines := make([]inventory.PurchaseReceiptLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, inventory.PurchaseReceiptLine{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitCost:  l.UnitCost,
		})
	}
	if err := h.adjust.ReceivePurchaseOrder(c.Context(), poID, in.LocationID, lines, GetUserID(c)); err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "recepción registrada"})
}

// GetLevel godoc
// @Summary      Nivel de stock de un producto en una ubicación
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  true  "UUID del producto"
// @Param        location_id  query  string  true  "UUID de la ubicación"
// @Success      200  {object}  dto.InventoryRecordResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/levels [get]
func (h *InventoryHandler) GetLevel(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	locationID := c.Query("location_id")
	if productID == "" || locationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y location_id son requeridos"})
	}
	record, err := h.query.GetLevel(c.Context(), productID, locationID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.FromInventoryRecord(record))
}

// ListLevelsByLocation godoc
// @Summary      Niveles de stock de una ubicación
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "UUID de la ubicación"
// @Param        limit   query  int     false  "máximo de filas (default 20)"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {array}  dto.InventoryRecordResponse
// @Router       /api/locations/{id}/inventory [get]
func (h *InventoryHandler) ListLevelsByLocation(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	records, err := h.query.ListLevelsByLocation(c.Context(), c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.InventoryRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, dto.FromInventoryRecord(r))
	}
	return c.JSON(out)
}

// ListLevelsByProduct godoc
// @Summary      Niveles de stock de un producto en todas las ubicaciones
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "UUID del producto"
// @Success      200  {array}  dto.InventoryRecordResponse
// @Router       /api/products/{id}/inventory [get]
func (h *InventoryHandler) ListLevelsByProduct(c *fiber.Ctx) error {
	records, err := h.query.ListLevelsByProduct(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.InventoryRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, dto.FromInventoryRecord(r))
	}
	return c.JSON(out)
}

// ListBelowReorderLevel godoc
// @Summary      Filas en o bajo su punto de reorden (señal de compra)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  false  "Filtrar por ubicación. Vacío = todas."
// @Success      200  {array}  dto.InventoryRecordResponse
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) ListBelowReorderLevel(c *fiber.Ctx) error {
	records, err := h.query.ListBelowReorderLevel(c.Context(), c.Query("location_id"))
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.InventoryRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, dto.FromInventoryRecord(r))
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Consultar el libro de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "Filtrar por producto"
// @Param        location_id  query  string  false  "Filtrar por ubicación"
// @Param        from         query  string  false  "Desde (RFC 3339)"
// @Param        to           query  string  false  "Hasta (RFC 3339)"
// @Param        limit        query  int     false  "máximo de filas (default 20)"
// @Param        offset       query  int     false  "desplazamiento"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	filter := repository.MovementFilter{
		ProductID:  c.Query("product_id"),
		LocationID: c.Query("location_id"),
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC 3339"})
		}
		filter.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC 3339"})
		}
		filter.To = &t
	}

	movements, err := h.query.ListMovements(c.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.FromMovement(m))
	}
	return c.JSON(out)
}
