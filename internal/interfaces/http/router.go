package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/NextWave-98/api-sub002/internal/application/catalog"
	"github.com/NextWave-98/api-sub002/internal/application/inventory"
	"github.com/NextWave-98/api-sub002/internal/application/release"
)

// Roles con permiso para aprobar y liberar stock.
const (
	RoleAdmin      = "ADMIN"
	RoleSupervisor = "SUPERVISOR"
	RoleWarehouse  = "WAREHOUSE"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC  *catalog.ProductUseCase
	LocationUC *catalog.LocationUseCase
	AdjustUC   *inventory.AdjustUseCase
	TransferUC *inventory.TransferUseCase
	QueryUC    *inventory.QueryUseCase
	ReleaseUC  *release.UseCase
	ReleasePDF *release.PDFUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	// Locations (protegido)
	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Post("/", locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Put("/:id", locationHandler.Update)

	// Inventory (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.AdjustUC, deps.TransferUC, deps.QueryUC)
	invGroup.Post("/adjustments", inventoryHandler.Adjust)
	invGroup.Post("/reservations", inventoryHandler.Reserve)
	invGroup.Post("/reservations/release", inventoryHandler.ReleaseReservation)
	invGroup.Post("/transfers", inventoryHandler.Transfer)
	invGroup.Post("/transfers/bulk", inventoryHandler.BulkTransfer)
	invGroup.Get("/levels", inventoryHandler.GetLevel)
	invGroup.Get("/low-stock", inventoryHandler.ListBelowReorderLevel)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	products.Get("/:id/inventory", inventoryHandler.ListLevelsByProduct)
	locations.Get("/:id/inventory", inventoryHandler.ListLevelsByLocation)

	// Purchase orders (protegido)
	protected.Post("/purchase-orders/:id/receive", inventoryHandler.ReceivePurchaseOrder)

	// Stock releases (protegido; aprobar y liberar exigen rol de bodega)
	releases := protected.Group("/stock-releases")
	releaseHandler := NewStockReleaseHandler(deps.ReleaseUC, deps.ReleasePDF)
	releases.Post("/", releaseHandler.Create)
	releases.Get("/", releaseHandler.List)
	releases.Get("/:id", releaseHandler.GetByID)
	releases.Get("/:id/document", releaseHandler.DownloadPDF)
	releases.Post("/:id/approve", RequireRole(RoleAdmin, RoleSupervisor), releaseHandler.Approve)
	releases.Post("/:id/release", RequireRole(RoleAdmin, RoleSupervisor, RoleWarehouse), releaseHandler.Release)
	releases.Post("/:id/receive", releaseHandler.Receive)
	releases.Post("/:id/cancel", releaseHandler.Cancel)
}
