package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/NextWave-98/api-sub002/internal/application/catalog"
	"github.com/NextWave-98/api-sub002/internal/application/inventory"
	"github.com/NextWave-98/api-sub002/internal/application/release"
	infrapdf "github.com/NextWave-98/api-sub002/internal/infrastructure/pdf"
	"github.com/NextWave-98/api-sub002/internal/infrastructure/postgres"
	httpRouter "github.com/NextWave-98/api-sub002/internal/interfaces/http"
	"github.com/NextWave-98/api-sub002/pkg/config"
	"github.com/NextWave-98/api-sub002/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(cfg.App.Env, "info")
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	inventoryRepo := postgres.NewInventoryRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	releaseRepo := postgres.NewStockReleaseRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	productUC := catalog.NewProductUseCase(productRepo)
	locationUC := catalog.NewLocationUseCase(locationRepo)
	adjustUC := inventory.NewAdjustUseCase(txRunner, productRepo, locationRepo)
	transferUC := inventory.NewTransferUseCase(txRunner, productRepo, locationRepo)
	queryUC := inventory.NewQueryUseCase(inventoryRepo, movementRepo)
	releaseUC := release.NewUseCase(txRunner, releaseRepo, productRepo, locationRepo)

	// PDF: acta de salida de bodega
	pdfGenerator := infrapdf.NewMarotoReleaseNoteGenerator()
	releasePDFUC := release.NewPDFUseCase(releaseRepo, locationRepo, productRepo, pdfGenerator)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    cfg.App.Name,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:  productUC,
		LocationUC: locationUC,
		AdjustUC:   adjustUC,
		TransferUC: transferUC,
		QueryUC:    queryUC,
		ReleaseUC:  releaseUC,
		ReleasePDF: releasePDFUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
