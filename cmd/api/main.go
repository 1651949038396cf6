package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appinventory "github.com/jhoicas/SupplyChain-api/internal/application/inventory"
	"github.com/jhoicas/SupplyChain-api/internal/application/transfer"
	"github.com/jhoicas/SupplyChain-api/internal/domain/hash"
	"github.com/jhoicas/SupplyChain-api/internal/infrastructure/ledger"
	"github.com/jhoicas/SupplyChain-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/SupplyChain-api/internal/interfaces/http"
	"github.com/jhoicas/SupplyChain-api/pkg/config"
	"github.com/jhoicas/SupplyChain-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("chain_mode", cfg.Chain.Mode).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	transferRepo := postgres.NewTransferRepository(pool)
	inventoryRepo := postgres.NewInventoryRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Submitter del ledger: en "dev" no se toca ningún nodo, el receipt es
	// simulado. En cualquier otro modo la conexión al nodo es obligatoria.
	var ledgerSubmitter transfer.LedgerSubmitter
	if cfg.Chain.Mode == "dev" {
		ledgerSubmitter = ledger.NewDevSubmitter(cfg.Chain.ContractAddress)
		log.Warn().Msg("CHAIN_MODE=dev: receipts simulados, sin anclaje on-chain real")
	} else {
		ledgerSubmitter, err = ledger.NewClient(cfg.Chain)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente del ledger")
		}
	}

	inventoryUC := appinventory.NewUseCase(inventoryRepo)
	orchestrator := transfer.NewOrchestrator(
		txRunner, transferRepo, inventoryUC, hash.NewItemsHasher(), ledgerSubmitter,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 60, // Create bloquea hasta el receipt (polling)
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Orchestrator: orchestrator,
		InventoryUC:  inventoryUC,
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
