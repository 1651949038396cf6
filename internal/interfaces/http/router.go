package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/SupplyChain-api/internal/application/inventory"
	"github.com/jhoicas/SupplyChain-api/internal/application/transfer"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Orchestrator *transfer.Orchestrator
	InventoryUC  *inventory.UseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Transferencias (ciclo de vida completo)
	transfers := api.Group("/transfers")
	transferHandler := NewTransferHandler(deps.Orchestrator)
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Put("/:id/status", transferHandler.UpdateStatus)
	transfers.Delete("/:id", transferHandler.Delete)

	// Inventario (solo lectura: las mutaciones pasan por las transferencias)
	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	inv.Get("/", inventoryHandler.List)
	inv.Get("/low-stock", inventoryHandler.ListLowStock)
	inv.Get("/locations", inventoryHandler.ListLocations)
	inv.Get("/skus", inventoryHandler.ListSKUs)
	inv.Get("/categories", inventoryHandler.ListCategories)
	inv.Get("/:location/:sku", inventoryHandler.Get)
}
