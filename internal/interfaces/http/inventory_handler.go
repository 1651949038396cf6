package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/SupplyChain-api/internal/application/dto"
	"github.com/jhoicas/SupplyChain-api/internal/application/inventory"
	"github.com/jhoicas/SupplyChain-api/internal/domain/entity"
)

// InventoryHandler maneja las consultas de stock por bodega.
type InventoryHandler struct {
	uc *inventory.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

func toInventoryResponse(inv *entity.Inventory) dto.InventoryResponse {
	resp := dto.InventoryResponse{
		Location:    inv.Location,
		SKU:         inv.SKU,
		ProductName: inv.ProductName,
		Category:    inv.Category,
		Quantity:    inv.Quantity,
		MinStock:    inv.MinStock,
		Unit:        inv.Unit,
		Price:       inv.Price,
		LowStock:    inv.IsLowStock(),
	}
	if !inv.LastUpdated.IsZero() {
		resp.LastUpdated = inv.LastUpdated.Format(time.RFC3339)
	}
	return resp
}

func toInventoryResponses(list []*entity.Inventory) []dto.InventoryResponse {
	out := make([]dto.InventoryResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, toInventoryResponse(inv))
	}
	return out
}

// List godoc
// @Summary      Listar contadores de stock
// @Tags         inventory
// @Produce      json
// @Param        location  query  string  false  "Filtrar por bodega. Vacío = todas."
// @Success      200  {array}  dto.InventoryResponse
// @Router       /api/inventory [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	location := c.Query("location")

	var (
		list []*entity.Inventory
		err  error
	)
	if location != "" {
		list, err = h.uc.ListByLocation(c.Context(), location)
	} else {
		list, err = h.uc.ListAll(c.Context())
	}
	if err != nil {
		return writeError(c, err)
	}
	items := toInventoryResponses(list)
	return c.JSON(fiber.Map{"total": len(items), "inventory": items})
}

// Get godoc
// @Summary      Consultar un contador bodega+SKU
// @Tags         inventory
// @Produce      json
// @Param        location  path  string  true  "bodega"
// @Param        sku       path  string  true  "SKU"
// @Success      200  {object}  dto.InventoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{location}/{sku} [get]
func (h *InventoryHandler) Get(c *fiber.Ctx) error {
	inv, err := h.uc.Get(c.Context(), c.Params("location"), c.Params("sku"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toInventoryResponse(inv))
}

// ListLowStock godoc
// @Summary      Contadores en o por debajo de su stock mínimo
// @Tags         inventory
// @Produce      json
// @Success      200  {array}  dto.InventoryResponse
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) ListLowStock(c *fiber.Ctx) error {
	list, err := h.uc.ListLowStock(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	items := toInventoryResponses(list)
	return c.JSON(fiber.Map{"total": len(items), "inventory": items})
}

// ListLocations godoc
// @Summary      Bodegas con inventario
// @Tags         inventory
// @Produce      json
// @Success      200  {array}  string
// @Router       /api/inventory/locations [get]
func (h *InventoryHandler) ListLocations(c *fiber.Ctx) error {
	values, err := h.uc.ListLocations(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"locations": values})
}

// ListSKUs godoc
// @Summary      SKUs conocidos
// @Tags         inventory
// @Produce      json
// @Success      200  {array}  string
// @Router       /api/inventory/skus [get]
func (h *InventoryHandler) ListSKUs(c *fiber.Ctx) error {
	values, err := h.uc.ListSKUs(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"skus": values})
}

// ListCategories godoc
// @Summary      Categorías de producto conocidas
// @Tags         inventory
// @Produce      json
// @Success      200  {array}  string
// @Router       /api/inventory/categories [get]
func (h *InventoryHandler) ListCategories(c *fiber.Ctx) error {
	values, err := h.uc.ListCategories(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"categories": values})
}
