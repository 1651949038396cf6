package repository

import (
	"context"

	"github.com/jhoicas/SupplyChain-api/internal/domain/entity"
)

// InventoryRepository define el puerto para los contadores de stock por bodega+SKU (DIP).
// Deduct y AddStock son atómicos a nivel de fila: la cantidad nunca queda negativa
// aunque haya deducciones concurrentes sobre la misma clave.
type InventoryRepository interface {
	Get(ctx context.Context, location, sku string) (*entity.Inventory, error)
	// GetQuantity devuelve la cantidad actual; 0 si el contador no existe.
	GetQuantity(ctx context.Context, location, sku string) (int, error)

	// DeductStock decrementa condicionalmente (WHERE quantity >= amount).
	// Retorna false sin efecto parcial si no hay stock suficiente.
	DeductStock(ctx context.Context, location, sku string, amount int) (bool, error)
	// AddStock incrementa la cantidad. Retorna false si el contador no existe.
	AddStock(ctx context.Context, location, sku string, amount int) (bool, error)
	// Create inserta un contador nuevo (clonación de metadata al acreditar destino).
	Create(ctx context.Context, inv *entity.Inventory) error
	// FindAnyBySKU devuelve un contador del SKU en cualquier bodega (fuente de metadata), o nil.
	FindAnyBySKU(ctx context.Context, sku string) (*entity.Inventory, error)

	ListAll(ctx context.Context) ([]*entity.Inventory, error)
	ListByLocation(ctx context.Context, location string) ([]*entity.Inventory, error)
	ListLowStock(ctx context.Context) ([]*entity.Inventory, error)
	ListLocations(ctx context.Context) ([]string, error)
	ListSKUs(ctx context.Context) ([]string, error)
	ListCategories(ctx context.Context) ([]string, error)
}
