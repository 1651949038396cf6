package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/SupplyChain-api/internal/domain/entity"
	"github.com/jhoicas/SupplyChain-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL (usable con pool o tx).
// La deducción es un update condicional: la fila es la barrera de concurrencia,
// no hay locking a nivel de aplicación.
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

const inventoryColumns = `location, sku, product_name, COALESCE(category, ''), quantity, min_stock, unit, price, last_updated`

func scanInventory(row pgx.Row) (*entity.Inventory, error) {
	var inv entity.Inventory
	err := row.Scan(
		&inv.Location, &inv.SKU, &inv.ProductName, &inv.Category,
		&inv.Quantity, &inv.MinStock, &inv.Unit, &inv.Price, &inv.LastUpdated,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Get obtiene el contador de una bodega+SKU; nil si no existe.
func (r *InventoryRepo) Get(ctx context.Context, location, sku string) (*entity.Inventory, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE location = $1 AND sku = $2`
	inv, err := scanInventory(r.q.QueryRow(ctx, query, location, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return inv, nil
}

// GetQuantity devuelve la cantidad actual; 0 si el contador no existe.
func (r *InventoryRepo) GetQuantity(ctx context.Context, location, sku string) (int, error) {
	query := `SELECT quantity FROM inventory WHERE location = $1 AND sku = $2`
	var qty int
	err := r.q.QueryRow(ctx, query, location, sku).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get quantity: %w", err)
	}
	return qty, nil
}

// DeductStock decrementa condicionalmente: solo si el resultado queda >= 0.
// Retorna false sin efecto alguno cuando no hay stock suficiente.
func (r *InventoryRepo) DeductStock(ctx context.Context, location, sku string, amount int) (bool, error) {
	query := `
		UPDATE inventory
		SET quantity = quantity - $3, last_updated = now()
		WHERE location = $1 AND sku = $2 AND quantity >= $3`
	cmd, err := r.q.Exec(ctx, query, location, sku, amount)
	if err != nil {
		return false, fmt.Errorf("deduct stock: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// AddStock incrementa la cantidad. Retorna false si el contador no existe aún.
func (r *InventoryRepo) AddStock(ctx context.Context, location, sku string, amount int) (bool, error) {
	query := `
		UPDATE inventory
		SET quantity = quantity + $3, last_updated = now()
		WHERE location = $1 AND sku = $2`
	cmd, err := r.q.Exec(ctx, query, location, sku, amount)
	if err != nil {
		return false, fmt.Errorf("add stock: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// Create inserta un contador nuevo (ej. al acreditar un SKU en una bodega que no lo tenía).
func (r *InventoryRepo) Create(ctx context.Context, inv *entity.Inventory) error {
	query := `
		INSERT INTO inventory (location, sku, product_name, category, quantity, min_stock, unit, price, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())`
	_, err := r.q.Exec(ctx, query,
		inv.Location, inv.SKU, inv.ProductName, inv.Category,
		inv.Quantity, inv.MinStock, inv.Unit, inv.Price,
	)
	if err != nil {
		return fmt.Errorf("insert inventory: %w", err)
	}
	return nil
}

// FindAnyBySKU devuelve un contador del SKU en cualquier bodega (fuente de metadata), o nil.
func (r *InventoryRepo) FindAnyBySKU(ctx context.Context, sku string) (*entity.Inventory, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE sku = $1 ORDER BY location LIMIT 1`
	inv, err := scanInventory(r.q.QueryRow(ctx, query, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find inventory by sku: %w", err)
	}
	return inv, nil
}

// ListAll devuelve todos los contadores, por bodega y nombre de producto.
func (r *InventoryRepo) ListAll(ctx context.Context) ([]*entity.Inventory, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory ORDER BY location, product_name`
	return r.list(ctx, query)
}

// ListByLocation devuelve los contadores de una bodega ordenados por nombre de producto.
func (r *InventoryRepo) ListByLocation(ctx context.Context, location string) ([]*entity.Inventory, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE location = $1 ORDER BY product_name`
	return r.list(ctx, query, location)
}

// ListLowStock devuelve los contadores en o por debajo de su umbral mínimo.
func (r *InventoryRepo) ListLowStock(ctx context.Context) ([]*entity.Inventory, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE quantity <= min_stock ORDER BY location, sku`
	return r.list(ctx, query)
}

// ListLocations devuelve las bodegas con al menos un contador.
func (r *InventoryRepo) ListLocations(ctx context.Context) ([]string, error) {
	return r.listStrings(ctx, `SELECT DISTINCT location FROM inventory ORDER BY location`)
}

// ListSKUs devuelve los SKUs conocidos.
func (r *InventoryRepo) ListSKUs(ctx context.Context) ([]string, error) {
	return r.listStrings(ctx, `SELECT DISTINCT sku FROM inventory ORDER BY sku`)
}

// ListCategories devuelve las categorías no vacías.
func (r *InventoryRepo) ListCategories(ctx context.Context) ([]string, error) {
	return r.listStrings(ctx,
		`SELECT DISTINCT category FROM inventory WHERE category IS NOT NULL AND category <> '' ORDER BY category`)
}

func (r *InventoryRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Inventory, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()
	var list []*entity.Inventory
	for rows.Next() {
		inv, err := scanInventory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

func (r *InventoryRepo) listStrings(ctx context.Context, query string) ([]string, error) {
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list inventory values: %w", err)
	}
	defer rows.Close()
	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan value: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
