package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/SupplyChain-api/internal/domain"
	"github.com/jhoicas/SupplyChain-api/internal/domain/entity"
	"github.com/jhoicas/SupplyChain-api/internal/domain/repository"
)

// UseCase operaciones sobre los contadores de stock por bodega+SKU.
// Las lecturas usan el repo atado al pool; las mutaciones reciben el repo
// como argumento para poder ejecutarse dentro de la transacción del caller
// (mismo patrón que la deducción de inventario al facturar).
type UseCase struct {
	repo repository.InventoryRepository
}

// NewUseCase construye el caso de uso con el repo de lecturas.
func NewUseCase(repo repository.InventoryRepository) *UseCase {
	return &UseCase{repo: repo}
}

// ── Validación ────────────────────────────────────────────────────────────────

// Validate verifica que la bodega origen tenga stock suficiente para todos los
// items. Solo lectura: no reserva stock, por lo que una deducción posterior
// puede aún perder la carrera (la deducción condicional es la barrera real).
func (uc *UseCase) Validate(ctx context.Context, location string, items []entity.TransferItem) error {
	for _, it := range items {
		available, err := uc.repo.GetQuantity(ctx, location, it.SKU)
		if err != nil {
			return fmt.Errorf("consultar stock de %s en %s: %w", it.SKU, location, err)
		}
		if available < it.Qty {
			log.Warn().
				Str("location", location).Str("sku", it.SKU).
				Int("requested", it.Qty).Int("available", available).
				Msg("stock insuficiente")
			return &domain.InsufficientStockError{
				Location:  location,
				SKU:       it.SKU,
				Requested: it.Qty,
				Available: available,
			}
		}
	}
	return nil
}

// ── Mutaciones (repo atado a la tx del caller) ────────────────────────────────

// DeductInTx descuenta el stock de cada item en la bodega origen con update
// condicional. Si algún item pierde la carrera el error aborta la transacción
// del caller, así que nunca queda una deducción parcial.
func (uc *UseCase) DeductInTx(ctx context.Context, invRepo repository.InventoryRepository,
	location string, items []entity.TransferItem) error {

	for _, it := range items {
		ok, err := invRepo.DeductStock(ctx, location, it.SKU, it.Qty)
		if err != nil {
			return fmt.Errorf("deducir %s en %s: %w", it.SKU, location, err)
		}
		if !ok {
			// La validación previa pasó pero otra transferencia ganó la fila
			available, qErr := invRepo.GetQuantity(ctx, location, it.SKU)
			if qErr != nil {
				available = 0
			}
			return &domain.InsufficientStockError{
				Location:  location,
				SKU:       it.SKU,
				Requested: it.Qty,
				Available: available,
			}
		}
	}
	return nil
}

// CreditInTx acredita cada item en la bodega destino. Si el contador no existe
// allí, se crea clonando la metadata del producto (nombre/categoría/unidad/precio)
// desde cualquier otra bodega que tenga el SKU.
func (uc *UseCase) CreditInTx(ctx context.Context, invRepo repository.InventoryRepository,
	location string, items []entity.TransferItem) error {

	for _, it := range items {
		ok, err := invRepo.AddStock(ctx, location, it.SKU, it.Qty)
		if err != nil {
			return fmt.Errorf("acreditar %s en %s: %w", it.SKU, location, err)
		}
		if ok {
			continue
		}

		source, err := invRepo.FindAnyBySKU(ctx, it.SKU)
		if err != nil {
			return fmt.Errorf("buscar metadata de %s: %w", it.SKU, err)
		}

		nuevo := &entity.Inventory{
			Location:    location,
			SKU:         it.SKU,
			ProductName: it.SKU,
			Quantity:    it.Qty,
			MinStock:    10,
			Unit:        "units",
			LastUpdated: time.Now(),
		}
		if source != nil {
			nuevo.ProductName = source.ProductName
			nuevo.Category = source.Category
			nuevo.MinStock = source.MinStock
			nuevo.Unit = source.Unit
			nuevo.Price = source.Price
		}
		if err := invRepo.Create(ctx, nuevo); err != nil {
			return fmt.Errorf("crear contador %s/%s: %w", location, it.SKU, err)
		}
		log.Info().Str("location", location).Str("sku", it.SKU).
			Msg("contador de inventario creado en destino")
	}
	return nil
}

// RollbackDeductionInTx reacredita los items a la bodega origen cuando hay que
// deshacer una deducción (transferencia cancelada después de confirmarse).
func (uc *UseCase) RollbackDeductionInTx(ctx context.Context, invRepo repository.InventoryRepository,
	location string, items []entity.TransferItem) error {
	return uc.CreditInTx(ctx, invRepo, location, items)
}

// ── Lecturas ──────────────────────────────────────────────────────────────────

// Get devuelve el contador de una bodega+SKU, o domain.ErrNotFound.
func (uc *UseCase) Get(ctx context.Context, location, sku string) (*entity.Inventory, error) {
	inv, err := uc.repo.Get(ctx, location, sku)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("%w: inventario %s/%s", domain.ErrNotFound, location, sku)
	}
	return inv, nil
}

// ListAll devuelve todos los contadores.
func (uc *UseCase) ListAll(ctx context.Context) ([]*entity.Inventory, error) {
	return uc.repo.ListAll(ctx)
}

// ListByLocation devuelve los contadores de una bodega.
func (uc *UseCase) ListByLocation(ctx context.Context, location string) ([]*entity.Inventory, error) {
	return uc.repo.ListByLocation(ctx, location)
}

// ListLowStock devuelve los contadores en o por debajo de su umbral mínimo.
func (uc *UseCase) ListLowStock(ctx context.Context) ([]*entity.Inventory, error) {
	return uc.repo.ListLowStock(ctx)
}

// ListLocations devuelve las bodegas conocidas.
func (uc *UseCase) ListLocations(ctx context.Context) ([]string, error) {
	return uc.repo.ListLocations(ctx)
}

// ListSKUs devuelve los SKUs conocidos.
func (uc *UseCase) ListSKUs(ctx context.Context) ([]string, error) {
	return uc.repo.ListSKUs(ctx)
}

// ListCategories devuelve las categorías conocidas.
func (uc *UseCase) ListCategories(ctx context.Context) ([]string, error) {
	return uc.repo.ListCategories(ctx)
}
