package transfer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/SupplyChain-api/internal/application/dto"
	appinventory "github.com/jhoicas/SupplyChain-api/internal/application/inventory"
	"github.com/jhoicas/SupplyChain-api/internal/domain"
	"github.com/jhoicas/SupplyChain-api/internal/domain/entity"
	"github.com/jhoicas/SupplyChain-api/internal/domain/hash"
	"github.com/jhoicas/SupplyChain-api/internal/domain/repository"
)

// maxErrorMessageLen largo máximo del mensaje de error persistido en FAILED.
// Mensajes más largos se truncan en silencio, no se rechazan.
const maxErrorMessageLen = 500

// Orchestrator coordina el ciclo completo de una transferencia:
//
//	validar stock → itemsHash → persistir REQUESTED → registrar on-chain →
//	deducir inventario + CONFIRMED (misma tx de BD) | FAILED
//
// y las transiciones posteriores (IN_TRANSIT, DELIVERED, CANCELLED) con sus
// efectos de inventario. Tres sistemas fallan de forma independiente aquí
// (Postgres, contadores de stock, ledger blockchain); el orden de los pasos
// garantiza que nunca haya stock deducido sin registro on-chain ni estado
// CONFIRMED sin deducción.
type Orchestrator struct {
	txRunner     TxRunner
	transferRepo repository.TransferRepository
	inventory    *appinventory.UseCase
	hasher       *hash.ItemsHasher
	ledger       LedgerSubmitter
}

// NewOrchestrator construye el orquestador con todas sus dependencias.
func NewOrchestrator(
	txRunner TxRunner,
	transferRepo repository.TransferRepository,
	inventory *appinventory.UseCase,
	hasher *hash.ItemsHasher,
	ledger LedgerSubmitter,
) *Orchestrator {
	return &Orchestrator{
		txRunner:     txRunner,
		transferRepo: transferRepo,
		inventory:    inventory,
		hasher:       hasher,
		ledger:       ledger,
	}
}

// Create ejecuta la creación completa de una transferencia.
//
// Devuelve la representación actual de la transferencia también en los fallos
// del ledger: el caller distingue por Status (FAILED definitivo, REQUESTED
// pendiente de conciliación) y por el error retornado.
func (o *Orchestrator) Create(ctx context.Context, in dto.CreateTransferRequest) (*entity.Transfer, error) {
	transferID := strings.TrimSpace(in.TransferID)
	if transferID == "" {
		transferID = uuid.New().String()
	}
	if strings.TrimSpace(in.FromLocation) == "" {
		return nil, &domain.ValidationError{Field: "fromLocation", Message: "la bodega origen es obligatoria"}
	}
	if strings.TrimSpace(in.ToLocation) == "" {
		return nil, &domain.ValidationError{Field: "toLocation", Message: "la bodega destino es obligatoria"}
	}

	items := make([]entity.TransferItem, len(in.Items))
	for i, it := range in.Items {
		items[i] = entity.TransferItem{SKU: strings.TrimSpace(it.SKU), Qty: it.Qty}
	}

	log.Info().Str("transfer_id", transferID).Str("from", in.FromLocation).
		Str("to", in.ToLocation).Int("items", len(items)).
		Msg("creando transferencia")

	// 1. Unicidad del transferId (la constraint de BD es la barrera definitiva)
	if existing, err := o.transferRepo.GetByID(ctx, transferID); err != nil {
		return nil, fmt.Errorf("verificar transferencia existente: %w", err)
	} else if existing != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrAlreadyExists, transferID)
	}

	// 2. Stock disponible ANTES de tocar el ledger: nunca se registra on-chain
	//    una transferencia que no puede ejecutarse físicamente
	if err := o.inventory.Validate(ctx, in.FromLocation, items); err != nil {
		return nil, err
	}

	// 3. Compromiso inmutable de los items (también valida SKUs y cantidades)
	itemsHash, err := o.hasher.Compute(items)
	if err != nil {
		return nil, err
	}
	hashBytes, err := o.hasher.ToBytes32(itemsHash)
	if err != nil {
		return nil, err
	}

	// 4. Registro durable en REQUESTED: queda la pista de auditoría aunque
	//    todos los pasos siguientes fallen
	t := &entity.Transfer{
		TransferID:      transferID,
		FromLocation:    in.FromLocation,
		ToLocation:      in.ToLocation,
		ItemsHash:       itemsHash,
		Status:          entity.StatusRequested,
		ContractAddress: o.ledger.ContractAddress(),
	}
	if err := o.txRunner.Run(ctx, func(
		transferRepo repository.TransferRepository,
		_ repository.InventoryRepository,
	) error {
		return transferRepo.Create(ctx, t, items)
	}); err != nil {
		return nil, err
	}

	// 5. Registro on-chain y espera de finalidad
	receipt, err := o.ledger.SubmitTransferRecord(ctx, transferID, in.FromLocation, in.ToLocation, hashBytes)
	if err != nil {
		return o.handleLedgerFailure(ctx, transferID, err)
	}

	// 6. Deducción + CONFIRMED en una sola transacción de BD: ningún lector
	//    externo ve CONFIRMED sin stock deducido ni stock deducido en REQUESTED
	err = o.txRunner.Run(ctx, func(
		transferRepo repository.TransferRepository,
		invRepo repository.InventoryRepository,
	) error {
		if err := o.inventory.DeductInTx(ctx, invRepo, in.FromLocation, items); err != nil {
			return err
		}
		return transferRepo.MarkConfirmed(ctx, transferID, receipt.TxHash, receipt.BlockNumber)
	})
	if err != nil {
		// El registro on-chain existe pero la deducción perdió la carrera:
		// la tx de BD ya se revirtió, el inventario quedó intacto
		log.Error().Err(err).Str("transfer_id", transferID).Str("tx_hash", receipt.TxHash).
			Msg("deducción posterior al ledger falló, marcando FAILED")
		o.markFailed(ctx, transferID, err.Error())
		current, _ := o.transferRepo.GetByID(ctx, transferID)
		return current, err
	}

	log.Info().Str("transfer_id", transferID).Str("tx_hash", receipt.TxHash).
		Int64("block_number", receipt.BlockNumber).
		Msg("transferencia confirmada")

	return o.transferRepo.GetByID(ctx, transferID)
}

// handleLedgerFailure decide el estado local según el tipo de fallo del ledger.
// Rechazo o revert definitivos (o fallo antes del broadcast) → FAILED terminal.
// Timeout o caída de red con broadcast hecho → queda en REQUESTED: la tx puede
// confirmarse después y reintentar a ciegas arriesga doble registro; la
// conciliación es manual.
func (o *Orchestrator) handleLedgerFailure(ctx context.Context, transferID string, err error) (*entity.Transfer, error) {
	var lerr *domain.LedgerError
	if errors.As(err, &lerr) && !lerr.Definitive() {
		log.Warn().Str("transfer_id", transferID).Str("kind", string(lerr.Kind)).
			Str("tx_hash", lerr.TxHash).
			Msg("desenlace del ledger ambiguo, la transferencia queda en REQUESTED para conciliación")
		current, _ := o.transferRepo.GetByID(ctx, transferID)
		return current, err
	}

	log.Warn().Err(err).Str("transfer_id", transferID).Msg("ledger falló, marcando FAILED")
	o.markFailed(ctx, transferID, err.Error())
	current, _ := o.transferRepo.GetByID(ctx, transferID)
	return current, err
}

// markFailed persiste FAILED con el mensaje truncado. El fallo de este update
// solo se loguea: el error original del ledger es el que viaja al caller.
func (o *Orchestrator) markFailed(ctx context.Context, transferID, msg string) {
	if len(msg) > maxErrorMessageLen {
		msg = msg[:maxErrorMessageLen]
	}
	if err := o.transferRepo.MarkFailed(ctx, transferID, msg); err != nil {
		log.Error().Err(err).Str("transfer_id", transferID).Msg("no se pudo persistir FAILED")
	}
}

// Get devuelve una transferencia por su ID.
func (o *Orchestrator) Get(ctx context.Context, transferID string) (*entity.Transfer, error) {
	t, err := o.transferRepo.GetByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, transferID)
	}
	return t, nil
}

// List devuelve todas las transferencias, más recientes primero.
func (o *Orchestrator) List(ctx context.Context) ([]*entity.Transfer, error) {
	return o.transferRepo.List(ctx)
}

// UpdateStatus aplica una transición solicitada externamente, con sus efectos
// de inventario: DELIVERED acredita la bodega destino y CANCELLED (posterior a
// la deducción) reacredita el origen, cada uno atómico con el cambio de estado.
func (o *Orchestrator) UpdateStatus(ctx context.Context, transferID, newStatus string) (*entity.Transfer, error) {
	if !isKnownStatus(newStatus) {
		return nil, &domain.ValidationError{Field: "status", Message: "estado desconocido: " + newStatus}
	}
	if !externallySettable[newStatus] {
		return nil, &domain.ValidationError{
			Field:   "status",
			Message: newStatus + " lo asigna el orquestador, no puede solicitarse",
		}
	}

	t, err := o.Get(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if !canTransition(t.Status, newStatus) {
		return nil, &domain.InvalidTransitionError{
			TransferID: transferID,
			Current:    t.Status,
			Requested:  newStatus,
		}
	}

	items, err := o.transferRepo.GetItems(ctx, transferID)
	if err != nil {
		return nil, fmt.Errorf("cargar items de %s: %w", transferID, err)
	}

	err = o.txRunner.Run(ctx, func(
		transferRepo repository.TransferRepository,
		invRepo repository.InventoryRepository,
	) error {
		switch newStatus {
		case entity.StatusDelivered:
			if err := o.inventory.CreditInTx(ctx, invRepo, t.ToLocation, items); err != nil {
				return err
			}
		case entity.StatusCancelled:
			// En CONFIRMED o IN_TRANSIT la deducción ya ocurrió: devolver al origen
			if err := o.inventory.RollbackDeductionInTx(ctx, invRepo, t.FromLocation, items); err != nil {
				return err
			}
		}
		// Update condicional sobre el estado leído: si otra petición concurrente
		// ya movió la transferencia, esto falla y la tx revierte el crédito de
		// arriba; el efecto de inventario nunca se aplica dos veces
		return transferRepo.UpdateStatus(ctx, transferID, t.Status, newStatus)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("transfer_id", transferID).Str("old_status", t.Status).
		Str("new_status", newStatus).Msg("estado de transferencia actualizado")

	return o.transferRepo.GetByID(ctx, transferID)
}

// Delete elimina una transferencia solo mientras siga en REQUESTED: una vez
// que salió de ahí el registro es parte de la auditoría y no se borra.
func (o *Orchestrator) Delete(ctx context.Context, transferID string) error {
	t, err := o.Get(ctx, transferID)
	if err != nil {
		return err
	}
	if t.Status != entity.StatusRequested {
		return &domain.ValidationError{
			Field:   "status",
			Message: "solo se puede eliminar una transferencia en REQUESTED, está en " + t.Status,
		}
	}
	// Delete condicional en el repo: si otra petición la movió de estado entre
	// la lectura y el borrado, no se elimina
	return o.transferRepo.Delete(ctx, transferID)
}
