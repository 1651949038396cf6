package repository

import (
	"context"

	"github.com/jhoicas/SupplyChain-api/internal/domain/entity"
)

// TransferRepository define el puerto de persistencia para transferencias (DIP).
// Las mutaciones de estado son updates condicionales sobre transfer_id.
type TransferRepository interface {
	// Create persiste la transferencia en REQUESTED junto con sus items.
	// Retorna domain.ErrAlreadyExists si el transfer_id ya está registrado.
	Create(ctx context.Context, transfer *entity.Transfer, items []entity.TransferItem) error

	GetByID(ctx context.Context, transferID string) (*entity.Transfer, error)
	GetItems(ctx context.Context, transferID string) ([]entity.TransferItem, error)
	List(ctx context.Context) ([]*entity.Transfer, error)

	// MarkConfirmed fija tx_hash, block_number y estado CONFIRMED.
	MarkConfirmed(ctx context.Context, transferID, txHash string, blockNumber int64) error
	// MarkFailed fija estado FAILED con el mensaje de error (ya truncado por el caller).
	MarkFailed(ctx context.Context, transferID, errorMessage string) error
	// UpdateStatus fija el nuevo estado solo si el actual sigue siendo currentStatus:
	// la fila es la barrera contra transiciones concurrentes, igual que en MarkConfirmed.
	// Retorna domain.InvalidTransitionError si otro actor ya movió el estado.
	UpdateStatus(ctx context.Context, transferID, currentStatus, newStatus string) error

	// Delete elimina la transferencia solo si sigue en REQUESTED (auditoría append-only).
	// Retorna domain.ErrNotFound si no existe o ya salió de REQUESTED.
	Delete(ctx context.Context, transferID string) error
}
