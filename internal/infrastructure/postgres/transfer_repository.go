package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/SupplyChain-api/internal/domain"
	"github.com/jhoicas/SupplyChain-api/internal/domain/entity"
	"github.com/jhoicas/SupplyChain-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación de TransferRepository sobre PostgreSQL (usable con pool o tx).
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

// Create persiste la transferencia en REQUESTED junto con sus items.
// Llamar dentro de una tx para que transferencia e items queden juntos.
func (r *TransferRepo) Create(ctx context.Context, t *entity.Transfer, items []entity.TransferItem) error {
	query := `
		INSERT INTO transfers (transfer_id, from_location, to_location, items_hash, status, contract_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())`
	_, err := r.q.Exec(ctx, query,
		t.TransferID, t.FromLocation, t.ToLocation, t.ItemsHash, t.Status, t.ContractAddress,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrAlreadyExists, t.TransferID)
		}
		return fmt.Errorf("insert transfer: %w", err)
	}

	itemQuery := `INSERT INTO transfer_items (transfer_id, sku, qty) VALUES ($1, $2, $3)`
	for _, it := range items {
		if _, err := r.q.Exec(ctx, itemQuery, t.TransferID, it.SKU, it.Qty); err != nil {
			return fmt.Errorf("insert transfer item %s: %w", it.SKU, err)
		}
	}
	return nil
}

// GetByID obtiene una transferencia por su transfer_id; nil si no existe.
func (r *TransferRepo) GetByID(ctx context.Context, transferID string) (*entity.Transfer, error) {
	query := `
		SELECT transfer_id, from_location, to_location, items_hash, status,
		       COALESCE(contract_address, ''), COALESCE(tx_hash, ''), block_number,
		       COALESCE(error_message, ''), created_at
		FROM transfers WHERE transfer_id = $1`
	var t entity.Transfer
	err := r.q.QueryRow(ctx, query, transferID).Scan(
		&t.TransferID, &t.FromLocation, &t.ToLocation, &t.ItemsHash, &t.Status,
		&t.ContractAddress, &t.TxHash, &t.BlockNumber, &t.ErrorMessage, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	return &t, nil
}

// GetItems devuelve los items retenidos de la transferencia, ordenados por SKU.
func (r *TransferRepo) GetItems(ctx context.Context, transferID string) ([]entity.TransferItem, error) {
	query := `SELECT sku, qty FROM transfer_items WHERE transfer_id = $1 ORDER BY sku`
	rows, err := r.q.Query(ctx, query, transferID)
	if err != nil {
		return nil, fmt.Errorf("get transfer items: %w", err)
	}
	defer rows.Close()
	var items []entity.TransferItem
	for rows.Next() {
		var it entity.TransferItem
		if err := rows.Scan(&it.SKU, &it.Qty); err != nil {
			return nil, fmt.Errorf("scan transfer item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// List devuelve todas las transferencias, más recientes primero.
func (r *TransferRepo) List(ctx context.Context) ([]*entity.Transfer, error) {
	query := `
		SELECT transfer_id, from_location, to_location, items_hash, status,
		       COALESCE(contract_address, ''), COALESCE(tx_hash, ''), block_number,
		       COALESCE(error_message, ''), created_at
		FROM transfers ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transfer
	for rows.Next() {
		var t entity.Transfer
		if err := rows.Scan(
			&t.TransferID, &t.FromLocation, &t.ToLocation, &t.ItemsHash, &t.Status,
			&t.ContractAddress, &t.TxHash, &t.BlockNumber, &t.ErrorMessage, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// MarkConfirmed fija tx_hash, block_number y CONFIRMED, solo desde REQUESTED.
func (r *TransferRepo) MarkConfirmed(ctx context.Context, transferID, txHash string, blockNumber int64) error {
	query := `
		UPDATE transfers
		SET status = $2, tx_hash = $3, block_number = $4
		WHERE transfer_id = $1 AND status = $5`
	cmd, err := r.q.Exec(ctx, query,
		transferID, entity.StatusConfirmed, txHash, blockNumber, entity.StatusRequested,
	)
	if err != nil {
		return fmt.Errorf("mark transfer confirmed: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("mark transfer confirmed: %s no está en %s", transferID, entity.StatusRequested)
	}
	return nil
}

// MarkFailed fija FAILED con el mensaje de error, solo desde REQUESTED.
func (r *TransferRepo) MarkFailed(ctx context.Context, transferID, errorMessage string) error {
	query := `
		UPDATE transfers
		SET status = $2, error_message = $3
		WHERE transfer_id = $1 AND status = $4`
	cmd, err := r.q.Exec(ctx, query,
		transferID, entity.StatusFailed, errorMessage, entity.StatusRequested,
	)
	if err != nil {
		return fmt.Errorf("mark transfer failed: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("mark transfer failed: %s no está en %s", transferID, entity.StatusRequested)
	}
	return nil
}

// UpdateStatus fija el nuevo estado con update condicional sobre el estado actual.
// Si la fila ya no está en currentStatus otra petición ganó la transición: se
// relee el estado real para armar el error y la tx del caller se revierte.
func (r *TransferRepo) UpdateStatus(ctx context.Context, transferID, currentStatus, newStatus string) error {
	query := `UPDATE transfers SET status = $3 WHERE transfer_id = $1 AND status = $2`
	cmd, err := r.q.Exec(ctx, query, transferID, currentStatus, newStatus)
	if err != nil {
		return fmt.Errorf("update transfer status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		var actual string
		err := r.q.QueryRow(ctx, `SELECT status FROM transfers WHERE transfer_id = $1`, transferID).Scan(&actual)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: %s", domain.ErrNotFound, transferID)
			}
			return fmt.Errorf("update transfer status: %w", err)
		}
		return &domain.InvalidTransitionError{
			TransferID: transferID,
			Current:    actual,
			Requested:  newStatus,
		}
	}
	return nil
}

// Delete elimina la transferencia solo si sigue en REQUESTED (los items caen por FK CASCADE).
func (r *TransferRepo) Delete(ctx context.Context, transferID string) error {
	query := `DELETE FROM transfers WHERE transfer_id = $1 AND status = $2`
	cmd, err := r.q.Exec(ctx, query, transferID, entity.StatusRequested)
	if err != nil {
		return fmt.Errorf("delete transfer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, transferID)
	}
	return nil
}
