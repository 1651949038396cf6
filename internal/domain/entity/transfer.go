package entity

import "time"

// Estados del ciclo de vida de una transferencia.
// REQUESTED → {CONFIRMED, FAILED} los decide el orquestador según el ledger;
// los demás llegan por actualizaciones externas validadas contra la máquina de estados.
const (
	StatusRequested = "REQUESTED"
	StatusConfirmed = "CONFIRMED"
	StatusInTransit = "IN_TRANSIT"
	StatusDelivered = "DELIVERED"
	StatusCancelled = "CANCELLED"
	StatusFailed    = "FAILED"
)

// Transfer representa una transferencia de inventario entre bodegas, anclada al
// ledger mediante ItemsHash (compromiso inmutable calculado una sola vez al crear).
// TxHash y BlockNumber solo existen una vez confirmada on-chain.
type Transfer struct {
	TransferID      string
	FromLocation    string
	ToLocation      string
	ItemsHash       string // 0x + 64 hex, keccak-256 del JSON canónico de items
	Status          string
	ContractAddress string
	TxHash          string
	BlockNumber     *int64
	ErrorMessage    string // solo cuando Status es FAILED, acotado a 500 chars
	CreatedAt       time.Time
}

// IsTerminalStatus reporta si el estado no admite más transiciones.
func IsTerminalStatus(status string) bool {
	switch status {
	case StatusDelivered, StatusCancelled, StatusFailed:
		return true
	}
	return false
}
