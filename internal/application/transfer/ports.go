package transfer

import (
	"context"

	"github.com/jhoicas/SupplyChain-api/internal/domain/entity"
	"github.com/jhoicas/SupplyChain-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que deducción de stock y cambio de
// estado de la transferencia sean atómicos desde el punto de vista del caller.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		transferRepo repository.TransferRepository,
		invRepo repository.InventoryRepository,
	) error) error
}

// LedgerSubmitter define el puerto de salida hacia el ledger blockchain.
// La implementación concreta firma y difunde la transacción; para tests se
// inyecta un fake. SubmitTransferRecord debe fallar siempre con
// *domain.LedgerError para que el orquestador pueda decidir FAILED vs REQUESTED.
type LedgerSubmitter interface {
	// SubmitTransferRecord registra la transferencia on-chain y espera el receipt.
	// Bloquea hasta finalidad o timeout de polling; cancelable vía ctx.
	SubmitTransferRecord(ctx context.Context, transferID, from, to string, itemsHash [32]byte) (*entity.LedgerReceipt, error)

	// ContractAddress dirección del contrato destino (se persiste con la transferencia).
	ContractAddress() string
}
