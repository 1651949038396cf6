package ledger

import (
	"context"
	"encoding/hex"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/SupplyChain-api/internal/application/transfer"
	"github.com/jhoicas/SupplyChain-api/internal/domain/entity"
)

var _ transfer.LedgerSubmitter = (*DevSubmitter)(nil)

// DevSubmitter implementación para CHAIN_MODE=dev: no toca ningún nodo y
// devuelve un receipt simulado determinístico. Permite desarrollar y probar
// el flujo completo sin levantar una red local.
type DevSubmitter struct {
	contractAddress string
	blockNumber     atomic.Int64
}

// NewDevSubmitter construye el submitter simulado.
func NewDevSubmitter(contractAddress string) *DevSubmitter {
	if contractAddress == "" {
		contractAddress = "0x0000000000000000000000000000000000000000"
	}
	s := &DevSubmitter{contractAddress: contractAddress}
	s.blockNumber.Store(100) // arranque arbitrario, solo para que los bloques crezcan
	return s
}

// ContractAddress dirección configurada (o la dirección cero en dev puro).
func (s *DevSubmitter) ContractAddress() string {
	return s.contractAddress
}

// SubmitTransferRecord devuelve un receipt simulado. El tx hash es el keccak
// del payload, así el mismo registro siempre produce el mismo hash.
func (s *DevSubmitter) SubmitTransferRecord(ctx context.Context, transferID, from, to string, itemsHash [32]byte) (*entity.LedgerReceipt, error) {
	payload := append([]byte(transferID+"|"+from+"|"+to+"|"), itemsHash[:]...)
	digest := crypto.Keccak256(payload)

	receipt := &entity.LedgerReceipt{
		TxHash:      "0x" + hex.EncodeToString(digest),
		BlockNumber: s.blockNumber.Add(1),
	}
	log.Info().
		Str("transfer_id", transferID).
		Str("tx_hash", receipt.TxHash).
		Int64("block_number", receipt.BlockNumber).
		Msg("receipt simulado (modo dev, sin nodo)")
	return receipt, nil
}
