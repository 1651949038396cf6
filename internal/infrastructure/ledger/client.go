// Package ledger implementa el puerto LedgerSubmitter contra un nodo
// Ethereum-compatible vía JSON-RPC. Cada transferencia se ancla llamando
// requestTransfer en el contrato TransferLedger y esperando el receipt.
package ledger

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/SupplyChain-api/internal/application/transfer"
	"github.com/jhoicas/SupplyChain-api/internal/domain"
	"github.com/jhoicas/SupplyChain-api/internal/domain/entity"
	"github.com/jhoicas/SupplyChain-api/pkg/config"
)

var _ transfer.LedgerSubmitter = (*Client)(nil)

// nodeBackend subconjunto de ethclient.Client que usa el cliente.
// Permite inyectar un nodo falso en tests sin levantar un nodo real.
type nodeBackend interface {
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Client firma y difunde transacciones contra el contrato TransferLedger.
// El mutex serializa el tramo nonce→broadcast: dos envíos concurrentes con el
// mismo nonce pendiente harían que el nodo rechace el segundo.
type Client struct {
	backend  nodeBackend
	signer   types.Signer
	key      *ecdsa.PrivateKey
	from     common.Address
	contract common.Address

	gasPrice     *big.Int
	gasLimit     uint64
	pollInterval time.Duration
	pollAttempts int

	mu sync.Mutex
}

// NewClient conecta al nodo RPC y deriva la cuenta firmante de la llave privada.
// La llave nunca se loguea; los logs solo llevan la dirección derivada.
func NewClient(cfg config.ChainConfig) (*Client, error) {
	if !common.IsHexAddress(cfg.ContractAddress) {
		return nil, fmt.Errorf("dirección de contrato inválida: %q", cfg.ContractAddress)
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("llave privada del firmante: %w", err)
	}
	backend, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("conectar al nodo %s: %w", cfg.RPCURL, err)
	}

	from := crypto.PubkeyToAddress(key.PublicKey)
	log.Info().
		Str("rpc_url", cfg.RPCURL).
		Str("contract", cfg.ContractAddress).
		Str("signer", from.Hex()).
		Int64("chain_id", cfg.ChainID).
		Msg("cliente ledger conectado")

	return newClient(backend, key, cfg), nil
}

func newClient(backend nodeBackend, key *ecdsa.PrivateKey, cfg config.ChainConfig) *Client {
	return &Client{
		backend:      backend,
		signer:       types.NewEIP155Signer(big.NewInt(cfg.ChainID)),
		key:          key,
		from:         crypto.PubkeyToAddress(key.PublicKey),
		contract:     common.HexToAddress(cfg.ContractAddress),
		gasPrice:     big.NewInt(cfg.GasPrice),
		gasLimit:     cfg.GasLimit,
		pollInterval: time.Duration(cfg.PollIntervalMS) * time.Millisecond,
		pollAttempts: cfg.PollAttempts,
	}
}

// ContractAddress dirección del contrato destino, en formato checksum.
func (c *Client) ContractAddress() string {
	return c.contract.Hex()
}

// SubmitTransferRecord registra la transferencia on-chain y bloquea hasta que
// la tx sea minada o se agote el presupuesto de polling. Todo fallo sale como
// *domain.LedgerError con el flag Broadcast correcto.
func (c *Client) SubmitTransferRecord(ctx context.Context, transferID, from, to string, itemsHash [32]byte) (*entity.LedgerReceipt, error) {
	data, err := encodeRequestTransfer(transferID, from, to, itemsHash)
	if err != nil {
		return nil, &domain.LedgerError{Kind: domain.LedgerRejected, TransferID: transferID, Err: err}
	}

	signedTx, err := c.signAndBroadcast(ctx, transferID, data)
	if err != nil {
		return nil, err
	}
	txHash := signedTx.Hash()

	log.Info().
		Str("transfer_id", transferID).
		Str("tx_hash", txHash.Hex()).
		Msg("transacción difundida, esperando receipt")

	return c.waitForReceipt(ctx, transferID, txHash)
}

// signAndBroadcast ejecuta el tramo crítico nonce→firma→broadcast bajo el mutex.
func (c *Client) signAndBroadcast(ctx context.Context, transferID string, data []byte) (*types.Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	nonce, err := c.backend.PendingNonceAt(ctx, c.from)
	if err != nil {
		return nil, &domain.LedgerError{
			Kind: domain.LedgerNetwork, TransferID: transferID,
			Err: fmt.Errorf("obtener nonce pendiente: %w", err),
		}
	}

	tx := types.NewTransaction(nonce, c.contract, big.NewInt(0), c.gasLimit, c.gasPrice, data)
	signedTx, err := types.SignTx(tx, c.signer, c.key)
	if err != nil {
		return nil, &domain.LedgerError{
			Kind: domain.LedgerRejected, TransferID: transferID,
			Err: fmt.Errorf("firmar transacción: %w", err),
		}
	}

	if err := c.backend.SendTransaction(ctx, signedTx); err != nil {
		return nil, &domain.LedgerError{
			Kind: domain.LedgerRejected, TransferID: transferID,
			Err: fmt.Errorf("difundir transacción: %w", err),
		}
	}
	return signedTx, nil
}

// waitForReceipt consulta el receipt a intervalo fijo hasta agotar los intentos.
// A partir de aquí la tx ya fue difundida: todo error lleva Broadcast=true.
func (c *Client) waitForReceipt(ctx context.Context, transferID string, txHash common.Hash) (*entity.LedgerReceipt, error) {
	for attempt := 0; attempt < c.pollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, &domain.LedgerError{
				Kind: domain.LedgerTimeout, TransferID: transferID,
				TxHash: txHash.Hex(), Broadcast: true, Err: ctx.Err(),
			}
		case <-time.After(c.pollInterval):
		}

		receipt, err := c.backend.TransactionReceipt(ctx, txHash)
		if err != nil {
			if errors.Is(err, ethereum.NotFound) {
				continue // todavía no minada
			}
			return nil, &domain.LedgerError{
				Kind: domain.LedgerNetwork, TransferID: transferID,
				TxHash: txHash.Hex(), Broadcast: true,
				Err: fmt.Errorf("consultar receipt: %w", err),
			}
		}

		if receipt.Status != types.ReceiptStatusSuccessful {
			return nil, &domain.LedgerError{
				Kind: domain.LedgerReverted, TransferID: transferID,
				TxHash: txHash.Hex(), Broadcast: true,
				Err: fmt.Errorf("el contrato revirtió la transacción en el bloque %d", receipt.BlockNumber.Int64()),
			}
		}

		log.Info().
			Str("transfer_id", transferID).
			Str("tx_hash", txHash.Hex()).
			Int64("block_number", receipt.BlockNumber.Int64()).
			Msg("transferencia anclada on-chain")

		return &entity.LedgerReceipt{
			TxHash:      txHash.Hex(),
			BlockNumber: receipt.BlockNumber.Int64(),
		}, nil
	}

	return nil, &domain.LedgerError{
		Kind: domain.LedgerTimeout, TransferID: transferID,
		TxHash: txHash.Hex(), Broadcast: true,
		Err: fmt.Errorf("sin receipt tras %d intentos cada %s", c.pollAttempts, c.pollInterval),
	}
}
