package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/SupplyChain-api/internal/domain"
	"github.com/jhoicas/SupplyChain-api/pkg/config"
)

// stubBackend nodo falso: el nonce pendiente avanza con cada broadcast
// aceptado, como lo haría el mempool de un nodo real.
type stubBackend struct {
	mu    sync.Mutex
	nonce uint64
	sent  []*types.Transaction

	nonceErr   error
	sendErr    error
	receiptErr error
	// receipt disponible a partir de este número de consulta (1-based); 0 = nunca
	receiptAfter int
	receiptOK    bool
	calls        int
}

func (b *stubBackend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.nonceErr != nil {
		return 0, b.nonceErr
	}
	return b.nonce, nil
}

func (b *stubBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sendErr != nil {
		return b.sendErr
	}
	if tx.Nonce() != b.nonce {
		return fmt.Errorf("nonce inesperado %d, se esperaba %d", tx.Nonce(), b.nonce)
	}
	b.nonce++
	b.sent = append(b.sent, tx)
	return nil
}

func (b *stubBackend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.receiptErr != nil {
		return nil, b.receiptErr
	}
	b.calls++
	if b.receiptAfter == 0 || b.calls < b.receiptAfter {
		return nil, ethereum.NotFound
	}
	status := types.ReceiptStatusFailed
	if b.receiptOK {
		status = types.ReceiptStatusSuccessful
	}
	return &types.Receipt{Status: status, BlockNumber: big.NewInt(7)}, nil
}

func testChainConfig() config.ChainConfig {
	return config.ChainConfig{
		ContractAddress: "0x5FbDB2315678afecb367f032d93F642f64180aa3",
		ChainID:         31337,
		GasPrice:        20_000_000_000,
		GasLimit:        3_000_000,
		PollIntervalMS:  1, // acelerar los tests
		PollAttempts:    5,
	}
}

func testClient(t *testing.T, backend nodeBackend) *Client {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return newClient(backend, key, testChainConfig())
}

var testHash = [32]byte{0xab, 0xcd}

func TestSubmit_ReceiptExitoso(t *testing.T) {
	backend := &stubBackend{receiptAfter: 2, receiptOK: true}
	c := testClient(t, backend)

	receipt, err := c.SubmitTransferRecord(context.Background(), "TRF-001", "BOD-NORTE", "BOD-SUR", testHash)
	require.NoError(t, err)
	require.NotNil(t, receipt)

	assert.Regexp(t, `^0x[0-9a-f]{64}$`, receipt.TxHash)
	assert.Equal(t, int64(7), receipt.BlockNumber)
	require.Len(t, backend.sent, 1)
	assert.Equal(t, uint64(3_000_000), backend.sent[0].Gas())
}

func TestSubmit_FalloDeNonceEsPreBroadcast(t *testing.T) {
	backend := &stubBackend{nonceErr: errors.New("connection refused")}
	c := testClient(t, backend)

	_, err := c.SubmitTransferRecord(context.Background(), "TRF-002", "A", "B", testHash)
	require.Error(t, err)

	var lerr *domain.LedgerError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, domain.LedgerNetwork, lerr.Kind)
	assert.False(t, lerr.Broadcast)
	assert.True(t, lerr.Definitive(), "un fallo antes del broadcast es definitivo")
	assert.Empty(t, lerr.TxHash)
}

func TestSubmit_RechazoDelNodo(t *testing.T) {
	backend := &stubBackend{sendErr: errors.New("insufficient funds for gas")}
	c := testClient(t, backend)

	_, err := c.SubmitTransferRecord(context.Background(), "TRF-003", "A", "B", testHash)

	var lerr *domain.LedgerError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, domain.LedgerRejected, lerr.Kind)
	assert.False(t, lerr.Broadcast)
	assert.True(t, lerr.Definitive())
}

func TestSubmit_TransaccionRevertida(t *testing.T) {
	backend := &stubBackend{receiptAfter: 1, receiptOK: false}
	c := testClient(t, backend)

	_, err := c.SubmitTransferRecord(context.Background(), "TRF-004", "A", "B", testHash)

	var lerr *domain.LedgerError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, domain.LedgerReverted, lerr.Kind)
	assert.True(t, lerr.Broadcast)
	assert.True(t, lerr.Definitive(), "un revert minado es definitivo")
	assert.NotEmpty(t, lerr.TxHash)
}

func TestSubmit_TimeoutDePollingQuedaAmbiguo(t *testing.T) {
	backend := &stubBackend{receiptAfter: 0} // el receipt nunca aparece
	c := testClient(t, backend)

	_, err := c.SubmitTransferRecord(context.Background(), "TRF-005", "A", "B", testHash)

	var lerr *domain.LedgerError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, domain.LedgerTimeout, lerr.Kind)
	assert.True(t, lerr.Broadcast)
	assert.False(t, lerr.Definitive(),
		"tras el broadcast un timeout es ambiguo: la tx puede confirmarse después")
	assert.Equal(t, 5, backend.calls, "debe agotar el presupuesto de intentos")
}

func TestSubmit_ErrorRPCPostBroadcast(t *testing.T) {
	backend := &stubBackend{}
	c := testClient(t, backend)
	// El broadcast pasa; la consulta de receipt falla con un error que no es NotFound
	backend.receiptErr = errors.New("EOF")

	_, err := c.SubmitTransferRecord(context.Background(), "TRF-006", "A", "B", testHash)

	var lerr *domain.LedgerError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, domain.LedgerNetwork, lerr.Kind)
	assert.True(t, lerr.Broadcast)
	assert.False(t, lerr.Definitive())
}

func TestSubmit_EnviosConcurrentesSerializanElNonce(t *testing.T) {
	backend := &stubBackend{receiptAfter: 1, receiptOK: true}
	c := testClient(t, backend)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.SubmitTransferRecord(context.Background(),
				fmt.Sprintf("TRF-C%02d", i), "A", "B", testHash)
		}(i)
	}
	wg.Wait()

	// El stub rechaza cualquier nonce repetido o fuera de orden: si los 8
	// envíos pasaron, el tramo nonce→broadcast quedó serializado.
	for i, err := range errs {
		assert.NoError(t, err, "envío %d", i)
	}
	require.Len(t, backend.sent, n)
	seen := make(map[uint64]bool)
	for _, tx := range backend.sent {
		assert.False(t, seen[tx.Nonce()], "nonce %d repetido", tx.Nonce())
		seen[tx.Nonce()] = true
	}
}

func TestSubmit_CancelacionDeContexto(t *testing.T) {
	backend := &stubBackend{receiptAfter: 0}
	c := testClient(t, backend)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.SubmitTransferRecord(ctx, "TRF-007", "A", "B", testHash)

	var lerr *domain.LedgerError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, domain.LedgerTimeout, lerr.Kind)
	assert.True(t, lerr.Broadcast)
}

func TestDevSubmitter_ReceiptDeterminista(t *testing.T) {
	s := NewDevSubmitter("0x5FbDB2315678afecb367f032d93F642f64180aa3")

	r1, err := s.SubmitTransferRecord(context.Background(), "TRF-DEV", "A", "B", testHash)
	require.NoError(t, err)
	r2, err := s.SubmitTransferRecord(context.Background(), "TRF-DEV", "A", "B", testHash)
	require.NoError(t, err)

	assert.Equal(t, r1.TxHash, r2.TxHash, "mismo registro, mismo hash simulado")
	assert.Greater(t, r2.BlockNumber, r1.BlockNumber)
	assert.Regexp(t, `^0x[0-9a-f]{64}$`, r1.TxHash)
}

func TestEncodeRequestTransfer_SelectorYLargo(t *testing.T) {
	data, err := encodeRequestTransfer("TRF-001", "BOD-NORTE", "BOD-SUR", testHash)
	require.NoError(t, err)

	selector := crypto.Keccak256([]byte("requestTransfer(string,string,string,bytes32)"))[:4]
	assert.Equal(t, selector, data[:4])
	// 3 offsets + bytes32 + 3 strings con padding: siempre múltiplo de 32 tras el selector
	assert.Equal(t, 0, (len(data)-4)%32)
}
