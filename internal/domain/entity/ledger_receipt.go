package entity

// LedgerReceipt confirmación del ledger para una transacción minada con éxito.
type LedgerReceipt struct {
	TxHash      string
	BlockNumber int64
}
