package entity

// TransferItem línea de una transferencia: SKU y cantidad solicitada.
// Objeto de valor sin identidad propia; se conserva junto a la transferencia
// para poder acreditar destino en DELIVERED y revertir origen en CANCELLED.
type TransferItem struct {
	SKU string
	Qty int
}
