package dto

// TransferItemDTO línea de la solicitud de transferencia.
type TransferItemDTO struct {
	SKU string `json:"sku"`
	Qty int    `json:"qty"`
}

// CreateTransferRequest solicitud de creación de transferencia.
// TransferID es opcional: si viene vacío el orquestador genera un UUID.
type CreateTransferRequest struct {
	TransferID   string            `json:"transferId"`
	FromLocation string            `json:"fromLocation"`
	ToLocation   string            `json:"toLocation"`
	Items        []TransferItemDTO `json:"items"`
}

// StatusUpdateRequest solicitud de cambio de estado post-creación.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// TransferResponse representación pública de una transferencia.
// TxHash y BlockNumber solo aparecen una vez confirmada; ErrorMessage solo en FAILED.
type TransferResponse struct {
	TransferID      string `json:"transferId"`
	FromLocation    string `json:"fromLocation"`
	ToLocation      string `json:"toLocation"`
	Status          string `json:"status"`
	ItemsHash       string `json:"itemsHash"`
	ContractAddress string `json:"contractAddress,omitempty"`
	TxHash          string `json:"txHash,omitempty"`
	BlockNumber     *int64 `json:"blockNumber,omitempty"`
	CreatedAt       string `json:"createdAt,omitempty"`
	ErrorMessage    string `json:"errorMessage,omitempty"`
}
