package dto

import "github.com/shopspring/decimal"

// InventoryResponse representación pública de un contador de stock.
type InventoryResponse struct {
	Location    string          `json:"location"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"productName"`
	Category    string          `json:"category,omitempty"`
	Quantity    int             `json:"quantity"`
	MinStock    int             `json:"minStock"`
	Unit        string          `json:"unit"`
	Price       decimal.Decimal `json:"price"`
	LowStock    bool            `json:"lowStock"`
	LastUpdated string          `json:"lastUpdated,omitempty"`
}
