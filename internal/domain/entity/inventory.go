package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Inventory representa el contador de stock de un SKU en una bodega (clave única location+sku).
// Quantity nunca puede quedar negativo: toda deducción es un update condicional en DB.
type Inventory struct {
	Location    string
	SKU         string
	ProductName string
	Category    string
	Quantity    int
	MinStock    int // umbral para señal de stock bajo
	Unit        string
	Price       decimal.Decimal
	LastUpdated time.Time
}

// IsLowStock reporta si el contador está en o por debajo del umbral mínimo.
func (i *Inventory) IsLowStock() bool {
	return i.Quantity <= i.MinStock
}

// HasStock reporta si hay existencias suficientes para la cantidad pedida.
func (i *Inventory) HasStock(requested int) bool {
	return i.Quantity >= requested
}
