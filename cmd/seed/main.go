// seed aplica el esquema base y carga inventario de ejemplo en dos bodegas.
// Es idempotente: el esquema usa IF NOT EXISTS y los datos ON CONFLICT DO NOTHING,
// se puede correr las veces que haga falta.
//
// Uso: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/SupplyChain-api/internal/infrastructure/postgres"
	"github.com/jhoicas/SupplyChain-api/pkg/config"
)

type seedRow struct {
	location    string
	sku         string
	productName string
	category    string
	quantity    int
	minStock    int
	unit        string
	price       string
}

var seedInventory = []seedRow{
	{"BOD-NORTE", "SKU-MOTOR-01", "Motor eléctrico 2HP", "motores", 40, 10, "units", "1250000.00"},
	{"BOD-NORTE", "SKU-BOMBA-02", "Bomba centrífuga 1\"", "bombas", 25, 8, "units", "830000.00"},
	{"BOD-NORTE", "SKU-FILTRO-03", "Filtro de aceite industrial", "filtros", 120, 30, "units", "45000.00"},
	{"BOD-NORTE", "SKU-CABLE-04", "Cable encauchetado 3x12", "eléctricos", 500, 100, "meters", "8500.00"},
	{"BOD-SUR", "SKU-MOTOR-01", "Motor eléctrico 2HP", "motores", 12, 10, "units", "1250000.00"},
	{"BOD-SUR", "SKU-FILTRO-03", "Filtro de aceite industrial", "filtros", 60, 30, "units", "45000.00"},
	{"BOD-SUR", "SKU-VALVULA-05", "Válvula de bola 2\"", "válvulas", 35, 15, "units", "210000.00"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conectar a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.ApplySchema(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "Aplicar esquema: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Esquema aplicado")

	query := `
		INSERT INTO inventory (location, sku, product_name, category, quantity, min_stock, unit, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (location, sku) DO NOTHING`
	inserted := 0
	for _, row := range seedInventory {
		cmd, err := pool.Exec(ctx, query,
			row.location, row.sku, row.productName, row.category,
			row.quantity, row.minStock, row.unit, row.price,
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Insertar %s/%s: %v\n", row.location, row.sku, err)
			os.Exit(1)
		}
		inserted += int(cmd.RowsAffected())
	}

	fmt.Printf("Inventario de ejemplo: %d filas nuevas de %d\n", inserted, len(seedInventory))
}
