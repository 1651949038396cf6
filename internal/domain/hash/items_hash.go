// Package hash: cálculo del compromiso (itemsHash) de una transferencia.
// JSON canónico de los items ordenado por SKU, claves en orden lexicográfico,
// algoritmo Keccak-256. El digest ancla la transferencia on-chain: el mismo
// conjunto de items en cualquier orden de envío produce exactamente el mismo hash.
package hash

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"golang.org/x/crypto/sha3"

	"github.com/jhoicas/SupplyChain-api/internal/domain"
	"github.com/jhoicas/SupplyChain-api/internal/domain/entity"
)

// HashLength largo del digest renderizado: "0x" + 64 hex.
const HashLength = 66

// canonicalItem replica la forma canónica {"qty":N,"sku":"S"}:
// el orden de los campos del struct fija el orden lexicográfico de las claves.
type canonicalItem struct {
	Qty int    `json:"qty"`
	SKU string `json:"sku"`
}

// ItemsHasher calcula el compromiso criptográfico de los items de una transferencia.
// Sin estado; seguro para uso concurrente.
type ItemsHasher struct{}

// NewItemsHasher crea el servicio.
func NewItemsHasher() *ItemsHasher {
	return &ItemsHasher{}
}

// Compute genera el itemsHash (hex con prefijo 0x) a partir de la lista de items.
// Pasos: validar (lista no vacía, SKUs únicos, qty >= 1) → ordenar por SKU
// (comparación byte a byte) → serializar JSON canónico UTF-8 → Keccak-256.
func (h *ItemsHasher) Compute(items []entity.TransferItem) (string, error) {
	canonical, err := canonicalize(items)
	if err != nil {
		return "", err
	}

	d := sha3.NewLegacyKeccak256()
	d.Write(canonical)
	return "0x" + hex.EncodeToString(d.Sum(nil)), nil
}

// ToBytes32 convierte el hash hex (con o sin prefijo 0x) a los 32 bytes que
// espera el parámetro bytes32 del contrato.
func (h *ItemsHasher) ToBytes32(itemsHash string) ([32]byte, error) {
	var out [32]byte
	clean := itemsHash
	if len(clean) >= 2 && clean[0:2] == "0x" {
		clean = clean[2:]
	}
	if len(clean) != 64 {
		return out, &domain.ValidationError{
			Field:   "itemsHash",
			Message: fmt.Sprintf("debe tener 64 caracteres hex (32 bytes), tiene %d", len(clean)),
		}
	}
	raw, err := hex.DecodeString(clean)
	if err != nil {
		return out, &domain.ValidationError{Field: "itemsHash", Message: "hex inválido"}
	}
	copy(out[:], raw)
	return out, nil
}

// canonicalize valida y serializa los items en su forma canónica.
func canonicalize(items []entity.TransferItem) ([]byte, error) {
	if len(items) == 0 {
		return nil, &domain.ValidationError{Field: "items", Message: "la lista de items no puede estar vacía"}
	}

	seen := make(map[string]struct{}, len(items))
	canonical := make([]canonicalItem, 0, len(items))
	for _, it := range items {
		if it.SKU == "" {
			return nil, &domain.ValidationError{Field: "sku", Message: "el SKU es obligatorio"}
		}
		if it.Qty < 1 {
			return nil, &domain.ValidationError{
				Field:   "qty",
				Message: fmt.Sprintf("la cantidad de %s debe ser al menos 1", it.SKU),
			}
		}
		if _, dup := seen[it.SKU]; dup {
			return nil, &domain.ValidationError{
				Field:   "sku",
				Message: fmt.Sprintf("SKU duplicado en la solicitud: %s", it.SKU),
			}
		}
		seen[it.SKU] = struct{}{}
		canonical = append(canonical, canonicalItem{Qty: it.Qty, SKU: it.SKU})
	}

	// Orden byte a byte por SKU: independiza el hash del orden de envío
	sort.Slice(canonical, func(i, j int) bool { return canonical[i].SKU < canonical[j].SKU })

	// Encoder sin escape HTML: <,>,& van literales para que cualquier
	// verificador externo reconstruya el mismo JSON byte a byte
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(canonical); err != nil {
		return nil, fmt.Errorf("serializar items canónicos: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
