package hash_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/SupplyChain-api/internal/domain"
	"github.com/jhoicas/SupplyChain-api/internal/domain/entity"
	"github.com/jhoicas/SupplyChain-api/internal/domain/hash"
)

// ──────────────────────────────────────────────────────────────────────────────
// El itemsHash es el compromiso que queda anclado on-chain: si cambia el
// algoritmo de canonicalización (orden de items, orden de claves, formato)
// las transferencias ya registradas dejan de ser verificables. Estos tests
// fijan la propiedad central: mismo conjunto de items ⇒ mismo digest,
// cualquier diferencia ⇒ digest distinto.
// ──────────────────────────────────────────────────────────────────────────────

var hexPattern = regexp.MustCompile(`^0x[0-9a-f]{64}$`)

func baseItems() []entity.TransferItem {
	return []entity.TransferItem{
		{SKU: "SKU-MOTOR-01", Qty: 5},
		{SKU: "SKU-BOMBA-02", Qty: 3},
		{SKU: "SKU-FILTRO-03", Qty: 12},
	}
}

func TestCompute_FormatoHex(t *testing.T) {
	h := hash.NewItemsHasher()

	digest, err := h.Compute(baseItems())
	require.NoError(t, err)
	assert.Regexp(t, hexPattern, digest,
		"el digest debe ser 0x + 64 hex en minúsculas")
	assert.Len(t, digest, hash.HashLength)
}

func TestCompute_IndependienteDelOrden(t *testing.T) {
	h := hash.NewItemsHasher()

	// Todas las permutaciones de los 3 items deben producir el mismo digest
	items := baseItems()
	perms := [][]int{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}

	reference, err := h.Compute(items)
	require.NoError(t, err)

	for _, p := range perms {
		permuted := []entity.TransferItem{items[p[0]], items[p[1]], items[p[2]]}
		digest, err := h.Compute(permuted)
		require.NoError(t, err)
		assert.Equal(t, reference, digest,
			"la permutación %v debe producir el mismo digest", p)
	}
}

func TestCompute_Determinista(t *testing.T) {
	h := hash.NewItemsHasher()

	d1, err1 := h.Compute(baseItems())
	d2, err2 := h.Compute(baseItems())
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, d1, d2)
}

func TestCompute_CantidadDistintaCambiaDigest(t *testing.T) {
	h := hash.NewItemsHasher()

	items := baseItems()
	reference, _ := h.Compute(items)

	modified := baseItems()
	modified[1].Qty++

	digest, err := h.Compute(modified)
	require.NoError(t, err)
	assert.NotEqual(t, reference, digest,
		"cambiar una cantidad debe cambiar el digest")
}

func TestCompute_SKUDistintoCambiaDigest(t *testing.T) {
	h := hash.NewItemsHasher()

	reference, _ := h.Compute(baseItems())

	modified := baseItems()
	modified[0].SKU = "SKU-MOTOR-99"

	digest, err := h.Compute(modified)
	require.NoError(t, err)
	assert.NotEqual(t, reference, digest)
}

func TestCompute_ItemExtraCambiaDigest(t *testing.T) {
	h := hash.NewItemsHasher()

	reference, _ := h.Compute(baseItems())

	extended := append(baseItems(), entity.TransferItem{SKU: "SKU-EXTRA-04", Qty: 1})
	digest, err := h.Compute(extended)
	require.NoError(t, err)
	assert.NotEqual(t, reference, digest,
		"agregar un item debe cambiar el digest")
}

// ── Errores de validación ─────────────────────────────────────────────────────

func TestCompute_ErrorListaVacia(t *testing.T) {
	h := hash.NewItemsHasher()
	_, err := h.Compute(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCompute_ErrorSKUDuplicado(t *testing.T) {
	h := hash.NewItemsHasher()
	_, err := h.Compute([]entity.TransferItem{
		{SKU: "SKU-A", Qty: 1},
		{SKU: "SKU-A", Qty: 2},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCompute_ErrorCantidadNoPositiva(t *testing.T) {
	h := hash.NewItemsHasher()

	_, err := h.Compute([]entity.TransferItem{{SKU: "SKU-A", Qty: 0}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = h.Compute([]entity.TransferItem{{SKU: "SKU-A", Qty: -3}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── ToBytes32 ─────────────────────────────────────────────────────────────────

func TestToBytes32_RoundTrip(t *testing.T) {
	h := hash.NewItemsHasher()

	digest, err := h.Compute(baseItems())
	require.NoError(t, err)

	raw, err := h.ToBytes32(digest)
	require.NoError(t, err)

	// Los 32 bytes deben corresponder exactamente al hex sin el prefijo
	assert.Equal(t, digest[2:], hexString(raw))
}

func TestToBytes32_AceptaSinPrefijo(t *testing.T) {
	h := hash.NewItemsHasher()

	digest, _ := h.Compute(baseItems())
	withPrefix, err1 := h.ToBytes32(digest)
	withoutPrefix, err2 := h.ToBytes32(digest[2:])

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, withPrefix, withoutPrefix)
}

func TestToBytes32_ErrorLargoInvalido(t *testing.T) {
	h := hash.NewItemsHasher()
	_, err := h.ToBytes32("0xabc123")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestToBytes32_ErrorHexInvalido(t *testing.T) {
	h := hash.NewItemsHasher()
	_, err := h.ToBytes32("0x" + string(make([]byte, 64))) // 64 bytes nulos: no es hex
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func hexString(b [32]byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, 0, 64)
	for _, v := range b {
		out = append(out, digits[v>>4], digits[v&0x0f])
	}
	return string(out)
}
