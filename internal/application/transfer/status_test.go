package transfer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/SupplyChain-api/internal/domain/entity"
)

func TestCanTransition_CaminoFeliz(t *testing.T) {
	// REQUESTED → CONFIRMED → IN_TRANSIT → DELIVERED
	assert.True(t, canTransition(entity.StatusRequested, entity.StatusConfirmed))
	assert.True(t, canTransition(entity.StatusConfirmed, entity.StatusInTransit))
	assert.True(t, canTransition(entity.StatusInTransit, entity.StatusDelivered))
}

func TestCanTransition_Cancelacion(t *testing.T) {
	assert.True(t, canTransition(entity.StatusConfirmed, entity.StatusCancelled))
	assert.True(t, canTransition(entity.StatusInTransit, entity.StatusCancelled))
	// Antes de confirmarse no hay nada que cancelar: REQUESTED solo va a CONFIRMED/FAILED
	assert.False(t, canTransition(entity.StatusRequested, entity.StatusCancelled))
}

func TestCanTransition_SinSaltosNiRetrocesos(t *testing.T) {
	// No se salta IN_TRANSIT
	assert.False(t, canTransition(entity.StatusConfirmed, entity.StatusDelivered))
	// No se retrocede
	assert.False(t, canTransition(entity.StatusInTransit, entity.StatusConfirmed))
	assert.False(t, canTransition(entity.StatusConfirmed, entity.StatusRequested))
}

func TestCanTransition_TerminalesSinSalida(t *testing.T) {
	terminals := []string{entity.StatusDelivered, entity.StatusCancelled, entity.StatusFailed}
	all := []string{
		entity.StatusRequested, entity.StatusConfirmed, entity.StatusInTransit,
		entity.StatusDelivered, entity.StatusCancelled, entity.StatusFailed,
	}
	for _, from := range terminals {
		assert.True(t, entity.IsTerminalStatus(from))
		for _, to := range all {
			assert.False(t, canTransition(from, to),
				"%s es terminal, no debe admitir %s", from, to)
		}
	}
}

func TestExternallySettable_SoloEstadosPosteriores(t *testing.T) {
	assert.True(t, externallySettable[entity.StatusInTransit])
	assert.True(t, externallySettable[entity.StatusDelivered])
	assert.True(t, externallySettable[entity.StatusCancelled])

	// CONFIRMED y FAILED los asigna el orquestador según el ledger
	assert.False(t, externallySettable[entity.StatusConfirmed])
	assert.False(t, externallySettable[entity.StatusFailed])
	assert.False(t, externallySettable[entity.StatusRequested])
}

func TestIsKnownStatus(t *testing.T) {
	assert.True(t, isKnownStatus(entity.StatusRequested))
	assert.True(t, isKnownStatus(entity.StatusFailed))
	assert.False(t, isKnownStatus("SHIPPED"))
	assert.False(t, isKnownStatus(""))
	assert.False(t, isKnownStatus("delivered"), "los estados son case-sensitive")
}
