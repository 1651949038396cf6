package transfer

import "github.com/jhoicas/SupplyChain-api/internal/domain/entity"

// Tabla de transiciones de la máquina de estados. REQUESTED solo avanza a
// CONFIRMED o FAILED (lo decide el orquestador según el ledger); el resto del
// ciclo lo manejan actualizaciones externas. No se salta estados ni se
// retrocede, y los terminales no se reentran.
var validTransitions = map[string][]string{
	entity.StatusRequested: {entity.StatusConfirmed, entity.StatusFailed},
	entity.StatusConfirmed: {entity.StatusInTransit, entity.StatusCancelled},
	entity.StatusInTransit: {entity.StatusDelivered, entity.StatusCancelled},
	// DELIVERED, CANCELLED y FAILED son terminales: sin entradas.
}

// Estados que un actor externo puede solicitar vía updateStatus.
// CONFIRMED y FAILED son internos del orquestador.
var externallySettable = map[string]bool{
	entity.StatusInTransit: true,
	entity.StatusDelivered: true,
	entity.StatusCancelled: true,
}

// isKnownStatus reporta si el string corresponde a un estado del ciclo de vida.
func isKnownStatus(status string) bool {
	switch status {
	case entity.StatusRequested, entity.StatusConfirmed, entity.StatusInTransit,
		entity.StatusDelivered, entity.StatusCancelled, entity.StatusFailed:
		return true
	}
	return false
}

// canTransition reporta si el cambio current → next está en la tabla.
func canTransition(current, next string) bool {
	for _, allowed := range validTransitions[current] {
		if allowed == next {
			return true
		}
	}
	return false
}
