package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas). Los tipos estructurados de abajo
// los envuelven vía Is() para que los handlers puedan clasificar con errors.Is y
// extraer contexto con errors.As.
var (
	ErrNotFound          = errors.New("transferencia no encontrada")
	ErrAlreadyExists     = errors.New("la transferencia ya existe")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidTransition = errors.New("transición de estado inválida")
	ErrLedger            = errors.New("error del ledger blockchain")
)

// ValidationError entrada malformada (SKU duplicado, cantidad no positiva, etc.).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// InsufficientStockError stock insuficiente en la bodega origen para un SKU.
// Lleva el contexto completo para que el caller arme un mensaje accionable.
type InsufficientStockError struct {
	Location  string
	SKU       string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente en %s para %s: solicitado %d, disponible %d",
		e.Location, e.SKU, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// InvalidTransitionError transición no permitida por la máquina de estados.
type InvalidTransitionError struct {
	TransferID string
	Current    string
	Requested  string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("transición inválida de %s a %s (transferencia %s)",
		e.Current, e.Requested, e.TransferID)
}

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// LedgerErrorKind clasifica en qué falló la interacción con el nodo blockchain.
type LedgerErrorKind string

const (
	// LedgerNetwork fallo de comunicación RPC (reintentable según política del caller).
	LedgerNetwork LedgerErrorKind = "network"
	// LedgerRejected el nodo rechazó el broadcast (tx malformada, fondos, nonce).
	LedgerRejected LedgerErrorKind = "rejected"
	// LedgerReverted la tx fue minada pero la operación del contrato falló on-chain.
	LedgerReverted LedgerErrorKind = "reverted"
	// LedgerTimeout no llegó receipt dentro del presupuesto de polling; la tx
	// puede confirmarse después, requiere conciliación manual.
	LedgerTimeout LedgerErrorKind = "timeout"
)

// LedgerError fallo en alguna etapa del ciclo nonce/firma/broadcast/polling.
// Broadcast indica si la transacción ya fue difundida a la red: con Broadcast
// true el resultado es ambiguo y el registro local debe quedar en REQUESTED
// para conciliación, nunca reintentarse a ciegas.
type LedgerError struct {
	Kind       LedgerErrorKind
	TransferID string
	TxHash     string // vacío si el fallo fue antes del broadcast
	Broadcast  bool
	Err        error
}

func (e *LedgerError) Error() string {
	if e.TxHash != "" {
		return fmt.Sprintf("ledger %s (transferencia %s, tx %s): %v", e.Kind, e.TransferID, e.TxHash, e.Err)
	}
	return fmt.Sprintf("ledger %s (transferencia %s): %v", e.Kind, e.TransferID, e.Err)
}

func (e *LedgerError) Is(target error) bool { return target == ErrLedger }

func (e *LedgerError) Unwrap() error { return e.Err }

// Definitive reporta si el desenlace es definitivo (rechazo o revert): la
// transferencia puede marcarse FAILED sin riesgo de doble registro on-chain.
func (e *LedgerError) Definitive() bool {
	switch e.Kind {
	case LedgerRejected, LedgerReverted:
		return true
	}
	return !e.Broadcast
}
