package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas). Toda falla del motor
// pertenece a exactamente una de estas clases; los wrappers con detalle de
// abajo responden errors.Is contra su centinela.
var (
	ErrValidation        = errors.New("entrada inválida")
	ErrNotFound          = errors.New("ítem no encontrado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrConsistency       = errors.New("inconsistencia aritmética del saldo")
	ErrStorage           = errors.New("error de almacenamiento")
	ErrUnauthorized      = errors.New("no autorizado")
)

// ValidationError detalla qué campo fue rechazado y por qué, para que el
// llamador pueda corregir la entrada.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("entrada inválida: campo %q: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Validationf construye un ValidationError con formato.
func Validationf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// InsufficientStockError lleva la cantidad pedida y la disponible.
type InsufficientStockError struct {
	Item      string
	ProjectID string
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %q (proyecto %s): pedido %s, disponible %s",
		e.Item, e.ProjectID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// NotFoundError identifica la referencia que no existe en el catálogo.
type NotFoundError struct {
	Item      string
	ProjectID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("ítem %q no existe en el proyecto %s", e.Item, e.ProjectID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// StorageErrorf envuelve una falla del adaptador de almacenamiento.
// La operación que la disparó se considera no aplicada; el core nunca
// reintenta por su cuenta.
func StorageErrorf(format string, args ...any) error {
	args = append(args, ErrStorage)
	return fmt.Errorf(format+": %w", args...)
}
