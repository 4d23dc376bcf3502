package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de operación del libro de actividades.
const (
	OpAdd      = "Add"      // entrada de stock (ítem nuevo)
	OpEdit     = "Edit"     // ajuste manual de cantidad o merge sobre ítem existente
	OpDispense = "Dispense" // salida hacia un destinatario
	OpRemove   = "Remove"   // baja definitiva del catálogo
)

// ValidOperation indica si s es uno de los tipos de operación canónicos.
func ValidOperation(s string) bool {
	switch s {
	case OpAdd, OpEdit, OpDispense, OpRemove:
		return true
	}
	return false
}

// ActivityRecord es una entrada inmutable del historial. Una vez anexada
// nunca se reescribe ni se reordena.
//
// Invariante: Current = Previous + Added - Removed. Para Add y Dispense
// exactamente uno de Added/Removed es distinto de cero; Edit puede producir
// cualquiera de los dos (incluso ambos en cero); Remove deja Removed igual al
// saldo final y Current en cero.
type ActivityRecord struct {
	Date      time.Time // solo la parte fecha es significativa
	Time      string    // HH:MM:SS
	Operation string
	ItemName  string
	Category  string
	Added     decimal.Decimal
	Removed   decimal.Decimal
	Previous  decimal.Decimal
	Current   decimal.Decimal
	Actor     string // usuario que operó; el destinatario de una salida va en Details
	ProjectID string
	Details   string
}

// Consistent verifica el invariante aritmético del registro.
func (r ActivityRecord) Consistent() bool {
	return r.Current.Equal(r.Previous.Add(r.Added).Sub(r.Removed))
}
