package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// FilterAll es el valor centinela "sin restricción" para campos de filtro.
// El valor vacío se interpreta igual.
const FilterAll = "all"

// Filter especifica los predicados de una consulta sobre el historial.
// Todos los campos provistos se combinan con AND; un campo vacío o con el
// centinela FilterAll no impone restricción.
type Filter struct {
	DateFrom  *time.Time // inclusive
	DateTo    *time.Time // inclusive
	Operation string     // igualdad exacta contra el enum de operaciones
	ItemName  string     // substring, sin distinguir mayúsculas
	Category  string     // substring, sin distinguir mayúsculas
	Actor     string     // substring, sin distinguir mayúsculas
	ProjectID string     // igualdad exacta
}

// Principal identifica al llamador de una consulta. Los llamadores
// restringidos (no administradores) reciben predicados de alcance
// obligatorios que no pueden quitar.
type Principal struct {
	Actor     string
	ProjectID string
	Admin     bool
}

// FilterResult subsecuencia filtrada del historial más sus agregados.
// Derivado, nunca se persiste.
type FilterResult struct {
	Records []ActivityRecord

	TotalAdded      decimal.Decimal
	TotalRemoved    decimal.Decimal
	Net             decimal.Decimal // TotalAdded - TotalRemoved
	CountByOp       map[string]int
	Categories      []string // distintas, ordenadas
	Projects        []string // distintos, ordenados
	FirstDate       *time.Time
	LastDate        *time.Time
	EfficiencyIndex decimal.Decimal // (altas / max(salidas,1)) * 100
}
