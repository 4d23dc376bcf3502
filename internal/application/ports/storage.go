package ports

import "context"

// SheetRef identifica una hoja (pestaña) dentro del almacén tabular remoto.
type SheetRef string

// Range ubica una región rectangular de celdas, base cero.
type Range struct {
	StartRow int
	StartCol int
}

// RangeUpdate es una escritura de rango para BatchUpdate.
type RangeUpdate struct {
	Range  Range
	Values [][]string
}

// StorageAdapter define el puerto de salida hacia el almacén tabular
// (hoja de cálculo remota o su equivalente local). Cualquier adaptador
// (PostgreSQL, SQLite, memoria, cliente de la hoja remota) debe implementar
// este contrato; el core solo conoce filas ordenadas de celdas string.
//
// Toda llamada puede bloquear por latencia de red. Una falla se reporta
// envuelta en domain.ErrStorage; el reintento/backoff es responsabilidad del
// adaptador, nunca del core (para no aplicar una mutación dos veces).
type StorageAdapter interface {
	// ReadAllRows devuelve todas las filas de la hoja en orden, incluida la
	// fila de encabezado si existe.
	ReadAllRows(ctx context.Context, ref SheetRef) ([][]string, error)
	// AppendRow anexa una fila al final de la hoja.
	AppendRow(ctx context.Context, ref SheetRef, row []string) error
	// UpdateRange sobreescribe la región que empieza en rng con values.
	UpdateRange(ctx context.Context, ref SheetRef, rng Range, values [][]string) error
	// BatchUpdate aplica varias escrituras de rango como una sola unidad.
	BatchUpdate(ctx context.Context, ref SheetRef, updates []RangeUpdate) error
}
