package sheetdb

import (
	"context"
	"sync"

	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/application/ports"
)

var _ ports.StorageAdapter = (*MemoryStore)(nil)

// MemoryStore adaptador de almacenamiento en memoria. Sirve para tests y
// para el driver "memory" (estado volátil, útil en demos).
type MemoryStore struct {
	mu     sync.RWMutex
	sheets map[ports.SheetRef][][]string
}

// NewMemoryStore construye un almacén vacío.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sheets: map[ports.SheetRef][][]string{}}
}

// Seed reemplaza el contenido de una hoja (solo para tests/arranque).
func (m *MemoryStore) Seed(ref ports.SheetRef, rows [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([][]string, len(rows))
	for i, r := range rows {
		cp[i] = append([]string(nil), r...)
	}
	m.sheets[ref] = cp
}

// ReadAllRows devuelve una copia de las filas de la hoja en orden.
func (m *MemoryStore) ReadAllRows(_ context.Context, ref ports.SheetRef) ([][]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows := m.sheets[ref]
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out, nil
}

// AppendRow anexa una fila al final de la hoja.
func (m *MemoryStore) AppendRow(_ context.Context, ref ports.SheetRef, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sheets[ref] = append(m.sheets[ref], append([]string(nil), row...))
	return nil
}

// UpdateRange sobreescribe la región que empieza en rng, extendiendo la hoja
// con filas vacías si hace falta.
func (m *MemoryStore) UpdateRange(_ context.Context, ref ports.SheetRef, rng ports.Range, values [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applyLocked(ref, rng, values)
	return nil
}

// BatchUpdate aplica varias escrituras bajo el mismo lock.
func (m *MemoryStore) BatchUpdate(_ context.Context, ref ports.SheetRef, updates []ports.RangeUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range updates {
		m.applyLocked(ref, u.Range, u.Values)
	}
	return nil
}

func (m *MemoryStore) applyLocked(ref ports.SheetRef, rng ports.Range, values [][]string) {
	rows := m.sheets[ref]
	for i, vals := range values {
		idx := rng.StartRow + i
		for len(rows) <= idx {
			rows = append(rows, nil)
		}
		rows[idx] = mergeCells(rows[idx], rng.StartCol, vals)
	}
	m.sheets[ref] = rows
}
