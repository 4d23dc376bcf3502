package sheetstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/application/ports"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/domain"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/domain/entity"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/domain/repository"
)

// ErrLegacySchema indica que el historial todavía contiene filas del formato
// legado de 6 columnas. El camino vivo no las convierte: hay que correr la
// migración (cmd/migratelog) una vez.
var ErrLegacySchema = errors.New("historial en formato legado de 6 columnas; ejecutar la migración")

var _ repository.ActivityLog = (*ActivityStore)(nil)

// ActivityStore implementación de ActivityLog sobre el StorageAdapter.
type ActivityStore struct {
	adapter ports.StorageAdapter
	ref     ports.SheetRef
}

// NewActivityStore construye el repositorio del historial sobre la hoja ref.
func NewActivityStore(adapter ports.StorageAdapter, ref ports.SheetRef) *ActivityStore {
	return &ActivityStore{adapter: adapter, ref: ref}
}

// Append anexa exactamente un registro al final del historial. Si la hoja
// está vacía escribe antes el encabezado canónico.
func (s *ActivityStore) Append(ctx context.Context, rec *entity.ActivityRecord) error {
	rows, err := s.adapter.ReadAllRows(ctx, s.ref)
	if err != nil {
		return domain.StorageErrorf("leer historial %q: %v", s.ref, err)
	}
	if len(rows) == 0 {
		if err := s.adapter.AppendRow(ctx, s.ref, activityHeader); err != nil {
			return domain.StorageErrorf("escribir encabezado del historial: %v", err)
		}
	}
	if err := s.adapter.AppendRow(ctx, s.ref, encodeRecordRow(rec)); err != nil {
		return domain.StorageErrorf("anexar registro al historial: %v", err)
	}
	return nil
}

// All materializa el historial completo en orden de inserción.
func (s *ActivityStore) All(ctx context.Context) ([]entity.ActivityRecord, error) {
	rows, err := s.adapter.ReadAllRows(ctx, s.ref)
	if err != nil {
		return nil, domain.StorageErrorf("leer historial %q: %v", s.ref, err)
	}
	out := make([]entity.ActivityRecord, 0, len(rows))
	for i, row := range rows {
		if i == 0 && (isHeaderRow(row, activityHeader) || isHeaderRow(row, legacyHeader)) {
			continue
		}
		if emptyRow(row) {
			continue
		}
		if len(row) == legacyCols {
			return nil, fmt.Errorf("fila %d: %w", i, ErrLegacySchema)
		}
		rec, err := decodeRecordRow(row, i)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
