package sheetstore

import (
	"context"

	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/application/ports"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/domain"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/domain/entity"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/domain/ledger"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/domain/repository"
)

var _ repository.ItemCatalog = (*CatalogStore)(nil)

// CatalogStore implementación de ItemCatalog sobre el StorageAdapter.
// Cada lectura materializa un snapshot completo de la hoja; el catálogo es
// chico y la latencia está dominada por la red, no por el volumen.
type CatalogStore struct {
	adapter ports.StorageAdapter
	ref     ports.SheetRef
}

// NewCatalogStore construye el repositorio del catálogo sobre la hoja ref.
func NewCatalogStore(adapter ports.StorageAdapter, ref ports.SheetRef) *CatalogStore {
	return &CatalogStore{adapter: adapter, ref: ref}
}

// snapshot lee todas las filas y decodifica las de datos, conservando el
// índice de fila original para poder escribir de vuelta en el lugar.
func (s *CatalogStore) snapshot(ctx context.Context) ([][]string, []int, []*entity.InventoryItem, error) {
	rows, err := s.adapter.ReadAllRows(ctx, s.ref)
	if err != nil {
		return nil, nil, nil, domain.StorageErrorf("leer catálogo %q: %v", s.ref, err)
	}
	var idxs []int
	var items []*entity.InventoryItem
	for i, row := range rows {
		if i == 0 && isHeaderRow(row, catalogHeader) {
			continue
		}
		if emptyRow(row) {
			continue
		}
		it, err := decodeItemRow(row, i)
		if err != nil {
			return nil, nil, nil, err
		}
		idxs = append(idxs, i)
		items = append(items, it)
	}
	return rows, idxs, items, nil
}

// Find resuelve la identidad (nombre normalizado, proyecto exacto).
func (s *CatalogStore) Find(ctx context.Context, ref entity.ItemRef) (*entity.InventoryItem, error) {
	_, _, items, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if ledger.SameName(it.Name, ref.Name) && it.ProjectID == ref.ProjectID {
			return it, nil
		}
	}
	return nil, &domain.NotFoundError{Item: ref.Name, ProjectID: ref.ProjectID}
}

// FindByName devuelve la primera fila con ese nombre en cualquier proyecto.
func (s *CatalogStore) FindByName(ctx context.Context, name string) (*entity.InventoryItem, error) {
	_, _, items, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if ledger.SameName(it.Name, name) {
			return it, nil
		}
	}
	return nil, &domain.NotFoundError{Item: name, ProjectID: "*"}
}

// List devuelve las filas del catálogo; con projectID vacío, todas.
func (s *CatalogStore) List(ctx context.Context, projectID string) ([]entity.InventoryItem, error) {
	_, _, items, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.InventoryItem, 0, len(items))
	for _, it := range items {
		if projectID == "" || it.ProjectID == projectID {
			out = append(out, *it)
		}
	}
	return out, nil
}

// Upsert sobreescribe la fila con la misma identidad, o anexa una nueva.
// Lectura-cómputo-escritura optimista: entre el snapshot y el write otra
// instancia pudo haber escrito; gana la última escritura.
func (s *CatalogStore) Upsert(ctx context.Context, item *entity.InventoryItem) error {
	rows, idxs, items, err := s.snapshot(ctx)
	if err != nil {
		return err
	}
	encoded := encodeItemRow(item)
	for n, it := range items {
		if ledger.SameName(it.Name, item.Name) && it.ProjectID == item.ProjectID {
			rng := ports.Range{StartRow: idxs[n], StartCol: 0}
			if err := s.adapter.UpdateRange(ctx, s.ref, rng, [][]string{encoded}); err != nil {
				return domain.StorageErrorf("actualizar fila %d del catálogo: %v", idxs[n], err)
			}
			return nil
		}
	}
	// Hoja vacía y sin encabezado: escribirlo antes de la primera fila de datos.
	if len(rows) == 0 {
		if err := s.adapter.AppendRow(ctx, s.ref, catalogHeader); err != nil {
			return domain.StorageErrorf("escribir encabezado del catálogo: %v", err)
		}
	}
	if err := s.adapter.AppendRow(ctx, s.ref, encoded); err != nil {
		return domain.StorageErrorf("anexar fila al catálogo: %v", err)
	}
	return nil
}

// Delete quita la fila reescribiendo la cola de la hoja corrida una posición
// hacia arriba y dejando en blanco la última fila (el adaptador no tiene
// operación de borrado de fila).
func (s *CatalogStore) Delete(ctx context.Context, ref entity.ItemRef) error {
	rows, idxs, items, err := s.snapshot(ctx)
	if err != nil {
		return err
	}
	target := -1
	for n, it := range items {
		if ledger.SameName(it.Name, ref.Name) && it.ProjectID == ref.ProjectID {
			target = idxs[n]
			break
		}
	}
	if target < 0 {
		return &domain.NotFoundError{Item: ref.Name, ProjectID: ref.ProjectID}
	}
	var tail [][]string
	for _, row := range rows[target+1:] {
		tail = append(tail, row)
	}
	tail = append(tail, make([]string, catalogCols))
	update := []ports.RangeUpdate{{
		Range:  ports.Range{StartRow: target, StartCol: 0},
		Values: tail,
	}}
	if err := s.adapter.BatchUpdate(ctx, s.ref, update); err != nil {
		return domain.StorageErrorf("borrar fila %d del catálogo: %v", target, err)
	}
	return nil
}

func emptyRow(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
