// Package sheetstore implementa los repositorios de catálogo e historial
// sobre el puerto StorageAdapter (filas ordenadas de celdas string), con los
// esquemas de columna fijos del almacén tabular:
//
//	catálogo  (5):  item_name, category, quantity, project_id, last_updated
//	historial (12): date, time, operation, item_name, category, qty_added,
//	                qty_removed, previous_qty, current_qty, actor, project_id,
//	                details
//
// El decodificador es consciente de la versión del esquema: las filas del
// formato legado de 6 columnas se detectan por ancho/firma de encabezado y
// solo se convierten vía la migración explícita (migrate.go), nunca en el
// camino de mutación normal.
package sheetstore

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/domain/entity"
)

// Formatos de fecha/hora del almacén.
const (
	dateLayout     = "2006-01-02"
	timeLayout     = "15:04:05"
	datetimeLayout = "2006-01-02 15:04:05"
)

// Anchos de esquema.
const (
	catalogCols  = 5
	activityCols = 12
	legacyCols   = 6
)

// Encabezados canónicos. La primera celda sirve de firma para saltar la fila
// de encabezado al decodificar.
var (
	catalogHeader = []string{"Item Name", "Category", "Quantity", "Project ID", "Last Updated"}

	activityHeader = []string{
		"Date", "Time", "Operation", "Item Name", "Category",
		"Quantity Added", "Quantity Removed", "Previous Quantity", "Current Quantity",
		"Actor", "Project ID", "Details",
	}

	legacyHeader = []string{"Timestamp", "Operation", "Item", "Quantity", "Recipient", "Details"}
)

func isHeaderRow(row, header []string) bool {
	return len(row) > 0 && row[0] == header[0]
}

func encodeItemRow(it *entity.InventoryItem) []string {
	return []string{
		it.Name,
		it.Category,
		it.Quantity.String(),
		it.ProjectID,
		it.LastUpdated.Format(datetimeLayout),
	}
}

func decodeItemRow(row []string, idx int) (*entity.InventoryItem, error) {
	if len(row) < catalogCols {
		return nil, fmt.Errorf("fila %d del catálogo: %d columnas, se esperan %d", idx, len(row), catalogCols)
	}
	qty, err := decimal.NewFromString(row[2])
	if err != nil {
		return nil, fmt.Errorf("fila %d del catálogo: cantidad %q: %w", idx, row[2], err)
	}
	// last_updated es informativo; una celda vacía o ilegible no invalida la fila.
	updated, _ := time.Parse(datetimeLayout, row[4])
	return &entity.InventoryItem{
		Name:        row[0],
		Category:    row[1],
		Quantity:    qty,
		ProjectID:   row[3],
		LastUpdated: updated,
	}, nil
}

func encodeRecordRow(r *entity.ActivityRecord) []string {
	return []string{
		r.Date.Format(dateLayout),
		r.Time,
		r.Operation,
		r.ItemName,
		r.Category,
		r.Added.String(),
		r.Removed.String(),
		r.Previous.String(),
		r.Current.String(),
		r.Actor,
		r.ProjectID,
		r.Details,
	}
}

func decodeRecordRow(row []string, idx int) (entity.ActivityRecord, error) {
	var rec entity.ActivityRecord
	if len(row) < activityCols {
		return rec, fmt.Errorf("fila %d del historial: %d columnas, se esperan %d", idx, len(row), activityCols)
	}
	date, err := time.Parse(dateLayout, row[0])
	if err != nil {
		return rec, fmt.Errorf("fila %d del historial: fecha %q: %w", idx, row[0], err)
	}
	nums := make([]decimal.Decimal, 4)
	for i, cell := range row[5:9] {
		d, err := decimal.NewFromString(cell)
		if err != nil {
			return rec, fmt.Errorf("fila %d del historial: columna %d = %q: %w", idx, 5+i, cell, err)
		}
		nums[i] = d
	}
	rec = entity.ActivityRecord{
		Date:      date,
		Time:      row[1],
		Operation: row[2],
		ItemName:  row[3],
		Category:  row[4],
		Added:     nums[0],
		Removed:   nums[1],
		Previous:  nums[2],
		Current:   nums[3],
		Actor:     row[9],
		ProjectID: row[10],
		Details:   row[11],
	}
	return rec, nil
}
