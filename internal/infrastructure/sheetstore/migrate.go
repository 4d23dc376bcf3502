package sheetstore

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/domain/entity"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/domain/ledger"
)

// CategoryResolver re-deriva la categoría de un ítem durante la migración
// (típicamente: consulta al catálogo y, si no está, clasificador por
// palabras clave).
type CategoryResolver func(itemName string) string

// Patrones reconocidos en el texto libre legado.
var (
	// "from 100 to 150" — recupera cantidades estructuradas de ediciones.
	fromToRe = regexp.MustCompile(`(?i)\bfrom\s+([0-9]+(?:\.[0-9]+)?)\s+to\s+([0-9]+(?:\.[0-9]+)?)`)

	// Token de proyecto: "project: P1", "project P1", o una etiqueta "[P1]".
	projectRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bproject\s*[:=#]?\s*([A-Za-z0-9._-]+)`),
		regexp.MustCompile(`\[([A-Za-z0-9._-]+)\]`),
	}

	legacyTimestampLayouts = []string{
		datetimeLayout,
		"2006-01-02T15:04:05",
		"02/01/2006 15:04:05",
		"2006/01/02 15:04:05",
	}
)

// MigrateLegacyRows convierte el historial del formato legado de 6 columnas
// (timestamp, operation, item, quantity, recipient, details) al esquema
// canónico de 12. Es pura e idempotente: las filas ya canónicas pasan sin
// tocarse, así que correrla dos veces no doble-convierte nada. Devuelve las
// filas resultantes y cuántas se convirtieron.
//
// Las cantidades previas/actuales que el texto libre no especifica con un
// patrón "from X to Y" se reconstruyen con un saldo corrido por
// (ítem, proyecto), en el orden del historial.
func MigrateLegacyRows(rows [][]string, resolve CategoryResolver) ([][]string, int, error) {
	if resolve == nil {
		resolve = ledger.ClassifyCategory
	}
	out := make([][]string, 0, len(rows))
	migrated := 0
	running := map[string]decimal.Decimal{}

	for i, row := range rows {
		switch {
		case emptyRow(row):
			continue
		case i == 0 && isHeaderRow(row, activityHeader):
			out = append(out, row)
		case i == 0 && isHeaderRow(row, legacyHeader):
			out = append(out, activityHeader)
			migrated++
		case len(row) >= activityCols:
			// Ya canónica: además alimenta el saldo corrido, por si el
			// historial mezcla formatos.
			if rec, err := decodeRecordRow(row, i); err == nil {
				running[balanceKey(rec.ItemName, rec.ProjectID)] = rec.Current
			}
			out = append(out, row)
		case len(row) == legacyCols:
			conv, err := migrateLegacyRow(row, i, resolve, running)
			if err != nil {
				return nil, 0, err
			}
			out = append(out, conv)
			migrated++
		default:
			return nil, 0, fmt.Errorf("fila %d: %d columnas, no es esquema conocido (6 o 12)", i, len(row))
		}
	}
	return out, migrated, nil
}

func migrateLegacyRow(row []string, idx int, resolve CategoryResolver, running map[string]decimal.Decimal) ([]string, error) {
	ts, err := parseLegacyTimestamp(row[0])
	if err != nil {
		return nil, fmt.Errorf("fila %d: timestamp %q: %w", idx, row[0], err)
	}
	op := normalizeLegacyOp(row[1])
	if op == "" {
		return nil, fmt.Errorf("fila %d: operación legada %q desconocida", idx, row[1])
	}
	item := strings.TrimSpace(row[2])
	qty := decimal.Zero
	if strings.TrimSpace(row[3]) != "" {
		qty, err = decimal.NewFromString(strings.TrimSpace(row[3]))
		if err != nil {
			return nil, fmt.Errorf("fila %d: cantidad %q: %w", idx, row[3], err)
		}
	}
	recipient := strings.TrimSpace(row[4])
	details := row[5]

	project := extractProject(details)
	key := balanceKey(item, project)
	prev := running[key]

	var added, removed, current decimal.Decimal
	if m := fromToRe.FindStringSubmatch(details); m != nil {
		// El texto libre trae las cantidades exactas: mandan ellas.
		prev, _ = decimal.NewFromString(m[1])
		current, _ = decimal.NewFromString(m[2])
		delta := current.Sub(prev)
		if delta.Sign() >= 0 {
			added = delta
		} else {
			removed = delta.Neg()
		}
	} else {
		switch op {
		case entity.OpAdd:
			added = qty
			current = prev.Add(qty)
		case entity.OpDispense:
			removed = qty
			current = prev.Sub(qty)
		case entity.OpEdit:
			// Sin patrón, la cantidad legada se toma como el valor nuevo.
			current = qty
			delta := current.Sub(prev)
			if delta.Sign() >= 0 {
				added = delta
			} else {
				removed = delta.Neg()
			}
		case entity.OpRemove:
			removed = prev
			current = decimal.Zero
		}
	}
	running[key] = current

	actor := recipient
	if actor == "" {
		actor = "legacy"
	}
	rec := entity.ActivityRecord{
		Date:      ts,
		Time:      ts.Format(timeLayout),
		Operation: op,
		ItemName:  item,
		Category:  resolve(item),
		Added:     added,
		Removed:   removed,
		Previous:  prev,
		Current:   current,
		Actor:     actor,
		ProjectID: project,
		Details:   details,
	}
	return encodeRecordRow(&rec), nil
}

func balanceKey(item, project string) string {
	return ledger.NormalizeName(item) + "|" + project
}

func parseLegacyTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range legacyTimestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("ningún layout conocido lo parsea")
}

// normalizeLegacyOp mapea las variantes sueltas del formato viejo al enum
// canónico. Devuelve "" si no reconoce la operación.
func normalizeLegacyOp(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "add", "added", "stock in", "in":
		return entity.OpAdd
	case "edit", "edited", "update", "updated", "adjust", "adjusted":
		return entity.OpEdit
	case "dispense", "dispensed", "out", "stock out", "issue", "issued":
		return entity.OpDispense
	case "remove", "removed", "delete", "deleted":
		return entity.OpRemove
	}
	return ""
}

func extractProject(details string) string {
	for _, re := range projectRes {
		if m := re.FindStringSubmatch(details); m != nil {
			return m[1]
		}
	}
	return ledger.DefaultProject
}
