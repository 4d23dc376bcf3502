// Package sheetdb contiene las implementaciones del puerto StorageAdapter:
// PostgreSQL (modo hospedado), SQLite (modo offline local) y memoria (tests).
// Todas modelan el mismo almacén: hojas de filas ordenadas de celdas string.
package sheetdb

// mergeCells sobreescribe las celdas de row a partir de startCol con vals,
// extendiendo la fila si hace falta. Devuelve la fila resultante.
func mergeCells(row []string, startCol int, vals []string) []string {
	need := startCol + len(vals)
	if need < len(row) {
		need = len(row)
	}
	out := make([]string, need)
	copy(out, row)
	copy(out[startCol:], vals)
	return out
}
