package ledger

import (
	"strings"

	"golang.org/x/text/cases"
)

var folder = cases.Fold()

// DefaultProject es el proyecto implícito cuando el llamador no indica uno.
const DefaultProject = "GENERAL"

// NormalizeName normaliza un nombre de ítem para comparar identidad:
// recorta espacios y aplica case folding Unicode (no un simple ToLower,
// para que "Straße" y "STRASSE" colisionen como corresponde).
func NormalizeName(s string) string {
	return folder.String(strings.TrimSpace(s))
}

// SameName indica si dos nombres refieren al mismo ítem.
func SameName(a, b string) bool {
	return NormalizeName(a) == NormalizeName(b)
}

// ContainsFold indica si s contiene sub sin distinguir mayúsculas.
// Con sub vacío siempre es verdadero (filtro sin restricción).
func ContainsFold(s, sub string) bool {
	return strings.Contains(folder.String(s), folder.String(sub))
}
