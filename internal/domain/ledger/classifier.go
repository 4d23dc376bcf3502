package ledger

import "strings"

// DefaultCategory es el balde por defecto cuando nada clasifica al ítem.
const DefaultCategory = "General"

// Palabras clave por categoría, en orden de evaluación. La primera categoría
// cuya palabra aparezca en el nombre gana; el orden fijo hace al clasificador
// determinista.
var categoryKeywords = []struct {
	category string
	words    []string
}{
	{"Building", []string{"cement", "concrete", "sand", "gravel", "block", "brick", "rebar", "steel", "rod", "mesh"}},
	{"Electrical", []string{"cable", "wire", "breaker", "socket", "switch", "conduit", "bulb", "lamp"}},
	{"Plumbing", []string{"pipe", "valve", "fitting", "elbow", "tap", "faucet", "pvc", "tank"}},
	{"Finishing", []string{"paint", "tile", "varnish", "putty", "plaster", "glass"}},
	{"Tools", []string{"hammer", "drill", "saw", "shovel", "wheelbarrow", "trowel", "ladder"}},
	{"Safety", []string{"helmet", "glove", "vest", "boot", "goggle", "harness"}},
}

// ClassifyCategory asigna una categoría a partir de palabras clave del
// nombre. Devuelve DefaultCategory si ninguna coincide. Es pura y
// determinista: mismo nombre, misma categoría, siempre.
func ClassifyCategory(itemName string) string {
	name := folder.String(itemName)
	for _, entry := range categoryKeywords {
		for _, w := range entry.words {
			if strings.Contains(name, w) {
				return entry.category
			}
		}
	}
	return DefaultCategory
}
