package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/domain/ledger"
)

func TestNormalizeName_TrimYFold(t *testing.T) {
	assert.Equal(t, ledger.NormalizeName("Cement"), ledger.NormalizeName("  CEMENT  "))
	assert.True(t, ledger.SameName("Portland Cement", "portland cement"))
	assert.False(t, ledger.SameName("Cement", "Cemento"))
	// Case folding real, no un ToLower: ß pliega a ss.
	assert.True(t, ledger.SameName("Straße", "STRASSE"))
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ledger.ContainsFold("Portland Cement 50kg", "CEMENT"))
	assert.False(t, ledger.ContainsFold("Portland Cement", "steel"))
	// Substring vacío = sin restricción.
	assert.True(t, ledger.ContainsFold("cualquier cosa", ""))
}

func TestClassifyCategory(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Portland Cement 50kg", "Building"},
		{"Steel Rod 12mm", "Building"},
		{"Copper Cable 2.5mm", "Electrical"},
		{"PVC Pipe 110mm", "Plumbing"},
		{"White Paint 20L", "Finishing"},
		{"Sledge Hammer", "Tools"},
		{"Safety Helmet", "Safety"},
		{"Unmarked Box", ledger.DefaultCategory},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ledger.ClassifyCategory(tc.name), "nombre: %s", tc.name)
	}
	// Determinista: misma entrada, misma salida, siempre.
	assert.Equal(t, ledger.ClassifyCategory("Copper Cable"), ledger.ClassifyCategory("Copper Cable"))
}

func TestEfficiencyIndex_PisoDelDenominador(t *testing.T) {
	// 4 entradas / 2 salidas * 100 = 200
	assert.Equal(t, "200", ledger.EfficiencyIndex(4, 2).String())
	// Denominador con piso 1: cero salidas no divide por cero ni da 100% ficticio.
	assert.Equal(t, "300", ledger.EfficiencyIndex(3, 0).String())
	assert.Equal(t, "0", ledger.EfficiencyIndex(0, 0).String())
}
