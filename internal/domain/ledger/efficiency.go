package ledger

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// EfficiencyIndex calcula el índice de eficiencia para reportes:
// (operaciones de entrada / max(operaciones de salida, 1)) * 100.
// El denominador tiene piso 1: con cero salidas el índice es entradas*100,
// nunca una división por cero ni un 100% ficticio.
func EfficiencyIndex(addCount, dispenseCount int) decimal.Decimal {
	den := dispenseCount
	if den < 1 {
		den = 1
	}
	return decimal.NewFromInt(int64(addCount)).
		Div(decimal.NewFromInt(int64(den))).
		Mul(hundred)
}
