package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem representa la existencia actual de un material en un proyecto.
// La identidad es el par (nombre normalizado, proyecto); el catálogo nunca
// guarda dos filas para la misma identidad.
type InventoryItem struct {
	Name        string
	Category    string
	Quantity    decimal.Decimal // siempre >= 0
	ProjectID   string
	LastUpdated time.Time
}

// ItemRef referencia a un ítem del catálogo por nombre y proyecto.
type ItemRef struct {
	Name      string
	ProjectID string
}
