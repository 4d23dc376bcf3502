package repository

import (
	"context"

	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/domain/entity"
)

// ActivityLog define el puerto del historial append-only. Las entradas nunca
// se reescriben ni se reordenan una vez anexadas.
type ActivityLog interface {
	// Append anexa exactamente un registro al final del historial.
	Append(ctx context.Context, rec *entity.ActivityRecord) error
	// All materializa el historial completo en orden de inserción.
	// El historial es acotado; no hay lectura perezosa.
	All(ctx context.Context) ([]entity.ActivityRecord, error)
}
