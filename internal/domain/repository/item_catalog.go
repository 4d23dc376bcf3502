package repository

import (
	"context"

	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/domain/entity"
)

// ItemCatalog define el puerto de persistencia para la vista de existencias
// actuales, con identidad (nombre normalizado, proyecto).
//
// Toda lectura es un snapshot: puede quedar obsoleta antes del write
// correspondiente. La política es concurrencia optimista con degradación
// last-write-wins (ver motor del ledger, que además serializa mutaciones).
type ItemCatalog interface {
	// Find resuelve la referencia al ítem vigente. Devuelve NotFoundError
	// (errors.Is → domain.ErrNotFound) si no existe.
	Find(ctx context.Context, ref entity.ItemRef) (*entity.InventoryItem, error)
	// FindByName busca cualquier fila con ese nombre sin importar proyecto.
	// Se usa para heredar la categoría de un ítem ya conocido.
	FindByName(ctx context.Context, name string) (*entity.InventoryItem, error)
	// List devuelve las filas del catálogo; con projectID vacío, todas.
	List(ctx context.Context, projectID string) ([]entity.InventoryItem, error)
	// Upsert inserta una fila nueva o sobreescribe la existente con la
	// misma identidad.
	Upsert(ctx context.Context, item *entity.InventoryItem) error
	// Delete elimina la fila del catálogo. El historial queda intacto.
	Delete(ctx context.Context, ref entity.ItemRef) error
}
