// Package ledger contiene el motor del libro de inventario: las cuatro
// mutaciones (alta, edición de cantidad, salida, baja), cada una como
// validar → calcular delta → escribir catálogo → anexar exactamente un
// registro al historial.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/domain"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/domain/entity"
	domledger "github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/domain/ledger"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/domain/repository"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/pkg/logger"
)

// Engine es el único escritor del catálogo y del historial. Serializa las
// mutaciones: ninguna segunda mutación empieza hasta que el append de la
// anterior terminó o falló definitivamente. Las lecturas del catálogo son
// snapshots; la concurrencia entre instancias independientes es optimista
// (last-write-wins).
type Engine struct {
	mu      sync.Mutex
	catalog repository.ItemCatalog
	log     repository.ActivityLog
	lg      *logger.Logger
	now     func() time.Time
}

// NewEngine construye el motor.
func NewEngine(catalog repository.ItemCatalog, activityLog repository.ActivityLog, lg *logger.Logger) *Engine {
	return &Engine{
		catalog: catalog,
		log:     activityLog,
		lg:      lg,
		now:     time.Now,
	}
}

// WithClock fija el reloj del motor (tests).
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// AddItemInput entrada para AddItem.
type AddItemInput struct {
	Name      string
	Category  string // vacío = resolver (fila existente, clasificador, balde por defecto)
	Quantity  decimal.Decimal
	ProjectID string // vacío = proyecto por defecto
	Actor     string
}

// AddItem da de alta stock. Si la identidad (nombre, proyecto) ya existe, la
// cantidad nueva se SUMA a la guardada (merge-on-duplicate, contrato de
// primera clase); el registro del historial deja constancia de cuál de los
// dos casos ocurrió.
func (e *Engine) AddItem(ctx context.Context, in AddItemInput) (*entity.InventoryItem, *entity.ActivityRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, nil, domain.Validationf("item_name", "no puede estar vacío")
	}
	if in.Quantity.Sign() < 0 {
		return nil, nil, domain.Validationf("quantity", "debe ser >= 0, se recibió %s", in.Quantity)
	}
	project := in.ProjectID
	if project == "" {
		project = domledger.DefaultProject
	}
	ref := entity.ItemRef{Name: name, ProjectID: project}

	existing, err := e.catalog.Find(ctx, ref)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, nil, err
	}

	prev := decimal.Zero
	merge := existing != nil && err == nil
	if merge {
		prev = existing.Quantity
	}
	current := prev.Add(in.Quantity)
	if current.Sign() < 0 {
		return nil, nil, fmt.Errorf("alta de %q dejaría saldo %s: %w", name, current, domain.ErrConsistency)
	}

	category := e.resolveCategory(ctx, in.Category, name, existing)
	now := e.now()
	item := &entity.InventoryItem{
		Name:        name,
		Category:    category,
		Quantity:    current,
		ProjectID:   project,
		LastUpdated: now,
	}
	if err := e.catalog.Upsert(ctx, item); err != nil {
		return nil, nil, err
	}

	opID := uuid.NewString()
	rec := e.newRecord(now, name, category, in.Actor, project)
	rec.Added = in.Quantity
	rec.Previous = prev
	rec.Current = current
	if merge {
		rec.Operation = entity.OpEdit
		rec.Details = fmt.Sprintf("Merged into existing stock: %s + %s = %s (op %s)", prev, in.Quantity, current, opID)
	} else {
		rec.Operation = entity.OpAdd
		rec.Details = fmt.Sprintf("Added new item with quantity %s (op %s)", in.Quantity, opID)
	}
	if err := e.appendOrCompensate(ctx, rec, func(ctx context.Context) error {
		if merge {
			restored := *existing
			return e.catalog.Upsert(ctx, &restored)
		}
		return e.catalog.Delete(ctx, ref)
	}); err != nil {
		return nil, nil, err
	}

	e.lg.Info().Str("op", rec.Operation).Str("item", name).Str("project", project).
		Str("quantity", in.Quantity.String()).Str("balance", current.String()).
		Msg("stock dado de alta")
	return item, rec, nil
}

// EditQuantity fija la cantidad directamente en newQty (no previa+delta dos
// veces). Una edición con delta cero es válida: se acepta y se registra, no
// es un error de "sin cambios".
func (e *Engine) EditQuantity(ctx context.Context, ref entity.ItemRef, newQty decimal.Decimal, actor string) (*entity.ActivityRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if newQty.Sign() < 0 {
		return nil, domain.Validationf("new_quantity", "debe ser >= 0, se recibió %s", newQty)
	}
	existing, err := e.catalog.Find(ctx, ref)
	if err != nil {
		return nil, err
	}

	prev := existing.Quantity
	delta := newQty.Sub(prev)
	now := e.now()
	item := *existing
	item.Quantity = newQty
	item.LastUpdated = now
	if err := e.catalog.Upsert(ctx, &item); err != nil {
		return nil, err
	}

	opID := uuid.NewString()
	rec := e.newRecord(now, existing.Name, existing.Category, actor, existing.ProjectID)
	rec.Operation = entity.OpEdit
	if delta.Sign() >= 0 {
		rec.Added = delta
	} else {
		rec.Removed = delta.Neg()
	}
	rec.Previous = prev
	rec.Current = newQty
	rec.Details = fmt.Sprintf("Quantity changed from %s to %s (op %s)", prev, newQty, opID)
	if err := e.appendOrCompensate(ctx, rec, func(ctx context.Context) error {
		restored := *existing
		return e.catalog.Upsert(ctx, &restored)
	}); err != nil {
		return nil, err
	}

	e.lg.Info().Str("op", entity.OpEdit).Str("item", existing.Name).Str("project", existing.ProjectID).
		Str("previous", prev.String()).Str("current", newQty.String()).
		Msg("cantidad editada")
	return rec, nil
}

// Dispense registra una salida de qty unidades hacia recipient. Si qty
// excede el saldo no se toca ni el catálogo ni el historial.
func (e *Engine) Dispense(ctx context.Context, ref entity.ItemRef, qty decimal.Decimal, recipient, actor string) (*entity.ActivityRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if qty.Sign() <= 0 {
		return nil, domain.Validationf("quantity", "debe ser > 0, se recibió %s", qty)
	}
	if strings.TrimSpace(recipient) == "" {
		return nil, domain.Validationf("recipient", "no puede estar vacío")
	}
	existing, err := e.catalog.Find(ctx, ref)
	if err != nil {
		return nil, err
	}
	if qty.GreaterThan(existing.Quantity) {
		return nil, &domain.InsufficientStockError{
			Item:      existing.Name,
			ProjectID: existing.ProjectID,
			Requested: qty,
			Available: existing.Quantity,
		}
	}

	prev := existing.Quantity
	current := prev.Sub(qty)
	if current.Sign() < 0 {
		return nil, fmt.Errorf("salida de %q dejaría saldo %s: %w", existing.Name, current, domain.ErrConsistency)
	}
	now := e.now()
	item := *existing
	item.Quantity = current
	item.LastUpdated = now
	if err := e.catalog.Upsert(ctx, &item); err != nil {
		return nil, err
	}

	opID := uuid.NewString()
	rec := e.newRecord(now, existing.Name, existing.Category, actor, existing.ProjectID)
	rec.Operation = entity.OpDispense
	rec.Removed = qty
	rec.Previous = prev
	rec.Current = current
	// El destinatario va textual en details; el resumen libre no lo pierde.
	rec.Details = fmt.Sprintf("Dispensed %s to %s (op %s)", qty, recipient, opID)
	if err := e.appendOrCompensate(ctx, rec, func(ctx context.Context) error {
		restored := *existing
		return e.catalog.Upsert(ctx, &restored)
	}); err != nil {
		return nil, err
	}

	e.lg.Info().Str("op", entity.OpDispense).Str("item", existing.Name).Str("project", existing.ProjectID).
		Str("quantity", qty.String()).Str("recipient", recipient).Str("balance", current.String()).
		Msg("salida registrada")
	return rec, nil
}

// RemoveItem elimina la fila del catálogo y anexa un único registro Remove
// con el saldo final como cantidad removida. El historial queda intacto.
func (e *Engine) RemoveItem(ctx context.Context, ref entity.ItemRef, actor string) (*entity.ActivityRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	existing, err := e.catalog.Find(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := e.catalog.Delete(ctx, entity.ItemRef{Name: existing.Name, ProjectID: existing.ProjectID}); err != nil {
		return nil, err
	}

	prev := existing.Quantity
	now := e.now()
	opID := uuid.NewString()
	rec := e.newRecord(now, existing.Name, existing.Category, actor, existing.ProjectID)
	rec.Operation = entity.OpRemove
	rec.Removed = prev
	rec.Previous = prev
	rec.Current = decimal.Zero
	rec.Details = fmt.Sprintf("Removed item; final balance was %s (op %s)", prev, opID)
	if err := e.appendOrCompensate(ctx, rec, func(ctx context.Context) error {
		restored := *existing
		return e.catalog.Upsert(ctx, &restored)
	}); err != nil {
		return nil, err
	}

	e.lg.Info().Str("op", entity.OpRemove).Str("item", existing.Name).Str("project", existing.ProjectID).
		Str("final_balance", prev.String()).
		Msg("ítem dado de baja")
	return rec, nil
}

// ListItems expone el catálogo vigente (vista de solo lectura).
func (e *Engine) ListItems(ctx context.Context, projectID string) ([]entity.InventoryItem, error) {
	return e.catalog.List(ctx, projectID)
}

func (e *Engine) newRecord(now time.Time, item, category, actor, project string) *entity.ActivityRecord {
	return &entity.ActivityRecord{
		Date:      now,
		Time:      now.Format("15:04:05"),
		ItemName:  item,
		Category:  category,
		Actor:     actor,
		ProjectID: project,
	}
}

// appendOrCompensate anexa el registro al historial después de un write de
// catálogo ya confirmado. Si el append falla, intenta restaurar el catálogo
// al estado anterior para que catálogo e historial sigan reconciliables por
// replay; si la restauración también falla solo queda dejar rastro en el log.
func (e *Engine) appendOrCompensate(ctx context.Context, rec *entity.ActivityRecord, restore func(ctx context.Context) error) error {
	if err := e.log.Append(ctx, rec); err != nil {
		if rerr := restore(ctx); rerr != nil {
			e.lg.Warn().Err(rerr).
				Str("item", rec.ItemName).Str("project", rec.ProjectID).Str("op", rec.Operation).
				Msg("no se pudo restaurar el catálogo tras fallar el append del historial")
		}
		return err
	}
	return nil
}

// resolveCategory aplica el orden de resolución: explícita → fila existente
// de la misma identidad → cualquier fila con el mismo nombre → clasificador
// por palabras clave (que ya cae al balde por defecto).
func (e *Engine) resolveCategory(ctx context.Context, explicit, name string, existing *entity.InventoryItem) string {
	if c := strings.TrimSpace(explicit); c != "" {
		return c
	}
	if existing != nil && existing.Category != "" {
		return existing.Category
	}
	if byName, err := e.catalog.FindByName(ctx, name); err == nil && byName.Category != "" {
		return byName.Category
	}
	return domledger.ClassifyCategory(name)
}
