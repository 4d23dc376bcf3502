// Package query implementa las consultas con filtros y agregados sobre un
// snapshot del historial. Solo lee: nunca muta el catálogo ni el historial.
package query

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/domain"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/domain/entity"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/domain/ledger"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/domain/repository"
)

// QueryEngine evalúa filtros AND sobre el historial y calcula los agregados
// del FilterResult. Para llamadores restringidos (no administradores) inyecta
// en silencio dos predicados de alcance no removibles: actor == identidad del
// llamador y proyecto == proyecto asignado. Se aplican acá adentro, no en la
// UI, así no se pueden esquivar.
type QueryEngine struct {
	log repository.ActivityLog
}

// NewQueryEngine construye el motor de consultas.
func NewQueryEngine(log repository.ActivityLog) *QueryEngine {
	return &QueryEngine{log: log}
}

// Query materializa el historial y devuelve el resultado filtrado con sus
// agregados. La misma especificación de filtro sobre el mismo snapshot
// produce siempre el mismo resultado.
func (q *QueryEngine) Query(ctx context.Context, caller entity.Principal, f entity.Filter) (*entity.FilterResult, error) {
	if err := validateFilter(f); err != nil {
		return nil, err
	}
	records, err := q.log.All(ctx)
	if err != nil {
		return nil, err
	}
	return Evaluate(records, caller, f), nil
}

// Evaluate aplica el filtro (más el alcance obligatorio del llamador) sobre
// un snapshot ya materializado. Es pura; existe separada de Query para poder
// evaluar snapshots que otro colaborador ya tiene en mano.
func Evaluate(records []entity.ActivityRecord, caller entity.Principal, f entity.Filter) *entity.FilterResult {
	res := &entity.FilterResult{
		TotalAdded:   decimal.Zero,
		TotalRemoved: decimal.Zero,
		CountByOp:    map[string]int{},
	}
	catSet := map[string]struct{}{}
	projSet := map[string]struct{}{}

	for _, rec := range records {
		if !matches(rec, caller, f) {
			continue
		}
		res.Records = append(res.Records, rec)
		res.TotalAdded = res.TotalAdded.Add(rec.Added)
		res.TotalRemoved = res.TotalRemoved.Add(rec.Removed)
		res.CountByOp[rec.Operation]++
		if rec.Category != "" {
			catSet[rec.Category] = struct{}{}
		}
		if rec.ProjectID != "" {
			projSet[rec.ProjectID] = struct{}{}
		}
		d := rec.Date
		if res.FirstDate == nil || d.Before(*res.FirstDate) {
			first := d
			res.FirstDate = &first
		}
		if res.LastDate == nil || d.After(*res.LastDate) {
			last := d
			res.LastDate = &last
		}
	}

	res.Net = res.TotalAdded.Sub(res.TotalRemoved)
	res.Categories = sortedKeys(catSet)
	res.Projects = sortedKeys(projSet)
	res.EfficiencyIndex = ledger.EfficiencyIndex(res.CountByOp[entity.OpAdd], res.CountByOp[entity.OpDispense])
	return res
}

// matches evalúa la conjunción de predicados. Un campo vacío o con el
// centinela "all" no restringe.
func matches(rec entity.ActivityRecord, caller entity.Principal, f entity.Filter) bool {
	// Alcance obligatorio: primero, y sin mirar lo que pidió el filtro.
	if !caller.Admin {
		if rec.Actor != caller.Actor || rec.ProjectID != caller.ProjectID {
			return false
		}
	}
	if f.DateFrom != nil && rec.Date.Before(dateOnly(*f.DateFrom)) {
		return false
	}
	if f.DateTo != nil && rec.Date.After(endOfDay(*f.DateTo)) {
		return false
	}
	if constrains(f.Operation) && rec.Operation != f.Operation {
		return false
	}
	if constrains(f.ItemName) && !ledger.ContainsFold(rec.ItemName, f.ItemName) {
		return false
	}
	if constrains(f.Category) && !ledger.ContainsFold(rec.Category, f.Category) {
		return false
	}
	if constrains(f.Actor) && !ledger.ContainsFold(rec.Actor, f.Actor) {
		return false
	}
	if constrains(f.ProjectID) && rec.ProjectID != f.ProjectID {
		return false
	}
	return true
}

func validateFilter(f entity.Filter) error {
	if constrains(f.Operation) && !entity.ValidOperation(f.Operation) {
		return domain.Validationf("operation_type", "%q no es una operación válida", f.Operation)
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return domain.Validationf("date_from", "el inicio del rango (%s) es posterior al fin (%s)",
			f.DateFrom.Format("2006-01-02"), f.DateTo.Format("2006-01-02"))
	}
	return nil
}

// dateOnly y endOfDay acotan el rango de fechas a días calendario inclusivos.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}

func constrains(v string) bool {
	return v != "" && !strings.EqualFold(v, entity.FilterAll)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
