package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/domain/entity"
)

// AddItemRequest body para POST /api/items.
type AddItemRequest struct {
	Name      string          `json:"name"`
	Category  string          `json:"category,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	ProjectID string          `json:"project_id,omitempty"`
}

// EditQuantityRequest body para PUT /api/items/quantity.
type EditQuantityRequest struct {
	Name        string          `json:"name"`
	ProjectID   string          `json:"project_id"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
}

// DispenseRequest body para POST /api/items/dispense.
type DispenseRequest struct {
	Name      string          `json:"name"`
	ProjectID string          `json:"project_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Recipient string          `json:"recipient"`
}

// RemoveItemRequest body para DELETE /api/items.
type RemoveItemRequest struct {
	Name      string `json:"name"`
	ProjectID string `json:"project_id"`
}

// ItemResponse fila del catálogo en respuestas.
type ItemResponse struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Quantity    decimal.Decimal `json:"quantity"`
	ProjectID   string          `json:"project_id"`
	LastUpdated string          `json:"last_updated"`
}

// RecordResponse registro del historial en respuestas.
type RecordResponse struct {
	Date      string          `json:"date"`
	Time      string          `json:"time"`
	Operation string          `json:"operation"`
	ItemName  string          `json:"item_name"`
	Category  string          `json:"category"`
	Added     decimal.Decimal `json:"quantity_added"`
	Removed   decimal.Decimal `json:"quantity_removed"`
	Previous  decimal.Decimal `json:"previous_quantity"`
	Current   decimal.Decimal `json:"current_quantity"`
	Actor     string          `json:"actor"`
	ProjectID string          `json:"project_id"`
	Details   string          `json:"details"`
}

// QueryResponse resultado filtrado más agregados.
type QueryResponse struct {
	Records         []RecordResponse `json:"records"`
	TotalAdded      decimal.Decimal  `json:"total_added"`
	TotalRemoved    decimal.Decimal  `json:"total_removed"`
	Net             decimal.Decimal  `json:"net"`
	CountByOp       map[string]int   `json:"count_by_operation"`
	Categories      []string         `json:"categories"`
	Projects        []string         `json:"projects"`
	FirstDate       string           `json:"first_date,omitempty"`
	LastDate        string           `json:"last_date,omitempty"`
	EfficiencyIndex decimal.Decimal  `json:"efficiency_index"`
}

const dateLayout = "2006-01-02"

// FromItem convierte la entidad a DTO de respuesta.
func FromItem(it *entity.InventoryItem) ItemResponse {
	return ItemResponse{
		Name:        it.Name,
		Category:    it.Category,
		Quantity:    it.Quantity,
		ProjectID:   it.ProjectID,
		LastUpdated: it.LastUpdated.Format("2006-01-02 15:04:05"),
	}
}

// FromRecord convierte el registro a DTO de respuesta.
func FromRecord(r *entity.ActivityRecord) RecordResponse {
	return RecordResponse{
		Date:      r.Date.Format(dateLayout),
		Time:      r.Time,
		Operation: r.Operation,
		ItemName:  r.ItemName,
		Category:  r.Category,
		Added:     r.Added,
		Removed:   r.Removed,
		Previous:  r.Previous,
		Current:   r.Current,
		Actor:     r.Actor,
		ProjectID: r.ProjectID,
		Details:   r.Details,
	}
}

// FromFilterResult convierte el resultado de consulta a DTO de respuesta.
func FromFilterResult(res *entity.FilterResult) QueryResponse {
	out := QueryResponse{
		Records:         make([]RecordResponse, 0, len(res.Records)),
		TotalAdded:      res.TotalAdded,
		TotalRemoved:    res.TotalRemoved,
		Net:             res.Net,
		CountByOp:       res.CountByOp,
		Categories:      res.Categories,
		Projects:        res.Projects,
		EfficiencyIndex: res.EfficiencyIndex,
	}
	for i := range res.Records {
		out.Records = append(out.Records, FromRecord(&res.Records[i]))
	}
	if res.FirstDate != nil {
		out.FirstDate = res.FirstDate.Format(dateLayout)
	}
	if res.LastDate != nil {
		out.LastDate = res.LastDate.Format(dateLayout)
	}
	return out
}

// ParseQueryDate parsea una fecha de filtro YYYY-MM-DD; vacío o "all" => nil.
func ParseQueryDate(s string) (*time.Time, error) {
	if s == "" || s == entity.FilterAll {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
