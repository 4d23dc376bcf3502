package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/application/dto"
	appledger "github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/application/ledger"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/application/query"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/domain"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/domain/entity"
)

// LedgerHandler maneja las peticiones HTTP del catálogo, las mutaciones y
// las consultas del historial (todo protegido por JWT).
type LedgerHandler struct {
	engine *appledger.Engine
	query  *query.QueryEngine
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(engine *appledger.Engine, queryEngine *query.QueryEngine) *LedgerHandler {
	return &LedgerHandler{engine: engine, query: queryEngine}
}

// AddItem da de alta stock (POST /api/items).
func (h *LedgerHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, rec, err := h.engine.AddItem(c.Context(), appledger.AddItemInput{
		Name:      in.Name,
		Category:  in.Category,
		Quantity:  in.Quantity,
		ProjectID: in.ProjectID,
		Actor:     GetActor(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"item":   dto.FromItem(item),
		"record": dto.FromRecord(rec),
	})
}

// ListItems lista el catálogo vigente (GET /api/items). Los llamadores
// restringidos solo ven su proyecto asignado.
func (h *LedgerHandler) ListItems(c *fiber.Ctx) error {
	caller := GetPrincipal(c)
	projectID := c.Query("project_id")
	if !caller.Admin {
		projectID = caller.ProjectID
	}
	items, err := h.engine.ListItems(c.Context(), projectID)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, dto.FromItem(&items[i]))
	}
	return c.JSON(fiber.Map{"items": out, "count": len(out)})
}

// EditQuantity fija la cantidad de un ítem (PUT /api/items/quantity).
func (h *LedgerHandler) EditQuantity(c *fiber.Ctx) error {
	var in dto.EditQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rec, err := h.engine.EditQuantity(c.Context(),
		entity.ItemRef{Name: in.Name, ProjectID: in.ProjectID}, in.NewQuantity, GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"record": dto.FromRecord(rec)})
}

// Dispense registra una salida (POST /api/items/dispense).
func (h *LedgerHandler) Dispense(c *fiber.Ctx) error {
	var in dto.DispenseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rec, err := h.engine.Dispense(c.Context(),
		entity.ItemRef{Name: in.Name, ProjectID: in.ProjectID}, in.Quantity, in.Recipient, GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"record": dto.FromRecord(rec)})
}

// RemoveItem da de baja un ítem (DELETE /api/items, solo admin).
func (h *LedgerHandler) RemoveItem(c *fiber.Ctx) error {
	var in dto.RemoveItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rec, err := h.engine.RemoveItem(c.Context(),
		entity.ItemRef{Name: in.Name, ProjectID: in.ProjectID}, GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"record": dto.FromRecord(rec)})
}

// QueryActivity consulta el historial con filtros (GET /api/activity).
// El alcance de los llamadores restringidos lo fuerza el motor de consultas,
// no este handler.
func (h *LedgerHandler) QueryActivity(c *fiber.Ctx) error {
	dateFrom, err := dto.ParseQueryDate(c.Query("date_from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date_from: se espera YYYY-MM-DD", Field: "date_from"})
	}
	dateTo, err := dto.ParseQueryDate(c.Query("date_to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date_to: se espera YYYY-MM-DD", Field: "date_to"})
	}
	f := entity.Filter{
		DateFrom:  dateFrom,
		DateTo:    dateTo,
		Operation: c.Query("operation"),
		ItemName:  c.Query("item_name"),
		Category:  c.Query("category"),
		Actor:     c.Query("actor"),
		ProjectID: c.Query("project_id"),
	}
	res, err := h.query.Query(c.Context(), GetPrincipal(c), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromFilterResult(res))
}

// respondError mapea los errores de dominio a códigos HTTP.
func respondError(c *fiber.Ctx, err error) error {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: vErr.Reason, Field: vErr.Field})
	}
	switch {
	case errors.Is(err, domain.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrConsistency):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONSISTENCY", Message: err.Error()})
	case errors.Is(err, domain.ErrStorage):
		// Falla operacional, reintentable: la decisión de reintentar es del
		// cliente, el core no reintenta para no aplicar dos veces.
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORAGE", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
