package http

import (
	"github.com/gofiber/fiber/v2"

	appledger "github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/application/ledger"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/application/query"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Engine    *appledger.Engine
	Query     *query.QueryEngine
	JWTSecret string
}

// Router registra las rutas de la API. Todas requieren Bearer Token; los
// tokens los emite un colaborador externo (el core no tiene login).
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	h := NewLedgerHandler(deps.Engine, deps.Query)

	items := api.Group("/items")
	items.Get("/", h.ListItems)
	items.Post("/", h.AddItem)
	items.Put("/quantity", h.EditQuantity)
	items.Post("/dispense", h.Dispense)
	// La baja definitiva borra la fila del catálogo: solo administradores.
	items.Delete("/", RequireRole(jwt.RoleAdmin), h.RemoveItem)

	api.Get("/activity", h.QueryActivity)
}
