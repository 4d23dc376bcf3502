package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appledger "github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/application/ledger"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/application/ports"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/application/query"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/infrastructure/sheetdb"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/infrastructure/sheetstore"
	httpRouter "github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/interfaces/http"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/pkg/config"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var adapter ports.StorageAdapter
	switch cfg.Store.Driver {
	case "postgres":
		pool, err := sheetdb.NewPool(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		adapter, err = sheetdb.NewPostgresStore(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("esquema del almacén en PostgreSQL")
		}
	case "sqlite":
		store, err := sheetdb.NewSQLiteStore(cfg.Store.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Msg("abrir almacén SQLite")
		}
		defer store.Close()
		adapter = store
	default: // memory
		adapter = sheetdb.NewMemoryStore()
	}

	catalog := sheetstore.NewCatalogStore(adapter, ports.SheetRef(cfg.Store.CatalogSheet))
	activity := sheetstore.NewActivityStore(adapter, ports.SheetRef(cfg.Store.ActivitySheet))
	engine := appledger.NewEngine(catalog, activity, log)
	queryEngine := query.NewQueryEngine(activity)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Engine:    engine,
		Query:     queryEngine,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
