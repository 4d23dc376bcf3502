// migratelog convierte una sola vez el historial del formato legado de
// 6 columnas al esquema canónico de 12. Es idempotente: correrlo sobre un
// historial ya migrado no cambia nada. El camino vivo de mutaciones nunca
// invoca esta conversión.
package main

import (
	"context"
	"time"

	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/application/ports"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/domain/ledger"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/infrastructure/sheetdb"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/infrastructure/sheetstore"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/pkg/config"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

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
	default:
		log.Fatal().Str("driver", cfg.Store.Driver).Msg("la migración requiere un almacén persistente")
	}

	activityRef := ports.SheetRef(cfg.Store.ActivitySheet)
	rows, err := adapter.ReadAllRows(ctx, activityRef)
	if err != nil {
		log.Fatal().Err(err).Msg("leer historial")
	}

	// Re-deriva la categoría desde el catálogo vigente; si el ítem ya no
	// está, el clasificador por palabras clave decide.
	catalog := sheetstore.NewCatalogStore(adapter, ports.SheetRef(cfg.Store.CatalogSheet))
	resolve := func(itemName string) string {
		if it, err := catalog.FindByName(ctx, itemName); err == nil && it.Category != "" {
			return it.Category
		}
		return ledger.ClassifyCategory(itemName)
	}

	out, migrated, err := sheetstore.MigrateLegacyRows(rows, resolve)
	if err != nil {
		log.Fatal().Err(err).Msg("convertir historial")
	}
	if migrated == 0 {
		log.Info().Int("rows", len(rows)).Msg("historial ya canónico, nada que migrar")
		return
	}

	// Deja en blanco la cola si la conversión compactó filas vacías.
	for len(out) < len(rows) {
		out = append(out, make([]string, 12))
	}
	err = adapter.BatchUpdate(ctx, activityRef, []ports.RangeUpdate{{
		Range:  ports.Range{StartRow: 0, StartCol: 0},
		Values: out,
	}})
	if err != nil {
		log.Fatal().Err(err).Msg("escribir historial migrado")
	}
	log.Info().Int("migrated", migrated).Int("rows", len(out)).Msg("historial migrado al esquema canónico")
}
