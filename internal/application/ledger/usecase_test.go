package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appledger "github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/application/ledger"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/application/ports"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/domain"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/domain/entity"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/infrastructure/sheetdb"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/infrastructure/sheetstore"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/pkg/logger"
)

const (
	catalogSheet  = ports.SheetRef("Inventory")
	activitySheet = ports.SheetRef("Activity Log")
)

type fixture struct {
	engine   *appledger.Engine
	catalog  *sheetstore.CatalogStore
	activity *sheetstore.ActivityStore
	mem      *sheetdb.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := sheetdb.NewMemoryStore()
	catalog := sheetstore.NewCatalogStore(mem, catalogSheet)
	activity := sheetstore.NewActivityStore(mem, activitySheet)
	engine := appledger.NewEngine(catalog, activity, logger.NewNop()).
		WithClock(func() time.Time { return time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC) })
	return &fixture{engine: engine, catalog: catalog, activity: activity, mem: mem}
}

func qty(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func (f *fixture) addCement(t *testing.T, amount string) (*entity.InventoryItem, *entity.ActivityRecord) {
	t.Helper()
	item, rec, err := f.engine.AddItem(context.Background(), appledger.AddItemInput{
		Name:      "Cement",
		Category:  "Building",
		Quantity:  qty(amount),
		ProjectID: "P1",
		Actor:     "jperez",
	})
	require.NoError(t, err)
	return item, rec
}

// Escenario A: alta de un ítem nuevo.
func TestAddItem_Nuevo(t *testing.T) {
	f := newFixture(t)
	item, rec := f.addCement(t, "100")

	assert.Equal(t, "100", item.Quantity.String())
	assert.Equal(t, entity.OpAdd, rec.Operation)
	assert.Equal(t, "100", rec.Added.String())
	assert.Equal(t, "0", rec.Previous.String())
	assert.Equal(t, "100", rec.Current.String())
	assert.True(t, rec.Consistent())
}

// Escenario B: alta repetida de la misma identidad = merge, no reemplazo.
func TestAddItem_MergeSobreDuplicado(t *testing.T) {
	f := newFixture(t)
	f.addCement(t, "100")
	item, rec := f.addCement(t, "50")

	// Una sola fila de catálogo con la suma de ambas altas.
	assert.Equal(t, "150", item.Quantity.String())
	items, err := f.catalog.List(context.Background(), "P1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "150", items[0].Quantity.String())

	// El registro del merge deja constancia del caso en details.
	assert.Equal(t, entity.OpEdit, rec.Operation)
	assert.Equal(t, "50", rec.Added.String())
	assert.Equal(t, "100", rec.Previous.String())
	assert.Equal(t, "150", rec.Current.String())
	assert.Contains(t, rec.Details, "Merged")

	// Dos registros en el historial, no uno fusionado.
	all, err := f.activity.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

// Escenario C: salida con destinatario textual en details.
func TestDispense(t *testing.T) {
	f := newFixture(t)
	f.addCement(t, "150")

	rec, err := f.engine.Dispense(context.Background(),
		entity.ItemRef{Name: "Cement", ProjectID: "P1"}, qty("30"), "Site Team", "jperez")
	require.NoError(t, err)

	assert.Equal(t, "30", rec.Removed.String())
	assert.Equal(t, "150", rec.Previous.String())
	assert.Equal(t, "120", rec.Current.String())
	assert.Contains(t, rec.Details, "Site Team")

	got, err := f.catalog.Find(context.Background(), entity.ItemRef{Name: "Cement", ProjectID: "P1"})
	require.NoError(t, err)
	assert.Equal(t, "120", got.Quantity.String())
}

// Escenario D: stock insuficiente no toca ni catálogo ni historial.
func TestDispense_StockInsuficiente(t *testing.T) {
	f := newFixture(t)
	f.addCement(t, "120")
	ctx := context.Background()

	before, err := f.activity.All(ctx)
	require.NoError(t, err)

	_, err = f.engine.Dispense(ctx,
		entity.ItemRef{Name: "Cement", ProjectID: "P1"}, qty("200"), "Site Team", "jperez")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "200", stockErr.Requested.String())
	assert.Equal(t, "120", stockErr.Available.String())

	got, err := f.catalog.Find(ctx, entity.ItemRef{Name: "Cement", ProjectID: "P1"})
	require.NoError(t, err)
	assert.Equal(t, "120", got.Quantity.String())

	after, err := f.activity.All(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}

// Escenario E: una edición con delta cero es válida y se registra.
func TestEditQuantity_DeltaCeroNoEsError(t *testing.T) {
	f := newFixture(t)
	f.addCement(t, "120")

	rec, err := f.engine.EditQuantity(context.Background(),
		entity.ItemRef{Name: "Cement", ProjectID: "P1"}, qty("120"), "jperez")
	require.NoError(t, err)

	assert.Equal(t, entity.OpEdit, rec.Operation)
	assert.Equal(t, "0", rec.Added.String())
	assert.Equal(t, "0", rec.Removed.String())
	assert.Equal(t, "120", rec.Previous.String())
	assert.Equal(t, "120", rec.Current.String())
	assert.True(t, rec.Consistent())
}

func TestEditQuantity_FijaDirectoNoAcumulaDelta(t *testing.T) {
	f := newFixture(t)
	f.addCement(t, "100")

	rec, err := f.engine.EditQuantity(context.Background(),
		entity.ItemRef{Name: "Cement", ProjectID: "P1"}, qty("75"), "jperez")
	require.NoError(t, err)
	assert.Equal(t, "25", rec.Removed.String())
	assert.Equal(t, "75", rec.Current.String())

	got, err := f.catalog.Find(context.Background(), entity.ItemRef{Name: "Cement", ProjectID: "P1"})
	require.NoError(t, err)
	assert.Equal(t, "75", got.Quantity.String())
}

func TestRemoveItem(t *testing.T) {
	f := newFixture(t)
	f.addCement(t, "80")
	ctx := context.Background()

	rec, err := f.engine.RemoveItem(ctx, entity.ItemRef{Name: "Cement", ProjectID: "P1"}, "admin")
	require.NoError(t, err)
	assert.Equal(t, entity.OpRemove, rec.Operation)
	assert.Equal(t, "80", rec.Removed.String())
	assert.Equal(t, "0", rec.Current.String())

	// La fila del catálogo se fue; el historial sigue intacto.
	_, err = f.catalog.Find(ctx, entity.ItemRef{Name: "Cement", ProjectID: "P1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	all, err := f.activity.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestValidaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, err := f.engine.AddItem(ctx, appledger.AddItemInput{Name: "   ", Quantity: qty("10")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, _, err = f.engine.AddItem(ctx, appledger.AddItemInput{Name: "Cement", Quantity: qty("-1")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.engine.EditQuantity(ctx, entity.ItemRef{Name: "Cement", ProjectID: "P1"}, qty("-5"), "u")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.engine.EditQuantity(ctx, entity.ItemRef{Name: "Ghost", ProjectID: "P1"}, qty("5"), "u")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.engine.Dispense(ctx, entity.ItemRef{Name: "Ghost", ProjectID: "P1"}, qty("0"), "X", "u")
	assert.ErrorIs(t, err, domain.ErrValidation, "cantidad cero en salida")

	_, err = f.engine.RemoveItem(ctx, entity.ItemRef{Name: "Ghost", ProjectID: "P1"}, "u")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolucionDeCategoria(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Sin categoría explícita: decide el clasificador por palabras clave.
	item, _, err := f.engine.AddItem(ctx, appledger.AddItemInput{
		Name: "Copper Cable 2.5mm", Quantity: qty("40"), ProjectID: "P1", Actor: "u",
	})
	require.NoError(t, err)
	assert.Equal(t, "Electrical", item.Category)

	// Mismo nombre en otro proyecto hereda la categoría de la fila existente.
	item2, _, err := f.engine.AddItem(ctx, appledger.AddItemInput{
		Name: "Copper Cable 2.5mm", Quantity: qty("10"), ProjectID: "P2", Actor: "u",
	})
	require.NoError(t, err)
	assert.Equal(t, "Electrical", item2.Category)

	// Nada clasifica: balde por defecto.
	item3, _, err := f.engine.AddItem(ctx, appledger.AddItemInput{
		Name: "Unmarked Box", Quantity: qty("1"), Actor: "u",
	})
	require.NoError(t, err)
	assert.Equal(t, "General", item3.Category)
	// Sin proyecto: el implícito.
	assert.Equal(t, "GENERAL", item3.ProjectID)
}

// Propiedad de reconciliación: reproducir el historial de una identidad
// (sumando added - removed) da exactamente la cantidad del catálogo.
func TestReconciliacionPorReplay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addCement(t, "100")
	f.addCement(t, "50")
	_, err := f.engine.Dispense(ctx, entity.ItemRef{Name: "Cement", ProjectID: "P1"}, qty("30"), "Site Team", "u")
	require.NoError(t, err)
	_, err = f.engine.EditQuantity(ctx, entity.ItemRef{Name: "Cement", ProjectID: "P1"}, qty("200"), "u")
	require.NoError(t, err)
	_, err = f.engine.Dispense(ctx, entity.ItemRef{Name: "Cement", ProjectID: "P1"}, qty("45"), "Site Team", "u")
	require.NoError(t, err)

	all, err := f.activity.All(ctx)
	require.NoError(t, err)
	replayed := decimal.Zero
	for _, rec := range all {
		require.True(t, rec.Consistent(), "registro inconsistente: %+v", rec)
		require.True(t, rec.Current.Sign() >= 0, "saldo negativo en el historial")
		replayed = replayed.Add(rec.Added).Sub(rec.Removed)
	}

	got, err := f.catalog.Find(ctx, entity.ItemRef{Name: "Cement", ProjectID: "P1"})
	require.NoError(t, err)
	assert.True(t, replayed.Equal(got.Quantity),
		"replay %s != catálogo %s", replayed, got.Quantity)
}

// appendFailStore fuerza la falla del append del historial para verificar la
// compensación: tras el fallo el catálogo vuelve al estado anterior.
type appendFailStore struct {
	*sheetdb.MemoryStore
	failOn ports.SheetRef
}

func (s *appendFailStore) AppendRow(ctx context.Context, ref ports.SheetRef, row []string) error {
	if ref == s.failOn {
		return errors.New("quota exceeded")
	}
	return s.MemoryStore.AppendRow(ctx, ref, row)
}

func TestAppendFallido_CompensaElCatalogo(t *testing.T) {
	mem := sheetdb.NewMemoryStore()
	failing := &appendFailStore{MemoryStore: mem, failOn: activitySheet}
	catalog := sheetstore.NewCatalogStore(mem, catalogSheet) // catálogo sano
	activity := sheetstore.NewActivityStore(failing, activitySheet)
	engine := appledger.NewEngine(catalog, activity, logger.NewNop())
	ctx := context.Background()

	_, _, err := engine.AddItem(ctx, appledger.AddItemInput{
		Name: "Cement", Category: "Building", Quantity: qty("100"), ProjectID: "P1", Actor: "u",
	})
	require.ErrorIs(t, err, domain.ErrStorage)

	// Ni catálogo ni historial quedaron a medias.
	_, err = catalog.Find(ctx, entity.ItemRef{Name: "Cement", ProjectID: "P1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	rows, err := mem.ReadAllRows(ctx, activitySheet)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
