package query

import (
	"context"

	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/domain/entity"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/pkg/tasks"
)

// Watcher corre consultas en segundo plano para un llamador fijo que emite
// filtros más rápido de lo que el almacén responde (un panel que refresca con
// cada tecla, por ejemplo). Cada Submit supera al anterior: la consulta vieja
// se cancela y su resultado, si llega tarde, se marca como obsoleto para que
// el consumidor lo descarte. Un solo goroutine debe consumir Results.
type Watcher struct {
	engine *QueryEngine
	caller entity.Principal
	runner *tasks.Runner[*entity.FilterResult]
}

// NewWatcher construye el watcher para un llamador. buffer acota resultados
// pendientes sin consumir.
func NewWatcher(engine *QueryEngine, caller entity.Principal, buffer int) *Watcher {
	return &Watcher{
		engine: engine,
		caller: caller,
		runner: tasks.NewRunner[*entity.FilterResult](buffer),
	}
}

// Submit emite la consulta y devuelve su número de secuencia.
func (w *Watcher) Submit(ctx context.Context, f entity.Filter) uint64 {
	return w.runner.Submit(ctx, func(taskCtx context.Context) (*entity.FilterResult, error) {
		return w.engine.Query(taskCtx, w.caller, f)
	})
}

// Results devuelve el canal de resultados etiquetados por secuencia.
func (w *Watcher) Results() <-chan tasks.Result[*entity.FilterResult] {
	return w.runner.Results()
}

// Stale indica si ese resultado fue superado por un Submit posterior.
func (w *Watcher) Stale(seq uint64) bool {
	return w.runner.Stale(seq)
}
