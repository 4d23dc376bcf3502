// Package tasks provee la abstracción tarea/futuro para llamadas bloqueantes
// contra el almacén remoto: la llamada corre en un worker y el resultado se
// entrega por un canal de consumidor único, numerado por secuencia. Un pedido
// superado por otro más nuevo del mismo tipo se cancela y, si su resultado
// llega tarde, el consumidor lo descarta en vez de aplicarlo: el estado en
// memoria siempre refleja la consulta emitida más recientemente.
package tasks

import (
	"context"
	"sync"
	"sync/atomic"
)

// Result resultado de una tarea, etiquetado con su número de secuencia.
type Result[T any] struct {
	Seq   uint64
	Value T
	Err   error
}

// Runner emite tareas de un mismo tipo y entrega resultados por un único
// canal. Un solo goroutine debe consumir Results.
type Runner[T any] struct {
	mu      sync.Mutex
	cancel  context.CancelFunc
	seq     atomic.Uint64
	results chan Result[T]
}

// NewRunner construye el runner. buffer acota resultados pendientes sin
// consumir; con el descarte por secuencia alcanza un buffer chico.
func NewRunner[T any](buffer int) *Runner[T] {
	if buffer < 1 {
		buffer = 1
	}
	return &Runner[T]{results: make(chan Result[T], buffer)}
}

// Submit emite una tarea y devuelve su número de secuencia. Cancela el
// contexto de la tarea anterior todavía en vuelo: ya fue superada.
func (r *Runner[T]) Submit(ctx context.Context, fn func(context.Context) (T, error)) uint64 {
	seq := r.seq.Add(1)

	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	taskCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.mu.Unlock()

	go func() {
		defer cancel()
		v, err := fn(taskCtx)
		select {
		case r.results <- Result[T]{Seq: seq, Value: v, Err: err}:
		case <-taskCtx.Done():
			// Nadie espera este resultado; el canal puede estar lleno de
			// resultados viejos y no vale la pena bloquear por él.
		}
	}()
	return seq
}

// Results devuelve el canal de entrega (consumidor único).
func (r *Runner[T]) Results() <-chan Result[T] {
	return r.results
}

// Stale indica si el resultado con ese número de secuencia ya fue superado
// por un Submit posterior y debe descartarse sin aplicar.
func (r *Runner[T]) Stale(seq uint64) bool {
	return seq < r.seq.Load()
}
