package query_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/application/query"
	"github.com/StrucTech/Sama-Inventory-System-offline-sub000/internal/domain/entity"
)

func TestWatcher_AplicaSoloLaConsultaMasReciente(t *testing.T) {
	engine := query.NewQueryEngine(staticLog(sampleHistory()))
	w := query.NewWatcher(engine, admin, 4)

	w.Submit(t.Context(), entity.Filter{Operation: entity.OpAdd})
	last := w.Submit(t.Context(), entity.Filter{Operation: entity.OpDispense})

	deadline := time.After(2 * time.Second)
	for {
		select {
		case res := <-w.Results():
			if w.Stale(res.Seq) {
				continue
			}
			require.NoError(t, res.Err)
			require.Equal(t, last, res.Seq)
			// El resultado vigente corresponde al último filtro emitido.
			for _, rec := range res.Value.Records {
				assert.Equal(t, entity.OpDispense, rec.Operation)
			}
			assert.Len(t, res.Value.Records, 2)
			return
		case <-deadline:
			t.Fatal("ningún resultado vigente llegó")
		}
	}
}

func TestWatcher_RespetaElAlcanceDelLlamador(t *testing.T) {
	engine := query.NewQueryEngine(staticLog(sampleHistory()))
	member := entity.Principal{Actor: "mgomez", ProjectID: "P2"}
	w := query.NewWatcher(engine, member, 1)

	seq := w.Submit(t.Context(), entity.Filter{})

	select {
	case res := <-w.Results():
		require.NoError(t, res.Err)
		require.Equal(t, seq, res.Seq)
		require.Len(t, res.Value.Records, 2)
		for _, rec := range res.Value.Records {
			assert.Equal(t, "mgomez", rec.Actor)
			assert.Equal(t, "P2", rec.ProjectID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("el resultado nunca llegó")
	}
}
