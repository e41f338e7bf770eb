package kvstore

import (
	"context"
	"fmt"

	"github.com/jhoicas/billmaker-api/internal/domain/repository"
)

// CounterRepository contadores persistidos bajo la clave "counters".
type CounterRepository struct {
	dm *DataManager
}

var _ repository.CounterRepository = (*CounterRepository)(nil)

// NewCounterRepository construye el repositorio de contadores.
func NewCounterRepository(dm *DataManager) *CounterRepository {
	return &CounterRepository{dm: dm}
}

func (r *CounterRepository) load(ctx context.Context) (map[string]int64, error) {
	counters := map[string]int64{}
	if _, err := r.dm.Load(ctx, KeyCounters, &counters); err != nil {
		return nil, fmt.Errorf("contadores: %w", err)
	}
	if counters == nil {
		counters = map[string]int64{}
	}
	return counters, nil
}

// Next incrementa name y persiste antes de devolver el nuevo valor.
func (r *CounterRepository) Next(ctx context.Context, name string) (int64, error) {
	r.dm.countersMu.Lock()
	defer r.dm.countersMu.Unlock()

	counters, err := r.load(ctx)
	if err != nil {
		return 0, err
	}
	counters[name]++
	if _, _, err := r.dm.save(ctx, KeyCounters, counters); err != nil {
		return 0, err
	}
	r.dm.LogEvent(ctx, "counter", map[string]any{"name": name, "value": counters[name]})
	return counters[name], nil
}

// All devuelve una copia de todos los contadores.
func (r *CounterRepository) All(ctx context.Context) (map[string]int64, error) {
	r.dm.countersMu.Lock()
	defer r.dm.countersMu.Unlock()
	return r.load(ctx)
}

// SetAll reemplaza todos los contadores (restauración de respaldos).
func (r *CounterRepository) SetAll(ctx context.Context, counters map[string]int64) error {
	r.dm.countersMu.Lock()
	defer r.dm.countersMu.Unlock()
	if counters == nil {
		counters = map[string]int64{}
	}
	return r.dm.Save(ctx, KeyCounters, counters)
}
