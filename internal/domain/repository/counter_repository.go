package repository

import "context"

// CounterRepository contadores monotónicos para códigos legibles y numeración de facturas.
type CounterRepository interface {
	// Next incrementa y devuelve el contador; el valor queda persistido antes de retornar.
	Next(ctx context.Context, name string) (int64, error)
	All(ctx context.Context) (map[string]int64, error)
	SetAll(ctx context.Context, counters map[string]int64) error
}
