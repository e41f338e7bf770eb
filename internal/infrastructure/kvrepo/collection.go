// Package kvrepo implementa los repositorios de dominio sobre el DataManager: cada
// colección es un arreglo JSON bajo una clave, con caché en memoria indexada por ID
// que se reconstruye en cada carga.
package kvrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/billmaker-api/internal/domain"
	"github.com/jhoicas/billmaker-api/internal/infrastructure/kvstore"
)

// Claves de las colecciones dentro del namespace.
const (
	KeyBusinesses = "businesses"
	KeyCustomers  = "customers"
	KeyProducts   = "products"
	KeyInvoices   = "invoices"
)

// record restricción de los tipos persistidos en una colección.
type record interface {
	GetID() string
	GetUpdatedAt() time.Time
}

// collection arreglo de registros persistido completo en cada escritura ("last write wins").
type collection[T record] struct {
	dm  *kvstore.DataManager
	key string

	mu     sync.RWMutex
	loaded bool
	byID   map[string]T
	order  []string // orden de inserción
}

func newCollection[T record](dm *kvstore.DataManager, key string) *collection[T] {
	return &collection[T]{dm: dm, key: key}
}

// ensureLoaded carga el arreglo persistido y reconstruye la caché. Requiere mu tomado en escritura.
func (c *collection[T]) ensureLoaded(ctx context.Context) error {
	if c.loaded {
		return nil
	}
	var items []T
	if _, err := c.dm.Load(ctx, c.key, &items); err != nil {
		return fmt.Errorf("%s: %w", c.key, err)
	}
	c.byID = make(map[string]T, len(items))
	c.order = make([]string, 0, len(items))
	for _, it := range items {
		id := it.GetID()
		if _, dup := c.byID[id]; !dup {
			c.order = append(c.order, id)
		}
		c.byID[id] = it
	}
	c.loaded = true
	return nil
}

func (c *collection[T]) persist(ctx context.Context) error {
	items := make([]T, 0, len(c.order))
	for _, id := range c.order {
		items = append(items, c.byID[id])
	}
	if err := c.dm.Save(ctx, c.key, items); err != nil {
		// forzar recarga: la caché ya no refleja lo persistido
		c.loaded = false
		return fmt.Errorf("%s: %w", c.key, err)
	}
	return nil
}

func (c *collection[T]) save(ctx context.Context, items ...T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureLoaded(ctx); err != nil {
		return err
	}
	for _, it := range items {
		stored, err := clone(it)
		if err != nil {
			return err
		}
		id := it.GetID()
		if _, ok := c.byID[id]; !ok {
			c.order = append(c.order, id)
		}
		c.byID[id] = stored
	}
	return c.persist(ctx)
}

func (c *collection[T]) get(ctx context.Context, id string) (T, error) {
	var zero T
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureLoaded(ctx); err != nil {
		return zero, err
	}
	it, ok := c.byID[id]
	if !ok {
		return zero, domain.ErrNotFound
	}
	return clone(it)
}

func (c *collection[T]) list(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		it, err := clone(c.byID[id])
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, nil
}

func (c *collection[T]) delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureLoaded(ctx); err != nil {
		return err
	}
	if _, ok := c.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(c.byID, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return c.persist(ctx)
}

func (c *collection[T]) replaceAll(ctx context.Context, items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID = make(map[string]T, len(items))
	c.order = make([]string, 0, len(items))
	for _, it := range items {
		stored, err := clone(it)
		if err != nil {
			return err
		}
		id := it.GetID()
		if _, dup := c.byID[id]; !dup {
			c.order = append(c.order, id)
		}
		c.byID[id] = stored
	}
	c.loaded = true
	return c.persist(ctx)
}

// reload descarta la caché (el backend fue modificado por fuera, p. ej. Clear).
func (c *collection[T]) reload() {
	c.mu.Lock()
	c.loaded = false
	c.mu.Unlock()
}

// clone copia profunda vía JSON: los llamadores nunca comparten punteros con la caché.
func clone[T any](v T) (T, error) {
	var out T
	raw, err := json.Marshal(v)
	if err != nil {
		return out, fmt.Errorf("clonar registro: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("clonar registro: %w", err)
	}
	return out, nil
}

// sortByCreated ordena por fecha de creación ascendente (estable).
func sortByCreated[T any](items []T, created func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool { return created(items[i]).Before(created(items[j])) })
}
