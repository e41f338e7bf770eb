package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/billmaker-api/internal/domain"
	"github.com/jhoicas/billmaker-api/pkg/logger"
)

// DataVersion versión del formato de los sobres persistidos.
const DataVersion = "2.1.0"

// DefaultCompressThreshold tamaño a partir del cual se comprime el payload.
const DefaultCompressThreshold = 50 * 1024

// Claves reservadas dentro del namespace.
const (
	KeyEvents   = "events"
	KeyCounters = "counters"
)

type envelope struct {
	Version    string          `json:"version"`
	SavedAt    time.Time       `json:"saved_at"`
	Compressed bool            `json:"compressed"`
	Data       json.RawMessage `json:"data"`
}

// Options configuración del DataManager.
type Options struct {
	Namespace         string // prefijo de todas las claves, por defecto "unifyx:"
	CompressThreshold int    // bytes; <= 0 usa DefaultCompressThreshold
	Logger            *logger.Logger
}

// DataManager envuelve un Store con serialización JSON, versionado, compresión
// y registro de eventos. Todos los managers leen y escriben a través de él.
type DataManager struct {
	store     Store
	namespace string
	threshold int
	log       *logger.Logger

	eventsMu   sync.Mutex
	countersMu sync.Mutex
}

// NewDataManager construye el DataManager sobre el backend indicado.
func NewDataManager(store Store, opts Options) *DataManager {
	ns := opts.Namespace
	if ns == "" {
		ns = "unifyx:"
	}
	th := opts.CompressThreshold
	if th <= 0 {
		th = DefaultCompressThreshold
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &DataManager{store: store, namespace: ns, threshold: th, log: log.Component("data_manager")}
}

func (m *DataManager) key(k string) string { return m.namespace + k }

// Save serializa v y lo guarda bajo key dentro de un sobre versionado.
func (m *DataManager) Save(ctx context.Context, key string, v any) error {
	n, compressed, err := m.save(ctx, key, v)
	if err != nil {
		return err
	}
	m.LogEvent(ctx, "save", map[string]any{"key": key, "bytes": n, "compressed": compressed})
	return nil
}

func (m *DataManager) save(ctx context.Context, key string, v any) (int, bool, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, false, fmt.Errorf("data manager: serializar %s: %w", key, err)
	}

	env := envelope{Version: DataVersion, SavedAt: time.Now().UTC()}
	if len(payload) > m.threshold {
		enc, err := Compress(payload)
		if err != nil {
			return 0, false, fmt.Errorf("data manager: comprimir %s: %w", key, err)
		}
		quoted, _ := json.Marshal(enc)
		env.Compressed = true
		env.Data = quoted
	} else {
		env.Data = payload
	}

	raw, err := json.Marshal(env)
	if err != nil {
		return 0, false, fmt.Errorf("data manager: sobre %s: %w", key, err)
	}
	if err := m.store.Set(ctx, m.key(key), raw); err != nil {
		m.log.Error().Err(err).Str("key", key).Msg("error guardando en el backend")
		return 0, false, fmt.Errorf("data manager: guardar %s: %w", key, err)
	}
	return len(raw), env.Compressed, nil
}

// Load lee key y lo deserializa en v. Devuelve false si la clave no existe.
// Acepta JSON plano sin sobre (formato heredado).
func (m *DataManager) Load(ctx context.Context, key string, v any) (bool, error) {
	raw, ok, err := m.store.Get(ctx, m.key(key))
	if err != nil {
		return false, fmt.Errorf("data manager: leer %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}

	payload, err := m.unwrap(key, raw)
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return false, fmt.Errorf("data manager: deserializar %s: %w", key, err)
	}
	return true, nil
}

func (m *DataManager) unwrap(key string, raw []byte) ([]byte, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Version == "" || env.Data == nil {
		// sin sobre: JSON heredado
		return raw, nil
	}
	if !Compatible(env.Version) {
		return nil, fmt.Errorf("%w: %s guardado con %s (actual %s)", domain.ErrIncompatibleVersion, key, env.Version, DataVersion)
	}
	if !env.Compressed {
		return env.Data, nil
	}
	var enc string
	if err := json.Unmarshal(env.Data, &enc); err != nil {
		return nil, fmt.Errorf("data manager: payload comprimido %s: %w", key, err)
	}
	out, err := Decompress(enc)
	if err != nil {
		return nil, fmt.Errorf("data manager: descomprimir %s: %w", key, err)
	}
	return out, nil
}

// Remove borra key.
func (m *DataManager) Remove(ctx context.Context, key string) error {
	if err := m.store.Delete(ctx, m.key(key)); err != nil {
		return fmt.Errorf("data manager: borrar %s: %w", key, err)
	}
	m.LogEvent(ctx, "remove", map[string]any{"key": key})
	return nil
}

// Keys lista las claves (sin namespace) que empiezan con prefix.
func (m *DataManager) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys, err := m.store.Keys(ctx, m.key(prefix))
	if err != nil {
		return nil, fmt.Errorf("data manager: listar claves: %w", err)
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, strings.TrimPrefix(k, m.namespace))
	}
	return out, nil
}

// Clear borra todas las claves del namespace.
func (m *DataManager) Clear(ctx context.Context) error {
	keys, err := m.store.Keys(ctx, m.namespace)
	if err != nil {
		return fmt.Errorf("data manager: listar claves: %w", err)
	}
	for _, k := range keys {
		if err := m.store.Delete(ctx, k); err != nil {
			return fmt.Errorf("data manager: borrar %s: %w", k, err)
		}
	}
	m.log.Warn().Int("keys", len(keys)).Msg("almacenamiento vaciado")
	m.LogEvent(ctx, "clear", map[string]any{"keys": len(keys)})
	return nil
}

// StorageStats uso del almacenamiento.
type StorageStats struct {
	Keys       int            `json:"keys"`
	TotalBytes int            `json:"total_bytes"`
	ByKey      map[string]int `json:"by_key"`
}

// Stats calcula cantidad de claves y bytes usados dentro del namespace.
func (m *DataManager) Stats(ctx context.Context) (StorageStats, error) {
	keys, err := m.store.Keys(ctx, m.namespace)
	if err != nil {
		return StorageStats{}, fmt.Errorf("data manager: listar claves: %w", err)
	}
	st := StorageStats{ByKey: make(map[string]int, len(keys))}
	for _, k := range keys {
		raw, ok, err := m.store.Get(ctx, k)
		if err != nil {
			return StorageStats{}, fmt.Errorf("data manager: leer %s: %w", k, err)
		}
		if !ok {
			continue
		}
		st.Keys++
		st.TotalBytes += len(raw)
		st.ByKey[strings.TrimPrefix(k, m.namespace)] = len(raw)
	}
	return st, nil
}

// Compatible indica si un sobre con la versión dada se puede leer (misma versión mayor o anterior).
func Compatible(version string) bool {
	return major(version) <= major(DataVersion)
}

func major(v string) int {
	head, _, _ := strings.Cut(strings.TrimPrefix(v, "v"), ".")
	n, err := strconv.Atoi(head)
	if err != nil {
		return 0
	}
	return n
}
