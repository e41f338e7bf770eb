package backup

import (
	"context"
	"time"
)

// StoredObject archivo de respaldo dentro de un BackupStore.
type StoredObject struct {
	Name       string
	Size       int64
	ModifiedAt time.Time
}

// BackupStore destino de los archivos de respaldo (directorio local o bucket S3).
// Get devuelve domain.ErrNotFound si el archivo no existe.
type BackupStore interface {
	Put(ctx context.Context, name string, data []byte) error
	Get(ctx context.Context, name string) ([]byte, error)
	List(ctx context.Context) ([]StoredObject, error)
	Delete(ctx context.Context, name string) error
}

// StateStore registro de estado y eventos de la aplicación; lo implementa el DataManager.
type StateStore interface {
	Save(ctx context.Context, key string, v any) error
	Load(ctx context.Context, key string, v any) (bool, error)
	LogEvent(ctx context.Context, eventType string, details map[string]any)
}
