package kvstore

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MaxEvents cantidad de eventos conservados; los más antiguos se descartan.
const MaxEvents = 200

// Event entrada del registro de eventos.
type Event struct {
	ID      string         `json:"id"`
	Type    string         `json:"type"`
	Details map[string]any `json:"details,omitempty"`
	At      time.Time      `json:"at"`
}

// LogEvent agrega un evento al registro. Los errores de escritura solo se registran en el log.
func (m *DataManager) LogEvent(ctx context.Context, eventType string, details map[string]any) {
	m.eventsMu.Lock()
	defer m.eventsMu.Unlock()

	var events []Event
	if _, err := m.Load(ctx, KeyEvents, &events); err != nil {
		m.log.Warn().Err(err).Msg("registro de eventos ilegible; se reinicia")
		events = nil
	}
	events = append(events, Event{
		ID:      uuid.New().String(),
		Type:    eventType,
		Details: details,
		At:      time.Now().UTC(),
	})
	if len(events) > MaxEvents {
		events = events[len(events)-MaxEvents:]
	}
	if _, _, err := m.save(ctx, KeyEvents, events); err != nil {
		m.log.Warn().Err(err).Str("event", eventType).Msg("no se pudo registrar el evento")
	}
}

// Events devuelve los eventos más recientes primero (limit <= 0 = todos).
func (m *DataManager) Events(ctx context.Context, limit int) ([]Event, error) {
	m.eventsMu.Lock()
	defer m.eventsMu.Unlock()

	var events []Event
	if _, err := m.Load(ctx, KeyEvents, &events); err != nil {
		return nil, err
	}
	out := make([]Event, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		out = append(out, events[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
