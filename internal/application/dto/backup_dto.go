package dto

import "time"

// BackupInfo metadatos de un respaldo almacenado.
type BackupInfo struct {
	Name      string         `json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	Size      int64          `json:"size"`
	Counts    map[string]int `json:"counts,omitempty"`
}

// CreateBackupRequest opciones del respaldo manual.
type CreateBackupRequest struct {
	Compress *bool `json:"compress"`
}

// RestoreResult resumen de una restauración.
type RestoreResult struct {
	Mode     string         `json:"mode"`
	Restored map[string]int `json:"restored"`
	Skipped  map[string]int `json:"skipped,omitempty"`
}
