package backup

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/jhoicas/billmaker-api/internal/domain"
	"github.com/jhoicas/billmaker-api/internal/domain/entity"
)

// FormatVersion versión del formato de respaldo. Se aceptan respaldos de la misma
// versión mayor o anteriores.
const FormatVersion = "2.1.0"

// AppName identifica los respaldos generados por esta aplicación.
const AppName = "unifyx-billmaker"

// Metadata cabecera del respaldo.
type Metadata struct {
	Version   string         `json:"version"`
	App       string         `json:"app"`
	CreatedAt time.Time      `json:"created_at"`
	Counts    map[string]int `json:"counts"`
	Checksum  string         `json:"checksum"` // SHA-256 hex de la sección de datos
}

// Data colecciones respaldadas.
type Data struct {
	Businesses []*entity.Business `json:"businesses"`
	Customers  []*entity.Customer `json:"customers"`
	Products   []*entity.Product  `json:"products"`
	Invoices   []*entity.Invoice  `json:"invoices"`
	Counters   map[string]int64   `json:"counters"`
}

// Snapshot documento completo: metadatos y colecciones al mismo nivel.
type Snapshot struct {
	Metadata Metadata `json:"metadata"`
	Data
}

func (d *Data) counts() map[string]int {
	return map[string]int{
		"businesses": len(d.Businesses),
		"customers":  len(d.Customers),
		"products":   len(d.Products),
		"invoices":   len(d.Invoices),
		"counters":   len(d.Counters),
	}
}

func (d *Data) checksum() (string, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("backup: serializar datos: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// encode serializa el respaldo, comprimido con gzip si se pide.
func (s *Snapshot) encode(compress bool) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("backup: serializar: %w", err)
	}
	if !compress {
		return raw, nil
	}
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return nil, fmt.Errorf("backup: gzip: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("backup: gzip: %w", err)
	}
	return buf.Bytes(), nil
}

// decode lee un respaldo (JSON plano o gzip) y verifica versión, aplicación y checksum.
func decode(payload []byte) (*Snapshot, error) {
	if len(payload) >= 2 && payload[0] == 0x1f && payload[1] == 0x8b {
		zr, err := gzip.NewReader(bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %v", domain.ErrInvalidBackup, err)
		}
		defer zr.Close()
		if payload, err = io.ReadAll(zr); err != nil {
			return nil, fmt.Errorf("%w: gzip: %v", domain.ErrInvalidBackup, err)
		}
	}

	var s Snapshot
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidBackup, err)
	}
	m := s.Metadata
	if m.Version == "" || m.App == "" || m.Checksum == "" {
		return nil, fmt.Errorf("%w: metadatos incompletos", domain.ErrInvalidBackup)
	}
	if m.App != AppName {
		return nil, fmt.Errorf("%w: aplicación %q", domain.ErrInvalidBackup, m.App)
	}
	if major(m.Version) > major(FormatVersion) {
		return nil, fmt.Errorf("%w: respaldo %s, soportado hasta %s", domain.ErrIncompatibleVersion, m.Version, FormatVersion)
	}
	sum, err := s.Data.checksum()
	if err != nil {
		return nil, err
	}
	if sum != m.Checksum {
		return nil, fmt.Errorf("%w: checksum no coincide", domain.ErrInvalidBackup)
	}
	return &s, nil
}

func major(v string) int {
	head, _, _ := strings.Cut(strings.TrimPrefix(v, "v"), ".")
	n, err := strconv.Atoi(head)
	if err != nil {
		return 0
	}
	return n
}
