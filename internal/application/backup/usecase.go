// Package backup exporta e importa el estado completo de la aplicación
// (negocios, clientes, productos, facturas y contadores) y mantiene el
// respaldo automático periódico.
package backup

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/billmaker-api/internal/application/dto"
	"github.com/jhoicas/billmaker-api/internal/domain"
	"github.com/jhoicas/billmaker-api/internal/domain/entity"
	"github.com/jhoicas/billmaker-api/internal/domain/repository"
	"github.com/jhoicas/billmaker-api/pkg/logger"
)

// Modos de restauración.
const (
	ModeMerge   = "merge"
	ModeReplace = "replace"
)

// KeyLastBackup clave del StateStore con la fecha del último respaldo.
const KeyLastBackup = "backup:last"

const filePrefix = "unifyx-backup-"

// Repositories colecciones que participan del respaldo.
type Repositories struct {
	Businesses repository.BusinessRepository
	Customers  repository.CustomerRepository
	Products   repository.ProductRepository
	Invoices   repository.InvoiceRepository
	Counters   repository.CounterRepository
}

// Options preferencias del respaldo.
type Options struct {
	Compress bool // valor por defecto cuando la solicitud no lo indica
	Retain   int  // respaldos a conservar en la rotación automática; <= 0 conserva todos
}

// BackupUseCase crea, lista y restaura respaldos.
type BackupUseCase struct {
	repos Repositories
	store BackupStore
	state StateStore
	opts  Options
	log   *logger.Logger
	now   func() time.Time

	mu sync.Mutex
}

// NewBackupUseCase construye el caso de uso.
func NewBackupUseCase(repos Repositories, store BackupStore, state StateStore, opts Options, log *logger.Logger) *BackupUseCase {
	return &BackupUseCase{
		repos: repos,
		store: store,
		state: state,
		opts:  opts,
		log:   log.Component("backup"),
		now:   time.Now,
	}
}

// ─── Crear ─────────────────────────────────────────────────────────────────

// Create toma una instantánea de todas las colecciones, la guarda en el store y
// registra la fecha bajo backup:last.
func (uc *BackupUseCase) Create(ctx context.Context, in dto.CreateBackupRequest) (*dto.BackupInfo, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	compress := uc.opts.Compress
	if in.Compress != nil {
		compress = *in.Compress
	}

	snap, err := uc.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := snap.encode(compress)
	if err != nil {
		return nil, err
	}

	name := filePrefix + snap.Metadata.CreatedAt.UTC().Format("20060102T150405.000000Z") + ".json"
	if compress {
		name += ".gz"
	}
	if err := uc.store.Put(ctx, name, payload); err != nil {
		return nil, fmt.Errorf("backup: guardar %s: %w", name, err)
	}
	if err := uc.state.Save(ctx, KeyLastBackup, snap.Metadata.CreatedAt); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo registrar la fecha del respaldo")
	}
	uc.state.LogEvent(ctx, "backup_created", map[string]any{"name": name, "size": len(payload)})

	uc.log.Info().Str("name", name).Int("bytes", len(payload)).Interface("counts", snap.Metadata.Counts).Msg("respaldo creado")
	return &dto.BackupInfo{
		Name:      name,
		CreatedAt: snap.Metadata.CreatedAt,
		Size:      int64(len(payload)),
		Counts:    snap.Metadata.Counts,
	}, nil
}

func (uc *BackupUseCase) snapshot(ctx context.Context) (*Snapshot, error) {
	var (
		d   Data
		err error
	)
	if d.Businesses, err = uc.repos.Businesses.List(ctx); err != nil {
		return nil, fmt.Errorf("backup: negocios: %w", err)
	}
	if d.Customers, err = uc.repos.Customers.List(ctx); err != nil {
		return nil, fmt.Errorf("backup: clientes: %w", err)
	}
	if d.Products, err = uc.repos.Products.List(ctx); err != nil {
		return nil, fmt.Errorf("backup: productos: %w", err)
	}
	if d.Invoices, err = uc.repos.Invoices.List(ctx); err != nil {
		return nil, fmt.Errorf("backup: facturas: %w", err)
	}
	if d.Counters, err = uc.repos.Counters.All(ctx); err != nil {
		return nil, fmt.Errorf("backup: contadores: %w", err)
	}
	sum, err := d.checksum()
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Metadata: Metadata{
			Version:   FormatVersion,
			App:       AppName,
			CreatedAt: uc.now(),
			Counts:    d.counts(),
			Checksum:  sum,
		},
		Data: d,
	}, nil
}

// ─── Restaurar ─────────────────────────────────────────────────────────────

// Restore valida el respaldo y lo aplica. replace sustituye todas las colecciones;
// merge inserta por ID conservando el registro con updated_at más reciente y
// toma el máximo de cada contador.
func (uc *BackupUseCase) Restore(ctx context.Context, payload []byte, mode string) (*dto.RestoreResult, error) {
	if mode == "" {
		mode = ModeMerge
	}
	if mode != ModeMerge && mode != ModeReplace {
		return nil, fmt.Errorf("%w: modo %q (merge|replace)", domain.ErrInvalidInput, mode)
	}
	snap, err := decode(payload)
	if err != nil {
		return nil, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	res := &dto.RestoreResult{Mode: mode, Restored: map[string]int{}, Skipped: map[string]int{}}
	if mode == ModeReplace {
		err = uc.replace(ctx, &snap.Data, res)
	} else {
		err = uc.merge(ctx, &snap.Data, res)
	}
	if err != nil {
		return nil, err
	}
	uc.state.LogEvent(ctx, "backup_restored", map[string]any{"mode": mode, "created_at": snap.Metadata.CreatedAt})
	uc.log.Info().Str("mode", mode).Interface("restored", res.Restored).Interface("skipped", res.Skipped).Msg("respaldo restaurado")
	return res, nil
}

// RestoreNamed restaura un respaldo almacenado.
func (uc *BackupUseCase) RestoreNamed(ctx context.Context, name, mode string) (*dto.RestoreResult, error) {
	payload, err := uc.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return uc.Restore(ctx, payload, mode)
}

func (uc *BackupUseCase) replace(ctx context.Context, d *Data, res *dto.RestoreResult) error {
	if err := uc.repos.Businesses.ReplaceAll(ctx, nonNil(d.Businesses)); err != nil {
		return fmt.Errorf("backup: negocios: %w", err)
	}
	if err := uc.repos.Customers.ReplaceAll(ctx, nonNil(d.Customers)); err != nil {
		return fmt.Errorf("backup: clientes: %w", err)
	}
	if err := uc.repos.Products.ReplaceAll(ctx, nonNil(d.Products)); err != nil {
		return fmt.Errorf("backup: productos: %w", err)
	}
	if err := uc.repos.Invoices.ReplaceAll(ctx, nonNil(d.Invoices)); err != nil {
		return fmt.Errorf("backup: facturas: %w", err)
	}
	counters := d.Counters
	if counters == nil {
		counters = map[string]int64{}
	}
	if err := uc.repos.Counters.SetAll(ctx, counters); err != nil {
		return fmt.Errorf("backup: contadores: %w", err)
	}
	for k, n := range d.counts() {
		res.Restored[k] = n
	}
	return nil
}

func (uc *BackupUseCase) merge(ctx context.Context, d *Data, res *dto.RestoreResult) error {
	businesses, err := uc.repos.Businesses.List(ctx)
	if err != nil {
		return err
	}
	merged, r, s := mergeByID(businesses, d.Businesses)
	if err := uc.repos.Businesses.ReplaceAll(ctx, merged); err != nil {
		return fmt.Errorf("backup: negocios: %w", err)
	}
	res.Restored["businesses"], res.Skipped["businesses"] = r, s
	if err := ensureSingleActive(ctx, uc.repos.Businesses); err != nil {
		return err
	}

	customers, err := uc.repos.Customers.List(ctx)
	if err != nil {
		return err
	}
	mc, r, s := mergeByID(customers, d.Customers)
	if err := uc.repos.Customers.ReplaceAll(ctx, mc); err != nil {
		return fmt.Errorf("backup: clientes: %w", err)
	}
	res.Restored["customers"], res.Skipped["customers"] = r, s

	products, err := uc.repos.Products.List(ctx)
	if err != nil {
		return err
	}
	mp, r, s := mergeByID(products, d.Products)
	if err := uc.repos.Products.ReplaceAll(ctx, mp); err != nil {
		return fmt.Errorf("backup: productos: %w", err)
	}
	res.Restored["products"], res.Skipped["products"] = r, s

	invoices, err := uc.repos.Invoices.List(ctx)
	if err != nil {
		return err
	}
	mi, r, s := mergeByID(invoices, d.Invoices)
	if err := uc.repos.Invoices.ReplaceAll(ctx, mi); err != nil {
		return fmt.Errorf("backup: facturas: %w", err)
	}
	res.Restored["invoices"], res.Skipped["invoices"] = r, s

	counters, err := uc.repos.Counters.All(ctx)
	if err != nil {
		return err
	}
	for k, v := range d.Counters {
		if v > counters[k] {
			counters[k] = v
			res.Restored["counters"]++
		} else {
			res.Skipped["counters"]++
		}
	}
	if err := uc.repos.Counters.SetAll(ctx, counters); err != nil {
		return fmt.Errorf("backup: contadores: %w", err)
	}
	return nil
}

type record interface {
	GetID() string
	GetUpdatedAt() time.Time
}

// mergeByID conserva el orden actual, reemplaza los registros cuyo entrante es
// más reciente y agrega los nuevos al final.
func mergeByID[T record](current, incoming []T) (merged []T, restored, skipped int) {
	index := make(map[string]int, len(current))
	merged = make([]T, 0, len(current)+len(incoming))
	for _, c := range current {
		index[c.GetID()] = len(merged)
		merged = append(merged, c)
	}
	for _, in := range incoming {
		i, ok := index[in.GetID()]
		switch {
		case !ok:
			index[in.GetID()] = len(merged)
			merged = append(merged, in)
			restored++
		case in.GetUpdatedAt().After(merged[i].GetUpdatedAt()):
			merged[i] = in
			restored++
		default:
			skipped++
		}
	}
	return merged, restored, skipped
}

// ensureSingleActive tras fusionar puede haber dos negocios activos; queda el más reciente.
func ensureSingleActive(ctx context.Context, repo repository.BusinessRepository) error {
	all, err := repo.List(ctx)
	if err != nil {
		return err
	}
	var active []*entity.Business
	for _, b := range all {
		if b.IsActive {
			active = append(active, b)
		}
	}
	if len(active) <= 1 {
		return nil
	}
	sort.Slice(active, func(i, j int) bool { return active[i].UpdatedAt.After(active[j].UpdatedAt) })
	for _, b := range active[1:] {
		b.IsActive = false
		if err := repo.Save(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// ─── Consultar y rotar ─────────────────────────────────────────────────────

// List respaldos almacenados, más recientes primero.
func (uc *BackupUseCase) List(ctx context.Context) ([]dto.BackupInfo, error) {
	objs, err := uc.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("backup: listar: %w", err)
	}
	out := make([]dto.BackupInfo, 0, len(objs))
	for _, o := range objs {
		if !strings.HasPrefix(o.Name, filePrefix) {
			continue
		}
		out = append(out, dto.BackupInfo{Name: o.Name, CreatedAt: o.ModifiedAt, Size: o.Size})
	}
	// el nombre lleva la fecha UTC, ordena igual que la creación
	sort.Slice(out, func(i, j int) bool { return out[i].Name > out[j].Name })
	return out, nil
}

// Get contenido de un respaldo almacenado.
func (uc *BackupUseCase) Get(ctx context.Context, name string) ([]byte, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	return uc.store.Get(ctx, name)
}

// DeleteOld conserva los retain respaldos más recientes y elimina el resto.
func (uc *BackupUseCase) DeleteOld(ctx context.Context, retain int) (int, error) {
	if retain < 1 {
		return 0, fmt.Errorf("%w: retain debe ser al menos 1", domain.ErrInvalidInput)
	}
	all, err := uc.List(ctx)
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, b := range all[min(retain, len(all)):] {
		if err := uc.store.Delete(ctx, b.Name); err != nil {
			return deleted, fmt.Errorf("backup: eliminar %s: %w", b.Name, err)
		}
		deleted++
	}
	if deleted > 0 {
		uc.log.Info().Int("deleted", deleted).Int("retain", retain).Msg("respaldos antiguos eliminados")
	}
	return deleted, nil
}

// LastBackupAt fecha del último respaldo, nil si nunca se hizo.
func (uc *BackupUseCase) LastBackupAt(ctx context.Context) (*time.Time, error) {
	var at time.Time
	ok, err := uc.state.Load(ctx, KeyLastBackup, &at)
	if err != nil {
		return nil, err
	}
	if !ok || at.IsZero() {
		return nil, nil
	}
	return &at, nil
}

// RunIfDue crea un respaldo si el último es más antiguo que interval y rota los
// anteriores. Lo invoca el scheduler de respaldo automático.
func (uc *BackupUseCase) RunIfDue(ctx context.Context, interval time.Duration) (bool, error) {
	last, err := uc.LastBackupAt(ctx)
	if err != nil {
		return false, err
	}
	if last != nil && uc.now().Sub(*last) < interval {
		return false, nil
	}
	if _, err := uc.Create(ctx, dto.CreateBackupRequest{}); err != nil {
		return false, err
	}
	if uc.opts.Retain > 0 {
		if _, err := uc.DeleteOld(ctx, uc.opts.Retain); err != nil {
			uc.log.Warn().Err(err).Msg("rotación de respaldos fallida")
		}
	}
	return true, nil
}

func validName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("%w: nombre de respaldo %q", domain.ErrInvalidInput, name)
	}
	return nil
}
