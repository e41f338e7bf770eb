// Package scheduler tareas periódicas en segundo plano.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jhoicas/billmaker-api/pkg/logger"
)

// BackupRunner crea un respaldo cuando el último supera la antigüedad indicada.
// Lo implementa backup.BackupUseCase.
type BackupRunner interface {
	RunIfDue(ctx context.Context, interval time.Duration) (bool, error)
}

// BackupScheduler revisa cada checkEvery si corresponde un respaldo automático.
type BackupScheduler struct {
	runner     BackupRunner
	interval   time.Duration
	checkEvery time.Duration
	log        *logger.Logger

	mu        sync.Mutex
	isRunning bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewBackupScheduler construye el scheduler; no arranca hasta Start.
func NewBackupScheduler(runner BackupRunner, interval, checkEvery time.Duration, log *logger.Logger) *BackupScheduler {
	if checkEvery <= 0 {
		checkEvery = time.Hour
	}
	return &BackupScheduler{
		runner:     runner,
		interval:   interval,
		checkEvery: checkEvery,
		log:        log.Component("backup_scheduler"),
	}
}

// Start ejecuta una verificación inmediata y luego una por cada tick.
func (s *BackupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return errors.New("scheduler: ya está en ejecución")
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.isRunning = true
	s.wg.Add(1)
	go s.runLoop(ctx)
	s.log.Info().Dur("interval", s.interval).Dur("check_every", s.checkEvery).Msg("respaldo automático iniciado")
	return nil
}

// Stop detiene el ciclo y espera a que termine la ejecución en curso o venza ctx.
func (s *BackupScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.cancel()
	s.isRunning = false
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		s.log.Info().Msg("respaldo automático detenido")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRunning indica si el ciclo está activo.
func (s *BackupScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

func (s *BackupScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.checkEvery)
	defer ticker.Stop()

	s.check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.check(ctx)
		}
	}
}

func (s *BackupScheduler) check(ctx context.Context) {
	ran, err := s.runner.RunIfDue(ctx, s.interval)
	if err != nil {
		if ctx.Err() == nil {
			s.log.Error().Err(err).Msg("respaldo automático fallido")
		}
		return
	}
	if ran {
		s.log.Info().Msg("respaldo automático creado")
	}
}
