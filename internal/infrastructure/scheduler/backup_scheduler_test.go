package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/billmaker-api/internal/infrastructure/scheduler"
	"github.com/jhoicas/billmaker-api/pkg/logger"
)

type countingRunner struct {
	calls atomic.Int32
	err   error
}

func (r *countingRunner) RunIfDue(_ context.Context, _ time.Duration) (bool, error) {
	r.calls.Add(1)
	return r.err == nil, r.err
}

func TestBackupScheduler_VerificaAlIniciarYEnCadaTick(t *testing.T) {
	r := &countingRunner{}
	s := scheduler.NewBackupScheduler(r, time.Hour, 10*time.Millisecond, logger.Nop())

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start(context.Background()))

	assert.Eventually(t, func() bool { return r.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	require.NoError(t, s.Stop(context.Background()))
	assert.False(t, s.IsRunning())
	n := r.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, n, r.calls.Load())

	// detener dos veces no falla
	require.NoError(t, s.Stop(context.Background()))
}

func TestBackupScheduler_ErroresNoDetienenElCiclo(t *testing.T) {
	r := &countingRunner{err: errors.New("disco lleno")}
	s := scheduler.NewBackupScheduler(r, time.Hour, 5*time.Millisecond, logger.Nop())

	require.NoError(t, s.Start(context.Background()))
	assert.Eventually(t, func() bool { return r.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))
}

func TestBackupScheduler_ContextoPadreCancelado(t *testing.T) {
	r := &countingRunner{}
	ctx, cancel := context.WithCancel(context.Background())
	s := scheduler.NewBackupScheduler(r, time.Hour, time.Hour, logger.Nop())

	require.NoError(t, s.Start(ctx))
	assert.Eventually(t, func() bool { return r.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	require.NoError(t, s.Stop(stopCtx))
}
