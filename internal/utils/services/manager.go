// Package services manages the lifetime of a long-running binary: the root context, the logger
// and the shutdown sequence triggered by SIGINT or SIGTERM.
package services

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/deeper-chain/deeper-archive/internal/utils/log"
)

type (
	SystemManager interface {
		// Context is used to start and stop the fx app.
		Context() context.Context
		// ServiceContext is canceled once the shutdown begins.
		ServiceContext() context.Context
		Logger() *zap.Logger
		AddPreShutdownHook(hook func())
		WaitForInterrupt()
		Shutdown()
	}

	manager struct {
		ctx           context.Context
		serviceCtx    context.Context
		cancelService context.CancelFunc
		logger        *zap.Logger

		mu    sync.Mutex
		hooks []func()
		once  sync.Once
		done  chan struct{}
	}
)

const (
	envVarDevelopmentLog = "DEEPER_ARCHIVE_DEVELOPMENT_LOG"
)

var _ SystemManager = (*manager)(nil)

func NewManager() SystemManager {
	logger, err := log.New(os.Getenv(envVarDevelopmentLog) != "")
	if err != nil {
		panic(err)
	}

	return newManager(logger)
}

// NewMockSystemManager returns a manager with a no-op logger, intended for tests.
func NewMockSystemManager() SystemManager {
	return newManager(zap.NewNop())
}

func newManager(logger *zap.Logger) *manager {
	serviceCtx, cancel := context.WithCancel(context.Background())
	return &manager{
		ctx:           context.Background(),
		serviceCtx:    serviceCtx,
		cancelService: cancel,
		logger:        logger,
		done:          make(chan struct{}),
	}
}

func (m *manager) Context() context.Context {
	return m.ctx
}

func (m *manager) ServiceContext() context.Context {
	return m.serviceCtx
}

func (m *manager) Logger() *zap.Logger {
	return m.logger
}

func (m *manager) AddPreShutdownHook(hook func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, hook)
}

func (m *manager) WaitForInterrupt() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	select {
	case sig := <-signals:
		m.logger.Info("received signal", zap.String("signal", sig.String()))
		m.Shutdown()
	case <-m.done:
	}
}

// Shutdown cancels the service context and runs the hooks in reverse order of registration.
func (m *manager) Shutdown() {
	m.once.Do(func() {
		m.cancelService()

		m.mu.Lock()
		hooks := make([]func(), len(m.hooks))
		copy(hooks, m.hooks)
		m.mu.Unlock()

		for i := len(hooks) - 1; i >= 0; i-- {
			hooks[i]()
		}

		_ = m.logger.Sync()
		close(m.done)
	})
}
