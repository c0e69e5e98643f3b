package repo

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tazhibayda/gist-tracker/internal/config"
	"github.com/tazhibayda/gist-tracker/internal/log"
	"github.com/tazhibayda/gist-tracker/internal/metrics"
)

const (
	maxConnectRetries = 3
	baseRetryDelay    = time.Second
	maxRetryDelay     = 10 * time.Second
)

// Manager owns the one Store the process uses. The connection is
// established lazily on first Connect; concurrent callers while no
// connection exists share a single dial attempt instead of each opening
// their own. A failed attempt is not cached: the next Connect starts over.
type Manager struct {
	mu       sync.Mutex
	store    *Store
	inflight *attempt

	dial  func(ctx context.Context) (*Store, error)
	sleep func(d time.Duration)
}

type attempt struct {
	done  chan struct{}
	store *Store
	err   error
}

func NewManager(cfg config.Config) *Manager {
	return &Manager{
		dial: func(ctx context.Context) (*Store, error) {
			return NewStore(ctx, cfg.MongoURI, cfg.MongoDB, cfg.Mongo)
		},
		sleep: time.Sleep,
	}
}

// Connect returns the cached store, or joins the in-flight attempt, or
// starts a new one. The store it returns has been pinged; callers never
// see a half-initialized handle.
func (m *Manager) Connect(ctx context.Context) (*Store, error) {
	m.mu.Lock()
	if m.store != nil {
		s := m.store
		m.mu.Unlock()
		return s, nil
	}
	if m.inflight == nil {
		a := &attempt{done: make(chan struct{})}
		m.inflight = a
		go m.run(a)
	}
	a := m.inflight
	m.mu.Unlock()

	select {
	case <-a.done:
	case <-ctx.Done():
		// the attempt keeps going; a later call can still pick it up
		return nil, ctx.Err()
	}
	if a.err != nil {
		return nil, a.err
	}
	return a.store, nil
}

func (m *Manager) run(a *attempt) {
	var (
		s     *Store
		err   error
		delay = baseRetryDelay
	)
	for i := 0; i <= maxConnectRetries; i++ {
		if i > 0 {
			m.sleep(delay)
			delay *= 2
			if delay > maxRetryDelay {
				delay = maxRetryDelay
			}
		}
		s, err = m.dial(context.Background())
		if err == nil {
			metrics.StoreConnectAttempts.WithLabelValues("ok").Inc()
			log.L().Info("store connected", zap.Int("attempt", i+1))
			break
		}
		metrics.StoreConnectAttempts.WithLabelValues("error").Inc()
		log.L().Warn("store connect failed", zap.Int("attempt", i+1), zap.Error(err))
	}

	m.mu.Lock()
	if err == nil {
		m.store = s
	}
	m.inflight = nil
	m.mu.Unlock()

	a.store, a.err = s, err
	close(a.done)
}

func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	s := m.store
	m.store = nil
	m.mu.Unlock()
	if s == nil {
		return nil
	}
	log.L().Info("store disconnecting")
	return s.Close(ctx)
}
