package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/eregistrar/eregistrar-api/internal/models"
	appErrors "github.com/eregistrar/eregistrar-api/pkg/errors"
)

// EngineFactory builds a lifecycle engine bound to one identity.
type EngineFactory func(identityID string) *RequestEngine

// identityBinding pairs an engine with the one-time initial load. Callers
// that race on first use all wait on loadOnce, so no mutation can run
// against a collection that is still being read from the store.
type identityBinding struct {
	engine   *RequestEngine
	loadOnce sync.Once
}

// BindingService associates request engines with authenticated identities.
// An engine is created and its collection loaded when an identity becomes
// available; signing out closes the engine, dropping in-memory state while
// leaving the identity's persisted collection untouched. Operations with
// no identity fail with NoIdentity.
type BindingService struct {
	factory EngineFactory
	logger  *zap.Logger

	mu      sync.Mutex
	engines map[string]*identityBinding
}

// NewBindingService constructs the binding registry.
func NewBindingService(factory EngineFactory, logger *zap.Logger) *BindingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BindingService{
		factory: factory,
		logger:  logger,
		engines: make(map[string]*identityBinding),
	}
}

// Engine returns the engine bound to the identity, creating and loading it
// on first use.
func (b *BindingService) Engine(ctx context.Context, identityID string) (*RequestEngine, error) {
	if identityID == "" {
		return nil, appErrors.ErrNoIdentity
	}

	b.mu.Lock()
	bound, ok := b.engines[identityID]
	if !ok {
		bound = &identityBinding{engine: b.factory(identityID)}
		b.engines[identityID] = bound
	}
	b.mu.Unlock()

	// Load outside the registry lock: a slow store must not stall
	// unrelated identities. Every caller waits here until the first
	// load has finished, so the engine is never handed out with a
	// stale or half-read collection.
	bound.loadOnce.Do(func() {
		bound.engine.Load(ctx)
		b.logger.Info("identity bound", zap.String("identity_id", identityID))
	})
	return bound.engine, nil
}

// Release closes and forgets the engine for an identity. The stored
// collection is not rewritten.
func (b *BindingService) Release(identityID string) {
	b.mu.Lock()
	bound, ok := b.engines[identityID]
	if ok {
		delete(b.engines, identityID)
	}
	b.mu.Unlock()

	if ok {
		bound.engine.Close()
		b.logger.Info("identity released", zap.String("identity_id", identityID))
	}
}

// HandleIdentityEvent reacts to auth notifications: sign-in preloads the
// identity's collection, sign-out drops it.
func (b *BindingService) HandleIdentityEvent(event models.IdentityEvent) {
	switch event.Type {
	case models.IdentitySignedIn:
		if _, err := b.Engine(context.Background(), event.IdentityID); err != nil {
			b.logger.Warn("failed to bind identity", zap.String("identity_id", event.IdentityID), zap.Error(err))
		}
	case models.IdentitySignedOut:
		b.Release(event.IdentityID)
	}
}

// Close releases every bound identity (shutdown).
func (b *BindingService) Close() {
	b.mu.Lock()
	engines := make([]*RequestEngine, 0, len(b.engines))
	for id, bound := range b.engines {
		engines = append(engines, bound.engine)
		delete(b.engines, id)
	}
	b.mu.Unlock()

	for _, engine := range engines {
		engine.Close()
	}
}
