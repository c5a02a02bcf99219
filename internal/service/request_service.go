package service

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eregistrar/eregistrar-api/internal/dto"
	"github.com/eregistrar/eregistrar-api/internal/models"
	"github.com/eregistrar/eregistrar-api/pkg/config"
	appErrors "github.com/eregistrar/eregistrar-api/pkg/errors"
	"github.com/eregistrar/eregistrar-api/pkg/scheduler"
)

// pickupDateLayout is the wire format of the promised pickup date.
const pickupDateLayout = "2006-01-02"

// RequestStore abstracts the per-identity collection persistence so tests
// can substitute an in-memory backend.
type RequestStore interface {
	Load(ctx context.Context, identityID string) ([]models.DocumentRequest, error)
	Save(ctx context.Context, identityID string, items []models.DocumentRequest) error
}

// RequestEngine owns one identity's in-memory request collection and
// enforces the lifecycle: Processing -> To Receive -> Completed, forward
// only. Every mutation is applied in memory first and then written through
// to the store; a failed write is logged and the in-memory state stays
// authoritative. All mutations and reads serialize on one mutex, so store
// writes for an identity never overlap and a later write always wins.
type RequestEngine struct {
	identityID string
	store      RequestStore
	tasks      *scheduler.TaskTable
	validator  *validator.Validate
	logger     *zap.Logger
	metrics    *MetricsService
	cfg        config.RequestsConfig
	now        func() time.Time

	mu     sync.Mutex
	items  []models.DocumentRequest
	closed bool
}

// RequestEngineOption configures the engine.
type RequestEngineOption func(*RequestEngine)

// WithEngineClock overrides the time source (tests).
func WithEngineClock(now func() time.Time) RequestEngineOption {
	return func(e *RequestEngine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithEngineMetrics attaches lifecycle instrumentation.
func WithEngineMetrics(metrics *MetricsService) RequestEngineOption {
	return func(e *RequestEngine) {
		e.metrics = metrics
	}
}

// NewRequestEngine constructs an engine bound to one identity. The caller
// must invoke Load before serving operations.
func NewRequestEngine(identityID string, store RequestStore, validate *validator.Validate, logger *zap.Logger, cfg config.RequestsConfig, opts ...RequestEngineOption) *RequestEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.ProcessingDelay <= 0 {
		cfg.ProcessingDelay = 72 * time.Hour
	}
	if cfg.PickupOffset <= 0 {
		cfg.PickupOffset = 72 * time.Hour
	}
	engine := &RequestEngine{
		identityID: identityID,
		store:      store,
		tasks:      scheduler.NewTaskTable(logger),
		validator:  validate,
		logger:     logger.With(zap.String("identity_id", identityID)),
		cfg:        cfg,
		now:        time.Now,
		items:      []models.DocumentRequest{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(engine)
		}
	}
	return engine
}

// IdentityID returns the identity this engine is bound to.
func (e *RequestEngine) IdentityID() string {
	return e.identityID
}

// Load replaces the in-memory collection with the persisted one. A store
// failure is reported to the log only; the engine falls back to an empty
// collection.
func (e *RequestEngine) Load(ctx context.Context) {
	items, err := e.store.Load(ctx, e.identityID)
	if err != nil {
		e.logger.Warn("failed to load request collection", zap.Error(err))
		items = []models.DocumentRequest{}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.items = items
}

// Create submits a new request. Status starts at Processing (the transient
// Requesting default never persists) and the deferred promotion to
// To Receive is scheduled from the creation time.
func (e *RequestEngine) Create(ctx context.Context, fields dto.RequestFields) (*models.DocumentRequest, error) {
	if err := e.validator.Struct(fields); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request payload")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, appErrors.ErrNoIdentity
	}

	createdAt := e.now().UTC()
	item := models.DocumentRequest{
		ID:        uuid.NewString(),
		FirstName: fields.FirstName,
		LastName:  fields.LastName,
		StudentID: fields.StudentID,
		Email:     fields.Email,
		Phone:     fields.Phone,
		Document:  fields.Document,
		Date:      fields.Date,
		Reason:    fields.Reason,
		Status:    models.StatusProcessing,
		CreatedAt: createdAt,
	}
	if item.Date == "" {
		item.Date = createdAt.Format(pickupDateLayout)
	}

	e.items = append(e.items, item)
	e.persist(ctx)
	e.metrics.ObserveRequestCreated()

	e.tasks.Schedule(item.ID, e.cfg.ProcessingDelay, func() {
		e.promote(item.ID, createdAt)
	})

	created := item
	return &created, nil
}

// promote is the deferred-transition callback. It re-checks that the
// entity still exists and is still promotable: a request deleted before
// the task fires must not be resurrected.
func (e *RequestEngine) promote(id string, createdAt time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	idx := e.indexOf(id)
	if idx < 0 {
		return
	}
	if !e.items[idx].Advance(models.StatusToReceive) {
		return
	}
	e.items[idx].Date = createdAt.Add(e.cfg.PickupOffset).Format(pickupDateLayout)
	e.persist(context.Background())
	e.metrics.ObserveTransition(models.StatusToReceive)
	e.logger.Info("request ready for pickup",
		zap.String("request_id", id),
		zap.String("pickup_date", e.items[idx].Date))
}

// Edit overwrites the mutable fields of a request. The id and current
// status are preserved; only requests still in Processing may be edited.
func (e *RequestEngine) Edit(ctx context.Context, id string, fields dto.RequestFields) (*models.DocumentRequest, error) {
	if err := e.validator.Struct(fields); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request payload")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, appErrors.ErrNoIdentity
	}

	idx := e.indexOf(id)
	if idx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
	}
	if !e.items[idx].Status.Editable() {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "only processing requests can be edited")
	}

	item := &e.items[idx]
	item.FirstName = fields.FirstName
	item.LastName = fields.LastName
	item.StudentID = fields.StudentID
	item.Email = fields.Email
	item.Phone = fields.Phone
	item.Document = fields.Document
	item.Reason = fields.Reason
	item.Date = fields.Date

	e.persist(ctx)
	updated := *item
	return &updated, nil
}

// Delete removes a request entirely and cancels its pending deferred
// transition. Only requests still in Processing may be deleted.
func (e *RequestEngine) Delete(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return appErrors.ErrNoIdentity
	}

	idx := e.indexOf(id)
	if idx < 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "request not found")
	}
	if !e.items[idx].Status.Editable() {
		return appErrors.Clone(appErrors.ErrInvalidTransition, "only processing requests can be deleted")
	}

	e.tasks.Cancel(id)
	e.items = append(e.items[:idx], e.items[idx+1:]...)
	e.persist(ctx)
	return nil
}

// Claim advances a To Receive request to Completed.
func (e *RequestEngine) Claim(ctx context.Context, id string) (*models.DocumentRequest, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, appErrors.ErrNoIdentity
	}

	idx := e.indexOf(id)
	if idx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
	}
	if !e.items[idx].Advance(models.StatusCompleted) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "request is not ready to claim")
	}

	e.persist(ctx)
	e.metrics.ObserveTransition(models.StatusCompleted)
	claimed := e.items[idx]
	return &claimed, nil
}

// Get returns one request by id.
func (e *RequestEngine) Get(id string) (*models.DocumentRequest, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, appErrors.ErrNoIdentity
	}
	idx := e.indexOf(id)
	if idx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
	}
	item := e.items[idx]
	return &item, nil
}

// List projects the collection onto one tab. The returned slice is a copy.
func (e *RequestEngine) List(tab models.Tab) []models.DocumentRequest {
	return models.ProjectTab(e.Snapshot(), tab)
}

// Snapshot copies the full collection.
func (e *RequestEngine) Snapshot() []models.DocumentRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.DocumentRequest, len(e.items))
	copy(out, e.items)
	return out
}

// Close drops the in-memory collection and cancels pending tasks. The
// persisted collection for this identity is untouched, so signing back in
// reloads exactly what was last saved.
func (e *RequestEngine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.items = nil
	e.tasks.Close()
}

// persist writes through to the store. Persistence failures never undo
// in-memory mutations; they are surfaced to the log only.
func (e *RequestEngine) persist(ctx context.Context) {
	if err := e.store.Save(ctx, e.identityID, e.items); err != nil {
		e.logger.Warn("failed to persist request collection", zap.Error(err))
	}
}

// indexOf must be called with the mutex held.
func (e *RequestEngine) indexOf(id string) int {
	for i := range e.items {
		if e.items[i].ID == id {
			return i
		}
	}
	return -1
}
