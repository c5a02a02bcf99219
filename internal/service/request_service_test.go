package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eregistrar/eregistrar-api/internal/dto"
	"github.com/eregistrar/eregistrar-api/internal/models"
	"github.com/eregistrar/eregistrar-api/pkg/config"
	appErrors "github.com/eregistrar/eregistrar-api/pkg/errors"
)

type requestStoreStub struct {
	mu       sync.Mutex
	data     map[string][]models.DocumentRequest
	loadErr  error
	saveErr  error
	saves    int
	loadGate chan struct{}
}

func newRequestStoreStub() *requestStoreStub {
	return &requestStoreStub{data: map[string][]models.DocumentRequest{}}
}

func (s *requestStoreStub) Load(ctx context.Context, identityID string) ([]models.DocumentRequest, error) {
	s.mu.Lock()
	gate := s.loadGate
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	items := make([]models.DocumentRequest, len(s.data[identityID]))
	copy(items, s.data[identityID])
	return items, nil
}

func (s *requestStoreStub) Save(ctx context.Context, identityID string, items []models.DocumentRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	copied := make([]models.DocumentRequest, len(items))
	copy(copied, items)
	s.data[identityID] = copied
	return nil
}

func (s *requestStoreStub) stored(identityID string) []models.DocumentRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[identityID]
}

func testEngineConfig(delay time.Duration) config.RequestsConfig {
	return config.RequestsConfig{
		ProcessingDelay: delay,
		PickupOffset:    72 * time.Hour,
	}
}

func sampleFields() dto.RequestFields {
	return dto.RequestFields{
		FirstName: "Ana",
		LastName:  "Cruz",
		StudentID: "2021-00123",
		Email:     "ana.cruz@example.edu",
		Document:  "Transcript of Records",
		Reason:    "Scholarship application",
	}
}

func waitForStatus(t *testing.T, engine *RequestEngine, id string, want models.RequestStatus) *models.DocumentRequest {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		item, err := engine.Get(id)
		require.NoError(t, err)
		if item.Status == want {
			return item
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("request %s never reached status %s", id, want)
	return nil
}

func TestRequestEngineCreateStartsProcessing(t *testing.T) {
	store := newRequestStoreStub()
	engine := NewRequestEngine("user-1", store, nil, nil, testEngineConfig(time.Hour))
	defer engine.Close()

	item, err := engine.Create(context.Background(), sampleFields())
	require.NoError(t, err)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, models.StatusProcessing, item.Status)
	assert.Equal(t, "Ana", item.FirstName)
	assert.Equal(t, "Cruz", item.LastName)
	assert.Len(t, store.stored("user-1"), 1)
}

func TestRequestEngineCreateRejectsInvalidFields(t *testing.T) {
	store := newRequestStoreStub()
	engine := NewRequestEngine("user-1", store, nil, nil, testEngineConfig(time.Hour))
	defer engine.Close()

	fields := sampleFields()
	fields.Document = ""

	_, err := engine.Create(context.Background(), fields)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, engine.Snapshot())
}

func TestRequestEnginePromotesToReceiveAfterDelay(t *testing.T) {
	created := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	store := newRequestStoreStub()
	engine := NewRequestEngine("user-1", store, nil, nil, testEngineConfig(20*time.Millisecond),
		WithEngineClock(func() time.Time { return created }))
	defer engine.Close()

	item, err := engine.Create(context.Background(), sampleFields())
	require.NoError(t, err)

	promoted := waitForStatus(t, engine, item.ID, models.StatusToReceive)
	assert.Equal(t, "2025-03-13", promoted.Date)
	assert.Equal(t, item.ID, promoted.ID)
}

func TestRequestEngineTransitionsAreForwardOnly(t *testing.T) {
	store := newRequestStoreStub()
	engine := NewRequestEngine("user-1", store, nil, nil, testEngineConfig(10*time.Millisecond))
	defer engine.Close()

	item, err := engine.Create(context.Background(), sampleFields())
	require.NoError(t, err)

	waitForStatus(t, engine, item.ID, models.StatusToReceive)

	claimed, err := engine.Claim(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, claimed.Status)

	// A second claim must fail and leave the status untouched.
	_, err = engine.Claim(context.Background(), item.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)

	got, err := engine.Get(item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
}

func TestRequestEngineClaimRequiresToReceive(t *testing.T) {
	store := newRequestStoreStub()
	engine := NewRequestEngine("user-1", store, nil, nil, testEngineConfig(time.Hour))
	defer engine.Close()

	item, err := engine.Create(context.Background(), sampleFields())
	require.NoError(t, err)

	_, err = engine.Claim(context.Background(), item.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)

	got, err := engine.Get(item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, got.Status)
}

func TestRequestEngineEditPreservesIdentityAndStatus(t *testing.T) {
	store := newRequestStoreStub()
	engine := NewRequestEngine("user-1", store, nil, nil, testEngineConfig(time.Hour))
	defer engine.Close()

	item, err := engine.Create(context.Background(), sampleFields())
	require.NoError(t, err)

	fields := sampleFields()
	fields.Reason = "Employment requirement"
	updated, err := engine.Edit(context.Background(), item.ID, fields)
	require.NoError(t, err)

	assert.Equal(t, item.ID, updated.ID)
	assert.Equal(t, item.Status, updated.Status)
	assert.Equal(t, item.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "Employment requirement", updated.Reason)
}

func TestRequestEngineEditRejectedAfterPromotion(t *testing.T) {
	store := newRequestStoreStub()
	engine := NewRequestEngine("user-1", store, nil, nil, testEngineConfig(10*time.Millisecond))
	defer engine.Close()

	item, err := engine.Create(context.Background(), sampleFields())
	require.NoError(t, err)

	waitForStatus(t, engine, item.ID, models.StatusToReceive)

	_, err = engine.Edit(context.Background(), item.ID, sampleFields())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)
}

func TestRequestEngineDeleteCancelsPendingPromotion(t *testing.T) {
	store := newRequestStoreStub()
	engine := NewRequestEngine("user-1", store, nil, nil, testEngineConfig(30*time.Millisecond))
	defer engine.Close()

	item, err := engine.Create(context.Background(), sampleFields())
	require.NoError(t, err)

	require.NoError(t, engine.Delete(context.Background(), item.ID))

	// Let the original promotion deadline pass; nothing may reappear.
	time.Sleep(80 * time.Millisecond)
	assert.Empty(t, engine.Snapshot())

	_, err = engine.Get(item.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestRequestEngineDeleteRejectedOnceReady(t *testing.T) {
	store := newRequestStoreStub()
	engine := NewRequestEngine("user-1", store, nil, nil, testEngineConfig(10*time.Millisecond))
	defer engine.Close()

	item, err := engine.Create(context.Background(), sampleFields())
	require.NoError(t, err)

	waitForStatus(t, engine, item.ID, models.StatusToReceive)

	err = engine.Delete(context.Background(), item.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)
	assert.Len(t, engine.Snapshot(), 1)
}

func TestRequestEngineListProjectsTabsWithoutLoss(t *testing.T) {
	store := newRequestStoreStub()
	store.data["user-1"] = []models.DocumentRequest{
		{ID: "a", Document: "Transcript", Status: models.StatusProcessing},
		{ID: "b", Document: "Diploma", Status: models.StatusRequesting},
		{ID: "c", Document: "Good Moral", Status: models.StatusToReceive},
		{ID: "d", Document: "Form 137", Status: models.StatusCompleted},
	}

	engine := NewRequestEngine("user-1", store, nil, nil, testEngineConfig(time.Hour))
	defer engine.Close()
	engine.Load(context.Background())

	processing := engine.List(models.TabProcessing)
	toReceive := engine.List(models.TabToReceive)
	completed := engine.List(models.TabCompleted)

	// Legacy "Requesting" rows show up under processing.
	assert.Len(t, processing, 2)
	assert.Len(t, toReceive, 1)
	assert.Len(t, completed, 1)

	total := len(processing) + len(toReceive) + len(completed)
	assert.Equal(t, len(engine.Snapshot()), total)
}

func TestRequestEngineLoadFailureStartsEmpty(t *testing.T) {
	store := newRequestStoreStub()
	store.loadErr = errors.New("connection refused")

	engine := NewRequestEngine("user-1", store, nil, nil, testEngineConfig(time.Hour))
	defer engine.Close()
	engine.Load(context.Background())

	assert.Empty(t, engine.Snapshot())

	// The engine stays usable even when the backing store is down.
	store.loadErr = nil
	store.saveErr = errors.New("connection refused")
	item, err := engine.Create(context.Background(), sampleFields())
	require.NoError(t, err)

	got, err := engine.Get(item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, got.Status)
}

func TestRequestEngineCloseStopsMutationsAndTimers(t *testing.T) {
	store := newRequestStoreStub()
	engine := NewRequestEngine("user-1", store, nil, nil, testEngineConfig(30*time.Millisecond))

	item, err := engine.Create(context.Background(), sampleFields())
	require.NoError(t, err)

	savesBefore := func() int {
		store.mu.Lock()
		defer store.mu.Unlock()
		return store.saves
	}()

	engine.Close()

	_, err = engine.Create(context.Background(), sampleFields())
	require.Error(t, err)

	// Closing never writes, and the pending promotion is cancelled.
	time.Sleep(80 * time.Millisecond)
	store.mu.Lock()
	savesAfter := store.saves
	stored := store.data["user-1"]
	store.mu.Unlock()

	assert.Equal(t, savesBefore, savesAfter)
	require.Len(t, stored, 1)
	assert.Equal(t, item.ID, stored[0].ID)
	assert.Equal(t, models.StatusProcessing, stored[0].Status)
}

func TestRequestEngineLoadIsIdempotent(t *testing.T) {
	store := newRequestStoreStub()
	store.data["user-1"] = []models.DocumentRequest{
		{ID: "r1", Document: "Transcript of Records", Status: models.StatusProcessing},
		{ID: "r2", Document: "Certificate of Enrollment", Status: models.StatusToReceive},
	}
	engine := NewRequestEngine("user-1", store, nil, nil, testEngineConfig(time.Hour))
	defer engine.Close()

	engine.Load(context.Background())
	first := engine.Snapshot()

	engine.Load(context.Background())
	second := engine.Snapshot()

	assert.Equal(t, first, second)
	require.Len(t, second, 2)

	// Loading reads only; it never writes back.
	store.mu.Lock()
	saves := store.saves
	store.mu.Unlock()
	assert.Zero(t, saves)
}

func TestRequestEngineEditOverwritesAllMutableFields(t *testing.T) {
	store := newRequestStoreStub()
	engine := NewRequestEngine("user-1", store, nil, nil, testEngineConfig(time.Hour))
	defer engine.Close()

	fields := sampleFields()
	fields.Date = "2025-04-01"
	fields.Phone = "09171234567"
	item, err := engine.Create(context.Background(), fields)
	require.NoError(t, err)

	// A resubmitted form replaces every mutable field, blanks included.
	updated, err := engine.Edit(context.Background(), item.ID, sampleFields())
	require.NoError(t, err)
	assert.Empty(t, updated.Date)
	assert.Empty(t, updated.Phone)

	stored := store.stored("user-1")
	require.Len(t, stored, 1)
	assert.Empty(t, stored[0].Date)
}
