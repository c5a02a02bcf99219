package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eregistrar/eregistrar-api/internal/models"
	appErrors "github.com/eregistrar/eregistrar-api/pkg/errors"
)

func TestExportServiceClaimSlipReadyRequest(t *testing.T) {
	store := newRequestStoreStub()
	engine := NewRequestEngine("user-1", store, nil, nil, testEngineConfig(10*time.Millisecond))
	defer engine.Close()

	item, err := engine.Create(context.Background(), sampleFields())
	require.NoError(t, err)
	waitForStatus(t, engine, item.ID, models.StatusToReceive)

	svc := NewExportService(nil, nil, nil)
	rendered, err := svc.ClaimSlip(context.Background(), engine, item.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(rendered), "%PDF"))
}

func TestExportServiceClaimSlipRequiresReadyRequest(t *testing.T) {
	store := newRequestStoreStub()
	engine := NewRequestEngine("user-1", store, nil, nil, testEngineConfig(time.Hour))
	defer engine.Close()

	item, err := engine.Create(context.Background(), sampleFields())
	require.NoError(t, err)

	svc := NewExportService(nil, nil, nil)
	_, err = svc.ClaimSlip(context.Background(), engine, item.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)

	_, err = svc.ClaimSlip(context.Background(), engine, "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestExportServiceHistoryIncludesEveryRequest(t *testing.T) {
	store := newRequestStoreStub()
	store.data["user-1"] = []models.DocumentRequest{
		{ID: "a", FirstName: "Ana", LastName: "Cruz", StudentID: "2021-00123", Document: "Transcript", Status: models.StatusProcessing, CreatedAt: time.Now().UTC()},
		{ID: "b", FirstName: "Ana", LastName: "Cruz", StudentID: "2021-00123", Document: "Diploma", Status: models.StatusCompleted, CreatedAt: time.Now().UTC()},
	}
	engine := NewRequestEngine("user-1", store, nil, nil, testEngineConfig(time.Hour))
	defer engine.Close()
	engine.Load(context.Background())

	svc := NewExportService(nil, nil, nil)
	rendered, err := svc.History(context.Background(), engine)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(rendered)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Reference No.")
	assert.Contains(t, string(rendered), "Transcript")
	assert.Contains(t, string(rendered), "Diploma")
}
