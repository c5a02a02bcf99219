package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/eregistrar/eregistrar-api/internal/models"
)

// RequestStore persists one identity's full request collection under a
// single key. The collection is small enough that whole-value read/write
// is adequate; there is no merge, a later write always wins.
type RequestStore struct {
	client *redis.Client
}

// NewRequestStore constructs the store.
func NewRequestStore(client *redis.Client) *RequestStore {
	return &RequestStore{client: client}
}

func requestKey(identityID string) string {
	return "requests:" + identityID
}

// Load reads the persisted collection for the identity. A missing key
// yields an empty collection, not an error.
func (s *RequestStore) Load(ctx context.Context, identityID string) ([]models.DocumentRequest, error) {
	raw, err := s.client.Get(ctx, requestKey(identityID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return []models.DocumentRequest{}, nil
		}
		return nil, fmt.Errorf("load requests for %s: %w", identityID, err)
	}

	var items []models.DocumentRequest
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode requests for %s: %w", identityID, err)
	}
	if items == nil {
		items = []models.DocumentRequest{}
	}
	return items, nil
}

// Save serializes and replaces the identity's whole collection.
func (s *RequestStore) Save(ctx context.Context, identityID string, items []models.DocumentRequest) error {
	if items == nil {
		items = []models.DocumentRequest{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode requests for %s: %w", identityID, err)
	}
	if err := s.client.Set(ctx, requestKey(identityID), payload, 0).Err(); err != nil {
		return fmt.Errorf("save requests for %s: %w", identityID, err)
	}
	return nil
}
