package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jobpilot/jobpilot-api/internal/core/domain"
	"github.com/jobpilot/jobpilot-api/internal/core/ports"
)

const stateTTL = 10 * time.Minute

var _ ports.OAuthStateStore = (*StateStore)(nil)

// StateStore keeps OAuth anti-forgery state values.
// Key format: oauth_state:<state>
type StateStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStateStore(client *redis.Client) *StateStore {
	return &StateStore{client: client, ttl: stateTTL}
}

// Save records state; it expires after stateTTL if never consumed. Store
// failures wrap domain.ErrUnavailable.
func (s *StateStore) Save(ctx context.Context, state string) error {
	ok, err := s.client.SetNX(ctx, s.key(state), "1", s.ttl).Result()
	if err != nil {
		return fmt.Errorf("save oauth state: %w: %w", domain.ErrUnavailable, err)
	}
	if !ok {
		return fmt.Errorf("save oauth state: state already exists")
	}
	return nil
}

// Consume deletes state and reports whether it was present. A state can be
// consumed once.
func (s *StateStore) Consume(ctx context.Context, state string) (bool, error) {
	if state == "" {
		return false, nil
	}
	_, err := s.client.GetDel(ctx, s.key(state)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("consume oauth state: %w: %w", domain.ErrUnavailable, err)
	}
	return true, nil
}

func (s *StateStore) key(state string) string {
	return "oauth_state:" + state
}
