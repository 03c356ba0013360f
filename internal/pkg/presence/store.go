// Package presence tracks which conversation a user currently has open.
package presence

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const viewingKeyPrefix = "viewing:"

// DefaultTTL is how long a viewing mark survives without a refresh.
const DefaultTTL = 60 * time.Second

// clearIfMatch deletes KEYS[1] only while it still holds ARGV[1].
var clearIfMatch = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type entry struct {
	conversationID string
	expiresAt      time.Time
}

// Store keeps viewing marks in Redis when a client is set, in memory otherwise.
type Store struct {
	redisClient *redis.Client
	ttl         time.Duration
	now         func() time.Time

	mu    sync.RWMutex
	local map[string]entry
}

// NewStore builds a store. A nil client selects the in-memory backend.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		redisClient: client,
		ttl:         ttl,
		now:         time.Now,
		local:       map[string]entry{},
	}
}

// SetViewing marks userID as looking at conversationID.
func (s *Store) SetViewing(ctx context.Context, userID, conversationID string) error {
	if s.redisClient != nil {
		return s.redisClient.Set(ctx, viewingKeyPrefix+userID, conversationID, s.ttl).Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.local[userID] = entry{conversationID: conversationID, expiresAt: s.now().Add(s.ttl)}
	return nil
}

// ClearViewing removes the mark for userID if it still points at conversationID.
// A mark for another conversation is left alone.
func (s *Store) ClearViewing(ctx context.Context, userID, conversationID string) error {
	if s.redisClient != nil {
		err := clearIfMatch.Run(ctx, s.redisClient, []string{viewingKeyPrefix + userID}, conversationID).Err()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.local[userID]; ok && e.conversationID == conversationID {
		delete(s.local, userID)
	}
	return nil
}

// Viewing returns the conversation userID has open, if any.
func (s *Store) Viewing(ctx context.Context, userID string) (string, bool, error) {
	if s.redisClient != nil {
		val, err := s.redisClient.Get(ctx, viewingKeyPrefix+userID).Result()
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		return val, true, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.local[userID]
	if !ok || !s.now().Before(e.expiresAt) {
		return "", false, nil
	}
	return e.conversationID, true, nil
}

// IsViewing reports whether userID currently has conversationID open.
func (s *Store) IsViewing(ctx context.Context, userID, conversationID string) (bool, error) {
	current, ok, err := s.Viewing(ctx, userID)
	if err != nil || !ok {
		return false, err
	}
	return current == conversationID, nil
}
