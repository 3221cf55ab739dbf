// Package readstate tracks when each staff member last opened a conversation.
package readstate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"concierge/utils"

	"github.com/go-redis/redis/v8"
)

// ReadState stores per-user last-read markers keyed by conversation id.
type ReadState interface {
	MarkRead(ctx context.Context, userID, conversationID string, at time.Time) error
	// LastRead returns every marker the user has. Missing conversations have never been read.
	LastRead(ctx context.Context, userID string) (map[string]time.Time, error)
}

// RedisReadState keeps one hash per user: field = conversation id, value = RFC3339 timestamp.
type RedisReadState struct {
	client *redis.Client
}

func NewRedisReadState(client *redis.Client) *RedisReadState {
	return &RedisReadState{client: client}
}

func key(userID string) string {
	return utils.ReadStatePrefix + userID
}

func (r *RedisReadState) MarkRead(ctx context.Context, userID, conversationID string, at time.Time) error {
	if err := r.client.HSet(ctx, key(userID), conversationID, at.UTC().Format(time.RFC3339Nano)).Err(); err != nil {
		return fmt.Errorf("failed to store read marker: %w", err)
	}
	return nil
}

func (r *RedisReadState) LastRead(ctx context.Context, userID string) (map[string]time.Time, error) {
	raw, err := r.client.HGetAll(ctx, key(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load read markers: %w", err)
	}
	out := make(map[string]time.Time, len(raw))
	for convID, v := range raw {
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			// A corrupt marker reads as never opened.
			continue
		}
		out[convID] = t
	}
	return out, nil
}

// MemoryReadState is the fallback when Redis is not reachable.
type MemoryReadState struct {
	mu      sync.RWMutex
	markers map[string]map[string]time.Time
}

func NewMemoryReadState() *MemoryReadState {
	return &MemoryReadState{markers: make(map[string]map[string]time.Time)}
}

func (m *MemoryReadState) MarkRead(_ context.Context, userID, conversationID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	userMarkers, ok := m.markers[userID]
	if !ok {
		userMarkers = make(map[string]time.Time)
		m.markers[userID] = userMarkers
	}
	userMarkers[conversationID] = at
	return nil
}

func (m *MemoryReadState) LastRead(_ context.Context, userID string) (map[string]time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]time.Time, len(m.markers[userID]))
	for k, v := range m.markers[userID] {
		out[k] = v
	}
	return out, nil
}
