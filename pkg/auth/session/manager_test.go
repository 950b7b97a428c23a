package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type mockStore struct {
	mu     sync.Mutex
	data   map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = ttl
	return nil
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", m.getErr
	}
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockStore) AccessSessionKey(accessID string) string {
	return fmt.Sprintf("sess:%s", accessID)
}

func TestManagerOpenAndRevoke(t *testing.T) {
	store := newMockStore()
	manager := &Manager{store: store, keyer: store, ttl: time.Hour}
	ctx := context.Background()

	if err := manager.Open(ctx, "access-123", "user-1"); err != nil {
		t.Fatalf("open: %v", err)
	}
	if got := store.data["sess:access-123"]; got != "user-1" {
		t.Fatalf("expected stored owner user-1, got %q", got)
	}
	if got := store.ttls["sess:access-123"]; got != time.Hour {
		t.Fatalf("expected ttl 1h, got %s", got)
	}

	ok, err := manager.HasSession(ctx, "access-123")
	if err != nil || !ok {
		t.Fatalf("expected active session, ok=%v err=%v", ok, err)
	}

	if err := manager.Revoke(ctx, "access-123"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	ok, err = manager.HasSession(ctx, "access-123")
	if err != nil || ok {
		t.Fatalf("expected revoked session, ok=%v err=%v", ok, err)
	}
}

func TestManagerHasSessionSurfacesStoreErrors(t *testing.T) {
	store := newMockStore()
	store.getErr = errors.New("redis down")
	manager := &Manager{store: store, keyer: store, ttl: time.Hour}

	if _, err := manager.HasSession(context.Background(), "abc"); err == nil {
		t.Fatalf("expected store error to surface")
	}
	if ok, err := manager.HasSession(context.Background(), " "); ok || err != nil {
		t.Fatalf("blank access id should report no session")
	}
}

func TestManagerRequiresAccessID(t *testing.T) {
	store := newMockStore()
	manager := &Manager{store: store, keyer: store, ttl: time.Hour}
	if err := manager.Open(context.Background(), "", "user"); err == nil {
		t.Fatalf("expected error for empty access id")
	}
	if err := manager.Revoke(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty access id")
	}
}
