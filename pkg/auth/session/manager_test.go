package session

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type memoryStore struct {
	values map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string]string{}}
}

func (m *memoryStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.values[key] = "1"
	return nil
}

func (m *memoryStore) Get(ctx context.Context, key string) (string, error) {
	val, ok := m.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *memoryStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

type prefixKeyer struct{}

func (prefixKeyer) SessionKey(accessID string) string { return "bt:session:" + accessID }

func newTestManager() (*Manager, *memoryStore) {
	store := newMemoryStore()
	return &Manager{store: store, keyer: prefixKeyer{}, ttl: time.Minute}, store
}

func TestSessionLifecycle(t *testing.T) {
	mgr, _ := newTestManager()
	ctx := context.Background()

	if err := mgr.Create(ctx, "jti-1"); err != nil {
		t.Fatalf("create session: %v", err)
	}

	ok, err := mgr.HasSession(ctx, "jti-1")
	if err != nil {
		t.Fatalf("has session: %v", err)
	}
	if !ok {
		t.Fatal("expected live session after create")
	}

	if err := mgr.Revoke(ctx, "jti-1"); err != nil {
		t.Fatalf("revoke session: %v", err)
	}

	ok, err = mgr.HasSession(ctx, "jti-1")
	if err != nil {
		t.Fatalf("has session after revoke: %v", err)
	}
	if ok {
		t.Fatal("expected session to be gone after revoke")
	}
}

func TestHasSessionMissingID(t *testing.T) {
	mgr, _ := newTestManager()
	ok, err := mgr.HasSession(context.Background(), " ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("blank access id should never have a session")
	}
}

func TestCreateRequiresAccessID(t *testing.T) {
	mgr, _ := newTestManager()
	if err := mgr.Create(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty access id")
	}
}
