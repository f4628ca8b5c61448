package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetshop/banhtet-backend/pkg/redis"
)

type memoryKV struct {
	values map[string]string
}

func newMemoryKV() *memoryKV {
	return &memoryKV{values: map[string]string{}}
}

func (m *memoryKV) Get(ctx context.Context, key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", redis.ErrNotFound
	}
	return v, nil
}

func (m *memoryKV) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	switch v := value.(type) {
	case []byte:
		m.values[key] = string(v)
	case string:
		m.values[key] = v
	}
	return nil
}

func (m *memoryKV) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

func (m *memoryKV) CartKey(token string) string {
	return "bt:cart:" + token
}

func TestStoreLoad_missingTokenYieldsEmptyCart(t *testing.T) {
	store, err := NewStore(newMemoryKV(), time.Hour)
	require.NoError(t, err)

	cart, err := store.Load(context.Background(), "unknown-token")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	assert.NotNil(t, cart.Items)
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	store, err := NewStore(newMemoryKV(), time.Hour)
	require.NoError(t, err)
	ctx := context.Background()
	token := uuid.NewString()

	cart := New()
	cart.AddItem(Item{ProductID: uuid.New(), Slug: "banh-tet-dau-xanh", Name: "Bánh Tét Đậu Xanh", UnitPrice: 100000}, 2)
	date := "2026-02-14"
	tierID := uuid.New()
	cart.SetDeliveryDate(&date, &tierID)

	require.NoError(t, store.Save(ctx, token, cart))

	loaded, err := store.Load(ctx, token)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, 2, loaded.Items[0].Quantity)
	assert.Equal(t, int64(100000), loaded.Items[0].UnitPrice)
	require.NotNil(t, loaded.DeliveryDate)
	assert.Equal(t, date, *loaded.DeliveryDate)
	require.NotNil(t, loaded.DeliveryTierID)
	assert.Equal(t, tierID, *loaded.DeliveryTierID)
}

func TestStoreLoad_corruptPayloadResets(t *testing.T) {
	kv := newMemoryKV()
	store, err := NewStore(kv, time.Hour)
	require.NoError(t, err)

	kv.values[kv.CartKey("token")] = "{not json"

	cart, err := store.Load(context.Background(), "token")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestStoreDelete(t *testing.T) {
	kv := newMemoryKV()
	store, err := NewStore(kv, time.Hour)
	require.NoError(t, err)
	ctx := context.Background()

	cart := New()
	cart.AddItem(Item{ProductID: uuid.New(), Name: "Bánh Tét", UnitPrice: 80000}, 1)
	require.NoError(t, store.Save(ctx, "token", cart))
	require.NoError(t, store.Delete(ctx, "token"))

	loaded, err := store.Load(ctx, "token")
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())
}

func TestNewStoreValidation(t *testing.T) {
	_, err := NewStore(nil, time.Hour)
	assert.Error(t, err)

	_, err = NewStore(newMemoryKV(), 0)
	assert.Error(t, err)
}
