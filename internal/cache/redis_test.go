package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uvdesk/uvledger/internal/cache"
	"github.com/uvdesk/uvledger/internal/invoice"
)

var _ invoice.IdempotencyCache = (*cache.Idempotency)(nil)

func TestNew_Unreachable(t *testing.T) {
	_, err := cache.New(context.Background(), cache.Config{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		Timeout:     200 * time.Millisecond,
	})
	assert.Error(t, err)
}

func TestIdempotency_RoundTrip(t *testing.T) {
	addr := os.Getenv("LEDGER_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("LEDGER_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()

	client, err := cache.New(ctx, cache.Config{
		Addr:        addr,
		DialTimeout: time.Second,
		Timeout:     time.Second,
		Prefix:      "uvledger-test:",
	})
	require.NoError(t, err)

	t.Cleanup(func() { client.Close() })

	idem := cache.NewIdempotency(client, time.Minute)
	key := uuid.NewString()

	_, reserved, err := idem.Reserve(ctx, key)
	require.NoError(t, err)
	assert.True(t, reserved)

	// A concurrent caller sees the key held with no invoice yet.
	id, reserved, err := idem.Reserve(ctx, key)
	require.NoError(t, err)
	assert.False(t, reserved)
	assert.Equal(t, uuid.Nil, id)

	invoiceID := uuid.New()
	require.NoError(t, idem.Complete(ctx, key, invoiceID))

	id, reserved, err = idem.Reserve(ctx, key)
	require.NoError(t, err)
	assert.False(t, reserved)
	assert.Equal(t, invoiceID, id)
}

func TestIdempotency_Release(t *testing.T) {
	addr := os.Getenv("LEDGER_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("LEDGER_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()

	client, err := cache.New(ctx, cache.Config{
		Addr:        addr,
		DialTimeout: time.Second,
		Timeout:     time.Second,
		Prefix:      "uvledger-test:",
	})
	require.NoError(t, err)

	t.Cleanup(func() { client.Close() })

	idem := cache.NewIdempotency(client, time.Minute)
	key := uuid.NewString()

	_, reserved, err := idem.Reserve(ctx, key)
	require.NoError(t, err)
	require.True(t, reserved)

	require.NoError(t, idem.Release(ctx, key))

	_, reserved, err = idem.Reserve(ctx, key)
	require.NoError(t, err)
	assert.True(t, reserved)
}
