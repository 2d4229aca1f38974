// Package cache wraps the Redis client used for request idempotency.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
	Timeout     time.Duration
	Prefix      string
}

// Client is a Redis client that namespaces every key with a prefix.
type Client struct {
	raw    *redis.Client
	prefix string
}

// New connects to Redis and pings it once so a bad address fails at startup.
func New(ctx context.Context, cfg Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return &Client{raw: rdb, prefix: cfg.Prefix}, nil
}

func (c *Client) Close() error {
	if c == nil || c.raw == nil {
		return nil
	}

	return c.raw.Close()
}

func (c *Client) key(k string) string {
	return c.prefix + k
}

// Idempotency maps generation idempotency keys to the invoice they produced.
type Idempotency struct {
	client *Client
	ttl    time.Duration
}

func NewIdempotency(client *Client, ttl time.Duration) *Idempotency {
	return &Idempotency{client: client, ttl: ttl}
}

const (
	pendingValue = "pending"
	// A reservation whose holder died is dropped after this long.
	pendingTTL = 2 * time.Minute
)

func idempotencyKey(key string) string {
	return "idempotency:invoice:" + key
}

// Reserve claims key with SET NX. When another caller holds it, the invoice id
// it completed with is returned, or uuid.Nil while it is still pending.
func (i *Idempotency) Reserve(ctx context.Context, key string) (uuid.UUID, bool, error) {
	k := i.client.key(idempotencyKey(key))

	for range 2 {
		ok, err := i.client.raw.SetNX(ctx, k, pendingValue, pendingTTL).Result()
		if err != nil {
			return uuid.Nil, false, fmt.Errorf("reserving idempotency key: %w", err)
		}

		if ok {
			return uuid.Nil, true, nil
		}

		val, err := i.client.raw.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			continue // expired between SETNX and GET
		}

		if err != nil {
			return uuid.Nil, false, fmt.Errorf("reading idempotency key: %w", err)
		}

		if val == pendingValue {
			return uuid.Nil, false, nil
		}

		id, err := uuid.Parse(val)
		if err != nil {
			return uuid.Nil, false, fmt.Errorf("parsing cached invoice id: %w", err)
		}

		return id, false, nil
	}

	return uuid.Nil, false, nil
}

// Complete stores the invoice id for a reserved key for the full ttl.
func (i *Idempotency) Complete(ctx context.Context, key string, invoiceID uuid.UUID) error {
	if err := i.client.raw.Set(ctx, i.client.key(idempotencyKey(key)), invoiceID.String(), i.ttl).Err(); err != nil {
		return fmt.Errorf("writing idempotency key: %w", err)
	}

	return nil
}

// Release drops a reservation so the key can be retried.
func (i *Idempotency) Release(ctx context.Context, key string) error {
	if err := i.client.raw.Del(ctx, i.client.key(idempotencyKey(key))).Err(); err != nil {
		return fmt.Errorf("releasing idempotency key: %w", err)
	}

	return nil
}
