package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"seller-console/internal/models"

	"github.com/go-redis/redis/v8"
)

// Key patterns and TTLs for console state kept in Redis.
const (
	keySession       = "session:%s"
	keyStatusCatalog = "catalog:delivery_status"
)

var (
	// TTLStatusCatalog bounds how stale the cached catalog may get. The
	// catalog is immutable from the console's perspective within a session.
	TTLStatusCatalog = 5 * time.Minute
)

type Client struct {
	rdb        *redis.Client
	sessionTTL time.Duration
}

// NewClient creates a Redis client and verifies connectivity.
func NewClient(addr, password string, db int, sessionTTL time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb, sessionTTL: sessionTTL}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// SaveSession stores a session under its ID with the configured TTL.
func (c *Client) SaveSession(ctx context.Context, session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return c.rdb.Set(ctx, fmt.Sprintf(keySession, session.ID), data, c.sessionTTL).Err()
}

// GetSession retrieves a session by ID. A missing or expired session
// returns redis.Nil wrapped in the error chain.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	data, err := c.rdb.Get(ctx, fmt.Sprintf(keySession, sessionID)).Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// DeleteSession removes a session at logout.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	return c.rdb.Del(ctx, fmt.Sprintf(keySession, sessionID)).Err()
}

// SetStatusCatalog caches the delivery-status catalog.
func (c *Client) SetStatusCatalog(ctx context.Context, entries []models.DeliveryStatus) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	return c.rdb.Set(ctx, keyStatusCatalog, data, TTLStatusCatalog).Err()
}

// GetStatusCatalog returns the cached catalog, if present.
func (c *Client) GetStatusCatalog(ctx context.Context) ([]models.DeliveryStatus, error) {
	data, err := c.rdb.Get(ctx, keyStatusCatalog).Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to get cached catalog: %w", err)
	}
	var entries []models.DeliveryStatus
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}
	return entries, nil
}
