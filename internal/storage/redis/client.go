package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/votemonitor/internal/model"
)

const credentialsPrefix = "demo_credentials:"

type Client struct {
	cli *redis.Client
}

func New(ctx context.Context, url string) (*Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis parse url: %w", err)
	}
	cli := redis.NewClient(opts)
	if err := cli.Ping(ctx).Err(); err != nil {
		if closeErr := cli.Close(); closeErr != nil {
			return nil, fmt.Errorf("redis ping: %w (close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Client{cli: cli}, nil
}

// NewFromClient wraps an existing go-redis client.
func NewFromClient(cli *redis.Client) *Client {
	return &Client{cli: cli}
}

func (c *Client) Close() error {
	return c.cli.Close()
}

func key(token string) string {
	return credentialsPrefix + token
}

// GetCredentials reads demo_credentials:{token}. A missing key is a miss, not an error.
func (c *Client) GetCredentials(ctx context.Context, token string) (*model.Credentials, error) {
	raw, err := c.cli.Get(ctx, key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get credentials: %w", err)
	}
	var creds model.Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return nil, fmt.Errorf("redis decode credentials: %w", err)
	}
	return &creds, nil
}

func (c *Client) SetCredentials(ctx context.Context, token string, creds *model.Credentials, ttl time.Duration) error {
	raw, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("redis encode credentials: %w", err)
	}
	return c.cli.Set(ctx, key(token), raw, ttl).Err()
}

func (c *Client) DeleteCredentials(ctx context.Context, token string) error {
	return c.cli.Del(ctx, key(token)).Err()
}
