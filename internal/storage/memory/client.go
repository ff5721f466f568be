package memory

import (
	"context"
	"sync"
	"time"

	"github.com/votemonitor/internal/model"
)

type item struct {
	val model.Credentials
	exp time.Time
}

type Client struct {
	mu    sync.RWMutex
	items map[string]item
	now   func() time.Time
}

func New() *Client {
	return &Client{items: make(map[string]item), now: time.Now}
}

func (c *Client) Close() error { return nil }

func (c *Client) GetCredentials(ctx context.Context, token string) (*model.Credentials, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[token]
	if !ok || c.now().After(v.exp) {
		return nil, nil
	}
	creds := v.val
	return &creds, nil
}

func (c *Client) SetCredentials(ctx context.Context, token string, creds *model.Credentials, ttl time.Duration) error {
	if creds == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[token] = item{val: *creds, exp: c.now().Add(ttl)}
	c.gcLocked()
	return nil
}

func (c *Client) DeleteCredentials(ctx context.Context, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, token)
	return nil
}

// gcLocked drops expired entries so the map does not grow with one-off visitors.
func (c *Client) gcLocked() {
	now := c.now()
	for k, v := range c.items {
		if now.After(v.exp) {
			delete(c.items, k)
		}
	}
}
