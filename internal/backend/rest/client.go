package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/votemonitor/internal/logger"
	"github.com/votemonitor/internal/model"
)

const rpcPath = "/rest/v1/rpc/claim_demo_account"

// Client calls claim_demo_account through a PostgREST-compatible RPC endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a client for baseURL. httpClient may be nil.
func NewClient(baseURL, apiKey string, timeout time.Duration, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

type claimRequest struct {
	Cookie string `json:"cookie"`
}

type claimRow struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (c *Client) ClaimDemoAccount(ctx context.Context, token string) (*model.Credentials, error) {
	defer logger.DeferLogDuration("rest.ClaimDemoAccount", time.Now())()
	body, err := json.Marshal(claimRequest{Cookie: token})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+rpcPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("rest claim request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rest claim: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("rest claim: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	var rows []claimRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("rest claim decode: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	creds := &model.Credentials{}
	if rows[0].Email != nil {
		creds.Email = *rows[0].Email
	}
	if rows[0].Password != nil {
		creds.Password = *rows[0].Password
	}
	return creds, nil
}
