// Package client is the typed Go client for the orders API, with an
// in-memory cache of the caller's custom orders for UI consumption.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sugarplum-bakes/orders-api/models"
)

// Client talks to the orders API on behalf of one authenticated user.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// New creates a Client for the given API base URL and bearer token.
func New(baseURL, token string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		Token:      token,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type listEnvelope struct {
	Success bool                 `json:"success"`
	Count   int                  `json:"count"`
	Data    []models.CustomOrder `json:"data"`
	Error   string               `json:"error"`
}

// MyCustomOrders fetches the authenticated user's custom orders,
// newest-first.
func (c *Client) MyCustomOrders(ctx context.Context) ([]models.CustomOrder, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/custom-orders/my-orders", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch custom orders: %w", err)
	}
	defer resp.Body.Close()

	var envelope listEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !envelope.Success {
		if envelope.Error != "" {
			return nil, fmt.Errorf("%s", envelope.Error)
		}
		return nil, fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	return envelope.Data, nil
}
