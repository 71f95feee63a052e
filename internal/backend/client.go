// Package backend talks to the commerce REST API that owns orders.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"

	"order-view-service/internal/dto"
	"order-view-service/internal/model"
)

var (
	ErrOrderNotFound = errors.New("order not found in backend")
	ErrUnavailable   = errors.New("backend unavailable")
)

// Client fetches order snapshots from the backend API.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchOrder loads orders/{id} and converts it to a typed order.
func (c *Client) FetchOrder(ctx context.Context, orderID string) (*model.Order, error) {
	endpoint := fmt.Sprintf("%s/orders/%s", c.baseURL, url.PathEscape(orderID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "build order request")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrapf(ErrUnavailable, "fetch order %s: %v", orderID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrOrderNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, pkgerrors.Wrapf(ErrUnavailable, "status %d for order %s", resp.StatusCode, orderID)
	}

	var payload dto.OrderPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, pkgerrors.Wrap(err, "decode order payload")
	}
	if payload.ID == "" {
		payload.ID = orderID
	}
	return payload.ToModel(), nil
}
