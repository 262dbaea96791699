// Package client talks to the ledger service so the front-ends can share one
// ledger process instead of opening the store themselves
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sheikh-saqib/cooin-ledger/internal/api"
	"github.com/sheikh-saqib/cooin-ledger/internal/fault"
	interfaces "github.com/sheikh-saqib/cooin-ledger/internal/interfaces"
	"github.com/sheikh-saqib/cooin-ledger/internal/models"
)

const (
	taskAttempts   = 3
	taskRetryDelay = 100 * time.Millisecond
)

// Client is a WalletService backed by the HTTP API. It keeps the session
// token of every wallet it has logged in
type Client struct {
	baseURL string
	http    *http.Client

	mu      sync.Mutex
	tokens  map[string]string // address -> bearer token
	flights map[string]string // flight id -> address
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  make(map[string]string),
		flights: make(map[string]string),
	}
}

func (c *Client) WalletCount(ctx context.Context) (int, error) {
	var resp api.CountResponse
	if err := c.do(ctx, http.MethodGet, "/wallets/count", "", nil, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (c *Client) Register(ctx context.Context) (*models.Wallet, error) {
	var resp api.SessionResponse
	if err := c.do(ctx, http.MethodPost, "/wallets", "", nil, nil, &resp); err != nil {
		return nil, err
	}
	c.remember(resp)
	return resp.Wallet, nil
}

func (c *Client) Authenticate(ctx context.Context, address string) (*models.Wallet, error) {
	var resp api.SessionResponse
	req := api.SessionRequest{Address: address}
	if err := c.do(ctx, http.MethodPost, "/sessions", "", nil, req, &resp); err != nil {
		return nil, err
	}
	c.remember(resp)
	return resp.Wallet, nil
}

func (c *Client) LaunchFlight(ctx context.Context, address string) (*models.Flight, error) {
	var flight models.Flight
	if err := c.do(ctx, http.MethodPost, "/wallets/"+url.PathEscape(address)+"/flights", address, nil, nil, &flight); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.flights[flight.ID] = flight.Address
	c.mu.Unlock()
	return &flight, nil
}

func (c *Client) LandFlight(ctx context.Context, flightID string) (*models.MiningResult, error) {
	c.mu.Lock()
	address, found := c.flights[flightID]
	c.mu.Unlock()
	if !found {
		return nil, fault.ErrFlightNotFound
	}

	var result models.MiningResult
	if err := c.do(ctx, http.MethodPost, "/flights/"+url.PathEscape(flightID)+"/land", address, nil, nil, &result); err != nil {
		return nil, err
	}

	c.mu.Lock()
	delete(c.flights, flightID)
	c.mu.Unlock()
	return &result, nil
}

// CompleteDailyTask resends the task with the same idempotency key when the
// connection fails, so a task the service applied before the reply was lost
// is replayed rather than paid twice
func (c *Client) CompleteDailyTask(ctx context.Context, address string) (*models.TaskResult, error) {
	header := http.Header{}
	header.Set(api.IdempotencyHeader, uuid.New().String())
	path := "/wallets/" + url.PathEscape(address) + "/tasks"

	var result models.TaskResult
	for attempt := 1; ; attempt++ {
		err := c.do(ctx, http.MethodPost, path, address, header, nil, &result)
		if err == nil {
			return &result, nil
		}

		var transport *transportError
		if !errors.As(err, &transport) || attempt == taskAttempts {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, err
		case <-time.After(taskRetryDelay):
		}
	}
}

func (c *Client) History(ctx context.Context, address string, limit int) (*models.HistoryView, error) {
	path := "/wallets/" + url.PathEscape(address) + "/history"
	if limit != 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var view models.HistoryView
	if err := c.do(ctx, http.MethodGet, path, address, nil, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) remember(resp api.SessionResponse) {
	if resp.Wallet == nil {
		return
	}
	c.mu.Lock()
	c.tokens[resp.Wallet.Address] = resp.Token
	c.mu.Unlock()
}

// do sends one request, authenticated as the wallet at address unless it
// is empty, and decodes a 2xx body into out
func (c *Client) do(ctx context.Context, method string, path string, address string, header http.Header, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header[k] = v
	}

	if address != "" {
		c.mu.Lock()
		token, found := c.tokens[address]
		c.mu.Unlock()
		if !found {
			return fault.ErrUnauthorized
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &transportError{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// transportError is a request that got no reply from the service
type transportError struct {
	err error
}

func (e *transportError) Error() string {
	return "ledger service: " + e.err.Error()
}

func (e *transportError) Unwrap() error {
	return e.err
}

func decodeError(resp *http.Response) error {
	var e api.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
		return fmt.Errorf("ledger service: %s", resp.Status)
	}
	if known := api.ErrorForCode(e.Code); known != nil {
		return known
	}
	return fmt.Errorf("ledger service: %s: %s", resp.Status, e.Error)
}

var _ interfaces.WalletService = (*Client)(nil)
