// Package remote is the HTTP client for the hosted ledger data API. All
// persistence goes through it: filtered list queries, inserts, patches and
// deletes by primary key, settings upserts, and audit-log appends.
package remote

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tawahcm/soquy/internal/models"
)

// Sentinel errors for common HTTP error classes.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalid      = errors.New("invalid")

	// ErrOffline is returned without attempting the network call when the
	// client has been told it is offline (see Client.Offline).
	ErrOffline = errors.New("offline")
)

// Client is an HTTP client for the ledger data API.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client

	// Offline, when non-nil and returning true, short-circuits every call
	// with ErrOffline. Wired to the connectivity monitor so mutations fail
	// fast into the pending queue instead of waiting out a timeout.
	Offline func() bool
}

// New creates a new data API client.
func New(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// HealthCheck hits the /healthz endpoint to verify server reachability.
func (c *Client) HealthCheck() error {
	return c.do("GET", "/healthz", nil, nil)
}

// --- Transactions ---

// ListQuery filters a transaction list request.
type ListQuery struct {
	UserID string
	From   *time.Time // inclusive
	To     *time.Time // exclusive
}

// ListTransactions fetches confirmed transactions for a user, newest first.
func (c *Client) ListTransactions(q ListQuery) ([]models.Transaction, error) {
	params := url.Values{}
	params.Set("user_id", q.UserID)
	params.Set("order", "created_at.desc")
	if q.From != nil {
		params.Set("from", q.From.UTC().Format(time.RFC3339))
	}
	if q.To != nil {
		params.Set("to", q.To.UTC().Format(time.RFC3339))
	}

	var out []models.Transaction
	if err := c.do("GET", "/v1/transactions?"+params.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// InsertTransaction creates a transaction and returns the confirmed row
// with its server-assigned id. The remote store enforces a unique
// constraint on (user_id, client_id); a duplicate insert returns
// ErrConflict, which resync treats as already-confirmed.
func (c *Client) InsertTransaction(tx *models.Transaction) (*models.Transaction, error) {
	var out models.Transaction
	if err := c.do("POST", "/v1/transactions", tx, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTransaction patches a transaction by primary key and returns the
// confirmed row.
func (c *Client) UpdateTransaction(id int64, patch *models.TransactionPatch) (*models.Transaction, error) {
	var out models.Transaction
	path := "/v1/transactions/" + strconv.FormatInt(id, 10)
	if err := c.do("PATCH", path, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTransaction deletes a transaction by primary key.
func (c *Client) DeleteTransaction(id int64) error {
	return c.do("DELETE", "/v1/transactions/"+strconv.FormatInt(id, 10), nil, nil)
}

// DeleteAllTransactions wipes every transaction owned by the user.
func (c *Client) DeleteAllTransactions(userID string) error {
	params := url.Values{}
	params.Set("user_id", userID)
	return c.do("DELETE", "/v1/transactions?"+params.Encode(), nil, nil)
}

// --- Settings ---

// GetSettings fetches the settings row for a user. Returns ErrNotFound
// when the user has never saved settings.
func (c *Client) GetSettings(userID string) (*models.AppSettings, error) {
	var out models.AppSettings
	params := url.Values{}
	params.Set("user_id", userID)
	if err := c.do("GET", "/v1/settings?"+params.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpsertSettings creates or overwrites the settings row keyed by user id.
func (c *Client) UpsertSettings(s *models.AppSettings) (*models.AppSettings, error) {
	var out models.AppSettings
	if err := c.do("PUT", "/v1/settings", s, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Audit log ---

// AppendAudit writes one append-only audit row.
func (c *Client) AppendAudit(e *models.AuditEntry) error {
	return c.do("POST", "/v1/audit", e, nil)
}

// ListAudit fetches audit entries for a user newer than since.
func (c *Client) ListAudit(userID string, since time.Time) ([]models.AuditEntry, error) {
	params := url.Values{}
	params.Set("user_id", userID)
	params.Set("since", since.UTC().Format(time.RFC3339))

	var out []models.AuditEntry
	if err := c.do("GET", "/v1/audit?"+params.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// --- HTTP plumbing ---

// apiError is the standard error body from the server.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *apiError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Code
}

func (c *Client) do(method, path string, body, result any) error {
	if c.Offline != nil && c.Offline() {
		return ErrOffline
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		// Transport-level failure; callers classify via IsConnectivityError.
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		haveBody := json.Unmarshal(respBody, &apiErr) == nil && apiErr.Code != ""
		msg := apiErr.Message
		if !haveBody {
			msg = string(respBody)
		}
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
		case http.StatusForbidden:
			return fmt.Errorf("%w: %s", ErrForbidden, msg)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrNotFound, msg)
		case http.StatusConflict:
			return fmt.Errorf("%w: %s", ErrConflict, msg)
		case http.StatusUnprocessableEntity:
			return fmt.Errorf("%w: %s", ErrInvalid, msg)
		default:
			if haveBody {
				return &apiErr
			}
			return fmt.Errorf("HTTP %d: %s", resp.StatusCode, msg)
		}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}
