// Package backend implements the HTTP gateway to the remote clinic/EHR API.
// The console never interprets resource payloads: it attaches the bearer
// token, translates auth failures into the domain error taxonomy, and relays
// everything else unchanged.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/image-ehr/clinic-console/internal/core/domain"
)

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	contentTypeJSON     = "application/json"
	contentTypeForm     = "application/x-www-form-urlencoded"

	defaultTimeout = 10 * time.Second
)

// Client is the single configured HTTP client for the clinic backend.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient returns a Client with a fixed base URL. A timeout <= 0 selects
// the default.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Fetch relays a GET to the backend and returns the raw JSON body.
func (c *Client) Fetch(ctx context.Context, token, path string, query url.Values) (json.RawMessage, error) {
	body, status, err := c.roundTrip(ctx, token, http.MethodGet, path, query, nil, "")
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, c.resourceError(status, body, path)
	}
	return body, nil
}

// Submit relays a mutating request with a JSON body and returns the raw
// JSON response body.
func (c *Client) Submit(ctx context.Context, token, method, path string, payload any) (json.RawMessage, error) {
	var reader io.Reader
	contentType := ""
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(buf)
		contentType = contentTypeJSON
	}

	body, status, err := c.roundTrip(ctx, token, method, path, nil, reader, contentType)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, c.resourceError(status, body, path)
	}
	return body, nil
}

// roundTrip performs one request against the backend. Transport-level
// failures wrap domain.ErrBackendUnavailable; HTTP-level failures are left
// for the caller to map, since login and resource calls map them differently.
func (c *Client) roundTrip(ctx context.Context, token, method, path string, query url.Values, body io.Reader, contentType string) (json.RawMessage, int, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}

	// Bearer credential attached iff a token is present, never otherwise.
	if token != "" {
		req.Header.Set(headerAuthorization, "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set(headerContentType, contentType)
	}
	req.Header.Set("Accept", contentTypeJSON)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: read response: %v", domain.ErrBackendUnavailable, err)
	}

	return respBody, resp.StatusCode, nil
}

// resourceError maps a non-2xx resource response. A 401 means the token is
// no longer accepted, which ends the session; every other status is relayed
// to the browser unchanged.
func (c *Client) resourceError(status int, body []byte, path string) error {
	if status == http.StatusUnauthorized {
		c.log.Debug().Str("path", path).Msg("backend rejected bearer token")
		return domain.ErrSessionExpired
	}
	return &domain.RemoteError{StatusCode: status, Detail: decodeDetail(body)}
}

// decodeDetail extracts a human-readable message from a backend error
// payload. The backend answers FastAPI-style {"detail": "..."}; older
// endpoints use {"message"} or {"error"}.
func decodeDetail(body []byte) string {
	var envelope struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	switch {
	case envelope.Detail != "":
		return envelope.Detail
	case envelope.Message != "":
		return envelope.Message
	default:
		return envelope.Error
	}
}
