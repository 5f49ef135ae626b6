package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"checkout-pricing-api/logger"
	"checkout-pricing-api/services/auth"
)

const DefaultTimeout = 15 * time.Second

// Client is a JSON client for one upstream API. The caller's bearer token is forwarded
// on every request.
type Client struct {
	name    string
	baseURL string
	client  *http.Client
}

func NewClient(name, baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		MaxConnsPerHost:     100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return NewClientWithHTTP(name, baseURL, &http.Client{
		Timeout:   timeout,
		Transport: transport,
	})
}

func NewClientWithHTTP(name, baseURL string, httpClient *http.Client) *Client {
	return &Client{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
	}
}

func (c *Client) Name() string {
	return c.name
}

// Get fetches path and decodes the JSON response into out when out is not nil.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	body, err := c.Do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return c.decode(http.MethodGet, path, body, out)
}

// Post sends in as JSON and decodes the response into out when out is not nil.
func (c *Client) Post(ctx context.Context, path string, in, out interface{}) error {
	body, err := c.Do(ctx, http.MethodPost, path, nil, in)
	if err != nil {
		return err
	}
	return c.decode(http.MethodPost, path, body, out)
}

// Do performs the request and returns the raw body of a 2xx response. Any other outcome
// is an *Error.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, in interface{}) ([]byte, error) {
	start := time.Now()

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, errors.Wrap(err, "error marshaling request")
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, errors.Wrap(err, "error creating request")
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user := auth.FromContext(ctx); user != nil && user.Token != "" {
		req.Header.Set("Authorization", "Bearer "+user.Token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &Error{
			Service:  c.name,
			Method:   method,
			Endpoint: path,
			cause:    errors.Wrapf(err, "error calling %s", c.name),
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{
			Service:    c.name,
			Method:     method,
			Endpoint:   path,
			StatusCode: resp.StatusCode,
			cause:      errors.Wrap(err, "error reading response body"),
		}
	}

	logger.Log.Debug("upstream call",
		zap.String("service", c.name),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Service:    c.name,
			Method:     method,
			Endpoint:   path,
			StatusCode: resp.StatusCode,
			Code:       errorCode(body),
		}
	}
	return body, nil
}

func (c *Client) decode(method, path string, body []byte, out interface{}) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{
			Service:    c.name,
			Method:     method,
			Endpoint:   path,
			StatusCode: http.StatusOK,
			cause:      errors.Wrap(err, "error decoding response"),
		}
	}
	return nil
}

// errorCode extracts the error code the Doppler style APIs put in failed responses.
func errorCode(body []byte) string {
	var payload struct {
		ErrorCode string `json:"errorCode"`
		Code      string `json:"code"`
		Error     string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	switch {
	case payload.ErrorCode != "":
		return payload.ErrorCode
	case payload.Code != "":
		return payload.Code
	default:
		return payload.Error
	}
}
