// SPDX-License-Identifier: EPL-2.0

package nodestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to a Handler over HTTP. It satisfies the connection
// interface of the awg package.
type Client struct {
	base string
	http *http.Client
}

// NewClient returns a Client for the server at base, such as
// "http://127.0.0.1:8004". A nil hc uses a client with a short timeout.
func NewClient(base string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 5 * time.Second}
	}

	return &Client{base: strings.TrimRight(base, "/"), http: hc}
}

func (c *Client) url(path string) string {
	return c.base + "/nodes/" + strings.TrimLeft(path, "/")
}

func (c *Client) do(ctx context.Context, method, path, contentType, accept string, body []byte) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, nil, statusError(resp.StatusCode, path, data)
	}

	return resp, data, nil
}

// statusError maps a failed response back onto the package sentinels.
func statusError(status int, path string, body []byte) error {
	var msg struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(body, &msg)

	var sentinel error
	switch {
	case status == http.StatusNotFound:
		sentinel = ErrNotFound
	case status == http.StatusForbidden && strings.Contains(msg.Error, ErrWriteOnly.Error()):
		sentinel = ErrWriteOnly
	case status == http.StatusForbidden:
		sentinel = ErrReadOnly
	case strings.Contains(msg.Error, ErrUnknownEnum.Error()):
		sentinel = ErrUnknownEnum
	case strings.Contains(msg.Error, ErrWildcard.Error()):
		sentinel = ErrWildcard
	case status == http.StatusBadRequest:
		sentinel = ErrType
	default:
		return fmt.Errorf("%s: http %d: %s", path, status, msg.Error)
	}

	return fmt.Errorf("%s: %w", path, sentinel)
}

// value fetches the single value at path.
func (c *Client) value(ctx context.Context, path string) (any, error) {
	_, data, err := c.do(ctx, http.MethodGet, path, "", "application/json", nil)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var values map[string]any
	if err := dec.Decode(&values); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", path, err)
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("%s: %w", path, ErrWildcard)
	}
	for _, v := range values {
		return v, nil
	}

	return nil, nil
}

func (c *Client) GetInt(ctx context.Context, path string) (int64, error) {
	v, err := c.value(ctx, path)
	if err != nil {
		return 0, err
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("%s: %w", path, ErrType)
	}

	return n.Int64()
}

func (c *Client) GetDouble(ctx context.Context, path string) (float64, error) {
	v, err := c.value(ctx, path)
	if err != nil {
		return 0, err
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("%s: %w", path, ErrType)
	}

	return n.Float64()
}

// GetString also accepts byte nodes, which the server sends raw.
func (c *Client) GetString(ctx context.Context, path string) (string, error) {
	b, err := c.raw(ctx, path)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

func (c *Client) GetVector(ctx context.Context, path string) ([]byte, error) {
	return c.raw(ctx, path)
}

func (c *Client) raw(ctx context.Context, path string) ([]byte, error) {
	resp, data, err := c.do(ctx, http.MethodGet, path, "", octetStream, nil)
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), octetStream) {
		return data, nil
	}

	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", path, err)
	}
	for _, v := range values {
		if s, ok := v.(string); ok && len(values) == 1 {
			return []byte(s), nil
		}
	}

	return nil, fmt.Errorf("%s: %w", path, ErrType)
}

func (c *Client) Set(ctx context.Context, path string, value any) error {
	if b, ok := value.([]byte); ok {
		return c.SetVector(ctx, path, b)
	}

	body, err := json.Marshal(map[string]any{"value": value})
	if err != nil {
		return errors.Join(ErrType, err)
	}
	_, _, err = c.do(ctx, http.MethodPut, path, "application/json", "", body)

	return err
}

func (c *Client) SetVector(ctx context.Context, path string, data []byte) error {
	_, _, err := c.do(ctx, http.MethodPut, path, octetStream, "", data)
	return err
}
