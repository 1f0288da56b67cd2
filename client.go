package jsonresult

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/toaweme/log"
)

// Request describes a call to an endpoint whose body is an untagged
// ok-or-err payload. Body, when non-nil, is marshalled to JSON.
type Request struct {
	ID      string
	Path    string
	Query   url.Values
	Headers map[string]string
	Body    any
}

// Response carries the decoded body alongside the transport metadata of
// the call that produced it.
type Response[T, E any] struct {
	StatusCode int
	Headers    http.Header
	Result     Result[T, E]
}

// Client calls endpoints that answer with either the ok shape or the err
// shape at the same path. Safe for concurrent use.
type Client struct {
	baseURL string
	client  *http.Client
	headers map[string]string
}

func NewClient(baseURL, agent string, headers map[string]string) *Client {
	if headers == nil {
		headers = make(map[string]string)
	}
	headers[log.ClientAgentHeaderName] = agent

	return &Client{
		baseURL: baseURL,
		client:  http.DefaultClient,
		headers: headers,
	}
}

// Get performs a GET request and decodes the body, trying the ok shape
// first.
func Get[T, E any](c *Client, req Request) (*Response[T, E], error) {
	return call[T, E](c, http.MethodGet, req)
}

// Post performs a POST request and decodes the body, trying the ok shape
// first.
func Post[T, E any](c *Client, req Request) (*Response[T, E], error) {
	return call[T, E](c, http.MethodPost, req)
}

// Patch performs a PATCH request and decodes the body, trying the ok shape
// first.
func Patch[T, E any](c *Client, req Request) (*Response[T, E], error) {
	return call[T, E](c, http.MethodPatch, req)
}

// Delete performs a DELETE request and decodes the body, trying the ok
// shape first.
func Delete[T, E any](c *Client, req Request) (*Response[T, E], error) {
	return call[T, E](c, http.MethodDelete, req)
}

// call is a top-level function because Go does not allow generic methods.
func call[T, E any](c *Client, method string, req Request) (*Response[T, E], error) {
	status, headers, body, err := c.do(method, req)
	if err != nil {
		return nil, err
	}

	result, err := FromJSON[T, E](body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s %s response: %w", method, req.Path, err)
	}

	return &Response[T, E]{
		StatusCode: status,
		Headers:    headers,
		Result:     result,
	}, nil
}

func (c *Client) do(method string, req Request) (int, http.Header, []byte, error) {
	log.Debug("http request", "method", method, "path", req.Path, "query", req.Query, "headers", req.Headers)

	path, headers, err := c.buildRequestParams(req)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to build request URI: %w", err)
	}

	var httpReq *http.Request
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return 0, nil, nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		httpReq, err = http.NewRequest(method, path, bytes.NewBuffer(payload))
		if err != nil {
			return 0, nil, nil, fmt.Errorf("failed to create %s request: %w", method, err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
	} else {
		httpReq, err = http.NewRequest(method, path, nil)
		if err != nil {
			return 0, nil, nil, fmt.Errorf("failed to create %s request: %w", method, err)
		}
	}

	for k, v := range headers {
		httpReq.Header.Add(k, v)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to send %s request: %w", method, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	log.Debug("http response", "status", resp.StatusCode, "headers", resp.Header, "body", string(data))

	return resp.StatusCode, resp.Header, data, nil
}

func (c *Client) buildRequestParams(req Request) (string, map[string]string, error) {
	headers := make(map[string]string)
	for k, v := range c.headers {
		headers[k] = v
	}
	for k, v := range req.Headers {
		headers[k] = v
	}

	if req.ID != "" {
		headers[log.ClientIDHeaderName] = req.ID
	} else {
		headers[log.ClientIDHeaderName] = log.ID()
	}

	path, err := url.JoinPath(c.baseURL, req.Path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to join URL: %s: %w", req.Path, err)
	}

	query := req.Query.Encode()
	if query != "" {
		path += "?" + query
	}

	return path, headers, nil
}
