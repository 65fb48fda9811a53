// Package client is a minimal GraphQL-over-HTTP transport used to run the
// introspection query against a remote endpoint.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	json "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/gqlatlas/gqlatlas/graphqljson"
)

type Client struct {
	client   *http.Client
	header   http.Header
	endpoint string
}

// NewClient creates a new http client wrapper.
func NewClient(endpoint string, options ...Option) *Client {
	client := &Client{
		endpoint: endpoint,
		client:   http.DefaultClient,
	}
	for _, option := range options {
		option(client)
	}

	return client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.client = httpClient
	}
}

func WithHTTPHeader(header http.Header) Option {
	return func(c *Client) {
		c.header = header
	}
}

type request struct {
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
	Query         string         `json:"query"`
}

type response struct {
	Data   jsontext.Value     `json:"data"`
	Errors graphqljson.Errors `json:"errors"`
}

// Post executes one GraphQL request and decodes the response data into out.
// GraphQL-level errors in the response envelope fail the call.
func (c *Client) Post(ctx context.Context, operationName, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(&request{
		OperationName: operationName,
		Query:         query,
		Variables:     variables,
	})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create post request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for key, values := range c.header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("http status %d: %s", resp.StatusCode, raw)
	}

	var res response
	if err := json.Unmarshal(raw, &res); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if len(res.Errors) > 0 {
		return fmt.Errorf("graphql request failed: %w", res.Errors)
	}

	return graphqljson.UnmarshalData(res.Data, out)
}
