package cmd

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

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/paw-chain/swapper/api"
)

const defaultNode = "http://localhost:5000"

// Client talks to a running node's REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the node at baseURL
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// APIError is a non-2xx answer from the node
type APIError struct {
	StatusCode int
	Body       api.ErrorResponse
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("node returned %d: %s", e.StatusCode, e.Body.Error)
	if e.Body.Code != "" {
		msg += " (" + e.Body.Code + ")"
	}
	if e.Body.Details != "" {
		msg += ": " + e.Body.Details
	}
	if e.Body.Suggestion != "" {
		msg += "\nsuggestion: " + e.Body.Suggestion
	}
	return msg
}

// Get decodes the JSON answer of a GET into out
func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post sends body as JSON and decodes the answer into out
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("X-Request-ID", uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		data, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(data, &apiErr.Body) != nil || apiErr.Body.Error == "" {
			apiErr.Body.Error = strings.TrimSpace(string(data))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func clientFromCmd(cmd *cobra.Command) (*Client, error) {
	node, err := cmd.Flags().GetString(flagNode)
	if err != nil {
		return nil, err
	}
	if _, err := url.ParseRequestURI(node); err != nil {
		return nil, fmt.Errorf("invalid --%s %q: %w", flagNode, node, err)
	}
	return NewClient(node, 0), nil
}

func addNodeFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().String(flagNode, defaultNode, "REST endpoint of a running node")
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return err
}
