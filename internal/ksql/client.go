// Package ksql submits statements to a ksqlDB server's /ksql endpoint.
package ksql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"water_telemetry/internal/config"
	"water_telemetry/internal/models"

	"golang.org/x/time/rate"
)

const (
	statementPath = "/ksql"
	contentType   = "application/json"
)

// Response is what ksqlDB answered, reported verbatim.
type Response struct {
	StatusCode int
	Status     string
	Body       string
}

// Client posts StreamCommands. Non-2xx answers are returned as responses, not errors.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient builds a client from cfg. A zero RatePerSec disables throttling.
func NewClient(cfg config.KSQLConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	limit := rate.Inf
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Execute sends cmd and reads the whole response body.
func (c *Client) Execute(ctx context.Context, cmd models.StreamCommand) (Response, error) {
	if cmd.StreamsProperties == nil {
		cmd.StreamsProperties = map[string]string{}
	}
	body, err := json.Marshal(cmd)
	if err != nil {
		return Response{}, fmt.Errorf("encode ksql command: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return Response{}, fmt.Errorf("ksql rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+statementPath, bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("build ksql request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("post ksql: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("read ksql response: %w", err)
	}
	return Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       string(raw),
	}, nil
}
