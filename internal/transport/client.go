// internal/transport/client.go
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"reviewbot/internal/common/config"
	stderrors "reviewbot/internal/common/errors"
	"reviewbot/internal/common/logger"
)

// outboundMessage is the chat-gateway send payload.
type outboundMessage struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// GatewayClient delivers replies through the chat gateway's HTTP API.
type GatewayClient struct {
	baseURL    string
	authToken  string
	maxRetries int
	httpClient *http.Client
	logger     logger.Logger
}

func NewGatewayClient(cfg config.TransportConfig, log logger.Logger) *GatewayClient {
	timeout := time.Duration(cfg.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	return &GatewayClient{
		baseURL:    strings.TrimRight(cfg.GatewayBaseURL, "/"),
		authToken:  cfg.AuthToken,
		maxRetries: maxRetries,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.WithFields(map[string]interface{}{"component": "gatewayClient"}),
	}
}

// Send posts one reply to the gateway, retrying transient failures
// with exponential backoff.
func (c *GatewayClient) Send(ctx context.Context, to, body string) error {
	payload, err := json.Marshal(outboundMessage{To: to, Body: body})
	if err != nil {
		return stderrors.NewTransportSendFailedError(to, fmt.Errorf("marshal payload: %w", err))
	}

	var lastErr error
	delay := 500 * time.Millisecond

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		lastErr = c.post(ctx, payload)
		if lastErr == nil {
			return nil
		}

		c.logger.Warn("send attempt failed", map[string]interface{}{
			"attempt": attempt,
			"to":      to,
			"error":   lastErr.Error(),
		})

		if attempt < c.maxRetries {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return stderrors.NewTransportSendFailedError(to, ctx.Err())
			}
			delay *= 2
		}
	}

	return stderrors.NewTransportSendFailedError(to, lastErr)
}

func (c *GatewayClient) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return nil
}
