// Package whatsapp is a thin client for the WhatsApp bridge API. The bridge
// owns session state, pacing, and retries; this client just hands messages
// over and reports what the bridge said.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client communicates with the WhatsApp bridge HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a bridge client. timeout <= 0 defaults to 15 seconds.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type sendTextRequest struct {
	Phone string `json:"phone"`
	Body  string `json:"body"`
}

type sendTemplateRequest struct {
	Phone    string            `json:"phone"`
	Template string            `json:"template"`
	Params   map[string]string `json:"params,omitempty"`
}

// SendText delivers a free-form text message to an E.164 phone number.
func (c *Client) SendText(ctx context.Context, phone, body string) error {
	return c.post(ctx, "/api/v1/messages/text", sendTextRequest{Phone: phone, Body: body})
}

// SendTemplate delivers a pre-approved template message with parameters.
func (c *Client) SendTemplate(ctx context.Context, phone, template string, params map[string]string) error {
	return c.post(ctx, "/api/v1/messages/template", sendTemplateRequest{
		Phone: phone, Template: template, Params: params,
	})
}

// Healthy reports whether the bridge session is up.
func (c *Client) Healthy(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/health", nil)
	if err != nil {
		return err
	}
	c.auth(req)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("bridge health check failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bridge returned %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.auth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("bridge request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("bridge returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func (c *Client) auth(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
