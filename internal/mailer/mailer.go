package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrNotConfigured is returned when the mail API credentials are missing.
var ErrNotConfigured = errors.New("mail API credentials not configured")

// Config holds the outbound mail API settings
type Config struct {
	APIURL    string
	APIToken  string
	FromEmail string
	FromName  string
}

// Client sends transactional email through a bearer-token JSON mail API
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a new mail client
func NewClient(cfg Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type person struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendPayload struct {
	From     person   `json:"from"`
	To       []person `json:"to"`
	Subject  string   `json:"subject"`
	Text     string   `json:"text"`
	Category string   `json:"category,omitempty"`
}

// Send submits one plain-text email to the mail API
func (c *Client) Send(ctx context.Context, to, toName, subject, body string) error {
	if c.cfg.APIURL == "" || c.cfg.APIToken == "" {
		return ErrNotConfigured
	}

	payload := sendPayload{
		From:     person{Email: c.cfg.FromEmail, Name: c.cfg.FromName},
		To:       []person{{Email: to, Name: toName}},
		Subject:  subject,
		Text:     body,
		Category: "Transactional",
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mail API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("mail API error: %d", resp.StatusCode)
	}

	return nil
}
