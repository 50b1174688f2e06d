// Package email sends transactional mail through the Postmark API.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const defaultEndpoint = "https://api.postmarkapp.com/email"

var ErrNotConfigured = errors.New("email client not configured: missing server token")

type Client struct {
	serverToken string
	fromEmail   string
	baseURL     string
	endpoint    string
	httpClient  *http.Client
}

type Option func(*Client)

// WithEndpoint points the client at a different Postmark-compatible URL.
func WithEndpoint(url string) Option {
	return func(cl *Client) {
		cl.endpoint = url
	}
}

func NewClient(serverToken, fromEmail, baseURL string, opts ...Option) *Client {
	c := &Client{
		serverToken: serverToken,
		fromEmail:   fromEmail,
		baseURL:     baseURL,
		endpoint:    defaultEndpoint,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured returns true if the server token and sender are set.
func (c *Client) Configured() bool {
	return c != nil && c.serverToken != "" && c.fromEmail != ""
}

type postmarkEmail struct {
	From          string `json:"From"`
	To            string `json:"To"`
	Subject       string `json:"Subject"`
	HtmlBody      string `json:"HtmlBody"`
	TextBody      string `json:"TextBody"`
	MessageStream string `json:"MessageStream"`
}

// SendWelcome tells a newly added family member how to sign in and see their
// chores.
func (c *Client) SendWelcome(ctx context.Context, toEmail, personName, familyName string) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	subject := fmt.Sprintf("You've been added to %s's chore chart", familyName)
	textBody := fmt.Sprintf(
		"Hi %s,\n\nYou're now on the %s chore chart. Sign in with this email address to see your chores for the week.",
		personName, familyName,
	)
	htmlBody := fmt.Sprintf(
		`<p>Hi %s,</p><p>You're now on the %s chore chart. Sign in with this email address to see your chores for the week.</p>`,
		personName, familyName,
	)
	if c.baseURL != "" {
		textBody += "\n\n" + c.baseURL
		htmlBody += fmt.Sprintf(`<p><a href="%s">Open the chore chart</a></p>`, c.baseURL)
	}

	return c.send(ctx, postmarkEmail{
		From:          c.fromEmail,
		To:            toEmail,
		Subject:       subject,
		HtmlBody:      htmlBody,
		TextBody:      textBody,
		MessageStream: "outbound",
	})
}

func (c *Client) send(ctx context.Context, payload postmarkEmail) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Postmark-Server-Token", c.serverToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			ErrorCode int    `json:"ErrorCode"`
			Message   string `json:"Message"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("postmark API error: status %d: %s", resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("postmark API error: status %d", resp.StatusCode)
	}

	return nil
}
