package email

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSendWelcome(t *testing.T) {
	var received postmarkEmail
	var gotToken string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Postmark-Server-Token")
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"MessageID": "test-id"}`))
	}))
	defer server.Close()

	client := NewClient("test-token", "noreply@example.com", "https://chores.example.com", WithEndpoint(server.URL))

	if err := client.SendWelcome(context.Background(), "jo@example.com", "Jo", "Smith Family"); err != nil {
		t.Fatalf("send welcome: %v", err)
	}

	if gotToken != "test-token" {
		t.Errorf("server token = %q, want %q", gotToken, "test-token")
	}
	if received.To != "jo@example.com" {
		t.Errorf("To = %q, want %q", received.To, "jo@example.com")
	}
	if received.From != "noreply@example.com" {
		t.Errorf("From = %q, want %q", received.From, "noreply@example.com")
	}
	if received.Subject != "You've been added to Smith Family's chore chart" {
		t.Errorf("Subject = %q", received.Subject)
	}
	if !strings.Contains(received.TextBody, "Hi Jo") || !strings.Contains(received.TextBody, "https://chores.example.com") {
		t.Errorf("TextBody = %q", received.TextBody)
	}
	if !strings.Contains(received.HtmlBody, `href="https://chores.example.com"`) {
		t.Errorf("HtmlBody missing link: %q", received.HtmlBody)
	}
}

func TestSendWelcomeNoBaseURL(t *testing.T) {
	var received postmarkEmail
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
	}))
	defer server.Close()

	client := NewClient("test-token", "noreply@example.com", "", WithEndpoint(server.URL))
	if err := client.SendWelcome(context.Background(), "jo@example.com", "Jo", "Smith Family"); err != nil {
		t.Fatalf("send welcome: %v", err)
	}
	if strings.Contains(received.HtmlBody, "href") {
		t.Errorf("HtmlBody should have no link: %q", received.HtmlBody)
	}
}

func TestSendWelcomeNotConfigured(t *testing.T) {
	tests := []*Client{
		nil,
		NewClient("", "noreply@example.com", ""),
		NewClient("token", "", ""),
	}
	for i, c := range tests {
		if c.Configured() {
			t.Errorf("case %d: Configured() = true", i)
		}
		if err := c.SendWelcome(context.Background(), "jo@example.com", "Jo", "Smith Family"); !errors.Is(err, ErrNotConfigured) {
			t.Errorf("case %d: err = %v, want ErrNotConfigured", i, err)
		}
	}
}

func TestSendWelcomeAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"ErrorCode": 300, "Message": "Invalid 'To' address"}`))
	}))
	defer server.Close()

	client := NewClient("test-token", "noreply@example.com", "", WithEndpoint(server.URL))
	err := client.SendWelcome(context.Background(), "bad", "Jo", "Smith Family")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "422") || !strings.Contains(err.Error(), "Invalid 'To' address") {
		t.Errorf("err = %v", err)
	}
}

func TestSendWelcomeCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient("test-token", "noreply@example.com", "", WithEndpoint(server.URL))
	if err := client.SendWelcome(ctx, "jo@example.com", "Jo", "Smith Family"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
