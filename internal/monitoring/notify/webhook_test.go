package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWebhookNotifierPayload(t *testing.T) {
	payloadCh := make(chan webhookPayload, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var payload webhookPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		payloadCh <- payload
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(server.URL)
	err := notifier.Notify(context.Background(), AlertMessage{
		ReactorID:   "R-001",
		Status:      "operational",
		HealthScore: 42.5,
		Warnings:    []string{"High temperature detected: 521.0°C"},
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}

	payload := <-payloadCh
	if payload.MsgType != "text" {
		t.Errorf("got msgtype %s, want text", payload.MsgType)
	}
	content := payload.Text.Content
	for _, want := range []string{"R-001", "operational", "42.5", "High temperature detected"} {
		if !strings.Contains(content, want) {
			t.Errorf("content missing %q: %s", want, content)
		}
	}
}

func TestWebhookNotifierNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(server.URL)
	if err := notifier.Notify(context.Background(), AlertMessage{ReactorID: "R-001"}); err == nil {
		t.Fatalf("want error on non-2xx response")
	}
}

func TestWebhookNotifierEmptyURL(t *testing.T) {
	notifier := NewWebhookNotifier("")
	if err := notifier.Notify(context.Background(), AlertMessage{}); err == nil {
		t.Fatalf("want error on empty url")
	}
}
