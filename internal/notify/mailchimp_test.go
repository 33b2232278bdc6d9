package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMailchimpDisabled(t *testing.T) {
	c := NewMailchimpClient("", "", "Gazette", "ed@example.com")
	if c.Enabled() {
		t.Fatal("expected disabled client without credentials")
	}
	id, err := c.SendCampaign(context.Background(), "subject", "<p>hi</p>")
	if err != nil || id != "" {
		t.Fatalf("disabled send should be a no-op, got id=%q err=%v", id, err)
	}
}

func TestMailchimpDatacenterFromKey(t *testing.T) {
	c := NewMailchimpClient("abc123-us21", "list-1", "Gazette", "ed@example.com")
	if !strings.Contains(c.baseURL, "us21.api.mailchimp.com") {
		t.Fatalf("expected datacenter host from key suffix, got %q", c.baseURL)
	}
}

func TestMailchimpSendCampaignFlow(t *testing.T) {
	var steps []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		steps = append(steps, r.Method+" "+r.URL.Path)
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/campaigns":
			json.NewEncoder(w).Encode(map[string]string{"id": "camp-1"})
		case r.Method == http.MethodPut && r.URL.Path == "/campaigns/camp-1/content":
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodPost && r.URL.Path == "/campaigns/camp-1/actions/send":
			w.WriteHeader(http.StatusNoContent)
		default:
			http.Error(w, "unexpected call", http.StatusTeapot)
		}
	}))
	defer server.Close()

	c := NewMailchimpClient("key-us1", "list-1", "Gazette", "ed@example.com")
	c.baseURL = server.URL

	id, err := c.SendCampaign(context.Background(), "Week 5 Gazette", "<h1>Week 5</h1>")
	if err != nil {
		t.Fatalf("send campaign: %v", err)
	}
	if id != "camp-1" {
		t.Fatalf("expected campaign id camp-1, got %q", id)
	}
	want := []string{
		"POST /campaigns",
		"PUT /campaigns/camp-1/content",
		"POST /campaigns/camp-1/actions/send",
	}
	if fmt.Sprint(steps) != fmt.Sprint(want) {
		t.Fatalf("unexpected call sequence: %v", steps)
	}
}

func TestMailchimpAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "invalid list"})
	}))
	defer server.Close()

	c := NewMailchimpClient("key-us1", "list-1", "Gazette", "ed@example.com")
	c.baseURL = server.URL

	_, err := c.SendCampaign(context.Background(), "subject", "<p>hi</p>")
	if err == nil {
		t.Fatal("expected error from API failure")
	}
	if !strings.Contains(err.Error(), "invalid list") {
		t.Fatalf("expected API detail in error, got %v", err)
	}
}
