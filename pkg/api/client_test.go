package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestNewClient(t *testing.T) {
	client := NewClient("https://ask.example.edu/")
	if client.BaseURL != "https://ask.example.edu" {
		t.Errorf("Expected trailing slash trimmed, got %q", client.BaseURL)
	}
	if client.HTTPClient == nil {
		t.Fatal("Expected HTTP client to be set")
	}

	if got := NewClient("").BaseURL; got != DefaultBaseURL {
		t.Errorf("Expected default base URL, got %q", got)
	}
}

func TestAsk_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/api/ask" {
			t.Errorf("Expected /api/ask, got %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected Content-Type application/json, got %s", ct)
		}
		if key := r.Header.Get(APIKeyHeader); key != "AIzaTestKey1234567890" {
			t.Errorf("Expected API key header, got %q", key)
		}

		var body AskRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if body.Question != "When does the semester start?" {
			t.Errorf("Unexpected question %q", body.Question)
		}
		if body.APIKey != "AIzaTestKey1234567890" {
			t.Errorf("Expected api_key in body, got %q", body.APIKey)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(AskResponse{Answer: "September 1st.", ProcessingTime: 0.42, Cached: true})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.Ask(context.Background(), AskRequest{
		Question: "When does the semester start?",
		APIKey:   "AIzaTestKey1234567890",
	})
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if resp.Answer != "September 1st." {
		t.Errorf("Expected answer, got %q", resp.Answer)
	}
	if !resp.Cached {
		t.Error("Expected cached flag to round-trip")
	}
}

func TestAsk_OmitsEmptyAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header[http.CanonicalHeaderKey(APIKeyHeader)]; ok {
			t.Error("Expected no API key header when key is empty")
		}
		raw, _ := io.ReadAll(r.Body)
		if strings.Contains(string(raw), "api_key") {
			t.Errorf("Expected api_key to be omitted, body: %s", raw)
		}
		w.Write([]byte(`{"answer":"ok"}`))
	}))
	defer server.Close()

	if _, err := NewClient(server.URL).Ask(context.Background(), AskRequest{Question: "hi"}); err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
}

func TestAsk_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"answer":"Invalid API key.","error":true}`))
	}))
	defer server.Close()

	resp, err := NewClient(server.URL).Ask(context.Background(), AskRequest{Question: "hi"})
	if err == nil {
		t.Fatal("Expected error for 400 status")
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Expected *StatusError, got %T: %v", err, err)
	}
	if statusErr.Code != http.StatusBadRequest {
		t.Errorf("Expected code 400, got %d", statusErr.Code)
	}
	if statusErr.Answer != "Invalid API key." {
		t.Errorf("Expected answer in error, got %q", statusErr.Answer)
	}
	if resp.Answer != "Invalid API key." || !resp.Error {
		t.Errorf("Expected parsed response alongside error, got %+v", resp)
	}
}

func TestAsk_MalformedBody(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"html on 200", http.StatusOK, "<html>proxy</html>"},
		{"html on 502", http.StatusBadGateway, "<html>Bad Gateway</html>"},
		{"empty body", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewClient(server.URL).Ask(context.Background(), AskRequest{Question: "hi"})
			if !errors.Is(err, ErrMalformedResponse) {
				t.Fatalf("Expected ErrMalformedResponse, got %v", err)
			}
			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				t.Error("Malformed body must not be reported as a status error")
			}
		})
	}
}

func TestAsk_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient(server.URL).Ask(ctx, AskRequest{Question: "slow"})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Expected ErrTimeout, got %v", err)
	}
}

func TestAsk_NetworkError(t *testing.T) {
	client := NewClient("http://example.invalid")
	client.HTTPClient = &http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})}

	_, err := client.Ask(context.Background(), AskRequest{Question: "hi"})
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("Expected ErrNetwork, got %v", err)
	}
	if errors.Is(err, ErrTimeout) {
		t.Error("Network failure must not be classified as timeout")
	}
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/health" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"status":"ok","timestamp":1760000000.5,"cache_size":3,"version":"2.1.0"}`))
	}))
	defer server.Close()

	health, err := NewClient(server.URL).Health(context.Background())
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if !health.Healthy() {
		t.Errorf("Expected healthy status, got %q", health.Status)
	}
	if health.CacheSize != 3 || health.Version != "2.1.0" {
		t.Errorf("Unexpected health payload %+v", health)
	}
}

func TestHealth_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"degraded"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Health(context.Background())
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected 503 status error, got %v", err)
	}
}
