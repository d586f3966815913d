package infra

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
)

func testGPTClient(url string) *GPTClient {
	return &GPTClient{
		apiKey: "test-key",
		model:  "test/model",
		url:    url,
		client: &http.Client{},
		log:    zap.NewNop(),
	}
}

func TestGPTClient_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req orRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "test/model" {
			t.Errorf("model = %q", req.Model)
		}
		if len(req.Messages) != 1 || req.Messages[0].Content != "hello" {
			t.Errorf("messages = %+v", req.Messages)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}

		json.NewEncoder(w).Encode(orResponse{
			Choices: []struct {
				Message orMessage `json:"message"`
			}{
				{Message: orMessage{Role: "assistant", Content: `{"relevant": false}`}},
			},
		})
	}))
	defer srv.Close()

	got, err := testGPTClient(srv.URL).Complete(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != `{"relevant": false}` {
		t.Errorf("Complete() = %q", got)
	}
}

func TestGPTClient_RetriesOnServerError(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "ok"}}]}`))
	}))
	defer srv.Close()

	got, err := testGPTClient(srv.URL).Complete(context.Background(), "p")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "ok" {
		t.Errorf("Complete() = %q", got)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestGPTClient_GivesUpAfterThreeAttempts(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := testGPTClient(srv.URL).Complete(context.Background(), "p"); err == nil {
		t.Fatal("Complete() succeeded against a dead upstream")
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestGPTClient_NoAPIKey(t *testing.T) {
	c := testGPTClient("http://unused")
	c.apiKey = ""

	if _, err := c.Complete(context.Background(), "p"); err == nil {
		t.Fatal("Complete() succeeded without an API key")
	}
}

func TestGPTClient_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := testGPTClient(srv.URL).Complete(ctx, "p"); err == nil {
		t.Fatal("Complete() succeeded with a canceled context")
	}
}

func TestSanitize(t *testing.T) {
	if got := sanitize("ok\xffcaption"); got != "okcaption" {
		t.Errorf("sanitize() = %q", got)
	}
}
