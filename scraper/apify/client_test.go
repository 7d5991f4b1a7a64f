package apify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hamzayazough/centris-scraper/config"
	"github.com/hamzayazough/centris-scraper/utils"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		ApifyToken:     "test-token",
		ActorID:        "vendor~centris-scraper",
		MaxRetries:     1,
		PollIntervalMs: 5,
	}
	c := New(cfg, utils.NewLogger(false))
	c.baseURL = srv.URL
	return c, srv
}

func TestRunActorPollsUntilSucceeded(t *testing.T) {
	var polls int
	mux := http.NewServeMux()

	mux.HandleFunc("/v2/acts/vendor~centris-scraper/runs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("start run: method %s, want POST", r.Method)
		}
		var input RunInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			t.Fatalf("decode input: %v", err)
		}
		if input.MaxItems != 2 || !input.Proxy.UseApifyProxy {
			t.Errorf("unexpected input: %+v", input)
		}
		json.NewEncoder(w).Encode(runEnvelope{Data: RunInfo{ID: "run-1", Status: "RUNNING"}})
	})

	mux.HandleFunc("/v2/actor-runs/run-1", func(w http.ResponseWriter, r *http.Request) {
		polls++
		status := "RUNNING"
		if polls >= 2 {
			status = "SUCCEEDED"
		}
		json.NewEncoder(w).Encode(runEnvelope{
			Data: RunInfo{ID: "run-1", Status: status, DefaultDatasetID: "ds-1"},
		})
	})

	c, _ := testClient(t, mux)

	input := RunInput{
		StartURLs: []StartURL{{URL: "https://www.centris.ca/en/properties~for-rent~montreal"}},
		MaxItems:  2,
		Sort:      "date_desc",
		Proxy:     ProxyConfig{UseApifyProxy: true},
	}

	run, err := c.RunActor(context.Background(), input)
	if err != nil {
		t.Fatalf("RunActor: %v", err)
	}
	if run.DefaultDatasetID != "ds-1" {
		t.Errorf("DefaultDatasetID: got %q, want ds-1", run.DefaultDatasetID)
	}
	if polls < 2 {
		t.Errorf("expected at least 2 status polls, got %d", polls)
	}
}

func TestRunActorFailedStatusIsError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/acts/vendor~centris-scraper/runs", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(runEnvelope{Data: RunInfo{ID: "run-1", Status: "FAILED"}})
	})

	c, _ := testClient(t, mux)
	if _, err := c.RunActor(context.Background(), RunInput{}); err == nil {
		t.Fatal("expected error for FAILED run status")
	}
}

func TestDatasetIteratorPagesLazily(t *testing.T) {
	var requests int
	mux := http.NewServeMux()

	mux.HandleFunc("/v2/datasets/ds-1/items", func(w http.ResponseWriter, r *http.Request) {
		requests++
		offset := r.URL.Query().Get("offset")

		switch offset {
		case "0":
			// a full page, so the iterator must come back for more
			items := make([]map[string]any, 100)
			for i := range items {
				items[i] = map[string]any{"url": fmt.Sprintf("https://centris.ca/p/%d", i)}
			}
			json.NewEncoder(w).Encode(items)
		case "100":
			json.NewEncoder(w).Encode([]map[string]any{
				{"url": "https://centris.ca/p/100", "address": "123 Main St"},
			})
		default:
			t.Errorf("unexpected offset %q", offset)
		}
	})

	c, _ := testClient(t, mux)
	it := c.DatasetItems(context.Background(), "ds-1")

	var urls []string
	for {
		l, ok, err := it.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		urls = append(urls, l.URL())
	}

	if len(urls) != 101 {
		t.Fatalf("item count: got %d, want 101", len(urls))
	}
	if urls[100] != "https://centris.ca/p/100" {
		t.Errorf("last item: got %q", urls[100])
	}
	if requests != 2 {
		t.Errorf("page requests: got %d, want 2", requests)
	}

	// exhausted iterators stay exhausted
	if _, ok, err := it.Next(); ok || err != nil {
		t.Errorf("Next after exhaustion: ok=%t err=%v, want false/nil", ok, err)
	}
	if requests != 2 {
		t.Errorf("Next after exhaustion issued a request (total %d)", requests)
	}
}

func TestDatasetIteratorEmptyDataset(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/datasets/ds-empty/items", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{})
	})

	c, _ := testClient(t, mux)
	it := c.DatasetItems(context.Background(), "ds-empty")

	if _, ok, err := it.Next(); ok || err != nil {
		t.Errorf("Next on empty dataset: ok=%t err=%v, want false/nil", ok, err)
	}
}

func TestRetryOnServerError(t *testing.T) {
	var attempts int
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/datasets/ds-1/items", func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			http.Error(w, "upstream hiccup", http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode([]map[string]any{{"url": "https://centris.ca/p/1"}})
	})

	c, _ := testClient(t, mux)
	c.retry.MaxAttempts = 3
	c.retry.BaseDelay = time.Millisecond
	it := c.DatasetItems(context.Background(), "ds-1")

	l, ok, err := it.Next()
	if err != nil || !ok {
		t.Fatalf("Next: ok=%t err=%v", ok, err)
	}
	if l.URL() != "https://centris.ca/p/1" {
		t.Errorf("URL: got %q", l.URL())
	}
	if attempts != 2 {
		t.Errorf("attempts: got %d, want 2", attempts)
	}
}
