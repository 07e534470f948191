package proof

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestClient_Allocation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Address string `json:"address"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Address != "0xabc" {
			t.Errorf("address = %q", req.Address)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"amount": "123456789",
			"proof":  []string{"0xaa", "0xbb", "0xcc"},
		})
	}))
	defer server.Close()

	client := New(Config{URL: server.URL, Backoff: time.Millisecond})

	alloc, err := client.Allocation(context.Background(), "0xabc")
	if err != nil {
		t.Fatalf("allocation: %v", err)
	}
	if alloc.Amount.Cmp(big.NewInt(123456789)) != 0 {
		t.Errorf("amount = %s", alloc.Amount)
	}
	if len(alloc.Proof) != 3 {
		t.Errorf("proof = %v", alloc.Proof)
	}
}

func TestClient_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"amount": "1", "proof": []string{}})
	}))
	defer server.Close()

	client := New(Config{URL: server.URL, Retries: 5, Backoff: time.Millisecond})

	if _, err := client.Allocation(context.Background(), "0xabc"); err != nil {
		t.Fatalf("allocation: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestClient_RetriesExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(Config{URL: server.URL, Retries: 2, Backoff: time.Millisecond})

	_, err := client.Allocation(context.Background(), "0xabc")
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("allocation error = %v, want ErrRetriesExhausted", err)
	}
}

func TestClient_NotEligibleIsFinal(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := New(Config{URL: server.URL, Retries: 5, Backoff: time.Millisecond})

	_, err := client.Allocation(context.Background(), "0xabc")
	if !errors.Is(err, ErrNotEligible) {
		t.Fatalf("allocation error = %v, want ErrNotEligible", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1 (no retries)", got)
	}
}

func TestClient_MalformedAmount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"amount": "not-a-number", "proof": []string{}})
	}))
	defer server.Close()

	client := New(Config{URL: server.URL, Retries: 1, Backoff: time.Millisecond})

	_, err := client.Allocation(context.Background(), "0xabc")
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("allocation error = %v, want ErrRetriesExhausted", err)
	}
}
