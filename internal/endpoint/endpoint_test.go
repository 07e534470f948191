package endpoint

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestNew_MalformedURL(t *testing.T) {
	cases := []string{"", "not a url", "relative/path"}
	for _, u := range cases {
		if _, err := New(Config{URL: u}); !errors.Is(err, ErrMalformedURL) {
			t.Errorf("New(%q) = %v, want ErrMalformedURL", u, err)
		}
	}
}

func TestEndpoint_Call(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			JSONRPC string   `json:"jsonrpc"`
			ID      uint64   `json:"id"`
			Method  string   `json:"method"`
			Params  []string `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.JSONRPC != "2.0" {
			t.Errorf("jsonrpc = %q", req.JSONRPC)
		}
		if req.Method != "token_balanceOf" {
			t.Errorf("method = %q", req.Method)
		}
		if len(req.Params) != 2 || req.Params[1] != "0xabc" {
			t.Errorf("params = %v", req.Params)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  "12345",
		})
	}))
	defer server.Close()

	ep, err := New(Config{URL: server.URL})
	if err != nil {
		t.Fatalf("new endpoint: %v", err)
	}

	var result string
	if err := ep.Call(context.Background(), "token_balanceOf", []string{"0xtoken", "0xabc"}, &result); err != nil {
		t.Fatalf("call: %v", err)
	}
	if result != "12345" {
		t.Errorf("result = %q, want 12345", result)
	}
}

func TestEndpoint_CallRetriesTransportErrors(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      1,
			"result":  true,
		})
	}))
	defer server.Close()

	ep, err := New(Config{URL: server.URL, Retries: 5, Backoff: time.Millisecond})
	if err != nil {
		t.Fatalf("new endpoint: %v", err)
	}

	var result bool
	if err := ep.Call(context.Background(), "distributor_hasClaimed", nil, &result); err != nil {
		t.Fatalf("call: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestEndpoint_CallDoesNotRetryRPCErrors(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      1,
			"error":   map[string]any{"code": -32000, "message": "already claimed"},
		})
	}))
	defer server.Close()

	ep, err := New(Config{URL: server.URL, Retries: 5, Backoff: time.Millisecond})
	if err != nil {
		t.Fatalf("new endpoint: %v", err)
	}

	callErr := ep.Call(context.Background(), "chain_sendTransaction", nil, nil)

	var rpcErr *RPCError
	if !errors.As(callErr, &rpcErr) {
		t.Fatalf("call error = %v, want *RPCError", callErr)
	}
	if rpcErr.Code != -32000 {
		t.Errorf("code = %d", rpcErr.Code)
	}
	// Ошибка в теле ответа окончательна, повторов не было.
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestEndpoint_CallRetriesExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ep, err := New(Config{URL: server.URL, Retries: 2, Backoff: time.Millisecond})
	if err != nil {
		t.Fatalf("new endpoint: %v", err)
	}

	callErr := ep.Call(context.Background(), "chain_getNonce", nil, nil)
	if !errors.Is(callErr, ErrRetriesExhausted) {
		t.Fatalf("call error = %v, want ErrRetriesExhausted", callErr)
	}
}
