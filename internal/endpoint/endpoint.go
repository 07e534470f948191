package endpoint

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/dogmatiq/linger"
	"github.com/dogmatiq/linger/backoff"
)

// Default configuration values.
const (
	defaultRetries     = 10
	defaultBackoff     = 500 * time.Millisecond
	defaultMaxBackoff  = 10 * time.Second
	defaultHTTPTimeout = 30 * time.Second
)

// Config — конфигурация одного endpoint'а.
type Config struct {
	// URL — адрес JSON-RPC сервера (обязателен).
	URL string

	// Retries — максимум повторов одного вызова (default: 10).
	Retries int

	// Backoff — начальная задержка между повторами (default: 500ms).
	Backoff time.Duration

	// Timeout — таймаут одного HTTP-запроса (default: 30s).
	Timeout time.Duration
}

// Endpoint — один upstream endpoint: URL, обёрнутый в JSON-RPC клиент
// с retry/backoff политикой.
//
// Endpoint неизменяем после создания и безопасен для одновременного
// использования любым количеством задач.
type Endpoint struct {
	url      string
	name     string
	client   *http.Client
	retries  int
	strategy backoff.Strategy
	nextID   atomic.Uint64
}

// New создаёт Endpoint. Некорректный URL — фатальная ошибка конфигурации.
func New(cfg Config) (*Endpoint, error) {
	parsed, err := url.Parse(cfg.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrMalformedURL, cfg.URL)
	}

	retries := cfg.Retries
	if retries <= 0 {
		retries = defaultRetries
	}

	initial := cfg.Backoff
	if initial <= 0 {
		initial = defaultBackoff
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	return &Endpoint{
		url:     cfg.URL,
		name:    parsed.Host,
		client:  &http.Client{Timeout: timeout},
		retries: retries,
		strategy: backoff.WithTransforms(
			backoff.Exponential(initial),
			linger.FullJitter,
			linger.Limiter(0, defaultMaxBackoff),
		),
	}, nil
}

// URL возвращает адрес endpoint'а.
func (e *Endpoint) URL() string {
	return e.url
}

// Name возвращает короткое имя endpoint'а (host) для логов и метрик.
func (e *Endpoint) Name() string {
	return e.name
}

// rpcRequest — JSON-RPC 2.0 запрос.
type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// rpcResponse — JSON-RPC 2.0 ответ.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

// RPCError — ошибка, возвращённая сервером в теле ответа.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error реализует error.
func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Call выполняет JSON-RPC вызов с повторами.
//
// Повторяются транспортные ошибки и ответы 5xx; ошибка в теле
// JSON-RPC ответа (RPCError) считается окончательной и повторов
// не вызывает — её разбирает вызывающая сторона.
func (e *Endpoint) Call(ctx context.Context, method string, params any, result any) error {
	counter := backoff.Counter{Strategy: e.strategy}

	var err error
	for attempt := 0; attempt < e.retries; attempt++ {
		err = e.call(ctx, method, params, result)
		if err == nil {
			return nil
		}

		var rpcErr *RPCError
		if errors.As(err, &rpcErr) {
			return err
		}

		if sleepErr := counter.Sleep(ctx, err); sleepErr != nil {
			return sleepErr
		}
	}

	return fmt.Errorf("%w: %s via %s: %v", ErrRetriesExhausted, method, e.name, err)
}

// call выполняет один JSON-RPC запрос без повторов.
func (e *Endpoint) call(ctx context.Context, method string, params any, result any) error {
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      e.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: status %d", ErrTransport, resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrTransport, err)
	}

	if rpcResp.Error != nil {
		return rpcResp.Error
	}

	if result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("%w: unmarshal result: %v", ErrTransport, err)
		}
	}
	return nil
}
