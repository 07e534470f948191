package proof

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"time"

	"github.com/dogmatiq/linger"
	"github.com/dogmatiq/linger/backoff"
)

// Default configuration values.
const (
	defaultRetries     = 5
	defaultBackoff     = 3 * time.Second
	defaultMaxBackoff  = 30 * time.Second
	defaultHTTPTimeout = 30 * time.Second
)

// Allocation — аллокация аккаунта: количество токенов и merkle proof
// для claim-транзакции.
type Allocation struct {
	Amount *big.Int
	Proof  []string
}

// Config — конфигурация клиента.
type Config struct {
	// URL — адрес proof API (обязателен).
	URL string

	// Retries — максимум повторов одного запроса (default: 5).
	Retries int

	// Backoff — начальная пауза между повторами (default: 3s).
	Backoff time.Duration

	// Timeout — таймаут одного HTTP-запроса (default: 30s).
	Timeout time.Duration

	// Logger
	Logger *slog.Logger
}

// Client запрашивает proof и allocation у remote API.
type Client struct {
	url      string
	client   *http.Client
	retries  int
	strategy backoff.Strategy
	logger   *slog.Logger
}

// New создаёт новый Client.
func New(cfg Config) *Client {
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

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		url:     cfg.URL,
		client:  &http.Client{Timeout: timeout},
		retries: retries,
		strategy: backoff.WithTransforms(
			backoff.Exponential(initial),
			linger.FullJitter,
			linger.Limiter(0, defaultMaxBackoff),
		),
		logger: logger,
	}
}

// proofRequest — тело запроса к API.
type proofRequest struct {
	Address string `json:"address"`
}

// proofResponse — тело ответа API.
type proofResponse struct {
	Amount string   `json:"amount"`
	Proof  []string `json:"proof"`
}

// Allocation запрашивает аллокацию аккаунта с повторами.
func (c *Client) Allocation(ctx context.Context, address string) (*Allocation, error) {
	c.logger.Debug("fetching proof", "account", address)

	counter := backoff.Counter{Strategy: c.strategy}

	var err error
	for attempt := 0; attempt < c.retries; attempt++ {
		var alloc *Allocation
		alloc, err = c.fetch(ctx, address)
		if err == nil {
			return alloc, nil
		}

		// Отсутствие аллокации — окончательный ответ, не сбой.
		if errors.Is(err, ErrNotEligible) {
			return nil, err
		}

		c.logger.Warn("proof request failed",
			"account", address,
			"attempt", attempt+1,
			"error", err,
		)

		if sleepErr := counter.Sleep(ctx, err); sleepErr != nil {
			return nil, sleepErr
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrRetriesExhausted, err)
}

// fetch выполняет один запрос без повторов.
func (c *Client) fetch(ctx context.Context, address string) (*Allocation, error) {
	payload, err := json.Marshal(proofRequest{Address: address})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotEligible, address)
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}

	var body proofResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrMalformedResponse, err)
	}

	amount, ok := new(big.Int).SetString(body.Amount, 10)
	if !ok {
		return nil, fmt.Errorf("%w: amount %q", ErrMalformedResponse, body.Amount)
	}

	return &Allocation{
		Amount: amount,
		Proof:  body.Proof,
	}, nil
}
