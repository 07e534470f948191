package chain

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/dogmatiq/linger"
	"github.com/dogmatiq/linger/backoff"

	"github.com/Fragment-Software/scroll-bye-bye/internal/account"
	"github.com/Fragment-Software/scroll-bye-bye/internal/endpoint"
)

// Default configuration values.
const (
	defaultReceiptRetries = 30
	defaultReceiptBackoff = time.Second
	defaultMaxBackoff     = 15 * time.Second
)

// Config — конфигурация клиента.
type Config struct {
	// Distributor — адрес distributor-контракта (claim).
	Distributor string

	// Token — адрес token-контракта (balanceOf/transfer).
	Token string

	// ReceiptRetries — максимум опросов receipt'а (default: 30).
	ReceiptRetries int

	// ReceiptBackoff — начальная пауза между опросами (default: 1s).
	ReceiptBackoff time.Duration

	// Logger
	Logger *slog.Logger
}

// Client выполняет операции distributor- и token-контрактов
// через JSON-RPC endpoint'ы.
//
// Чтения — одиночные вызовы. Записи проходят полный цикл:
// nonce → сборка транзакции → подпись ключом аккаунта →
// отправка → ожидание receipt'а.
type Client struct {
	distributor    string
	token          string
	receiptRetries int
	strategy       backoff.Strategy
	logger         *slog.Logger
}

// New создаёт новый Client.
func New(cfg Config) *Client {
	retries := cfg.ReceiptRetries
	if retries <= 0 {
		retries = defaultReceiptRetries
	}

	initial := cfg.ReceiptBackoff
	if initial <= 0 {
		initial = defaultReceiptBackoff
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		distributor:    cfg.Distributor,
		token:          cfg.Token,
		receiptRetries: retries,
		strategy: backoff.WithTransforms(
			backoff.Exponential(initial),
			linger.FullJitter,
			linger.Limiter(0, defaultMaxBackoff),
		),
		logger: logger,
	}
}

// HasClaimed проверяет, получал ли аккаунт свою аллокацию.
func (c *Client) HasClaimed(ctx context.Context, ep *endpoint.Endpoint, address string) (bool, error) {
	var claimed bool
	if err := ep.Call(ctx, "distributor_hasClaimed", []string{c.distributor, address}, &claimed); err != nil {
		return false, err
	}
	return claimed, nil
}

// BalanceOf возвращает баланс аккаунта в token-контракте.
func (c *Client) BalanceOf(ctx context.Context, ep *endpoint.Endpoint, address string) (*big.Int, error) {
	var raw string
	if err := ep.Call(ctx, "token_balanceOf", []string{c.token, address}, &raw); err != nil {
		return nil, err
	}
	return parseAmount(raw)
}

// claimCall — параметры вызова claim.
type claimCall struct {
	Method  string   `json:"method"`
	Account string   `json:"account"`
	Amount  string   `json:"amount"`
	Proof   []string `json:"proof"`
}

// Claim отправляет claim-транзакцию с merkle proof.
func (c *Client) Claim(ctx context.Context, ep *endpoint.Endpoint, key *account.Key, amount *big.Int, proof []string) error {
	return c.send(ctx, ep, key, c.distributor, claimCall{
		Method:  "claim",
		Account: key.Address(),
		Amount:  amount.String(),
		Proof:   proof,
	})
}

// transferCall — параметры вызова transfer.
type transferCall struct {
	Method string `json:"method"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

// Transfer отправляет transfer-транзакцию token-контракта.
func (c *Client) Transfer(ctx context.Context, ep *endpoint.Endpoint, key *account.Key, to string, amount *big.Int) error {
	return c.send(ctx, ep, key, c.token, transferCall{
		Method: "transfer",
		To:     to,
		Amount: amount.String(),
	})
}

// Tx — неподписанная транзакция.
type Tx struct {
	From  string          `json:"from"`
	To    string          `json:"to"`
	Nonce uint64          `json:"nonce"`
	Data  json.RawMessage `json:"data"`
}

// SignedTx — транзакция с подписью отправителя.
// Подпись считается над канонической JSON-сериализацией Tx.
type SignedTx struct {
	Tx        Tx     `json:"tx"`
	PublicKey string `json:"public_key"`
	Signature string `json:"signature"`
}

// receipt — результат выполнения транзакции.
type receipt struct {
	Found  bool   `json:"found"`
	Status string `json:"status"` // "success" | "reverted"
}

// send выполняет полный цикл записи: nonce, сборка, подпись,
// отправка, ожидание receipt'а.
func (c *Client) send(ctx context.Context, ep *endpoint.Endpoint, key *account.Key, to string, call any) error {
	from := key.Address()

	var nonce uint64
	if err := ep.Call(ctx, "chain_getNonce", []string{from}, &nonce); err != nil {
		return fmt.Errorf("get nonce: %w", err)
	}

	data, err := json.Marshal(call)
	if err != nil {
		return fmt.Errorf("marshal call: %w", err)
	}

	tx := Tx{
		From:  from,
		To:    to,
		Nonce: nonce,
		Data:  data,
	}

	payload, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("marshal tx: %w", err)
	}

	signed := SignedTx{
		Tx:        tx,
		PublicKey: key.PublicKey(),
		Signature: base64.StdEncoding.EncodeToString(key.Sign(payload)),
	}

	var hash string
	if err := ep.Call(ctx, "chain_sendTransaction", []SignedTx{signed}, &hash); err != nil {
		return fmt.Errorf("send transaction: %w", err)
	}

	return c.waitReceipt(ctx, ep, hash)
}

// waitReceipt опрашивает receipt с backoff'ом, пока транзакция
// не попадёт в блок или не кончатся попытки.
func (c *Client) waitReceipt(ctx context.Context, ep *endpoint.Endpoint, hash string) error {
	counter := backoff.Counter{Strategy: c.strategy}
	log := c.logger.With("tx", hash)

	for attempt := 0; attempt < c.receiptRetries; attempt++ {
		var r receipt
		if err := ep.Call(ctx, "chain_getReceipt", []string{hash}, &r); err != nil {
			return fmt.Errorf("get receipt: %w", err)
		}

		if r.Found {
			if r.Status != "success" {
				log.Error("transaction reverted")
				return fmt.Errorf("%w: %s", ErrTxReverted, hash)
			}
			log.Info("transaction confirmed")
			return nil
		}

		if err := counter.Sleep(ctx, nil); err != nil {
			return err
		}
	}

	return fmt.Errorf("%w: %s", ErrReceiptTimeout, hash)
}

// parseAmount парсит десятичную строку количества токенов.
func parseAmount(s string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMalformedAmount, s)
	}
	return amount, nil
}
