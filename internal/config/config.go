package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultPath — путь к конфигу по умолчанию.
const DefaultPath = "data/config.toml"

// Default configuration values.
const (
	defaultSpawnTaskDelayMS = 500
	defaultSettleDelayMS    = 500
	defaultRPCRetries       = 10
	defaultRPCBackoffMS     = 500
	defaultProofRetries     = 5
	defaultProofBackoffMS   = 3000
	defaultMetricsAddr      = ":9090"
	defaultPrivateKeysFile  = "data/private_keys.txt"
	defaultRecipientsFile   = "data/recipients.txt"
)

// Config — конфигурация бота, читается из TOML-файла.
type Config struct {
	// RPCURLs — список upstream endpoint'ов. Обязателен и непуст:
	// пустой пул — фатальная ошибка конфигурации, не runtime-ошибка.
	RPCURLs []string `toml:"rpc_urls"`

	// SpawnTaskDelayMS — пауза между первичными запусками задач (мс).
	SpawnTaskDelayMS int64 `toml:"spawn_task_delay_ms"`

	// SettleDelayMS — пауза между подтверждением claim и transfer (мс).
	SettleDelayMS int64 `toml:"settle_delay_ms"`

	// ProofURL — адрес API, выдающего proof и allocation.
	ProofURL string `toml:"proof_url"`

	// DistributorAddress — адрес distributor-контракта.
	DistributorAddress string `toml:"distributor_address"`

	// TokenAddress — адрес token-контракта.
	TokenAddress string `toml:"token_address"`

	// PrivateKeysFile — файл с приватными ключами (по одному на строку).
	PrivateKeysFile string `toml:"private_keys_file"`

	// RecipientsFile — файл с адресами получателей (по одному на строку).
	RecipientsFile string `toml:"recipients_file"`

	// MetricsAddr — адрес для /metrics и /healthz.
	MetricsAddr string `toml:"metrics_addr"`

	// RPCRetries / RPCBackoffMS — retry-политика RPC-вызовов endpoint'а.
	RPCRetries   int   `toml:"rpc_retries"`
	RPCBackoffMS int64 `toml:"rpc_backoff_ms"`

	// ProofRetries / ProofBackoffMS — retry-политика запросов к proof API.
	ProofRetries   int   `toml:"proof_retries"`
	ProofBackoffMS int64 `toml:"proof_backoff_ms"`
}

// Load читает и валидирует конфиг из файла.
//
// Любая ошибка здесь — startup-fatal: процесс не должен
// продолжать работу с неполным конфигом.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedConfig, err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyDefaults подставляет значения по умолчанию для опциональных полей.
func (c *Config) applyDefaults() {
	if c.SpawnTaskDelayMS <= 0 {
		c.SpawnTaskDelayMS = defaultSpawnTaskDelayMS
	}
	if c.SettleDelayMS <= 0 {
		c.SettleDelayMS = defaultSettleDelayMS
	}
	if c.RPCRetries <= 0 {
		c.RPCRetries = defaultRPCRetries
	}
	if c.RPCBackoffMS <= 0 {
		c.RPCBackoffMS = defaultRPCBackoffMS
	}
	if c.ProofRetries <= 0 {
		c.ProofRetries = defaultProofRetries
	}
	if c.ProofBackoffMS <= 0 {
		c.ProofBackoffMS = defaultProofBackoffMS
	}
	if c.MetricsAddr == "" {
		c.MetricsAddr = defaultMetricsAddr
	}
	if c.PrivateKeysFile == "" {
		c.PrivateKeysFile = defaultPrivateKeysFile
	}
	if c.RecipientsFile == "" {
		c.RecipientsFile = defaultRecipientsFile
	}
}

// Validate проверяет обязательные поля.
func (c *Config) Validate() error {
	if len(c.RPCURLs) == 0 {
		return ErrNoEndpoints
	}
	if c.ProofURL == "" {
		return fmt.Errorf("%w: proof_url", ErrMissingField)
	}
	if c.DistributorAddress == "" {
		return fmt.Errorf("%w: distributor_address", ErrMissingField)
	}
	if c.TokenAddress == "" {
		return fmt.Errorf("%w: token_address", ErrMissingField)
	}
	return nil
}

// SpawnTaskDelay возвращает паузу между первичными запусками задач.
func (c *Config) SpawnTaskDelay() time.Duration {
	return time.Duration(c.SpawnTaskDelayMS) * time.Millisecond
}

// SettleDelay возвращает паузу между claim и transfer.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMS) * time.Millisecond
}

// RPCBackoff возвращает начальный backoff RPC-вызовов.
func (c *Config) RPCBackoff() time.Duration {
	return time.Duration(c.RPCBackoffMS) * time.Millisecond
}

// ProofBackoff возвращает начальный backoff запросов к proof API.
func (c *Config) ProofBackoff() time.Duration {
	return time.Duration(c.ProofBackoffMS) * time.Millisecond
}
