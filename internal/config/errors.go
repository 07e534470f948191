package config

import "errors"

// Ошибки конфигурации. Все они фатальны на старте.
var (
	// ErrMalformedConfig — файл не распарсился как TOML.
	ErrMalformedConfig = errors.New("malformed config file")

	// ErrNoEndpoints — пустой список rpc_urls.
	ErrNoEndpoints = errors.New("no rpc endpoints configured")

	// ErrMissingField — обязательное поле не заполнено.
	ErrMissingField = errors.New("missing required config field")
)
