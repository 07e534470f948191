package endpoint

import "errors"

// Ошибки endpoint'ов.
var (
	// ErrEmptyPool — пул создаётся из пустого списка URL.
	ErrEmptyPool = errors.New("endpoint pool is empty")

	// ErrMalformedURL — URL endpoint'а не распарсился.
	ErrMalformedURL = errors.New("malformed endpoint url")

	// ErrTransport — транспортная ошибка HTTP-вызова (повторяемая).
	ErrTransport = errors.New("transport error")

	// ErrRetriesExhausted — все повторы вызова исчерпаны.
	ErrRetriesExhausted = errors.New("rpc retries exhausted")
)
