package account

import "errors"

// Ошибки загрузки аккаунтов. Все фатальны на старте.
var (
	// ErrMalformedKey — строка не является корректным приватным ключом.
	ErrMalformedKey = errors.New("malformed private key")

	// ErrMalformedAddress — строка не является корректным адресом.
	ErrMalformedAddress = errors.New("malformed address")

	// ErrCountMismatch — количество ключей и получателей не совпадает.
	ErrCountMismatch = errors.New("keys/recipients count mismatch")
)
