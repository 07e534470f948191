package proof

import "errors"

// Ошибки proof API.
var (
	// ErrRequestFailed — транспортная ошибка или неуспешный статус.
	ErrRequestFailed = errors.New("proof request failed")

	// ErrMalformedResponse — ответ API не распарсился.
	ErrMalformedResponse = errors.New("malformed proof response")

	// ErrNotEligible — у аккаунта нет аллокации.
	ErrNotEligible = errors.New("account is not eligible")

	// ErrRetriesExhausted — все повторы запроса исчерпаны.
	ErrRetriesExhausted = errors.New("proof retries exhausted")
)
