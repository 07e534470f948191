package chain

import "errors"

// Ошибки клиента. Все считаются transient с точки зрения
// оркестратора: задача уйдёт в resubmission.
var (
	// ErrTxReverted — транзакция попала в блок, но откатилась.
	ErrTxReverted = errors.New("transaction reverted")

	// ErrReceiptTimeout — receipt не появился за отведённые попытки.
	ErrReceiptTimeout = errors.New("transaction receipt not found")

	// ErrMalformedAmount — сервер вернул некорректное количество токенов.
	ErrMalformedAmount = errors.New("malformed token amount")
)
