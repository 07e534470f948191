// Package account загружает приватные ключи и адреса получателей
// и сопоставляет их в WorkUnits — входы задач батча.
//
// Формат входных файлов — по одному значению на строку:
//   - private_keys.txt: hex-кодированные 32-байтовые seed'ы
//   - recipients.txt: адреса вида 0x + 40 hex
//
// i-й ключ отправляет токены i-му получателю.
package account
