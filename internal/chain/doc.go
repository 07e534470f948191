// Package chain реализует операции distributor- и token-контрактов
// поверх JSON-RPC endpoint'ов.
//
// Протокол записи: клиент получает nonce аккаунта, собирает
// транзакцию, подписывает её ключом аккаунта (ed25519 над JSON
// транзакции), отправляет и опрашивает receipt до подтверждения.
// Повторная claim-транзакция уже получившего аккаунта отклоняется
// сервером — на этой проверке держится идемпотентность всего workflow.
package chain
