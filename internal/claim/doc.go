// Package claim реализует workflow одной задачи батча:
// проверка eligibility → claim аллокации → transfer получателю.
//
// Контрактные и proof-операции скрыты за интерфейсами
// ChainClient и ProofSource; оркестратор видит workflow как одну
// атомарную операцию, которую безопасно вызывать повторно.
package claim
