// Package endpoint содержит upstream подключения и их пул.
//
// Endpoint — это URL JSON-RPC сервера, обёрнутый в клиент с
// retry/backoff политикой. Pool хранит фиксированный набор
// endpoint'ов и выдаёт случайный на каждую задачу: upstream'ы
// ненадёжны под нагрузкой, и равномерное распределение с повторным
// выбором при ошибке обходит сбоящий сервер.
package endpoint
