// Package orchestrator выполняет батч независимых claim-задач.
//
// Orchestrator отвечает за:
//   - Допуск задач по одной с фиксированной паузой (Throttle)
//   - Привязку каждой попытки к случайному endpoint'у пула
//   - Параллельное выполнение и снятие завершений в порядке
//     их наступления (Registry)
//   - Безусловный перезапуск упавших задач на свежем endpoint'е
//   - Завершение батча только после успеха каждого WorkUnit
//
// Ключевое свойство — изоляция: ошибка одной задачи никогда не
// останавливает остальные и не выходит наружу из Run.
package orchestrator
