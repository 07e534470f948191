// Package telemetry содержит настройку structured logging (slog)
// и prometheus-метрики прогресса батча.
//
// Логирование конфигурируется переменными окружения:
//   - LOG_LEVEL: DEBUG, INFO, WARN, ERROR (default: INFO)
//   - LOG_FORMAT: json, text (default: text)
package telemetry
