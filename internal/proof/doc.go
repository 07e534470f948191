// Package proof запрашивает аллокацию и merkle proof аккаунта
// у remote API.
//
// Один POST-запрос с адресом аккаунта, JSON-ответ с количеством
// и proof'ом. Запросы повторяются с exponential backoff: API
// нестабилен под нагрузкой батча.
package proof
