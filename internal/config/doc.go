// Package config читает конфигурацию бота из TOML-файла.
//
// Пример data/config.toml:
//
//	rpc_urls = ["https://rpc.example.org", "https://rpc2.example.org"]
//	spawn_task_delay_ms = 500
//	proof_url = "https://claim.example.org/proof"
//	distributor_address = "0x1111111111111111111111111111111111111111"
//	token_address = "0x2222222222222222222222222222222222222222"
//
// Ошибки загрузки и валидации фатальны: ни одна задача
// не стартует с некорректным конфигом.
package config
