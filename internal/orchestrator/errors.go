package orchestrator

import "errors"

// Ошибки оркестратора.
var (
	// ErrRegistryEmpty — JoinNext вызван на пустом реестре.
	// Это ошибка программирования вызывающей стороны, а не
	// runtime-состояние, из которого нужно восстанавливаться.
	ErrRegistryEmpty = errors.New("registry has no outstanding tasks")
)
