package account

import "fmt"

// WorkUnit — пара {ключ, получатель}, вход одной задачи.
//
// Создаётся один раз на старте из двух файлов одинаковой длины
// (i-й ключ → i-й получатель) и дальше не изменяется.
type WorkUnit struct {
	// Key — приватный ключ аккаунта, с которого идёт claim.
	Key *Key

	// Recipient — адрес, на который переводится полученный токен.
	Recipient string
}

// Address возвращает адрес аккаунта этой задачи.
func (u *WorkUnit) Address() string {
	return u.Key.Address()
}

// Pair сопоставляет ключи и получателей по позиции.
//
// Несовпадение длин — фатальная ошибка конфигурации данных:
// батч с "лишними" ключами или получателями запускать нельзя.
func Pair(keys []*Key, recipients []string) ([]*WorkUnit, error) {
	if len(keys) != len(recipients) {
		return nil, fmt.Errorf("%w: %d keys, %d recipients", ErrCountMismatch, len(keys), len(recipients))
	}

	units := make([]*WorkUnit, len(keys))
	for i, key := range keys {
		units[i] = &WorkUnit{
			Key:       key,
			Recipient: recipients[i],
		}
	}
	return units, nil
}
