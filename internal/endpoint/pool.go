package endpoint

import "math/rand/v2"

// Pool — фиксированный набор взаимозаменяемых endpoint'ов.
//
// Строится один раз на старте и дальше только читается,
// поэтому безопасен для одновременного использования.
type Pool struct {
	endpoints []*Endpoint
}

// NewPool создаёт пул из списка URL с общими retry-настройками.
//
// Пустой список — фатальная ошибка конфигурации: после создания
// пул никогда не бывает пуст и Select всегда возвращает endpoint.
func NewPool(urls []string, cfg Config) (*Pool, error) {
	if len(urls) == 0 {
		return nil, ErrEmptyPool
	}

	endpoints := make([]*Endpoint, len(urls))
	for i, u := range urls {
		epCfg := cfg
		epCfg.URL = u

		ep, err := New(epCfg)
		if err != nil {
			return nil, err
		}
		endpoints[i] = ep
	}

	return &Pool{endpoints: endpoints}, nil
}

// Select возвращает равновероятно выбранный endpoint.
//
// Выбор с возвращением: один endpoint может одновременно
// обслуживать несколько задач.
func (p *Pool) Select() *Endpoint {
	return p.endpoints[rand.IntN(len(p.endpoints))]
}

// Len возвращает размер пула.
func (p *Pool) Len() int {
	return len(p.endpoints)
}

// Endpoints возвращает все endpoint'ы пула.
func (p *Pool) Endpoints() []*Endpoint {
	return p.endpoints
}
