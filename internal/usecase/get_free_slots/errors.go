package get_free_slots

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных (startDate, days)
	ErrInvalidInput = errors.New("get_free_slots: invalid input data")

	// ErrUnfilteredDisabled диагностический режим без фильтра выключен в конфигурации
	ErrUnfilteredDisabled = errors.New("get_free_slots: unfiltered mode is disabled")

	// ErrUpstream ошибка вызова удалённого сервиса (сеть, таймаут, не-2xx).
	// Детали доступны через leadconnector.AsUpstreamError.
	ErrUpstream = errors.New("get_free_slots: upstream availability error")

	// ErrUpstreamContract удалённый сервис ответил 2xx, но тело не похоже на список слотов
	ErrUpstreamContract = errors.New("get_free_slots: upstream contract violation")
)
