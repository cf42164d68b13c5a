package get_free_slots

import (
	"context"
	"encoding/json"
	"time"

	"github.com/m04kA/SMC-CalendarBridge/internal/integrations/leadconnector"
)

// SchedulingClient интерфейс клиента удалённого сервиса расписаний
type SchedulingClient interface {
	CalendarID() string
	GetFreeSlots(ctx context.Context, q leadconnector.FreeSlotsQuery) (json.RawMessage, error)
}

// Metrics учёт решений политики слотов
type Metrics interface {
	ObserveSlotDecision(decision string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

type noopMetrics struct{}

func (noopMetrics) ObserveSlotDecision(string) {}
