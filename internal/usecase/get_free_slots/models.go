package get_free_slots

import (
	"time"

	"github.com/m04kA/SMC-CalendarBridge/internal/domain"
)

// Request модель запроса свободных слотов
type Request struct {
	StartDate  string // "2025-10-03" или полный ISO; пусто = сейчас
	Days       *int   // nil = значение по умолчанию
	Unfiltered bool   // диагностический режим без политики слотов
}

// Response модель ответа
type Response struct {
	CalendarID string
	Timezone   string
	Start      time.Time
	End        time.Time
	Slots      []domain.RawSlot
}

// Options параметры use case из конфигурации
type Options struct {
	Timezone           string
	DefaultDays        int
	MaxSlots           int
	DiagnosticMaxSlots int
	AllowUnfiltered    bool
}
