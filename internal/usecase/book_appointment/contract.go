package book_appointment

import (
	"context"
	"encoding/json"

	"github.com/m04kA/SMC-CalendarBridge/internal/integrations/leadconnector"
)

// SchedulingClient интерфейс клиента удалённого сервиса расписаний
type SchedulingClient interface {
	UpsertContact(ctx context.Context, in leadconnector.ContactInput) (json.RawMessage, error)
	CreateAppointment(ctx context.Context, in leadconnector.AppointmentInput) (json.RawMessage, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
