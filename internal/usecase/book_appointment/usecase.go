package book_appointment

import (
	"context"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-CalendarBridge/internal/domain"
	"github.com/m04kA/SMC-CalendarBridge/internal/integrations/leadconnector"
)

// UseCase use case записи: upsert контакта, затем создание записи в календаре.
// Шаги строго последовательны. Компенсации нет: upsert идемпотентен,
// поэтому контакт без записи допустим, а повтор запроса безопасен.
type UseCase struct {
	client       SchedulingClient
	defaultTitle string
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(client SchedulingClient, defaultTitle string, logger Logger) *UseCase {
	if strings.TrimSpace(defaultTitle) == "" {
		defaultTitle = domain.DefaultAppointmentTitle
	}
	return &UseCase{
		client:       client,
		defaultTitle: defaultTitle,
		logger:       logger,
	}
}

// Execute выполняет use case записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookAppointment: start=%s, end=%s, has_email=%t, has_phone=%t",
		req.StartTime, req.EndTime, req.Email != "", req.Phone != "")

	// 1. Валидация входных данных, до любого внешнего вызова
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookAppointment: validation failed: %v", err)
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = uc.defaultTitle
	}

	// 2. Upsert контакта
	contactPayload, err := uc.client.UpsertContact(ctx, leadconnector.ContactInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		uc.logger.Error("BookAppointment: contact upsert failed: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrContactUpsertFailed, err)
	}

	// 3. Идентификатор контакта: без него запись создавать не к чему
	contactID, path, ok := extractContactID(contactPayload)
	if !ok {
		uc.logger.Error("BookAppointment: contact id not found in upsert response: %.512s", string(contactPayload))
		return nil, &ContractViolationError{Step: StepContact, Payload: contactPayload}
	}
	uc.logger.Info("BookAppointment: contact resolved id=%s (path=%s)", contactID, path)

	// 4. Создание записи
	appointment, err := uc.client.CreateAppointment(ctx, leadconnector.AppointmentInput{
		ContactID: contactID,
		StartTime: strings.TrimSpace(req.StartTime),
		EndTime:   strings.TrimSpace(req.EndTime),
		Title:     title,
	})
	if err != nil {
		uc.logger.Error("BookAppointment: appointment creation failed for contact id=%s (contact already upserted): %v",
			contactID, err)
		return nil, fmt.Errorf("%w: contact_id=%s: %w", ErrAppointmentCreateFailed, contactID, err)
	}

	uc.logger.Info("BookAppointment: appointment created for contact id=%s", contactID)

	return &Response{
		ContactID:   contactID,
		Appointment: appointment,
	}, nil
}
