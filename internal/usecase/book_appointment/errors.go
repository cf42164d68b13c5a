package book_appointment

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Шаги оркестрации, отдаются клиенту в ответе об ошибке
const (
	StepContact     = "contact"
	StepAppointment = "appointment"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных, удалённый сервис не вызывается
	ErrInvalidInput = errors.New("book_appointment: invalid input data")

	// ErrContactUpsertFailed ошибка на шаге upsert контакта, запись не создавалась
	ErrContactUpsertFailed = errors.New("book_appointment: contact upsert failed")

	// ErrContactIDMissing upsert ответил 2xx, но идентификатора контакта в ответе нет
	ErrContactIDMissing = errors.New("book_appointment: contact id missing in upstream response")

	// ErrAppointmentCreateFailed контакт уже создан/обновлён, но запись создать не удалось.
	// Повтор безопасен: upsert идемпотентен.
	ErrAppointmentCreateFailed = errors.New("book_appointment: appointment creation failed")
)

// ContractViolationError 2xx-ответ, форма которого не совпала с контрактом
type ContractViolationError struct {
	Step    string
	Payload json.RawMessage
}

func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("%v (step=%s)", ErrContactIDMissing, e.Step)
}

func (e *ContractViolationError) Unwrap() error {
	return ErrContactIDMissing
}

// FailedStep возвращает шаг, на котором произошла ошибка, или пустую строку
func FailedStep(err error) string {
	switch {
	case errors.Is(err, ErrContactUpsertFailed), errors.Is(err, ErrContactIDMissing):
		return StepContact
	case errors.Is(err, ErrAppointmentCreateFailed):
		return StepAppointment
	default:
		return ""
	}
}
