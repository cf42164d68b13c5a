package book_appointment

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-CalendarBridge/internal/api/handlers"
	bookAppointment "github.com/m04kA/SMC-CalendarBridge/internal/usecase/book_appointment"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgUpstreamError      = "upstream error on book-appointment"
	msgContactIDMissing   = "upstream contact response has no contact id"
)

type Handler struct {
	useCase BookAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase BookAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /book-appointment
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req BookAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /book-appointment - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		step := bookAppointment.FailedStep(err)

		var contractErr *bookAppointment.ContractViolationError
		switch {
		case errors.Is(err, bookAppointment.ErrInvalidInput):
			h.logger.Warn("POST /book-appointment - Invalid input: %v", err)
			handlers.RespondBadRequest(w, clientMessage(err))

		case errors.As(err, &contractErr):
			h.logger.Error("POST /book-appointment - Upstream contract violation: step=%s", contractErr.Step)
			handlers.RespondErrorDetail(w, http.StatusBadGateway, msgContactIDMissing,
				contractErr.Payload, contractErr.Step)

		case errors.Is(err, bookAppointment.ErrContactUpsertFailed),
			errors.Is(err, bookAppointment.ErrAppointmentCreateFailed):
			status := handlers.UpstreamStatus(err)
			h.logger.Error("POST /book-appointment - Upstream error: step=%s, status=%d, error=%v", step, status, err)
			handlers.RespondErrorDetail(w, status, msgUpstreamError+" ("+step+")", handlers.UpstreamDetail(err), step)

		default:
			h.logger.Error("POST /book-appointment - Failed to book appointment: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /book-appointment - Appointment booked successfully: contact_id=%s", result.ContactID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

// clientMessage убирает префикс пакета из текста ошибки валидации
func clientMessage(err error) string {
	msg := err.Error()
	prefix := bookAppointment.ErrInvalidInput.Error() + ": "
	return strings.TrimPrefix(msg, prefix)
}
