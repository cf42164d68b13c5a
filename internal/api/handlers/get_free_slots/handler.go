package get_free_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CalendarBridge/internal/api/handlers"
	getFreeSlots "github.com/m04kA/SMC-CalendarBridge/internal/usecase/get_free_slots"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDays        = "days must be a number"
	msgInvalidStartDate   = "startDate must be a date (YYYY-MM-DD) or an ISO-8601 timestamp"
	msgUnfilteredDisabled = "unfiltered mode is disabled"
	msgUpstreamError      = "upstream error on free-slots"
	msgUpstreamContract   = "upstream returned an unexpected free-slots payload"
)

type Handler struct {
	useCase GetFreeSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetFreeSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /get-free-slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req GetFreeSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /get-free-slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /get-free-slots - Invalid days: %s", string(req.Days))
		handlers.RespondBadRequest(w, msgInvalidDays)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getFreeSlots.ErrInvalidInput):
			h.logger.Warn("POST /get-free-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStartDate)

		case errors.Is(err, getFreeSlots.ErrUnfilteredDisabled):
			h.logger.Warn("POST /get-free-slots - Unfiltered mode requested while disabled")
			handlers.RespondBadRequest(w, msgUnfilteredDisabled)

		case errors.Is(err, getFreeSlots.ErrUpstreamContract):
			h.logger.Error("POST /get-free-slots - Upstream contract violation: %v", err)
			handlers.RespondErrorDetail(w, http.StatusBadGateway, msgUpstreamContract,
				map[string]string{"message": err.Error()}, "")

		case errors.Is(err, getFreeSlots.ErrUpstream):
			status := handlers.UpstreamStatus(err)
			h.logger.Error("POST /get-free-slots - Upstream error: status=%d, error=%v", status, err)
			handlers.RespondErrorDetail(w, status, msgUpstreamError, handlers.UpstreamDetail(err), "")

		default:
			h.logger.Error("POST /get-free-slots - Failed to get free slots: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /get-free-slots - Slots retrieved successfully: calendar_id=%s, slots_count=%d",
		result.CalendarID, len(response.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
