package get_free_slots

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-CalendarBridge/internal/domain"
	getFreeSlots "github.com/m04kA/SMC-CalendarBridge/internal/usecase/get_free_slots"
)

var errInvalidDays = errors.New("days must be a number")

// GetFreeSlotsRequest HTTP request model
type GetFreeSlotsRequest struct {
	StartDate  string          `json:"startDate"`
	Days       json.RawMessage `json:"days"` // число или числовая строка
	Unfiltered bool            `json:"unfiltered"`
}

// FreeSlotsResponse HTTP response model
type FreeSlotsResponse struct {
	CalendarID string           `json:"calendarId"`
	Timezone   string           `json:"timezone"`
	Slots      []domain.RawSlot `json:"slots"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *GetFreeSlotsRequest) ToUseCaseRequest() (*getFreeSlots.Request, error) {
	days, err := parseDays(r.Days)
	if err != nil {
		return nil, err
	}

	return &getFreeSlots.Request{
		StartDate:  strings.TrimSpace(r.StartDate),
		Days:       days,
		Unfiltered: r.Unfiltered,
	}, nil
}

// parseDays принимает 14, 14.7 или "14". Дробная часть отбрасывается.
func parseDays(raw json.RawMessage) (*int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var value float64
	var s string
	switch {
	case json.Unmarshal(raw, &value) == nil:
	case json.Unmarshal(raw, &s) == nil:
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errInvalidDays
		}
		value = v
	default:
		return nil, errInvalidDays
	}

	if math.IsNaN(value) || math.IsInf(value, 0) || math.Abs(value) > math.MaxInt32 {
		return nil, errInvalidDays
	}

	days := int(math.Trunc(value))
	return &days, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getFreeSlots.Response) *FreeSlotsResponse {
	slots := resp.Slots
	if slots == nil {
		slots = []domain.RawSlot{}
	}
	return &FreeSlotsResponse{
		CalendarID: resp.CalendarID,
		Timezone:   resp.Timezone,
		Slots:      slots,
	}
}
