package book_appointment

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-CalendarBridge/internal/domain"
)

// validateRequest проверяет запрос до любого обращения к удалённому сервису.
// startTime и endTime обязательны, должны быть ISO-8601 с явным смещением и идти по порядку.
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.StartTime) == "" || strings.TrimSpace(req.EndTime) == "" {
		return fmt.Errorf("%w: startTime and endTime are required (ISO-8601 with offset)", ErrInvalidInput)
	}

	start, err := parseWithOffset(req.StartTime)
	if err != nil {
		return fmt.Errorf("%w: startTime must be ISO-8601 with offset: %v", ErrInvalidInput, err)
	}

	end, err := parseWithOffset(req.EndTime)
	if err != nil {
		return fmt.Errorf("%w: endTime must be ISO-8601 with offset: %v", ErrInvalidInput, err)
	}

	if !start.Before(end) {
		return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}

	return nil
}

// parseWithOffset принимает те же форматы со смещением, что и разбор слотов.
// Значения без смещения и epoch отклоняются: удалённый сервис трактовал бы их в своей зоне.
func parseWithOffset(value string) (time.Time, error) {
	ts, err := domain.ParseTimestamp(value, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	if !ts.HasOffset {
		return time.Time{}, fmt.Errorf("%q has no UTC offset", strings.TrimSpace(value))
	}
	return ts.Time, nil
}
