package get_free_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-CalendarBridge/internal/domain"
)

// resolveRange вычисляет границы поиска.
// Конец считается календарными днями (AddDate), а не 24h*days, чтобы переход на летнее время не сдвигал границу.
func resolveRange(req *Request, now time.Time, loc *time.Location, defaultDays int) (time.Time, time.Time, error) {
	start := now.In(loc)
	if req.StartDate != "" {
		ts, err := domain.ParseTimestamp(req.StartDate, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: startDate: %v", ErrInvalidInput, err)
		}
		start = ts.Time
	}

	days := defaultDays
	if req.Days != nil {
		days = *req.Days
	}
	if days < 0 {
		days = 0
	}

	return start, start.AddDate(0, 0, days), nil
}
