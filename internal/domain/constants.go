package domain

import "time"

// Значения по умолчанию
const (
	DefaultTimezone           = "Europe/Rome"
	DefaultRangeDays          = 14
	DefaultMaxSlots           = 3
	DefaultDiagnosticMaxSlots = 10
	DefaultAppointmentTitle   = "Appointment"
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// DefaultPolicyWindows рабочие окна по умолчанию: пн–пт, 09:00–13:00 и 15:00–18:00
func DefaultPolicyWindows() map[time.Weekday][]Window {
	workday := []Window{
		{Start: 9 * 60, End: 13 * 60},
		{Start: 15 * 60, End: 18 * 60},
	}
	return map[time.Weekday][]Window{
		time.Monday:    workday,
		time.Tuesday:   workday,
		time.Wednesday: workday,
		time.Thursday:  workday,
		time.Friday:    workday,
	}
}
