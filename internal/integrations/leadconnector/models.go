package leadconnector

import "time"

// Config параметры подключения к LeadConnector.
// Создаётся один раз при старте и передаётся в NewClient.
type Config struct {
	BaseURL    string
	APIVersion string
	Token      string
	CalendarID string
	LocationID string
	Timeout    time.Duration // на каждый вызов
	// MaxResponseBytes предел тела ответа; 0 = DefaultMaxResponseBytes
	MaxResponseBytes int64
}

// FreeSlotsQuery диапазон поиска свободных слотов
type FreeSlotsQuery struct {
	Start    time.Time
	End      time.Time
	Timezone string
}

// ContactInput поля контакта для upsert
type ContactInput struct {
	Name  string
	Email string
	Phone string
}

// AppointmentInput параметры создаваемой записи
type AppointmentInput struct {
	ContactID string
	StartTime string // ISO-8601 со смещением, передаётся как есть
	EndTime   string
	Title     string
}

type upsertContactBody struct {
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	LocationID string `json:"locationId"`
}

type createAppointmentBody struct {
	CalendarID string `json:"calendarId"`
	LocationID string `json:"locationId"`
	ContactID  string `json:"contactId"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	Title      string `json:"title"`
}
