package book_appointment

import "encoding/json"

// Request модель запроса на запись
type Request struct {
	Name      string
	Email     string
	Phone     string
	StartTime string // ISO-8601 со смещением
	EndTime   string // ISO-8601 со смещением
	Title     string // пусто = заголовок по умолчанию
}

// Response результат успешной записи
type Response struct {
	ContactID   string
	Appointment json.RawMessage // ответ удалённого сервиса как есть
}
