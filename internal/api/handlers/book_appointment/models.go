package book_appointment

import (
	"encoding/json"

	bookAppointment "github.com/m04kA/SMC-CalendarBridge/internal/usecase/book_appointment"
)

// BookAppointmentRequest HTTP request model
type BookAppointmentRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	StartTime string `json:"startTime"` // "2025-10-07T09:00:00+02:00"
	EndTime   string `json:"endTime"`
	Title     string `json:"title,omitempty"`
}

// BookAppointmentResponse HTTP response model
type BookAppointmentResponse struct {
	OK          bool            `json:"ok"`
	Appointment json.RawMessage `json:"appointment"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *BookAppointmentRequest) ToUseCaseRequest() *bookAppointment.Request {
	return &bookAppointment.Request{
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Title:     r.Title,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bookAppointment.Response) *BookAppointmentResponse {
	appointment := resp.Appointment
	if len(appointment) == 0 {
		appointment = json.RawMessage("null")
	}
	return &BookAppointmentResponse{
		OK:          true,
		Appointment: appointment,
	}
}
