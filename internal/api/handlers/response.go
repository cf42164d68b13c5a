package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/m04kA/SMC-CalendarBridge/internal/integrations/leadconnector"
)

const (
	msgInternalError = "internal server error"

	maxRequestBodyBytes = 64 << 10
)

// ErrorResponse единый формат ответа об ошибке
type ErrorResponse struct {
	Error  string      `json:"error"`
	Detail interface{} `json:"detail,omitempty"`
	Step   string      `json:"step,omitempty"`
}

// RespondJSON пишет JSON-ответ с указанным статусом
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondError ответ об ошибке без деталей
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

// RespondErrorDetail ответ об ошибке с деталями и, если известен, шагом оркестрации
func RespondErrorDetail(w http.ResponseWriter, status int, message string, detail interface{}, step string) {
	RespondJSON(w, status, ErrorResponse{Error: message, Detail: detail, Step: step})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// DecodeJSON разбирает тело запроса. Пустое тело допустимо и оставляет dst нетронутым.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

// UpstreamStatus статус для ответа клиенту: статус удалённого сервиса или 500, если ответа не было
func UpstreamStatus(err error) int {
	if upErr, ok := leadconnector.AsUpstreamError(err); ok && upErr.StatusCode != 0 {
		return upErr.StatusCode
	}
	return http.StatusInternalServerError
}

// UpstreamDetail тело ответа удалённого сервиса для поля detail.
// JSON отдаётся как есть, прочий текст строкой, а при отсутствии ответа {"message": ...}.
func UpstreamDetail(err error) interface{} {
	if upErr, ok := leadconnector.AsUpstreamError(err); ok && len(upErr.Body) > 0 {
		if json.Valid(upErr.Body) {
			return json.RawMessage(upErr.Body)
		}
		return string(upErr.Body)
	}
	return map[string]string{"message": err.Error()}
}
