package leadconnector

import (
	"errors"
	"fmt"
)

var (
	// ErrInternal возвращается, когда запрос не удалось даже сформировать
	ErrInternal = errors.New("leadconnector client: internal error")

	// ErrTransport сетевая ошибка или истечение таймаута
	ErrTransport = errors.New("leadconnector client: transport error")

	// ErrResponseTooLarge тело ответа больше допустимого, обрезанное тело не разбирается
	ErrResponseTooLarge = errors.New("leadconnector client: response body too large")

	// ErrUnexpectedStatus удалённый сервис ответил не 2xx
	ErrUnexpectedStatus = errors.New("leadconnector client: unexpected status")
)

// UpstreamError ошибка вызова удалённого сервиса с кодом и телом ответа (если он был)
type UpstreamError struct {
	Op         string
	StatusCode int // 0, если ответа не было
	Body       []byte
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %v: status %d: %s", e.Op, e.Err, e.StatusCode, truncate(e.Body, 512))
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// AsUpstreamError достаёт *UpstreamError из цепочки ошибок
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		return upErr, true
	}
	return nil, false
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
