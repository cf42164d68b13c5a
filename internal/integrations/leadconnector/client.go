package leadconnector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/m04kA/SMC-CalendarBridge/pkg/metrics"
)

// Операции, они же метки метрик и имена спанов
const (
	OpFreeSlots         = "free_slots"
	OpUpsertContact     = "upsert_contact"
	OpCreateAppointment = "create_appointment"
)

// DefaultMaxResponseBytes предел размера тела ответа, если в Config не задан свой
const DefaultMaxResponseBytes int64 = 8 << 20

var tracer = otel.Tracer("calendar-bridge/leadconnector")

// Client клиент LeadConnector (GoHighLevel) API.
// Ретраев нет: любая ошибка сразу возвращается вызывающему.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        Logger
	metrics    Metrics
}

// NewClient создает новый экземпляр клиента
func NewClient(cfg Config, log Logger, m Metrics) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.MaxResponseBytes <= 0 {
		cfg.MaxResponseBytes = DefaultMaxResponseBytes
	}
	if m == nil {
		m = (*metrics.Metrics)(nil)
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		log:     log,
		metrics: m,
	}
}

// CalendarID календарь, с которым работает клиент
func (c *Client) CalendarID() string {
	return c.cfg.CalendarID
}

// GetFreeSlots запрашивает свободные слоты календаря. Границы передаются в epoch-миллисекундах.
// Тело ответа возвращается как есть: форма ответа зависит от версии API.
func (c *Client) GetFreeSlots(ctx context.Context, q FreeSlotsQuery) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("startDate", strconv.FormatInt(q.Start.UnixMilli(), 10))
	params.Set("endDate", strconv.FormatInt(q.End.UnixMilli(), 10))
	if q.Timezone != "" {
		params.Set("timezone", q.Timezone)
	}

	path := fmt.Sprintf("/calendars/%s/free-slots", url.PathEscape(c.cfg.CalendarID))

	c.log.Info("LeadConnector: GET free-slots calendar=%s startDate=%s endDate=%s timezone=%s",
		c.cfg.CalendarID, params.Get("startDate"), params.Get("endDate"), q.Timezone)

	return c.do(ctx, OpFreeSlots, http.MethodGet, path, params, nil)
}

// UpsertContact создает или обновляет контакт в локации
func (c *Client) UpsertContact(ctx context.Context, in ContactInput) (json.RawMessage, error) {
	body := upsertContactBody{
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		LocationID: c.cfg.LocationID,
	}
	return c.do(ctx, OpUpsertContact, http.MethodPost, "/contacts/upsert", nil, body)
}

// CreateAppointment создает запись в календаре для контакта
func (c *Client) CreateAppointment(ctx context.Context, in AppointmentInput) (json.RawMessage, error) {
	body := createAppointmentBody{
		CalendarID: c.cfg.CalendarID,
		LocationID: c.cfg.LocationID,
		ContactID:  in.ContactID,
		StartTime:  in.StartTime,
		EndTime:    in.EndTime,
		Title:      in.Title,
	}
	return c.do(ctx, OpCreateAppointment, http.MethodPost, "/calendars/events/appointments", nil, body)
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, payload interface{}) (json.RawMessage, error) {
	ctx, span := tracer.Start(ctx, "leadconnector."+op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("leadconnector.operation", op),
		attribute.String("leadconnector.calendar_id", c.cfg.CalendarID),
	)

	started := time.Now()
	status := 0
	defer func() {
		c.metrics.ObserveUpstreamCall(op, metrics.StatusClass(status), time.Since(started))
	}()

	fail := func(upErr *UpstreamError) (json.RawMessage, error) {
		span.RecordError(upErr)
		span.SetStatus(codes.Error, upErr.Err.Error())
		return nil, upErr
	}

	endpoint := c.cfg.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fail(&UpstreamError{Op: op, Err: fmt.Errorf("%w: failed to encode body: %v", ErrInternal, err)})
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fail(&UpstreamError{Op: op, Err: fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)})
	}

	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Version", c.cfg.APIVersion)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if IsTimeout(err) {
			c.log.Error("LeadConnector: %s %s timed out (limit %s): %v", method, path, c.cfg.Timeout, err)
		} else {
			c.log.Error("LeadConnector: %s %s failed: %v", method, path, err)
		}
		return fail(&UpstreamError{Op: op, Err: fmt.Errorf("%w: %w", ErrTransport, err)})
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	// Статус ответа учитывается только после того, как тело прочитано целиком:
	// обрыв или таймаут на чтении тела это транспортная ошибка без статуса
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxResponseBytes+1))
	if err != nil {
		if IsTimeout(err) {
			c.log.Error("LeadConnector: %s %s timed out reading response (limit %s): %v", method, path, c.cfg.Timeout, err)
		} else {
			c.log.Error("LeadConnector: %s %s: failed to read response: %v", method, path, err)
		}
		return fail(&UpstreamError{Op: op, Err: fmt.Errorf("%w: failed to read response: %w", ErrTransport, err)})
	}
	success := resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices
	if int64(len(body)) > c.cfg.MaxResponseBytes {
		if success {
			c.log.Error("LeadConnector: %s %s: response exceeds %d bytes", method, path, c.cfg.MaxResponseBytes)
			return fail(&UpstreamError{Op: op, Err: fmt.Errorf("%w: limit %d bytes", ErrResponseTooLarge, c.cfg.MaxResponseBytes)})
		}
		// для ошибки достаточно начала тела, статус важнее
		body = body[:c.cfg.MaxResponseBytes]
	}

	status = resp.StatusCode

	if !success {
		c.log.Warn("LeadConnector: %s %s returned status %d: %s", method, path, status, truncate(body, 512))
		return fail(&UpstreamError{Op: op, StatusCode: status, Body: body, Err: ErrUnexpectedStatus})
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return json.RawMessage("null"), nil
	}

	if !json.Valid(body) {
		// 2xx с не-JSON телом отдаём как строку, разбор контракта решает дальше
		quoted, _ := json.Marshal(string(body))
		return json.RawMessage(quoted), nil
	}

	return json.RawMessage(body), nil
}

// IsTimeout true, если ошибка вызвана истечением таймаута или отменой контекста
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
