package book_appointment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CalendarBridge/internal/integrations/leadconnector"
	"github.com/m04kA/SMC-CalendarBridge/pkg/logger"
)

type fakeClient struct {
	upsertPayload json.RawMessage
	upsertErr     error
	createPayload json.RawMessage
	createErr     error

	upsertCalls int
	createCalls int
	lastContact leadconnector.ContactInput
	lastAppt    leadconnector.AppointmentInput
}

func (f *fakeClient) UpsertContact(_ context.Context, in leadconnector.ContactInput) (json.RawMessage, error) {
	f.upsertCalls++
	f.lastContact = in
	return f.upsertPayload, f.upsertErr
}

func (f *fakeClient) CreateAppointment(_ context.Context, in leadconnector.AppointmentInput) (json.RawMessage, error) {
	f.createCalls++
	f.lastAppt = in
	return f.createPayload, f.createErr
}

func validRequest() *Request {
	return &Request{
		Name:      "Mario Rossi",
		Email:     "mario@example.com",
		Phone:     "+39333000000",
		StartTime: "2025-10-07T09:00:00+02:00",
		EndTime:   "2025-10-07T09:30:00+02:00",
	}
}

func upstreamErr(op string, status int, body string) error {
	return &leadconnector.UpstreamError{
		Op:         op,
		StatusCode: status,
		Body:       []byte(body),
		Err:        leadconnector.ErrUnexpectedStatus,
	}
}

func TestExecute_Success(t *testing.T) {
	client := &fakeClient{
		upsertPayload: json.RawMessage(`{"contact":{"id":"c-42"},"new":true}`),
		createPayload: json.RawMessage(`{"id":"appt-1","appointmentStatus":"confirmed"}`),
	}
	uc := NewUseCase(client, "", logger.NewNop())

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "c-42", resp.ContactID)
	assert.JSONEq(t, `{"id":"appt-1","appointmentStatus":"confirmed"}`, string(resp.Appointment))
	assert.Equal(t, 1, client.upsertCalls)
	assert.Equal(t, 1, client.createCalls)

	assert.Equal(t, leadconnector.ContactInput{Name: "Mario Rossi", Email: "mario@example.com", Phone: "+39333000000"}, client.lastContact)
	assert.Equal(t, leadconnector.AppointmentInput{
		ContactID: "c-42",
		StartTime: "2025-10-07T09:00:00+02:00",
		EndTime:   "2025-10-07T09:30:00+02:00",
		Title:     "Appointment",
	}, client.lastAppt)
}

func TestExecute_CustomAndConfiguredTitle(t *testing.T) {
	client := &fakeClient{
		upsertPayload: json.RawMessage(`{"id":"c-1"}`),
		createPayload: json.RawMessage(`{}`),
	}

	_, err := NewUseCase(client, "Consulenza", logger.NewNop()).Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "Consulenza", client.lastAppt.Title)

	req := validRequest()
	req.Title = "Prima visita"
	_, err = NewUseCase(client, "Consulenza", logger.NewNop()).Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Prima visita", client.lastAppt.Title)
}

func TestExecute_InvalidInputMakesNoCalls(t *testing.T) {
	cases := map[string]func(r *Request){
		"missing start":    func(r *Request) { r.StartTime = "" },
		"missing end":      func(r *Request) { r.EndTime = "  " },
		"start not iso":    func(r *Request) { r.StartTime = "tomorrow at 9" },
		"end without zone": func(r *Request) { r.EndTime = "2025-10-07T09:30:00" },
		"end before start": func(r *Request) { r.EndTime = "2025-10-07T08:30:00+02:00" },
		"zero length":      func(r *Request) { r.EndTime = r.StartTime },
		"epoch start":      func(r *Request) { r.StartTime = "1759820400000" },
		"date only":        func(r *Request) { r.StartTime = "2025-10-07" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			client := &fakeClient{}
			req := validRequest()
			mutate(req)

			_, err := NewUseCase(client, "", logger.NewNop()).Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, 0, client.upsertCalls)
			assert.Equal(t, 0, client.createCalls)
		})
	}
}

func TestExecute_AcceptsOffsetWithoutSeconds(t *testing.T) {
	cases := map[string][2]string{
		"minutes precision": {"2025-10-07T09:00+02:00", "2025-10-07T09:30+02:00"},
		"utc designator":    {"2025-10-07T07:00Z", "2025-10-07T07:30:00Z"},
		"fractional":        {"2025-10-07T09:00:00.000+02:00", "2025-10-07T09:30:00.000+02:00"},
	}

	for name, times := range cases {
		t.Run(name, func(t *testing.T) {
			client := &fakeClient{
				upsertPayload: json.RawMessage(`{"id":"c-1"}`),
				createPayload: json.RawMessage(`{}`),
			}
			req := validRequest()
			req.StartTime, req.EndTime = times[0], times[1]

			_, err := NewUseCase(client, "", logger.NewNop()).Execute(context.Background(), req)
			require.NoError(t, err)
			assert.Equal(t, times[0], client.lastAppt.StartTime)
			assert.Equal(t, times[1], client.lastAppt.EndTime)
		})
	}
}

func TestExecute_ContactStepFailure(t *testing.T) {
	client := &fakeClient{
		upsertErr: upstreamErr(leadconnector.OpUpsertContact, http.StatusBadRequest, `{"message":"invalid phone"}`),
	}

	_, err := NewUseCase(client, "", logger.NewNop()).Execute(context.Background(), validRequest())
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrContactUpsertFailed)
	assert.False(t, errors.Is(err, ErrAppointmentCreateFailed))
	assert.Equal(t, StepContact, FailedStep(err))
	assert.Equal(t, 1, client.upsertCalls)
	assert.Equal(t, 0, client.createCalls)

	upErr, ok := leadconnector.AsUpstreamError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, upErr.StatusCode)
}

func TestExecute_AppointmentStepFailure(t *testing.T) {
	client := &fakeClient{
		upsertPayload: json.RawMessage(`{"contact":{"id":"c-42"}}`),
		createErr:     upstreamErr(leadconnector.OpCreateAppointment, http.StatusConflict, `{"message":"slot taken"}`),
	}

	_, err := NewUseCase(client, "", logger.NewNop()).Execute(context.Background(), validRequest())
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrAppointmentCreateFailed)
	assert.False(t, errors.Is(err, ErrContactUpsertFailed))
	assert.Equal(t, StepAppointment, FailedStep(err))
	assert.Equal(t, 1, client.upsertCalls)
	assert.Equal(t, 1, client.createCalls)

	upErr, ok := leadconnector.AsUpstreamError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, upErr.StatusCode)
}

func TestExecute_ContactIDMissing(t *testing.T) {
	client := &fakeClient{
		upsertPayload: json.RawMessage(`{"contact":{"name":"Mario"},"succeeded":true}`),
	}

	_, err := NewUseCase(client, "", logger.NewNop()).Execute(context.Background(), validRequest())
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrContactIDMissing)
	assert.Equal(t, StepContact, FailedStep(err))

	var cv *ContractViolationError
	require.True(t, errors.As(err, &cv))
	assert.JSONEq(t, `{"contact":{"name":"Mario"},"succeeded":true}`, string(cv.Payload))

	_, isUpstream := leadconnector.AsUpstreamError(err)
	assert.False(t, isUpstream)
	assert.Equal(t, 1, client.upsertCalls)
	assert.Equal(t, 0, client.createCalls)
}

func TestExtractContactID(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		wantID  string
		wantOK  bool
		wantVia string
	}{
		{"nested", `{"contact":{"id":"abc"}}`, "abc", true, "contact.id"},
		{"top level", `{"id":"abc"}`, "abc", true, "id"},
		{"contactId", `{"contactId":"abc"}`, "abc", true, "contactId"},
		{"nested wins over id", `{"id":"top","contact":{"id":"nested"},"contactId":"field"}`, "nested", true, "contact.id"},
		{"id wins over contactId", `{"id":"top","contactId":"field"}`, "top", true, "id"},
		{"empty nested falls through", `{"contact":{"id":""},"contactId":"field"}`, "field", true, "contactId"},
		{"null contact falls through", `{"contact":null,"id":"top"}`, "top", true, "id"},
		{"numeric id", `{"id":12345}`, "12345", true, "id"},
		{"nothing", `{"contact":{}}`, "", false, ""},
		{"array", `[{"id":"abc"}]`, "", false, ""},
		{"null", `null`, "", false, ""},
		{"boolean id", `{"id":true}`, "", false, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, via, ok := extractContactID(json.RawMessage(tc.payload))
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantID, id)
			assert.Equal(t, tc.wantVia, via)
		})
	}
}
