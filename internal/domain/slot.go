package domain

import (
	"bytes"
	"encoding/json"
)

// RawSlot слот в том виде, в каком его вернул удалённый сервис.
// Отдаётся клиенту без изменений, из него читается только startTime.
type RawSlot struct {
	raw json.RawMessage
}

// NewRawSlot оборачивает JSON-элемент ответа
func NewRawSlot(raw json.RawMessage) RawSlot {
	return RawSlot{raw: append(json.RawMessage(nil), raw...)}
}

// StartTime значение поля startTime или nil, если элемент не объект или поля нет
func (s RawSlot) StartTime() json.RawMessage {
	trimmed := bytes.TrimSpace(s.raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}

	var probe struct {
		StartTime json.RawMessage `json:"startTime"`
	}
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return nil
	}
	return probe.StartTime
}

// MarshalJSON отдаёт исходный JSON слота
func (s RawSlot) MarshalJSON() ([]byte, error) {
	if len(s.raw) == 0 {
		return []byte("null"), nil
	}
	return s.raw, nil
}
