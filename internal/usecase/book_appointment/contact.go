package book_appointment

import (
	"bytes"
	"encoding/json"
	"strings"
)

// contactIDExtractor достаёт идентификатор контакта из одной из известных форм ответа upsert
type contactIDExtractor struct {
	name    string
	extract func(payload map[string]json.RawMessage) (string, bool)
}

// contactIDExtractors порядок важен: побеждает первое найденное значение
var contactIDExtractors = []contactIDExtractor{
	{name: "contact.id", extract: nestedContactID},
	{name: "id", extract: fieldID("id")},
	{name: "contactId", extract: fieldID("contactId")},
}

// extractContactID возвращает идентификатор и путь, по которому он найден
func extractContactID(payload json.RawMessage) (id string, path string, ok bool) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return "", "", false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return "", "", false
	}

	for _, e := range contactIDExtractors {
		if id, ok := e.extract(fields); ok {
			return id, e.name, true
		}
	}
	return "", "", false
}

func nestedContactID(payload map[string]json.RawMessage) (string, bool) {
	raw, ok := payload["contact"]
	if !ok {
		return "", false
	}
	var contact map[string]json.RawMessage
	if err := json.Unmarshal(raw, &contact); err != nil {
		return "", false
	}
	return fieldID("id")(contact)
}

func fieldID(key string) func(map[string]json.RawMessage) (string, bool) {
	return func(payload map[string]json.RawMessage) (string, bool) {
		raw, ok := payload[key]
		if !ok {
			return "", false
		}
		return idValue(raw)
	}
}

// idValue непустая строка или число; null, пустая строка и прочее не считаются идентификатором
func idValue(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		return s, s != ""
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil && n != "" {
		return n.String(), true
	}

	return "", false
}
