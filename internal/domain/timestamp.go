package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrUnparseableTimestamp значение не удалось интерпретировать как дату/время
var ErrUnparseableTimestamp = errors.New("unparseable timestamp")

// epochMillisThreshold числа больше порога считаются миллисекундами, меньше — секундами
const epochMillisThreshold = 1e11

// Layouts со смещением UTC
var offsetLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04Z07:00",
}

// Layouts без смещения, интерпретируются в заданной зоне
var localLayouts = []string{
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	DateFormat,
}

// Timestamp результат разбора значения времени
type Timestamp struct {
	Time time.Time
	// HasOffset true, если смещение было указано явно в исходной строке.
	// Для epoch-значений false: это абсолютный момент без заявленной зоны.
	HasOffset bool
}

// ParseTimestamp разбирает строку ISO-8601 (со смещением или без) или epoch-значение в строке.
// Значения без смещения интерпретируются в loc.
func ParseTimestamp(value string, loc *time.Location) (Timestamp, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Timestamp{}, fmt.Errorf("%w: empty value", ErrUnparseableTimestamp)
	}
	if loc == nil {
		loc = time.UTC
	}

	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return Timestamp{Time: t, HasOffset: true}, nil
		}
	}

	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return Timestamp{Time: t}, nil
		}
	}

	if f, err := json.Number(value).Float64(); err == nil {
		return fromEpoch(f)
	}

	return Timestamp{}, fmt.Errorf("%w: %q", ErrUnparseableTimestamp, value)
}

// ParseTimestampJSON разбирает JSON-значение: строку или число (epoch)
func ParseTimestampJSON(raw json.RawMessage, loc *time.Location) (Timestamp, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Timestamp{}, fmt.Errorf("%w: missing value", ErrUnparseableTimestamp)
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Timestamp{}, fmt.Errorf("%w: %v", ErrUnparseableTimestamp, err)
		}
		return ParseTimestamp(s, loc)
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return Timestamp{}, fmt.Errorf("%w: %s", ErrUnparseableTimestamp, string(raw))
		}
		f, err := n.Float64()
		if err != nil {
			return Timestamp{}, fmt.Errorf("%w: %v", ErrUnparseableTimestamp, err)
		}
		return fromEpoch(f)
	}
}

func fromEpoch(f float64) (Timestamp, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return Timestamp{}, fmt.Errorf("%w: invalid epoch %v", ErrUnparseableTimestamp, f)
	}
	if f >= epochMillisThreshold {
		return Timestamp{Time: time.UnixMilli(int64(f)).UTC()}, nil
	}
	return Timestamp{Time: time.Unix(int64(f), 0).UTC()}, nil
}
