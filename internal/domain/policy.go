package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrInvalidWindow некорректное окно рабочего времени
var ErrInvalidWindow = errors.New("invalid policy window")

// Window окно рабочего времени в минутах от полуночи: [Start, End)
type Window struct {
	Start int
	End   int
}

// Contains проверяет, попадает ли минута суток в окно (начало включено, конец исключён)
func (w Window) Contains(minuteOfDay int) bool {
	return minuteOfDay >= w.Start && minuteOfDay < w.End
}

func (w Window) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", w.Start/60, w.Start%60, w.End/60, w.End%60)
}

// SlotPolicy правила допустимости слотов: окна по дням недели в заданной временной зоне.
// Удалённый сервис не знает о часах работы, поэтому каждый слот перепроверяется здесь.
type SlotPolicy struct {
	location *time.Location
	windows  map[time.Weekday][]Window
}

// NewSlotPolicy создает политику. Дни без окон считаются нерабочими.
func NewSlotPolicy(loc *time.Location, windows map[time.Weekday][]Window) (*SlotPolicy, error) {
	if loc == nil {
		return nil, errors.New("slot policy: location is required")
	}

	copied := make(map[time.Weekday][]Window, len(windows))
	for day, list := range windows {
		for _, w := range list {
			if w.Start < 0 || w.End > 24*60 || w.Start >= w.End {
				return nil, fmt.Errorf("%w: %s on %s", ErrInvalidWindow, w, day)
			}
		}
		sorted := append([]Window(nil), list...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
		copied[day] = sorted
	}

	return &SlotPolicy{location: loc, windows: copied}, nil
}

// DefaultSlotPolicy пн–пт, 09–13 и 15–18 в указанной зоне
func DefaultSlotPolicy(loc *time.Location) *SlotPolicy {
	p, _ := NewSlotPolicy(loc, DefaultPolicyWindows())
	return p
}

// Location зона, в которой интерпретируются слоты
func (p *SlotPolicy) Location() *time.Location {
	return p.location
}

// Allowed проверяет момент времени в зоне политики
func (p *SlotPolicy) Allowed(t time.Time) bool {
	local := t.In(p.location)
	minute := local.Hour()*60 + local.Minute()
	for _, w := range p.windows[local.Weekday()] {
		if w.Contains(minute) {
			return true
		}
	}
	return false
}

// SlotDecision результат проверки одного слота
type SlotDecision struct {
	Allowed     bool
	Unparseable bool
	Time        time.Time
	// OffsetMismatch смещение в ответе не совпадает со смещением зоны политики
	OffsetMismatch bool
}

// Evaluate классифицирует значение startTime из ответа удалённого сервиса.
// Нераспознанное значение не ошибка: слот просто отбрасывается.
func (p *SlotPolicy) Evaluate(startTime json.RawMessage) SlotDecision {
	ts, err := ParseTimestampJSON(startTime, p.location)
	if err != nil {
		return SlotDecision{Unparseable: true}
	}

	decision := SlotDecision{
		Allowed: p.Allowed(ts.Time),
		Time:    ts.Time,
	}

	if ts.HasOffset {
		_, got := ts.Time.Zone()
		_, want := ts.Time.In(p.location).Zone()
		decision.OffsetMismatch = got != want
	}

	return decision
}
