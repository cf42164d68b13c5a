package get_free_slots

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/m04kA/SMC-CalendarBridge/internal/domain"
)

// normalizeSlots принимает обе формы ответа: голый массив слотов или объект с полем slots.
// null и объект без slots дают пустой список.
func normalizeSlots(payload json.RawMessage) ([]domain.RawSlot, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []domain.RawSlot{}, nil
	}

	var items []json.RawMessage

	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("%w: decode slot array: %v", ErrUpstreamContract, err)
		}
	case '{':
		var envelope struct {
			Slots json.RawMessage `json:"slots"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("%w: decode slot envelope: %v", ErrUpstreamContract, err)
		}
		inner := bytes.TrimSpace(envelope.Slots)
		if len(inner) == 0 || bytes.Equal(inner, []byte("null")) {
			return []domain.RawSlot{}, nil
		}
		if err := json.Unmarshal(inner, &items); err != nil {
			return nil, fmt.Errorf("%w: slots is not an array: %v", ErrUpstreamContract, err)
		}
	default:
		return nil, fmt.Errorf("%w: unexpected payload %.64s", ErrUpstreamContract, string(trimmed))
	}

	slots := make([]domain.RawSlot, 0, len(items))
	for _, item := range items {
		slots = append(slots, domain.NewRawSlot(item))
	}
	return slots, nil
}

// filterResult итог применения политики
type filterResult struct {
	Slots          []domain.RawSlot
	Rejected       int
	Unparseable    int
	OffsetMismatch int
}

// filterSlots оставляет разрешённые слоты в исходном порядке, не больше limit.
// Подсчёт отклонённых идёт только до момента, когда набран limit.
func filterSlots(slots []domain.RawSlot, policy *domain.SlotPolicy, limit int, observe func(decision string)) filterResult {
	res := filterResult{Slots: make([]domain.RawSlot, 0, limit)}

	for _, slot := range slots {
		if len(res.Slots) >= limit {
			break
		}

		decision := policy.Evaluate(slot.StartTime())
		switch {
		case decision.Unparseable:
			res.Unparseable++
			observe(decisionUnparseable)
			continue
		case decision.OffsetMismatch:
			res.OffsetMismatch++
		}

		if !decision.Allowed {
			res.Rejected++
			observe(decisionRejected)
			continue
		}

		observe(decisionAllowed)
		res.Slots = append(res.Slots, slot)
	}

	return res
}

// truncateSlots первые limit слотов без фильтрации (диагностика)
func truncateSlots(slots []domain.RawSlot, limit int) []domain.RawSlot {
	if len(slots) > limit {
		return slots[:limit]
	}
	return slots
}

const (
	decisionAllowed     = "allowed"
	decisionRejected    = "rejected"
	decisionUnparseable = "unparseable"
)
