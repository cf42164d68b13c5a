package get_free_slots

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-CalendarBridge/internal/domain"
	"github.com/m04kA/SMC-CalendarBridge/internal/integrations/leadconnector"
)

// UseCase use case для получения свободных слотов с учётом политики рабочего времени
type UseCase struct {
	client       SchedulingClient
	policy       *domain.SlotPolicy
	opts         Options
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	client SchedulingClient,
	policy *domain.SlotPolicy,
	opts Options,
	metrics Metrics,
	logger Logger,
) *UseCase {
	if opts.Timezone == "" {
		opts.Timezone = policy.Location().String()
	}
	if opts.MaxSlots <= 0 {
		opts.MaxSlots = domain.DefaultMaxSlots
	}
	if opts.DiagnosticMaxSlots <= 0 {
		opts.DiagnosticMaxSlots = domain.DefaultDiagnosticMaxSlots
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &UseCase{
		client:       client,
		policy:       policy,
		opts:         opts,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения свободных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetFreeSlots: startDate=%q, days=%s, unfiltered=%t", req.StartDate, formatDays(req.Days), req.Unfiltered)

	// 1. Диагностический режим доступен только если включён в конфигурации
	if req.Unfiltered && !uc.opts.AllowUnfiltered {
		uc.logger.Warn("GetFreeSlots: unfiltered mode requested but disabled")
		return nil, ErrUnfilteredDisabled
	}

	// 2. Вычисляем диапазон
	start, end, err := resolveRange(req, uc.timeProvider.Now(), uc.policy.Location(), uc.opts.DefaultDays)
	if err != nil {
		uc.logger.Warn("GetFreeSlots: validation failed: %v", err)
		return nil, err
	}

	// 3. Один вызов удалённого сервиса, без ретраев
	payload, err := uc.client.GetFreeSlots(ctx, leadconnector.FreeSlotsQuery{
		Start:    start,
		End:      end,
		Timezone: uc.opts.Timezone,
	})
	if err != nil {
		uc.logger.Error("GetFreeSlots: upstream call failed: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	// 4. Нормализуем форму ответа
	raw, err := normalizeSlots(payload)
	if err != nil {
		uc.logger.Error("GetFreeSlots: %v", err)
		return nil, err
	}

	// 5. Фильтр и усечение
	var slots []domain.RawSlot
	if req.Unfiltered {
		slots = truncateSlots(raw, uc.opts.DiagnosticMaxSlots)
		uc.logger.Info("GetFreeSlots: unfiltered mode, returning %d of %d raw slots", len(slots), len(raw))
	} else {
		res := filterSlots(raw, uc.policy, uc.opts.MaxSlots, uc.metrics.ObserveSlotDecision)
		if res.OffsetMismatch > 0 {
			uc.logger.Warn("GetFreeSlots: %d slot(s) carry a UTC offset different from %s, classified after conversion",
				res.OffsetMismatch, uc.policy.Location())
		}
		slots = res.Slots
		uc.logger.Info("GetFreeSlots: raw=%d, allowed=%d, rejected=%d, unparseable=%d",
			len(raw), len(slots), res.Rejected, res.Unparseable)
	}

	return &Response{
		CalendarID: uc.client.CalendarID(),
		Timezone:   uc.opts.Timezone,
		Start:      start,
		End:        end,
		Slots:      slots,
	}, nil
}

func formatDays(days *int) string {
	if days == nil {
		return "default"
	}
	return fmt.Sprintf("%d", *days)
}
