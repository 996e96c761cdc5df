package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/salon-booking/internal/domain"
	catalogService "github.com/m04kA/salon-booking/internal/service/catalog"
	"github.com/m04kA/salon-booking/pkg/types"
)

// Результаты обращения к кэшу для метрик
const (
	cacheHit   = "hit"
	cacheMiss  = "miss"
	cacheError = "error"
)

// UseCase use case для получения доступных слотов на дату
type UseCase struct {
	catalog     SlotCatalog
	bookingRepo BookingRepository
	cache       AvailabilityCache
	metrics     Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	catalog SlotCatalog,
	bookingRepo BookingRepository,
	cache AvailabilityCache,
	metrics Metrics,
	logger Logger,
) *UseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &UseCase{
		catalog:     catalog,
		bookingRepo: bookingRepo,
		cache:       cache,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute возвращает свободные слоты: шаблон дня минус занятые бронированиями
// Результат кэшируется на короткое время; запись бронирования сбрасывает кэш даты
// и не дает сохранить результат, рассчитанный до неё.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 1. Пробуем кэш. Ошибка кэша не мешает расчету
	cached, ok, err := uc.cache.Get(ctx, req.Date)
	switch {
	case err != nil:
		uc.metrics.CacheResult(cacheError)
		uc.logger.Warn("GetAvailableSlots: cache get failed for date=%s: %v", req.Date, err)
	case ok:
		uc.metrics.CacheResult(cacheHit)
		return &Response{Date: req.Date, Slots: cached.Slots, Configured: cached.Configured}, nil
	default:
		uc.metrics.CacheResult(cacheMiss)
	}

	// Поколение фиксируем до чтения хранилища: запись, сбросившая кэш во время расчета,
	// не даст сохранить устаревший результат
	generation, genErr := uc.cache.Generation(ctx, req.Date)
	if genErr != nil {
		uc.logger.Warn("GetAvailableSlots: cache generation failed for date=%s: %v", req.Date, genErr)
	}

	// 2. Шаблон дня без закрытых меток
	template, configured, err := uc.catalog.AvailableTemplate(ctx, req.Date)
	if err != nil {
		if errors.Is(err, catalogService.ErrConfigMissing) {
			// Деградируем до "слоты не настроены", не кэшируем
			uc.logger.Warn("GetAvailableSlots: slot configuration unavailable for date=%s: %v", req.Date, err)
			return emptyResponse(req.Date), nil
		}
		uc.logger.Error("GetAvailableSlots: failed to get template for date=%s: %v", req.Date, err)
		return nil, fmt.Errorf("%w: failed to get template: %v", ErrInternal, err)
	}

	if !configured {
		return emptyResponse(req.Date), nil
	}

	// 3. Занятые метки из реестра
	held, err := uc.bookingRepo.HeldSlots(ctx, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get held slots for date=%s: %v", req.Date, err)
		return nil, fmt.Errorf("%w: failed to get held slots: %v", ErrPersistence, err)
	}

	day := &domain.DayAvailability{
		Date:       req.Date,
		Slots:      domain.SlotsDifference(template, held),
		Configured: true,
	}

	if genErr == nil {
		if err := uc.cache.Set(ctx, day, generation); err != nil {
			uc.logger.Warn("GetAvailableSlots: cache set failed for date=%s: %v", req.Date, err)
		}
	}

	return &Response{Date: day.Date, Slots: day.Slots, Configured: day.Configured}, nil
}

func emptyResponse(date types.Date) *Response {
	return &Response{Date: date, Slots: []types.TimeString{}, Configured: false}
}
