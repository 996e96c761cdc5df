package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/salon-booking/internal/domain"
	bookingRepo "github.com/m04kA/salon-booking/internal/infra/storage/booking"
	catalogService "github.com/m04kA/salon-booking/internal/service/catalog"
	"github.com/m04kA/salon-booking/pkg/types"
)

// UseCase use case для создания бронирования
type UseCase struct {
	catalog      SlotCatalog
	bookingRepo  BookingRepository
	txManager    TransactionManager
	locker       SlotLocker
	cache        AvailabilityCache
	metrics      Metrics
	policy       Policy
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	catalog SlotCatalog,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	locker SlotLocker,
	cache AvailabilityCache,
	metrics Metrics,
	policy Policy,
	logger Logger,
) *UseCase {
	if policy.InitialStatus == "" {
		policy.InitialStatus = domain.DefaultInitialStatus
	}
	if policy.Location == nil {
		policy.Location = time.UTC
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &UseCase{
		catalog:      catalog,
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		locker:       locker,
		cache:        cache,
		metrics:      metrics,
		policy:       policy,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверка "слот свободен" и запись выполняются атомарно для пары (дата, слот):
// под блокировкой ключа в процессе, внутри транзакции с повторной проверкой,
// а уникальный индекс хранилища отклоняет запись, проскочившую мимо обоих.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	// 1. Валидация входных данных
	normalizeRequest(req)
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("CreateBooking: date=%s, slot=%s, services=%v", req.Date, req.Slot, req.Services)

	today := types.Today(uc.timeProvider.Now(), uc.policy.Location)
	if err := validateDate(req.Date, today, uc.policy.HorizonDays); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	// 2. Цена и длительность по прайс-листу
	quote, err := uc.catalog.QuoteServices(ctx, req.Services)
	if err != nil {
		if errors.Is(err, catalogService.ErrUnknownService) {
			uc.logger.Warn("CreateBooking: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		uc.logger.Error("CreateBooking: failed to quote services: %v", err)
		return nil, fmt.Errorf("%w: failed to quote services: %v", ErrPersistence, err)
	}

	// 3. Предварительная проверка по авторитетному хранилищу (не по кэшу)
	// Недоступность закрытий здесь не "слот не предлагается", а повод повторить запрос
	template, _, err := uc.catalog.AvailableTemplate(ctx, req.Date)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get template: %v", err)
		return nil, fmt.Errorf("%w: failed to get template: %v", ErrPersistence, err)
	}
	if !domain.ContainsSlot(template, req.Slot) {
		uc.logger.Warn("CreateBooking: slot %s is not offered on %s", req.Slot, req.Date)
		return nil, ErrSlotNotOffered
	}

	held, err := uc.bookingRepo.HeldSlots(ctx, req.Date)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get held slots: %v", err)
		return nil, fmt.Errorf("%w: failed to get held slots: %v", ErrPersistence, err)
	}
	if domain.ContainsSlot(held, req.Slot) {
		uc.metrics.BookingConflict()
		uc.logger.Warn("CreateBooking: slot %s on %s is already taken", req.Slot, req.Date)
		return nil, ErrSlotTaken
	}

	// 4. Запись под блокировкой пары (дата, слот)
	unlock := uc.locker.Lock(domain.SlotKey(req.Date, req.Slot))
	defer unlock()

	booking := &domain.Booking{
		Date:            req.Date,
		SlotLabel:       req.Slot,
		CustomerName:    req.CustomerName,
		Phone:           req.Phone,
		Services:        types.StringList(quote.Names),
		Price:           quote.Price,
		DurationMinutes: quote.DurationMinutes,
		Status:          uc.policy.InitialStatus,
		Note:            req.Note,
	}

	var result *domain.Booking

	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 4.1. Повторная проверка внутри транзакции (FOR UPDATE на Postgres)
		held, err := uc.bookingRepo.HeldSlots(txCtx, req.Date)
		if err != nil {
			return fmt.Errorf("%w: failed to re-check held slots: %v", ErrPersistence, err)
		}
		if domain.ContainsSlot(held, req.Slot) {
			return ErrSlotTaken
		}

		// 4.2. Добавляем запись
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotTaken) {
				return ErrSlotTaken
			}
			return fmt.Errorf("%w: failed to create booking: %v", ErrPersistence, err)
		}

		result = created
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrSlotTaken):
			uc.metrics.BookingConflict()
			uc.logger.Warn("CreateBooking: conflict on write, slot %s on %s is already taken", req.Slot, req.Date)
			return nil, ErrSlotTaken
		case errors.Is(err, ErrPersistence):
			uc.logger.Error("CreateBooking: %v", err)
			return nil, err
		default:
			uc.logger.Error("CreateBooking: transaction failed: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}

	// 5. Сбрасываем кэш доступности даты
	if err := uc.cache.Invalidate(ctx, req.Date); err != nil {
		uc.logger.Warn("CreateBooking: failed to invalidate cache for %s: %v", req.Date, err)
	}

	uc.metrics.BookingCreated()
	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	return &Response{
		ID:              result.ID,
		Date:            result.Date,
		Slot:            result.SlotLabel,
		EndTime:         result.EndTime(),
		CustomerName:    result.CustomerName,
		Phone:           result.Phone,
		Services:        result.Services,
		Price:           result.Price,
		DurationMinutes: result.DurationMinutes,
		Status:          result.Status,
		Note:            result.Note,
		CreatedAt:       result.CreatedAt,
	}, nil
}
