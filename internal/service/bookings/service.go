package bookings

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/m04kA/salon-booking/internal/domain"
	bookingRepo "github.com/m04kA/salon-booking/internal/infra/storage/booking"
	"github.com/m04kA/salon-booking/internal/service/bookings/models"
	catalogService "github.com/m04kA/salon-booking/internal/service/catalog"
	"github.com/m04kA/salon-booking/pkg/types"
)

// Service административный сервис бронирований
type Service struct {
	bookingRepo BookingRepository
	quoter      ServiceQuoter
	txManager   TransactionManager
	locker      SlotLocker
	cache       AvailabilityCache
	metrics     Metrics
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	quoter ServiceQuoter,
	txManager TransactionManager,
	locker SlotLocker,
	cache AvailabilityCache,
	metrics Metrics,
	logger Logger,
) *Service {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Service{
		bookingRepo: bookingRepo,
		quoter:      quoter,
		txManager:   txManager,
		locker:      locker,
		cache:       cache,
		metrics:     metrics,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// List возвращает бронирования за период с фильтром по статусу
func (s *Service) List(ctx context.Context, req models.ListBookingsRequest) (*models.BookingListResponse, error) {
	if err := validatePeriod(req.From, req.To); err != nil {
		return nil, err
	}

	filter := domain.BookingsFilter{
		StartDate:        req.From,
		EndDate:          req.To,
		IncludeCancelled: req.IncludeCancelled,
	}

	if req.Status != nil && *req.Status != "" {
		status, ok := domain.ParseBookingStatus(*req.Status)
		if !ok {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
		}
		filter.Status = &status
	}

	items, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: found %d bookings", len(items))
	return models.FromDomainBookings(items), nil
}

// UpdateStatus меняет статус бронирования по таблице переходов
// Отмена освобождает слот
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	next, ok := domain.ParseBookingStatus(strings.TrimSpace(req.Status))
	if !ok {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
	}

	s.logger.Info("UpdateStatus: booking id=%d -> %s", id, next)

	var updated *domain.Booking

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		if !booking.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, next)
		}

		if err := s.bookingRepo.UpdateStatus(txCtx, id, next); err != nil {
			return err
		}

		booking.Status = next
		updated = booking
		return nil
	})

	if err != nil {
		return nil, s.mapWriteError("UpdateStatus", id, err)
	}

	s.invalidate(ctx, updated.Date)
	s.metrics.BookingStatusChanged(string(next))

	s.logger.Info("UpdateStatus: booking id=%d is now %s", id, next)
	return s.GetByID(ctx, id)
}

// Edit изменяет поля бронирования
// Перенос на другую пару (дата, слот) проходит ту же защиту от двойной записи, что и создание
func (s *Service) Edit(ctx context.Context, id int64, req *models.EditBookingRequest) (*models.BookingResponse, error) {
	if req == nil || req.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	edit, err := s.buildEdit(ctx, req)
	if err != nil {
		s.logger.Warn("Edit: validation failed for booking id=%d: %v", id, err)
		return nil, err
	}

	current, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapWriteError("Edit", id, err)
	}
	if !current.CanBeEdited() {
		s.logger.Warn("Edit: booking id=%d has status %s", id, current.Status)
		return nil, ErrNotEditable
	}

	moves := edit.MovesSlot(current)
	target := edit.ApplyTo(*current)

	if moves {
		unlock := s.locker.Lock(domain.SlotKey(target.Date, target.SlotLabel))
		defer unlock()
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Статус мог измениться, пока ждали блокировку
		fresh, err := s.bookingRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if !fresh.CanBeEdited() {
			return ErrNotEditable
		}

		if moves {
			held, err := s.bookingRepo.HeldSlots(txCtx, target.Date)
			if err != nil {
				return err
			}
			if domain.ContainsSlot(held, target.SlotLabel) {
				return ErrSlotTaken
			}
		}

		return s.bookingRepo.Update(txCtx, id, edit)
	})

	if err != nil {
		return nil, s.mapWriteError("Edit", id, err)
	}

	s.invalidate(ctx, current.Date)
	if !target.Date.Equal(current.Date) {
		s.invalidate(ctx, target.Date)
	}

	s.logger.Info("Edit: successfully updated booking id=%d", id)
	return s.GetByID(ctx, id)
}

// Delete удаляет бронирование без следа
func (s *Service) Delete(ctx context.Context, id int64) error {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return s.mapWriteError("Delete", id, err)
	}

	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		return s.mapWriteError("Delete", id, err)
	}

	s.invalidate(ctx, booking.Date)

	s.logger.Info("Delete: booking id=%d deleted", id)
	return nil
}

// Stats считает бронирования и выручку за период
func (s *Service) Stats(ctx context.Context, req models.PeriodRequest) (*models.StatsResponse, error) {
	if err := validatePeriod(req.From, req.To); err != nil {
		return nil, err
	}

	stats, err := s.bookingRepo.Stats(ctx, domain.BookingsFilter{
		StartDate: req.From,
		EndDate:   req.To,
	})
	if err != nil {
		s.logger.Error("Stats: repository error: %v", err)
		return nil, fmt.Errorf("%w: Stats - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainStats(stats), nil
}

// Export пишет бронирования за период в CSV в хронологическом порядке
func (s *Service) Export(ctx context.Context, req models.PeriodRequest, w io.Writer) error {
	if err := validatePeriod(req.From, req.To); err != nil {
		return err
	}

	items, err := s.bookingRepo.List(ctx, domain.BookingsFilter{
		StartDate:        req.From,
		EndDate:          req.To,
		IncludeCancelled: true,
	})
	if err != nil {
		s.logger.Error("Export: repository error: %v", err)
		return fmt.Errorf("%w: Export - repository error: %v", ErrInternal, err)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.Before(items[j].Date)
		}
		return items[i].SlotLabel.IsBefore(items[j].SlotLabel)
	})

	writer := csv.NewWriter(w)
	if err := writer.Write(models.ExportHeader); err != nil {
		return fmt.Errorf("%w: Export - write header: %v", ErrInternal, err)
	}
	for _, b := range items {
		if err := writer.Write(models.ExportRecord(b)); err != nil {
			return fmt.Errorf("%w: Export - write record: %v", ErrInternal, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("%w: Export - flush: %v", ErrInternal, err)
	}

	s.logger.Info("Export: exported %d bookings", len(items))
	return nil
}

// buildEdit валидирует запрос и пересчитывает цену при смене услуг
func (s *Service) buildEdit(ctx context.Context, req *models.EditBookingRequest) (domain.BookingEdit, error) {
	var edit domain.BookingEdit

	if req.Date != nil {
		if req.Date.IsZero() {
			return edit, fmt.Errorf("%w: date must not be empty", ErrInvalidInput)
		}
		edit.Date = req.Date
	}

	if req.Slot != nil {
		slot, err := types.NewTimeStringFromString(strings.TrimSpace(*req.Slot))
		if err != nil {
			return edit, fmt.Errorf("%w: invalid slot format: %v", ErrInvalidInput, err)
		}
		edit.SlotLabel = &slot
	}

	if req.CustomerName != nil {
		name := strings.TrimSpace(*req.CustomerName)
		if err := domain.ValidateCustomerName(name); err != nil {
			return edit, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		edit.CustomerName = &name
	}

	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if err := domain.ValidatePhone(phone); err != nil {
			return edit, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		edit.Phone = &phone
	}

	if req.Note != nil {
		note := strings.TrimSpace(*req.Note)
		if err := domain.ValidateNote(&note); err != nil {
			return edit, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		edit.Note = &note
	}

	if req.Services != nil {
		names := make([]string, 0, len(*req.Services))
		for _, name := range *req.Services {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
		if len(names) > domain.MaxServicesPerBooking {
			return edit, fmt.Errorf("%w: at most %d services per booking", ErrInvalidInput, domain.MaxServicesPerBooking)
		}

		quote, err := s.quoter.QuoteServices(ctx, names)
		if err != nil {
			if errors.Is(err, catalogService.ErrUnknownService) {
				return edit, fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			return edit, fmt.Errorf("%w: failed to quote services: %v", ErrInternal, err)
		}

		services := types.StringList(quote.Names)
		edit.Services = &services
		edit.Price = &quote.Price
		edit.DurationMinutes = &quote.DurationMinutes
	}

	return edit, nil
}

func (s *Service) mapWriteError(op string, id int64, err error) error {
	switch {
	case errors.Is(err, bookingRepo.ErrBookingNotFound):
		s.logger.Warn("%s: booking id=%d not found", op, id)
		return ErrBookingNotFound
	case errors.Is(err, ErrInvalidTransition):
		s.logger.Warn("%s: booking id=%d: %v", op, id, err)
		return err
	case errors.Is(err, ErrNotEditable):
		s.logger.Warn("%s: booking id=%d can no longer be edited", op, id)
		return ErrNotEditable
	case errors.Is(err, ErrSlotTaken), errors.Is(err, bookingRepo.ErrSlotTaken):
		s.metrics.BookingConflict()
		s.logger.Warn("%s: target slot for booking id=%d is already taken", op, id)
		return ErrSlotTaken
	default:
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}

func (s *Service) invalidate(ctx context.Context, date types.Date) {
	if err := s.cache.Invalidate(ctx, date); err != nil {
		s.logger.Warn("failed to invalidate availability cache for %s: %v", date, err)
	}
}

func validatePeriod(from, to *types.Date) error {
	if from != nil && to != nil && to.Before(*from) {
		return fmt.Errorf("%w: 'to' must not be before 'from'", ErrInvalidInput)
	}
	return nil
}
