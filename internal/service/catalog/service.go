package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/salon-booking/internal/domain"
	catalogRepo "github.com/m04kA/salon-booking/internal/infra/storage/catalog"
	"github.com/m04kA/salon-booking/internal/service/catalog/models"
	"github.com/m04kA/salon-booking/pkg/types"
)

// Schedule шаблон слотов из конфигурации
type Schedule struct {
	DefaultSlots        []types.TimeString
	Weekdays            map[time.Weekday][]types.TimeString // переопределения, пустой список - выходной
	SlotDurationMinutes int
}

// Service каталог слотов: шаблон дня, закрытия и прайс-лист
type Service struct {
	schedule Schedule
	closures ClosureRepository
	services ServiceRepository
	cache    AvailabilityCache
	logger   Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(
	schedule Schedule,
	closures ClosureRepository,
	services ServiceRepository,
	cache AvailabilityCache,
	logger Logger,
) *Service {
	if schedule.SlotDurationMinutes <= 0 {
		schedule.SlotDurationMinutes = domain.DefaultSlotDurationMinutes
	}
	return &Service{
		schedule: schedule,
		closures: closures,
		services: services,
		cache:    cache,
		logger:   logger,
	}
}

// AvailableTemplate возвращает метки, которые салон предлагает на дату, за вычетом закрытий
// configured=false означает, что слоты на этот день не настроены вовсе (не "все занято").
// При недоступности хранилища закрытий возвращается ErrConfigMissing.
func (s *Service) AvailableTemplate(ctx context.Context, date types.Date) ([]types.TimeString, bool, error) {
	labels, configured := s.templateFor(date.Weekday())
	if !configured {
		return []types.TimeString{}, false, nil
	}

	closures, err := s.closures.ClosuresForDate(ctx, date)
	if err != nil {
		return []types.TimeString{}, false, fmt.Errorf("%w: AvailableTemplate - closures for %s: %v", ErrConfigMissing, date, err)
	}

	closed := make([]types.TimeString, 0, len(closures))
	for _, c := range closures {
		if c.IsFullDay() {
			return []types.TimeString{}, true, nil
		}
		closed = append(closed, c.Label)
	}

	return domain.SlotsDifference(labels, closed), true, nil
}

// templateFor метки дня недели без учета закрытий, дубликаты отброшены
func (s *Service) templateFor(day time.Weekday) ([]types.TimeString, bool) {
	raw, overridden := s.schedule.Weekdays[day]
	if !overridden {
		raw = s.schedule.DefaultSlots
		if len(raw) == 0 {
			return nil, false
		}
	}

	seen := make(map[types.TimeString]struct{}, len(raw))
	labels := make([]types.TimeString, 0, len(raw))
	for _, label := range raw {
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}
	return labels, true
}

// SlotDurationMinutes длительность слота по умолчанию (бронирование без услуг)
func (s *Service) SlotDurationMinutes() int {
	return s.schedule.SlotDurationMinutes
}

// QuoteServices считает цену и длительность выбранных услуг
// Все названия должны принадлежать активным услугам, иначе ErrUnknownService
func (s *Service) QuoteServices(ctx context.Context, names []string) (*models.ServicesQuote, error) {
	quote := &models.ServicesQuote{Names: make([]string, 0, len(names))}
	if len(names) == 0 {
		quote.DurationMinutes = s.schedule.SlotDurationMinutes
		return quote, nil
	}

	items, err := s.services.ListServices(ctx, true)
	if err != nil {
		s.logger.Error("QuoteServices: failed to list services: %v", err)
		return nil, fmt.Errorf("%w: QuoteServices - list services: %v", ErrInternal, err)
	}

	byName := make(map[string]*domain.ServiceItem, len(items))
	for _, item := range items {
		byName[strings.ToLower(item.Name)] = item
	}

	for _, name := range names {
		item, ok := byName[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownService, name)
		}
		quote.Names = append(quote.Names, item.Name)
		quote.Price += item.Price
		quote.DurationMinutes += item.DurationMinutes
	}

	return quote, nil
}

// ListClosures получает закрытия за период
func (s *Service) ListClosures(ctx context.Context, req models.ListClosuresRequest) ([]*models.ClosureResponse, error) {
	if req.From != nil && req.To != nil && req.To.Before(*req.From) {
		return nil, fmt.Errorf("%w: 'to' is before 'from'", ErrInvalidInput)
	}

	closures, err := s.closures.ListClosures(ctx, domain.ClosuresFilter{StartDate: req.From, EndDate: req.To})
	if err != nil {
		s.logger.Error("ListClosures: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListClosures - repository error: %v", ErrInternal, err)
	}

	result := make([]*models.ClosureResponse, 0, len(closures))
	for _, c := range closures {
		result = append(result, models.FromDomainClosure(c))
	}
	return result, nil
}

// CreateClosure закрывает слот или весь день
func (s *Service) CreateClosure(ctx context.Context, req *models.CreateClosureRequest) (*models.ClosureResponse, error) {
	s.logger.Info("CreateClosure: closing date=%s, slot=%q", req.Date, req.Slot)

	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	var label types.TimeString
	if req.Slot != "" {
		parsed, err := types.NewTimeStringFromString(req.Slot)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		label = parsed
	}

	if req.Reason != nil && utf8.RuneCountInString(*req.Reason) > domain.MaxClosureReasonLength {
		return nil, fmt.Errorf("%w: reason must not exceed %d characters", ErrInvalidInput, domain.MaxClosureReasonLength)
	}

	created, err := s.closures.CreateClosure(ctx, &domain.Closure{
		Date:   req.Date,
		Label:  label,
		Reason: req.Reason,
	})
	if err != nil {
		if errors.Is(err, catalogRepo.ErrDuplicateClosure) {
			s.logger.Warn("CreateClosure: closure for date=%s, slot=%q already exists", req.Date, req.Slot)
			return nil, ErrClosureExists
		}
		s.logger.Error("CreateClosure: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateClosure - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, created.Date)

	s.logger.Info("CreateClosure: successfully created closure id=%d", created.ID)
	return models.FromDomainClosure(created), nil
}

// DeleteClosure снимает закрытие
func (s *Service) DeleteClosure(ctx context.Context, id int64) error {
	date, err := s.closures.DeleteClosure(ctx, id)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrClosureNotFound) {
			return ErrClosureNotFound
		}
		s.logger.Error("DeleteClosure: repository error: %v", err)
		return fmt.Errorf("%w: DeleteClosure - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, date)

	s.logger.Info("DeleteClosure: successfully deleted closure id=%d", id)
	return nil
}

// ListServices получает прайс-лист (activeOnly - только активные услуги)
func (s *Service) ListServices(ctx context.Context, activeOnly bool) ([]*models.ServiceResponse, error) {
	items, err := s.services.ListServices(ctx, activeOnly)
	if err != nil {
		s.logger.Error("ListServices: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListServices - repository error: %v", ErrInternal, err)
	}

	result := make([]*models.ServiceResponse, 0, len(items))
	for _, item := range items {
		result = append(result, models.FromDomainService(item))
	}
	return result, nil
}

// CreateService добавляет услугу в прайс-лист
func (s *Service) CreateService(ctx context.Context, req *models.ServiceRequest) (*models.ServiceResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateService(req); err != nil {
		s.logger.Warn("CreateService: validation failed: %v", err)
		return nil, err
	}

	created, err := s.services.CreateService(ctx, req.ToDomainService())
	if err != nil {
		if errors.Is(err, catalogRepo.ErrDuplicateService) {
			return nil, ErrServiceExists
		}
		s.logger.Error("CreateService: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateService - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateService: successfully created service id=%d, name=%q", created.ID, created.Name)
	return models.FromDomainService(created), nil
}

// UpdateService изменяет услугу
// Цены уже созданных бронирований не пересчитываются
func (s *Service) UpdateService(ctx context.Context, id int64, req *models.ServiceRequest) (*models.ServiceResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateService(req); err != nil {
		s.logger.Warn("UpdateService: validation failed: %v", err)
		return nil, err
	}

	current, err := s.services.GetService(ctx, id)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		s.logger.Error("UpdateService: failed to get service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateService - get service: %v", ErrInternal, err)
	}

	item := req.ToDomainService()
	item.ID = id
	item.CreatedAt = current.CreatedAt
	if req.Active == nil {
		item.Active = current.Active
	}

	if err := s.services.UpdateService(ctx, item); err != nil {
		switch {
		case errors.Is(err, catalogRepo.ErrServiceNotFound):
			return nil, ErrServiceNotFound
		case errors.Is(err, catalogRepo.ErrDuplicateService):
			return nil, ErrServiceExists
		}
		s.logger.Error("UpdateService: repository error: %v", err)
		return nil, fmt.Errorf("%w: UpdateService - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateService: successfully updated service id=%d", id)
	return models.FromDomainService(item), nil
}

// DeleteService удаляет услугу из прайс-листа
func (s *Service) DeleteService(ctx context.Context, id int64) error {
	if err := s.services.DeleteService(ctx, id); err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			return ErrServiceNotFound
		}
		s.logger.Error("DeleteService: repository error: %v", err)
		return fmt.Errorf("%w: DeleteService - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteService: successfully deleted service id=%d", id)
	return nil
}

func (s *Service) invalidate(ctx context.Context, date types.Date) {
	if err := s.cache.Invalidate(ctx, date); err != nil {
		s.logger.Warn("failed to invalidate availability cache for %s: %v", date, err)
	}
}

func validateService(req *models.ServiceRequest) error {
	if req.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(req.Name) > domain.MaxServiceNameLength {
		return fmt.Errorf("%w: name must not exceed %d characters", ErrInvalidInput, domain.MaxServiceNameLength)
	}
	if req.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if req.DurationMinutes < domain.MinServiceDuration || req.DurationMinutes > domain.MaxServiceDuration {
		return fmt.Errorf("%w: duration_minutes must be in [%d, %d]",
			ErrInvalidInput, domain.MinServiceDuration, domain.MaxServiceDuration)
	}
	return nil
}
