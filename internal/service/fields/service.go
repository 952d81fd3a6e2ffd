package fields

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-FieldBookingService/internal/domain"
	fieldRepo "github.com/m04kA/SMC-FieldBookingService/internal/infra/storage/field"
	"github.com/m04kA/SMC-FieldBookingService/internal/service/fields/models"
	"github.com/m04kA/SMC-FieldBookingService/pkg/types"
)

// Service сервис для работы с полями и статистикой владельца
type Service struct {
	fieldRepo    FieldRepository
	statsRepo    StatsRepository
	hoursPerDay  int
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса полей.
// opening и closing задают часы работы, по которым считается заполняемость.
func NewService(
	fieldRepo FieldRepository,
	statsRepo StatsRepository,
	opening, closing types.TimeString,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	if opening.IsZero() {
		opening = domain.DefaultOpeningTime
	}
	if closing.IsZero() {
		closing = domain.DefaultClosingTime
	}
	return &Service{
		fieldRepo:    fieldRepo,
		statsRepo:    statsRepo,
		hoursPerDay:  (closing.Minutes() - opening.Minutes()) / 60,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Create создает новое поле
// Доступно только пользователям с ролью owner
func (s *Service) Create(ctx context.Context, req *models.CreateFieldRequest) (*models.FieldResponse, error) {
	s.logger.Info("Create: creating field name=%q by owner=%d", req.Name, req.OwnerID)

	if req.Role != domain.RoleOwner {
		s.logger.Warn("Create: user=%d with role=%q cannot create fields", req.OwnerID, req.Role)
		return nil, ErrAccessDenied
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := validateFieldData(req.Name, req.Capacity, req.PricePerHour, req.Description); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	created, err := s.fieldRepo.Create(ctx, req.ToDomainField())
	if err != nil {
		s.logger.Error("Create: repository error for owner=%d: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created field id=%d", created.ID)
	return models.FromDomainField(created), nil
}

// GetByID получает поле по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.FieldResponse, error) {
	field, err := s.getField(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainField(field), nil
}

// ListAvailable возвращает доступные для бронирования поля, новые первыми
func (s *Service) ListAvailable(ctx context.Context) (*models.FieldListResponse, error) {
	fields, err := s.fieldRepo.List(ctx, true)
	if err != nil {
		s.logger.Error("ListAvailable: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListAvailable - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListAvailable: fetched %d fields", len(fields))
	return models.FromDomainFieldList(fields), nil
}

// ListByOwner возвращает все поля владельца
func (s *Service) ListByOwner(ctx context.Context, ownerID int64) (*models.FieldListResponse, error) {
	fields, err := s.fieldRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("ListByOwner: repository error for owner=%d: %v", ownerID, err)
		return nil, fmt.Errorf("%w: ListByOwner - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByOwner: fetched %d fields for owner=%d", len(fields), ownerID)
	return models.FromDomainFieldList(fields), nil
}

// Update частично обновляет поле
// Доступно только владельцу поля
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateFieldRequest) (*models.FieldResponse, error) {
	s.logger.Info("Update: updating field id=%d by user=%d", id, req.OwnerID)

	update := req.ToDomainUpdate()
	if update.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	// 1. Получаем поле и проверяем владельца
	field, err := s.getField(ctx, "Update", id)
	if err != nil {
		return nil, err
	}

	if !field.IsOwnedBy(req.OwnerID) {
		s.logger.Warn("Update: user=%d is not the owner of field=%d", req.OwnerID, id)
		return nil, ErrAccessDenied
	}

	// 2. Применяем изменения и валидируем результат
	update.Apply(field)
	field.Name = strings.TrimSpace(field.Name)
	if err := validateFieldData(field.Name, field.Capacity, field.PricePerHour, field.Description); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}

	// 3. Сохраняем
	updated, err := s.fieldRepo.Update(ctx, field)
	if err != nil {
		if errors.Is(err, fieldRepo.ErrFieldNotFound) {
			return nil, ErrFieldNotFound
		}
		s.logger.Error("Update: repository error for field id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated field id=%d", id)
	return models.FromDomainField(updated), nil
}

// GetOwnerStats возвращает выручку, число бронирований и заполняемость
// полей владельца за последние StatsWindowDays дней, включая сегодня
func (s *Service) GetOwnerStats(ctx context.Context, ownerID int64, role string) (*models.OwnerStatsResponse, error) {
	s.logger.Info("GetOwnerStats: fetching stats for owner=%d", ownerID)

	if role != domain.RoleOwner {
		s.logger.Warn("GetOwnerStats: user=%d with role=%q is not an owner", ownerID, role)
		return nil, ErrAccessDenied
	}

	now := s.timeProvider.Now()
	until := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	since := until.AddDate(0, 0, -(domain.StatsWindowDays - 1))

	stats, err := s.statsRepo.GetOwnerStats(ctx, ownerID, since, until)
	if err != nil {
		s.logger.Error("GetOwnerStats: repository error for owner=%d: %v", ownerID, err)
		return nil, fmt.Errorf("%w: GetOwnerStats - repository error: %v", ErrInternal, err)
	}

	resp := &models.OwnerStatsResponse{
		PeriodStart: since.Format(domain.DateFormat),
		PeriodEnd:   until.Format(domain.DateFormat),
		Fields:      make([]models.FieldStatsResponse, 0, len(stats)),
	}
	for _, st := range stats {
		st.AvailableHours = domain.StatsWindowDays * s.hoursPerDay
		resp.TotalRevenue += st.Revenue
		resp.TotalBookings += st.BookingsCount
		resp.Fields = append(resp.Fields, models.FromDomainStats(st))
	}

	s.logger.Info("GetOwnerStats: owner=%d has %d fields, revenue=%d", ownerID, len(stats), resp.TotalRevenue)
	return resp, nil
}

// Вспомогательные методы

func (s *Service) getField(ctx context.Context, op string, id int64) (*domain.Field, error) {
	field, err := s.fieldRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, fieldRepo.ErrFieldNotFound) {
			s.logger.Warn("%s: field id=%d not found", op, id)
			return nil, ErrFieldNotFound
		}
		s.logger.Error("%s: repository error for field id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return field, nil
}

// validateFieldData проверяет данные поля
func validateFieldData(name string, capacity int, pricePerHour int64, description *string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	if utf8.RuneCountInString(name) > domain.MaxFieldNameLength {
		return fmt.Errorf("%w: name must be at most %d characters", ErrInvalidInput, domain.MaxFieldNameLength)
	}

	if pricePerHour < 0 {
		return fmt.Errorf("%w: pricePerHour must not be negative", ErrInvalidInput)
	}

	if capacity != 0 && capacity < domain.MinFieldCapacity {
		return fmt.Errorf("%w: capacity must be at least %d", ErrInvalidInput, domain.MinFieldCapacity)
	}

	if description != nil && utf8.RuneCountInString(*description) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: description must be at most %d characters", ErrInvalidInput, domain.MaxDescriptionLength)
	}

	return nil
}
