package validator

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-FieldBookingService/internal/domain"
	"github.com/m04kA/SMC-FieldBookingService/pkg/types"
)

// Validator проверяет запрос на бронирование и вычисляет итоговое бронирование.
// Не выполняет ввода-вывода и безопасен для конкурентного использования.
type Validator struct {
	rules        Rules
	timeProvider TimeProvider
}

// NewValidator создает валидатор. timeProvider == nil означает реальное время.
func NewValidator(rules Rules, timeProvider TimeProvider) *Validator {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	if len(rules.AllowedDurations) == 0 {
		rules.AllowedDurations = domain.DefaultAllowedDurations
	}
	if rules.OpeningTime.IsZero() {
		rules.OpeningTime = domain.DefaultOpeningTime
	}
	if rules.ClosingTime.IsZero() {
		rules.ClosingTime = domain.DefaultClosingTime
	}
	return &Validator{rules: rules, timeProvider: timeProvider}
}

// Rules возвращает правила валидатора
func (v *Validator) Rules() Rules {
	return v.rules
}

// Validate проверяет запрос и возвращает бронирование со статусом pending.
// existing - бронирования поля на дату; отмененные и чужие записи игнорируются.
func (v *Validator) Validate(req *Request, field *domain.Field, existing []*domain.Booking) (*domain.Booking, error) {
	// 1. Обязательные поля
	if err := checkRequired(req); err != nil {
		return nil, err
	}

	// 2. Дата не в прошлом
	if isDateInPast(req.Date, v.timeProvider.Now()) {
		return nil, fmt.Errorf("%w: %s", ErrPastDate, req.Date.Format(domain.DateFormat))
	}

	// 3. Длительность из допустимого набора
	if !v.rules.durationAllowed(req.DurationHours) {
		return nil, fmt.Errorf("%w: %d hours, allowed %v", ErrInvalidDuration, req.DurationHours, v.rules.AllowedDurations)
	}

	// 4. Поле доступно
	if field == nil || !field.Available {
		return nil, ErrFieldUnavailable
	}

	// 5. Время окончания в пределах суток
	end, err := v.EndTime(req.StartTime, req.DurationHours)
	if err != nil {
		return nil, err
	}

	// 6. Часы работы
	if v.rules.EnforceOpeningHours &&
		(req.StartTime.IsBefore(v.rules.OpeningTime) || end.IsAfter(v.rules.ClosingTime)) {
		return nil, fmt.Errorf("%w: %s-%s not within %s-%s",
			ErrOutsideOpeningHours, req.StartTime, end, v.rules.OpeningTime, v.rules.ClosingTime)
	}

	// 7. Конфликт с существующими бронированиями
	if conflict := FirstConflict(field.ID, req.Date, req.StartTime, end, existing); conflict != nil {
		return nil, &SlotConflictError{Booking: conflict}
	}

	return &domain.Booking{
		FieldID:     field.ID,
		PlayerID:    req.PlayerID,
		BookingDate: dateOnly(req.Date),
		StartTime:   req.StartTime,
		EndTime:     end,
		TotalPrice:  field.PriceFor(req.DurationHours),
		Status:      domain.StatusPending,
	}, nil
}

// EndTime вычисляет время окончания слота. Ровно 24:00 допустимо.
func (v *Validator) EndTime(start types.TimeString, durationHours int) (types.TimeString, error) {
	end, err := start.AddHours(durationHours)
	if err != nil {
		return types.TimeString{}, fmt.Errorf("%w: %s + %dh", ErrCrossesMidnight, start, durationHours)
	}
	return end, nil
}

// FirstConflict возвращает активное бронирование поля на дату, пересекающееся с [start, end).
// Бронирования просматриваются по возрастанию времени начала.
func FirstConflict(fieldID int64, date time.Time, start, end types.TimeString, existing []*domain.Booking) *domain.Booking {
	candidates := make([]*domain.Booking, 0, len(existing))
	for _, b := range existing {
		if b == nil || !b.IsActive() || b.FieldID != fieldID || !isSameDay(b.BookingDate, date) {
			continue
		}
		candidates = append(candidates, b)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].StartTime.IsBefore(candidates[j].StartTime)
	})

	for _, b := range candidates {
		if b.Overlaps(start, end) {
			return b
		}
	}
	return nil
}

func checkRequired(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request", ErrMissingField)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date", ErrMissingField)
	}
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime", ErrMissingField)
	}
	if req.DurationHours == 0 {
		return fmt.Errorf("%w: durationHours", ErrMissingField)
	}
	return nil
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата раньше сегодняшнего дня
func isDateInPast(date, now time.Time) bool {
	return dateOnly(date).Before(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC))
}

// dateOnly отбрасывает время, оставляя календарную дату в UTC
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
