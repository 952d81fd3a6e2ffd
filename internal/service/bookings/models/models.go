package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-FieldBookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// Actor аутентифицированный пользователь
type Actor struct {
	UserID int64
	Role   string
}

// IsOwner проверяет роль владельца полей
func (a Actor) IsOwner() bool {
	return a.Role == domain.RoleOwner
}

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	Actor              Actor
	CancellationReason string `json:"cancellationReason"`
}

// GetPlayerBookingsRequest запрос на получение бронирований игрока
type GetPlayerBookingsRequest struct {
	PlayerID int64   `json:"playerId"`
	Status   *string `json:"status,omitempty"`
}

// GetOwnerBookingsRequest запрос на получение бронирований полей владельца
type GetOwnerBookingsRequest struct {
	Actor            Actor
	FieldID          *int64     `json:"fieldId,omitempty"`          // Фильтр по полю (опционально)
	StartDate        *time.Time `json:"startDate,omitempty"`        // Начало периода (опционально)
	EndDate          *time.Time `json:"endDate,omitempty"`          // Конец периода (опционально)
	Status           *string    `json:"status,omitempty"`           // Фильтр по статусу (опционально)
	IncludeCancelled bool       `json:"includeCancelled,omitempty"` // Включить отменённые бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetOwnerBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	ownerID := r.Actor.UserID
	filter := domain.BookingsFilter{
		OwnerID:          &ownerID,
		FieldID:          r.FieldID,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		IncludeCancelled: r.IncludeCancelled,
	}

	if r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
		return filter, errors.New("endDate is before startDate")
	}

	// Конвертируем статус если указан
	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID            int64  `json:"id"`
	FieldID       int64  `json:"fieldId"`
	PlayerID      int64  `json:"playerId"`
	BookingDate   string `json:"bookingDate"` // "2025-06-01"
	StartTime     string `json:"startTime"`   // "18:00"
	EndTime       string `json:"endTime"`     // "19:00"
	DurationHours int    `json:"durationHours"`
	TotalPrice    int64  `json:"totalPrice"`
	Status        string `json:"status"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// PlayerStatsResponse сводка игрока, посчитанная по его бронированиям
type PlayerStatsResponse struct {
	PlayerID        int64  `json:"playerId"`
	TotalBookings   int    `json:"totalBookings"`
	GamesPlayed     int    `json:"gamesPlayed"` // завершенные бронирования
	UpcomingGames   int    `json:"upcomingGames"`
	CancelledGames  int    `json:"cancelledGames"`
	HoursPlayed     int    `json:"hoursPlayed"`
	TotalSpent      int64  `json:"totalSpent"` // подтвержденные и завершенные
	FavoriteFieldID *int64 `json:"favoriteFieldId,omitempty"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		FieldID:            b.FieldID,
		PlayerID:           b.PlayerID,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		EndTime:            b.EndTime.String(),
		DurationHours:      b.DurationHours(),
		TotalPrice:         b.TotalPrice,
		Status:             string(b.Status),
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
