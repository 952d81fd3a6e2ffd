package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-FieldBookingService/internal/domain"
	createBooking "github.com/m04kA/SMC-FieldBookingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-FieldBookingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	FieldID       int64  `json:"fieldId"`
	BookingDate   string `json:"bookingDate"` // "2025-06-01"
	StartTime     string `json:"startTime"`   // "18:00"
	DurationHours int    `json:"durationHours"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID            int64  `json:"id"`
	FieldID       int64  `json:"fieldId"`
	PlayerID      int64  `json:"playerId"`
	BookingDate   string `json:"bookingDate"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	DurationHours int    `json:"durationHours"`
	TotalPrice    int64  `json:"totalPrice"`
	Status        string `json:"status"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

// ConflictingSlot занятый слот, с которым пересекается запрос
type ConflictingSlot struct {
	BookingID int64  `json:"bookingId"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// ConflictResponse тело ответа 409 при пересечении
type ConflictResponse struct {
	Error           string          `json:"error"`
	ConflictingSlot ConflictingSlot `json:"conflictingSlot"`
}

type dateError struct{ err error }

func (e *dateError) Error() string { return fmt.Sprintf("bookingDate: %v", e.err) }
func (e *dateError) Unwrap() error { return e.err }

type timeError struct{ err error }

func (e *timeError) Error() string { return fmt.Sprintf("startTime: %v", e.err) }
func (e *timeError) Unwrap() error { return e.err }

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Пустые значения остаются нулевыми: их отклонит use case как отсутствующие.
func (r *CreateBookingRequest) ToUseCaseRequest(playerID int64) (*createBooking.Request, error) {
	req := &createBooking.Request{
		PlayerID:      playerID,
		FieldID:       r.FieldID,
		DurationHours: r.DurationHours,
	}

	if r.BookingDate != "" {
		bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
		if err != nil {
			return nil, &dateError{err: err}
		}
		req.Date = bookingDate
	}

	if r.StartTime != "" {
		startTime, err := types.NewTimeStringFromString(r.StartTime)
		if err != nil {
			return nil, &timeError{err: err}
		}
		req.StartTime = startTime
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:            resp.ID,
		FieldID:       resp.FieldID,
		PlayerID:      resp.PlayerID,
		BookingDate:   resp.BookingDate.Format(domain.DateFormat),
		StartTime:     resp.StartTime.String(),
		EndTime:       resp.EndTime.String(),
		DurationHours: (resp.EndTime.Minutes() - resp.StartTime.Minutes()) / 60,
		TotalPrice:    resp.TotalPrice,
		Status:        resp.Status,
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     resp.UpdatedAt.Format(time.RFC3339),
	}
}
