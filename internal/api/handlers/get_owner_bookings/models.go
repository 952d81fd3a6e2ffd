package get_owner_bookings

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-FieldBookingService/internal/domain"
	"github.com/m04kA/SMC-FieldBookingService/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// fieldId, status, date | startDate+endDate, includeCancelled
func ToServiceRequest(actor models.Actor, query url.Values) (*models.GetOwnerBookingsRequest, error) {
	req := &models.GetOwnerBookingsRequest{
		Actor:            actor,
		IncludeCancelled: false, // По умолчанию только активные
	}

	// Парсим fieldId если указан
	if fieldIDStr := query.Get("fieldId"); fieldIDStr != "" {
		fieldID, err := strconv.ParseInt(fieldIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid fieldId: %w", err)
		}
		req.FieldID = &fieldID
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	// date задает один день, startDate/endDate - период
	if dateStr := query.Get("date"); dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		req.StartDate = &date
		req.EndDate = &date
	} else {
		if startStr := query.Get("startDate"); startStr != "" {
			start, err := time.Parse(domain.DateFormat, startStr)
			if err != nil {
				return nil, fmt.Errorf("invalid startDate: %w", err)
			}
			req.StartDate = &start
		}
		if endStr := query.Get("endDate"); endStr != "" {
			end, err := time.Parse(domain.DateFormat, endStr)
			if err != nil {
				return nil, fmt.Errorf("invalid endDate: %w", err)
			}
			req.EndDate = &end
		}
	}

	// Парсим includeCancelled если указан
	if includeStr := query.Get("includeCancelled"); includeStr != "" {
		include, err := strconv.ParseBool(includeStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeCancelled value: %w", err)
		}
		req.IncludeCancelled = include
	}

	return req, nil
}
