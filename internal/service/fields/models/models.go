package models

import (
	"time"

	"github.com/m04kA/SMC-FieldBookingService/internal/domain"
)

// Request модели

// CreateFieldRequest запрос на создание поля
type CreateFieldRequest struct {
	OwnerID      int64   `json:"-"`
	Role         string  `json:"-"`
	Name         string  `json:"name"`
	Location     string  `json:"location"`
	FieldType    string  `json:"fieldType"`
	Capacity     int     `json:"capacity"`
	Description  *string `json:"description,omitempty"`
	PricePerHour int64   `json:"pricePerHour"`
	Available    *bool   `json:"available,omitempty"` // nil = доступно
}

// UpdateFieldRequest запрос на обновление поля
// Все поля опциональны - обновляются только переданные значения
type UpdateFieldRequest struct {
	OwnerID      int64   `json:"-"`
	Name         *string `json:"name,omitempty"`
	Location     *string `json:"location,omitempty"`
	FieldType    *string `json:"fieldType,omitempty"`
	Capacity     *int    `json:"capacity,omitempty"`
	Description  *string `json:"description,omitempty"`
	PricePerHour *int64  `json:"pricePerHour,omitempty"`
	Available    *bool   `json:"available,omitempty"`
}

// ToDomainUpdate конвертирует запрос в частичное обновление
func (r *UpdateFieldRequest) ToDomainUpdate() domain.FieldUpdate {
	return domain.FieldUpdate{
		Name:         r.Name,
		Location:     r.Location,
		FieldType:    r.FieldType,
		Capacity:     r.Capacity,
		Description:  r.Description,
		PricePerHour: r.PricePerHour,
		Available:    r.Available,
	}
}

// ToDomainField конвертирует CreateFieldRequest в domain модель
func (r *CreateFieldRequest) ToDomainField() *domain.Field {
	available := true
	if r.Available != nil {
		available = *r.Available
	}
	return &domain.Field{
		OwnerID:      r.OwnerID,
		Name:         r.Name,
		Location:     r.Location,
		FieldType:    r.FieldType,
		Capacity:     r.Capacity,
		Description:  r.Description,
		PricePerHour: r.PricePerHour,
		Available:    available,
	}
}

// Response модели

// FieldResponse ответ с данными поля
type FieldResponse struct {
	ID           int64     `json:"id"`
	OwnerID      int64     `json:"ownerId"`
	Name         string    `json:"name"`
	Location     string    `json:"location"`
	FieldType    string    `json:"fieldType"`
	Capacity     int       `json:"capacity"`
	Description  *string   `json:"description,omitempty"`
	PricePerHour int64     `json:"pricePerHour"`
	Available    bool      `json:"available"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// FieldListResponse ответ со списком полей
type FieldListResponse struct {
	Fields []FieldResponse `json:"fields"`
}

// FieldStatsResponse статистика одного поля
type FieldStatsResponse struct {
	FieldID        int64   `json:"fieldId"`
	FieldName      string  `json:"fieldName"`
	Revenue        int64   `json:"revenue"`
	BookingsCount  int     `json:"bookingsCount"`
	BookedHours    int     `json:"bookedHours"`
	AvailableHours int     `json:"availableHours"`
	OccupancyRate  float64 `json:"occupancyRate"` // проценты, 0-100
}

// OwnerStatsResponse статистика по всем полям владельца
type OwnerStatsResponse struct {
	PeriodStart   string               `json:"periodStart"` // "2025-05-03"
	PeriodEnd     string               `json:"periodEnd"`   // "2025-06-01"
	TotalRevenue  int64                `json:"totalRevenue"`
	TotalBookings int                  `json:"totalBookings"`
	Fields        []FieldStatsResponse `json:"fields"`
}

// Методы конвертации

// FromDomainField конвертирует domain модель в DTO
func FromDomainField(f *domain.Field) *FieldResponse {
	if f == nil {
		return nil
	}

	return &FieldResponse{
		ID:           f.ID,
		OwnerID:      f.OwnerID,
		Name:         f.Name,
		Location:     f.Location,
		FieldType:    f.FieldType,
		Capacity:     f.Capacity,
		Description:  f.Description,
		PricePerHour: f.PricePerHour,
		Available:    f.Available,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// FromDomainFieldList конвертирует список domain моделей в DTO
func FromDomainFieldList(fields []*domain.Field) *FieldListResponse {
	resp := &FieldListResponse{
		Fields: make([]FieldResponse, 0, len(fields)),
	}

	for _, field := range fields {
		if fieldResp := FromDomainField(field); fieldResp != nil {
			resp.Fields = append(resp.Fields, *fieldResp)
		}
	}

	return resp
}

// FromDomainStats конвертирует статистику поля в DTO
func FromDomainStats(s *domain.FieldStats) FieldStatsResponse {
	return FieldStatsResponse{
		FieldID:        s.FieldID,
		FieldName:      s.FieldName,
		Revenue:        s.Revenue,
		BookingsCount:  s.BookingsCount,
		BookedHours:    s.BookedHours,
		AvailableHours: s.AvailableHours,
		OccupancyRate:  s.OccupancyRate(),
	}
}
