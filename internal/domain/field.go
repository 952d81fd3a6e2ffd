package domain

import "time"

// Field represents a sports field listed by an owner
type Field struct {
	ID           int64
	OwnerID      int64
	Name         string
	Location     string
	FieldType    string
	Capacity     int
	Description  *string
	PricePerHour int64 // whole currency units
	Available    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PriceFor returns the total price of a booking of the given duration
func (f *Field) PriceFor(durationHours int) int64 {
	return f.PricePerHour * int64(durationHours)
}

// IsOwnedBy returns true if the field belongs to the owner
func (f *Field) IsOwnedBy(ownerID int64) bool {
	return f.OwnerID == ownerID
}

// FieldUpdate partial update of a field; nil means "leave as is"
type FieldUpdate struct {
	Name         *string
	Location     *string
	FieldType    *string
	Capacity     *int
	Description  *string
	PricePerHour *int64
	Available    *bool
}

// IsEmpty returns true if the update changes nothing
func (u FieldUpdate) IsEmpty() bool {
	return u.Name == nil && u.Location == nil && u.FieldType == nil && u.Capacity == nil &&
		u.Description == nil && u.PricePerHour == nil && u.Available == nil
}

// Apply copies the set values onto the field
func (u FieldUpdate) Apply(f *Field) {
	if u.Name != nil {
		f.Name = *u.Name
	}
	if u.Location != nil {
		f.Location = *u.Location
	}
	if u.FieldType != nil {
		f.FieldType = *u.FieldType
	}
	if u.Capacity != nil {
		f.Capacity = *u.Capacity
	}
	if u.Description != nil {
		f.Description = u.Description
	}
	if u.PricePerHour != nil {
		f.PricePerHour = *u.PricePerHour
	}
	if u.Available != nil {
		f.Available = *u.Available
	}
}
