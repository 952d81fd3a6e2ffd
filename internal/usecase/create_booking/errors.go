package create_booking

import (
	"errors"

	"github.com/m04kA/SMC-FieldBookingService/internal/validator"
)

var (
	// ErrInvalidInput возвращается при некорректных идентификаторах в запросе
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrFieldNotFound возвращается, когда поле не найдено
	ErrFieldNotFound = errors.New("create_booking: field not found")

	// ErrSlotTaken возвращается, когда слот занят конкурентным запросом (нарушение ограничения уникальности)
	ErrSlotTaken = errors.New("create_booking: slot was taken by a concurrent booking")

	// ErrTransientIO возвращается при сбое хранилища, блокировки или транзакции; запрос можно повторить
	ErrTransientIO = errors.New("create_booking: transient storage failure")
)

// Ошибки валидации пробрасываются без изменения вида
var (
	ErrMissingField        = validator.ErrMissingField
	ErrPastDate            = validator.ErrPastDate
	ErrInvalidDuration     = validator.ErrInvalidDuration
	ErrFieldUnavailable    = validator.ErrFieldUnavailable
	ErrCrossesMidnight     = validator.ErrCrossesMidnight
	ErrOutsideOpeningHours = validator.ErrOutsideOpeningHours
	ErrSlotConflict        = validator.ErrSlotConflict
)

// SlotConflictError конфликт с существующим бронированием
type SlotConflictError = validator.SlotConflictError

var domainErrors = []error{
	ErrInvalidInput,
	ErrFieldNotFound,
	ErrSlotTaken,
	ErrMissingField,
	ErrPastDate,
	ErrInvalidDuration,
	ErrFieldUnavailable,
	ErrCrossesMidnight,
	ErrOutsideOpeningHours,
	ErrSlotConflict,
}

func isDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
