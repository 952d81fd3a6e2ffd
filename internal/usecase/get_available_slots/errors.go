package get_available_slots

import (
	"errors"

	"github.com/m04kA/SMC-FieldBookingService/internal/validator"
)

var (
	// ErrFieldNotFound возвращается, когда поле не найдено
	ErrFieldNotFound = errors.New("field not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrPastDate возвращается, когда дата раньше сегодняшней
	ErrPastDate = validator.ErrPastDate

	// ErrInvalidDuration возвращается, когда длительность не из допустимого набора
	ErrInvalidDuration = validator.ErrInvalidDuration

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
