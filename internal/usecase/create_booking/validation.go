package create_booking

import (
	"fmt"
)

// validateRequest проверяет форму запроса до обращения к хранилищу
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: empty request", ErrInvalidInput)
	}

	if req.PlayerID <= 0 {
		return fmt.Errorf("%w: playerID must be positive", ErrInvalidInput)
	}

	if req.FieldID <= 0 {
		return fmt.Errorf("%w: fieldID must be positive", ErrInvalidInput)
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
