package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	minutesPerHour = 60
	// MinutesPerDay верхняя граница времени суток (24:00)
	MinutesPerDay = 24 * minutesPerHour
)

var (
	// ErrInvalidFormat возвращается, когда строка не соответствует формату HH:MM[:SS]
	ErrInvalidFormat = errors.New("invalid time string format")

	// ErrCrossesMidnight возвращается, когда результат арифметики выходит за 24:00
	ErrCrossesMidnight = errors.New("time crosses midnight")
)

// TimeString время суток с точностью до минуты ("18:00").
// Допустимый диапазон: 00:00 - 24:00, где 24:00 используется только как конец интервала.
type TimeString struct {
	minutes int
	set     bool
}

// NewTimeString создает TimeString из часов и минут time.Time (секунды отбрасываются)
func NewTimeString(t time.Time) TimeString {
	return TimeString{minutes: t.Hour()*minutesPerHour + t.Minute(), set: true}
}

// NewTimeStringFromMinutes создает TimeString из количества минут от полуночи
func NewTimeStringFromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes > MinutesPerDay {
		return TimeString{}, fmt.Errorf("%w: %d minutes out of range", ErrInvalidFormat, minutes)
	}
	return TimeString{minutes: minutes, set: true}, nil
}

// MustTimeString парсит строку или паникует; для констант и тестов
func MustTimeString(s string) TimeString {
	ts, err := NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return ts
}

// NewTimeStringFromString парсит строку формата "HH:MM" или "HH:MM:SS"
// Секунды допускаются только нулевые, как их хранит Postgres для колонок TIME
func NewTimeStringFromString(s string) (TimeString, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return TimeString{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || len(parts[0]) == 0 || len(parts[0]) > 2 {
		return TimeString{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 2 || minutes < 0 || minutes >= minutesPerHour {
		return TimeString{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	if len(parts) == 3 {
		seconds, err := strconv.Atoi(parts[2])
		if err != nil || seconds != 0 {
			return TimeString{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
		}
	}

	total := hours*minutesPerHour + minutes
	if hours < 0 || total > MinutesPerDay {
		return TimeString{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	return TimeString{minutes: total, set: true}, nil
}

// Minutes возвращает количество минут от полуночи
func (t TimeString) Minutes() int {
	return t.minutes
}

// IsZero возвращает true, если время не задано
func (t TimeString) IsZero() bool {
	return !t.set
}

// Validate проверяет, что время задано и находится в допустимом диапазоне
func (t TimeString) Validate() error {
	if !t.set {
		return fmt.Errorf("%w: empty value", ErrInvalidFormat)
	}
	if t.minutes < 0 || t.minutes > MinutesPerDay {
		return fmt.Errorf("%w: %d minutes out of range", ErrInvalidFormat, t.minutes)
	}
	return nil
}

// AddMinutes прибавляет минуты в пределах одних суток
// Результат ровно 24:00 допустим, всё что дальше - ErrCrossesMidnight
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	total := t.minutes + minutes
	if total > MinutesPerDay {
		return TimeString{}, fmt.Errorf("%w: %s + %d min", ErrCrossesMidnight, t, minutes)
	}
	if total < 0 {
		return TimeString{}, fmt.Errorf("%w: %s - %d min", ErrCrossesMidnight, t, -minutes)
	}
	return TimeString{minutes: total, set: true}, nil
}

// AddHours прибавляет целое количество часов
func (t TimeString) AddHours(hours int) (TimeString, error) {
	return t.AddMinutes(hours * minutesPerHour)
}

// IsBefore возвращает true, если t строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	return t.minutes < other.minutes
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return t.minutes > other.minutes
}

// Equal возвращает true, если время совпадает
func (t TimeString) Equal(other TimeString) bool {
	return t.minutes == other.minutes && t.set == other.set
}

// String возвращает время в формате HH:MM
func (t TimeString) String() string {
	if !t.set {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", t.minutes/minutesPerHour, t.minutes%minutesPerHour)
}

// Scan реализует sql.Scanner (колонки TIME приходят из lib/pq как time.Time или "HH:MM:SS")
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = TimeString{}
		return nil
	case string:
		parsed, err := NewTimeStringFromString(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case []byte:
		parsed, err := NewTimeStringFromString(string(v))
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case time.Time:
		// lib/pq отдает TIME '24:00:00' как полночь следующего дня
		if v.YearDay() > 1 {
			*t = TimeString{minutes: MinutesPerDay, set: true}
			return nil
		}
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidFormat, src)
	}
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if !t.set {
		return nil, nil
	}
	return t.String() + ":00", nil
}

// MarshalJSON сериализует время как "HH:MM"
func (t TimeString) MarshalJSON() ([]byte, error) {
	if !t.set {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON парсит "HH:MM" или null
func (t *TimeString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = TimeString{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if s == "" {
		*t = TimeString{}
		return nil
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
