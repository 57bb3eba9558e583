package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// MaxDuration is the largest accepted duration, in minutes.
const MaxDuration = math.MaxInt32

// Exercise is a single logged activity owned by a User.
// UserID is checked against the users collection only when the entry is created.
type Exercise struct {
	ID          string
	UserID      string
	Description string
	Duration    int // minutes
	Date        time.Time
	CreatedAt   time.Time
}

// ParseMinutes coerces a duration written as an integer or decimal number to
// whole minutes. Fractions are truncated; the result must be in 1..MaxDuration.
func ParseMinutes(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: duration is required", ErrInvalidInput)
	}

	f, err := strconv.ParseFloat(s, 64)
	var numErr *strconv.NumError
	if err != nil && !(errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange)) {
		return 0, fmt.Errorf("%w: duration must be a number, got %q", ErrInvalidInput, s)
	}

	switch {
	case math.IsNaN(f):
		return 0, fmt.Errorf("%w: duration must be a number, got %q", ErrInvalidInput, s)
	case f >= MaxDuration+1:
		return 0, fmt.Errorf("%w: duration out of range", ErrInvalidInput)
	case f < 1:
		return 0, fmt.Errorf("%w: duration must be greater than 0", ErrInvalidInput)
	}
	return int(f), nil
}
