package reward

import "errors"

var (
	ErrRecordNotFound = errors.New("bonus/penalty record not found")
	ErrInvalidType    = errors.New("type must be bonus or penalty")
	ErrInvalidAmount  = errors.New("amount must be greater than zero")
	ErrInvalidPeriod  = errors.New("period must match Q<n>-<year> or M<n>-<year>")
	ErrEmptyReason    = errors.New("reason must not be empty")
)
