package kpi

import (
	"errors"
	"fmt"
)

var (
	ErrZeroTarget         = errors.New("progress undefined for zero target")
	ErrRecordNotFound     = errors.New("kpi record not found")
	ErrDefinitionNotFound = errors.New("kpi definition not found")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

type InvalidTransitionError struct {
	Status string
	Action string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s a record in status %q", e.Action, e.Status)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsInvalidTransition(err error) bool {
	var te *InvalidTransitionError
	return errors.As(err, &te)
}
