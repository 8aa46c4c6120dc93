package model

import "fmt"

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// PreconditionError reports a well-formed request that cannot proceed
// because of the current state, e.g. assigning an unavailable device or
// returning an assignment twice. Reason names the blocking invariant.
type PreconditionError struct {
	Reason string
}

func (e PreconditionError) Error() string {
	return e.Reason
}

// ConflictError reports a uniqueness violation on a device identifier
// (serial number, IMEI, phone number) or another unique field.
type ConflictError struct {
	Field string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("%s already in use", e.Field)
}

// ValidationError reports malformed or out-of-range input.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}
