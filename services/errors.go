package services

import (
	"errors"
	"fmt"
)

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrCustomerNotFound = errors.New("customer not found")
)

// ValidationError reports a missing required field or an unresolved reference.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConflictError is returned when a room cannot be deleted because customers
// still reference it.
type ConflictError struct {
	RoomID         int
	CustomersCount int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("room %d still has %d customer(s)", e.RoomID, e.CustomersCount)
}
