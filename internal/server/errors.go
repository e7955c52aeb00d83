package server

import "errors"

// ErrNotFound is returned when no workout is stored under the requested date.
var ErrNotFound = errors.New("workout not found")

// ErrDuplicate indicates a workout already exists for the date.
var ErrDuplicate = errors.New("workout already exists for date")

// ErrInvalidRecord wraps every validation failure on an incoming workout.
var ErrInvalidRecord = errors.New("invalid workout")
