package attendance

import "errors"

// Attendance domain errors
var (
	// Punch errors
	ErrInvalidPunchSequence = errors.New("punch does not alternate with the previous one")
	ErrSessionAlreadyClosed = errors.New("attendance session already has an IN and an OUT punch")

	// Quick-mark errors
	ErrAlreadyMarked = errors.New("attendance already marked for this employee and date")

	// General errors
	ErrRecordNotFound = errors.New("attendance record not found")
	ErrConflict       = errors.New("attendance record was modified concurrently")
	ErrTimeout        = errors.New("attendance store call exceeded its deadline")
)
