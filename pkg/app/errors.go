package app

import (
	"errors"

	"tableflip.dev/habits/pkg/month"
	"tableflip.dev/habits/pkg/store"
)

var (
	// ErrInvalidFormat is returned for month keys not of the form YYYY-MM.
	ErrInvalidFormat = month.ErrInvalidFormat
	// ErrDuplicateMonth is returned when creating a month that already exists.
	ErrDuplicateMonth = errors.New("app: month already exists")
	// ErrEmptyHabitList is returned when a new month would have no habits.
	ErrEmptyHabitList = errors.New("app: no habits given")
	// ErrEmptyName is returned for a blank habit name.
	ErrEmptyName = errors.New("app: habit name is empty")
	// ErrNoSuchMonth is returned when a month has no record.
	ErrNoSuchMonth = errors.New("app: no data for month")
	// ErrIndexOutOfRange is returned for a habit index or day outside the month.
	ErrIndexOutOfRange = errors.New("app: index out of range")
	// ErrCorruptData is returned when a stored month cannot be decoded.
	ErrCorruptData = store.ErrCorruptData
)

// Message returns the user facing sentence for err, falling back to
// err.Error() for failures outside the tracker's own error kinds.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidFormat):
		return "Invalid format. Please use YYYY-MM."
	case errors.Is(err, ErrDuplicateMonth):
		return "This month already exists."
	case errors.Is(err, ErrEmptyHabitList):
		return "No habits entered."
	case errors.Is(err, ErrEmptyName):
		return "The habit name cannot be empty."
	case errors.Is(err, ErrNoSuchMonth):
		return "No data for this month."
	case errors.Is(err, ErrIndexOutOfRange):
		return "There is no such habit or day."
	case errors.Is(err, ErrCorruptData):
		return "The data for this month is damaged. Delete the month to start over."
	default:
		return err.Error()
	}
}
