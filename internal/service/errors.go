package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")

	ErrProductNotFound      = fmt.Errorf("product %w", ErrNotFound)
	ErrSupplierNotFound     = fmt.Errorf("supplier %w", ErrNotFound)
	ErrStockNotFound        = fmt.Errorf("stock %w", ErrNotFound)
	ErrTransactionNotFound  = fmt.Errorf("transaction %w", ErrNotFound)
	ErrReportNotFound       = fmt.Errorf("report %w", ErrNotFound)
	ErrUserNotFound         = fmt.Errorf("user %w", ErrNotFound)
	ErrNotificationNotFound = fmt.Errorf("notification %w", ErrNotFound)

	ErrInsufficientStock = errors.New("not enough stock available")
	ErrReportNotPending  = errors.New("report has already been reviewed")
	ErrReportNotRejected = errors.New("only rejected reports can be edited")
	ErrAlreadyClockedIn  = errors.New("user already clocked in today")
	ErrNotClockedIn      = errors.New("no active clock-in record found for today")
	ErrCannotDeleteAdmin = errors.New("cannot delete admin users")
	ErrUsernameTaken     = errors.New("username already exists")

	ErrRejectionNotesRequired = fmt.Errorf("%w: review notes are required when rejecting a report", ErrInvalidInput)
	ErrUnsupportedFormat      = fmt.Errorf("%w: unsupported export format", ErrInvalidInput)

	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSessionTimeout     = errors.New("session expired due to inactivity")
	ErrSessionReplaced    = errors.New("session expired (logged in on another device)")
)

// invalid wraps a validation failure so callers can match ErrInvalidInput
func invalid(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}

// notFound turns a missing row into target and passes every other repository error through
func notFound(err, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}
