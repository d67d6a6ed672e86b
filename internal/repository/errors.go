package repository

import "errors"

var (
	// ErrInsufficientStock is returned when a conditional stock decrement matched no row
	ErrInsufficientStock = errors.New("insufficient stock remaining")
	// ErrStaleWrite is returned when a compare-and-swap update found the row in another state
	ErrStaleWrite = errors.New("record was modified concurrently")
)
