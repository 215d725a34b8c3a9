package billing

import "errors"

var (
	// ErrInvalidPeriod is returned when the billing month or year is out of range.
	ErrInvalidPeriod = errors.New("invalid billing period")

	// ErrNoActiveFlats is returned when no active flat matches the request.
	ErrNoActiveFlats = errors.New("no active flats to generate bills for")

	// ErrBillsExist is returned when some requested flats already have a bill for
	// the period and the caller did not ask to skip them.
	ErrBillsExist = errors.New("bills already exist for this period")

	// ErrBillNotFound is returned when a bill id does not exist.
	ErrBillNotFound = errors.New("bill not found")

	// ErrBillHasPayments is returned when deleting a bill that payments still reference.
	ErrBillHasPayments = errors.New("cannot delete bill with payments")
)
