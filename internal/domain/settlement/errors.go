package settlement

import "errors"

var (
	ErrSettlementNotFound       = errors.New("final settlement not found")
	ErrSettlementAlreadyExists  = errors.New("final settlement already exists for this employee")
	ErrLastWorkingDayBeforeHire = errors.New("last working day is before the hire date")
)
