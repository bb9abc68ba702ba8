package voyage

import "errors"

var (
	ErrTripExists        = errors.New("voyage: trip already started")
	ErrTripNotFound      = errors.New("voyage: trip not found")
	ErrTripCompleted     = errors.New("voyage: trip already completed")
	ErrCatchExists       = errors.New("voyage: catch already recorded")
	ErrCatchNotFound     = errors.New("voyage: catch not found")
	ErrVesselNotFound    = errors.New("voyage: vessel not found")
	ErrVesselInactive    = errors.New("voyage: vessel inactive")
	ErrNotCaptain        = errors.New("voyage: caller is not the trip captain")
	ErrInvalidTrip       = errors.New("voyage: invalid trip")
	ErrInvalidCatch      = errors.New("voyage: invalid catch")
	ErrInvalidQuantity   = errors.New("voyage: quantity must be positive")
	ErrInvalidLocation   = errors.New("voyage: location out of range")
	ErrInvalidVerifyNote = errors.New("voyage: invalid verification")
)
