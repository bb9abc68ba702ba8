package processing

import "errors"

var (
	ErrFacilityExists     = errors.New("processing: facility already registered")
	ErrFacilityNotFound   = errors.New("processing: facility not found")
	ErrFacilityInactive   = errors.New("processing: facility inactive")
	ErrNotOwner           = errors.New("processing: caller is not the facility owner")
	ErrBatchExists        = errors.New("processing: batch already started")
	ErrBatchNotFound      = errors.New("processing: batch not found")
	ErrBatchNotInProgress = errors.New("processing: batch not in progress")
	ErrBatchNotCompleted  = errors.New("processing: batch not completed")
	ErrTripNotFound       = errors.New("processing: input trip not found")
	ErrTripNotCompleted   = errors.New("processing: input trip not completed")
	ErrCatchNotFound      = errors.New("processing: input catch not found")
	ErrInputMismatch      = errors.New("processing: catch recorded under a trip outside the declared trip set")
	ErrTransferExists     = errors.New("processing: transfer already recorded")
	ErrTransferNotFound   = errors.New("processing: transfer not found")
	ErrTransferVerified   = errors.New("processing: transfer already verified")
	ErrNotRecipient       = errors.New("processing: caller is not the transfer recipient")
	ErrInvalidFacility    = errors.New("processing: invalid facility")
	ErrInvalidBatch       = errors.New("processing: invalid batch")
	ErrInvalidTransfer    = errors.New("processing: invalid transfer")
	ErrInvalidOutput      = errors.New("processing: output quantity must be positive")
)
