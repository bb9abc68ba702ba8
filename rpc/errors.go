package rpc

import (
	"errors"
	"net/http"

	"seatrace/native/certify"
	"seatrace/native/fleet"
	"seatrace/native/processing"
	"seatrace/native/voyage"
)

// rpcError pairs the HTTP status with the JSON-RPC error envelope for a
// ledger failure.
type rpcError struct {
	status  int
	code    int
	message string
}

var (
	duplicateError    = rpcError{http.StatusConflict, codeDuplicate, "duplicate_id"}
	notFoundError     = rpcError{http.StatusNotFound, codeNotFound, "not_found"}
	forbiddenError    = rpcError{http.StatusForbidden, codeForbidden, "forbidden"}
	conflictError     = rpcError{http.StatusConflict, codeConflict, "invalid_state"}
	inconsistentError = rpcError{http.StatusConflict, codeInconsistent, "inconsistent_references"}
	invalidError      = rpcError{http.StatusBadRequest, codeInvalidValue, "invalid_value"}
	internalError     = rpcError{http.StatusInternalServerError, codeServerError, "internal_error"}
)

// errorClasses maps every ledger sentinel onto its transport classification.
// Sentinels absent from the table surface as internal errors.
var errorClasses = []struct {
	sentinel error
	class    rpcError
}{
	{fleet.ErrVesselExists, duplicateError},
	{fleet.ErrEquipmentExists, duplicateError},
	{fleet.ErrCertificationExists, duplicateError},
	{fleet.ErrVesselNotFound, notFoundError},
	{fleet.ErrEquipmentNotFound, notFoundError},
	{fleet.ErrCertificationNotFound, notFoundError},
	{fleet.ErrNotOwner, forbiddenError},
	{fleet.ErrInvalidVessel, invalidError},
	{fleet.ErrInvalidEquipment, invalidError},
	{fleet.ErrInvalidCertification, invalidError},

	{voyage.ErrTripExists, duplicateError},
	{voyage.ErrCatchExists, duplicateError},
	{voyage.ErrTripNotFound, notFoundError},
	{voyage.ErrCatchNotFound, notFoundError},
	{voyage.ErrVesselNotFound, notFoundError},
	{voyage.ErrTripCompleted, conflictError},
	{voyage.ErrVesselInactive, conflictError},
	{voyage.ErrNotCaptain, forbiddenError},
	{voyage.ErrInvalidTrip, invalidError},
	{voyage.ErrInvalidCatch, invalidError},
	{voyage.ErrInvalidQuantity, invalidError},
	{voyage.ErrInvalidLocation, invalidError},
	{voyage.ErrInvalidVerifyNote, invalidError},

	{processing.ErrFacilityExists, duplicateError},
	{processing.ErrBatchExists, duplicateError},
	{processing.ErrTransferExists, duplicateError},
	{processing.ErrFacilityNotFound, notFoundError},
	{processing.ErrBatchNotFound, notFoundError},
	{processing.ErrTransferNotFound, notFoundError},
	{processing.ErrTripNotFound, notFoundError},
	{processing.ErrCatchNotFound, notFoundError},
	{processing.ErrFacilityInactive, conflictError},
	{processing.ErrBatchNotInProgress, conflictError},
	{processing.ErrBatchNotCompleted, conflictError},
	{processing.ErrTripNotCompleted, conflictError},
	{processing.ErrTransferVerified, conflictError},
	{processing.ErrInputMismatch, inconsistentError},
	{processing.ErrNotOwner, forbiddenError},
	{processing.ErrNotRecipient, forbiddenError},
	{processing.ErrInvalidFacility, invalidError},
	{processing.ErrInvalidBatch, invalidError},
	{processing.ErrInvalidTransfer, invalidError},
	{processing.ErrInvalidOutput, invalidError},

	{certify.ErrStandardExists, duplicateError},
	{certify.ErrCertificationExists, duplicateError},
	{certify.ErrAuditExists, duplicateError},
	{certify.ErrStandardNotFound, notFoundError},
	{certify.ErrCertificationNotFound, notFoundError},
	{certify.ErrStandardInactive, conflictError},
	{certify.ErrInvalidTransition, conflictError},
	{certify.ErrNotCreator, forbiddenError},
	{certify.ErrNotIssuer, forbiddenError},
	{certify.ErrInvalidStandard, invalidError},
	{certify.ErrInvalidCertification, invalidError},
	{certify.ErrInvalidAudit, invalidError},
	{certify.ErrInvalidExpiry, invalidError},
	{certify.ErrInvalidScore, invalidError},
}

func writeLedgerError(w http.ResponseWriter, id interface{}, err error) {
	if err == nil {
		return
	}
	class := internalError
	for _, entry := range errorClasses {
		if errors.Is(err, entry.sentinel) {
			class = entry.class
			break
		}
	}
	writeError(w, class.status, id, class.code, class.message, err.Error())
}
