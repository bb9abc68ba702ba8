package certify

import "errors"

var (
	ErrStandardExists        = errors.New("certify: standard already created")
	ErrStandardNotFound      = errors.New("certify: standard not found")
	ErrStandardInactive      = errors.New("certify: standard inactive")
	ErrNotCreator            = errors.New("certify: caller did not create the standard")
	ErrCertificationExists   = errors.New("certify: certification already issued")
	ErrCertificationNotFound = errors.New("certify: certification not found")
	ErrNotIssuer             = errors.New("certify: caller is not the certification issuer")
	ErrAuditExists           = errors.New("certify: audit already recorded")
	ErrInvalidStandard       = errors.New("certify: invalid standard")
	ErrInvalidCertification  = errors.New("certify: invalid certification")
	ErrInvalidAudit          = errors.New("certify: invalid audit")
	ErrInvalidExpiry         = errors.New("certify: expiry date must be in the future")
	ErrInvalidScore          = errors.New("certify: score out of range")
	ErrInvalidTransition     = errors.New("certify: illegal status transition")
)
