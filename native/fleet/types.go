package fleet

import (
	"fmt"
	"strings"
)

// Vessel captures the registration record of a fishing vessel. The owner is
// the only party allowed to mutate the record after creation; historical
// trips keep their original attribution even after an ownership transfer.
type Vessel struct {
	ID                 string
	Owner              string
	Name               string
	RegistrationNumber string
	VesselType         string
	Length             int64
	Capacity           int64
	HomePort           string
	RegistrationDate   int64
	LicenseExpiry      int64
	Active             bool
}

// Clone returns a copy of the vessel so callers can mutate it safely.
func (v *Vessel) Clone() *Vessel {
	if v == nil {
		return nil
	}
	clone := *v
	return &clone
}

// Validate ensures the caller-supplied registration fields are well formed.
// Ledger-assigned fields (owner, registration date, active flag) are not
// checked here because the ledger overwrites them on registration.
func (v *Vessel) Validate() error {
	if v == nil {
		return fmt.Errorf("%w: nil vessel", ErrInvalidVessel)
	}
	if strings.TrimSpace(v.ID) == "" {
		return fmt.Errorf("%w: id required", ErrInvalidVessel)
	}
	if strings.TrimSpace(v.Name) == "" {
		return fmt.Errorf("%w: name required", ErrInvalidVessel)
	}
	if strings.TrimSpace(v.RegistrationNumber) == "" {
		return fmt.Errorf("%w: registration number required", ErrInvalidVessel)
	}
	if v.Length < 0 || v.Capacity < 0 {
		return fmt.Errorf("%w: length and capacity must be non-negative", ErrInvalidVessel)
	}
	return nil
}

// Equipment describes an item installed on a vessel, keyed by the owning
// vessel id plus the caller-supplied equipment id.
type Equipment struct {
	VesselID         string
	ID               string
	EquipmentType    string
	Description      string
	InstallationDate int64
	LastInspection   int64
	Inspector        string
}

// Validate ensures the caller-supplied equipment fields are well formed.
func (e *Equipment) Validate() error {
	if e == nil {
		return fmt.Errorf("%w: nil equipment", ErrInvalidEquipment)
	}
	if strings.TrimSpace(e.VesselID) == "" {
		return fmt.Errorf("%w: vessel id required", ErrInvalidEquipment)
	}
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("%w: id required", ErrInvalidEquipment)
	}
	if strings.TrimSpace(e.EquipmentType) == "" {
		return fmt.Errorf("%w: equipment type required", ErrInvalidEquipment)
	}
	if e.InstallationDate < 0 {
		return fmt.Errorf("%w: installation date must be non-negative", ErrInvalidEquipment)
	}
	return nil
}

// VesselCertification records a vessel-level certification (safety, gear,
// crew welfare) issued by an external authority.
type VesselCertification struct {
	VesselID          string
	ID                string
	CertificationType string
	Issuer            string
	IssueDate         int64
	ExpiryDate        int64
	Status            string
}

// Validate ensures the caller-supplied certification fields are well formed.
func (c *VesselCertification) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil certification", ErrInvalidCertification)
	}
	if strings.TrimSpace(c.VesselID) == "" {
		return fmt.Errorf("%w: vessel id required", ErrInvalidCertification)
	}
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("%w: id required", ErrInvalidCertification)
	}
	if strings.TrimSpace(c.CertificationType) == "" {
		return fmt.Errorf("%w: certification type required", ErrInvalidCertification)
	}
	if c.IssueDate < 0 {
		return fmt.Errorf("%w: issue date must be non-negative", ErrInvalidCertification)
	}
	if c.ExpiryDate < c.IssueDate {
		return fmt.Errorf("%w: expiry date before issue date", ErrInvalidCertification)
	}
	return nil
}
