package processing

import (
	"fmt"
	"strings"
)

// BatchStatus represents the lifecycle states of a processing batch.
type BatchStatus uint8

const (
	BatchInProgress BatchStatus = iota
	BatchCompleted
)

// Valid reports whether the status value is within the supported range.
func (s BatchStatus) Valid() bool {
	switch s {
	case BatchInProgress, BatchCompleted:
		return true
	default:
		return false
	}
}

func (s BatchStatus) String() string {
	switch s {
	case BatchInProgress:
		return "in-progress"
	case BatchCompleted:
		return "completed"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// TransferStatus represents the lifecycle states of a custody transfer.
// Recording a transfer implies the physical handover already happened, so new
// transfers enter the ledger as received; pending exists only as the notional
// pre-handover state and is never stored.
type TransferStatus uint8

const (
	TransferPending TransferStatus = iota
	TransferReceived
	TransferVerified
)

// Valid reports whether the status value is within the supported range.
func (s TransferStatus) Valid() bool {
	switch s {
	case TransferPending, TransferReceived, TransferVerified:
		return true
	default:
		return false
	}
}

func (s TransferStatus) String() string {
	switch s {
	case TransferPending:
		return "pending"
	case TransferReceived:
		return "received"
	case TransferVerified:
		return "verified"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// Facility is a registered processing site. Only the owner may mutate its
// certification status or active flag.
type Facility struct {
	ID                  string
	Name                string
	Location            string
	Owner               string
	RegistrationDate    int64
	CertificationStatus string
	Active              bool
}

// Validate ensures the caller-supplied facility fields are well formed.
func (f *Facility) Validate() error {
	if f == nil {
		return fmt.Errorf("%w: nil facility", ErrInvalidFacility)
	}
	if strings.TrimSpace(f.ID) == "" {
		return fmt.Errorf("%w: id required", ErrInvalidFacility)
	}
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: name required", ErrInvalidFacility)
	}
	return nil
}

// Batch is a processing run at a facility consuming a declared set of catches
// and their parent trips, producing a graded output quantity on completion.
// Output fields are write-once: they are set by CompleteBatch and never
// rewritten.
type Batch struct {
	ID             string
	FacilityID     string
	InputCatchIDs  []string
	InputTripIDs   []string
	ProcessingType string
	StartTime      int64
	EndTime        int64
	OutputQuantity int64
	OutputUnit     string
	QualityGrade   string
	Status         BatchStatus
}

// Validate ensures the caller-supplied batch fields are well formed. The
// referential checks against the voyage ledger happen in the ledger, not here.
func (b *Batch) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil batch", ErrInvalidBatch)
	}
	if strings.TrimSpace(b.ID) == "" {
		return fmt.Errorf("%w: id required", ErrInvalidBatch)
	}
	if strings.TrimSpace(b.FacilityID) == "" {
		return fmt.Errorf("%w: facility id required", ErrInvalidBatch)
	}
	if len(b.InputCatchIDs) == 0 {
		return fmt.Errorf("%w: at least one input catch required", ErrInvalidBatch)
	}
	if len(b.InputTripIDs) == 0 {
		return fmt.Errorf("%w: at least one input trip required", ErrInvalidBatch)
	}
	if strings.TrimSpace(b.ProcessingType) == "" {
		return fmt.Errorf("%w: processing type required", ErrInvalidBatch)
	}
	return nil
}

// Transfer records a custody handover of a completed batch between two
// parties. The sender is always the recording caller; the named recipient may
// later verify receipt.
type Transfer struct {
	ID                  string
	BatchID             string
	FromEntity          string
	ToEntity            string
	TransferTime        int64
	TransportMethod     string
	TransportConditions string
	VerifiedBy          string
	VerificationTime    int64
	Status              TransferStatus
}

// Validate ensures the caller-supplied transfer fields are well formed.
func (t *Transfer) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil transfer", ErrInvalidTransfer)
	}
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("%w: id required", ErrInvalidTransfer)
	}
	if strings.TrimSpace(t.BatchID) == "" {
		return fmt.Errorf("%w: batch id required", ErrInvalidTransfer)
	}
	if strings.TrimSpace(t.ToEntity) == "" {
		return fmt.Errorf("%w: recipient required", ErrInvalidTransfer)
	}
	return nil
}
