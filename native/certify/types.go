package certify

import (
	"fmt"
	"strings"
)

// CertificationStatus represents the lifecycle states of a certification.
// Active and suspended convert into each other; revoked and expired are
// terminal.
type CertificationStatus uint8

const (
	StatusActive CertificationStatus = iota
	StatusSuspended
	StatusRevoked
	StatusExpired
)

// Valid reports whether the status value is within the supported range.
func (s CertificationStatus) Valid() bool {
	switch s {
	case StatusActive, StatusSuspended, StatusRevoked, StatusExpired:
		return true
	default:
		return false
	}
}

func (s CertificationStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusSuspended:
		return "suspended"
	case StatusRevoked:
		return "revoked"
	case StatusExpired:
		return "expired"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// ParseCertificationStatus converts the wire representation of a status.
func ParseCertificationStatus(raw string) (CertificationStatus, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "active":
		return StatusActive, nil
	case "suspended":
		return StatusSuspended, nil
	case "revoked":
		return StatusRevoked, nil
	case "expired":
		return StatusExpired, nil
	default:
		return 0, fmt.Errorf("%w: unknown status %q", ErrInvalidCertification, raw)
	}
}

// Terminal reports whether no further transitions are allowed from s.
func (s CertificationStatus) Terminal() bool {
	return s == StatusRevoked || s == StatusExpired
}

// CanTransition reports whether a certification may move from s to next.
// Active and suspended are mutually reversible; any non-terminal state may be
// revoked or expired. Restating the current status is allowed from
// non-terminal states so retried updates succeed.
func (s CertificationStatus) CanTransition(next CertificationStatus) bool {
	if !s.Valid() || !next.Valid() || s.Terminal() {
		return false
	}
	return true
}

// Recommendation is the outcome an auditor records against a certification.
// Audits never mutate the certification themselves; a separate status update
// by the issuer enacts the decision.
type Recommendation string

const (
	RecommendMaintain Recommendation = "maintain"
	RecommendSuspend  Recommendation = "suspend"
	RecommendRevoke   Recommendation = "revoke"
	RecommendImprove  Recommendation = "improve"
)

// Valid reports whether the recommendation is one of the supported outcomes.
func (r Recommendation) Valid() bool {
	switch r {
	case RecommendMaintain, RecommendSuspend, RecommendRevoke, RecommendImprove:
		return true
	default:
		return false
	}
}

// Standard is a named certification scheme. Its descriptive fields are
// immutable once created; only the active flag may change, and only by the
// creator.
type Standard struct {
	ID           string
	Name         string
	Description  string
	Criteria     string
	CreatedBy    string
	CreationDate int64
	Active       bool
}

// Validate ensures the caller-supplied standard fields are well formed.
func (s *Standard) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil standard", ErrInvalidStandard)
	}
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("%w: id required", ErrInvalidStandard)
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: name required", ErrInvalidStandard)
	}
	if strings.TrimSpace(s.Criteria) == "" {
		return fmt.Errorf("%w: criteria required", ErrInvalidStandard)
	}
	return nil
}

// Certification asserts that an entity meets a standard for a bounded period.
// The entity reference is deliberately opaque: the registry certifies
// vessels, facilities, batches or anything else by id without knowing the
// entity schema.
type Certification struct {
	ID           string
	EntityID     string
	EntityType   string
	StandardID   string
	IssueDate    int64
	ExpiryDate   int64
	Issuer       string
	Status       CertificationStatus
	Score        int64
	EvidenceHash [32]byte
}

// Validate ensures the caller-supplied certification fields are well formed.
func (c *Certification) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil certification", ErrInvalidCertification)
	}
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("%w: id required", ErrInvalidCertification)
	}
	if strings.TrimSpace(c.EntityID) == "" {
		return fmt.Errorf("%w: entity id required", ErrInvalidCertification)
	}
	if strings.TrimSpace(c.EntityType) == "" {
		return fmt.Errorf("%w: entity type required", ErrInvalidCertification)
	}
	if strings.TrimSpace(c.StandardID) == "" {
		return fmt.Errorf("%w: standard id required", ErrInvalidCertification)
	}
	if c.Score < 0 || c.Score > 100 {
		return ErrInvalidScore
	}
	return nil
}

// Audit is a point-in-time finding attached to a certification, keyed by the
// certification id plus the caller-supplied audit id.
type Audit struct {
	CertificationID string
	ID              string
	Auditor         string
	AuditDate       int64
	Findings        string
	Recommendation  Recommendation
	EvidenceHash    [32]byte
}

// Validate ensures the caller-supplied audit fields are well formed.
func (a *Audit) Validate() error {
	if a == nil {
		return fmt.Errorf("%w: nil audit", ErrInvalidAudit)
	}
	if strings.TrimSpace(a.CertificationID) == "" {
		return fmt.Errorf("%w: certification id required", ErrInvalidAudit)
	}
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("%w: id required", ErrInvalidAudit)
	}
	if !a.Recommendation.Valid() {
		return fmt.Errorf("%w: unknown recommendation %q", ErrInvalidAudit, a.Recommendation)
	}
	return nil
}
