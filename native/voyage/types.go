package voyage

import (
	"fmt"
	"strings"
)

// TripStatus represents the lifecycle states of a fishing trip.
type TripStatus uint8

const (
	TripActive TripStatus = iota
	TripCompleted
)

// Valid reports whether the status value is within the supported range.
func (s TripStatus) Valid() bool {
	switch s {
	case TripActive, TripCompleted:
		return true
	default:
		return false
	}
}

func (s TripStatus) String() string {
	switch s {
	case TripActive:
		return "active"
	case TripCompleted:
		return "completed"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// Trip records a single vessel voyage bounded by departure and return events.
// Catches may only be recorded while the trip is active, and only the captain
// who opened the trip may close it.
type Trip struct {
	ID            string
	VesselID      string
	Captain       string
	DeparturePort string
	ReturnPort    string
	FishingZone   string
	DepartureTime int64
	ReturnTime    int64
	Status        TripStatus
}

// Location is a geographic coordinate in micro-degrees (degrees scaled by
// 1,000,000) to keep the ledger free of floating point.
type Location struct {
	Latitude  int64
	Longitude int64
}

const (
	maxLatitudeMicro  = 90_000_000
	maxLongitudeMicro = 180_000_000
)

// Validate checks the coordinate ranges.
func (loc Location) Validate() error {
	if loc.Latitude < -maxLatitudeMicro || loc.Latitude > maxLatitudeMicro {
		return fmt.Errorf("%w: latitude %d", ErrInvalidLocation, loc.Latitude)
	}
	if loc.Longitude < -maxLongitudeMicro || loc.Longitude > maxLongitudeMicro {
		return fmt.Errorf("%w: longitude %d", ErrInvalidLocation, loc.Longitude)
	}
	return nil
}

// Catch documents a quantity of fish taken during an active trip. Catch ids
// are unique across the whole ledger so downstream processing batches can
// reference them without naming the trip.
type Catch struct {
	TripID        string
	ID            string
	Species       string
	Quantity      int64
	Unit          string
	Location      Location
	CatchTime     int64
	FishingMethod string
	QualityGrade  string
	Notes         string
}

// Validate ensures the caller-supplied catch fields are well formed.
func (c *Catch) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil catch", ErrInvalidCatch)
	}
	if strings.TrimSpace(c.TripID) == "" {
		return fmt.Errorf("%w: trip id required", ErrInvalidCatch)
	}
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("%w: id required", ErrInvalidCatch)
	}
	if strings.TrimSpace(c.Species) == "" {
		return fmt.Errorf("%w: species required", ErrInvalidCatch)
	}
	if c.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if strings.TrimSpace(c.Unit) == "" {
		return fmt.Errorf("%w: unit required", ErrInvalidCatch)
	}
	return c.Location.Validate()
}

// CatchVerification is advisory metadata attached to a catch by an inspector.
// It is not a ledger balance: re-verifying the same catch overwrites the
// previous record (last writer wins).
type CatchVerification struct {
	TripID             string
	CatchID            string
	Verifier           string
	VerificationTime   int64
	VerificationMethod string
	Verified           bool
	Notes              string
}
