package voyage

import (
	"fmt"
	"strings"
	"time"

	"seatrace/core/events"
)

// storage abstracts the subset of state manager functionality required by the
// voyage ledger.
type storage interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
	KVHas(key []byte) (bool, error)
	KVAppend(key []byte, value []byte) error
	KVGetList(key []byte, out interface{}) error
}

// vesselSource resolves vessel existence and activity without coupling the
// voyage ledger to the fleet registry's state layout. Satisfied by
// fleet.Ledger.
type vesselSource interface {
	VesselStatus(vesselID string) (active bool, ok bool, err error)
}

var (
	tripPrefix         = []byte("voyage/trip/")
	catchPrefix        = []byte("voyage/catch/")
	catchIndexPrefix   = []byte("voyage/catch-index/")
	tripCatchesPrefix  = []byte("voyage/trip-catches/")
	verificationPrefix = []byte("voyage/verification/")
)

func tripKey(id string) []byte {
	return []byte(fmt.Sprintf("%s%s", tripPrefix, id))
}

func catchKey(tripID, catchID string) []byte {
	return []byte(fmt.Sprintf("%s%s/%s", catchPrefix, tripID, catchID))
}

func catchIndexKey(catchID string) []byte {
	return []byte(fmt.Sprintf("%s%s", catchIndexPrefix, catchID))
}

func tripCatchesKey(tripID string) []byte {
	return []byte(fmt.Sprintf("%s%s", tripCatchesPrefix, tripID))
}

func verificationKey(tripID, catchID string) []byte {
	return []byte(fmt.Sprintf("%s%s/%s", verificationPrefix, tripID, catchID))
}

type storedTrip struct {
	ID            string
	VesselID      string
	Captain       string
	DeparturePort string
	ReturnPort    string
	FishingZone   string
	DepartureTime uint64
	ReturnTime    uint64
	Status        uint8
}

// Coordinates are stored offset into the non-negative range because the RLP
// codec has no signed integer encoding.
const (
	storedLatOffset = uint64(maxLatitudeMicro)
	storedLonOffset = uint64(maxLongitudeMicro)
)

type storedCatch struct {
	TripID        string
	ID            string
	Species       string
	Quantity      uint64
	Unit          string
	Latitude      uint64
	Longitude     uint64
	CatchTime     uint64
	FishingMethod string
	QualityGrade  string
	Notes         string
}

type storedCatchRef struct {
	TripID string
}

type storedVerification struct {
	TripID             string
	CatchID            string
	Verifier           string
	VerificationTime   uint64
	VerificationMethod string
	Verified           bool
	Notes              string
}

// Ledger owns the trip and catch records: trip open/close lifecycle, catch
// recording within an open trip and advisory catch verification.
type Ledger struct {
	store   storage
	vessels vesselSource
	emitter events.Emitter
	nowFn   func() int64
}

// NewLedger constructs a voyage ledger bound to the provided storage backend
// and vessel directory.
func NewLedger(store storage, vessels vesselSource) *Ledger {
	return &Ledger{
		store:   store,
		vessels: vessels,
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetNowFunc overrides the wall clock used by the ledger.
func (l *Ledger) SetNowFunc(now func() int64) {
	if l == nil {
		return
	}
	if now == nil {
		l.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	l.nowFn = now
}

// SetEmitter configures the event emitter. Passing nil resets it to a no-op.
func (l *Ledger) SetEmitter(emitter events.Emitter) {
	if l == nil {
		return
	}
	if emitter == nil {
		l.emitter = events.NoopEmitter{}
		return
	}
	l.emitter = emitter
}

func (l *Ledger) now() int64 {
	if l == nil || l.nowFn == nil {
		return time.Now().Unix()
	}
	return l.nowFn()
}

func (l *Ledger) emit(evt events.Event) {
	if l == nil || l.emitter == nil || evt == nil {
		return
	}
	l.emitter.Emit(evt)
}

func (l *Ledger) ready() error {
	if l == nil {
		return fmt.Errorf("voyage: ledger not initialised")
	}
	if l.store == nil {
		return fmt.Errorf("voyage: storage unavailable")
	}
	return nil
}

// StartTrip opens a trip for an existing, active vessel. The caller becomes
// the trip captain and the departure time is stamped with the current time.
func (l *Ledger) StartTrip(caller, tripID, vesselID, departurePort, fishingZone string) (*Trip, error) {
	if err := l.ready(); err != nil {
		return nil, err
	}
	if l.vessels == nil {
		return nil, fmt.Errorf("voyage: vessel directory unavailable")
	}
	trimmedTrip := strings.TrimSpace(tripID)
	trimmedVessel := strings.TrimSpace(vesselID)
	if trimmedTrip == "" {
		return nil, fmt.Errorf("%w: trip id required", ErrInvalidTrip)
	}
	if trimmedVessel == "" {
		return nil, fmt.Errorf("%w: vessel id required", ErrInvalidTrip)
	}
	if strings.TrimSpace(caller) == "" {
		return nil, fmt.Errorf("%w: caller required", ErrInvalidTrip)
	}
	exists, err := l.store.KVHas(tripKey(trimmedTrip))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrTripExists
	}
	active, ok, err := l.vessels.VesselStatus(trimmedVessel)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrVesselNotFound
	}
	if !active {
		return nil, ErrVesselInactive
	}
	trip := &Trip{
		ID:            trimmedTrip,
		VesselID:      trimmedVessel,
		Captain:       caller,
		DeparturePort: strings.TrimSpace(departurePort),
		FishingZone:   strings.TrimSpace(fishingZone),
		DepartureTime: l.now(),
		Status:        TripActive,
	}
	if err := l.store.KVPut(tripKey(trip.ID), storeTrip(trip)); err != nil {
		return nil, err
	}
	l.emit(events.TripStarted{
		TripID:      trip.ID,
		VesselID:    trip.VesselID,
		Captain:     trip.Captain,
		DepartedAt:  trip.DepartureTime,
		FishingZone: trip.FishingZone,
	})
	return trip, nil
}

// EndTrip closes an active trip. Only the captain who opened the trip may
// close it; a completed trip is terminal.
func (l *Ledger) EndTrip(caller, tripID, returnPort string) (*Trip, error) {
	if err := l.ready(); err != nil {
		return nil, err
	}
	trip, err := l.requireTrip(strings.TrimSpace(tripID))
	if err != nil {
		return nil, err
	}
	if trip.Status == TripCompleted {
		return nil, ErrTripCompleted
	}
	if trip.Captain != caller {
		return nil, ErrNotCaptain
	}
	trip.ReturnPort = strings.TrimSpace(returnPort)
	trip.ReturnTime = l.now()
	trip.Status = TripCompleted
	if err := l.store.KVPut(tripKey(trip.ID), storeTrip(trip)); err != nil {
		return nil, err
	}
	l.emit(events.TripEnded{
		TripID:     trip.ID,
		ReturnPort: trip.ReturnPort,
		ReturnedAt: trip.ReturnTime,
	})
	return trip, nil
}

// RecordCatch documents a catch against an open trip. The catch id must be
// unique across all trips; a global index entry maps it back to its trip so
// processing batches can resolve bare catch ids.
func (l *Ledger) RecordCatch(caller string, c *Catch) (*Catch, error) {
	if err := l.ready(); err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: nil catch", ErrInvalidCatch)
	}
	sanitized := *c
	sanitized.TripID = strings.TrimSpace(sanitized.TripID)
	sanitized.ID = strings.TrimSpace(sanitized.ID)
	sanitized.Species = strings.TrimSpace(sanitized.Species)
	if err := sanitized.Validate(); err != nil {
		return nil, err
	}
	trip, err := l.requireTrip(sanitized.TripID)
	if err != nil {
		return nil, err
	}
	if trip.Status != TripActive {
		return nil, ErrTripCompleted
	}
	if trip.Captain != caller {
		return nil, ErrNotCaptain
	}
	indexed, err := l.store.KVHas(catchIndexKey(sanitized.ID))
	if err != nil {
		return nil, err
	}
	if indexed {
		return nil, ErrCatchExists
	}
	sanitized.CatchTime = l.now()
	if err := l.store.KVPut(catchKey(sanitized.TripID, sanitized.ID), storeCatch(&sanitized)); err != nil {
		return nil, err
	}
	if err := l.store.KVPut(catchIndexKey(sanitized.ID), &storedCatchRef{TripID: sanitized.TripID}); err != nil {
		return nil, err
	}
	if err := l.store.KVAppend(tripCatchesKey(sanitized.TripID), []byte(sanitized.ID)); err != nil {
		return nil, err
	}
	l.emit(events.CatchRecorded{
		TripID:   sanitized.TripID,
		CatchID:  sanitized.ID,
		Species:  sanitized.Species,
		Quantity: sanitized.Quantity,
		Unit:     sanitized.Unit,
	})
	return &sanitized, nil
}

// VerifyCatch attaches a verification record to an existing catch. The record
// is advisory metadata, so re-verification overwrites the previous entry.
func (l *Ledger) VerifyCatch(caller, tripID, catchID, verificationMethod string, verified bool, notes string) (*CatchVerification, error) {
	if err := l.ready(); err != nil {
		return nil, err
	}
	trimmedTrip := strings.TrimSpace(tripID)
	trimmedCatch := strings.TrimSpace(catchID)
	if strings.TrimSpace(caller) == "" {
		return nil, fmt.Errorf("%w: caller required", ErrInvalidVerifyNote)
	}
	if strings.TrimSpace(verificationMethod) == "" {
		return nil, fmt.Errorf("%w: verification method required", ErrInvalidVerifyNote)
	}
	exists, err := l.store.KVHas(catchKey(trimmedTrip, trimmedCatch))
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCatchNotFound
	}
	verification := &CatchVerification{
		TripID:             trimmedTrip,
		CatchID:            trimmedCatch,
		Verifier:           caller,
		VerificationTime:   l.now(),
		VerificationMethod: strings.TrimSpace(verificationMethod),
		Verified:           verified,
		Notes:              notes,
	}
	if err := l.store.KVPut(verificationKey(trimmedTrip, trimmedCatch), storeVerification(verification)); err != nil {
		return nil, err
	}
	l.emit(events.CatchVerified{
		TripID:   verification.TripID,
		CatchID:  verification.CatchID,
		Verifier: verification.Verifier,
		Verified: verification.Verified,
	})
	return verification, nil
}

// GetTrip fetches a trip record by id.
func (l *Ledger) GetTrip(tripID string) (*Trip, bool, error) {
	if err := l.ready(); err != nil {
		return nil, false, err
	}
	var stored storedTrip
	ok, err := l.store.KVGet(tripKey(strings.TrimSpace(tripID)), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return loadTrip(&stored), true, nil
}

// GetCatch fetches a catch record by its composite key.
func (l *Ledger) GetCatch(tripID, catchID string) (*Catch, bool, error) {
	if err := l.ready(); err != nil {
		return nil, false, err
	}
	var stored storedCatch
	ok, err := l.store.KVGet(catchKey(strings.TrimSpace(tripID), strings.TrimSpace(catchID)), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return loadCatch(&stored), true, nil
}

// GetCatchVerification fetches the latest verification for a catch.
func (l *Ledger) GetCatchVerification(tripID, catchID string) (*CatchVerification, bool, error) {
	if err := l.ready(); err != nil {
		return nil, false, err
	}
	var stored storedVerification
	ok, err := l.store.KVGet(verificationKey(strings.TrimSpace(tripID), strings.TrimSpace(catchID)), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return loadVerification(&stored), true, nil
}

// CatchesForTrip lists the catch ids recorded against a trip, in recording
// order.
func (l *Ledger) CatchesForTrip(tripID string) ([]string, error) {
	if err := l.ready(); err != nil {
		return nil, err
	}
	var raw [][]byte
	if err := l.store.KVGetList(tripCatchesKey(strings.TrimSpace(tripID)), &raw); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(raw))
	for _, entry := range raw {
		ids = append(ids, string(entry))
	}
	return ids, nil
}

// TripStatus reports a trip's lifecycle state. The processing ledger uses it
// to validate batch inputs.
func (l *Ledger) TripStatus(tripID string) (status TripStatus, ok bool, err error) {
	trip, ok, err := l.GetTrip(tripID)
	if err != nil || !ok {
		return 0, ok, err
	}
	return trip.Status, true, nil
}

// TripCompleted reports whether a trip exists and has been completed. The
// processing ledger only accepts catches from completed trips.
func (l *Ledger) TripCompleted(tripID string) (completed bool, ok bool, err error) {
	status, ok, err := l.TripStatus(tripID)
	if err != nil || !ok {
		return false, ok, err
	}
	return status == TripCompleted, true, nil
}

// CatchTrip resolves a bare catch id to the trip it was recorded under.
func (l *Ledger) CatchTrip(catchID string) (tripID string, ok bool, err error) {
	if err := l.ready(); err != nil {
		return "", false, err
	}
	var ref storedCatchRef
	ok, err = l.store.KVGet(catchIndexKey(strings.TrimSpace(catchID)), &ref)
	if err != nil || !ok {
		return "", false, err
	}
	return ref.TripID, true, nil
}

func (l *Ledger) requireTrip(tripID string) (*Trip, error) {
	trip, ok, err := l.GetTrip(tripID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTripNotFound
	}
	return trip, nil
}

func storeTrip(t *Trip) *storedTrip {
	return &storedTrip{
		ID:            t.ID,
		VesselID:      t.VesselID,
		Captain:       t.Captain,
		DeparturePort: t.DeparturePort,
		ReturnPort:    t.ReturnPort,
		FishingZone:   t.FishingZone,
		DepartureTime: uint64(t.DepartureTime),
		ReturnTime:    uint64(t.ReturnTime),
		Status:        uint8(t.Status),
	}
}

func loadTrip(s *storedTrip) *Trip {
	return &Trip{
		ID:            s.ID,
		VesselID:      s.VesselID,
		Captain:       s.Captain,
		DeparturePort: s.DeparturePort,
		ReturnPort:    s.ReturnPort,
		FishingZone:   s.FishingZone,
		DepartureTime: int64(s.DepartureTime),
		ReturnTime:    int64(s.ReturnTime),
		Status:        TripStatus(s.Status),
	}
}

func storeCatch(c *Catch) *storedCatch {
	return &storedCatch{
		TripID:        c.TripID,
		ID:            c.ID,
		Species:       c.Species,
		Quantity:      uint64(c.Quantity),
		Unit:          c.Unit,
		Latitude:      uint64(c.Location.Latitude + int64(storedLatOffset)),
		Longitude:     uint64(c.Location.Longitude + int64(storedLonOffset)),
		CatchTime:     uint64(c.CatchTime),
		FishingMethod: c.FishingMethod,
		QualityGrade:  c.QualityGrade,
		Notes:         c.Notes,
	}
}

func loadCatch(s *storedCatch) *Catch {
	return &Catch{
		TripID:   s.TripID,
		ID:       s.ID,
		Species:  s.Species,
		Quantity: int64(s.Quantity),
		Unit:     s.Unit,
		Location: Location{
			Latitude:  int64(s.Latitude) - int64(storedLatOffset),
			Longitude: int64(s.Longitude) - int64(storedLonOffset),
		},
		CatchTime:     int64(s.CatchTime),
		FishingMethod: s.FishingMethod,
		QualityGrade:  s.QualityGrade,
		Notes:         s.Notes,
	}
}

func storeVerification(v *CatchVerification) *storedVerification {
	return &storedVerification{
		TripID:             v.TripID,
		CatchID:            v.CatchID,
		Verifier:           v.Verifier,
		VerificationTime:   uint64(v.VerificationTime),
		VerificationMethod: v.VerificationMethod,
		Verified:           v.Verified,
		Notes:              v.Notes,
	}
}

func loadVerification(s *storedVerification) *CatchVerification {
	return &CatchVerification{
		TripID:             s.TripID,
		CatchID:            s.CatchID,
		Verifier:           s.Verifier,
		VerificationTime:   int64(s.VerificationTime),
		VerificationMethod: s.VerificationMethod,
		Verified:           s.Verified,
		Notes:              s.Notes,
	}
}
