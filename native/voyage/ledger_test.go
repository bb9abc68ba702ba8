package voyage

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
)

type memoryStore struct {
	data map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string][]byte)}
}

func (m *memoryStore) KVPut(key []byte, value interface{}) error {
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return err
	}
	m.data[string(key)] = encoded
	return nil
}

func (m *memoryStore) KVGet(key []byte, out interface{}) (bool, error) {
	encoded, ok := m.data[string(key)]
	if !ok {
		return false, nil
	}
	if out == nil {
		return true, nil
	}
	if err := rlp.DecodeBytes(encoded, out); err != nil {
		return false, err
	}
	return true, nil
}

func (m *memoryStore) KVHas(key []byte) (bool, error) {
	_, ok := m.data[string(key)]
	return ok, nil
}

func (m *memoryStore) KVAppend(key []byte, value []byte) error {
	var list [][]byte
	if encoded, ok := m.data[string(key)]; ok {
		if err := rlp.DecodeBytes(encoded, &list); err != nil {
			return err
		}
	}
	for _, existing := range list {
		if string(existing) == string(value) {
			return nil
		}
	}
	list = append(list, append([]byte(nil), value...))
	encoded, err := rlp.EncodeToBytes(list)
	if err != nil {
		return err
	}
	m.data[string(key)] = encoded
	return nil
}

func (m *memoryStore) KVGetList(key []byte, out interface{}) error {
	encoded, ok := m.data[string(key)]
	if !ok {
		dest, valid := out.(*[][]byte)
		if !valid {
			return errors.New("unsupported list destination")
		}
		*dest = [][]byte{}
		return nil
	}
	return rlp.DecodeBytes(encoded, out)
}

type stubVessels struct {
	active map[string]bool
}

func (s *stubVessels) VesselStatus(vesselID string) (bool, bool, error) {
	active, ok := s.active[vesselID]
	return active, ok, nil
}

func newTestLedger() (*Ledger, *stubVessels) {
	vessels := &stubVessels{active: map[string]bool{"vessel-001": true}}
	ledger := NewLedger(newMemoryStore(), vessels)
	ledger.SetNowFunc(func() int64 { return 1_700_000_000 })
	return ledger, vessels
}

func testCatch(tripID, catchID string) *Catch {
	return &Catch{
		TripID:   tripID,
		ID:       catchID,
		Species:  "Tuna",
		Quantity: 500,
		Unit:     "kg",
		Location: Location{
			Latitude:  35_000_000,
			Longitude: -75_000_000,
		},
		FishingMethod: "longline",
		QualityGrade:  "A",
		Notes:         "Healthy stock",
	}
}

func TestStartTrip(t *testing.T) {
	ledger, _ := newTestLedger()

	trip, err := ledger.StartTrip("captain-a", "trip-001", "vessel-001", "Port A", "Zone 1")
	if err != nil {
		t.Fatalf("start trip: %v", err)
	}
	if trip.Captain != "captain-a" {
		t.Fatalf("expected captain 'captain-a', got %q", trip.Captain)
	}
	if trip.Status != TripActive {
		t.Fatalf("expected active status, got %s", trip.Status)
	}
	if trip.DepartureTime != 1_700_000_000 {
		t.Fatalf("expected departure time stamped with now, got %d", trip.DepartureTime)
	}

	if _, err := ledger.StartTrip("captain-a", "trip-001", "vessel-001", "Port A", "Zone 1"); !errors.Is(err, ErrTripExists) {
		t.Fatalf("expected ErrTripExists, got %v", err)
	}
}

func TestStartTripVesselChecks(t *testing.T) {
	ledger, vessels := newTestLedger()

	if _, err := ledger.StartTrip("captain-a", "trip-001", "vessel-404", "Port A", "Zone 1"); !errors.Is(err, ErrVesselNotFound) {
		t.Fatalf("expected ErrVesselNotFound, got %v", err)
	}

	vessels.active["vessel-002"] = false
	if _, err := ledger.StartTrip("captain-a", "trip-001", "vessel-002", "Port A", "Zone 1"); !errors.Is(err, ErrVesselInactive) {
		t.Fatalf("expected ErrVesselInactive, got %v", err)
	}
}

func TestEndTrip(t *testing.T) {
	ledger, _ := newTestLedger()
	if _, err := ledger.StartTrip("captain-a", "trip-001", "vessel-001", "Port A", "Zone 1"); err != nil {
		t.Fatalf("start trip: %v", err)
	}

	if _, err := ledger.EndTrip("captain-b", "trip-001", "Port B"); !errors.Is(err, ErrNotCaptain) {
		t.Fatalf("expected ErrNotCaptain, got %v", err)
	}

	trip, err := ledger.EndTrip("captain-a", "trip-001", "Port B")
	if err != nil {
		t.Fatalf("end trip: %v", err)
	}
	if trip.Status != TripCompleted {
		t.Fatalf("expected completed status, got %s", trip.Status)
	}
	if trip.ReturnTime < trip.DepartureTime {
		t.Fatalf("return time %d before departure %d", trip.ReturnTime, trip.DepartureTime)
	}

	if _, err := ledger.EndTrip("captain-a", "trip-001", "Port C"); !errors.Is(err, ErrTripCompleted) {
		t.Fatalf("expected ErrTripCompleted, got %v", err)
	}
	if _, err := ledger.EndTrip("captain-a", "trip-404", "Port B"); !errors.Is(err, ErrTripNotFound) {
		t.Fatalf("expected ErrTripNotFound, got %v", err)
	}
}

func TestRecordCatch(t *testing.T) {
	ledger, _ := newTestLedger()
	if _, err := ledger.StartTrip("captain-a", "trip-001", "vessel-001", "Port A", "Zone 1"); err != nil {
		t.Fatalf("start trip: %v", err)
	}

	recorded, err := ledger.RecordCatch("captain-a", testCatch("trip-001", "catch-001"))
	if err != nil {
		t.Fatalf("record catch: %v", err)
	}
	if recorded.CatchTime != 1_700_000_000 {
		t.Fatalf("expected catch time stamped with now, got %d", recorded.CatchTime)
	}

	stored, ok, err := ledger.GetCatch("trip-001", "catch-001")
	if err != nil || !ok {
		t.Fatalf("get catch: ok=%v err=%v", ok, err)
	}
	if stored.Location.Latitude != 35_000_000 || stored.Location.Longitude != -75_000_000 {
		t.Fatalf("location round trip failed: %+v", stored.Location)
	}

	tripID, ok, err := ledger.CatchTrip("catch-001")
	if err != nil || !ok {
		t.Fatalf("catch trip: ok=%v err=%v", ok, err)
	}
	if tripID != "trip-001" {
		t.Fatalf("expected trip-001, got %q", tripID)
	}

	ids, err := ledger.CatchesForTrip("trip-001")
	if err != nil {
		t.Fatalf("catches for trip: %v", err)
	}
	if len(ids) != 1 || ids[0] != "catch-001" {
		t.Fatalf("unexpected catch list %v", ids)
	}
}

func TestRecordCatchValidation(t *testing.T) {
	ledger, _ := newTestLedger()
	if _, err := ledger.StartTrip("captain-a", "trip-001", "vessel-001", "Port A", "Zone 1"); err != nil {
		t.Fatalf("start trip: %v", err)
	}

	zero := testCatch("trip-001", "catch-001")
	zero.Quantity = 0
	if _, err := ledger.RecordCatch("captain-a", zero); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}

	offMap := testCatch("trip-001", "catch-001")
	offMap.Location.Latitude = 95_000_000
	if _, err := ledger.RecordCatch("captain-a", offMap); !errors.Is(err, ErrInvalidLocation) {
		t.Fatalf("expected ErrInvalidLocation, got %v", err)
	}

	if _, err := ledger.RecordCatch("captain-b", testCatch("trip-001", "catch-001")); !errors.Is(err, ErrNotCaptain) {
		t.Fatalf("expected ErrNotCaptain, got %v", err)
	}

	if _, err := ledger.RecordCatch("captain-a", testCatch("trip-404", "catch-001")); !errors.Is(err, ErrTripNotFound) {
		t.Fatalf("expected ErrTripNotFound, got %v", err)
	}
}

func TestRecordCatchClosedTrip(t *testing.T) {
	ledger, _ := newTestLedger()
	if _, err := ledger.StartTrip("captain-a", "trip-001", "vessel-001", "Port A", "Zone 1"); err != nil {
		t.Fatalf("start trip: %v", err)
	}
	if _, err := ledger.EndTrip("captain-a", "trip-001", "Port B"); err != nil {
		t.Fatalf("end trip: %v", err)
	}

	// Every retry after completion keeps failing the same way.
	for i := 0; i < 3; i++ {
		if _, err := ledger.RecordCatch("captain-a", testCatch("trip-001", "catch-001")); !errors.Is(err, ErrTripCompleted) {
			t.Fatalf("attempt %d: expected ErrTripCompleted, got %v", i, err)
		}
	}
}

func TestRecordCatchDuplicateIDAcrossTrips(t *testing.T) {
	ledger, vessels := newTestLedger()
	vessels.active["vessel-002"] = true
	if _, err := ledger.StartTrip("captain-a", "trip-001", "vessel-001", "Port A", "Zone 1"); err != nil {
		t.Fatalf("start trip: %v", err)
	}
	if _, err := ledger.StartTrip("captain-b", "trip-002", "vessel-002", "Port A", "Zone 2"); err != nil {
		t.Fatalf("start trip: %v", err)
	}

	if _, err := ledger.RecordCatch("captain-a", testCatch("trip-001", "catch-001")); err != nil {
		t.Fatalf("record catch: %v", err)
	}
	if _, err := ledger.RecordCatch("captain-b", testCatch("trip-002", "catch-001")); !errors.Is(err, ErrCatchExists) {
		t.Fatalf("expected ErrCatchExists, got %v", err)
	}
}

func TestVerifyCatchLastWriterWins(t *testing.T) {
	ledger, _ := newTestLedger()
	if _, err := ledger.StartTrip("captain-a", "trip-001", "vessel-001", "Port A", "Zone 1"); err != nil {
		t.Fatalf("start trip: %v", err)
	}
	if _, err := ledger.RecordCatch("captain-a", testCatch("trip-001", "catch-001")); err != nil {
		t.Fatalf("record catch: %v", err)
	}

	if _, err := ledger.VerifyCatch("inspector-a", "trip-001", "catch-001", "visual", true, "first pass"); err != nil {
		t.Fatalf("verify catch: %v", err)
	}
	if _, err := ledger.VerifyCatch("inspector-b", "trip-001", "catch-001", "dockside", false, "second pass"); err != nil {
		t.Fatalf("re-verify catch: %v", err)
	}

	verification, ok, err := ledger.GetCatchVerification("trip-001", "catch-001")
	if err != nil || !ok {
		t.Fatalf("get verification: ok=%v err=%v", ok, err)
	}
	if verification.Verifier != "inspector-b" || verification.Verified || verification.Notes != "second pass" {
		t.Fatalf("expected second payload to win, got %+v", verification)
	}
}

func TestVerifyCatchMissing(t *testing.T) {
	ledger, _ := newTestLedger()
	if _, err := ledger.VerifyCatch("inspector-a", "trip-001", "catch-404", "visual", true, ""); !errors.Is(err, ErrCatchNotFound) {
		t.Fatalf("expected ErrCatchNotFound, got %v", err)
	}
}

func TestVerifyCatchRequiresVerifier(t *testing.T) {
	ledger, _ := newTestLedger()
	if _, err := ledger.StartTrip("captain-a", "trip-001", "vessel-001", "Port A", "Zone 1"); err != nil {
		t.Fatalf("start trip: %v", err)
	}
	if _, err := ledger.RecordCatch("captain-a", testCatch("trip-001", "catch-001")); err != nil {
		t.Fatalf("record catch: %v", err)
	}

	if _, err := ledger.VerifyCatch("  ", "trip-001", "catch-001", "visual", true, ""); !errors.Is(err, ErrInvalidVerifyNote) {
		t.Fatalf("expected ErrInvalidVerifyNote for blank verifier, got %v", err)
	}
	if _, ok, err := ledger.GetCatchVerification("trip-001", "catch-001"); err != nil || ok {
		t.Fatalf("expected no verification stored, ok=%v err=%v", ok, err)
	}
}

func TestTripStatusLookup(t *testing.T) {
	ledger, _ := newTestLedger()
	if _, err := ledger.StartTrip("captain-a", "trip-001", "vessel-001", "Port A", "Zone 1"); err != nil {
		t.Fatalf("start trip: %v", err)
	}

	status, ok, err := ledger.TripStatus("trip-001")
	if err != nil || !ok {
		t.Fatalf("trip status: ok=%v err=%v", ok, err)
	}
	if status != TripActive {
		t.Fatalf("expected active, got %s", status)
	}

	if _, ok, err := ledger.TripStatus("trip-404"); err != nil || ok {
		t.Fatalf("expected missing trip to report ok=false, got ok=%v err=%v", ok, err)
	}
}
