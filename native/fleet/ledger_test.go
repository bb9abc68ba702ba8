package fleet

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

func newTestLedger() *Ledger {
	ledger := NewLedger(newMemoryStore())
	ledger.SetNowFunc(func() int64 { return 1_700_000_000 })
	return ledger
}

func testVessel(id string) *Vessel {
	return &Vessel{
		ID:                 id,
		Name:               "Northern Dawn",
		RegistrationNumber: "REG123456",
		VesselType:         "trawler",
		Length:             25,
		Capacity:           100,
		HomePort:           "Reine",
		LicenseExpiry:      1_700_000_000 + 31_536_000,
	}
}

func TestRegisterVessel(t *testing.T) {
	ledger := newTestLedger()

	vessel, err := ledger.RegisterVessel("owner-a", testVessel("vessel-001"))
	if err != nil {
		t.Fatalf("register vessel: %v", err)
	}
	if vessel.Owner != "owner-a" {
		t.Fatalf("expected owner 'owner-a', got %q", vessel.Owner)
	}
	if !vessel.Active {
		t.Fatalf("expected new vessel to be active")
	}
	if vessel.RegistrationDate != 1_700_000_000 {
		t.Fatalf("expected registration date stamped with now, got %d", vessel.RegistrationDate)
	}

	stored, ok, err := ledger.GetVessel("vessel-001")
	if err != nil {
		t.Fatalf("get vessel: %v", err)
	}
	if !ok {
		t.Fatalf("expected vessel to exist")
	}
	if stored.Name != "Northern Dawn" {
		t.Fatalf("unexpected name %q", stored.Name)
	}
}

func TestRegisterVesselDuplicate(t *testing.T) {
	ledger := newTestLedger()

	if _, err := ledger.RegisterVessel("owner-a", testVessel("vessel-001")); err != nil {
		t.Fatalf("register vessel: %v", err)
	}
	second := testVessel("vessel-001")
	second.Name = "Impostor"
	if _, err := ledger.RegisterVessel("owner-b", second); !errors.Is(err, ErrVesselExists) {
		t.Fatalf("expected ErrVesselExists, got %v", err)
	}

	stored, ok, err := ledger.GetVessel("vessel-001")
	if err != nil || !ok {
		t.Fatalf("get vessel: ok=%v err=%v", ok, err)
	}
	if stored.Name != "Northern Dawn" || stored.Owner != "owner-a" {
		t.Fatalf("duplicate registration mutated the stored record: %+v", stored)
	}
}

func TestRegisterVesselExpiredLicense(t *testing.T) {
	ledger := newTestLedger()

	vessel := testVessel("vessel-001")
	vessel.LicenseExpiry = 1_600_000_000
	if _, err := ledger.RegisterVessel("owner-a", vessel); !errors.Is(err, ErrInvalidVessel) {
		t.Fatalf("expected ErrInvalidVessel for past license expiry, got %v", err)
	}
}

func TestAddEquipment(t *testing.T) {
	ledger := newTestLedger()
	if _, err := ledger.RegisterVessel("owner-a", testVessel("vessel-001")); err != nil {
		t.Fatalf("register vessel: %v", err)
	}

	equipment := &Equipment{
		VesselID:         "vessel-001",
		ID:               "equipment-001",
		EquipmentType:    "gps",
		Description:      "GPS navigation system",
		InstallationDate: 1_690_000_000,
	}
	added, err := ledger.AddEquipment("owner-a", equipment)
	if err != nil {
		t.Fatalf("add equipment: %v", err)
	}
	if added.Inspector != "owner-a" {
		t.Fatalf("expected inspector to be the caller, got %q", added.Inspector)
	}
	if added.LastInspection != 1_700_000_000 {
		t.Fatalf("expected last inspection stamped with now, got %d", added.LastInspection)
	}

	if _, err := ledger.AddEquipment("owner-a", equipment); !errors.Is(err, ErrEquipmentExists) {
		t.Fatalf("expected ErrEquipmentExists, got %v", err)
	}
}

func TestAddEquipmentUnauthorized(t *testing.T) {
	ledger := newTestLedger()
	if _, err := ledger.RegisterVessel("owner-a", testVessel("vessel-001")); err != nil {
		t.Fatalf("register vessel: %v", err)
	}

	equipment := &Equipment{
		VesselID:      "vessel-001",
		ID:            "equipment-001",
		EquipmentType: "sonar",
	}
	if _, err := ledger.AddEquipment("owner-b", equipment); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestAddEquipmentMissingVessel(t *testing.T) {
	ledger := newTestLedger()

	equipment := &Equipment{
		VesselID:      "vessel-404",
		ID:            "equipment-001",
		EquipmentType: "gps",
	}
	if _, err := ledger.AddEquipment("owner-a", equipment); !errors.Is(err, ErrVesselNotFound) {
		t.Fatalf("expected ErrVesselNotFound, got %v", err)
	}
}

func TestAddCertification(t *testing.T) {
	ledger := newTestLedger()
	if _, err := ledger.RegisterVessel("owner-a", testVessel("vessel-001")); err != nil {
		t.Fatalf("register vessel: %v", err)
	}

	cert := &VesselCertification{
		VesselID:          "vessel-001",
		ID:                "cert-001",
		CertificationType: "safety",
		Issuer:            "Maritime Safety Authority",
		IssueDate:         1_690_000_000,
		ExpiryDate:        1_750_000_000,
	}
	added, err := ledger.AddCertification("owner-a", cert)
	if err != nil {
		t.Fatalf("add certification: %v", err)
	}
	if added.Status != "active" {
		t.Fatalf("expected new certification to be active, got %q", added.Status)
	}

	invalid := &VesselCertification{
		VesselID:          "vessel-001",
		ID:                "cert-002",
		CertificationType: "safety",
		IssueDate:         1_750_000_000,
		ExpiryDate:        1_690_000_000,
	}
	if _, err := ledger.AddCertification("owner-a", invalid); !errors.Is(err, ErrInvalidCertification) {
		t.Fatalf("expected ErrInvalidCertification for inverted dates, got %v", err)
	}
}

func TestUpdateCertificationStatus(t *testing.T) {
	ledger := newTestLedger()
	if _, err := ledger.RegisterVessel("owner-a", testVessel("vessel-001")); err != nil {
		t.Fatalf("register vessel: %v", err)
	}
	cert := &VesselCertification{
		VesselID:          "vessel-001",
		ID:                "cert-001",
		CertificationType: "safety",
		IssueDate:         1_690_000_000,
		ExpiryDate:        1_750_000_000,
	}
	if _, err := ledger.AddCertification("owner-a", cert); err != nil {
		t.Fatalf("add certification: %v", err)
	}

	updated, err := ledger.UpdateCertificationStatus("owner-a", "vessel-001", "cert-001", "suspended")
	if err != nil {
		t.Fatalf("update certification status: %v", err)
	}
	if updated.Status != "suspended" {
		t.Fatalf("expected status 'suspended', got %q", updated.Status)
	}

	if _, err := ledger.UpdateCertificationStatus("owner-b", "vessel-001", "cert-001", "active"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if _, err := ledger.UpdateCertificationStatus("owner-a", "vessel-001", "cert-404", "active"); !errors.Is(err, ErrCertificationNotFound) {
		t.Fatalf("expected ErrCertificationNotFound, got %v", err)
	}
}

func TestUpdateVesselStatus(t *testing.T) {
	ledger := newTestLedger()
	if _, err := ledger.RegisterVessel("owner-a", testVessel("vessel-001")); err != nil {
		t.Fatalf("register vessel: %v", err)
	}

	vessel, err := ledger.UpdateVesselStatus("owner-a", "vessel-001", false)
	if err != nil {
		t.Fatalf("update vessel status: %v", err)
	}
	if vessel.Active {
		t.Fatalf("expected vessel to be inactive")
	}

	active, ok, err := ledger.VesselStatus("vessel-001")
	if err != nil {
		t.Fatalf("vessel status: %v", err)
	}
	if !ok {
		t.Fatalf("expected vessel to exist")
	}
	if active {
		t.Fatalf("expected VesselStatus to report inactive")
	}

	if _, err := ledger.UpdateVesselStatus("owner-b", "vessel-001", true); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestTransferOwnership(t *testing.T) {
	ledger := newTestLedger()
	if _, err := ledger.RegisterVessel("owner-a", testVessel("vessel-001")); err != nil {
		t.Fatalf("register vessel: %v", err)
	}

	if _, err := ledger.TransferOwnership("owner-b", "vessel-001", "owner-c"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner for non-owner transfer, got %v", err)
	}

	vessel, err := ledger.TransferOwnership("owner-a", "vessel-001", "owner-b")
	if err != nil {
		t.Fatalf("transfer ownership: %v", err)
	}
	if vessel.Owner != "owner-b" {
		t.Fatalf("expected owner 'owner-b', got %q", vessel.Owner)
	}

	// The previous owner loses mutation rights immediately.
	if _, err := ledger.UpdateVesselStatus("owner-a", "vessel-001", false); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner after transfer, got %v", err)
	}
}

func TestVesselStatusMissing(t *testing.T) {
	ledger := newTestLedger()
	_, ok, err := ledger.VesselStatus("vessel-404")
	if err != nil {
		t.Fatalf("vessel status: %v", err)
	}
	if ok {
		t.Fatalf("expected missing vessel to report ok=false")
	}
}
