package fleet

import (
	"fmt"
	"strings"
	"time"

	"seatrace/core/events"
)

// storage abstracts the subset of state manager functionality required by the
// fleet registry.
type storage interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
	KVHas(key []byte) (bool, error)
}

var (
	vesselPrefix    = []byte("fleet/vessel/")
	equipmentPrefix = []byte("fleet/equipment/")
	vesselCertPref  = []byte("fleet/certification/")
)

func vesselKey(id string) []byte {
	return []byte(fmt.Sprintf("%s%s", vesselPrefix, id))
}

func equipmentKey(vesselID, equipmentID string) []byte {
	return []byte(fmt.Sprintf("%s%s/%s", equipmentPrefix, vesselID, equipmentID))
}

func vesselCertKey(vesselID, certificationID string) []byte {
	return []byte(fmt.Sprintf("%s%s/%s", vesselCertPref, vesselID, certificationID))
}

type storedVessel struct {
	ID                 string
	Owner              string
	Name               string
	RegistrationNumber string
	VesselType         string
	Length             uint64
	Capacity           uint64
	HomePort           string
	RegistrationDate   uint64
	LicenseExpiry      uint64
	Active             bool
}

type storedEquipment struct {
	VesselID         string
	ID               string
	EquipmentType    string
	Description      string
	InstallationDate uint64
	LastInspection   uint64
	Inspector        string
}

type storedVesselCertification struct {
	VesselID          string
	ID                string
	CertificationType string
	Issuer            string
	IssueDate         uint64
	ExpiryDate        uint64
	Status            string
}

// Ledger owns the vessel registry: vessel lifecycle, equipment attachment,
// vessel-level certifications and ownership transfer. All mutations are
// guarded by the vessel owner identity supplied per call.
type Ledger struct {
	store   storage
	emitter events.Emitter
	nowFn   func() int64
}

// NewLedger constructs a fleet ledger bound to the provided storage backend.
func NewLedger(store storage) *Ledger {
	return &Ledger{
		store:   store,
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetNowFunc overrides the wall clock used by the ledger. Primarily leveraged
// in tests and by the node to provide deterministic timestamps.
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
		return fmt.Errorf("fleet: ledger not initialised")
	}
	if l.store == nil {
		return fmt.Errorf("fleet: storage unavailable")
	}
	return nil
}

// RegisterVessel creates a new vessel record owned by the caller. The ledger
// assigns the owner, registration date and active flag; the caller supplies
// everything else including the vessel id.
func (l *Ledger) RegisterVessel(caller string, vessel *Vessel) (*Vessel, error) {
	if err := l.ready(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(caller) == "" {
		return nil, fmt.Errorf("%w: caller required", ErrInvalidVessel)
	}
	if vessel == nil {
		return nil, fmt.Errorf("%w: nil vessel", ErrInvalidVessel)
	}
	sanitized := vessel.Clone()
	sanitized.ID = strings.TrimSpace(sanitized.ID)
	sanitized.Name = strings.TrimSpace(sanitized.Name)
	sanitized.RegistrationNumber = strings.TrimSpace(sanitized.RegistrationNumber)
	if err := sanitized.Validate(); err != nil {
		return nil, err
	}
	now := l.now()
	if sanitized.LicenseExpiry < now {
		return nil, fmt.Errorf("%w: license expiry in the past", ErrInvalidVessel)
	}
	key := vesselKey(sanitized.ID)
	exists, err := l.store.KVHas(key)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrVesselExists
	}
	sanitized.Owner = caller
	sanitized.RegistrationDate = now
	sanitized.Active = true
	if err := l.store.KVPut(key, storeVessel(sanitized)); err != nil {
		return nil, err
	}
	l.emit(events.VesselRegistered{
		VesselID:     sanitized.ID,
		Owner:        sanitized.Owner,
		Name:         sanitized.Name,
		RegisteredAt: sanitized.RegistrationDate,
	})
	return sanitized, nil
}

// AddEquipment attaches an equipment record to an existing vessel. Only the
// vessel owner may register equipment; the ledger records the caller as the
// inspector and stamps the last inspection with the current time.
func (l *Ledger) AddEquipment(caller string, equipment *Equipment) (*Equipment, error) {
	if err := l.ready(); err != nil {
		return nil, err
	}
	if equipment == nil {
		return nil, fmt.Errorf("%w: nil equipment", ErrInvalidEquipment)
	}
	sanitized := *equipment
	sanitized.VesselID = strings.TrimSpace(sanitized.VesselID)
	sanitized.ID = strings.TrimSpace(sanitized.ID)
	if err := sanitized.Validate(); err != nil {
		return nil, err
	}
	vessel, err := l.requireVessel(sanitized.VesselID)
	if err != nil {
		return nil, err
	}
	if vessel.Owner != caller {
		return nil, ErrNotOwner
	}
	key := equipmentKey(sanitized.VesselID, sanitized.ID)
	exists, err := l.store.KVHas(key)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEquipmentExists
	}
	sanitized.LastInspection = l.now()
	sanitized.Inspector = caller
	if err := l.store.KVPut(key, storeEquipment(&sanitized)); err != nil {
		return nil, err
	}
	l.emit(events.EquipmentAdded{
		VesselID:    sanitized.VesselID,
		EquipmentID: sanitized.ID,
		Type:        sanitized.EquipmentType,
	})
	return &sanitized, nil
}

// AddCertification attaches a certification record to an existing vessel.
// Only the vessel owner may file certifications; new records start active.
func (l *Ledger) AddCertification(caller string, cert *VesselCertification) (*VesselCertification, error) {
	if err := l.ready(); err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, fmt.Errorf("%w: nil certification", ErrInvalidCertification)
	}
	sanitized := *cert
	sanitized.VesselID = strings.TrimSpace(sanitized.VesselID)
	sanitized.ID = strings.TrimSpace(sanitized.ID)
	if err := sanitized.Validate(); err != nil {
		return nil, err
	}
	vessel, err := l.requireVessel(sanitized.VesselID)
	if err != nil {
		return nil, err
	}
	if vessel.Owner != caller {
		return nil, ErrNotOwner
	}
	key := vesselCertKey(sanitized.VesselID, sanitized.ID)
	exists, err := l.store.KVHas(key)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCertificationExists
	}
	sanitized.Status = "active"
	if err := l.store.KVPut(key, storeVesselCertification(&sanitized)); err != nil {
		return nil, err
	}
	l.emit(events.VesselCertAdded{
		VesselID:        sanitized.VesselID,
		CertificationID: sanitized.ID,
		Type:            sanitized.CertificationType,
		Issuer:          sanitized.Issuer,
	})
	return &sanitized, nil
}

// UpdateVesselStatus flips the vessel active flag. Deactivating a vessel does
// not close its open trips; the voyage ledger keeps them until the captain
// ends them.
func (l *Ledger) UpdateVesselStatus(caller, vesselID string, active bool) (*Vessel, error) {
	if err := l.ready(); err != nil {
		return nil, err
	}
	vessel, err := l.requireVessel(strings.TrimSpace(vesselID))
	if err != nil {
		return nil, err
	}
	if vessel.Owner != caller {
		return nil, ErrNotOwner
	}
	vessel.Active = active
	if err := l.store.KVPut(vesselKey(vessel.ID), storeVessel(vessel)); err != nil {
		return nil, err
	}
	l.emit(events.VesselStatusUpdated{VesselID: vessel.ID, Active: active})
	return vessel, nil
}

// UpdateCertificationStatus rewrites the status field of a vessel
// certification. Only the vessel owner may update it.
func (l *Ledger) UpdateCertificationStatus(caller, vesselID, certificationID, status string) (*VesselCertification, error) {
	if err := l.ready(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(status) == "" {
		return nil, fmt.Errorf("%w: status required", ErrInvalidCertification)
	}
	vessel, err := l.requireVessel(strings.TrimSpace(vesselID))
	if err != nil {
		return nil, err
	}
	if vessel.Owner != caller {
		return nil, ErrNotOwner
	}
	key := vesselCertKey(vessel.ID, strings.TrimSpace(certificationID))
	var stored storedVesselCertification
	ok, err := l.store.KVGet(key, &stored)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCertificationNotFound
	}
	stored.Status = strings.TrimSpace(status)
	if err := l.store.KVPut(key, &stored); err != nil {
		return nil, err
	}
	l.emit(events.VesselCertStatusUpdated{
		VesselID:        vessel.ID,
		CertificationID: stored.ID,
		Status:          stored.Status,
	})
	return loadVesselCertification(&stored), nil
}

// TransferOwnership rewrites the owner field of a vessel. Historical trips and
// catches retain their original captain attribution for audit purposes.
func (l *Ledger) TransferOwnership(caller, vesselID, newOwner string) (*Vessel, error) {
	if err := l.ready(); err != nil {
		return nil, err
	}
	trimmedOwner := strings.TrimSpace(newOwner)
	if trimmedOwner == "" {
		return nil, fmt.Errorf("%w: new owner required", ErrInvalidVessel)
	}
	vessel, err := l.requireVessel(strings.TrimSpace(vesselID))
	if err != nil {
		return nil, err
	}
	if vessel.Owner != caller {
		return nil, ErrNotOwner
	}
	oldOwner := vessel.Owner
	vessel.Owner = trimmedOwner
	if err := l.store.KVPut(vesselKey(vessel.ID), storeVessel(vessel)); err != nil {
		return nil, err
	}
	l.emit(events.VesselOwnershipTransferred{
		VesselID: vessel.ID,
		OldOwner: oldOwner,
		NewOwner: trimmedOwner,
	})
	return vessel, nil
}

// GetVessel fetches a vessel record by id.
func (l *Ledger) GetVessel(vesselID string) (*Vessel, bool, error) {
	if err := l.ready(); err != nil {
		return nil, false, err
	}
	var stored storedVessel
	ok, err := l.store.KVGet(vesselKey(strings.TrimSpace(vesselID)), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return loadVessel(&stored), true, nil
}

// GetEquipment fetches an equipment record by its composite key.
func (l *Ledger) GetEquipment(vesselID, equipmentID string) (*Equipment, bool, error) {
	if err := l.ready(); err != nil {
		return nil, false, err
	}
	var stored storedEquipment
	ok, err := l.store.KVGet(equipmentKey(strings.TrimSpace(vesselID), strings.TrimSpace(equipmentID)), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return loadEquipment(&stored), true, nil
}

// GetCertification fetches a vessel certification by its composite key.
func (l *Ledger) GetCertification(vesselID, certificationID string) (*VesselCertification, bool, error) {
	if err := l.ready(); err != nil {
		return nil, false, err
	}
	var stored storedVesselCertification
	ok, err := l.store.KVGet(vesselCertKey(strings.TrimSpace(vesselID), strings.TrimSpace(certificationID)), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return loadVesselCertification(&stored), true, nil
}

// VesselStatus reports whether a vessel exists and whether it is active. The
// voyage ledger uses it to validate trip starts without coupling to fleet
// state keys.
func (l *Ledger) VesselStatus(vesselID string) (active bool, ok bool, err error) {
	vessel, ok, err := l.GetVessel(vesselID)
	if err != nil || !ok {
		return false, ok, err
	}
	return vessel.Active, true, nil
}

func (l *Ledger) requireVessel(vesselID string) (*Vessel, error) {
	vessel, ok, err := l.GetVessel(vesselID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrVesselNotFound
	}
	return vessel, nil
}

func storeVessel(v *Vessel) *storedVessel {
	return &storedVessel{
		ID:                 v.ID,
		Owner:              v.Owner,
		Name:               v.Name,
		RegistrationNumber: v.RegistrationNumber,
		VesselType:         v.VesselType,
		Length:             uint64(v.Length),
		Capacity:           uint64(v.Capacity),
		HomePort:           v.HomePort,
		RegistrationDate:   uint64(v.RegistrationDate),
		LicenseExpiry:      uint64(v.LicenseExpiry),
		Active:             v.Active,
	}
}

func loadVessel(s *storedVessel) *Vessel {
	return &Vessel{
		ID:                 s.ID,
		Owner:              s.Owner,
		Name:               s.Name,
		RegistrationNumber: s.RegistrationNumber,
		VesselType:         s.VesselType,
		Length:             int64(s.Length),
		Capacity:           int64(s.Capacity),
		HomePort:           s.HomePort,
		RegistrationDate:   int64(s.RegistrationDate),
		LicenseExpiry:      int64(s.LicenseExpiry),
		Active:             s.Active,
	}
}

func storeEquipment(e *Equipment) *storedEquipment {
	return &storedEquipment{
		VesselID:         e.VesselID,
		ID:               e.ID,
		EquipmentType:    e.EquipmentType,
		Description:      e.Description,
		InstallationDate: uint64(e.InstallationDate),
		LastInspection:   uint64(e.LastInspection),
		Inspector:        e.Inspector,
	}
}

func loadEquipment(s *storedEquipment) *Equipment {
	return &Equipment{
		VesselID:         s.VesselID,
		ID:               s.ID,
		EquipmentType:    s.EquipmentType,
		Description:      s.Description,
		InstallationDate: int64(s.InstallationDate),
		LastInspection:   int64(s.LastInspection),
		Inspector:        s.Inspector,
	}
}

func storeVesselCertification(c *VesselCertification) *storedVesselCertification {
	return &storedVesselCertification{
		VesselID:          c.VesselID,
		ID:                c.ID,
		CertificationType: c.CertificationType,
		Issuer:            c.Issuer,
		IssueDate:         uint64(c.IssueDate),
		ExpiryDate:        uint64(c.ExpiryDate),
		Status:            c.Status,
	}
}

func loadVesselCertification(s *storedVesselCertification) *VesselCertification {
	return &VesselCertification{
		VesselID:          s.VesselID,
		ID:                s.ID,
		CertificationType: s.CertificationType,
		Issuer:            s.Issuer,
		IssueDate:         int64(s.IssueDate),
		ExpiryDate:        int64(s.ExpiryDate),
		Status:            s.Status,
	}
}
