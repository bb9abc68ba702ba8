package processing

import (
	"fmt"
	"strings"
	"time"

	"seatrace/core/events"
)

// storage abstracts the subset of state manager functionality required by the
// processing ledger.
type storage interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
	KVHas(key []byte) (bool, error)
}

// voyageSource resolves trip completion state and catch provenance without
// coupling the processing ledger to the voyage ledger's state layout.
// Satisfied by voyage.Ledger.
type voyageSource interface {
	TripCompleted(tripID string) (completed bool, ok bool, err error)
	CatchTrip(catchID string) (tripID string, ok bool, err error)
}

var (
	facilityPrefix = []byte("processing/facility/")
	batchPrefix    = []byte("processing/batch/")
	transferPrefix = []byte("processing/transfer/")
)

func facilityKey(id string) []byte {
	return []byte(fmt.Sprintf("%s%s", facilityPrefix, id))
}

func batchKey(id string) []byte {
	return []byte(fmt.Sprintf("%s%s", batchPrefix, id))
}

func transferKey(id string) []byte {
	return []byte(fmt.Sprintf("%s%s", transferPrefix, id))
}

type storedFacility struct {
	ID                  string
	Name                string
	Location            string
	Owner               string
	RegistrationDate    uint64
	CertificationStatus string
	Active              bool
}

type storedBatch struct {
	ID             string
	FacilityID     string
	InputCatchIDs  []string
	InputTripIDs   []string
	ProcessingType string
	StartTime      uint64
	EndTime        uint64
	OutputQuantity uint64
	OutputUnit     string
	QualityGrade   string
	Status         uint8
}

type storedTransfer struct {
	ID                  string
	BatchID             string
	FromEntity          string
	ToEntity            string
	TransferTime        uint64
	TransportMethod     string
	TransportConditions string
	VerifiedBy          string
	VerificationTime    uint64
	Status              uint8
}

// Ledger owns facility registration, batch lifecycle consuming catches and
// trips, and custody-transfer lifecycle consuming batches.
type Ledger struct {
	store   storage
	voyages voyageSource
	emitter events.Emitter
	nowFn   func() int64
}

// NewLedger constructs a processing ledger bound to the provided storage
// backend and voyage directory.
func NewLedger(store storage, voyages voyageSource) *Ledger {
	return &Ledger{
		store:   store,
		voyages: voyages,
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
		return fmt.Errorf("processing: ledger not initialised")
	}
	if l.store == nil {
		return fmt.Errorf("processing: storage unavailable")
	}
	return nil
}

// RegisterFacility creates a new processing facility owned by the caller.
// Fresh facilities start active with a pending certification status.
func (l *Ledger) RegisterFacility(caller, facilityID, name, location string) (*Facility, error) {
	if err := l.ready(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(caller) == "" {
		return nil, fmt.Errorf("%w: caller required", ErrInvalidFacility)
	}
	facility := &Facility{
		ID:       strings.TrimSpace(facilityID),
		Name:     strings.TrimSpace(name),
		Location: strings.TrimSpace(location),
	}
	if err := facility.Validate(); err != nil {
		return nil, err
	}
	key := facilityKey(facility.ID)
	exists, err := l.store.KVHas(key)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrFacilityExists
	}
	facility.Owner = caller
	facility.RegistrationDate = l.now()
	facility.CertificationStatus = "pending"
	facility.Active = true
	if err := l.store.KVPut(key, storeFacility(facility)); err != nil {
		return nil, err
	}
	l.emit(events.FacilityRegistered{
		FacilityID:   facility.ID,
		Owner:        facility.Owner,
		Name:         facility.Name,
		RegisteredAt: facility.RegistrationDate,
	})
	return facility, nil
}

// UpdateFacilityCertification rewrites the facility certification status.
// Owner-only.
func (l *Ledger) UpdateFacilityCertification(caller, facilityID, certificationStatus string) (*Facility, error) {
	if err := l.ready(); err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(certificationStatus)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: certification status required", ErrInvalidFacility)
	}
	facility, err := l.requireFacility(strings.TrimSpace(facilityID))
	if err != nil {
		return nil, err
	}
	if facility.Owner != caller {
		return nil, ErrNotOwner
	}
	facility.CertificationStatus = trimmed
	if err := l.store.KVPut(facilityKey(facility.ID), storeFacility(facility)); err != nil {
		return nil, err
	}
	l.emit(events.FacilityCertUpdated{
		FacilityID:          facility.ID,
		CertificationStatus: trimmed,
	})
	return facility, nil
}

// UpdateFacilityStatus flips the facility active flag. Owner-only. An
// inactive facility cannot start new batches; in-progress batches are
// unaffected.
func (l *Ledger) UpdateFacilityStatus(caller, facilityID string, active bool) (*Facility, error) {
	if err := l.ready(); err != nil {
		return nil, err
	}
	facility, err := l.requireFacility(strings.TrimSpace(facilityID))
	if err != nil {
		return nil, err
	}
	if facility.Owner != caller {
		return nil, ErrNotOwner
	}
	facility.Active = active
	if err := l.store.KVPut(facilityKey(facility.ID), storeFacility(facility)); err != nil {
		return nil, err
	}
	l.emit(events.FacilityStatusUpdated{FacilityID: facility.ID, Active: active})
	return facility, nil
}

// StartBatch opens a processing batch at an active facility owned by the
// caller. Every declared input trip must exist and be completed, every
// declared input catch must exist, and each catch's parent trip must be part
// of the declared trip set.
func (l *Ledger) StartBatch(caller string, batch *Batch) (*Batch, error) {
	if err := l.ready(); err != nil {
		return nil, err
	}
	if l.voyages == nil {
		return nil, fmt.Errorf("processing: voyage directory unavailable")
	}
	if batch == nil {
		return nil, fmt.Errorf("%w: nil batch", ErrInvalidBatch)
	}
	sanitized := cloneBatch(batch)
	sanitized.ID = strings.TrimSpace(sanitized.ID)
	sanitized.FacilityID = strings.TrimSpace(sanitized.FacilityID)
	if err := sanitized.Validate(); err != nil {
		return nil, err
	}
	key := batchKey(sanitized.ID)
	exists, err := l.store.KVHas(key)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrBatchExists
	}
	facility, err := l.requireFacility(sanitized.FacilityID)
	if err != nil {
		return nil, err
	}
	if !facility.Active {
		return nil, ErrFacilityInactive
	}
	if facility.Owner != caller {
		return nil, ErrNotOwner
	}
	tripSet := make(map[string]struct{}, len(sanitized.InputTripIDs))
	for _, tripID := range sanitized.InputTripIDs {
		trimmed := strings.TrimSpace(tripID)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: empty trip id", ErrInvalidBatch)
		}
		completed, ok, err := l.voyages.TripCompleted(trimmed)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrTripNotFound, trimmed)
		}
		if !completed {
			return nil, fmt.Errorf("%w: %s", ErrTripNotCompleted, trimmed)
		}
		tripSet[trimmed] = struct{}{}
	}
	for _, catchID := range sanitized.InputCatchIDs {
		trimmed := strings.TrimSpace(catchID)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: empty catch id", ErrInvalidBatch)
		}
		tripID, ok, err := l.voyages.CatchTrip(trimmed)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrCatchNotFound, trimmed)
		}
		if _, declared := tripSet[tripID]; !declared {
			return nil, fmt.Errorf("%w: catch %s belongs to trip %s", ErrInputMismatch, trimmed, tripID)
		}
	}
	sanitized.StartTime = l.now()
	sanitized.EndTime = 0
	sanitized.OutputQuantity = 0
	sanitized.OutputUnit = ""
	sanitized.QualityGrade = ""
	sanitized.Status = BatchInProgress
	if err := l.store.KVPut(key, storeBatch(sanitized)); err != nil {
		return nil, err
	}
	l.emit(events.BatchStarted{
		BatchID:    sanitized.ID,
		FacilityID: sanitized.FacilityID,
		Catches:    int64(len(sanitized.InputCatchIDs)),
		Trips:      int64(len(sanitized.InputTripIDs)),
		StartedAt:  sanitized.StartTime,
	})
	return sanitized, nil
}

// CompleteBatch closes an in-progress batch, writing the output fields
// exactly once. Only the owner of the batch's facility may complete it.
func (l *Ledger) CompleteBatch(caller, batchID string, outputQuantity int64, outputUnit, qualityGrade string) (*Batch, error) {
	if err := l.ready(); err != nil {
		return nil, err
	}
	if outputQuantity <= 0 {
		return nil, ErrInvalidOutput
	}
	if strings.TrimSpace(outputUnit) == "" {
		return nil, fmt.Errorf("%w: output unit required", ErrInvalidBatch)
	}
	batch, err := l.requireBatch(strings.TrimSpace(batchID))
	if err != nil {
		return nil, err
	}
	if batch.Status != BatchInProgress {
		return nil, ErrBatchNotInProgress
	}
	facility, err := l.requireFacility(batch.FacilityID)
	if err != nil {
		return nil, err
	}
	if facility.Owner != caller {
		return nil, ErrNotOwner
	}
	batch.OutputQuantity = outputQuantity
	batch.OutputUnit = strings.TrimSpace(outputUnit)
	batch.QualityGrade = strings.TrimSpace(qualityGrade)
	batch.EndTime = l.now()
	batch.Status = BatchCompleted
	if err := l.store.KVPut(batchKey(batch.ID), storeBatch(batch)); err != nil {
		return nil, err
	}
	l.emit(events.BatchCompleted{
		BatchID:        batch.ID,
		OutputQuantity: batch.OutputQuantity,
		OutputUnit:     batch.OutputUnit,
		QualityGrade:   batch.QualityGrade,
		CompletedAt:    batch.EndTime,
	})
	return batch, nil
}

// RecordTransfer records a custody handover of a completed batch. The caller
// is always the sending entity; recording implies the physical handover
// already happened, so the transfer enters the ledger as received.
func (l *Ledger) RecordTransfer(caller string, transfer *Transfer) (*Transfer, error) {
	if err := l.ready(); err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, fmt.Errorf("%w: nil transfer", ErrInvalidTransfer)
	}
	if strings.TrimSpace(caller) == "" {
		return nil, fmt.Errorf("%w: caller required", ErrInvalidTransfer)
	}
	sanitized := *transfer
	sanitized.ID = strings.TrimSpace(sanitized.ID)
	sanitized.BatchID = strings.TrimSpace(sanitized.BatchID)
	sanitized.ToEntity = strings.TrimSpace(sanitized.ToEntity)
	if err := sanitized.Validate(); err != nil {
		return nil, err
	}
	key := transferKey(sanitized.ID)
	exists, err := l.store.KVHas(key)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrTransferExists
	}
	batch, err := l.requireBatch(sanitized.BatchID)
	if err != nil {
		return nil, err
	}
	if batch.Status != BatchCompleted {
		return nil, ErrBatchNotCompleted
	}
	sanitized.FromEntity = caller
	sanitized.TransferTime = l.now()
	sanitized.VerifiedBy = ""
	sanitized.VerificationTime = 0
	sanitized.Status = TransferReceived
	if err := l.store.KVPut(key, storeTransfer(&sanitized)); err != nil {
		return nil, err
	}
	l.emit(events.TransferRecorded{
		TransferID: sanitized.ID,
		BatchID:    sanitized.BatchID,
		FromEntity: sanitized.FromEntity,
		ToEntity:   sanitized.ToEntity,
		RecordedAt: sanitized.TransferTime,
	})
	return &sanitized, nil
}

// VerifyTransfer confirms receipt of a custody transfer. Only the recipient
// named at recording time may verify, and a verified transfer is terminal.
func (l *Ledger) VerifyTransfer(caller, transferID string) (*Transfer, error) {
	if err := l.ready(); err != nil {
		return nil, err
	}
	transfer, err := l.requireTransfer(strings.TrimSpace(transferID))
	if err != nil {
		return nil, err
	}
	if transfer.Status == TransferVerified {
		return nil, ErrTransferVerified
	}
	if transfer.ToEntity != caller {
		return nil, ErrNotRecipient
	}
	transfer.VerifiedBy = caller
	transfer.VerificationTime = l.now()
	transfer.Status = TransferVerified
	if err := l.store.KVPut(transferKey(transfer.ID), storeTransfer(transfer)); err != nil {
		return nil, err
	}
	l.emit(events.TransferVerified{
		TransferID: transfer.ID,
		VerifiedBy: transfer.VerifiedBy,
		VerifiedAt: transfer.VerificationTime,
	})
	return transfer, nil
}

// GetFacility fetches a facility record by id.
func (l *Ledger) GetFacility(facilityID string) (*Facility, bool, error) {
	if err := l.ready(); err != nil {
		return nil, false, err
	}
	var stored storedFacility
	ok, err := l.store.KVGet(facilityKey(strings.TrimSpace(facilityID)), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return loadFacility(&stored), true, nil
}

// GetBatch fetches a batch record by id.
func (l *Ledger) GetBatch(batchID string) (*Batch, bool, error) {
	if err := l.ready(); err != nil {
		return nil, false, err
	}
	var stored storedBatch
	ok, err := l.store.KVGet(batchKey(strings.TrimSpace(batchID)), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return loadBatch(&stored), true, nil
}

// GetTransfer fetches a transfer record by id.
func (l *Ledger) GetTransfer(transferID string) (*Transfer, bool, error) {
	if err := l.ready(); err != nil {
		return nil, false, err
	}
	var stored storedTransfer
	ok, err := l.store.KVGet(transferKey(strings.TrimSpace(transferID)), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return loadTransfer(&stored), true, nil
}

func (l *Ledger) requireFacility(facilityID string) (*Facility, error) {
	facility, ok, err := l.GetFacility(facilityID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrFacilityNotFound
	}
	return facility, nil
}

func (l *Ledger) requireBatch(batchID string) (*Batch, error) {
	batch, ok, err := l.GetBatch(batchID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrBatchNotFound
	}
	return batch, nil
}

func (l *Ledger) requireTransfer(transferID string) (*Transfer, error) {
	transfer, ok, err := l.GetTransfer(transferID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTransferNotFound
	}
	return transfer, nil
}

func cloneBatch(b *Batch) *Batch {
	clone := *b
	clone.InputCatchIDs = append([]string(nil), b.InputCatchIDs...)
	clone.InputTripIDs = append([]string(nil), b.InputTripIDs...)
	return &clone
}

func storeFacility(f *Facility) *storedFacility {
	return &storedFacility{
		ID:                  f.ID,
		Name:                f.Name,
		Location:            f.Location,
		Owner:               f.Owner,
		RegistrationDate:    uint64(f.RegistrationDate),
		CertificationStatus: f.CertificationStatus,
		Active:              f.Active,
	}
}

func loadFacility(s *storedFacility) *Facility {
	return &Facility{
		ID:                  s.ID,
		Name:                s.Name,
		Location:            s.Location,
		Owner:               s.Owner,
		RegistrationDate:    int64(s.RegistrationDate),
		CertificationStatus: s.CertificationStatus,
		Active:              s.Active,
	}
}

func storeBatch(b *Batch) *storedBatch {
	return &storedBatch{
		ID:             b.ID,
		FacilityID:     b.FacilityID,
		InputCatchIDs:  append([]string(nil), b.InputCatchIDs...),
		InputTripIDs:   append([]string(nil), b.InputTripIDs...),
		ProcessingType: b.ProcessingType,
		StartTime:      uint64(b.StartTime),
		EndTime:        uint64(b.EndTime),
		OutputQuantity: uint64(b.OutputQuantity),
		OutputUnit:     b.OutputUnit,
		QualityGrade:   b.QualityGrade,
		Status:         uint8(b.Status),
	}
}

func loadBatch(s *storedBatch) *Batch {
	return &Batch{
		ID:             s.ID,
		FacilityID:     s.FacilityID,
		InputCatchIDs:  append([]string(nil), s.InputCatchIDs...),
		InputTripIDs:   append([]string(nil), s.InputTripIDs...),
		ProcessingType: s.ProcessingType,
		StartTime:      int64(s.StartTime),
		EndTime:        int64(s.EndTime),
		OutputQuantity: int64(s.OutputQuantity),
		OutputUnit:     s.OutputUnit,
		QualityGrade:   s.QualityGrade,
		Status:         BatchStatus(s.Status),
	}
}

func storeTransfer(t *Transfer) *storedTransfer {
	return &storedTransfer{
		ID:                  t.ID,
		BatchID:             t.BatchID,
		FromEntity:          t.FromEntity,
		ToEntity:            t.ToEntity,
		TransferTime:        uint64(t.TransferTime),
		TransportMethod:     t.TransportMethod,
		TransportConditions: t.TransportConditions,
		VerifiedBy:          t.VerifiedBy,
		VerificationTime:    uint64(t.VerificationTime),
		Status:              uint8(t.Status),
	}
}

func loadTransfer(s *storedTransfer) *Transfer {
	return &Transfer{
		ID:                  s.ID,
		BatchID:             s.BatchID,
		FromEntity:          s.FromEntity,
		ToEntity:            s.ToEntity,
		TransferTime:        int64(s.TransferTime),
		TransportMethod:     s.TransportMethod,
		TransportConditions: s.TransportConditions,
		VerifiedBy:          s.VerifiedBy,
		VerificationTime:    int64(s.VerificationTime),
		Status:              TransferStatus(s.Status),
	}
}
