package certify

import (
	"fmt"
	"strings"
	"time"

	"seatrace/core/events"
)

// storage abstracts the subset of state manager functionality required by the
// certification registry.
type storage interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
	KVHas(key []byte) (bool, error)
}

var (
	standardPrefix      = []byte("certify/standard/")
	certificationPrefix = []byte("certify/certification/")
	auditPrefix         = []byte("certify/audit/")
)

func standardKey(id string) []byte {
	return []byte(fmt.Sprintf("%s%s", standardPrefix, id))
}

func certificationKey(id string) []byte {
	return []byte(fmt.Sprintf("%s%s", certificationPrefix, id))
}

func auditKey(certificationID, auditID string) []byte {
	return []byte(fmt.Sprintf("%s%s/%s", auditPrefix, certificationID, auditID))
}

type storedStandard struct {
	ID           string
	Name         string
	Description  string
	Criteria     string
	CreatedBy    string
	CreationDate uint64
	Active       bool
}

type storedCertification struct {
	ID           string
	EntityID     string
	EntityType   string
	StandardID   string
	IssueDate    uint64
	ExpiryDate   uint64
	Issuer       string
	Status       uint8
	Score        uint64
	EvidenceHash [32]byte
}

type storedAudit struct {
	CertificationID string
	ID              string
	Auditor         string
	AuditDate       uint64
	Findings        string
	Recommendation  string
	EvidenceHash    [32]byte
}

// Ledger owns certification standards, certification issuance and audits.
// Entity references are opaque ids; only the standard reference is validated
// against this registry's own state.
type Ledger struct {
	store   storage
	emitter events.Emitter
	nowFn   func() int64
}

// NewLedger constructs a certification registry bound to the provided storage
// backend.
func NewLedger(store storage) *Ledger {
	return &Ledger{
		store:   store,
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetNowFunc overrides the wall clock used for expiry checks.
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
		return fmt.Errorf("certify: ledger not initialised")
	}
	if l.store == nil {
		return fmt.Errorf("certify: storage unavailable")
	}
	return nil
}

// CreateStandard registers a new certification scheme created by the caller.
func (l *Ledger) CreateStandard(caller, standardID, name, description, criteria string) (*Standard, error) {
	if err := l.ready(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(caller) == "" {
		return nil, fmt.Errorf("%w: caller required", ErrInvalidStandard)
	}
	standard := &Standard{
		ID:          strings.TrimSpace(standardID),
		Name:        strings.TrimSpace(name),
		Description: description,
		Criteria:    strings.TrimSpace(criteria),
	}
	if err := standard.Validate(); err != nil {
		return nil, err
	}
	key := standardKey(standard.ID)
	exists, err := l.store.KVHas(key)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrStandardExists
	}
	standard.CreatedBy = caller
	standard.CreationDate = l.now()
	standard.Active = true
	if err := l.store.KVPut(key, storeStandard(standard)); err != nil {
		return nil, err
	}
	l.emit(events.StandardCreated{
		StandardID: standard.ID,
		Name:       standard.Name,
		CreatedBy:  standard.CreatedBy,
		CreatedAt:  standard.CreationDate,
	})
	return standard, nil
}

// UpdateStandardStatus toggles the standard active flag. Only the creator may
// change it; every other field is immutable after creation.
func (l *Ledger) UpdateStandardStatus(caller, standardID string, active bool) (*Standard, error) {
	if err := l.ready(); err != nil {
		return nil, err
	}
	standard, err := l.requireStandard(strings.TrimSpace(standardID))
	if err != nil {
		return nil, err
	}
	if standard.CreatedBy != caller {
		return nil, ErrNotCreator
	}
	standard.Active = active
	if err := l.store.KVPut(standardKey(standard.ID), storeStandard(standard)); err != nil {
		return nil, err
	}
	l.emit(events.StandardStatusUpdated{StandardID: standard.ID, Active: active})
	return standard, nil
}

// IssueCertification grants a certification against an opaque entity
// reference under an existing, active standard. The caller becomes the
// issuer; the issue date is stamped with the current time and the expiry must
// lie strictly in the future.
func (l *Ledger) IssueCertification(caller string, cert *Certification) (*Certification, error) {
	if err := l.ready(); err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, fmt.Errorf("%w: nil certification", ErrInvalidCertification)
	}
	if strings.TrimSpace(caller) == "" {
		return nil, fmt.Errorf("%w: caller required", ErrInvalidCertification)
	}
	sanitized := *cert
	sanitized.ID = strings.TrimSpace(sanitized.ID)
	sanitized.EntityID = strings.TrimSpace(sanitized.EntityID)
	sanitized.EntityType = strings.TrimSpace(sanitized.EntityType)
	sanitized.StandardID = strings.TrimSpace(sanitized.StandardID)
	if err := sanitized.Validate(); err != nil {
		return nil, err
	}
	key := certificationKey(sanitized.ID)
	exists, err := l.store.KVHas(key)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCertificationExists
	}
	standard, err := l.requireStandard(sanitized.StandardID)
	if err != nil {
		return nil, err
	}
	if !standard.Active {
		return nil, ErrStandardInactive
	}
	now := l.now()
	if sanitized.ExpiryDate <= now {
		return nil, ErrInvalidExpiry
	}
	sanitized.IssueDate = now
	sanitized.Issuer = caller
	sanitized.Status = StatusActive
	if err := l.store.KVPut(key, storeCertification(&sanitized)); err != nil {
		return nil, err
	}
	l.emit(events.CertificationIssued{
		CertificationID: sanitized.ID,
		EntityID:        sanitized.EntityID,
		EntityType:      sanitized.EntityType,
		StandardID:      sanitized.StandardID,
		Issuer:          sanitized.Issuer,
		ExpiryDate:      sanitized.ExpiryDate,
		EvidenceHash:    sanitized.EvidenceHash,
	})
	return &sanitized, nil
}

// RecordAudit appends an audit finding against an existing certification.
// Audits never touch the certification record itself; the issuer enacts any
// resulting status change separately.
func (l *Ledger) RecordAudit(caller string, audit *Audit) (*Audit, error) {
	if err := l.ready(); err != nil {
		return nil, err
	}
	if audit == nil {
		return nil, fmt.Errorf("%w: nil audit", ErrInvalidAudit)
	}
	sanitized := *audit
	sanitized.CertificationID = strings.TrimSpace(sanitized.CertificationID)
	sanitized.ID = strings.TrimSpace(sanitized.ID)
	if err := sanitized.Validate(); err != nil {
		return nil, err
	}
	if _, err := l.requireCertification(sanitized.CertificationID); err != nil {
		return nil, err
	}
	key := auditKey(sanitized.CertificationID, sanitized.ID)
	exists, err := l.store.KVHas(key)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAuditExists
	}
	sanitized.Auditor = caller
	sanitized.AuditDate = l.now()
	if err := l.store.KVPut(key, storeAudit(&sanitized)); err != nil {
		return nil, err
	}
	l.emit(events.AuditRecorded{
		CertificationID: sanitized.CertificationID,
		AuditID:         sanitized.ID,
		Auditor:         sanitized.Auditor,
		Recommendation:  string(sanitized.Recommendation),
		EvidenceHash:    sanitized.EvidenceHash,
	})
	return &sanitized, nil
}

// UpdateCertificationStatus transitions a certification's lifecycle state.
// Only the issuer may transition, active and suspended are mutually
// reversible, and revoked/expired are terminal.
func (l *Ledger) UpdateCertificationStatus(caller, certificationID string, status CertificationStatus) (*Certification, error) {
	if err := l.ready(); err != nil {
		return nil, err
	}
	cert, err := l.requireCertification(strings.TrimSpace(certificationID))
	if err != nil {
		return nil, err
	}
	if cert.Issuer != caller {
		return nil, ErrNotIssuer
	}
	if !cert.Status.CanTransition(status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, cert.Status, status)
	}
	cert.Status = status
	if err := l.store.KVPut(certificationKey(cert.ID), storeCertification(cert)); err != nil {
		return nil, err
	}
	l.emit(events.CertificationStatusUpdated{
		CertificationID: cert.ID,
		Status:          status.String(),
	})
	return cert, nil
}

// VerifyCertification reports whether a certification currently holds: it
// must exist, be active and not yet expired. Expiry is evaluated lazily
// against the current time; the check never mutates state.
func (l *Ledger) VerifyCertification(certificationID string) (bool, error) {
	if err := l.ready(); err != nil {
		return false, err
	}
	cert, err := l.requireCertification(strings.TrimSpace(certificationID))
	if err != nil {
		return false, err
	}
	if cert.Status != StatusActive {
		return false, nil
	}
	return cert.ExpiryDate > l.now(), nil
}

// GetStandard fetches a standard by id.
func (l *Ledger) GetStandard(standardID string) (*Standard, bool, error) {
	if err := l.ready(); err != nil {
		return nil, false, err
	}
	var stored storedStandard
	ok, err := l.store.KVGet(standardKey(strings.TrimSpace(standardID)), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return loadStandard(&stored), true, nil
}

// GetCertification fetches a certification by id.
func (l *Ledger) GetCertification(certificationID string) (*Certification, bool, error) {
	if err := l.ready(); err != nil {
		return nil, false, err
	}
	var stored storedCertification
	ok, err := l.store.KVGet(certificationKey(strings.TrimSpace(certificationID)), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return loadCertification(&stored), true, nil
}

// GetAudit fetches an audit by its composite key.
func (l *Ledger) GetAudit(certificationID, auditID string) (*Audit, bool, error) {
	if err := l.ready(); err != nil {
		return nil, false, err
	}
	var stored storedAudit
	ok, err := l.store.KVGet(auditKey(strings.TrimSpace(certificationID), strings.TrimSpace(auditID)), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return loadAudit(&stored), true, nil
}

func (l *Ledger) requireStandard(standardID string) (*Standard, error) {
	standard, ok, err := l.GetStandard(standardID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStandardNotFound
	}
	return standard, nil
}

func (l *Ledger) requireCertification(certificationID string) (*Certification, error) {
	cert, ok, err := l.GetCertification(certificationID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCertificationNotFound
	}
	return cert, nil
}

func storeStandard(s *Standard) *storedStandard {
	return &storedStandard{
		ID:           s.ID,
		Name:         s.Name,
		Description:  s.Description,
		Criteria:     s.Criteria,
		CreatedBy:    s.CreatedBy,
		CreationDate: uint64(s.CreationDate),
		Active:       s.Active,
	}
}

func loadStandard(s *storedStandard) *Standard {
	return &Standard{
		ID:           s.ID,
		Name:         s.Name,
		Description:  s.Description,
		Criteria:     s.Criteria,
		CreatedBy:    s.CreatedBy,
		CreationDate: int64(s.CreationDate),
		Active:       s.Active,
	}
}

func storeCertification(c *Certification) *storedCertification {
	return &storedCertification{
		ID:           c.ID,
		EntityID:     c.EntityID,
		EntityType:   c.EntityType,
		StandardID:   c.StandardID,
		IssueDate:    uint64(c.IssueDate),
		ExpiryDate:   uint64(c.ExpiryDate),
		Issuer:       c.Issuer,
		Status:       uint8(c.Status),
		Score:        uint64(c.Score),
		EvidenceHash: c.EvidenceHash,
	}
}

func loadCertification(s *storedCertification) *Certification {
	return &Certification{
		ID:           s.ID,
		EntityID:     s.EntityID,
		EntityType:   s.EntityType,
		StandardID:   s.StandardID,
		IssueDate:    int64(s.IssueDate),
		ExpiryDate:   int64(s.ExpiryDate),
		Issuer:       s.Issuer,
		Status:       CertificationStatus(s.Status),
		Score:        int64(s.Score),
		EvidenceHash: s.EvidenceHash,
	}
}

func storeAudit(a *Audit) *storedAudit {
	return &storedAudit{
		CertificationID: a.CertificationID,
		ID:              a.ID,
		Auditor:         a.Auditor,
		AuditDate:       uint64(a.AuditDate),
		Findings:        a.Findings,
		Recommendation:  string(a.Recommendation),
		EvidenceHash:    a.EvidenceHash,
	}
}

func loadAudit(s *storedAudit) *Audit {
	return &Audit{
		CertificationID: s.CertificationID,
		ID:              s.ID,
		Auditor:         s.Auditor,
		AuditDate:       int64(s.AuditDate),
		Findings:        s.Findings,
		Recommendation:  Recommendation(s.Recommendation),
		EvidenceHash:    s.EvidenceHash,
	}
}
