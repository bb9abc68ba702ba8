package events

import "seatrace/core/types"

const (
	TypeStandardCreated       = "certify.standard.created"
	TypeStandardStatusUpdated = "certify.standard.status_updated"
	TypeCertificationIssued   = "certify.certification.issued"
	TypeCertificationStatus   = "certify.certification.status_updated"
	TypeAuditRecorded         = "certify.audit.recorded"
)

type StandardCreated struct {
	StandardID string
	Name       string
	CreatedBy  string
	CreatedAt  int64
}

func (StandardCreated) EventType() string { return TypeStandardCreated }

func (e StandardCreated) Event() *types.Event {
	return &types.Event{
		Type: TypeStandardCreated,
		Attributes: map[string]string{
			"standardId": e.StandardID,
			"name":       e.Name,
			"createdBy":  e.CreatedBy,
			"createdAt":  intToString(e.CreatedAt),
		},
	}
}

type StandardStatusUpdated struct {
	StandardID string
	Active     bool
}

func (StandardStatusUpdated) EventType() string { return TypeStandardStatusUpdated }

func (e StandardStatusUpdated) Event() *types.Event {
	return &types.Event{
		Type: TypeStandardStatusUpdated,
		Attributes: map[string]string{
			"standardId": e.StandardID,
			"active":     boolToString(e.Active),
		},
	}
}

type CertificationIssued struct {
	CertificationID string
	EntityID        string
	EntityType      string
	StandardID      string
	Issuer          string
	ExpiryDate      int64
	EvidenceHash    [32]byte
}

func (CertificationIssued) EventType() string { return TypeCertificationIssued }

func (e CertificationIssued) Event() *types.Event {
	return &types.Event{
		Type: TypeCertificationIssued,
		Attributes: map[string]string{
			"certificationId": e.CertificationID,
			"entityId":        e.EntityID,
			"entityType":      e.EntityType,
			"standardId":      e.StandardID,
			"issuer":          e.Issuer,
			"expiryDate":      intToString(e.ExpiryDate),
			"evidenceHash":    hashToString(e.EvidenceHash),
		},
	}
}

type CertificationStatusUpdated struct {
	CertificationID string
	Status          string
}

func (CertificationStatusUpdated) EventType() string { return TypeCertificationStatus }

func (e CertificationStatusUpdated) Event() *types.Event {
	return &types.Event{
		Type: TypeCertificationStatus,
		Attributes: map[string]string{
			"certificationId": e.CertificationID,
			"status":          e.Status,
		},
	}
}

type AuditRecorded struct {
	CertificationID string
	AuditID         string
	Auditor         string
	Recommendation  string
	EvidenceHash    [32]byte
}

func (AuditRecorded) EventType() string { return TypeAuditRecorded }

func (e AuditRecorded) Event() *types.Event {
	return &types.Event{
		Type: TypeAuditRecorded,
		Attributes: map[string]string{
			"certificationId": e.CertificationID,
			"auditId":         e.AuditID,
			"auditor":         e.Auditor,
			"recommendation":  e.Recommendation,
			"evidenceHash":    hashToString(e.EvidenceHash),
		},
	}
}
