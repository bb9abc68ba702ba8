package events

import "seatrace/core/types"

const (
	TypeFacilityRegistered  = "processing.facility.registered"
	TypeFacilityCertUpdated = "processing.facility.certification_updated"
	TypeFacilityStatus      = "processing.facility.status_updated"
	TypeBatchStarted        = "processing.batch.started"
	TypeBatchCompleted      = "processing.batch.completed"
	TypeTransferRecorded    = "processing.transfer.recorded"
	TypeTransferVerified    = "processing.transfer.verified"
)

type FacilityRegistered struct {
	FacilityID   string
	Owner        string
	Name         string
	RegisteredAt int64
}

func (FacilityRegistered) EventType() string { return TypeFacilityRegistered }

func (e FacilityRegistered) Event() *types.Event {
	return &types.Event{
		Type: TypeFacilityRegistered,
		Attributes: map[string]string{
			"facilityId":   e.FacilityID,
			"owner":        e.Owner,
			"name":         e.Name,
			"registeredAt": intToString(e.RegisteredAt),
		},
	}
}

type FacilityCertUpdated struct {
	FacilityID          string
	CertificationStatus string
}

func (FacilityCertUpdated) EventType() string { return TypeFacilityCertUpdated }

func (e FacilityCertUpdated) Event() *types.Event {
	return &types.Event{
		Type: TypeFacilityCertUpdated,
		Attributes: map[string]string{
			"facilityId":          e.FacilityID,
			"certificationStatus": e.CertificationStatus,
		},
	}
}

type FacilityStatusUpdated struct {
	FacilityID string
	Active     bool
}

func (FacilityStatusUpdated) EventType() string { return TypeFacilityStatus }

func (e FacilityStatusUpdated) Event() *types.Event {
	return &types.Event{
		Type: TypeFacilityStatus,
		Attributes: map[string]string{
			"facilityId": e.FacilityID,
			"active":     boolToString(e.Active),
		},
	}
}

type BatchStarted struct {
	BatchID    string
	FacilityID string
	Catches    int64
	Trips      int64
	StartedAt  int64
}

func (BatchStarted) EventType() string { return TypeBatchStarted }

func (e BatchStarted) Event() *types.Event {
	return &types.Event{
		Type: TypeBatchStarted,
		Attributes: map[string]string{
			"batchId":    e.BatchID,
			"facilityId": e.FacilityID,
			"catches":    intToString(e.Catches),
			"trips":      intToString(e.Trips),
			"startedAt":  intToString(e.StartedAt),
		},
	}
}

type BatchCompleted struct {
	BatchID        string
	OutputQuantity int64
	OutputUnit     string
	QualityGrade   string
	CompletedAt    int64
}

func (BatchCompleted) EventType() string { return TypeBatchCompleted }

func (e BatchCompleted) Event() *types.Event {
	return &types.Event{
		Type: TypeBatchCompleted,
		Attributes: map[string]string{
			"batchId":        e.BatchID,
			"outputQuantity": intToString(e.OutputQuantity),
			"outputUnit":     e.OutputUnit,
			"qualityGrade":   e.QualityGrade,
			"completedAt":    intToString(e.CompletedAt),
		},
	}
}

type TransferRecorded struct {
	TransferID string
	BatchID    string
	FromEntity string
	ToEntity   string
	RecordedAt int64
}

func (TransferRecorded) EventType() string { return TypeTransferRecorded }

func (e TransferRecorded) Event() *types.Event {
	return &types.Event{
		Type: TypeTransferRecorded,
		Attributes: map[string]string{
			"transferId": e.TransferID,
			"batchId":    e.BatchID,
			"fromEntity": e.FromEntity,
			"toEntity":   e.ToEntity,
			"recordedAt": intToString(e.RecordedAt),
		},
	}
}

type TransferVerified struct {
	TransferID string
	VerifiedBy string
	VerifiedAt int64
}

func (TransferVerified) EventType() string { return TypeTransferVerified }

func (e TransferVerified) Event() *types.Event {
	return &types.Event{
		Type: TypeTransferVerified,
		Attributes: map[string]string{
			"transferId": e.TransferID,
			"verifiedBy": e.VerifiedBy,
			"verifiedAt": intToString(e.VerifiedAt),
		},
	}
}
