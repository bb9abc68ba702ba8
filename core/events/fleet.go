package events

import "seatrace/core/types"

const (
	TypeVesselRegistered           = "fleet.vessel.registered"
	TypeVesselStatusUpdated        = "fleet.vessel.status_updated"
	TypeVesselOwnershipTransferred = "fleet.vessel.ownership_transferred"
	TypeEquipmentAdded             = "fleet.equipment.added"
	TypeVesselCertAdded            = "fleet.certification.added"
	TypeVesselCertStatusUpdated    = "fleet.certification.status_updated"
)

type VesselRegistered struct {
	VesselID     string
	Owner        string
	Name         string
	RegisteredAt int64
}

func (VesselRegistered) EventType() string { return TypeVesselRegistered }

func (e VesselRegistered) Event() *types.Event {
	return &types.Event{
		Type: TypeVesselRegistered,
		Attributes: map[string]string{
			"vesselId":     e.VesselID,
			"owner":        e.Owner,
			"name":         e.Name,
			"registeredAt": intToString(e.RegisteredAt),
		},
	}
}

type VesselStatusUpdated struct {
	VesselID string
	Active   bool
}

func (VesselStatusUpdated) EventType() string { return TypeVesselStatusUpdated }

func (e VesselStatusUpdated) Event() *types.Event {
	return &types.Event{
		Type: TypeVesselStatusUpdated,
		Attributes: map[string]string{
			"vesselId": e.VesselID,
			"active":   boolToString(e.Active),
		},
	}
}

type VesselOwnershipTransferred struct {
	VesselID string
	OldOwner string
	NewOwner string
}

func (VesselOwnershipTransferred) EventType() string { return TypeVesselOwnershipTransferred }

func (e VesselOwnershipTransferred) Event() *types.Event {
	return &types.Event{
		Type: TypeVesselOwnershipTransferred,
		Attributes: map[string]string{
			"vesselId": e.VesselID,
			"oldOwner": e.OldOwner,
			"newOwner": e.NewOwner,
		},
	}
}

type EquipmentAdded struct {
	VesselID    string
	EquipmentID string
	Type        string
}

func (EquipmentAdded) EventType() string { return TypeEquipmentAdded }

func (e EquipmentAdded) Event() *types.Event {
	return &types.Event{
		Type: TypeEquipmentAdded,
		Attributes: map[string]string{
			"vesselId":      e.VesselID,
			"equipmentId":   e.EquipmentID,
			"equipmentType": e.Type,
		},
	}
}

type VesselCertAdded struct {
	VesselID        string
	CertificationID string
	Type            string
	Issuer          string
}

func (VesselCertAdded) EventType() string { return TypeVesselCertAdded }

func (e VesselCertAdded) Event() *types.Event {
	return &types.Event{
		Type: TypeVesselCertAdded,
		Attributes: map[string]string{
			"vesselId":          e.VesselID,
			"certificationId":   e.CertificationID,
			"certificationType": e.Type,
			"issuer":            e.Issuer,
		},
	}
}

type VesselCertStatusUpdated struct {
	VesselID        string
	CertificationID string
	Status          string
}

func (VesselCertStatusUpdated) EventType() string { return TypeVesselCertStatusUpdated }

func (e VesselCertStatusUpdated) Event() *types.Event {
	return &types.Event{
		Type: TypeVesselCertStatusUpdated,
		Attributes: map[string]string{
			"vesselId":        e.VesselID,
			"certificationId": e.CertificationID,
			"status":          e.Status,
		},
	}
}
