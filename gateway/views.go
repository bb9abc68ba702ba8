package gateway

import (
	"encoding/hex"

	"seatrace/native/certify"
	"seatrace/native/fleet"
	"seatrace/native/processing"
	"seatrace/native/voyage"
)

type vesselJSON struct {
	ID                 string `json:"id"`
	Owner              string `json:"owner"`
	Name               string `json:"name"`
	RegistrationNumber string `json:"registrationNumber"`
	VesselType         string `json:"vesselType"`
	Length             int64  `json:"length"`
	Capacity           int64  `json:"capacity"`
	HomePort           string `json:"homePort"`
	RegistrationDate   int64  `json:"registrationDate"`
	LicenseExpiry      int64  `json:"licenseExpiry"`
	Active             bool   `json:"active"`
}

func vesselView(v *fleet.Vessel) vesselJSON {
	return vesselJSON{
		ID:                 v.ID,
		Owner:              v.Owner,
		Name:               v.Name,
		RegistrationNumber: v.RegistrationNumber,
		VesselType:         v.VesselType,
		Length:             v.Length,
		Capacity:           v.Capacity,
		HomePort:           v.HomePort,
		RegistrationDate:   v.RegistrationDate,
		LicenseExpiry:      v.LicenseExpiry,
		Active:             v.Active,
	}
}

type equipmentJSON struct {
	VesselID         string `json:"vesselId"`
	ID               string `json:"id"`
	EquipmentType    string `json:"equipmentType"`
	Description      string `json:"description,omitempty"`
	InstallationDate int64  `json:"installationDate"`
	LastInspection   int64  `json:"lastInspection"`
	Inspector        string `json:"inspector"`
}

func equipmentView(e *fleet.Equipment) equipmentJSON {
	return equipmentJSON{
		VesselID:         e.VesselID,
		ID:               e.ID,
		EquipmentType:    e.EquipmentType,
		Description:      e.Description,
		InstallationDate: e.InstallationDate,
		LastInspection:   e.LastInspection,
		Inspector:        e.Inspector,
	}
}

type vesselCertJSON struct {
	VesselID          string `json:"vesselId"`
	ID                string `json:"id"`
	CertificationType string `json:"certificationType"`
	Issuer            string `json:"issuer"`
	IssueDate         int64  `json:"issueDate"`
	ExpiryDate        int64  `json:"expiryDate"`
	Status            string `json:"status"`
}

func vesselCertView(c *fleet.VesselCertification) vesselCertJSON {
	return vesselCertJSON{
		VesselID:          c.VesselID,
		ID:                c.ID,
		CertificationType: c.CertificationType,
		Issuer:            c.Issuer,
		IssueDate:         c.IssueDate,
		ExpiryDate:        c.ExpiryDate,
		Status:            c.Status,
	}
}

type tripJSON struct {
	ID            string `json:"id"`
	VesselID      string `json:"vesselId"`
	Captain       string `json:"captain"`
	DeparturePort string `json:"departurePort"`
	ReturnPort    string `json:"returnPort,omitempty"`
	FishingZone   string `json:"fishingZone"`
	DepartureTime int64  `json:"departureTime"`
	ReturnTime    int64  `json:"returnTime,omitempty"`
	Status        string `json:"status"`
}

func tripView(t *voyage.Trip) tripJSON {
	return tripJSON{
		ID:            t.ID,
		VesselID:      t.VesselID,
		Captain:       t.Captain,
		DeparturePort: t.DeparturePort,
		ReturnPort:    t.ReturnPort,
		FishingZone:   t.FishingZone,
		DepartureTime: t.DepartureTime,
		ReturnTime:    t.ReturnTime,
		Status:        t.Status.String(),
	}
}

type catchView struct {
	TripID        string `json:"tripId"`
	ID            string `json:"id"`
	Species       string `json:"species"`
	Quantity      int64  `json:"quantity"`
	Unit          string `json:"unit"`
	Latitude      int64  `json:"latitude"`
	Longitude     int64  `json:"longitude"`
	CatchTime     int64  `json:"catchTime"`
	FishingMethod string `json:"fishingMethod"`
	QualityGrade  string `json:"qualityGrade"`
	Notes         string `json:"notes,omitempty"`
}

func newCatchView(c *voyage.Catch) catchView {
	return catchView{
		TripID:        c.TripID,
		ID:            c.ID,
		Species:       c.Species,
		Quantity:      c.Quantity,
		Unit:          c.Unit,
		Latitude:      c.Location.Latitude,
		Longitude:     c.Location.Longitude,
		CatchTime:     c.CatchTime,
		FishingMethod: c.FishingMethod,
		QualityGrade:  c.QualityGrade,
		Notes:         c.Notes,
	}
}

type catchVerificationJSON struct {
	TripID             string `json:"tripId"`
	CatchID            string `json:"catchId"`
	Verifier           string `json:"verifier"`
	VerificationTime   int64  `json:"verificationTime"`
	VerificationMethod string `json:"verificationMethod"`
	Verified           bool   `json:"verified"`
	Notes              string `json:"notes,omitempty"`
}

func catchVerificationView(v *voyage.CatchVerification) catchVerificationJSON {
	return catchVerificationJSON{
		TripID:             v.TripID,
		CatchID:            v.CatchID,
		Verifier:           v.Verifier,
		VerificationTime:   v.VerificationTime,
		VerificationMethod: v.VerificationMethod,
		Verified:           v.Verified,
		Notes:              v.Notes,
	}
}

type facilityJSON struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Location            string `json:"location"`
	Owner               string `json:"owner"`
	RegistrationDate    int64  `json:"registrationDate"`
	CertificationStatus string `json:"certificationStatus"`
	Active              bool   `json:"active"`
}

func facilityView(f *processing.Facility) facilityJSON {
	return facilityJSON{
		ID:                  f.ID,
		Name:                f.Name,
		Location:            f.Location,
		Owner:               f.Owner,
		RegistrationDate:    f.RegistrationDate,
		CertificationStatus: f.CertificationStatus,
		Active:              f.Active,
	}
}

type batchJSON struct {
	ID             string   `json:"id"`
	FacilityID     string   `json:"facilityId"`
	InputCatchIDs  []string `json:"inputCatchIds"`
	InputTripIDs   []string `json:"inputTripIds"`
	ProcessingType string   `json:"processingType"`
	StartTime      int64    `json:"startTime"`
	EndTime        int64    `json:"endTime,omitempty"`
	OutputQuantity int64    `json:"outputQuantity,omitempty"`
	OutputUnit     string   `json:"outputUnit,omitempty"`
	QualityGrade   string   `json:"qualityGrade,omitempty"`
	Status         string   `json:"status"`
}

func batchView(b *processing.Batch) batchJSON {
	return batchJSON{
		ID:             b.ID,
		FacilityID:     b.FacilityID,
		InputCatchIDs:  b.InputCatchIDs,
		InputTripIDs:   b.InputTripIDs,
		ProcessingType: b.ProcessingType,
		StartTime:      b.StartTime,
		EndTime:        b.EndTime,
		OutputQuantity: b.OutputQuantity,
		OutputUnit:     b.OutputUnit,
		QualityGrade:   b.QualityGrade,
		Status:         b.Status.String(),
	}
}

type transferJSON struct {
	ID                  string `json:"id"`
	BatchID             string `json:"batchId"`
	FromEntity          string `json:"fromEntity"`
	ToEntity            string `json:"toEntity"`
	TransferTime        int64  `json:"transferTime"`
	TransportMethod     string `json:"transportMethod"`
	TransportConditions string `json:"transportConditions,omitempty"`
	VerifiedBy          string `json:"verifiedBy,omitempty"`
	VerificationTime    int64  `json:"verificationTime,omitempty"`
	Status              string `json:"status"`
}

func transferView(t *processing.Transfer) transferJSON {
	return transferJSON{
		ID:                  t.ID,
		BatchID:             t.BatchID,
		FromEntity:          t.FromEntity,
		ToEntity:            t.ToEntity,
		TransferTime:        t.TransferTime,
		TransportMethod:     t.TransportMethod,
		TransportConditions: t.TransportConditions,
		VerifiedBy:          t.VerifiedBy,
		VerificationTime:    t.VerificationTime,
		Status:              t.Status.String(),
	}
}

type standardJSON struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Criteria     string `json:"criteria"`
	CreatedBy    string `json:"createdBy"`
	CreationDate int64  `json:"creationDate"`
	Active       bool   `json:"active"`
}

func standardView(s *certify.Standard) standardJSON {
	return standardJSON{
		ID:           s.ID,
		Name:         s.Name,
		Description:  s.Description,
		Criteria:     s.Criteria,
		CreatedBy:    s.CreatedBy,
		CreationDate: s.CreationDate,
		Active:       s.Active,
	}
}

type certificationJSON struct {
	ID           string `json:"id"`
	EntityID     string `json:"entityId"`
	EntityType   string `json:"entityType"`
	StandardID   string `json:"standardId"`
	IssueDate    int64  `json:"issueDate"`
	ExpiryDate   int64  `json:"expiryDate"`
	Issuer       string `json:"issuer"`
	Status       string `json:"status"`
	Score        int64  `json:"score"`
	EvidenceHash string `json:"evidenceHash"`
}

func certificationView(c *certify.Certification) certificationJSON {
	return certificationJSON{
		ID:           c.ID,
		EntityID:     c.EntityID,
		EntityType:   c.EntityType,
		StandardID:   c.StandardID,
		IssueDate:    c.IssueDate,
		ExpiryDate:   c.ExpiryDate,
		Issuer:       c.Issuer,
		Status:       c.Status.String(),
		Score:        c.Score,
		EvidenceHash: "0x" + hex.EncodeToString(c.EvidenceHash[:]),
	}
}

type auditJSON struct {
	CertificationID string `json:"certificationId"`
	ID              string `json:"id"`
	Auditor         string `json:"auditor"`
	AuditDate       int64  `json:"auditDate"`
	Findings        string `json:"findings,omitempty"`
	Recommendation  string `json:"recommendation"`
	EvidenceHash    string `json:"evidenceHash"`
}

func auditView(a *certify.Audit) auditJSON {
	return auditJSON{
		CertificationID: a.CertificationID,
		ID:              a.ID,
		Auditor:         a.Auditor,
		AuditDate:       a.AuditDate,
		Findings:        a.Findings,
		Recommendation:  string(a.Recommendation),
		EvidenceHash:    "0x" + hex.EncodeToString(a.EvidenceHash[:]),
	}
}

type verifyView struct {
	CertificationID string `json:"certificationId"`
	Valid           bool   `json:"valid"`
}
