package rpc

import (
	"fmt"
	"net/http"
	"strings"

	"seatrace/native/fleet"
)

type fleetRegisterVesselParams struct {
	Caller             string `json:"caller"`
	VesselID           string `json:"vesselId"`
	Name               string `json:"name"`
	RegistrationNumber string `json:"registrationNumber"`
	VesselType         string `json:"vesselType"`
	Length             int64  `json:"length"`
	Capacity           int64  `json:"capacity"`
	HomePort           string `json:"homePort"`
	LicenseExpiry      int64  `json:"licenseExpiry"`
}

type fleetAddEquipmentParams struct {
	Caller           string `json:"caller"`
	VesselID         string `json:"vesselId"`
	EquipmentID      string `json:"equipmentId"`
	EquipmentType    string `json:"equipmentType"`
	Description      string `json:"description"`
	InstallationDate int64  `json:"installationDate"`
}

type fleetAddCertificationParams struct {
	Caller            string `json:"caller"`
	VesselID          string `json:"vesselId"`
	CertificationID   string `json:"certificationId"`
	CertificationType string `json:"certificationType"`
	Issuer            string `json:"issuer"`
	IssueDate         int64  `json:"issueDate"`
	ExpiryDate        int64  `json:"expiryDate"`
}

type fleetVesselStatusParams struct {
	Caller   string `json:"caller"`
	VesselID string `json:"vesselId"`
	Active   bool   `json:"active"`
}

type fleetCertStatusParams struct {
	Caller          string `json:"caller"`
	VesselID        string `json:"vesselId"`
	CertificationID string `json:"certificationId"`
	Status          string `json:"status"`
}

type fleetTransferParams struct {
	Caller   string `json:"caller"`
	VesselID string `json:"vesselId"`
	NewOwner string `json:"newOwner"`
}

type fleetVesselIDParams struct {
	VesselID string `json:"vesselId"`
}

type fleetEquipmentIDParams struct {
	VesselID    string `json:"vesselId"`
	EquipmentID string `json:"equipmentId"`
}

type fleetCertIDParams struct {
	VesselID        string `json:"vesselId"`
	CertificationID string `json:"certificationId"`
}

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

type equipmentJSON struct {
	VesselID         string `json:"vesselId"`
	ID               string `json:"id"`
	EquipmentType    string `json:"equipmentType"`
	Description      string `json:"description,omitempty"`
	InstallationDate int64  `json:"installationDate"`
	LastInspection   int64  `json:"lastInspection"`
	Inspector        string `json:"inspector"`
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

func formatVessel(v *fleet.Vessel) vesselJSON {
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

func formatEquipment(e *fleet.Equipment) equipmentJSON {
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

func formatVesselCert(c *fleet.VesselCertification) vesselCertJSON {
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

func requireCaller(caller string) error {
	if strings.TrimSpace(caller) == "" {
		return fmt.Errorf("caller required")
	}
	return nil
}

func (s *Server) handleFleetRegisterVessel(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params fleetRegisterVesselParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	if err := requireCaller(params.Caller); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	vessel, err := s.node.Fleet().RegisterVessel(params.Caller, &fleet.Vessel{
		ID:                 params.VesselID,
		Name:               params.Name,
		RegistrationNumber: params.RegistrationNumber,
		VesselType:         params.VesselType,
		Length:             params.Length,
		Capacity:           params.Capacity,
		HomePort:           params.HomePort,
		LicenseExpiry:      params.LicenseExpiry,
	})
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, formatVessel(vessel))
}

func (s *Server) handleFleetAddEquipment(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params fleetAddEquipmentParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	if err := requireCaller(params.Caller); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	equipment, err := s.node.Fleet().AddEquipment(params.Caller, &fleet.Equipment{
		VesselID:         params.VesselID,
		ID:               params.EquipmentID,
		EquipmentType:    params.EquipmentType,
		Description:      params.Description,
		InstallationDate: params.InstallationDate,
	})
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, formatEquipment(equipment))
}

func (s *Server) handleFleetAddCertification(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params fleetAddCertificationParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	if err := requireCaller(params.Caller); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	cert, err := s.node.Fleet().AddCertification(params.Caller, &fleet.VesselCertification{
		VesselID:          params.VesselID,
		ID:                params.CertificationID,
		CertificationType: params.CertificationType,
		Issuer:            params.Issuer,
		IssueDate:         params.IssueDate,
		ExpiryDate:        params.ExpiryDate,
	})
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, formatVesselCert(cert))
}

func (s *Server) handleFleetUpdateVesselStatus(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params fleetVesselStatusParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	if err := requireCaller(params.Caller); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	vessel, err := s.node.Fleet().UpdateVesselStatus(params.Caller, params.VesselID, params.Active)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, formatVessel(vessel))
}

func (s *Server) handleFleetUpdateCertificationStatus(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params fleetCertStatusParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	if err := requireCaller(params.Caller); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	cert, err := s.node.Fleet().UpdateCertificationStatus(params.Caller, params.VesselID, params.CertificationID, params.Status)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, formatVesselCert(cert))
}

func (s *Server) handleFleetTransferOwnership(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params fleetTransferParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	if err := requireCaller(params.Caller); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	vessel, err := s.node.Fleet().TransferOwnership(params.Caller, params.VesselID, params.NewOwner)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, formatVessel(vessel))
}

func (s *Server) handleFleetGetVessel(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params fleetVesselIDParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	vessel, ok, err := s.node.Fleet().GetVessel(params.VesselID)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	if !ok {
		writeLedgerError(w, req.ID, fleet.ErrVesselNotFound)
		return
	}
	writeResult(w, req.ID, formatVessel(vessel))
}

func (s *Server) handleFleetGetEquipment(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params fleetEquipmentIDParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	equipment, ok, err := s.node.Fleet().GetEquipment(params.VesselID, params.EquipmentID)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	if !ok {
		writeLedgerError(w, req.ID, fleet.ErrEquipmentNotFound)
		return
	}
	writeResult(w, req.ID, formatEquipment(equipment))
}

func (s *Server) handleFleetGetCertification(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params fleetCertIDParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	cert, ok, err := s.node.Fleet().GetCertification(params.VesselID, params.CertificationID)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	if !ok {
		writeLedgerError(w, req.ID, fleet.ErrCertificationNotFound)
		return
	}
	writeResult(w, req.ID, formatVesselCert(cert))
}
