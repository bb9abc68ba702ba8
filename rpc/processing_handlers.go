package rpc

import (
	"net/http"

	"seatrace/native/processing"
)

type processingRegisterFacilityParams struct {
	Caller     string `json:"caller"`
	FacilityID string `json:"facilityId"`
	Name       string `json:"name"`
	Location   string `json:"location"`
}

type processingFacilityCertParams struct {
	Caller              string `json:"caller"`
	FacilityID          string `json:"facilityId"`
	CertificationStatus string `json:"certificationStatus"`
}

type processingFacilityStatusParams struct {
	Caller     string `json:"caller"`
	FacilityID string `json:"facilityId"`
	Active     bool   `json:"active"`
}

type processingStartBatchParams struct {
	Caller         string   `json:"caller"`
	BatchID        string   `json:"batchId"`
	FacilityID     string   `json:"facilityId"`
	InputCatchIDs  []string `json:"inputCatchIds"`
	InputTripIDs   []string `json:"inputTripIds"`
	ProcessingType string   `json:"processingType"`
}

type processingCompleteBatchParams struct {
	Caller         string `json:"caller"`
	BatchID        string `json:"batchId"`
	OutputQuantity int64  `json:"outputQuantity"`
	OutputUnit     string `json:"outputUnit"`
	QualityGrade   string `json:"qualityGrade"`
}

type processingRecordTransferParams struct {
	Caller              string `json:"caller"`
	TransferID          string `json:"transferId"`
	BatchID             string `json:"batchId"`
	ToEntity            string `json:"toEntity"`
	TransportMethod     string `json:"transportMethod"`
	TransportConditions string `json:"transportConditions,omitempty"`
}

type processingTransferActionParams struct {
	Caller     string `json:"caller"`
	TransferID string `json:"transferId"`
}

type processingFacilityIDParams struct {
	FacilityID string `json:"facilityId"`
}

type processingBatchIDParams struct {
	BatchID string `json:"batchId"`
}

type processingTransferIDParams struct {
	TransferID string `json:"transferId"`
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

func formatFacility(f *processing.Facility) facilityJSON {
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

func formatBatch(b *processing.Batch) batchJSON {
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

func formatTransfer(t *processing.Transfer) transferJSON {
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

func (s *Server) handleProcessingRegisterFacility(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params processingRegisterFacilityParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	if err := requireCaller(params.Caller); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	facility, err := s.node.Processing().RegisterFacility(params.Caller, params.FacilityID, params.Name, params.Location)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, formatFacility(facility))
}

func (s *Server) handleProcessingUpdateFacilityCertification(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params processingFacilityCertParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	if err := requireCaller(params.Caller); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	facility, err := s.node.Processing().UpdateFacilityCertification(params.Caller, params.FacilityID, params.CertificationStatus)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, formatFacility(facility))
}

func (s *Server) handleProcessingUpdateFacilityStatus(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params processingFacilityStatusParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	if err := requireCaller(params.Caller); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	facility, err := s.node.Processing().UpdateFacilityStatus(params.Caller, params.FacilityID, params.Active)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, formatFacility(facility))
}

func (s *Server) handleProcessingStartBatch(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params processingStartBatchParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	if err := requireCaller(params.Caller); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	batch, err := s.node.Processing().StartBatch(params.Caller, &processing.Batch{
		ID:             params.BatchID,
		FacilityID:     params.FacilityID,
		InputCatchIDs:  params.InputCatchIDs,
		InputTripIDs:   params.InputTripIDs,
		ProcessingType: params.ProcessingType,
	})
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, formatBatch(batch))
}

func (s *Server) handleProcessingCompleteBatch(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params processingCompleteBatchParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	if err := requireCaller(params.Caller); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	batch, err := s.node.Processing().CompleteBatch(params.Caller, params.BatchID, params.OutputQuantity, params.OutputUnit, params.QualityGrade)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, formatBatch(batch))
}

func (s *Server) handleProcessingRecordTransfer(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params processingRecordTransferParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	if err := requireCaller(params.Caller); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	transfer, err := s.node.Processing().RecordTransfer(params.Caller, &processing.Transfer{
		ID:                  params.TransferID,
		BatchID:             params.BatchID,
		ToEntity:            params.ToEntity,
		TransportMethod:     params.TransportMethod,
		TransportConditions: params.TransportConditions,
	})
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, formatTransfer(transfer))
}

func (s *Server) handleProcessingVerifyTransfer(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params processingTransferActionParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	if err := requireCaller(params.Caller); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	transfer, err := s.node.Processing().VerifyTransfer(params.Caller, params.TransferID)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, formatTransfer(transfer))
}

func (s *Server) handleProcessingGetFacility(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params processingFacilityIDParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	facility, ok, err := s.node.Processing().GetFacility(params.FacilityID)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	if !ok {
		writeLedgerError(w, req.ID, processing.ErrFacilityNotFound)
		return
	}
	writeResult(w, req.ID, formatFacility(facility))
}

func (s *Server) handleProcessingGetBatch(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params processingBatchIDParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	batch, ok, err := s.node.Processing().GetBatch(params.BatchID)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	if !ok {
		writeLedgerError(w, req.ID, processing.ErrBatchNotFound)
		return
	}
	writeResult(w, req.ID, formatBatch(batch))
}

func (s *Server) handleProcessingGetTransfer(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params processingTransferIDParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	transfer, ok, err := s.node.Processing().GetTransfer(params.TransferID)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	if !ok {
		writeLedgerError(w, req.ID, processing.ErrTransferNotFound)
		return
	}
	writeResult(w, req.ID, formatTransfer(transfer))
}
