package rpc

import (
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"seatrace/native/certify"
)

type certifyCreateStandardParams struct {
	Caller      string `json:"caller"`
	StandardID  string `json:"standardId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Criteria    string `json:"criteria"`
}

type certifyStandardStatusParams struct {
	Caller     string `json:"caller"`
	StandardID string `json:"standardId"`
	Active     bool   `json:"active"`
}

type certifyIssueParams struct {
	Caller          string `json:"caller"`
	CertificationID string `json:"certificationId"`
	EntityID        string `json:"entityId"`
	EntityType      string `json:"entityType"`
	StandardID      string `json:"standardId"`
	ExpiryDate      int64  `json:"expiryDate"`
	Score           int64  `json:"score"`
	EvidenceHash    string `json:"evidenceHash,omitempty"`
}

type certifyRecordAuditParams struct {
	Caller          string `json:"caller"`
	CertificationID string `json:"certificationId"`
	AuditID         string `json:"auditId"`
	Findings        string `json:"findings,omitempty"`
	Recommendation  string `json:"recommendation"`
	EvidenceHash    string `json:"evidenceHash,omitempty"`
}

type certifyCertStatusParams struct {
	Caller          string `json:"caller"`
	CertificationID string `json:"certificationId"`
	Status          string `json:"status"`
}

type certifyStandardIDParams struct {
	StandardID string `json:"standardId"`
}

type certifyCertIDParams struct {
	CertificationID string `json:"certificationId"`
}

type certifyAuditIDParams struct {
	CertificationID string `json:"certificationId"`
	AuditID         string `json:"auditId"`
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

type auditJSON struct {
	CertificationID string `json:"certificationId"`
	ID              string `json:"id"`
	Auditor         string `json:"auditor"`
	AuditDate       int64  `json:"auditDate"`
	Findings        string `json:"findings,omitempty"`
	Recommendation  string `json:"recommendation"`
	EvidenceHash    string `json:"evidenceHash"`
}

type verifyResultJSON struct {
	CertificationID string `json:"certificationId"`
	Valid           bool   `json:"valid"`
}

func formatStandard(s *certify.Standard) standardJSON {
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

func formatCertification(c *certify.Certification) certificationJSON {
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

func formatAudit(a *certify.Audit) auditJSON {
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

// parseEvidenceHash decodes an optional 32-byte hex digest. An empty string
// yields the zero hash.
func parseEvidenceHash(raw string) ([32]byte, error) {
	var out [32]byte
	trimmed := strings.TrimPrefix(strings.TrimSpace(raw), "0x")
	if trimmed == "" {
		return out, nil
	}
	decoded, err := hex.DecodeString(trimmed)
	if err != nil {
		return out, fmt.Errorf("invalid evidence hash: %w", err)
	}
	if len(decoded) != len(out) {
		return out, fmt.Errorf("evidence hash must be %d bytes", len(out))
	}
	copy(out[:], decoded)
	return out, nil
}

func (s *Server) handleCertifyCreateStandard(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params certifyCreateStandardParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	if err := requireCaller(params.Caller); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	standard, err := s.node.Certify().CreateStandard(params.Caller, params.StandardID, params.Name, params.Description, params.Criteria)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, formatStandard(standard))
}

func (s *Server) handleCertifyUpdateStandardStatus(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params certifyStandardStatusParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	if err := requireCaller(params.Caller); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	standard, err := s.node.Certify().UpdateStandardStatus(params.Caller, params.StandardID, params.Active)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, formatStandard(standard))
}

func (s *Server) handleCertifyIssueCertification(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params certifyIssueParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	if err := requireCaller(params.Caller); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	evidence, err := parseEvidenceHash(params.EvidenceHash)
	if err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	cert, err := s.node.Certify().IssueCertification(params.Caller, &certify.Certification{
		ID:           params.CertificationID,
		EntityID:     params.EntityID,
		EntityType:   params.EntityType,
		StandardID:   params.StandardID,
		ExpiryDate:   params.ExpiryDate,
		Score:        params.Score,
		EvidenceHash: evidence,
	})
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, formatCertification(cert))
}

func (s *Server) handleCertifyRecordAudit(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params certifyRecordAuditParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	if err := requireCaller(params.Caller); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	evidence, err := parseEvidenceHash(params.EvidenceHash)
	if err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	audit, err := s.node.Certify().RecordAudit(params.Caller, &certify.Audit{
		CertificationID: params.CertificationID,
		ID:              params.AuditID,
		Findings:        params.Findings,
		Recommendation:  certify.Recommendation(strings.TrimSpace(params.Recommendation)),
		EvidenceHash:    evidence,
	})
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, formatAudit(audit))
}

func (s *Server) handleCertifyUpdateCertificationStatus(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params certifyCertStatusParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	if err := requireCaller(params.Caller); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	status, err := certify.ParseCertificationStatus(params.Status)
	if err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	cert, err := s.node.Certify().UpdateCertificationStatus(params.Caller, params.CertificationID, status)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, formatCertification(cert))
}

func (s *Server) handleCertifyVerifyCertification(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params certifyCertIDParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	valid, err := s.node.Certify().VerifyCertification(params.CertificationID)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, verifyResultJSON{CertificationID: params.CertificationID, Valid: valid})
}

func (s *Server) handleCertifyGetStandard(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params certifyStandardIDParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	standard, ok, err := s.node.Certify().GetStandard(params.StandardID)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	if !ok {
		writeLedgerError(w, req.ID, certify.ErrStandardNotFound)
		return
	}
	writeResult(w, req.ID, formatStandard(standard))
}

func (s *Server) handleCertifyGetCertification(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params certifyCertIDParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	cert, ok, err := s.node.Certify().GetCertification(params.CertificationID)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	if !ok {
		writeLedgerError(w, req.ID, certify.ErrCertificationNotFound)
		return
	}
	writeResult(w, req.ID, formatCertification(cert))
}

func (s *Server) handleCertifyGetAudit(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params certifyAuditIDParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	audit, ok, err := s.node.Certify().GetAudit(params.CertificationID, params.AuditID)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	if !ok {
		writeLedgerError(w, req.ID, certify.ErrCertificationNotFound)
		return
	}
	writeResult(w, req.ID, formatAudit(audit))
}
