package rpc

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"seatrace/core"
	"seatrace/observability/metrics"
)

const (
	jsonRPCVersion  = "2.0"
	maxRequestBytes = 1 << 20 // 1 MiB
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeServerError    = -32000
	codeUnauthorized   = -32001

	codeDuplicate    = -32021
	codeNotFound     = -32022
	codeForbidden    = -32023
	codeConflict     = -32024
	codeInconsistent = -32025
	codeInvalidValue = -32026
)

type Server struct {
	node      *core.Node
	authToken string
}

// NewServer wraps the node with the JSON-RPC transaction surface. An empty
// token disables bearer authentication; mutating methods then reject every
// request until a token is configured.
func NewServer(node *core.Node, authToken string) *Server {
	return &Server{
		node:      node,
		authToken: strings.TrimSpace(authToken),
	}
}

func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handle)
	return http.ListenAndServe(addr, mux)
}

// Handler exposes the dispatch entrypoint for tests and embedding.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.handle)
}

type RPCRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      int               `json:"id"`
}

type RPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeError(w http.ResponseWriter, status int, id interface{}, code int, message string, data interface{}) {
	if status <= 0 {
		status = http.StatusBadRequest
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	errObj := &RPCError{Code: code, Message: message}
	if data != nil {
		errObj.Data = data
	}
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Error: errObj}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result}
	_ = json.NewEncoder(w).Encode(resp)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// handle is the main request handler that routes to specific handlers.
func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	reader := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	defer func() {
		_ = reader.Close()
	}()

	w.Header().Set("Content-Type", "application/json")

	body, err := io.ReadAll(reader)
	if err != nil {
		status := http.StatusBadRequest
		message := "failed to read request body"
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			status = http.StatusRequestEntityTooLarge
			message = fmt.Sprintf("request body exceeds %d bytes", maxRequestBytes)
		}
		writeError(w, status, nil, codeInvalidRequest, message, err.Error())
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		writeError(w, http.StatusBadRequest, nil, codeInvalidRequest, "request body required", nil)
		return
	}

	req := &RPCRequest{}
	if err := json.Unmarshal(body, req); err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "invalid JSON payload", err.Error())
		return
	}
	if req.JSONRPC != "" && req.JSONRPC != jsonRPCVersion {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "unsupported jsonrpc version", req.JSONRPC)
		return
	}
	if req.Method == "" {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "method required", nil)
		return
	}

	recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	start := time.Now()
	s.dispatch(recorder, r, req)
	ledger, method, _ := strings.Cut(req.Method, "_")
	failure := 0
	if recorder.status >= 400 {
		failure = recorder.status
	}
	metrics.Ledger().Observe(ledger, method, failure, time.Since(start))
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	switch req.Method {
	case "fleet_registerVessel":
		s.authenticated(w, r, req, s.handleFleetRegisterVessel)
	case "fleet_addEquipment":
		s.authenticated(w, r, req, s.handleFleetAddEquipment)
	case "fleet_addCertification":
		s.authenticated(w, r, req, s.handleFleetAddCertification)
	case "fleet_updateVesselStatus":
		s.authenticated(w, r, req, s.handleFleetUpdateVesselStatus)
	case "fleet_updateCertificationStatus":
		s.authenticated(w, r, req, s.handleFleetUpdateCertificationStatus)
	case "fleet_transferOwnership":
		s.authenticated(w, r, req, s.handleFleetTransferOwnership)
	case "fleet_getVessel":
		s.handleFleetGetVessel(w, r, req)
	case "fleet_getEquipment":
		s.handleFleetGetEquipment(w, r, req)
	case "fleet_getCertification":
		s.handleFleetGetCertification(w, r, req)
	case "voyage_startTrip":
		s.authenticated(w, r, req, s.handleVoyageStartTrip)
	case "voyage_endTrip":
		s.authenticated(w, r, req, s.handleVoyageEndTrip)
	case "voyage_recordCatch":
		s.authenticated(w, r, req, s.handleVoyageRecordCatch)
	case "voyage_verifyCatch":
		s.authenticated(w, r, req, s.handleVoyageVerifyCatch)
	case "voyage_getTrip":
		s.handleVoyageGetTrip(w, r, req)
	case "voyage_getCatch":
		s.handleVoyageGetCatch(w, r, req)
	case "voyage_getCatchVerification":
		s.handleVoyageGetCatchVerification(w, r, req)
	case "voyage_listCatches":
		s.handleVoyageListCatches(w, r, req)
	case "processing_registerFacility":
		s.authenticated(w, r, req, s.handleProcessingRegisterFacility)
	case "processing_updateFacilityCertification":
		s.authenticated(w, r, req, s.handleProcessingUpdateFacilityCertification)
	case "processing_updateFacilityStatus":
		s.authenticated(w, r, req, s.handleProcessingUpdateFacilityStatus)
	case "processing_startBatch":
		s.authenticated(w, r, req, s.handleProcessingStartBatch)
	case "processing_completeBatch":
		s.authenticated(w, r, req, s.handleProcessingCompleteBatch)
	case "processing_recordTransfer":
		s.authenticated(w, r, req, s.handleProcessingRecordTransfer)
	case "processing_verifyTransfer":
		s.authenticated(w, r, req, s.handleProcessingVerifyTransfer)
	case "processing_getFacility":
		s.handleProcessingGetFacility(w, r, req)
	case "processing_getBatch":
		s.handleProcessingGetBatch(w, r, req)
	case "processing_getTransfer":
		s.handleProcessingGetTransfer(w, r, req)
	case "certify_createStandard":
		s.authenticated(w, r, req, s.handleCertifyCreateStandard)
	case "certify_updateStandardStatus":
		s.authenticated(w, r, req, s.handleCertifyUpdateStandardStatus)
	case "certify_issueCertification":
		s.authenticated(w, r, req, s.handleCertifyIssueCertification)
	case "certify_recordAudit":
		s.authenticated(w, r, req, s.handleCertifyRecordAudit)
	case "certify_updateCertificationStatus":
		s.authenticated(w, r, req, s.handleCertifyUpdateCertificationStatus)
	case "certify_verifyCertification":
		s.handleCertifyVerifyCertification(w, r, req)
	case "certify_getStandard":
		s.handleCertifyGetStandard(w, r, req)
	case "certify_getCertification":
		s.handleCertifyGetCertification(w, r, req)
	case "certify_getAudit":
		s.handleCertifyGetAudit(w, r, req)
	default:
		writeError(w, http.StatusNotFound, req.ID, codeMethodNotFound, fmt.Sprintf("method %s not found", req.Method), nil)
	}
}

type handlerFunc func(w http.ResponseWriter, r *http.Request, req *RPCRequest)

// authenticated guards a mutating method: it checks the bearer token and then
// holds the node's state lock for the duration of the call, so each state
// transition's read-check-write sequence is atomic with respect to other
// requests.
func (s *Server) authenticated(w http.ResponseWriter, r *http.Request, req *RPCRequest, next handlerFunc) {
	if authErr := s.requireAuth(r); authErr != nil {
		writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
		return
	}
	s.node.LockState()
	defer s.node.UnlockState()
	next(w, r, req)
}

func (s *Server) requireAuth(r *http.Request) *RPCError {
	if s.authToken == "" {
		return &RPCError{Code: codeUnauthorized, Message: "RPC authentication token not configured"}
	}
	header := r.Header.Get("Authorization")
	if header == "" {
		return &RPCError{Code: codeUnauthorized, Message: "missing Authorization header"}
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return &RPCError{Code: codeUnauthorized, Message: "Authorization header must use Bearer scheme"}
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return &RPCError{Code: codeUnauthorized, Message: "missing bearer token"}
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.authToken)) != 1 {
		return &RPCError{Code: codeUnauthorized, Message: "invalid RPC credentials"}
	}
	return nil
}

// singleParams decodes the single parameter object every ledger method takes.
func singleParams(req *RPCRequest, out interface{}) error {
	if len(req.Params) != 1 {
		return fmt.Errorf("exactly one parameter object expected")
	}
	return json.Unmarshal(req.Params[0], out)
}

func writeInvalidParams(w http.ResponseWriter, id interface{}, err error) {
	writeError(w, http.StatusBadRequest, id, codeInvalidValue, "invalid_params", err.Error())
}
