package rpc

import (
	"net/http"

	"seatrace/native/voyage"
)

type voyageStartTripParams struct {
	Caller        string `json:"caller"`
	TripID        string `json:"tripId"`
	VesselID      string `json:"vesselId"`
	DeparturePort string `json:"departurePort"`
	FishingZone   string `json:"fishingZone"`
}

type voyageEndTripParams struct {
	Caller     string `json:"caller"`
	TripID     string `json:"tripId"`
	ReturnPort string `json:"returnPort"`
}

type voyageRecordCatchParams struct {
	Caller        string `json:"caller"`
	TripID        string `json:"tripId"`
	CatchID       string `json:"catchId"`
	Species       string `json:"species"`
	Quantity      int64  `json:"quantity"`
	Unit          string `json:"unit"`
	Latitude      int64  `json:"latitude"`
	Longitude     int64  `json:"longitude"`
	FishingMethod string `json:"fishingMethod"`
	QualityGrade  string `json:"qualityGrade"`
	Notes         string `json:"notes,omitempty"`
}

type voyageVerifyCatchParams struct {
	Caller             string `json:"caller"`
	TripID             string `json:"tripId"`
	CatchID            string `json:"catchId"`
	VerificationMethod string `json:"verificationMethod"`
	Verified           bool   `json:"verified"`
	Notes              string `json:"notes,omitempty"`
}

type voyageTripIDParams struct {
	TripID string `json:"tripId"`
}

type voyageCatchIDParams struct {
	TripID  string `json:"tripId"`
	CatchID string `json:"catchId"`
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

type catchJSON struct {
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

type catchVerificationJSON struct {
	TripID             string `json:"tripId"`
	CatchID            string `json:"catchId"`
	Verifier           string `json:"verifier"`
	VerificationTime   int64  `json:"verificationTime"`
	VerificationMethod string `json:"verificationMethod"`
	Verified           bool   `json:"verified"`
	Notes              string `json:"notes,omitempty"`
}

func formatTrip(t *voyage.Trip) tripJSON {
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

func formatCatch(c *voyage.Catch) catchJSON {
	return catchJSON{
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

func formatCatchVerification(v *voyage.CatchVerification) catchVerificationJSON {
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

func (s *Server) handleVoyageStartTrip(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params voyageStartTripParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	if err := requireCaller(params.Caller); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	trip, err := s.node.Voyage().StartTrip(params.Caller, params.TripID, params.VesselID, params.DeparturePort, params.FishingZone)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, formatTrip(trip))
}

func (s *Server) handleVoyageEndTrip(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params voyageEndTripParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	if err := requireCaller(params.Caller); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	trip, err := s.node.Voyage().EndTrip(params.Caller, params.TripID, params.ReturnPort)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, formatTrip(trip))
}

func (s *Server) handleVoyageRecordCatch(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params voyageRecordCatchParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	if err := requireCaller(params.Caller); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	recorded, err := s.node.Voyage().RecordCatch(params.Caller, &voyage.Catch{
		TripID:        params.TripID,
		ID:            params.CatchID,
		Species:       params.Species,
		Quantity:      params.Quantity,
		Unit:          params.Unit,
		Location:      voyage.Location{Latitude: params.Latitude, Longitude: params.Longitude},
		FishingMethod: params.FishingMethod,
		QualityGrade:  params.QualityGrade,
		Notes:         params.Notes,
	})
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, formatCatch(recorded))
}

func (s *Server) handleVoyageVerifyCatch(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params voyageVerifyCatchParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	if err := requireCaller(params.Caller); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	verification, err := s.node.Voyage().VerifyCatch(params.Caller, params.TripID, params.CatchID, params.VerificationMethod, params.Verified, params.Notes)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, formatCatchVerification(verification))
}

func (s *Server) handleVoyageGetTrip(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params voyageTripIDParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	trip, ok, err := s.node.Voyage().GetTrip(params.TripID)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	if !ok {
		writeLedgerError(w, req.ID, voyage.ErrTripNotFound)
		return
	}
	writeResult(w, req.ID, formatTrip(trip))
}

func (s *Server) handleVoyageGetCatch(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params voyageCatchIDParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	recorded, ok, err := s.node.Voyage().GetCatch(params.TripID, params.CatchID)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	if !ok {
		writeLedgerError(w, req.ID, voyage.ErrCatchNotFound)
		return
	}
	writeResult(w, req.ID, formatCatch(recorded))
}

func (s *Server) handleVoyageGetCatchVerification(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params voyageCatchIDParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	verification, ok, err := s.node.Voyage().GetCatchVerification(params.TripID, params.CatchID)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	if !ok {
		writeLedgerError(w, req.ID, voyage.ErrCatchNotFound)
		return
	}
	writeResult(w, req.ID, formatCatchVerification(verification))
}

func (s *Server) handleVoyageListCatches(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params voyageTripIDParams
	if err := singleParams(req, &params); err != nil {
		writeInvalidParams(w, req.ID, err)
		return
	}
	if _, ok, err := s.node.Voyage().GetTrip(params.TripID); err != nil {
		writeLedgerError(w, req.ID, err)
		return
	} else if !ok {
		writeLedgerError(w, req.ID, voyage.ErrTripNotFound)
		return
	}
	ids, err := s.node.Voyage().CatchesForTrip(params.TripID)
	if err != nil {
		writeLedgerError(w, req.ID, err)
		return
	}
	catches := make([]catchJSON, 0, len(ids))
	for _, id := range ids {
		recorded, ok, err := s.node.Voyage().GetCatch(params.TripID, id)
		if err != nil {
			writeLedgerError(w, req.ID, err)
			return
		}
		if !ok {
			continue
		}
		catches = append(catches, formatCatch(recorded))
	}
	writeResult(w, req.ID, catches)
}
