package gateway

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"seatrace/core"
	"seatrace/observability/metrics"
)

// Gateway serves the read-only REST surface over the node. Writes go through
// the JSON-RPC server; the gateway only renders recorded state.
type Gateway struct {
	node *core.Node
}

func New(node *core.Node) *Gateway {
	return &Gateway{node: node}
}

// Router assembles the chi route tree.
func (g *Gateway) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(observe)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(v1 chi.Router) {
		v1.Get("/vessels/{vesselID}", g.getVessel)
		v1.Get("/vessels/{vesselID}/equipment/{equipmentID}", g.getEquipment)
		v1.Get("/vessels/{vesselID}/certifications/{certificationID}", g.getVesselCertification)
		v1.Get("/trips/{tripID}", g.getTrip)
		v1.Get("/trips/{tripID}/catches", g.listCatches)
		v1.Get("/trips/{tripID}/catches/{catchID}", g.getCatch)
		v1.Get("/trips/{tripID}/catches/{catchID}/verification", g.getCatchVerification)
		v1.Get("/facilities/{facilityID}", g.getFacility)
		v1.Get("/batches/{batchID}", g.getBatch)
		v1.Get("/transfers/{transferID}", g.getTransfer)
		v1.Get("/standards/{standardID}", g.getStandard)
		v1.Get("/certifications/{certificationID}", g.getCertification)
		v1.Get("/certifications/{certificationID}/verify", g.verifyCertification)
		v1.Get("/certifications/{certificationID}/audits/{auditID}", g.getAudit)
		v1.Get("/activity", g.recentActivity)
	})
	return r
}

// Start serves the gateway on the provided address.
func (g *Gateway) Start(addr string) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      g.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	return server.ListenAndServe()
}

func observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(recorder, r)
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		metrics.Gateway().Observe(route, recorder.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

type errorJSON struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeNotFound(w http.ResponseWriter, what string) {
	writeJSON(w, http.StatusNotFound, errorJSON{Error: what + " not found"})
}

func writeLookupError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, errorJSON{Error: err.Error()})
}

func (g *Gateway) getVessel(w http.ResponseWriter, r *http.Request) {
	vessel, ok, err := g.node.Fleet().GetVessel(chi.URLParam(r, "vesselID"))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	if !ok {
		writeNotFound(w, "vessel")
		return
	}
	writeJSON(w, http.StatusOK, vesselView(vessel))
}

func (g *Gateway) getEquipment(w http.ResponseWriter, r *http.Request) {
	equipment, ok, err := g.node.Fleet().GetEquipment(chi.URLParam(r, "vesselID"), chi.URLParam(r, "equipmentID"))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	if !ok {
		writeNotFound(w, "equipment")
		return
	}
	writeJSON(w, http.StatusOK, equipmentView(equipment))
}

func (g *Gateway) getVesselCertification(w http.ResponseWriter, r *http.Request) {
	cert, ok, err := g.node.Fleet().GetCertification(chi.URLParam(r, "vesselID"), chi.URLParam(r, "certificationID"))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	if !ok {
		writeNotFound(w, "certification")
		return
	}
	writeJSON(w, http.StatusOK, vesselCertView(cert))
}

func (g *Gateway) getTrip(w http.ResponseWriter, r *http.Request) {
	trip, ok, err := g.node.Voyage().GetTrip(chi.URLParam(r, "tripID"))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	if !ok {
		writeNotFound(w, "trip")
		return
	}
	writeJSON(w, http.StatusOK, tripView(trip))
}

func (g *Gateway) listCatches(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	if _, ok, err := g.node.Voyage().GetTrip(tripID); err != nil {
		writeLookupError(w, err)
		return
	} else if !ok {
		writeNotFound(w, "trip")
		return
	}
	ids, err := g.node.Voyage().CatchesForTrip(tripID)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	views := make([]catchView, 0, len(ids))
	for _, id := range ids {
		recorded, ok, err := g.node.Voyage().GetCatch(tripID, id)
		if err != nil {
			writeLookupError(w, err)
			return
		}
		if !ok {
			continue
		}
		views = append(views, newCatchView(recorded))
	}
	writeJSON(w, http.StatusOK, views)
}

func (g *Gateway) getCatch(w http.ResponseWriter, r *http.Request) {
	recorded, ok, err := g.node.Voyage().GetCatch(chi.URLParam(r, "tripID"), chi.URLParam(r, "catchID"))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	if !ok {
		writeNotFound(w, "catch")
		return
	}
	writeJSON(w, http.StatusOK, newCatchView(recorded))
}

func (g *Gateway) getCatchVerification(w http.ResponseWriter, r *http.Request) {
	verification, ok, err := g.node.Voyage().GetCatchVerification(chi.URLParam(r, "tripID"), chi.URLParam(r, "catchID"))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	if !ok {
		writeNotFound(w, "verification")
		return
	}
	writeJSON(w, http.StatusOK, catchVerificationView(verification))
}

func (g *Gateway) getFacility(w http.ResponseWriter, r *http.Request) {
	facility, ok, err := g.node.Processing().GetFacility(chi.URLParam(r, "facilityID"))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	if !ok {
		writeNotFound(w, "facility")
		return
	}
	writeJSON(w, http.StatusOK, facilityView(facility))
}

func (g *Gateway) getBatch(w http.ResponseWriter, r *http.Request) {
	batch, ok, err := g.node.Processing().GetBatch(chi.URLParam(r, "batchID"))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	if !ok {
		writeNotFound(w, "batch")
		return
	}
	writeJSON(w, http.StatusOK, batchView(batch))
}

func (g *Gateway) getTransfer(w http.ResponseWriter, r *http.Request) {
	transfer, ok, err := g.node.Processing().GetTransfer(chi.URLParam(r, "transferID"))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	if !ok {
		writeNotFound(w, "transfer")
		return
	}
	writeJSON(w, http.StatusOK, transferView(transfer))
}

func (g *Gateway) getStandard(w http.ResponseWriter, r *http.Request) {
	standard, ok, err := g.node.Certify().GetStandard(chi.URLParam(r, "standardID"))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	if !ok {
		writeNotFound(w, "standard")
		return
	}
	writeJSON(w, http.StatusOK, standardView(standard))
}

func (g *Gateway) getCertification(w http.ResponseWriter, r *http.Request) {
	cert, ok, err := g.node.Certify().GetCertification(chi.URLParam(r, "certificationID"))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	if !ok {
		writeNotFound(w, "certification")
		return
	}
	writeJSON(w, http.StatusOK, certificationView(cert))
}

func (g *Gateway) verifyCertification(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "certificationID")
	valid, err := g.node.Certify().VerifyCertification(id)
	if err != nil {
		if _, ok, lookupErr := g.node.Certify().GetCertification(id); lookupErr == nil && !ok {
			writeNotFound(w, "certification")
			return
		}
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, verifyView{CertificationID: id, Valid: valid})
}

func (g *Gateway) getAudit(w http.ResponseWriter, r *http.Request) {
	audit, ok, err := g.node.Certify().GetAudit(chi.URLParam(r, "certificationID"), chi.URLParam(r, "auditID"))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	if !ok {
		writeNotFound(w, "audit")
		return
	}
	writeJSON(w, http.StatusOK, auditView(audit))
}

type activityView struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

func (g *Gateway) recentActivity(w http.ResponseWriter, r *http.Request) {
	buffered := g.node.Events().Events()
	views := make([]activityView, 0, len(buffered))
	for _, evt := range buffered {
		views = append(views, activityView{Type: evt.Type, Attributes: evt.Attributes})
	}
	writeJSON(w, http.StatusOK, views)
}
