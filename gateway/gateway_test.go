package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"seatrace/core"
	"seatrace/native/fleet"
	"seatrace/native/voyage"
	"seatrace/storage"
)

func newTestGateway(t *testing.T) (*Gateway, *core.Node) {
	t.Helper()
	node := core.NewNode(storage.NewMemDB())
	node.SetNowFunc(func() int64 { return 1_700_000_000 })
	return New(node), node
}

func seedVoyage(t *testing.T, node *core.Node) {
	t.Helper()
	_, err := node.Fleet().RegisterVessel("captain-ahab", &fleet.Vessel{
		ID:                 "vessel-001",
		Name:               "Pequod II",
		RegistrationNumber: "REG-001",
		VesselType:         "longliner",
		Length:             24,
		Capacity:           80,
		HomePort:           "Gloucester",
		LicenseExpiry:      1_731_536_000,
	})
	require.NoError(t, err)
	_, err = node.Voyage().StartTrip("captain-ahab", "trip-001", "vessel-001", "Gloucester", "Georges Bank")
	require.NoError(t, err)
	_, err = node.Voyage().RecordCatch("captain-ahab", &voyage.Catch{
		TripID:   "trip-001",
		ID:       "catch-001",
		Species:  "Atlantic cod",
		Quantity: 250,
		Unit:     "kg",
		Location: voyage.Location{Latitude: 41_500_000, Longitude: -67_250_000},
	})
	require.NoError(t, err)
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

func TestHealthz(t *testing.T) {
	gw, _ := newTestGateway(t)
	recorder := get(t, gw.Router(), "/healthz")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "ok", recorder.Body.String())
}

func TestGetVessel(t *testing.T) {
	gw, node := newTestGateway(t)
	seedVoyage(t, node)

	recorder := get(t, gw.Router(), "/v1/vessels/vessel-001")
	require.Equal(t, http.StatusOK, recorder.Code)

	var vessel vesselJSON
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &vessel))
	require.Equal(t, "Pequod II", vessel.Name)
	require.Equal(t, "captain-ahab", vessel.Owner)
	require.True(t, vessel.Active)
}

func TestGetVesselNotFound(t *testing.T) {
	gw, _ := newTestGateway(t)
	recorder := get(t, gw.Router(), "/v1/vessels/vessel-404")
	require.Equal(t, http.StatusNotFound, recorder.Code)

	var body errorJSON
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Equal(t, "vessel not found", body.Error)
}

func TestListCatches(t *testing.T) {
	gw, node := newTestGateway(t)
	seedVoyage(t, node)

	recorder := get(t, gw.Router(), "/v1/trips/trip-001/catches")
	require.Equal(t, http.StatusOK, recorder.Code)

	var catches []catchView
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &catches))
	require.Len(t, catches, 1)
	require.Equal(t, "catch-001", catches[0].ID)
	require.Equal(t, int64(-67_250_000), catches[0].Longitude)
}

func TestGetCatch(t *testing.T) {
	gw, node := newTestGateway(t)
	seedVoyage(t, node)

	recorder := get(t, gw.Router(), "/v1/trips/trip-001/catches/catch-001")
	require.Equal(t, http.StatusOK, recorder.Code)

	var recorded catchView
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &recorded))
	require.Equal(t, int64(250), recorded.Quantity)
	require.Equal(t, int64(1_700_000_000), recorded.CatchTime)
}

func TestVerifyCertificationEndpoint(t *testing.T) {
	gw, node := newTestGateway(t)
	_, err := node.Certify().CreateStandard("council-a", "standard-001", "Sustainable Catch Standard", "", "Stock health")
	require.NoError(t, err)

	recorder := get(t, gw.Router(), "/v1/certifications/cert-404/verify")
	require.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestRecentActivity(t *testing.T) {
	gw, node := newTestGateway(t)
	seedVoyage(t, node)

	recorder := get(t, gw.Router(), "/v1/activity")
	require.Equal(t, http.StatusOK, recorder.Code)

	var feed []activityView
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &feed))
	require.NotEmpty(t, feed)

	types := make([]string, 0, len(feed))
	for _, entry := range feed {
		types = append(types, entry.Type)
	}
	require.Contains(t, types, "fleet.vessel.registered")
	require.Contains(t, types, "voyage.trip.started")
	require.Contains(t, types, "voyage.catch.recorded")
}
