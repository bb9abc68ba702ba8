package rpc

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"seatrace/core"
	"seatrace/storage"
)

const testToken = "unit-test-token"

type testEnv struct {
	server *Server
	node   *core.Node
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	node := core.NewNode(storage.NewMemDB())
	node.SetNowFunc(func() int64 { return 1_700_000_000 })
	return &testEnv{server: NewServer(node, testToken), node: node}
}

func (env *testEnv) call(t *testing.T, authed bool, method string, params interface{}) (*httptest.ResponseRecorder, RPCResponse) {
	t.Helper()
	body := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
	}
	if params != nil {
		body["params"] = []interface{}{params}
	}
	encoded, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(encoded))
	if authed {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	recorder := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(recorder, req)

	var resp RPCResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	return recorder, resp
}

func (env *testEnv) registerVessel(t *testing.T) {
	t.Helper()
	_, resp := env.call(t, true, "fleet_registerVessel", map[string]interface{}{
		"caller":             "captain-ahab",
		"vesselId":           "vessel-001",
		"name":               "Pequod II",
		"registrationNumber": "REG-001",
		"vesselType":         "longliner",
		"length":             24,
		"capacity":           80,
		"homePort":           "Gloucester",
		"licenseExpiry":      1_731_536_000,
	})
	require.Nil(t, resp.Error)
}

func TestRegisterVesselRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	env.registerVessel(t)

	recorder, resp := env.call(t, false, "fleet_getVessel", map[string]interface{}{"vesselId": "vessel-001"})
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Nil(t, resp.Error)

	var vessel vesselJSON
	raw, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &vessel))
	require.Equal(t, "captain-ahab", vessel.Owner)
	require.Equal(t, int64(1_700_000_000), vessel.RegistrationDate)
	require.True(t, vessel.Active)
}

func TestMutatingMethodsRequireAuth(t *testing.T) {
	env := newTestEnv(t)
	recorder, resp := env.call(t, false, "fleet_registerVessel", map[string]interface{}{
		"caller":   "captain-ahab",
		"vesselId": "vessel-001",
	})
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
	require.NotNil(t, resp.Error)
	require.Equal(t, codeUnauthorized, resp.Error.Code)
}

func TestReadsSkipAuth(t *testing.T) {
	env := newTestEnv(t)
	recorder, resp := env.call(t, false, "fleet_getVessel", map[string]interface{}{"vesselId": "vessel-404"})
	require.Equal(t, http.StatusNotFound, recorder.Code)
	require.NotNil(t, resp.Error)
	require.Equal(t, codeNotFound, resp.Error.Code)
	require.Equal(t, "not_found", resp.Error.Message)
}

func TestMethodNotFound(t *testing.T) {
	env := newTestEnv(t)
	recorder, resp := env.call(t, false, "fleet_scuttleVessel", map[string]interface{}{})
	require.Equal(t, http.StatusNotFound, recorder.Code)
	require.NotNil(t, resp.Error)
	require.Equal(t, codeMethodNotFound, resp.Error.Code)
}

func TestInvalidJSONPayload(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{not json")))
	recorder := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(recorder, req)

	var resp RPCResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	require.Equal(t, codeParseError, resp.Error.Code)
}

func TestDuplicateVesselMapsToConflict(t *testing.T) {
	env := newTestEnv(t)
	env.registerVessel(t)

	recorder, resp := env.call(t, true, "fleet_registerVessel", map[string]interface{}{
		"caller":             "someone-else",
		"vesselId":           "vessel-001",
		"name":               "Imposter",
		"registrationNumber": "REG-002",
		"vesselType":         "trawler",
		"length":             10,
		"capacity":           5,
		"homePort":           "Salem",
		"licenseExpiry":      1_731_536_000,
	})
	require.Equal(t, http.StatusConflict, recorder.Code)
	require.NotNil(t, resp.Error)
	require.Equal(t, codeDuplicate, resp.Error.Code)
	require.Equal(t, "duplicate_id", resp.Error.Message)
}

func TestUnauthorizedCallerMapsToForbidden(t *testing.T) {
	env := newTestEnv(t)
	env.registerVessel(t)

	recorder, resp := env.call(t, true, "fleet_updateVesselStatus", map[string]interface{}{
		"caller":   "stranger",
		"vesselId": "vessel-001",
		"active":   false,
	})
	require.Equal(t, http.StatusForbidden, recorder.Code)
	require.NotNil(t, resp.Error)
	require.Equal(t, codeForbidden, resp.Error.Code)
	require.Equal(t, "forbidden", resp.Error.Message)
}

func TestInvalidQuantityMapsToInvalidValue(t *testing.T) {
	env := newTestEnv(t)
	env.registerVessel(t)
	_, resp := env.call(t, true, "voyage_startTrip", map[string]interface{}{
		"caller":        "captain-ahab",
		"tripId":        "trip-001",
		"vesselId":      "vessel-001",
		"departurePort": "Gloucester",
		"fishingZone":   "Georges Bank",
	})
	require.Nil(t, resp.Error)

	recorder, resp := env.call(t, true, "voyage_recordCatch", map[string]interface{}{
		"caller":   "captain-ahab",
		"tripId":   "trip-001",
		"catchId":  "catch-001",
		"species":  "Atlantic cod",
		"quantity": 0,
		"unit":     "kg",
	})
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.NotNil(t, resp.Error)
	require.Equal(t, codeInvalidValue, resp.Error.Code)
}

func TestClosedTripMapsToInvalidState(t *testing.T) {
	env := newTestEnv(t)
	env.registerVessel(t)
	_, resp := env.call(t, true, "voyage_startTrip", map[string]interface{}{
		"caller":        "captain-ahab",
		"tripId":        "trip-001",
		"vesselId":      "vessel-001",
		"departurePort": "Gloucester",
		"fishingZone":   "Georges Bank",
	})
	require.Nil(t, resp.Error)
	_, resp = env.call(t, true, "voyage_endTrip", map[string]interface{}{
		"caller":     "captain-ahab",
		"tripId":     "trip-001",
		"returnPort": "Gloucester",
	})
	require.Nil(t, resp.Error)

	recorder, resp := env.call(t, true, "voyage_recordCatch", map[string]interface{}{
		"caller":   "captain-ahab",
		"tripId":   "trip-001",
		"catchId":  "catch-001",
		"species":  "Atlantic cod",
		"quantity": 10,
		"unit":     "kg",
	})
	require.Equal(t, http.StatusConflict, recorder.Code)
	require.NotNil(t, resp.Error)
	require.Equal(t, codeConflict, resp.Error.Code)
	require.Equal(t, "invalid_state", resp.Error.Message)
}

func TestInputMismatchMapsToInconsistent(t *testing.T) {
	env := newTestEnv(t)
	env.registerVessel(t)
	for _, call := range []struct {
		method string
		params map[string]interface{}
	}{
		{"voyage_startTrip", map[string]interface{}{
			"caller": "captain-ahab", "tripId": "trip-001", "vesselId": "vessel-001",
			"departurePort": "Gloucester", "fishingZone": "Georges Bank",
		}},
		{"voyage_startTrip", map[string]interface{}{
			"caller": "captain-ahab", "tripId": "trip-002", "vesselId": "vessel-001",
			"departurePort": "Gloucester", "fishingZone": "Georges Bank",
		}},
		{"voyage_recordCatch", map[string]interface{}{
			"caller": "captain-ahab", "tripId": "trip-002", "catchId": "catch-001",
			"species": "haddock", "quantity": 40, "unit": "kg",
		}},
		{"voyage_endTrip", map[string]interface{}{
			"caller": "captain-ahab", "tripId": "trip-001", "returnPort": "Gloucester",
		}},
		{"voyage_endTrip", map[string]interface{}{
			"caller": "captain-ahab", "tripId": "trip-002", "returnPort": "Gloucester",
		}},
		{"processing_registerFacility", map[string]interface{}{
			"caller": "acme-foods", "facilityId": "facility-001",
			"name": "Acme Seafood Processing", "location": "Gloucester, MA",
		}},
	} {
		_, resp := env.call(t, true, call.method, call.params)
		require.Nil(t, resp.Error, "method %s", call.method)
	}

	// catch-001 belongs to trip-002, but the batch only declares trip-001.
	recorder, resp := env.call(t, true, "processing_startBatch", map[string]interface{}{
		"caller":         "acme-foods",
		"batchId":        "batch-001",
		"facilityId":     "facility-001",
		"inputCatchIds":  []string{"catch-001"},
		"inputTripIds":   []string{"trip-001"},
		"processingType": "filleting",
	})
	require.Equal(t, http.StatusConflict, recorder.Code)
	require.NotNil(t, resp.Error)
	require.Equal(t, codeInconsistent, resp.Error.Code)
	require.Equal(t, "inconsistent_references", resp.Error.Message)
}

func TestConcurrentRegistersYieldOneVessel(t *testing.T) {
	env := newTestEnv(t)

	const attempts = 8
	body, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "fleet_registerVessel",
		"params": []interface{}{map[string]interface{}{
			"caller":             "captain-ahab",
			"vesselId":           "vessel-001",
			"name":               "Pequod II",
			"registrationNumber": "REG-001",
			"vesselType":         "longliner",
			"length":             24,
			"capacity":           80,
			"homePort":           "Gloucester",
			"licenseExpiry":      1_731_536_000,
		}},
	})
	require.NoError(t, err)

	codes := make(chan int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
			req.Header.Set("Authorization", "Bearer "+testToken)
			recorder := httptest.NewRecorder()
			env.server.Handler().ServeHTTP(recorder, req)

			var resp RPCResponse
			if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
				codes <- -1
				return
			}
			if resp.Error == nil {
				codes <- 0
				return
			}
			codes <- resp.Error.Code
		}()
	}
	wg.Wait()
	close(codes)

	created, duplicates := 0, 0
	for code := range codes {
		switch code {
		case 0:
			created++
		case codeDuplicate:
			duplicates++
		default:
			t.Fatalf("unexpected response code %d", code)
		}
	}
	require.Equal(t, 1, created)
	require.Equal(t, attempts-1, duplicates)
}

func TestCertifyVerifyOverRPC(t *testing.T) {
	env := newTestEnv(t)
	_, resp := env.call(t, true, "certify_createStandard", map[string]interface{}{
		"caller":     "council-a",
		"standardId": "standard-001",
		"name":       "Sustainable Catch Standard",
		"criteria":   "Stock health, bycatch limits",
	})
	require.Nil(t, resp.Error)

	_, resp = env.call(t, true, "certify_issueCertification", map[string]interface{}{
		"caller":          "issuer-a",
		"certificationId": "cert-001",
		"entityId":        "vessel-001",
		"entityType":      "vessel",
		"standardId":      "standard-001",
		"expiryDate":      1_731_536_000,
		"score":           88,
		"evidenceHash":    "0x" + string(bytes.Repeat([]byte("ab"), 32)),
	})
	require.Nil(t, resp.Error)

	_, resp = env.call(t, false, "certify_verifyCertification", map[string]interface{}{
		"certificationId": "cert-001",
	})
	require.Nil(t, resp.Error)

	var result verifyResultJSON
	raw, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &result))
	require.True(t, result.Valid)
}
