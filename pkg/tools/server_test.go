package tools

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sguter90/anomalymaestro/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T, secret string) *Server {
	t.Helper()
	m := metrics.New(prometheus.NewRegistry())
	svc := newTestService(t, WithMetrics(m))
	s := NewServer(NewServiceRegistry(svc, m), m, secret, zaptest.NewLogger(t))
	s.Setup()
	return s
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t, "")

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_ListTools(t *testing.T) {
	s := newTestServer(t, "")

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/tools", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var tools []Tool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tools))
	require.Len(t, tools, 5)
	assert.Equal(t, FetchSensorData, tools[0].Name)
	assert.Equal(t, []string{"sensor_id", "parameter"}, tools[1].Args)
}

func TestServer_InvokeTool(t *testing.T) {
	s := newTestServer(t, "")

	body := strings.NewReader(`{"sensor_id":"S001"}`)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest("POST", "/api/v1/tools/fetch_sensor_data", body))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp InvokeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, FetchSensorData, resp.Tool)
	assert.Equal(t, "Successfully fetched 96 records for sensor S001", resp.Result)
}

func TestServer_InvokeTool_EmptyBody(t *testing.T) {
	s := newTestServer(t, "")

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest("POST", "/api/v1/tools/visualize_anomalies", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp InvokeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "No anomaly detection results available. Run detect_anomalies first.", resp.Result)
}

func TestServer_InvokeTool_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		path     string
		body     string
		expected int
	}{
		{name: "Unknown tool", path: "/api/v1/tools/format_disk", body: `{}`, expected: http.StatusNotFound},
		{name: "Non-object body", path: "/api/v1/tools/fetch_sensor_data", body: `["S001"]`, expected: http.StatusBadRequest},
		{name: "Non-string argument", path: "/api/v1/tools/fetch_sensor_data", body: `{"sensor_id":1}`, expected: http.StatusBadRequest},
	}

	s := newTestServer(t, "")
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, httptest.NewRequest("POST", tc.path, strings.NewReader(tc.body)))
			assert.Equal(t, tc.expected, rec.Code)
		})
	}
}

func TestServer_Metrics(t *testing.T) {
	s := newTestServer(t, "")

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest("POST", "/api/v1/tools/get_available_commands", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `anomalymaestro_tool_invocations_total{tool="get_available_commands"} 1`)
}

func TestServer_JWTAuth(t *testing.T) {
	s := newTestServer(t, testSecret)

	token, _, err := GenerateToken(testSecret, "operator-1")
	require.NoError(t, err)
	forged, _, err := GenerateToken("other-secret", "operator-1")
	require.NoError(t, err)

	testCases := []struct {
		name     string
		header   string
		expected int
	}{
		{name: "Missing header", header: "", expected: http.StatusUnauthorized},
		{name: "Wrong scheme", header: "Basic abc", expected: http.StatusUnauthorized},
		{name: "Wrong secret", header: "Bearer " + forged, expected: http.StatusUnauthorized},
		{name: "Valid token", header: "Bearer " + token, expected: http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/tools", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, req)
			assert.Equal(t, tc.expected, rec.Code)
		})
	}

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code, "health must stay public")
}

func TestServer_CORS(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	s := NewServer(NewServiceRegistry(newTestService(t), m), m, testSecret, zaptest.NewLogger(t))
	s.AllowedOrigins = []string{"http://localhost:5173"}
	s.Setup()

	req := httptest.NewRequest("OPTIONS", "/api/v1/tools", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code, "preflight must not require a token")
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestParseToken(t *testing.T) {
	token, expiresAt, err := GenerateToken(testSecret, "operator-1")
	require.NoError(t, err)
	assert.False(t, expiresAt.IsZero())

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "operator-1", claims.Operator)
	assert.NotEmpty(t, claims.ID)

	_, _, err = GenerateToken("", "operator-1")
	assert.Error(t, err)
}
