package devbackend

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/healthcare-marketplace/internal/logging"
	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
)

func newTestServer(t *testing.T) (*httptest.Server, *Backend) {
	t.Helper()
	b := seededBackend(t)
	srv := httptest.NewServer(NewRouter(RouterConfig{Backend: b, Logger: logging.Nop(), Registry: prometheus.NewRegistry(), Env: "test", Version: "dev"}))
	t.Cleanup(srv.Close)
	return srv, b
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health/live")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	ready, err := http.Get(srv.URL + "/health/ready")
	require.NoError(t, err)
	defer ready.Body.Close()
	var body ReadinessResponse
	require.NoError(t, json.NewDecoder(ready.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "ok", body.Dependencies["store"])
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv, _ := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/clinics", nil)
	req.Header.Set("X-Request-ID", "req-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "req-123", resp.Header.Get("X-Request-ID"))

	var clinics []marketplace.Clinic
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&clinics))
	assert.Len(t, clinics, 3)
}

func TestProtectedRoutesNeedMatchingRole(t *testing.T) {
	srv, b := newTestServer(t)
	patient, err := b.LoginUser(DevPatient)
	require.NoError(t, err)
	doctor, err := b.LoginDoctor(DevDoctor)
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"no token", http.MethodGet, "/api/carts", "", http.StatusUnauthorized},
		{"patient cart", http.MethodGet, "/api/carts", patient.Token, http.StatusOK},
		{"doctor token on patient route", http.MethodGet, "/api/carts", doctor.Token, http.StatusForbidden},
		{"doctor appointments", http.MethodGet, "/api/appointments/doctor", doctor.Token, http.StatusOK},
		{"non-admin user list", http.MethodGet, "/api/users", patient.Token, http.StatusForbidden},
		{"messages as doctor", http.MethodGet, "/api/messages/conversations", doctor.Token, http.StatusOK},
		{"public doctors", http.MethodGet, "/api/doctors", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, srv.URL+tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestFailureBodyCarriesMessage(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/users/login", "application/json", strings.NewReader(`{"email":"nobody@example.com","password":"x"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "invalid_credentials", body.Error)
	assert.Equal(t, "Invalid email or password", body.Message)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	first, err := http.Get(srv.URL + "/api/products")
	require.NoError(t, err)
	first.Body.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	var sb strings.Builder
	_, _ = io.Copy(&sb, resp.Body)
	assert.Contains(t, sb.String(), "devbackend_http_requests_total")
}
