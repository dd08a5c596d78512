package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
	"github.com/hackgods/healthcare-marketplace/internal/session"
)

func newTestClient(t *testing.T, h http.HandlerFunc, store session.Storage, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	if store == nil {
		store = session.NewMemory()
	}
	opts = append([]Option{WithTokens(SessionTokens{Storage: store})}, opts...)
	return New(srv.URL+"/api/", opts...)
}

func TestPatientCallCarriesPatientToken(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemory()
	require.NoError(t, store.Set(ctx, session.KeyUserToken, "patient-token"))
	require.NoError(t, store.Set(ctx, session.KeyDoctorToken, "doctor-token"))

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/carts", r.URL.Path)
		assert.Equal(t, "Bearer patient-token", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_ = json.NewEncoder(w).Encode(marketplace.Cart{Items: []marketplace.CartItem{{ProductID: "p1", Quantity: 2}}, Total: 20})
	}, store)

	cart, err := client.Carts().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20.0, cart.Total)
	assert.Len(t, cart.Items, 1)
}

func TestDoctorCallCarriesDoctorToken(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemory()
	require.NoError(t, store.Set(ctx, session.KeyUserToken, "patient-token"))
	require.NoError(t, store.Set(ctx, session.KeyDoctorToken, "doctor-token"))

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/appointments/a1/status", r.URL.Path)
		assert.Equal(t, "Bearer doctor-token", r.Header.Get("Authorization"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "confirmed", body["status"])
		_ = json.NewEncoder(w).Encode(marketplace.Appointment{ID: "a1", Status: marketplace.StatusConfirmed})
	}, store)

	appt, err := client.Appointments().UpdateStatus(ctx, "a1", marketplace.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, marketplace.StatusConfirmed, appt.Status)
}

func TestPublicCallSendsNoAuthorization(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemory()
	require.NoError(t, store.Set(ctx, session.KeyUserToken, "patient-token"))

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"_id":"c1","name":"Northside"}]`))
	}, store)

	clinics, err := client.Clinics().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []marketplace.Clinic{{ID: "c1", Name: "Northside"}}, clinics)
}

func TestProtectedCallWithoutTokenFailsBeforeSending(t *testing.T) {
	var called atomic.Bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called.Store(true)
	}, nil)

	_, err := client.Orders().Mine(context.Background())
	require.Error(t, err)
	assert.False(t, called.Load())

	var re *Error
	require.ErrorAs(t, err, &re)
	assert.True(t, errors.Is(err, ErrNotAuthenticated))
	assert.True(t, re.Unauthorized())
}

func TestErrorNormalization(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"server message", http.StatusBadRequest, `{"message":"Cart is empty"}`, "Cart is empty"},
		{"error field", http.StatusConflict, `{"error":"slot_taken"}`, "slot_taken"},
		{"details win over error code", http.StatusConflict, `{"error":"slot_taken","details":"That time is gone"}`, "That time is gone"},
		{"no body", http.StatusInternalServerError, ``, "Failed to fetch cart"},
		{"html body", http.StatusBadGateway, `<html>bad gateway</html>`, "Failed to fetch cart"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := session.NewMemory()
			require.NoError(t, store.Set(ctx, session.KeyUserToken, "tok"))

			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}, store)

			_, err := client.Carts().Get(ctx)
			require.Error(t, err)
			assert.Equal(t, tt.message, Message(err))

			var re *Error
			require.ErrorAs(t, err, &re)
			assert.Equal(t, tt.status, re.Status)
		})
	}
}

func TestTransportFailureUsesFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := New(url)
	_, err := client.Products().List(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch products", Message(err))

	var re *Error
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 0, re.Status)
	assert.Error(t, errors.Unwrap(err))
}

func TestSingleAttemptNoRetry(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, nil)

	_, err := client.Doctors().List(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestBlogCreateSendsMultipart(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemory()
	require.NoError(t, store.Set(ctx, session.KeyDoctorToken, "doc"))

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, "Sleep hygiene", r.FormValue("title"))
		file, header, err := r.FormFile("image")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "cover.png", header.Filename)
		assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data)
		_ = json.NewEncoder(w).Encode(marketplace.Blog{ID: "b1", Title: r.FormValue("title")})
	}, store)

	blog, err := client.Blogs().Create(ctx, marketplace.BlogDraft{
		Title:   "Sleep hygiene",
		Content: "Keep a schedule.",
		Image:   &marketplace.Upload{Field: "image", Filename: "cover.png", ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}},
	})
	require.NoError(t, err)
	assert.Equal(t, "b1", blog.ID)
}

func TestMetricsCountByStatusClass(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/blogs/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}, nil, WithMetrics(metrics))

	_, err := client.Blogs().List(context.Background())
	require.NoError(t, err)
	_, err = client.Blogs().Get(context.Background(), "missing")
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("blogs", http.MethodGet, "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("blogs", http.MethodGet, "4xx")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.Observe("blogs", http.MethodGet, 200, 0.1) })
}
