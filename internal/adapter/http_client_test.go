package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/medescala/shiftsync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testToken carries {"sub":"u-42"} in its payload; the signature is junk, the
// adapter never verifies it.
const testToken = "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJzdWIiOiJ1LTQyIn0.signature"

func newTestAdapter(t *testing.T, serverURL string) *httpServerAdapter {
	t.Helper()
	a := NewHTTPServerAdapter(HTTPClientConfig{BaseURL: serverURL, Timeout: 5 * time.Second})
	a.SetToken(testToken)
	return a.(*httpServerAdapter)
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestSetToken_ExtractsSubject(t *testing.T) {
	a := NewHTTPServerAdapter(HTTPClientConfig{})
	a.SetToken(testToken)

	assert.Equal(t, testToken, a.Token())
	assert.Equal(t, "u-42", a.UserID())

	a.SetToken("")
	assert.Empty(t, a.Token())
	assert.Empty(t, a.UserID())
}

func TestListShifts_Success(t *testing.T) {
	want := []models.Shift{
		{ID: "s1", LocationID: "loc-1", Value: 1200},
		{ID: "s2", LocationID: "loc-1", Value: 900},
	}

	r := chi.NewRouter()
	r.Get("/api/shifts", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "Bearer "+testToken, req.Header.Get("Authorization"))
		assert.Equal(t, "2026-05", req.URL.Query().Get("month"))
		assert.Equal(t, "loc-1", req.URL.Query().Get("locationId"))
		assert.False(t, req.URL.Query().Has("contractorId"), "empty dimensions are omitted")
		assert.False(t, req.URL.Query().Has("search"))
		writeJSON(t, w, want)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	got, err := a.ListShifts(context.Background(), models.ShiftFilters{Month: "2026-05", LocationID: "loc-1"})

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestListShifts_SearchIsTrimmed(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/shifts", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "hospital", req.URL.Query().Get("search"))
		writeJSON(t, w, []models.Shift{})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.ListShifts(context.Background(), models.ShiftFilters{Search: "  hospital  "})
	require.NoError(t, err)
}

func TestListShifts_Unauthorized(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/shifts", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.ListShifts(context.Background(), models.ShiftFilters{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestListShifts_ContextCancelled(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/shifts", func(w http.ResponseWriter, req *http.Request) {
		<-req.Context().Done()
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	a := newTestAdapter(t, srv.URL)

	done := make(chan error, 1)
	go func() {
		_, err := a.ListShifts(ctx, models.ShiftFilters{})
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled request never returned")
	}
}

func TestListPayments_Success(t *testing.T) {
	want := []models.Payment{{ID: "p1", ShiftID: "s1", Amount: 1200}}

	r := chi.NewRouter()
	r.Get("/api/payments", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "2026-05", req.URL.Query().Get("month"))
		writeJSON(t, w, want)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	got, err := a.ListPayments(context.Background(), models.ShiftFilters{Month: "2026-05"})

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCreatePayment_ReturnsServerRecord(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/payments", func(w http.ResponseWriter, req *http.Request) {
		var p models.Payment
		require.NoError(t, json.NewDecoder(req.Body).Decode(&p))
		assert.Equal(t, "s1", p.ShiftID)

		// Server replaces the optimistic client id.
		p.ID = "pay-srv-1"
		w.WriteHeader(http.StatusCreated)
		writeJSON(t, w, p)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	got, err := a.CreatePayment(context.Background(), models.Payment{ID: "tmp-1", ShiftID: "s1", Amount: 1200})

	require.NoError(t, err)
	assert.Equal(t, "pay-srv-1", got.ID)
	assert.Equal(t, "s1", got.ShiftID)
}

func TestDeletePayment(t *testing.T) {
	r := chi.NewRouter()
	r.Delete("/api/payments/{paymentID}", func(w http.ResponseWriter, req *http.Request) {
		if chi.URLParam(req, "paymentID") != "pay-1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)

	require.NoError(t, a.DeletePayment(context.Background(), "pay-1"))

	err := a.DeletePayment(context.Background(), "pay-gone")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	require.Error(t, a.DeletePayment(context.Background(), ""))
}

func TestListLocations_Success(t *testing.T) {
	want := []models.Location{{ID: "loc-1", Name: "Hospital São Lucas"}}

	r := chi.NewRouter()
	r.Get("/api/locations", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, want)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	got, err := a.ListLocations(context.Background())

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestMapHTTPError_Statuses(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, ErrBadRequest},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusConflict, ErrConflict},
		{http.StatusBadGateway, ErrBadGateway},
		{http.StatusInternalServerError, ErrInternalServerError},
	}

	for _, tc := range cases {
		r := chi.NewRouter()
		r.Get("/api/locations", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tc.status)
		})
		srv := httptest.NewServer(r)

		a := newTestAdapter(t, srv.URL)
		_, err := a.ListLocations(context.Background())
		srv.Close()

		require.Error(t, err, "status %d", tc.status)
		assert.ErrorIs(t, err, tc.want, "status %d", tc.status)
	}
}
