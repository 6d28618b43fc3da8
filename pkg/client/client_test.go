package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "snaplink/pkg/errors"
	httputil "snaplink/pkg/http"
	"snaplink/pkg/middleware"
	"snaplink/pkg/model"
	"snaplink/pkg/scheduling"
)

var wib = time.FixedZone("WIB", 7*3600)

func TestBookingClient_Create(t *testing.T) {
	start := time.Date(2031, 6, 2, 13, 0, 0, 0, wib)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/bookings", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "req-42", r.Header.Get(middleware.RequestIDHeader))

		var req model.BookingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "p1", req.PhotographerID)
		assert.True(t, req.StartDatetime.Equal(start))

		_ = httputil.WriteCreated(w, BookingResult{
			Booking: &model.Booking{
				ID:             "b1",
				PhotographerID: req.PhotographerID,
				StartDatetime:  req.StartDatetime,
				EndDatetime:    req.EndDatetime,
				Status:         model.StatusPending,
				TotalPrice:     500000,
			},
			Price: scheduling.PriceCalculation{TotalPrice: 500000, Duration: 2},
		})
	}))
	defer server.Close()

	ctx := middleware.WithRequestID(context.Background(), "req-42")
	result, err := NewBookingClient(server.URL).Create(ctx, &model.BookingRequest{
		UserID:         "u1",
		PhotographerID: "p1",
		LocationID:     "65f1c0000000000000000001",
		StartDatetime:  start,
		EndDatetime:    start.Add(2 * time.Hour),
	})

	require.NoError(t, err)
	assert.Equal(t, "b1", result.Booking.ID)
	assert.Equal(t, model.StatusPending, result.Booking.Status)
	assert.Equal(t, 500000.0, result.Price.TotalPrice)
	assert.False(t, result.DistanceConflict.HasConflict)
}

func TestBookingClient_Errors(t *testing.T) {
	tests := []struct {
		name          string
		handler       http.HandlerFunc
		wantStatus    int
		wantCode      string
		wantRetryable bool
	}{
		{
			name: "retryable conflict",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = httputil.WriteError(w, apperrors.Retryable("Booking was modified concurrently", nil))
			},
			wantStatus:    http.StatusConflict,
			wantCode:      apperrors.CodeConflict,
			wantRetryable: true,
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = httputil.WriteError(w, apperrors.NotFoundWithID("Booking", "b9"))
			},
			wantStatus: http.StatusNotFound,
			wantCode:   apperrors.CodeNotFound,
		},
		{
			name: "plain text from a proxy",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte("upstream unavailable"))
			},
			wantStatus: http.StatusBadGateway,
			wantCode:   "Bad Gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := NewBookingClient(server.URL).Confirm(context.Background(), "b9")

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr), "error = %v", err)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.Equal(t, tt.wantRetryable, apiErr.Retryable())
		})
	}
}

func TestBookingClient_Transitions(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotPath = r.URL.Path
		_ = httputil.WriteSuccess(w, model.Booking{ID: "b1", Status: model.StatusConfirmed})
	}))
	defer server.Close()

	c := NewBookingClient(server.URL)
	tests := []struct {
		action string
		call   func(context.Context, string) (*model.Booking, error)
	}{
		{action: "confirm", call: c.Confirm},
		{action: "start", call: c.Start},
		{action: "complete", call: c.Complete},
		{action: "cancel", call: c.Cancel},
		{action: "complaint", call: c.FileComplaint},
		{action: "refund", call: c.ResolveComplaintWithRefund},
		{action: "expire", call: c.Expire},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			booking, err := tt.call(context.Background(), "b1")
			require.NoError(t, err)
			assert.Equal(t, "/api/v1/bookings/id/b1/"+tt.action, gotPath)
			assert.Equal(t, "b1", booking.ID)
		})
	}
}

func TestBookingClient_ListForPhotographer(t *testing.T) {
	from := time.Date(2031, 6, 2, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/photographers/p1/bookings", r.URL.Path)
		assert.Equal(t, "2031-06-02T00:00:00Z", r.URL.Query().Get("from"))
		assert.Equal(t, "2031-06-03T00:00:00Z", r.URL.Query().Get("to"))
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		assert.Equal(t, "", r.URL.Query().Get("offset"))
		_ = httputil.WritePaginated(w, []model.Booking{{ID: "b1"}, {ID: "b2"}}, 5, 2, 0)
	}))
	defer server.Close()

	bookings, page, err := NewBookingClient(server.URL).ListForPhotographer(context.Background(), "p1", from, to, 2, 0)

	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, "b2", bookings[1].ID)
	assert.Equal(t, int64(5), page.TotalCount)
	assert.Equal(t, 2, page.Limit)
}

func TestBookingClient_Reschedule(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/bookings/id/b1/schedule", r.URL.Path)
		_ = httputil.WriteSuccess(w, BookingResult{
			Booking: &model.Booking{ID: "b1", Status: model.StatusPending},
			Price:   scheduling.PriceCalculation{TotalPrice: 250000},
		})
	}))
	defer server.Close()

	start := time.Date(2031, 6, 2, 9, 0, 0, 0, wib)
	result, err := NewBookingClient(server.URL).Reschedule(context.Background(), "b1", &model.RescheduleRequest{
		LocationID:    "65f1c0000000000000000001",
		StartDatetime: start,
		EndDatetime:   start.Add(time.Hour),
	})

	require.NoError(t, err)
	assert.Equal(t, 250000.0, result.Price.TotalPrice)
}

func TestSlotClient(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/photographers/p1/schedule", func(w http.ResponseWriter, r *http.Request) {
		var schedule scheduling.WeeklySchedule
		schedule.PhotographerID = "p1"
		if r.Method == http.MethodPut {
			var req model.WeeklyScheduleRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Len(t, req.Days, 1)
		}
		_ = httputil.WriteSuccess(w, schedule)
	})
	mux.HandleFunc("/api/v1/photographers/p1/stats", func(w http.ResponseWriter, r *http.Request) {
		_ = httputil.WriteSuccess(w, scheduling.AvailabilityStats{TotalSlots: 4, AvailableSlots: 3, UtilizationRate: 25})
	})
	mux.HandleFunc("/api/v1/slots/s1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		httputil.WriteNoContent(w)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := NewSlotClient(server.URL)
	ctx := context.Background()

	schedule, err := c.ReplaceWeeklySchedule(ctx, "p1", []model.DaySlots{{DayOfWeek: model.Monday, IsEnabled: true}})
	require.NoError(t, err)
	assert.Equal(t, "p1", schedule.PhotographerID)

	schedule, err = c.GetWeeklySchedule(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", schedule.PhotographerID)

	stats, err := c.GetStats(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalSlots)
	assert.Equal(t, 25, stats.UtilizationRate)

	require.NoError(t, c.Delete(ctx, "s1"))
}

func TestWaitForHealthy(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	require.NoError(t, NewHttpClient(server.URL).WaitForHealthy(context.Background(), 5*time.Second))
	assert.Equal(t, 2, calls)
}

func TestWaitForHealthy_GivesUp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	err := NewHttpClient(server.URL).WaitForHealthy(context.Background(), 200*time.Millisecond)
	assert.Error(t, err)
}
