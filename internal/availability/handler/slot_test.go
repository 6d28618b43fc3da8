package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"

	apperrors "snaplink/pkg/errors"
	"snaplink/pkg/logger"
	"snaplink/pkg/model"
	"snaplink/pkg/scheduling"
)

// Mock service for testing
type mockSlotService struct {
	createFunc  func(ctx context.Context, slot *model.Slot) error
	replaceFunc func(ctx context.Context, photographerID string, days []model.DaySlots) (scheduling.WeeklySchedule, error)
}

func (m *mockSlotService) Create(ctx context.Context, slot *model.Slot) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, slot)
	}
	return nil
}

func (m *mockSlotService) GetByID(context.Context, string) (*model.Slot, error) {
	return nil, apperrors.NotFoundWithID("Slot", "x")
}

func (m *mockSlotService) Update(context.Context, string, *model.SlotUpdate) (*model.Slot, error) {
	return &model.Slot{}, nil
}

func (m *mockSlotService) Delete(context.Context, string) error { return nil }

func (m *mockSlotService) DeleteAllForPhotographer(context.Context, string) (int64, error) {
	return 3, nil
}

func (m *mockSlotService) ListByPhotographer(context.Context, string) ([]model.Slot, error) {
	return []model.Slot{}, nil
}

func (m *mockSlotService) GetWeeklySchedule(_ context.Context, photographerID string) (scheduling.WeeklySchedule, error) {
	return scheduling.BuildWeeklySchedule(photographerID, nil), nil
}

func (m *mockSlotService) ReplaceWeeklySchedule(ctx context.Context, photographerID string, days []model.DaySlots) (scheduling.WeeklySchedule, error) {
	if m.replaceFunc != nil {
		return m.replaceFunc(ctx, photographerID, days)
	}
	return scheduling.WeeklySchedule{}, nil
}

func (m *mockSlotService) GetStats(context.Context, string) (scheduling.AvailabilityStats, error) {
	return scheduling.AvailabilityStats{TotalSlots: 2}, nil
}

func newTestRouter(svc *mockSlotService) *httprouter.Router {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	router := httprouter.New()
	NewSlotHandler(svc, log).RegisterRoutes(router)
	return router
}

func TestCreate(t *testing.T) {
	overlap := scheduling.ValidateSlot(
		model.Slot{DayOfWeek: model.Monday, StartTime: "09:30:00", EndTime: "10:30:00"},
		[]model.Slot{{ID: "a", DayOfWeek: model.Monday, StartTime: "09:00:00", EndTime: "10:00:00"}},
	)

	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectHTTPCode int
		expectCode     string
	}{
		{
			name:           "created",
			body:           `{"photographerId":"p1","dayOfWeek":1,"startTime":"10:00:00","endTime":"11:00:00","status":"Available"}`,
			expectHTTPCode: http.StatusCreated,
		},
		{
			name:           "unknown field",
			body:           `{"photographerId":"p1","booked":true}`,
			expectHTTPCode: http.StatusBadRequest,
			expectCode:     apperrors.CodeInvalidInput,
		},
		{
			name:           "overlap",
			body:           `{"photographerId":"p1","dayOfWeek":1,"startTime":"09:30:00","endTime":"10:30:00","status":"Available"}`,
			serviceErr:     apperrors.FromDomain(overlap, "Slot"),
			expectHTTPCode: http.StatusUnprocessableEntity,
			expectCode:     apperrors.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&mockSlotService{
				createFunc: func(_ context.Context, slot *model.Slot) error {
					if tt.serviceErr != nil {
						return tt.serviceErr
					}
					slot.ID = "65f1c2a9e4b0a1b2c3d4e5f6"
					return nil
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/slots", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.expectHTTPCode {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.expectHTTPCode, rec.Body.String())
			}
			if tt.expectCode == "" {
				return
			}
			var resp apperrors.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid error body: %v", err)
			}
			if resp.Code != tt.expectCode {
				t.Errorf("code = %s, want %s", resp.Code, tt.expectCode)
			}
		})
	}
}

func TestReplaceWeeklySchedule_PassesDays(t *testing.T) {
	var gotID string
	var gotDays []model.DaySlots
	router := newTestRouter(&mockSlotService{
		replaceFunc: func(_ context.Context, photographerID string, days []model.DaySlots) (scheduling.WeeklySchedule, error) {
			gotID, gotDays = photographerID, days
			return scheduling.BuildWeeklySchedule(photographerID, nil), nil
		},
	})

	body := `{"days":[{"dayOfWeek":0,"isEnabled":true,"slots":[{"startTime":"09:00:00","endTime":"10:00:00"}]}]}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/photographers/p1/schedule", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if gotID != "p1" || len(gotDays) != 1 || gotDays[0].DayOfWeek != model.Sunday || len(gotDays[0].Slots) != 1 {
		t.Errorf("service got id=%q days=%+v", gotID, gotDays)
	}

	var resp struct {
		Data scheduling.WeeklySchedule `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if resp.Data.Days[6].DayOfWeek != model.Saturday {
		t.Errorf("days not indexed Sunday first: %+v", resp.Data.Days)
	}
}

func TestRoutes(t *testing.T) {
	router := newTestRouter(&mockSlotService{})

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/v1/slots/missing", http.StatusNotFound},
		{http.MethodDelete, "/api/v1/slots/65f1c2a9e4b0a1b2c3d4e5f6", http.StatusNoContent},
		{http.MethodGet, "/api/v1/photographers/p1/slots", http.StatusOK},
		{http.MethodDelete, "/api/v1/photographers/p1/slots", http.StatusOK},
		{http.MethodGet, "/api/v1/photographers/p1/schedule", http.StatusOK},
		{http.MethodGet, "/api/v1/photographers/p1/stats", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
