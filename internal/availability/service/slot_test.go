package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	availabilityerrors "snaplink/internal/availability/errors"
	"snaplink/internal/availability/validator"
	"snaplink/pkg/config"
	mongotx "snaplink/pkg/db/mongo"
	apperrors "snaplink/pkg/errors"
	"snaplink/pkg/logger"
	"snaplink/pkg/model"
	"snaplink/pkg/scheduling"
)

// In-memory repository for testing
type mockSlotRepository struct {
	slots     map[string]model.Slot
	nextID    int
	txCalls   int
	createErr error
}

func newMockSlotRepository(slots ...model.Slot) *mockSlotRepository {
	m := &mockSlotRepository{slots: map[string]model.Slot{}}
	for _, s := range slots {
		m.slots[s.ID] = s
	}
	return m
}

func (m *mockSlotRepository) Create(_ context.Context, slot *model.Slot) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	slot.ID = "new-" + string(rune('0'+m.nextID))
	m.slots[slot.ID] = *slot
	return nil
}

func (m *mockSlotRepository) CreateMany(ctx context.Context, slots []model.Slot) error {
	for i := range slots {
		if err := m.Create(ctx, &slots[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockSlotRepository) FindByID(_ context.Context, id string) (*model.Slot, error) {
	s, ok := m.slots[id]
	if !ok {
		return nil, availabilityerrors.ErrNotFound
	}
	return &s, nil
}

func (m *mockSlotRepository) Update(_ context.Context, slot *model.Slot) error {
	if _, ok := m.slots[slot.ID]; !ok {
		return availabilityerrors.ErrNotFound
	}
	m.slots[slot.ID] = *slot
	return nil
}

func (m *mockSlotRepository) Delete(_ context.Context, id string) error {
	if _, ok := m.slots[id]; !ok {
		return availabilityerrors.ErrNotFound
	}
	delete(m.slots, id)
	return nil
}

func (m *mockSlotRepository) DeleteAllForPhotographer(_ context.Context, photographerID string) (int64, error) {
	var n int64
	for id, s := range m.slots {
		if s.PhotographerID == photographerID {
			delete(m.slots, id)
			n++
		}
	}
	return n, nil
}

func (m *mockSlotRepository) ListByPhotographer(_ context.Context, photographerID string) ([]model.Slot, error) {
	var out []model.Slot
	for _, s := range m.slots {
		if s.PhotographerID == photographerID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSlotRepository) ListByPhotographerAndDay(ctx context.Context, photographerID string, day model.DayOfWeek) ([]model.Slot, error) {
	all, _ := m.ListByPhotographer(ctx, photographerID)
	var out []model.Slot
	for _, s := range all {
		if s.DayOfWeek == day {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSlotRepository) ExecuteTransaction(_ context.Context, fn mongotx.TransactionFunc) error {
	m.txCalls++
	var sessCtx mongo.SessionContext
	return fn(sessCtx)
}

type mockBookedRepository struct {
	intervals []model.BookedInterval
}

func (m *mockBookedRepository) Upsert(context.Context, model.BookedInterval) error { return nil }
func (m *mockBookedRepository) Delete(context.Context, string) error                { return nil }
func (m *mockBookedRepository) ListForPhotographer(_ context.Context, _ string, _, _ time.Time) ([]model.BookedInterval, error) {
	return m.intervals, nil
}

type mockLocker struct {
	held map[string]bool
}

func (l *mockLocker) Acquire(_ context.Context, key string) (func(context.Context) error, error) {
	if l.held[key] {
		return nil, scheduling.ErrConflict
	}
	return func(context.Context) error { return nil }, nil
}

func newTestService(repo *mockSlotRepository, booked *mockBookedRepository, locker *mockLocker) *slotService {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	if locker == nil {
		locker = &mockLocker{held: map[string]bool{}}
	}
	if booked == nil {
		booked = &mockBookedRepository{}
	}
	return &slotService{
		repo:      repo,
		booked:    booked,
		locker:    locker,
		validator: validator.NewSlotValidator(log),
		cfg:       &config.Config{Log: log, Location: time.UTC},
		now:       time.Now,
	}
}

func monday(id, start, end string) model.Slot {
	return model.Slot{ID: id, PhotographerID: "p1", DayOfWeek: model.Monday, StartTime: start, EndTime: end, Status: model.SlotAvailable}
}

func validationCodes(t *testing.T, err error) []string {
	t.Helper()
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeValidation {
		t.Fatalf("error code = %s, want %s (%v)", appErr.Code, apperrors.CodeValidation, err)
	}
	list, ok := appErr.Details["errors"].(scheduling.ValidationErrors)
	if !ok {
		t.Fatalf("details.errors has type %T", appErr.Details["errors"])
	}
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.Code
	}
	return out
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name      string
		slot      model.Slot
		wantCodes []string
	}{
		{name: "adjacent slot is accepted", slot: monday("", "10:00:00", "11:00:00")},
		{name: "short time format is normalized", slot: monday("", "11:00", "12:00")},
		{name: "overlap is rejected", slot: monday("", "09:30:00", "10:30:00"), wantCodes: []string{"TIME_OVERLAP"}},
		{name: "inverted range is rejected", slot: monday("", "12:00:00", "11:00:00"), wantCodes: []string{"INVALID_RANGE"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockSlotRepository(monday("a", "09:00:00", "10:00:00"))
			svc := newTestService(repo, nil, nil)

			err := svc.Create(context.Background(), &tt.slot)
			if len(tt.wantCodes) == 0 {
				if err != nil {
					t.Fatalf("Create() error = %v", err)
				}
				stored := repo.slots[tt.slot.ID]
				if len(stored.StartTime) != len("00:00:00") || stored.Status != model.SlotAvailable {
					t.Errorf("stored slot not normalized: %+v", stored)
				}
				return
			}
			got := validationCodes(t, err)
			if len(got) != len(tt.wantCodes) || got[0] != tt.wantCodes[0] {
				t.Errorf("codes = %v, want %v", got, tt.wantCodes)
			}
			if len(repo.slots) != 1 {
				t.Errorf("rejected slot was written")
			}
		})
	}
}

func TestCreate_LockHeldIsRetryableConflict(t *testing.T) {
	repo := newMockSlotRepository()
	svc := newTestService(repo, nil, &mockLocker{held: map[string]bool{"slots:p1": true}})

	slot := monday("", "09:00:00", "10:00:00")
	err := svc.Create(context.Background(), &slot)

	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode() != http.StatusConflict || !appErr.IsRetryable() {
		t.Errorf("err = %+v, want retryable conflict", appErr)
	}
}

func TestUpdate_ExcludesItself(t *testing.T) {
	repo := newMockSlotRepository(
		monday("65f1c2a9e4b0a1b2c3d4e5f1", "09:00:00", "10:00:00"),
		monday("65f1c2a9e4b0a1b2c3d4e5f2", "11:00:00", "12:00:00"),
	)
	svc := newTestService(repo, nil, nil)

	end := "10:30:00"
	updated, err := svc.Update(context.Background(), "65f1c2a9e4b0a1b2c3d4e5f1", &model.SlotUpdate{EndTime: &end})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.EndTime != "10:30:00" || updated.PhotographerID != "p1" {
		t.Errorf("updated = %+v", updated)
	}

	start := "10:00:00"
	end = "11:30:00"
	_, err = svc.Update(context.Background(), "65f1c2a9e4b0a1b2c3d4e5f1", &model.SlotUpdate{StartTime: &start, EndTime: &end})
	if got := validationCodes(t, err); len(got) != 1 || got[0] != "TIME_OVERLAP" {
		t.Errorf("codes = %v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newTestService(newMockSlotRepository(), nil, nil)

	_, err := svc.GetByID(context.Background(), "missing")
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Errorf("code = %s, want %s", appErr.Code, apperrors.CodeNotFound)
	}
}

func TestReplaceWeeklySchedule(t *testing.T) {
	t.Run("invalid week writes nothing", func(t *testing.T) {
		repo := newMockSlotRepository(monday("a", "09:00:00", "10:00:00"))
		svc := newTestService(repo, nil, nil)

		_, err := svc.ReplaceWeeklySchedule(context.Background(), "p1", []model.DaySlots{
			{DayOfWeek: model.Tuesday, IsEnabled: true, Slots: []model.Slot{
				{StartTime: "09:00:00", EndTime: "10:00:00"},
				{StartTime: "09:30:00", EndTime: "10:30:00"},
			}},
		})
		if got := validationCodes(t, err); len(got) != 1 || got[0] != "TIME_OVERLAP" {
			t.Errorf("codes = %v", got)
		}
		if repo.txCalls != 0 || len(repo.slots) != 1 {
			t.Errorf("tx calls = %d, slots = %d", repo.txCalls, len(repo.slots))
		}
	})

	t.Run("valid week replaces stored slots", func(t *testing.T) {
		repo := newMockSlotRepository(monday("a", "09:00:00", "10:00:00"))
		svc := newTestService(repo, nil, nil)

		week, err := svc.ReplaceWeeklySchedule(context.Background(), "p1", []model.DaySlots{
			{DayOfWeek: model.Tuesday, IsEnabled: true, Slots: []model.Slot{
				{StartTime: "13:00", EndTime: "14:00"},
				{StartTime: "09:00:00", EndTime: "10:00:00"},
			}},
			{DayOfWeek: model.Friday, IsEnabled: false, Slots: []model.Slot{
				{StartTime: "09:00:00", EndTime: "10:00:00"},
			}},
		})
		if err != nil {
			t.Fatalf("ReplaceWeeklySchedule() error = %v", err)
		}
		if repo.txCalls != 1 || len(repo.slots) != 2 {
			t.Errorf("tx calls = %d, slots = %d", repo.txCalls, len(repo.slots))
		}
		tuesday := week.Days[model.Tuesday]
		if !tuesday.IsEnabled || tuesday.Slots[0].StartTime != "09:00:00" || tuesday.Slots[1].StartTime != "13:00:00" {
			t.Errorf("tuesday = %+v", tuesday)
		}
		if week.Days[model.Monday].IsEnabled {
			t.Error("monday should have been cleared")
		}
	})
}

func TestGetStats(t *testing.T) {
	repo := newMockSlotRepository(
		monday("a", "09:00:00", "10:00:00"),
		monday("b", "10:00:00", "11:00:00"),
		model.Slot{ID: "c", PhotographerID: "p1", DayOfWeek: model.Tuesday, StartTime: "09:00:00", EndTime: "10:00:00", Status: model.SlotUnavailable},
	)
	// 2024-01-01 is a Monday.
	booked := &mockBookedRepository{intervals: []model.BookedInterval{{
		BookingID:      "b1",
		PhotographerID: "p1",
		Start:          time.Date(2024, 1, 1, 9, 15, 0, 0, time.UTC),
		End:            time.Date(2024, 1, 1, 9, 45, 0, 0, time.UTC),
		Status:         model.StatusConfirmed,
	}}}
	svc := newTestService(repo, booked, nil)

	stats, err := svc.GetStats(context.Background(), "p1")
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	want := scheduling.AvailabilityStats{TotalSlots: 3, AvailableSlots: 2, UnavailableSlots: 1, BookedSlots: 1, UtilizationRate: 33}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
}

func TestDelete_MapsErrors(t *testing.T) {
	svc := newTestService(newMockSlotRepository(monday("a", "09:00:00", "10:00:00")), nil, nil)

	if err := svc.Delete(context.Background(), "a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	err := svc.Delete(context.Background(), "a")
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Errorf("second delete code = %s, want %s", appErr.Code, apperrors.CodeNotFound)
	}
}
