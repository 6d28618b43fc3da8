package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	availabilityerrors "snaplink/internal/availability/errors"
	"snaplink/internal/availability/repository"
	"snaplink/internal/availability/validator"
	"snaplink/pkg/config"
	mongotx "snaplink/pkg/db/mongo"
	apperrors "snaplink/pkg/errors"
	"snaplink/pkg/metrics"
	"snaplink/pkg/model"
	"snaplink/pkg/scheduling"
)

type SlotService interface {
	Create(ctx context.Context, slot *model.Slot) error
	GetByID(ctx context.Context, id string) (*model.Slot, error)
	Update(ctx context.Context, id string, updates *model.SlotUpdate) (*model.Slot, error)
	Delete(ctx context.Context, id string) error
	DeleteAllForPhotographer(ctx context.Context, photographerID string) (int64, error)
	ListByPhotographer(ctx context.Context, photographerID string) ([]model.Slot, error)
	GetWeeklySchedule(ctx context.Context, photographerID string) (scheduling.WeeklySchedule, error)
	ReplaceWeeklySchedule(ctx context.Context, photographerID string, days []model.DaySlots) (scheduling.WeeklySchedule, error)
	GetStats(ctx context.Context, photographerID string) (scheduling.AvailabilityStats, error)
}

type slotService struct {
	repo      repository.SlotRepository
	booked    repository.BookedIntervalRepository
	locker    mongotx.Locker
	validator *validator.SlotValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewSlotService(
	repo repository.SlotRepository,
	booked repository.BookedIntervalRepository,
	locker mongotx.Locker,
	validator *validator.SlotValidator,
	cfg *config.Config,
) SlotService {
	return &slotService{
		repo:      repo,
		booked:    booked,
		locker:    locker,
		validator: validator,
		cfg:       cfg,
		now:       time.Now,
	}
}

func lockKey(photographerID string) string {
	return "slots:" + photographerID
}

func (s *slotService) Create(ctx context.Context, slot *model.Slot) error {
	slot.ID = ""
	normalize(slot)

	err := mongotx.WithLock(ctx, s.locker, lockKey(slot.PhotographerID), s.cfg.Log, func() error {
		existing, err := s.repo.ListByPhotographerAndDay(ctx, slot.PhotographerID, slot.DayOfWeek)
		if err != nil {
			return apperrors.Internal("Failed to load existing slots", err)
		}
		if err := s.validate(slot, existing); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, slot); err != nil {
			return apperrors.Internal("Failed to create slot", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Warn("Failed to create slot",
			"photographer_id", slot.PhotographerID,
			"day_of_week", slot.DayOfWeek,
			"error", err,
		)
		return apperrors.FromDomain(err, "Slot")
	}

	s.cfg.Log.Info("Slot created successfully",
		"id", slot.ID,
		"photographer_id", slot.PhotographerID,
		"day_of_week", slot.DayOfWeek,
		"start_time", slot.StartTime,
		"end_time", slot.EndTime,
	)
	return nil
}

func (s *slotService) GetByID(ctx context.Context, id string) (*model.Slot, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Slot ID cannot be empty")
	}

	slot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to retrieve slot")
	}
	return slot, nil
}

// Update merges the patch into the stored slot. The owner is never changed
// and the slot being edited is excluded from its own overlap check.
func (s *slotService) Update(ctx context.Context, id string, updates *model.SlotUpdate) (*model.Slot, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var merged *model.Slot
	err = mongotx.WithLock(ctx, s.locker, lockKey(existing.PhotographerID), s.cfg.Log, func() error {
		current, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return s.mapRepoError(err, id, "Failed to retrieve slot")
		}
		merged = mergeSlotUpdate(current, updates)
		normalize(merged)

		sameDay, err := s.repo.ListByPhotographerAndDay(ctx, merged.PhotographerID, merged.DayOfWeek)
		if err != nil {
			return apperrors.Internal("Failed to load existing slots", err)
		}
		if err := s.validate(merged, sameDay); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, merged); err != nil {
			return s.mapRepoError(err, id, "Failed to update slot")
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Warn("Failed to update slot", "id", id, "error", err)
		return nil, apperrors.FromDomain(err, "Slot")
	}

	s.cfg.Log.Info("Slot updated successfully", "id", id, "photographer_id", merged.PhotographerID)
	return merged, nil
}

func (s *slotService) Delete(ctx context.Context, id string) error {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = mongotx.WithLock(ctx, s.locker, lockKey(existing.PhotographerID), s.cfg.Log, func() error {
		if err := s.repo.Delete(ctx, id); err != nil {
			return s.mapRepoError(err, id, "Failed to delete slot")
		}
		return nil
	})
	if err != nil {
		return apperrors.FromDomain(err, "Slot")
	}

	s.cfg.Log.Info("Slot deleted successfully", "id", id, "photographer_id", existing.PhotographerID)
	return nil
}

func (s *slotService) DeleteAllForPhotographer(ctx context.Context, photographerID string) (int64, error) {
	if photographerID == "" {
		return 0, apperrors.InvalidInput("Photographer ID cannot be empty")
	}

	var deleted int64
	err := mongotx.WithLock(ctx, s.locker, lockKey(photographerID), s.cfg.Log, func() error {
		var err error
		deleted, err = s.repo.DeleteAllForPhotographer(ctx, photographerID)
		if err != nil {
			return apperrors.Internal("Failed to delete slots", err)
		}
		return nil
	})
	if err != nil {
		return 0, apperrors.FromDomain(err, "Slot")
	}

	s.cfg.Log.Info("Slots deleted for photographer", "photographer_id", photographerID, "count", deleted)
	return deleted, nil
}

func (s *slotService) ListByPhotographer(ctx context.Context, photographerID string) ([]model.Slot, error) {
	if photographerID == "" {
		return nil, apperrors.InvalidInput("Photographer ID cannot be empty")
	}

	slots, err := s.repo.ListByPhotographer(ctx, photographerID)
	if err != nil {
		s.cfg.Log.Error("Failed to list slots", "photographer_id", photographerID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve slots", err)
	}
	return slots, nil
}

func (s *slotService) GetWeeklySchedule(ctx context.Context, photographerID string) (scheduling.WeeklySchedule, error) {
	slots, err := s.ListByPhotographer(ctx, photographerID)
	if err != nil {
		return scheduling.WeeklySchedule{}, err
	}
	return scheduling.BuildWeeklySchedule(photographerID, slots), nil
}

// ReplaceWeeklySchedule validates the whole week first and then swaps the
// stored slots in one transaction, so a rejected week leaves nothing written.
func (s *slotService) ReplaceWeeklySchedule(ctx context.Context, photographerID string, days []model.DaySlots) (scheduling.WeeklySchedule, error) {
	for d := range days {
		for i := range days[d].Slots {
			normalize(&days[d].Slots[i])
		}
	}

	if errs := s.validator.ValidateWeekly(photographerID, days); len(errs) > 0 {
		s.recordValidationFailures(errs)
		s.cfg.Log.Warn("Weekly schedule validation failed",
			"photographer_id", photographerID,
			"error_count", len(errs),
		)
		return scheduling.WeeklySchedule{}, apperrors.FromDomain(errs, "Schedule")
	}

	var slots []model.Slot
	for _, day := range days {
		if !day.IsEnabled {
			continue
		}
		for _, sl := range day.Slots {
			sl.PhotographerID = photographerID
			sl.DayOfWeek = day.DayOfWeek
			slots = append(slots, sl)
		}
	}

	err := mongotx.WithLock(ctx, s.locker, lockKey(photographerID), s.cfg.Log, func() error {
		return s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
			if _, err := s.repo.DeleteAllForPhotographer(sessCtx, photographerID); err != nil {
				return apperrors.Internal("Failed to clear weekly schedule", err)
			}
			if err := s.repo.CreateMany(sessCtx, slots); err != nil {
				return apperrors.Internal("Failed to store weekly schedule", err)
			}
			return nil
		})
	})
	if err != nil {
		s.cfg.Log.Error("Failed to replace weekly schedule", "photographer_id", photographerID, "error", err)
		return scheduling.WeeklySchedule{}, apperrors.FromDomain(err, "Schedule")
	}

	s.cfg.Log.Info("Weekly schedule replaced",
		"photographer_id", photographerID,
		"slot_count", len(slots),
	)
	return scheduling.BuildWeeklySchedule(photographerID, slots), nil
}

// GetStats reports slot counts plus how many slots intersect an active
// booking during the coming seven days.
func (s *slotService) GetStats(ctx context.Context, photographerID string) (scheduling.AvailabilityStats, error) {
	slots, err := s.ListByPhotographer(ctx, photographerID)
	if err != nil {
		return scheduling.AvailabilityStats{}, err
	}
	stats := scheduling.ComputeStats(slots)

	from := s.now().In(s.location())
	booked, err := s.booked.ListForPhotographer(ctx, photographerID, from, from.AddDate(0, 0, 7))
	if err != nil {
		s.cfg.Log.Error("Failed to load booked intervals", "photographer_id", photographerID, "error", err)
		return scheduling.AvailabilityStats{}, apperrors.Internal("Failed to compute availability stats", err)
	}
	stats.BookedSlots = scheduling.CountBookedSlots(slots, booked, s.location())
	return stats, nil
}

// --- Helpers ---

func (s *slotService) location() *time.Location {
	if s.cfg.Location != nil {
		return s.cfg.Location
	}
	return time.UTC
}

func (s *slotService) validate(slot *model.Slot, existing []model.Slot) error {
	errs := s.validator.Validate(slot, existing)
	if len(errs) == 0 {
		return nil
	}
	s.recordValidationFailures(errs)
	s.cfg.Log.Warn("Slot validation failed",
		"photographer_id", slot.PhotographerID,
		"day_of_week", slot.DayOfWeek,
		"error", errs,
	)
	return errs
}

func (s *slotService) recordValidationFailures(errs scheduling.ValidationErrors) {
	for _, e := range errs {
		metrics.RecordSlotValidationFailure(e.Code)
	}
}

func (s *slotService) mapRepoError(err error, id, message string) error {
	switch {
	case errors.Is(err, availabilityerrors.ErrNotFound):
		return apperrors.NotFoundWithID("Slot", id)
	case errors.Is(err, availabilityerrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid slot ID format")
	}
	s.cfg.Log.Error(message, "id", id, "error", err)
	return apperrors.Internal(message, err)
}

// normalize applies the default status, canonical labels and HH:MM:SS times.
func normalize(slot *model.Slot) {
	if slot.Status == "" {
		slot.Status = model.SlotAvailable
	} else if st, ok := model.ParseSlotStatus(string(slot.Status)); ok {
		slot.Status = st
	}
	if t, err := scheduling.ParseTimeOfDay(slot.StartTime); err == nil {
		slot.StartTime = t.String()
	}
	if t, err := scheduling.ParseTimeOfDay(slot.EndTime); err == nil {
		slot.EndTime = t.String()
	}
}

func mergeSlotUpdate(existing *model.Slot, updates *model.SlotUpdate) *model.Slot {
	merged := *existing

	if updates.DayOfWeek != nil {
		merged.DayOfWeek = *updates.DayOfWeek
	}
	if updates.StartTime != nil {
		merged.StartTime = *updates.StartTime
	}
	if updates.EndTime != nil {
		merged.EndTime = *updates.EndTime
	}
	if updates.Status != nil {
		merged.Status = *updates.Status
	}

	return &merged
}
