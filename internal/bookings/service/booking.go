package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "snaplink/internal/bookings/errors"
	"snaplink/internal/bookings/repository"
	"snaplink/internal/bookings/validator"
	"snaplink/pkg/config"
	mongotx "snaplink/pkg/db/mongo"
	apperrors "snaplink/pkg/errors"
	"snaplink/pkg/metrics"
	"snaplink/pkg/model"
	"snaplink/pkg/sanitizer"
	"snaplink/pkg/scheduling"
)

const (
	cleanupBatchSize = 500
	defaultListRange = 7 * 24 * time.Hour
)

// EventPublisher announces booking writes that are not status transitions.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, booking *model.Booking, from model.BookingStatus) error
}

type Quote struct {
	Price            scheduling.PriceCalculation `json:"price"`
	DistanceConflict scheduling.DistanceConflict `json:"distanceConflict"`
}

type BookingResult struct {
	Booking          *model.Booking              `json:"booking"`
	Price            scheduling.PriceCalculation `json:"price"`
	DistanceConflict scheduling.DistanceConflict `json:"distanceConflict"`
}

type CleanupReport struct {
	Ran            bool      `json:"ran"`
	Expired        int       `json:"expired"`
	Failed         int       `json:"failed"`
	NextEligibleAt time.Time `json:"nextEligibleAt"`
}

type BookingService interface {
	Quote(ctx context.Context, req *model.BookingRequest) (*Quote, error)
	Create(ctx context.Context, req *model.BookingRequest) (*BookingResult, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	ListForPhotographer(ctx context.Context, photographerID string, from, to time.Time, limit int, offset int64) ([]model.Booking, int64, error)
	Reschedule(ctx context.Context, id string, req *model.RescheduleRequest) (*BookingResult, error)

	Confirm(ctx context.Context, id string) (*model.Booking, error)
	Start(ctx context.Context, id string) (*model.Booking, error)
	Complete(ctx context.Context, id string) (*model.Booking, error)
	Cancel(ctx context.Context, id string) (*model.Booking, error)
	FileComplaint(ctx context.Context, id string) (*model.Booking, error)
	ResolveComplaintWithRefund(ctx context.Context, id string) (*model.Booking, error)
	Expire(ctx context.Context, id string) (*model.Booking, error)

	CleanupExpired(ctx context.Context) (CleanupReport, error)
}

type Dependencies struct {
	Bookings  repository.BookingRepository
	Locations repository.LocationRepository
	Rates     repository.RateRepository
	Slots     repository.SlotReader
	Cleanup   repository.CleanupStateStore
	Locker    mongotx.Locker
	Distance  scheduling.DistanceProvider
	Hook      scheduling.TransitionHook
	Publisher EventPublisher
	Validator *validator.BookingValidator
}

type bookingService struct {
	repo      repository.BookingRepository
	locations repository.LocationRepository
	rates     repository.RateRepository
	slots     repository.SlotReader
	cleanup   repository.CleanupStateStore
	locker    mongotx.Locker
	resolver  scheduling.LocationResolver
	detector  *scheduling.DistanceConflictDetector
	hook      scheduling.TransitionHook
	publisher EventPublisher
	validator *validator.BookingValidator
	retry     scheduling.RetryPolicy
	cfg       *config.Config
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error
}

func NewBookingService(deps Dependencies, cfg *config.Config) BookingService {
	resolver := NewLocationResolver(deps.Locations)
	return &bookingService{
		repo:      deps.Bookings,
		locations: deps.Locations,
		rates:     deps.Rates,
		slots:     deps.Slots,
		cleanup:   deps.Cleanup,
		locker:    deps.Locker,
		resolver:  resolver,
		detector:  scheduling.NewDistanceConflictDetector(deps.Distance, resolver, cfg.DistanceConfig()),
		hook:      deps.Hook,
		publisher: deps.Publisher,
		validator: deps.Validator,
		retry:     cfg.RetryPolicy(),
		cfg:       cfg,
		now:       time.Now,
		sleep:     sleepContext,
	}
}

func lockKey(photographerID string) string {
	return "bookings:" + photographerID
}

// Quote prices a request and reports a travel conflict without writing anything.
func (s *bookingService) Quote(ctx context.Context, req *model.BookingRequest) (*Quote, error) {
	sanitizeRequest(req)
	if err := s.validator.ValidateRequest(req); err != nil {
		return nil, apperrors.FromDomain(err, "Booking")
	}

	draft := draftFromRequest(req)
	target, price, err := s.price(ctx, draft)
	if err != nil {
		return nil, apperrors.FromDomain(err, "Booking")
	}

	from, to := s.window(draft.StartDatetime, draft.EndDatetime)
	existing, err := s.repo.ListForPhotographer(ctx, draft.PhotographerID, from, to)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings for quote", "photographer_id", draft.PhotographerID, "error", err)
		return nil, apperrors.Internal("Failed to load bookings", err)
	}

	return &Quote{
		Price:            price,
		DistanceConflict: s.detectDistance(ctx, draft, target, existing),
	}, nil
}

// Create stores a Pending booking after checking availability coverage,
// overlap with active bookings and travel time from the previous booking.
// Lost races against a concurrent writer are retried with backoff.
func (s *bookingService) Create(ctx context.Context, req *model.BookingRequest) (*BookingResult, error) {
	sanitizeRequest(req)
	if err := s.validator.ValidateRequest(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "photographer_id", req.PhotographerID, "error", err)
		return nil, apperrors.FromDomain(err, "Booking")
	}

	var result *BookingResult
	err := s.withRetry(ctx, "create_booking", func() error {
		var err error
		result, err = s.create(ctx, draftFromRequest(req))
		return err
	})
	if err != nil {
		s.cfg.Log.Warn("Failed to create booking",
			"photographer_id", req.PhotographerID,
			"user_id", req.UserID,
			"error", err,
		)
		return nil, apperrors.FromDomain(err, "Booking")
	}

	if result.DistanceConflict.HasConflict {
		metrics.RecordDistanceConflict()
	}
	s.publish(ctx, model.EventBookingCreated, result.Booking, "")

	s.cfg.Log.Info("Booking created successfully",
		"id", result.Booking.ID,
		"photographer_id", result.Booking.PhotographerID,
		"start", result.Booking.StartDatetime,
		"end", result.Booking.EndDatetime,
		"total_price", result.Booking.TotalPrice,
		"distance_conflict", result.DistanceConflict.HasConflict,
	)
	return result, nil
}

func (s *bookingService) create(ctx context.Context, booking *model.Booking) (*BookingResult, error) {
	target, price, err := s.price(ctx, booking)
	if err != nil {
		return nil, err
	}
	booking.TotalPrice = price.TotalPrice
	booking.EscrowBalance = 0
	booking.Status = model.StatusPending

	if err := s.validator.ValidateBooking(booking); err != nil {
		return nil, err
	}

	var conflict scheduling.DistanceConflict
	err = mongotx.WithLock(ctx, s.locker, lockKey(booking.PhotographerID), s.cfg.Log, func() error {
		return s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
			existing, err := s.checkAdmissible(sessCtx, booking)
			if err != nil {
				return err
			}
			conflict = s.detectDistance(sessCtx, booking, target, existing)

			booking.ID = ""
			if err := s.repo.Create(sessCtx, booking); err != nil {
				return apperrors.Internal("Failed to create booking", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return &BookingResult{Booking: booking, Price: price, DistanceConflict: conflict}, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to retrieve booking")
	}
	return booking, nil
}

// ListForPhotographer returns one page of bookings of every status that
// intersect [from, to) along with the total count. A zero from means now and
// a zero to means a week after from.
func (s *bookingService) ListForPhotographer(ctx context.Context, photographerID string, from, to time.Time, limit int, offset int64) ([]model.Booking, int64, error) {
	if photographerID == "" {
		return nil, 0, apperrors.InvalidInput("Photographer ID cannot be empty")
	}
	if limit <= 0 {
		return nil, 0, apperrors.InvalidInput("'limit' must be positive")
	}
	if from.IsZero() {
		from = s.now()
	}
	if to.IsZero() {
		to = from.Add(defaultListRange)
	}
	if !to.After(from) {
		return nil, 0, apperrors.InvalidInput("'to' must be after 'from'")
	}
	offset = max(0, offset)

	var count int64
	var bookings []model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountForPhotographer(ctx, photographerID, from, to)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "photographer_id", photographerID, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindPageForPhotographer(ctx, photographerID, from, to, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "photographer_id", photographerID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return bookings, count, nil
}

// Reschedule moves a Pending booking to a new time or place. The booking
// being moved is excluded from its own overlap check.
func (s *bookingService) Reschedule(ctx context.Context, id string, req *model.RescheduleRequest) (*BookingResult, error) {
	req.LocationID = sanitizer.SanitizeID(req.LocationID)
	sanitizeLocation(req.ExternalLocation)
	if err := s.validator.ValidateReschedule(req); err != nil {
		return nil, apperrors.FromDomain(err, "Booking")
	}

	var result *BookingResult
	err := s.withRetry(ctx, "reschedule_booking", func() error {
		var err error
		result, err = s.reschedule(ctx, id, req)
		return err
	})
	if err != nil {
		s.cfg.Log.Warn("Failed to reschedule booking", "id", id, "error", err)
		return nil, apperrors.FromDomain(err, "Booking")
	}

	if result.DistanceConflict.HasConflict {
		metrics.RecordDistanceConflict()
	}
	s.publish(ctx, model.EventBookingRescheduled, result.Booking, "")

	s.cfg.Log.Info("Booking rescheduled",
		"id", id,
		"start", result.Booking.StartDatetime,
		"end", result.Booking.EndDatetime,
		"total_price", result.Booking.TotalPrice,
	)
	return result, nil
}

func (s *bookingService) reschedule(ctx context.Context, id string, req *model.RescheduleRequest) (*BookingResult, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scheduling.CanReschedule(current.Status) {
		return nil, apperrors.Conflict(fmt.Sprintf("Only %s bookings can be rescheduled, booking is %s", model.StatusPending, current.Status))
	}

	moved := *current
	moved.StartDatetime = req.StartDatetime
	moved.EndDatetime = req.EndDatetime
	moved.LocationID = req.LocationID
	moved.ExternalLocation = req.ExternalLocation

	target, price, err := s.price(ctx, &moved)
	if err != nil {
		return nil, err
	}
	moved.TotalPrice = price.TotalPrice

	var conflict scheduling.DistanceConflict
	err = mongotx.WithLock(ctx, s.locker, lockKey(moved.PhotographerID), s.cfg.Log, func() error {
		return s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
			existing, err := s.checkAdmissible(sessCtx, &moved)
			if err != nil {
				return err
			}
			conflict = s.detectDistance(sessCtx, &moved, target, existing)

			if err := s.repo.UpdateSchedule(sessCtx, &moved); err != nil {
				return s.mapRepoError(err, id, "Failed to reschedule booking")
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return &BookingResult{Booking: &moved, Price: price, DistanceConflict: conflict}, nil
}

// --- Lifecycle ---

func (s *bookingService) Confirm(ctx context.Context, id string) (*model.Booking, error) {
	return s.transition(ctx, id, model.StatusConfirmed, scheduling.CanConfirm)
}

func (s *bookingService) Start(ctx context.Context, id string) (*model.Booking, error) {
	return s.transition(ctx, id, model.StatusInProgress, nil)
}

// Complete finishes a session. A Confirmed booking passes through
// In_Progress so every persisted step is a legal transition. The two steps
// are separate conditional updates: if the second loses to a concurrent
// writer the booking stays In_Progress, its hook has fired, and the caller
// gets a retryable conflict. Completing again finishes it.
func (s *bookingService) Complete(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scheduling.CanComplete(booking.Status) {
		return nil, apperrors.FromDomain(&scheduling.IllegalTransitionError{From: booking.Status, To: model.StatusCompleted}, "Booking")
	}
	if booking.Status == model.StatusConfirmed {
		if _, err := s.transition(ctx, id, model.StatusInProgress, nil); err != nil {
			return nil, err
		}
	}
	return s.transition(ctx, id, model.StatusCompleted, scheduling.CanComplete)
}

func (s *bookingService) Cancel(ctx context.Context, id string) (*model.Booking, error) {
	return s.transition(ctx, id, model.StatusCancelled, scheduling.CanCancel)
}

func (s *bookingService) FileComplaint(ctx context.Context, id string) (*model.Booking, error) {
	return s.transition(ctx, id, model.StatusUnderReview, scheduling.CanFileComplaint)
}

func (s *bookingService) ResolveComplaintWithRefund(ctx context.Context, id string) (*model.Booking, error) {
	return s.transition(ctx, id, model.StatusCancelled, scheduling.CanCancelWithRefund)
}

func (s *bookingService) Expire(ctx context.Context, id string) (*model.Booking, error) {
	return s.transition(ctx, id, model.StatusExpired, nil)
}

// transition persists current -> to with a conditional update on the
// current status, then notifies the hook. allowed narrows the lifecycle
// table for operations that only accept some source statuses.
func (s *bookingService) transition(ctx context.Context, id string, to model.BookingStatus, allowed func(model.BookingStatus) bool) (*model.Booking, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := current.Status

	if allowed != nil && !allowed(from) {
		err = &scheduling.IllegalTransitionError{From: from, To: to}
	} else {
		err = scheduling.Transition(from, to)
	}
	if err != nil {
		s.cfg.Log.Warn("Rejected booking transition", "id", id, "from", from, "to", to)
		return nil, apperrors.FromDomain(err, "Booking")
	}

	updated, err := s.repo.UpdateStatus(ctx, id, from, to)
	if err != nil {
		if errors.Is(err, scheduling.ErrConflict) {
			s.cfg.Log.Warn("Booking changed during transition", "id", id, "from", from, "to", to)
			return nil, apperrors.FromDomain(err, "Booking")
		}
		return nil, s.mapRepoError(err, id, "Failed to update booking status")
	}

	metrics.RecordTransition(string(from), string(to))
	s.notify(ctx, updated, from, to)

	s.cfg.Log.Info("Booking status changed", "id", id, "from", from, "to", to)
	return updated, nil
}

// CleanupExpired moves Pending bookings past their confirmation window or
// start time to Expired. Runs closer together than the cooldown are skipped.
func (s *bookingService) CleanupExpired(ctx context.Context) (CleanupReport, error) {
	now := s.now()

	last, err := s.cleanup.LastCleanupAt(ctx)
	if err != nil {
		metrics.RecordCleanup("error")
		return CleanupReport{}, apperrors.Internal("Failed to read cleanup state", err)
	}

	decision := scheduling.DecideCleanup(last, now, s.cfg.CleanupCooldown)
	report := CleanupReport{Ran: decision.ShouldRun, NextEligibleAt: decision.NextEligibleAt}
	if !decision.ShouldRun {
		metrics.RecordCleanup("skipped")
		s.cfg.Log.Debug("Skipping expired booking cleanup", "next_eligible_at", decision.NextEligibleAt)
		return report, nil
	}

	if err := s.cleanup.SetLastCleanupAt(ctx, now); err != nil {
		metrics.RecordCleanup("error")
		return CleanupReport{}, apperrors.Internal("Failed to record cleanup run", err)
	}

	candidates, err := s.repo.FindPendingExpirable(ctx, now.Add(-s.cfg.PendingBookingTTL), now, cleanupBatchSize)
	if err != nil {
		metrics.RecordCleanup("error")
		s.cfg.Log.Error("Failed to load expirable bookings", "error", err)
		return CleanupReport{}, apperrors.Internal("Failed to load expirable bookings", err)
	}

	for i := range candidates {
		b := &candidates[i]
		if !scheduling.IsExpired(b, now, s.cfg.PendingBookingTTL) {
			continue
		}

		updated, err := s.repo.UpdateStatus(ctx, b.ID, model.StatusPending, model.StatusExpired)
		if err != nil {
			if errors.Is(err, scheduling.ErrConflict) || errors.Is(err, bookingserrors.ErrNotFound) {
				continue
			}
			report.Failed++
			s.cfg.Log.Error("Failed to expire booking", "id", b.ID, "error", err)
			continue
		}

		report.Expired++
		metrics.RecordTransition(string(model.StatusPending), string(model.StatusExpired))
		s.notify(ctx, updated, model.StatusPending, model.StatusExpired)
	}

	metrics.RecordExpired(report.Expired)
	if report.Failed > 0 {
		metrics.RecordCleanup("partial")
	} else {
		metrics.RecordCleanup("completed")
	}

	s.cfg.Log.Info("Expired booking cleanup finished",
		"candidates", len(candidates),
		"expired", report.Expired,
		"failed", report.Failed,
	)
	return report, nil
}

// --- Helpers ---

func sanitizeRequest(req *model.BookingRequest) {
	req.UserID = sanitizer.SanitizeID(req.UserID)
	req.PhotographerID = sanitizer.SanitizeID(req.PhotographerID)
	req.LocationID = sanitizer.SanitizeID(req.LocationID)
	req.SpecialRequests = sanitizer.SanitizeFreeText(req.SpecialRequests)
	sanitizeLocation(req.ExternalLocation)
}

func sanitizeLocation(l *model.ExternalLocation) {
	if l == nil {
		return
	}
	l.ID = sanitizer.SanitizeID(l.ID)
	l.Name = sanitizer.NormalizeName(l.Name)
	l.Address = sanitizer.NormalizeAddress(l.Address)
}

func draftFromRequest(req *model.BookingRequest) *model.Booking {
	return &model.Booking{
		UserID:           req.UserID,
		PhotographerID:   req.PhotographerID,
		LocationID:       req.LocationID,
		ExternalLocation: req.ExternalLocation,
		StartDatetime:    req.StartDatetime,
		EndDatetime:      req.EndDatetime,
		SpecialRequests:  req.SpecialRequests,
	}
}

// price resolves where the booking takes place and what it costs there.
func (s *bookingService) price(ctx context.Context, booking *model.Booking) (model.Location, scheduling.PriceCalculation, error) {
	target, err := s.resolver.ResolveLocation(ctx, booking)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrLocationNotFound) || errors.Is(err, bookingserrors.ErrInvalidID) {
			return model.Location{}, scheduling.PriceCalculation{}, apperrors.NotFoundWithID("Location", booking.LocationID)
		}
		return model.Location{}, scheduling.PriceCalculation{}, apperrors.Internal("Failed to resolve location", err)
	}

	rate, err := s.rates.FindByPhotographer(ctx, booking.PhotographerID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrRateNotFound) {
			return model.Location{}, scheduling.PriceCalculation{}, apperrors.NotFoundWithID("Photographer rate", booking.PhotographerID)
		}
		return model.Location{}, scheduling.PriceCalculation{}, apperrors.Internal("Failed to load photographer rate", err)
	}

	calc, err := scheduling.CalculatePrice(rate.HourlyRate, target.HourlyRate, booking.StartDatetime, booking.EndDatetime)
	if err != nil {
		return model.Location{}, scheduling.PriceCalculation{}, err
	}
	return target, scheduling.WithServiceFee(calc, s.cfg.ServiceFeePercent), nil
}

// checkAdmissible loads the photographer's bookings around the candidate and
// rejects it when it is outside their weekly availability or overlaps an
// active booking other than itself. Pending bookings already past their
// confirmation window do not block.
func (s *bookingService) checkAdmissible(ctx context.Context, booking *model.Booking) ([]model.Booking, error) {
	if s.cfg.RequireSlotCoverage {
		if err := s.checkCoverage(ctx, booking); err != nil {
			return nil, err
		}
	}

	from, to := s.window(booking.StartDatetime, booking.EndDatetime)
	existing, err := s.repo.ListForPhotographer(ctx, booking.PhotographerID, from, to)
	if err != nil {
		return nil, apperrors.Internal("Failed to load bookings", err)
	}

	now := s.now()
	var errs scheduling.ValidationErrors
	for _, other := range existing {
		if other.ID == booking.ID || !scheduling.IsActive(other.Status) {
			continue
		}
		if scheduling.IsExpired(&other, now, s.cfg.PendingBookingTTL) {
			continue
		}
		if scheduling.Overlaps(booking.StartDatetime, booking.EndDatetime, other.StartDatetime, other.EndDatetime) {
			errs = append(errs, scheduling.ValidationError{
				Kind:  scheduling.ErrTimeOverlap,
				Code:  "TIME_OVERLAP",
				Field: "startDatetime",
				Message: fmt.Sprintf("overlaps %s booking %s from %s to %s",
					other.Status, other.ID,
					other.StartDatetime.In(s.location()).Format("15:04"),
					other.EndDatetime.In(s.location()).Format("15:04"),
				),
			})
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return existing, nil
}

func (s *bookingService) checkCoverage(ctx context.Context, booking *model.Booking) error {
	start := booking.StartDatetime.In(s.location())
	end := booking.EndDatetime.In(s.location())

	outside := scheduling.ValidationErrors{{
		Code:    "OUTSIDE_AVAILABILITY",
		Field:   "startDatetime",
		Message: fmt.Sprintf("photographer is not available on %s from %s to %s", start.Weekday(), start.Format("15:04"), end.Format("15:04")),
	}}
	if !scheduling.SameDay(start, end, s.location()) {
		return outside
	}

	slots, err := s.slots.ListByPhotographerAndDay(ctx, booking.PhotographerID, model.DayOfWeekOf(start))
	if err != nil {
		return apperrors.Internal("Failed to load availability", err)
	}

	want := scheduling.ClockRange{Start: scheduling.ClockOf(start), End: scheduling.ClockOf(end)}
	for _, slot := range slots {
		if slot.Status != model.SlotAvailable {
			continue
		}
		rng, err := scheduling.ParseClockRange(slot.StartTime, slot.EndTime)
		if err != nil {
			continue
		}
		if rng.Contains(want) {
			return nil
		}
	}
	return outside
}

// detectDistance never fails the caller: an unreachable provider only
// drops the advisory result.
func (s *bookingService) detectDistance(ctx context.Context, booking *model.Booking, target model.Location, existing []model.Booking) scheduling.DistanceConflict {
	candidate := scheduling.Candidate{
		Start:    booking.StartDatetime.In(s.location()),
		End:      booking.EndDatetime.In(s.location()),
		Location: target,
	}

	others := existing
	if booking.ID != "" {
		others = make([]model.Booking, 0, len(existing))
		for _, b := range existing {
			if b.ID != booking.ID {
				others = append(others, b)
			}
		}
	}

	conflict, err := s.detector.Detect(ctx, candidate, others)
	if err != nil {
		s.cfg.Log.Warn("Distance check skipped",
			"photographer_id", booking.PhotographerID,
			"error", err,
		)
		return scheduling.DistanceConflict{}
	}
	return conflict
}

// window covers the candidate's whole local day so the previous booking of
// the day is loaded along with any overlapping one.
func (s *bookingService) window(start, end time.Time) (time.Time, time.Time) {
	dayStart, dayEnd := scheduling.DayBounds(start.In(s.location()))
	if end.After(dayEnd) {
		dayEnd = end
	}
	return dayStart, dayEnd
}

func (s *bookingService) withRetry(ctx context.Context, operation string, fn func() error) error {
	for attempt := 1; ; attempt++ {
		err := fn()
		if !s.retry.ShouldRetry(err, attempt) {
			return err
		}

		// A lost race is often against a stale Pending booking; sweep
		// before trying again.
		if _, cerr := s.CleanupExpired(ctx); cerr != nil {
			s.cfg.Log.Warn("Cleanup before retry failed", "operation", operation, "error", cerr)
		}

		wait := s.retry.Backoff(attempt)
		metrics.RecordRetry(operation)
		s.cfg.Log.Debug("Retrying after concurrent modification",
			"operation", operation,
			"attempt", attempt,
			"backoff", wait,
		)
		if err := s.sleep(ctx, wait); err != nil {
			return apperrors.Timeout("Request cancelled while waiting to retry")
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *bookingService) notify(ctx context.Context, booking *model.Booking, from, to model.BookingStatus) {
	if s.hook == nil {
		return
	}
	if err := s.hook.OnTransition(ctx, booking, from, to); err != nil {
		s.cfg.Log.Error("Transition hook failed",
			"id", booking.ID,
			"from", from,
			"to", to,
			"error", err,
		)
	}
}

func (s *bookingService) publish(ctx context.Context, eventType string, booking *model.Booking, from model.BookingStatus) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, eventType, booking, from); err != nil {
		s.cfg.Log.Error("Failed to publish booking event",
			"event_type", eventType,
			"id", booking.ID,
			"error", err,
		)
	}
}

func (s *bookingService) location() *time.Location {
	if s.cfg.Location != nil {
		return s.cfg.Location
	}
	return time.UTC
}

func (s *bookingService) mapRepoError(err error, id, message string) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid booking ID format")
	case errors.Is(err, scheduling.ErrConflict):
		return err
	}
	s.cfg.Log.Error(message, "id", id, "error", err)
	return apperrors.Internal(message, err)
}
