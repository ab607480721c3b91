package booking

import (
	"context"
	"errors"
	"fmt"
	"ms-booking/internal/activities"
	bookingdb "ms-booking/internal/booking/db"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Ledger is the booking persistence layer plus the two capacity primitives.
// ReserveEventSlot must be a single conditional write: the admission decision
// for the last open slot rides on it.
type Ledger interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBookingByID(ctx context.Context, id string) (*models.Booking, error)
	ListBookings(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)
	UpdateBookingPeriod(ctx context.Context, id string, start, end time.Time) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, status string) (*models.Booking, error)
	SetBookingVoucher(ctx context.Context, id string, voucher []byte) error
	DeleteBooking(ctx context.Context, id string) error
	HasOverlappingBooking(ctx context.Context, userID, houseID string, start, end time.Time) (bool, error)
	HasEventBooking(ctx context.Context, userID, eventID string) (bool, error)
	ReserveEventSlot(ctx context.Context, eventID string) (bool, error)
	ReleaseEventSlot(ctx context.Context, eventID string) (bool, error)
}

// Directory resolves the external Event/House resources and the member list.
type Directory interface {
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	GetHouse(ctx context.Context, id string) (*models.House, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// AdmissionLock serializes house admissions per (member, house) pair so the
// overlap check and the insert behind it cannot interleave across requests.
type AdmissionLock interface {
	LockAdmission(userID, houseID, bookingID string) (bool, error)
	UnlockAdmission(userID, houseID, bookingID string) error
}

// CalendarAdjuster mutates a house's unavailable-date set.
type CalendarAdjuster interface {
	BlockRange(ctx context.Context, houseID string, start, end time.Time) error
	FreeRange(ctx context.Context, houseID string, start, end time.Time) error
}

// NotificationSink receives best-effort member notifications.
type NotificationSink interface {
	Send(notification models.BookingNotification) error
}

// VoucherGenerator renders the QR voucher stored on confirmed bookings.
type VoucherGenerator interface {
	GenerateEncryptedQR(booking models.Booking) ([]byte, error)
}

type Service struct {
	Ledger    Ledger
	Directory Directory
	Lock      AdmissionLock
	Calendar  CalendarAdjuster
	Sink      NotificationSink
	Voucher   VoucherGenerator
	Logger    *logger.Logger
}

func NewService(ledger Ledger, directory Directory, lock AdmissionLock, cal CalendarAdjuster, sink NotificationSink, voucher VoucherGenerator, log *logger.Logger) *Service {
	return &Service{
		Ledger:    ledger,
		Directory: directory,
		Lock:      lock,
		Calendar:  cal,
		Sink:      sink,
		Voucher:   voucher,
		Logger:    log,
	}
}

// CreateBookingRequest carries the decoded POST /booking body.
type CreateBookingRequest struct {
	UserID           string             `json:"userId"`
	ActivityID       string             `json:"activity"`
	ActivityCategory string             `json:"activityCategory"`
	PeriodStart      *time.Time         `json:"periodStart,omitempty"`
	PeriodEnd        *time.Time         `json:"periodEnd,omitempty"`
	Participants     []ParticipantInput `json:"participants,omitempty"`
}

type ParticipantInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Age       *int   `json:"age,omitempty"`
	Type      string `json:"type"`
}

// ---------------- ADMISSION ----------------

// CreateBooking runs Capacity Admission Control and, when the request is
// admitted, commits exactly one ledger record.
func (s *Service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.Booking, error) {
	if req.UserID == "" || req.ActivityID == "" || req.ActivityCategory == "" {
		return nil, ErrMissingFields
	}

	user, err := s.Directory.GetUser(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, activities.ErrUserNotFound) {
			return nil, ErrValidation
		}
		return nil, fmt.Errorf("member lookup failed: %w", err)
	}
	if user.Status != models.MemberApproved {
		s.Logger.Warn("ADMISSION", fmt.Sprintf("rejected booking from non-approved member %s (status=%s)", user.ID, user.Status))
		return nil, ErrValidation
	}

	var booking *models.Booking
	if req.ActivityCategory == models.CategoryHouseStay {
		booking, err = s.admitHouseBooking(ctx, req)
	} else {
		booking, err = s.admitEventBooking(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	s.notify(ctx, booking, booking.Status)
	return booking, nil
}

func (s *Service) admitHouseBooking(ctx context.Context, req CreateBookingRequest) (*models.Booking, error) {
	if req.PeriodStart == nil || req.PeriodEnd == nil {
		return nil, ErrInvalidPeriod
	}
	start, end := *req.PeriodStart, *req.PeriodEnd
	if !start.Before(end) {
		return nil, ErrInvalidPeriod
	}

	if _, err := s.Directory.GetHouse(ctx, req.ActivityID); err != nil {
		if errors.Is(err, activities.ErrHouseNotFound) {
			return nil, ErrValidation
		}
		return nil, fmt.Errorf("house lookup failed: %w", err)
	}

	bookingID := uuid.NewString()

	// The overlap check below is read-then-write; the lock keeps a second
	// request for the same (member, house) pair from slipping between the
	// check and the insert.
	locked, err := s.Lock.LockAdmission(req.UserID, req.ActivityID, bookingID)
	if err != nil {
		return nil, fmt.Errorf("admission lock error: %w", err)
	}
	if !locked {
		// A concurrent admission for the same pair is in flight; it either
		// books this period or releases the lock within the TTL.
		return nil, ErrOverlappingBooking
	}
	defer func() {
		if err := s.Lock.UnlockAdmission(req.UserID, req.ActivityID, bookingID); err != nil {
			s.Logger.Error("ADMISSION", fmt.Sprintf("failed to release admission lock for %s/%s: %v", req.UserID, req.ActivityID, err))
		}
	}()

	overlaps, err := s.Ledger.HasOverlappingBooking(ctx, req.UserID, req.ActivityID, start, end)
	if err != nil {
		return nil, fmt.Errorf("overlap check failed: %w", err)
	}
	if overlaps {
		return nil, ErrOverlappingBooking
	}

	booking := &models.Booking{
		ID:               bookingID,
		UserID:           req.UserID,
		ActivityID:       req.ActivityID,
		ActivityModel:    models.ActivityModelHouse,
		ActivityCategory: models.CategoryHouseStay,
		PeriodStart:      start,
		PeriodEnd:        end,
		Status:           models.StatusPending,
		CreatedAt:        time.Now(),
	}
	if err := s.Ledger.CreateBooking(ctx, booking); err != nil {
		s.Logger.Error("LEDGER", fmt.Sprintf("failed to create house booking: %v", err))
		return nil, ErrValidation
	}

	s.Logger.LogBooking("CREATE", booking.ID, fmt.Sprintf("house stay admitted for member %s", req.UserID))
	return booking, nil
}

func (s *Service) admitEventBooking(ctx context.Context, req CreateBookingRequest) (*models.Booking, error) {
	duplicate, err := s.Ledger.HasEventBooking(ctx, req.UserID, req.ActivityID)
	if err != nil {
		return nil, fmt.Errorf("duplicate check failed: %w", err)
	}
	if duplicate {
		return nil, ErrDuplicateEventBooking
	}

	event, err := s.Directory.GetEvent(ctx, req.ActivityID)
	if err != nil {
		if errors.Is(err, activities.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("event lookup failed: %w", err)
	}

	// Reserve the slot first so last-slot fairness is decided by the
	// storage layer, then treat the increment as provisional until the
	// participant details hold up.
	reserved, err := s.Ledger.ReserveEventSlot(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("capacity reservation failed: %w", err)
	}
	if !reserved {
		return nil, ErrEventFull
	}

	if err := validateParticipants(event, req.Participants); err != nil {
		s.releaseSlot(ctx, event.ID, "participant validation failed")
		return nil, err
	}

	participants := make([]models.Participant, 0, len(req.Participants))
	for _, p := range req.Participants {
		age := 0
		if p.Age != nil {
			age = *p.Age
		}
		participants = append(participants, models.Participant{
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Age:       age,
			Type:      p.Type,
		})
	}

	booking := &models.Booking{
		ID:               uuid.NewString(),
		UserID:           req.UserID,
		ActivityID:       event.ID,
		ActivityModel:    models.ActivityModelEvent,
		ActivityCategory: req.ActivityCategory,
		// The booking period is an immutable snapshot of the event dates.
		PeriodStart:  event.StartDate,
		PeriodEnd:    event.EndDate,
		Status:       models.StatusPending,
		CreatedAt:    time.Now(),
		Participants: participants,
	}
	if err := s.Ledger.CreateBooking(ctx, booking); err != nil {
		s.Logger.Error("LEDGER", fmt.Sprintf("failed to create event booking: %v", err))
		s.releaseSlot(ctx, event.ID, "ledger insert failed")
		return nil, ErrValidation
	}

	s.Logger.LogBooking("CREATE", booking.ID, fmt.Sprintf("event booking admitted for member %s on %s", req.UserID, event.ID))
	return booking, nil
}

func (s *Service) releaseSlot(ctx context.Context, eventID, reason string) {
	released, err := s.Ledger.ReleaseEventSlot(ctx, eventID)
	if err != nil {
		s.Logger.Error("CAPACITY", fmt.Sprintf("compensating decrement failed for event %s (%s): %v", eventID, reason, err))
		return
	}
	if !released {
		s.Logger.Warn("CAPACITY", fmt.Sprintf("participant counter for event %s already at zero (%s)", eventID, reason))
	}
}

func validateParticipants(event *models.Event, participants []ParticipantInput) error {
	if event.ChildPresence && event.ChildPrice > 0 {
		if err := validateTypedParticipants(
			participants, models.ParticipantChild, event.NumberOfChildren,
			ErrMissingChildInfo, ErrInvalidChildInfo, ErrTooManyChildren,
		); err != nil {
			return err
		}
	}
	if event.CojoinPresence && event.CojoinPrice > 0 {
		if err := validateTypedParticipants(
			participants, models.ParticipantCojoint, event.NumberOfCompanions,
			ErrMissingCojoinInfo, ErrInvalidCojoinInfo, ErrTooManyCojoin,
		); err != nil {
			return err
		}
	}
	return nil
}

func validateTypedParticipants(participants []ParticipantInput, typ string, max int, missing, invalid, tooMany *AdmissionError) error {
	var matched []ParticipantInput
	for _, p := range participants {
		if p.Type == typ {
			matched = append(matched, p)
		}
	}
	if len(matched) == 0 {
		return missing
	}
	for _, p := range matched {
		if p.FirstName == "" || p.LastName == "" || p.Age == nil {
			return invalid
		}
	}
	if len(matched) > max {
		return tooMany
	}
	return nil
}

// ---------------- LIFECYCLE ----------------

// GetBooking returns one booking by id.
func (s *Service) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.Ledger.GetBookingByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingdb.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

// ListBookings returns the filtered ledger.
func (s *Service) ListBookings(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	return s.Ledger.ListBookings(ctx, filter)
}

// UpdateBookingPeriod is the generic field update behind PUT /booking/{id}.
// Status and capacity-affecting fields are off limits here.
func (s *Service) UpdateBookingPeriod(ctx context.Context, id string, start, end *time.Time) (*models.Booking, error) {
	if start == nil || end == nil {
		return nil, ErrInvalidPeriod
	}
	if !start.Before(*end) {
		return nil, ErrInvalidPeriod
	}
	booking, err := s.Ledger.UpdateBookingPeriod(ctx, id, *start, *end)
	if err != nil {
		if errors.Is(err, bookingdb.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

// UpdateStatus persists the new status and returns the updated record. The
// caller responds to the client first and then hands the booking to
// ApplyStatusSideEffects; the status column is the operation's contract,
// calendar and notification are not.
func (s *Service) UpdateStatus(ctx context.Context, id string, status string) (*models.Booking, error) {
	if status == "" {
		return nil, ErrMissingFields
	}
	booking, err := s.Ledger.UpdateBookingStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, bookingdb.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	s.Logger.LogBooking("STATUS", booking.ID, fmt.Sprintf("status set to %q", status))
	return booking, nil
}

// ApplyStatusSideEffects runs the compensating actions a status transition
// triggers: house-calendar blocking/freeing, voucher issuance, member
// notification. Every failure here is logged and swallowed; the status
// change already happened.
func (s *Service) ApplyStatusSideEffects(ctx context.Context, booking *models.Booking) {
	status := normalizeStatus(booking.Status)

	if booking.IsHouseStay() {
		switch status {
		case models.StatusConfirmed:
			if err := s.Calendar.BlockRange(ctx, booking.ActivityID, booking.PeriodStart, booking.PeriodEnd); err != nil {
				s.Logger.Error("CALENDAR", fmt.Sprintf("failed to block dates for booking %s: %v", booking.ID, err))
			}
		case models.StatusCancelled, models.StatusCompleted:
			if err := s.Calendar.FreeRange(ctx, booking.ActivityID, booking.PeriodStart, booking.PeriodEnd); err != nil {
				s.Logger.Error("CALENDAR", fmt.Sprintf("failed to free dates for booking %s: %v", booking.ID, err))
			}
		}
	}

	if status == models.StatusConfirmed && s.Voucher != nil {
		if qr, err := s.Voucher.GenerateEncryptedQR(*booking); err != nil {
			s.Logger.Error("VOUCHER", fmt.Sprintf("failed to generate voucher for booking %s: %v", booking.ID, err))
		} else if err := s.Ledger.SetBookingVoucher(ctx, booking.ID, qr); err != nil {
			s.Logger.Error("VOUCHER", fmt.Sprintf("failed to store voucher for booking %s: %v", booking.ID, err))
		}
	}

	s.notify(ctx, booking, booking.Status)
}

// DeleteBooking runs the compensating actions a live cancellation would have
// run, then removes the record. Compensations happen synchronously before
// the delete.
func (s *Service) DeleteBooking(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.ActivityModel == models.ActivityModelEvent {
		s.releaseSlot(ctx, booking.ActivityID, "booking deleted")
	}
	if booking.IsHouseStay() && !booking.PeriodStart.IsZero() {
		if err := s.Calendar.FreeRange(ctx, booking.ActivityID, booking.PeriodStart, booking.PeriodEnd); err != nil {
			s.Logger.Error("CALENDAR", fmt.Sprintf("failed to free dates while deleting booking %s: %v", booking.ID, err))
		}
	}

	if err := s.Ledger.DeleteBooking(ctx, id); err != nil {
		if errors.Is(err, bookingdb.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	s.Logger.LogBooking("DELETE", booking.ID, "booking removed with compensations applied")
	s.notify(ctx, booking, "deleted")
	return booking, nil
}

func (s *Service) notify(ctx context.Context, booking *models.Booking, status string) {
	if s.Sink == nil {
		return
	}

	notification := models.BookingNotification{
		BookingID:        booking.ID,
		UserID:           booking.UserID,
		ActivityID:       booking.ActivityID,
		ActivityCategory: booking.ActivityCategory,
		Status:           status,
		PeriodStart:      booking.PeriodStart,
		PeriodEnd:        booking.PeriodEnd,
		OccurredAt:       time.Now(),
	}
	if user, err := s.Directory.GetUser(ctx, booking.UserID); err == nil {
		notification.Email = user.Email
	}

	if err := s.Sink.Send(notification); err != nil {
		s.Logger.Error("NOTIFY", fmt.Sprintf("notification for booking %s not delivered: %v", booking.ID, err))
	}
}

func normalizeStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}
