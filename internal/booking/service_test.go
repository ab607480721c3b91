package booking_test

import (
	"context"
	"errors"
	"ms-booking/internal/activities"
	"ms-booking/internal/booking"
	bookingdb "ms-booking/internal/booking/db"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock implementations

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) CreateBooking(ctx context.Context, b *models.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockLedger) GetBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockLedger) ListBookings(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *MockLedger) UpdateBookingPeriod(ctx context.Context, id string, start, end time.Time) (*models.Booking, error) {
	args := m.Called(ctx, id, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockLedger) UpdateBookingStatus(ctx context.Context, id string, status string) (*models.Booking, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockLedger) SetBookingVoucher(ctx context.Context, id string, voucher []byte) error {
	args := m.Called(ctx, id, voucher)
	return args.Error(0)
}

func (m *MockLedger) DeleteBooking(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLedger) HasOverlappingBooking(ctx context.Context, userID, houseID string, start, end time.Time) (bool, error) {
	args := m.Called(ctx, userID, houseID, start, end)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedger) HasEventBooking(ctx context.Context, userID, eventID string) (bool, error) {
	args := m.Called(ctx, userID, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedger) ReserveEventSlot(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedger) ReleaseEventSlot(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockDirectory) GetHouse(ctx context.Context, id string) (*models.House, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.House), args.Error(1)
}

func (m *MockDirectory) GetUser(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockLock struct {
	mock.Mock
}

func (m *MockLock) LockAdmission(userID, houseID, bookingID string) (bool, error) {
	args := m.Called(userID, houseID, bookingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLock) UnlockAdmission(userID, houseID, bookingID string) error {
	args := m.Called(userID, houseID, bookingID)
	return args.Error(0)
}

type MockCalendar struct {
	mock.Mock
}

func (m *MockCalendar) BlockRange(ctx context.Context, houseID string, start, end time.Time) error {
	args := m.Called(ctx, houseID, start, end)
	return args.Error(0)
}

func (m *MockCalendar) FreeRange(ctx context.Context, houseID string, start, end time.Time) error {
	args := m.Called(ctx, houseID, start, end)
	return args.Error(0)
}

type MockSink struct {
	mock.Mock
}

func (m *MockSink) Send(n models.BookingNotification) error {
	args := m.Called(n)
	return args.Error(0)
}

type MockVoucher struct {
	mock.Mock
}

func (m *MockVoucher) GenerateEncryptedQR(b models.Booking) ([]byte, error) {
	args := m.Called(b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type fixture struct {
	ledger    *MockLedger
	directory *MockDirectory
	lock      *MockLock
	calendar  *MockCalendar
	sink      *MockSink
	voucher   *MockVoucher
	service   *booking.Service
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		ledger:    &MockLedger{},
		directory: &MockDirectory{},
		lock:      &MockLock{},
		calendar:  &MockCalendar{},
		sink:      &MockSink{},
		voucher:   &MockVoucher{},
	}
	f.service = booking.NewService(f.ledger, f.directory, f.lock, f.calendar, f.sink, f.voucher, logger.NewLogger())
	return f
}

func approvedMember(id string) *models.User {
	return &models.User{ID: id, Email: id + "@example.com", FullName: "Membre Test", Status: models.MemberApproved}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

func houseRequest(start, end time.Time) booking.CreateBookingRequest {
	return booking.CreateBookingRequest{
		UserID:           "member1",
		ActivityID:       "house1",
		ActivityCategory: models.CategoryHouseStay,
		PeriodStart:      &start,
		PeriodEnd:        &end,
	}
}

func tripEvent() *models.Event {
	return &models.Event{
		ID:              "event1",
		Name:            "Voyage à Rome",
		StartDate:       day(2026, 4, 10),
		EndDate:         day(2026, 4, 17),
		MaxParticipants: 40,
	}
}

// ---------------- ADMISSION ----------------

func TestCreateBookingMissingFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.CreateBooking(context.Background(), booking.CreateBookingRequest{UserID: "member1"})
	assert.ErrorIs(t, err, booking.ErrMissingFields)
}

func TestCreateBookingRejectsUnapprovedMember(t *testing.T) {
	f := newFixture(t)
	f.directory.On("GetUser", mock.Anything, "member1").Return(&models.User{ID: "member1", Status: models.MemberPending}, nil)

	req := houseRequest(day(2024, 7, 1), day(2024, 7, 10))
	_, err := f.service.CreateBooking(context.Background(), req)
	assert.ErrorIs(t, err, booking.ErrValidation)
	f.ledger.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestHouseBookingInvalidPeriod(t *testing.T) {
	f := newFixture(t)
	f.directory.On("GetUser", mock.Anything, "member1").Return(approvedMember("member1"), nil)

	// Missing period entirely.
	req := booking.CreateBookingRequest{
		UserID:           "member1",
		ActivityID:       "house1",
		ActivityCategory: models.CategoryHouseStay,
	}
	_, err := f.service.CreateBooking(context.Background(), req)
	assert.ErrorIs(t, err, booking.ErrInvalidPeriod)

	// Start after end.
	req = houseRequest(day(2024, 7, 10), day(2024, 7, 1))
	_, err = f.service.CreateBooking(context.Background(), req)
	assert.ErrorIs(t, err, booking.ErrInvalidPeriod)

	// Start equal to end.
	req = houseRequest(day(2024, 7, 1), day(2024, 7, 1))
	_, err = f.service.CreateBooking(context.Background(), req)
	assert.ErrorIs(t, err, booking.ErrInvalidPeriod)
}

func TestHouseBookingOverlapRejected(t *testing.T) {
	f := newFixture(t)
	f.directory.On("GetUser", mock.Anything, "member1").Return(approvedMember("member1"), nil)
	f.directory.On("GetHouse", mock.Anything, "house1").Return(&models.House{ID: "house1"}, nil)
	f.lock.On("LockAdmission", "member1", "house1", mock.Anything).Return(true, nil)
	f.lock.On("UnlockAdmission", "member1", "house1", mock.Anything).Return(nil)
	f.ledger.On("HasOverlappingBooking", mock.Anything, "member1", "house1", day(2024, 7, 5), day(2024, 7, 15)).Return(true, nil)

	_, err := f.service.CreateBooking(context.Background(), houseRequest(day(2024, 7, 5), day(2024, 7, 15)))
	assert.ErrorIs(t, err, booking.ErrOverlappingBooking)

	// Rejected before any write, and the admission lock is released.
	f.ledger.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
	f.lock.AssertCalled(t, "UnlockAdmission", "member1", "house1", mock.Anything)
}

func TestHouseBookingLockContention(t *testing.T) {
	f := newFixture(t)
	f.directory.On("GetUser", mock.Anything, "member1").Return(approvedMember("member1"), nil)
	f.directory.On("GetHouse", mock.Anything, "house1").Return(&models.House{ID: "house1"}, nil)
	f.lock.On("LockAdmission", "member1", "house1", mock.Anything).Return(false, nil)

	_, err := f.service.CreateBooking(context.Background(), houseRequest(day(2024, 7, 1), day(2024, 7, 10)))
	assert.ErrorIs(t, err, booking.ErrOverlappingBooking)
	f.ledger.AssertNotCalled(t, "HasOverlappingBooking", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHouseBookingSuccess(t *testing.T) {
	f := newFixture(t)
	f.directory.On("GetUser", mock.Anything, "member1").Return(approvedMember("member1"), nil)
	f.directory.On("GetHouse", mock.Anything, "house1").Return(&models.House{ID: "house1"}, nil)
	f.lock.On("LockAdmission", "member1", "house1", mock.Anything).Return(true, nil)
	f.lock.On("UnlockAdmission", "member1", "house1", mock.Anything).Return(nil)
	f.ledger.On("HasOverlappingBooking", mock.Anything, "member1", "house1", day(2024, 7, 11), day(2024, 7, 20)).Return(false, nil)
	f.ledger.On("CreateBooking", mock.Anything, mock.Anything).Return(nil)
	f.sink.On("Send", mock.Anything).Return(nil)

	created, err := f.service.CreateBooking(context.Background(), houseRequest(day(2024, 7, 11), day(2024, 7, 20)))
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, models.ActivityModelHouse, created.ActivityModel)
	assert.NotEmpty(t, created.ID)

	f.sink.AssertCalled(t, "Send", mock.Anything)
}

func TestEventBookingDuplicateRejected(t *testing.T) {
	f := newFixture(t)
	f.directory.On("GetUser", mock.Anything, "member1").Return(approvedMember("member1"), nil)
	f.ledger.On("HasEventBooking", mock.Anything, "member1", "event1").Return(true, nil)

	req := booking.CreateBookingRequest{
		UserID:           "member1",
		ActivityID:       "event1",
		ActivityCategory: models.CategoryTrip,
	}
	_, err := f.service.CreateBooking(context.Background(), req)
	assert.ErrorIs(t, err, booking.ErrDuplicateEventBooking)
	f.ledger.AssertNotCalled(t, "ReserveEventSlot", mock.Anything, mock.Anything)
}

func TestEventBookingEventNotFound(t *testing.T) {
	f := newFixture(t)
	f.directory.On("GetUser", mock.Anything, "member1").Return(approvedMember("member1"), nil)
	f.ledger.On("HasEventBooking", mock.Anything, "member1", "missing").Return(false, nil)
	f.directory.On("GetEvent", mock.Anything, "missing").Return(nil, activities.ErrEventNotFound)

	req := booking.CreateBookingRequest{
		UserID:           "member1",
		ActivityID:       "missing",
		ActivityCategory: models.CategoryTrip,
	}
	_, err := f.service.CreateBooking(context.Background(), req)
	assert.ErrorIs(t, err, booking.ErrEventNotFound)
}

func TestEventBookingFull(t *testing.T) {
	f := newFixture(t)
	f.directory.On("GetUser", mock.Anything, "member1").Return(approvedMember("member1"), nil)
	f.ledger.On("HasEventBooking", mock.Anything, "member1", "event1").Return(false, nil)
	f.directory.On("GetEvent", mock.Anything, "event1").Return(tripEvent(), nil)
	f.ledger.On("ReserveEventSlot", mock.Anything, "event1").Return(false, nil)

	req := booking.CreateBookingRequest{
		UserID:           "member1",
		ActivityID:       "event1",
		ActivityCategory: models.CategoryTrip,
	}
	_, err := f.service.CreateBooking(context.Background(), req)
	assert.ErrorIs(t, err, booking.ErrEventFull)
	f.ledger.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
	f.ledger.AssertNotCalled(t, "ReleaseEventSlot", mock.Anything, mock.Anything)
}

func TestEventBookingSnapshotsPeriod(t *testing.T) {
	f := newFixture(t)
	f.directory.On("GetUser", mock.Anything, "member1").Return(approvedMember("member1"), nil)
	f.ledger.On("HasEventBooking", mock.Anything, "member1", "event1").Return(false, nil)
	f.directory.On("GetEvent", mock.Anything, "event1").Return(tripEvent(), nil)
	f.ledger.On("ReserveEventSlot", mock.Anything, "event1").Return(true, nil)
	f.ledger.On("CreateBooking", mock.Anything, mock.Anything).Return(nil)
	f.sink.On("Send", mock.Anything).Return(nil)

	req := booking.CreateBookingRequest{
		UserID:           "member1",
		ActivityID:       "event1",
		ActivityCategory: models.CategoryTrip,
	}
	created, err := f.service.CreateBooking(context.Background(), req)
	require.NoError(t, err)

	// The booking period is copied from the event, not chosen by the member.
	assert.Equal(t, day(2026, 4, 10), created.PeriodStart)
	assert.Equal(t, day(2026, 4, 17), created.PeriodEnd)
	assert.Equal(t, models.ActivityModelEvent, created.ActivityModel)
}

func childEvent(numberOfChildren int) *models.Event {
	event := tripEvent()
	event.ChildPresence = true
	event.ChildPrice = 250
	event.NumberOfChildren = numberOfChildren
	return event
}

func childParticipant(first string) booking.ParticipantInput {
	return booking.ParticipantInput{FirstName: first, LastName: "Dupont", Age: ptr(9), Type: models.ParticipantChild}
}

func TestEventBookingChildValidation(t *testing.T) {
	cases := []struct {
		name         string
		participants []booking.ParticipantInput
		wantErr      *booking.AdmissionError
	}{
		{
			name:         "no child participant",
			participants: nil,
			wantErr:      booking.ErrMissingChildInfo,
		},
		{
			name: "child without age",
			participants: []booking.ParticipantInput{
				{FirstName: "Nina", LastName: "Dupont", Type: models.ParticipantChild},
			},
			wantErr: booking.ErrInvalidChildInfo,
		},
		{
			name: "child without name",
			participants: []booking.ParticipantInput{
				{FirstName: "", LastName: "Dupont", Age: ptr(9), Type: models.ParticipantChild},
			},
			wantErr: booking.ErrInvalidChildInfo,
		},
		{
			name: "too many children",
			participants: []booking.ParticipantInput{
				childParticipant("Nina"), childParticipant("Paul"), childParticipant("Zoé"),
			},
			wantErr: booking.ErrTooManyChildren,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.directory.On("GetUser", mock.Anything, "member1").Return(approvedMember("member1"), nil)
			f.ledger.On("HasEventBooking", mock.Anything, "member1", "event1").Return(false, nil)
			f.directory.On("GetEvent", mock.Anything, "event1").Return(childEvent(2), nil)
			f.ledger.On("ReserveEventSlot", mock.Anything, "event1").Return(true, nil)
			f.ledger.On("ReleaseEventSlot", mock.Anything, "event1").Return(true, nil)

			req := booking.CreateBookingRequest{
				UserID:           "member1",
				ActivityID:       "event1",
				ActivityCategory: models.CategoryTrip,
				Participants:     tc.participants,
			}
			_, err := f.service.CreateBooking(context.Background(), req)
			assert.ErrorIs(t, err, tc.wantErr)

			// The provisional increment must not survive a validation failure.
			f.ledger.AssertCalled(t, "ReleaseEventSlot", mock.Anything, "event1")
			f.ledger.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
		})
	}
}

func TestEventBookingWithValidChildren(t *testing.T) {
	f := newFixture(t)
	f.directory.On("GetUser", mock.Anything, "member1").Return(approvedMember("member1"), nil)
	f.ledger.On("HasEventBooking", mock.Anything, "member1", "event1").Return(false, nil)
	f.directory.On("GetEvent", mock.Anything, "event1").Return(childEvent(2), nil)
	f.ledger.On("ReserveEventSlot", mock.Anything, "event1").Return(true, nil)
	f.ledger.On("CreateBooking", mock.Anything, mock.Anything).Return(nil)
	f.sink.On("Send", mock.Anything).Return(nil)

	req := booking.CreateBookingRequest{
		UserID:           "member1",
		ActivityID:       "event1",
		ActivityCategory: models.CategoryTrip,
		Participants:     []booking.ParticipantInput{childParticipant("Nina"), childParticipant("Paul")},
	}
	created, err := f.service.CreateBooking(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, created.Participants, 2)
	f.ledger.AssertNotCalled(t, "ReleaseEventSlot", mock.Anything, mock.Anything)
}

func TestEventBookingLedgerFailureRollsBackSlot(t *testing.T) {
	f := newFixture(t)
	f.directory.On("GetUser", mock.Anything, "member1").Return(approvedMember("member1"), nil)
	f.ledger.On("HasEventBooking", mock.Anything, "member1", "event1").Return(false, nil)
	f.directory.On("GetEvent", mock.Anything, "event1").Return(tripEvent(), nil)
	f.ledger.On("ReserveEventSlot", mock.Anything, "event1").Return(true, nil)
	f.ledger.On("CreateBooking", mock.Anything, mock.Anything).Return(errors.New("insert failed"))
	f.ledger.On("ReleaseEventSlot", mock.Anything, "event1").Return(true, nil)

	req := booking.CreateBookingRequest{
		UserID:           "member1",
		ActivityID:       "event1",
		ActivityCategory: models.CategoryTrip,
	}
	_, err := f.service.CreateBooking(context.Background(), req)
	assert.ErrorIs(t, err, booking.ErrValidation)
	f.ledger.AssertCalled(t, "ReleaseEventSlot", mock.Anything, "event1")
}

// ---------------- LIFECYCLE ----------------

func TestUpdateStatusRequiresValue(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.UpdateStatus(context.Background(), "booking1", "")
	assert.ErrorIs(t, err, booking.ErrMissingFields)
}

func TestUpdateStatusNotFound(t *testing.T) {
	f := newFixture(t)
	f.ledger.On("UpdateBookingStatus", mock.Anything, "missing", models.StatusConfirmed).Return(nil, bookingdb.ErrNotFound)

	_, err := f.service.UpdateStatus(context.Background(), "missing", models.StatusConfirmed)
	assert.ErrorIs(t, err, booking.ErrBookingNotFound)
}

func houseBooking(status string) *models.Booking {
	return &models.Booking{
		ID:               "booking1",
		UserID:           "member1",
		ActivityID:       "house1",
		ActivityModel:    models.ActivityModelHouse,
		ActivityCategory: models.CategoryHouseStay,
		PeriodStart:      day(2024, 7, 1),
		PeriodEnd:        day(2024, 7, 10),
		Status:           status,
	}
}

func TestConfirmHouseBookingBlocksCalendar(t *testing.T) {
	f := newFixture(t)
	b := houseBooking("Confirmé") // case-insensitive matching

	f.calendar.On("BlockRange", mock.Anything, "house1", b.PeriodStart, b.PeriodEnd).Return(nil)
	f.voucher.On("GenerateEncryptedQR", mock.Anything).Return([]byte("qr"), nil)
	f.ledger.On("SetBookingVoucher", mock.Anything, "booking1", []byte("qr")).Return(nil)
	f.directory.On("GetUser", mock.Anything, "member1").Return(approvedMember("member1"), nil)
	f.sink.On("Send", mock.Anything).Return(nil)

	f.service.ApplyStatusSideEffects(context.Background(), b)

	f.calendar.AssertCalled(t, "BlockRange", mock.Anything, "house1", b.PeriodStart, b.PeriodEnd)
	f.ledger.AssertCalled(t, "SetBookingVoucher", mock.Anything, "booking1", []byte("qr"))
	f.sink.AssertCalled(t, "Send", mock.Anything)
}

func TestCancelHouseBookingFreesCalendar(t *testing.T) {
	f := newFixture(t)
	b := houseBooking(models.StatusCancelled)

	f.calendar.On("FreeRange", mock.Anything, "house1", b.PeriodStart, b.PeriodEnd).Return(nil)
	f.directory.On("GetUser", mock.Anything, "member1").Return(approvedMember("member1"), nil)
	f.sink.On("Send", mock.Anything).Return(nil)

	f.service.ApplyStatusSideEffects(context.Background(), b)

	f.calendar.AssertCalled(t, "FreeRange", mock.Anything, "house1", b.PeriodStart, b.PeriodEnd)
	f.calendar.AssertNotCalled(t, "BlockRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCompleteHouseBookingFreesCalendar(t *testing.T) {
	f := newFixture(t)
	b := houseBooking(models.StatusCompleted)

	f.calendar.On("FreeRange", mock.Anything, "house1", b.PeriodStart, b.PeriodEnd).Return(nil)
	f.directory.On("GetUser", mock.Anything, "member1").Return(approvedMember("member1"), nil)
	f.sink.On("Send", mock.Anything).Return(nil)

	f.service.ApplyStatusSideEffects(context.Background(), b)

	f.calendar.AssertCalled(t, "FreeRange", mock.Anything, "house1", b.PeriodStart, b.PeriodEnd)
}

func TestEventStatusChangeTouchesNoCalendar(t *testing.T) {
	f := newFixture(t)
	b := &models.Booking{
		ID:               "booking1",
		UserID:           "member1",
		ActivityID:       "event1",
		ActivityModel:    models.ActivityModelEvent,
		ActivityCategory: models.CategoryTrip,
		Status:           models.StatusCancelled,
	}

	f.directory.On("GetUser", mock.Anything, "member1").Return(approvedMember("member1"), nil)
	f.sink.On("Send", mock.Anything).Return(nil)

	f.service.ApplyStatusSideEffects(context.Background(), b)

	f.calendar.AssertNotCalled(t, "BlockRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.calendar.AssertNotCalled(t, "FreeRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestNotificationFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	b := houseBooking(models.StatusConfirmed)

	f.calendar.On("BlockRange", mock.Anything, "house1", b.PeriodStart, b.PeriodEnd).Return(nil)
	f.voucher.On("GenerateEncryptedQR", mock.Anything).Return([]byte("qr"), nil)
	f.ledger.On("SetBookingVoucher", mock.Anything, "booking1", []byte("qr")).Return(nil)
	f.directory.On("GetUser", mock.Anything, "member1").Return(approvedMember("member1"), nil)
	f.sink.On("Send", mock.Anything).Return(errors.New("smtp down"))

	// Must not panic or propagate; the status change already happened.
	f.service.ApplyStatusSideEffects(context.Background(), b)

	f.sink.AssertCalled(t, "Send", mock.Anything)
}

// ---------------- DELETION ----------------

func TestDeleteEventBookingDecrementsCounter(t *testing.T) {
	f := newFixture(t)
	b := &models.Booking{
		ID:               "booking1",
		UserID:           "member1",
		ActivityID:       "event1",
		ActivityModel:    models.ActivityModelEvent,
		ActivityCategory: models.CategoryTrip,
		PeriodStart:      day(2026, 4, 10),
		PeriodEnd:        day(2026, 4, 17),
		Status:           models.StatusConfirmed,
	}

	f.ledger.On("GetBookingByID", mock.Anything, "booking1").Return(b, nil)
	f.ledger.On("ReleaseEventSlot", mock.Anything, "event1").Return(true, nil)
	f.ledger.On("DeleteBooking", mock.Anything, "booking1").Return(nil)
	f.directory.On("GetUser", mock.Anything, "member1").Return(approvedMember("member1"), nil)
	f.sink.On("Send", mock.Anything).Return(nil)

	deleted, err := f.service.DeleteBooking(context.Background(), "booking1")
	require.NoError(t, err)
	assert.Equal(t, "booking1", deleted.ID)
	f.ledger.AssertCalled(t, "ReleaseEventSlot", mock.Anything, "event1")
}

func TestDeleteHouseBookingFreesCalendar(t *testing.T) {
	f := newFixture(t)
	b := houseBooking(models.StatusConfirmed)

	f.ledger.On("GetBookingByID", mock.Anything, "booking1").Return(b, nil)
	f.calendar.On("FreeRange", mock.Anything, "house1", b.PeriodStart, b.PeriodEnd).Return(nil)
	f.ledger.On("DeleteBooking", mock.Anything, "booking1").Return(nil)
	f.directory.On("GetUser", mock.Anything, "member1").Return(approvedMember("member1"), nil)
	f.sink.On("Send", mock.Anything).Return(nil)

	_, err := f.service.DeleteBooking(context.Background(), "booking1")
	require.NoError(t, err)
	f.calendar.AssertCalled(t, "FreeRange", mock.Anything, "house1", b.PeriodStart, b.PeriodEnd)
	f.ledger.AssertNotCalled(t, "ReleaseEventSlot", mock.Anything, mock.Anything)
}

func TestDeleteBookingNotFound(t *testing.T) {
	f := newFixture(t)
	f.ledger.On("GetBookingByID", mock.Anything, "missing").Return(nil, bookingdb.ErrNotFound)

	_, err := f.service.DeleteBooking(context.Background(), "missing")
	assert.ErrorIs(t, err, booking.ErrBookingNotFound)
}
