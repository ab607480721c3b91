package booking

import (
	"errors"
	"fmt"
	"net/http"
)

// AdmissionError is a rejection the frontend switches on: Kind is the stable
// errorType string, Code the BOOKING_0xx contract code.
type AdmissionError struct {
	Kind    string
	Code    string
	Status  int
	Message string
}

func (e *AdmissionError) Error() string {
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
}

var (
	ErrMissingFields = &AdmissionError{
		Kind: "missing_fields", Code: "BOOKING_001", Status: http.StatusBadRequest,
		Message: "required fields are missing",
	}
	ErrInvalidPeriod = &AdmissionError{
		Kind: "invalid_period", Code: "BOOKING_002", Status: http.StatusBadRequest,
		Message: "booking period is missing or starts after it ends",
	}
	ErrOverlappingBooking = &AdmissionError{
		Kind: "overlapping_booking", Code: "BOOKING_003", Status: http.StatusConflict,
		Message: "an existing booking for this house overlaps the requested period",
	}
	ErrDuplicateEventBooking = &AdmissionError{
		Kind: "duplicate_event_booking", Code: "BOOKING_004", Status: http.StatusConflict,
		Message: "a booking for this event already exists for this member",
	}
	ErrEventNotFound = &AdmissionError{
		Kind: "event_not_found", Code: "BOOKING_005", Status: http.StatusNotFound,
		Message: "referenced event does not exist",
	}
	ErrEventFull = &AdmissionError{
		Kind: "event_full", Code: "BOOKING_006", Status: http.StatusConflict,
		Message: "the event has reached its participant cap",
	}
	ErrMissingChildInfo = &AdmissionError{
		Kind: "missing_child_info", Code: "BOOKING_007", Status: http.StatusBadRequest,
		Message: "child pricing is active but no child participant was provided",
	}
	ErrInvalidChildInfo = &AdmissionError{
		Kind: "invalid_child_info", Code: "BOOKING_008", Status: http.StatusBadRequest,
		Message: "a child participant is missing name or age",
	}
	ErrTooManyChildren = &AdmissionError{
		Kind: "too_many_children", Code: "BOOKING_009", Status: http.StatusBadRequest,
		Message: "more child participants than the event allows",
	}
	ErrMissingCojoinInfo = &AdmissionError{
		Kind: "missing_cojoin_info", Code: "BOOKING_010", Status: http.StatusBadRequest,
		Message: "companion pricing is active but no companion participant was provided",
	}
	ErrInvalidCojoinInfo = &AdmissionError{
		Kind: "invalid_cojoin_info", Code: "BOOKING_011", Status: http.StatusBadRequest,
		Message: "a companion participant is missing name or age",
	}
	ErrTooManyCojoin = &AdmissionError{
		Kind: "too_many_cojoin", Code: "BOOKING_012", Status: http.StatusBadRequest,
		Message: "more companion participants than the event allows",
	}
	ErrValidation = &AdmissionError{
		Kind: "validation_error", Code: "BOOKING_013", Status: http.StatusBadRequest,
		Message: "the booking could not be validated",
	}
	ErrBookingNotFound = &AdmissionError{
		Kind: "booking_not_found", Code: "BOOKING_014", Status: http.StatusNotFound,
		Message: "booking not found",
	}
)

// AsAdmissionError unwraps err into its admission rejection, if it is one.
func AsAdmissionError(err error) (*AdmissionError, bool) {
	var ae *AdmissionError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
