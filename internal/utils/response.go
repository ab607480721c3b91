package utils

import (
	"encoding/json"
	"net/http"
)

// APIResponse is the envelope every booking endpoint answers with. ErrorType
// and ErrorCode are stable strings the frontend switches on to pick a
// localized message.
type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	BookingID string      `json:"bookingId,omitempty"`
	ErrorType string      `json:"errorType,omitempty"`
	ErrorCode string      `json:"errorCode,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func WriteSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	WriteJSON(w, status, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func WriteError(w http.ResponseWriter, status int, message, errorType, errorCode string) {
	WriteJSON(w, status, APIResponse{
		Success:   false,
		Message:   message,
		ErrorType: errorType,
		ErrorCode: errorCode,
	})
}
