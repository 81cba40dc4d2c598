package models

// ErrorMessageResponse returns the error message response struct
type ErrorMessageResponse struct {
	Response MessageError
}

// MessageError contains the inner details for the error message response
type MessageError struct {
	Message string
	Error   string
}

// ErrorResponse is the coded error envelope returned for gate and
// validation failures. The code tells the client what the user should do
// next (join vs. wait vs. give up), so it is never collapsed into a
// generic error.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

// Error codes surfaced to clients on rejected room operations
const (
	CodeRoomClosed       = "ROOM_CLOSED"
	CodeNotAMember       = "NOT_A_MEMBER"
	CodeAlreadyJoined    = "ALREADY_JOINED"
	CodeCapacityExceeded = "CAPACITY_EXCEEDED"
	CodeValidationError  = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
)
