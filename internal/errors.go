package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidTimeRange ErrorCode = "INVALID_TIME_RANGE"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"

	ErrCodeEmployeeNotFound     ErrorCode = "EMPLOYEE_NOT_FOUND"
	ErrCodeShiftNotFound        ErrorCode = "SHIFT_NOT_FOUND"
	ErrCodeSwapNotFound         ErrorCode = "SWAP_NOT_FOUND"
	ErrCodeTenantNotFound       ErrorCode = "TENANT_NOT_FOUND"
	ErrCodeItemNotFound         ErrorCode = "ITEM_NOT_FOUND"
	ErrCodeAttendanceNotFound   ErrorCode = "ATTENDANCE_NOT_FOUND"
	ErrCodeAvailabilityNotFound ErrorCode = "AVAILABILITY_NOT_FOUND"

	ErrCodeShiftOverlap       ErrorCode = "SHIFT_OVERLAP"
	ErrCodeInvalidSwapState   ErrorCode = "INVALID_SWAP_STATE"
	ErrCodeActiveSwapExists   ErrorCode = "ACTIVE_SWAP_EXISTS"
	ErrCodeAlreadyClockedIn   ErrorCode = "ALREADY_CLOCKED_IN"
	ErrCodeNotClockedIn       ErrorCode = "NOT_CLOCKED_IN"
	ErrCodeEmployeeReferenced ErrorCode = "EMPLOYEE_REFERENCED"

	ErrCodeForbidden ErrorCode = "FORBIDDEN"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	return &AppError{
		Type:       e.Type,
		Code:       e.Code,
		Message:    e.Message,
		Details:    e.Details,
		StatusCode: e.StatusCode,
		Cause:      cause,
	}
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// Tenant-scope misses surface as NotFound, never Forbidden, so a caller
// cannot probe for entities in other tenants.
var (
	ErrEmployeeNotFound     = NewNotFoundError("Employee not found in your tenant", ErrCodeEmployeeNotFound)
	ErrShiftNotFound        = NewNotFoundError("Shift not found", ErrCodeShiftNotFound)
	ErrSwapNotFound         = NewNotFoundError("Swap not found", ErrCodeSwapNotFound)
	ErrTenantNotFound       = NewNotFoundError("Tenant not found", ErrCodeTenantNotFound)
	ErrAttendanceNotFound   = NewNotFoundError("Attendance record not found", ErrCodeAttendanceNotFound)
	ErrAvailabilityNotFound = NewNotFoundError("Availability entry not found", ErrCodeAvailabilityNotFound)
	ErrItemNotFound         = NewNotFoundError("Inventory item not found", ErrCodeItemNotFound)

	ErrForbidden = NewForbiddenError("Forbidden", ErrCodeForbidden)

	ErrInvalidTimeRange = NewValidationError("end must be after start", ErrCodeInvalidTimeRange)

	ErrShiftOverlap       = NewConflictError("Overlapping shift exists", ErrCodeShiftOverlap)
	ErrInvalidSwapState   = NewConflictError("Invalid swap state", ErrCodeInvalidSwapState)
	ErrActiveSwapExists   = NewConflictError("An active swap already exists for this shift", ErrCodeActiveSwapExists)
	ErrAlreadyClockedIn   = NewConflictError("Already clocked in", ErrCodeAlreadyClockedIn)
	ErrNotClockedIn       = NewConflictError("Not currently clocked in", ErrCodeNotClockedIn)
	ErrEmployeeReferenced = NewConflictError("Employee still has shifts or attendance records", ErrCodeEmployeeReferenced)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
