package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
	ErrorTypeExternal     ErrorType = "EXTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidTitle     ErrorCode = "INVALID_TITLE"
	ErrCodeInvalidPriority  ErrorCode = "INVALID_PRIORITY"
	ErrCodeMissingComment   ErrorCode = "MISSING_COMMENT"
	ErrCodeMissingAssignee  ErrorCode = "MISSING_ASSIGNEE"

	ErrCodeWorkOrderNotFound  ErrorCode = "WORK_ORDER_NOT_FOUND"
	ErrCodeForbiddenAction    ErrorCode = "FORBIDDEN_ACTION"
	ErrCodeInvalidStatus      ErrorCode = "INVALID_WORK_ORDER_STATUS"
	ErrCodeTransitionConflict ErrorCode = "TRANSITION_CONFLICT"

	ErrCodeDepartmentNotFound   ErrorCode = "DEPARTMENT_NOT_FOUND"
	ErrCodeDepartmentExists     ErrorCode = "DEPARTMENT_EXISTS"
	ErrCodeBuiltinDepartment    ErrorCode = "BUILTIN_DEPARTMENT"
	ErrCodeUnknownPermissionID  ErrorCode = "UNKNOWN_PERMISSION_ID"
	ErrCodeInsufficientRights   ErrorCode = "INSUFFICIENT_PERMISSIONS"
	ErrCodeUserNotFound         ErrorCode = "USER_NOT_FOUND"
	ErrCodeInvalidCredentials   ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive         ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken         ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired         ErrorCode = "TOKEN_EXPIRED"
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
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
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

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
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

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
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

var (
	ErrWorkOrderNotFound  = NewNotFoundError("work order not found", ErrCodeWorkOrderNotFound)
	ErrForbiddenAction    = NewForbiddenError("not allowed to perform this action on the work order", ErrCodeForbiddenAction)
	ErrInvalidStatus      = NewValidationError("work order status does not allow this action", ErrCodeInvalidStatus)
	ErrTransitionConflict = NewConflictError("work order was modified concurrently, re-fetch and retry", ErrCodeTransitionConflict)

	ErrDepartmentNotFound = NewNotFoundError("department not found", ErrCodeDepartmentNotFound)
	ErrDepartmentExists   = NewConflictError("department already exists", ErrCodeDepartmentExists)
	ErrBuiltinDepartment  = NewForbiddenError("built-in departments cannot be deleted", ErrCodeBuiltinDepartment)

	ErrInsufficientRights = NewForbiddenError("insufficient permissions", ErrCodeInsufficientRights)

	ErrUserNotFound       = NewNotFoundError("user not found", ErrCodeUserNotFound)
	ErrInvalidCredentials = NewUnauthorizedError("invalid username or password", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewForbiddenError("user account is inactive", ErrCodeUserInactive)
	ErrInvalidToken       = NewUnauthorizedError("invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("token has expired", ErrCodeTokenExpired)
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
