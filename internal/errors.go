package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeBusinessRule ErrorType = "BUSINESS_RULE"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeRateLimited  ErrorType = "RATE_LIMITED"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidBody        ErrorCode = "INVALID_BODY"
	ErrCodeInvalidAmount      ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidDescription ErrorCode = "INVALID_DESCRIPTION"
	ErrCodeInvalidDate        ErrorCode = "INVALID_DATE"
	ErrCodeInvalidType        ErrorCode = "INVALID_TYPE"
	ErrCodeInvalidReference   ErrorCode = "INVALID_REFERENCE"

	ErrCodeDuplicateName ErrorCode = "DUPLICATE_NAME"
	ErrCodeStillInUse    ErrorCode = "STILL_IN_USE"

	ErrCodeUserNotFound         ErrorCode = "USER_NOT_FOUND"
	ErrCodeCategoryNotFound     ErrorCode = "CATEGORY_NOT_FOUND"
	ErrCodeBeneficiaryNotFound  ErrorCode = "BENEFICIARY_NOT_FOUND"
	ErrCodeTransactionNotFound  ErrorCode = "TRANSACTION_NOT_FOUND"
	ErrCodeGiftOccasionNotFound ErrorCode = "GIFT_OCCASION_NOT_FOUND"
	ErrCodeGiftEntryNotFound    ErrorCode = "GIFT_ENTRY_NOT_FOUND"
	ErrCodeGiftPurchaseNotFound ErrorCode = "GIFT_PURCHASE_NOT_FOUND"
	ErrCodeImageNotFound        ErrorCode = "IMAGE_NOT_FOUND"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenRevoked       ErrorCode = "TOKEN_REVOKED"
	ErrCodeEmailRegistered    ErrorCode = "EMAIL_REGISTERED"
	ErrCodeWeakPassword       ErrorCode = "WEAK_PASSWORD"
	ErrCodeInvalidResetToken  ErrorCode = "INVALID_RESET_TOKEN"
	ErrCodeResetTokenUsed     ErrorCode = "RESET_TOKEN_USED"
	ErrCodeResetTokenExpired  ErrorCode = "RESET_TOKEN_EXPIRED"

	ErrCodeInvalidFile  ErrorCode = "INVALID_FILE"
	ErrCodeFileTooLarge ErrorCode = "FILE_TOO_LARGE"

	ErrCodeTooManyRequests ErrorCode = "TOO_MANY_REQUESTS"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
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
	return e.GetDetailedMessage()
}

func (e *AppError) GetDetailedMessage() string {
	if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
		messages := make([]string, len(validationErrors.Errors))
		for i, err := range validationErrors.Errors {
			messages[i] = err.Message
		}
		return strings.Join(messages, "; ")
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// Is matches on code so package-level sentinels work with errors.Is even
// though constructors return fresh values.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.StatusCode == t.StatusCode
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
		StatusCode: http.StatusUnprocessableEntity,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

// NewBusinessRuleError covers conflicts and rule violations that the client
// can fix by changing the request, such as duplicate names or weak passwords.
func NewBusinessRuleError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeBusinessRule,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// NewInvalidReferenceError reports a foreign id in the request body that
// points at nothing.
func NewInvalidReferenceError(entity string) *AppError {
	return NewBusinessRuleError(entity+" not found", ErrCodeInvalidReference)
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

func NewRateLimitedError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeRateLimited,
		Code:       ErrCodeTooManyRequests,
		Message:    message,
		StatusCode: http.StatusTooManyRequests,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrUserNotFound         = NewNotFoundError("User not found", ErrCodeUserNotFound)
	ErrCategoryNotFound     = NewNotFoundError("Category not found", ErrCodeCategoryNotFound)
	ErrBeneficiaryNotFound  = NewNotFoundError("Beneficiary not found", ErrCodeBeneficiaryNotFound)
	ErrTransactionNotFound  = NewNotFoundError("Transaction not found", ErrCodeTransactionNotFound)
	ErrGiftOccasionNotFound = NewNotFoundError("Gift occasion not found", ErrCodeGiftOccasionNotFound)
	ErrGiftEntryNotFound    = NewNotFoundError("Gift entry not found", ErrCodeGiftEntryNotFound)
	ErrGiftPurchaseNotFound = NewNotFoundError("Gift purchase not found", ErrCodeGiftPurchaseNotFound)
	ErrImageNotFound        = NewNotFoundError("Image not found", ErrCodeImageNotFound)

	ErrInvalidBody = NewValidationError("Invalid request body", ErrCodeInvalidBody)

	ErrInvalidCredentials = NewUnauthorizedError("Incorrect email or password", ErrCodeInvalidCredentials)
	ErrCouldNotValidate   = NewUnauthorizedError("Could not validate credentials", ErrCodeInvalidToken)
	ErrTokenRevoked       = NewUnauthorizedError("Token has been revoked", ErrCodeTokenRevoked)
	ErrUserInactive       = NewForbiddenError("User account is inactive", ErrCodeUserInactive)
	ErrInactiveUser       = NewForbiddenError("Inactive user", ErrCodeUserInactive)

	ErrEmailRegistered   = NewBusinessRuleError("Email already registered", ErrCodeEmailRegistered)
	ErrInvalidResetToken = NewBusinessRuleError("Invalid reset token", ErrCodeInvalidResetToken)
	ErrResetTokenUsed    = NewBusinessRuleError("Reset token has already been used", ErrCodeResetTokenUsed)
	ErrResetTokenExpired = NewBusinessRuleError("Reset token has expired", ErrCodeResetTokenExpired)

	ErrFileNotImage = NewBusinessRuleError("File must be an image", ErrCodeInvalidFile)
	ErrFileTooLarge = NewBusinessRuleError("File too large", ErrCodeFileTooLarge)

	ErrTooManyRequests = NewRateLimitedError("Too many requests")
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Detail string            `json:"detail"`
	Code   ErrorCode         `json:"code,omitempty"`
	Errors []ValidationError `json:"errors,omitempty"`
}

func (e *AppError) ToHTTPResponse() (int, ErrorResponse) {
	resp := ErrorResponse{
		Detail: e.GetDetailedMessage(),
		Code:   e.Code,
	}
	if details, ok := e.Details.(ValidationErrors); ok {
		resp.Errors = details.Errors
	}
	return e.StatusCode, resp
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	_, resp := e.ToHTTPResponse()
	return json.Marshal(resp)
}
