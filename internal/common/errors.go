package common

import "errors"

type Code string

const (
	CodeUnauthorized         Code = "unauthorized"
	CodeForbidden            Code = "forbidden"
	CodeAccessDenied         Code = "access_denied"
	CodeNotFound             Code = "not_found"
	CodeValidation           Code = "validation_failed"
	CodeJobUnavailable       Code = "job_unavailable"
	CodeMissingCompany       Code = "missing_company"
	CodeDuplicateApplication Code = "duplicate_application"
	CodeDuplicateInquiry     Code = "duplicate_inquiry"
	CodeInvalidStage         Code = "invalid_stage"
	CodeConflict             Code = "conflict"
	CodeRateLimited          Code = "rate_limited"
	CodeInternal             Code = "internal"
)

// Error is the one error type that crosses layer boundaries. Repositories and
// services classify every failure into exactly one Code; handlers map the code
// to an HTTP status.
type Error struct {
	Code    Code
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(code Code, message string, err error) error {
	return &Error{Code: code, Message: message, Err: err}
}

func NewValidationError(message string, fields map[string]string) error {
	return &Error{Code: CodeValidation, Message: message, Fields: fields}
}

func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// CodeOf returns the classification of err, or CodeInternal for anything that
// escaped classification.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}
