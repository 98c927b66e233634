package bizerror

import (
	"errors"
	"net/http"
	"strings"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidPassword = errors.New("invalid password")
)

type BizError interface {
	Respond() *BizErrorDetail
}

type BizErrorDetail struct {
	Status  int
	Code    string
	Message string

	Data  interface{}
	Cause error
}

// FieldError is one (field, reason) pair of a validation failure.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type ErrBadParam struct {
	Cause  error
	Fields []FieldError
}

func BadParam(field, reason string) *ErrBadParam {
	return &ErrBadParam{Fields: []FieldError{{Field: field, Reason: reason}}}
}

func (e *ErrBadParam) Append(field, reason string) *ErrBadParam {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
	return e
}

func (e *ErrBadParam) HasErrors() bool {
	return len(e.Fields) > 0 || e.Cause != nil
}

func (e *ErrBadParam) Unwrap() error {
	return e.Cause
}

func (e *ErrBadParam) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	if len(e.Fields) > 0 {
		reasons := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			reasons = append(reasons, f.Field+": "+f.Reason)
		}
		return strings.Join(reasons, "; ")
	}
	return "common.bad_param"
}

func (e *ErrBadParam) Respond() *BizErrorDetail {
	message := "common.bad_param"
	if e.Cause != nil {
		message = e.Cause.Error()
	} else if len(e.Fields) > 0 {
		message = e.Error()
	}
	var data interface{}
	if len(e.Fields) > 0 {
		data = e.Fields
	}
	return &BizErrorDetail{Status: http.StatusBadRequest, Code: "common.bad_param", Message: message, Data: data}
}

// ErrTooManyRequests is raised by the request rate limiter.
type ErrTooManyRequests struct {
}

func (e *ErrTooManyRequests) Error() string {
	return "too many requests"
}

func (e *ErrTooManyRequests) Respond() *BizErrorDetail {
	return &BizErrorDetail{Status: http.StatusTooManyRequests, Code: "common.too_many_requests",
		Message: "too many requests from this client, please try again later"}
}
