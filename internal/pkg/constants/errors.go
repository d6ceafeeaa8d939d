package constants

import (
	"errors"
	"net/http"
)

// CodedError is an error that knows which HTTP status it should be answered with.
type CodedError struct {
	msg  string
	code int
}

func NewCodedError(msg string, code int) *CodedError {
	return &CodedError{msg: msg, code: code}
}

func (e *CodedError) Error() string {
	return e.msg
}

func (e *CodedError) Code() int {
	return e.code
}

var (
	ErrBadRequest       = NewCodedError("Missing required parameters", http.StatusBadRequest)
	ErrProviderNotFound = NewCodedError("Service provider not found", http.StatusNotFound)
	ErrHouseNotFound    = NewCodedError("house not found", http.StatusNotFound)
	ErrCSVNotFound      = NewCodedError("CSV file not found", http.StatusNotFound)
	ErrNoData           = NewCodedError("no data found", http.StatusNotFound)
	ErrDBNotFound       = NewCodedError("not found in db", http.StatusNotFound)
)

// CodeOf returns the HTTP status carried by the first CodedError in err's chain.
func CodeOf(err error) int {
	var ce *CodedError
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return http.StatusInternalServerError
}
