package errors

import "fmt"

// UserError is the interface an error has to comply to to be consumable by an
// external client of the API.
type UserError interface {
	Status() int
	Code() string
	Message() string
	Cause() error
}

// ConcreteUserError is the materialization of a UserError for marshalling.
type ConcreteUserError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Build constructs a ConcreteUserError from a UserError.
func Build(err UserError) *ConcreteUserError {
	return &ConcreteUserError{
		Status:  err.Status(),
		Code:    err.Code(),
		Message: err.Message(),
	}
}

// NewUserError creates a new error marked as a UserError with the provided
// status, code and message.
func NewUserError(
	other error,
	status int,
	code string,
	message string,
) error {
	err := &wrap{
		errStatus:  status,
		errCode:    code,
		errMessage: message,
		previous:   other,
	}
	err.setLocation(1)
	return err
}

// NewUserErrorf creates a new error marked as a UserError with the provided
// status, code and formatted message.
func NewUserErrorf(
	other error,
	status int,
	code string,
	format string,
	args ...interface{},
) error {
	err := &wrap{
		errStatus:  status,
		errCode:    code,
		errMessage: fmt.Sprintf(format, args...),
		previous:   other,
	}
	err.setLocation(1)
	return err
}

// ExtractUserError returns the error as a UserError if it was marked as such,
// nil otherwise.
func ExtractUserError(err error) UserError {
	if e, ok := err.(UserError); ok {
		if e.Status() != 0 {
			return e
		}
	}
	return nil
}
