// Package errors defines domain error values shared across service
// boundaries, with stable codes for API responses.
package errors

// DomainError is an error with a machine-readable code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}
