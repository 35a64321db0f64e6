package sounding

import "fmt"

// GSLAPIError represents an error from the GSL soundings API
type GSLAPIError struct {
	Message string
	Err     error
}

func (e *GSLAPIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("GSL API error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("GSL API error: %s", e.Message)
}

func (e *GSLAPIError) Unwrap() error {
	return e.Err
}

// NewGSLAPIError creates a new GSL API error
func NewGSLAPIError(message string, err error) *GSLAPIError {
	return &GSLAPIError{
		Message: message,
		Err:     err,
	}
}

// Error when request parameters are outside the supported range
type InvalidRangeError struct {
	Message string
}

func (e *InvalidRangeError) Error() string {
	return e.Message
}

func NewInvalidRangeError(message string) *InvalidRangeError {
	return &InvalidRangeError{
		Message: message,
	}
}
