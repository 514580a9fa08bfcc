package service

import "fmt"

// ServiceError represents an error in the service layer
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

// Unwrap returns the underlying error
func (e *ServiceError) Unwrap() error {
	return e.Err
}
