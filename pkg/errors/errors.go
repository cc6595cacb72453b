package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents network-related errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeParsing represents JSON or HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeValidation represents user input validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeStorage represents watchlist persistence errors
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeNotification represents alert delivery errors
	ErrorTypeNotification ErrorType = "notification"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// WatchError represents an error from one of the watcher components
type WatchError struct {
	Type      ErrorType
	Component string
	Message   string
	Err       error
	Time      time.Time
}

// Error implements the error interface
func (e *WatchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Component, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Component, e.Message)
}

// Unwrap returns the underlying error
func (e *WatchError) Unwrap() error {
	return e.Err
}

// New creates a new WatchError
func New(errType ErrorType, component, message string, err error) *WatchError {
	return &WatchError{
		Type:      errType,
		Component: component,
		Message:   message,
		Err:       err,
		Time:      time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(component, message string, err error) *WatchError {
	return New(ErrorTypeNetwork, component, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(component, message string, err error) *WatchError {
	return New(ErrorTypeParsing, component, message, err)
}

// NewValidation creates a new validation error
func NewValidation(component, message string) *WatchError {
	return New(ErrorTypeValidation, component, message, nil)
}

// NewStorage creates a new storage error
func NewStorage(component, message string, err error) *WatchError {
	return New(ErrorTypeStorage, component, message, err)
}

// NewNotification creates a new notification error
func NewNotification(component, message string, err error) *WatchError {
	return New(ErrorTypeNotification, component, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *WatchError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// IsType reports whether err is a WatchError of the given type
func IsType(err error, t ErrorType) bool {
	var we *WatchError
	if errors.As(err, &we) {
		return we.Type == t
	}
	return false
}
