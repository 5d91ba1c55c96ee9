package entity

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidURL            = errors.New("invalid url")
	ErrNavigationTimeout     = errors.New("navigation timeout")
	ErrElementNotReady       = errors.New("element not ready")
	ErrConfigurationParse    = errors.New("configuration parse error")
	ErrPasswordMismatch      = errors.New("password confirmation does not match")
	ErrDuplicateRegistration = errors.New("account already registered")
	ErrSessionClosed         = errors.New("session closed")
	ErrElementNotFound       = errors.New("element not found")
)

// NavigationTimeoutError reports that a URL or load state was not reached in time.
type NavigationTimeoutError struct {
	Target     string
	LastURL    string
	Timeout    time.Duration
	Underlying error
}

func (e *NavigationTimeoutError) Error() string {
	msg := fmt.Sprintf("navigation to %s not completed within %s", e.Target, e.Timeout)
	if e.LastURL != "" {
		msg += " (current url " + e.LastURL + ")"
	}
	if e.Underlying != nil {
		msg += ": " + e.Underlying.Error()
	}
	return msg
}

func (e *NavigationTimeoutError) Is(target error) bool {
	return target == ErrNavigationTimeout
}

func (e *NavigationTimeoutError) Unwrap() error {
	return e.Underlying
}

type ElementNotReadyError struct {
	Selector   string
	State      ElementState
	Timeout    time.Duration
	Underlying error
}

func (e *ElementNotReadyError) Error() string {
	msg := fmt.Sprintf("element %s not %s within %s", e.Selector, e.State, e.Timeout)
	if e.Underlying != nil {
		msg += ": " + e.Underlying.Error()
	}
	return msg
}

func (e *ElementNotReadyError) Is(target error) bool {
	return target == ErrElementNotReady
}

func (e *ElementNotReadyError) Unwrap() error {
	return e.Underlying
}

// ConfigurationParseError is never fatal: the setting falls back to its default.
type ConfigurationParseError struct {
	Key      string
	Value    string
	Fallback string
	Reason   string
}

func (e *ConfigurationParseError) Error() string {
	return fmt.Sprintf("%s=%q: %s, using %s", e.Key, e.Value, e.Reason, e.Fallback)
}

func (e *ConfigurationParseError) Is(target error) bool {
	return target == ErrConfigurationParse
}

// RegistrationError classifies a failed registration submit. It unwraps to both
// the reason (ErrPasswordMismatch, ErrDuplicateRegistration) and the navigation error.
type RegistrationError struct {
	Email  string
	Reason error
	Err    error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("register %s: %v: %v", e.Email, e.Reason, e.Err)
}

func (e *RegistrationError) Unwrap() []error {
	return []error{e.Reason, e.Err}
}
