package availability

import "fmt"

// MalformedTimeError reports a work window start or end that could not be
// parsed as "HH:MM". The offending window is dropped, not the whole day.
type MalformedTimeError struct {
	Value string
}

func (e *MalformedTimeError) Error() string {
	return fmt.Sprintf("malformed time %q, expected HH:MM", e.Value)
}

// ConfigurationError reports that no default weekly schedule exists at all.
// It is surfaced to the admin surface and never retried.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configurationError: %s", e.Message)
}

// ErrNoDefaultSchedule is returned by the resolver when the tenant has no
// default weekly schedule document, which is a misconfiguration rather
// than a day off.
var ErrNoDefaultSchedule = &ConfigurationError{Message: "no default weekly schedule configured"}
