package domain

import (
	"fmt"
	"strings"
)

// Severity is an ordered weather-risk tier. The zero value is SeverityClear.
type Severity int

const (
	SeverityClear Severity = iota
	SeverityCaution
	SeverityWarning
	SeveritySevere
)

var severityNames = [...]string{"clear", "caution", "warning", "severe"}

func (s Severity) String() string {
	if s < SeverityClear || s > SeveritySevere {
		return fmt.Sprintf("severity(%d)", int(s))
	}
	return severityNames[s]
}

// Color is the route overlay color for the tier.
func (s Severity) Color() string {
	switch s {
	case SeveritySevere:
		return "#ef4444"
	case SeverityWarning:
		return "#f97316"
	case SeverityCaution:
		return "#eab308"
	case SeverityClear:
		return "#22c55e"
	default:
		return "#6b7280"
	}
}

// MarshalText encodes the tier as its lower-case name.
func (s Severity) MarshalText() ([]byte, error) {
	if s < SeverityClear || s > SeveritySevere {
		return nil, fmt.Errorf("%w: unknown severity %d", ErrInvalidInput, int(s))
	}
	return []byte(severityNames[s]), nil
}

// UnmarshalText accepts the lower-case tier name.
func (s *Severity) UnmarshalText(b []byte) error {
	parsed, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSeverity parses a tier name, case-insensitively.
func ParseSeverity(name string) (Severity, error) {
	for i, n := range severityNames {
		if strings.EqualFold(n, name) {
			return Severity(i), nil
		}
	}
	return SeverityClear, fmt.Errorf("%w: unknown severity %q", ErrInvalidInput, name)
}

// Worse returns the more severe of two tiers.
func Worse(a, b Severity) Severity {
	if b > a {
		return b
	}
	return a
}
