package delivery

import (
	"fmt"
	"strings"

	"deliveryingest/internal/pkg/errs"
)

// Status represents the normalized outcome of a partner delivery.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is used for deliveries still in flight and for every partner
	// status code that has no explicit mapping.
	Pending

	// Delivered indicates the goods reached the site.
	Delivered

	// Cancelled indicates the partner reported the delivery as failed or cancelled.
	Cancelled
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Pending:   "pending",
		Delivered: "delivered",
		Cancelled: "cancelled",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:   "pending",
		Delivered: "delivered",
		Cancelled: "cancelled",
	}
}

// ParseStatus converts a persisted status name back into a Status.
// Matching is case-insensitive; unknown names are an error.
func ParseStatus(raw string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	for status, name := range getValidStatusStrings() {
		if name == normalized {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid delivery status", raw))
}

// Validate checks that s is one of pending, delivered or cancelled.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid delivery status", s))
	}
	return nil
}

// String returns the lower-case status name used in storage and the HTTP API.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
