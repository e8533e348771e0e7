package job

import (
	"fmt"
	"strings"

	"deliveryingest/internal/pkg/errs"
)

// Status represents the lifecycle state of an ingestion job.
//
// State transitions:
//
//	Processing ──┬──> Finished
//	             └──> Failed
//
// Created is accepted when parsing persisted jobs; the ingestion use case creates
// jobs directly in Processing.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Created is a registered job that has not started yet.
	Created

	// Processing indicates the ingestion run is in progress.
	Processing

	// Finished indicates the run completed, possibly with some partner sources failing.
	Finished

	// Failed indicates the run could not produce a usable result, e.g. it was cancelled.
	Failed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "UNKNOWN",
		Created:    "CREATED",
		Processing: "PROCESSING",
		Finished:   "FINISHED",
		Failed:     "FAILED",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Created:    "CREATED",
		Processing: "PROCESSING",
		Finished:   "FINISHED",
		Failed:     "FAILED",
	}
}

// ParseStatus converts a persisted status name ("PROCESSING", ...) into a Status.
func ParseStatus(raw string) (Status, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	for status, name := range getValidStatusStrings() {
		if name == normalized {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid job status", raw))
}

// Validate checks if the Status value is valid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid job status", s))
	}
	return nil
}

// String returns the upper-case status name.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Finish transitions Processing -> Finished.
func (s Status) Finish() (Status, error) {
	if s != Processing {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to finish", s.String()),
		)
	}
	return Finished, nil
}

// Fail transitions Processing -> Failed.
func (s Status) Fail() (Status, error) {
	if s != Processing {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to fail", s.String()),
		)
	}
	return Failed, nil
}
