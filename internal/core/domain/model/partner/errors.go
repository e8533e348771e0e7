package partner

import (
	"fmt"

	"deliveryingest/internal/core/domain/model/kernel"
)

// FetchError reports that a partner source could not be fetched: unknown source,
// transport failure, non-success status or an undecodable body.
type FetchError struct {
	Source kernel.SourceID
	Detail string
	Cause  error
}

func NewFetchError(source kernel.SourceID, detail string) *FetchError {
	return &FetchError{Source: source, Detail: detail}
}

func NewFetchErrorWithCause(source kernel.SourceID, detail string, cause error) *FetchError {
	return &FetchError{Source: source, Detail: detail, Cause: cause}
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch %s failed: %s: %v", e.Source, e.Detail, e.Cause)
	}
	return fmt.Sprintf("fetch %s failed: %s", e.Source, e.Detail)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// MappingError reports that a raw record could not be normalized because of Field.
type MappingError struct {
	Field  string
	Reason string
}

func NewMappingError(field, reason string) *MappingError {
	return &MappingError{Field: field, Reason: reason}
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("mapping failed: %s: %s", e.Field, e.Reason)
}

// ConfigurationError reports a source without a registered mapper. It is a
// deployment problem and is never absorbed by the pipeline.
type ConfigurationError struct {
	Source kernel.SourceID
}

func NewConfigurationError(source kernel.SourceID) *ConfigurationError {
	return &ConfigurationError{Source: source}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("no mapper registered for partner source %q", e.Source)
}
