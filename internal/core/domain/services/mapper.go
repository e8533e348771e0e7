package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"deliveryingest/internal/core/domain/model/delivery"
	"deliveryingest/internal/core/domain/model/kernel"
	"deliveryingest/internal/core/domain/model/partner"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// Mapper normalizes one raw partner record into a canonical delivery.
// Failures are reported as *partner.MappingError.
type Mapper interface {
	Map(source kernel.SourceID, siteID string, raw partner.RawRecord) (*delivery.Delivery, error)
}

// PartnerSchema describes where a partner keeps each canonical field. Paths are
// JMESPath expressions evaluated against the raw record.
type PartnerSchema struct {
	// Kind names the wire format, e.g. "partner-a"
	Kind string

	IDPath        string
	SupplierPath  string
	TimestampPath string
	StatusPath    string
	SignedPath    string

	// StatusTable maps lower-cased partner status values; anything else is Pending
	StatusTable map[string]delivery.Status
}

// Validate checks that every path is present and compiles.
func (s PartnerSchema) Validate() error {
	_, err := s.compile()
	return err
}

// compiledPaths holds the schema paths compiled once per mapper. Compiled
// expressions are safe for concurrent use.
type compiledPaths struct {
	id        jmespath.JMESPath
	supplier  jmespath.JMESPath
	timestamp jmespath.JMESPath
	status    jmespath.JMESPath
	signed    jmespath.JMESPath
}

func (s PartnerSchema) compile() (compiledPaths, error) {
	if strings.TrimSpace(s.Kind) == "" {
		return compiledPaths{}, errors.New("schema kind is required")
	}

	var compiled compiledPaths
	paths := []struct {
		field  string
		expr   string
		target *jmespath.JMESPath
	}{
		{"id", s.IDPath, &compiled.id},
		{"supplier", s.SupplierPath, &compiled.supplier},
		{"timestamp", s.TimestampPath, &compiled.timestamp},
		{"status", s.StatusPath, &compiled.status},
		{"signed", s.SignedPath, &compiled.signed},
	}
	var errs []error
	for _, path := range paths {
		if strings.TrimSpace(path.expr) == "" {
			errs = append(errs, fmt.Errorf("%s: %s path is required", s.Kind, path.field))
			continue
		}
		expr, err := jmespath.Compile(path.expr)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %s path %q: %w", s.Kind, path.field, path.expr, err))
			continue
		}
		*path.target = expr
	}
	if err := errors.Join(errs...); err != nil {
		return compiledPaths{}, err
	}
	return compiled, nil
}

// SchemaMapper is a Mapper driven by a PartnerSchema.
type SchemaMapper struct {
	schema PartnerSchema
	paths  compiledPaths
}

var _ Mapper = (*SchemaMapper)(nil)

// NewSchemaMapper validates the schema and compiles its paths.
func NewSchemaMapper(schema PartnerSchema) (*SchemaMapper, error) {
	paths, err := schema.compile()
	if err != nil {
		return nil, err
	}
	return &SchemaMapper{schema: schema, paths: paths}, nil
}

// MustNewSchemaMapper is NewSchemaMapper for schemas fixed at compile time.
func MustNewSchemaMapper(schema PartnerSchema) *SchemaMapper {
	m, err := NewSchemaMapper(schema)
	if err != nil {
		panic(err)
	}
	return m
}

// Kind returns the wire format handled by the mapper.
func (m *SchemaMapper) Kind() string {
	return m.schema.Kind
}

// Map extracts the canonical fields from raw and builds the delivery.
//
// Rules:
//   - id and supplier must be non-empty strings
//   - the timestamp must be an ISO 8601 string carrying an explicit offset; it is never assumed UTC
//   - a missing, non-string or unknown status becomes Pending
//   - signed follows the truthiness of the signed path (non-empty string, true, non-zero number)
func (m *SchemaMapper) Map(source kernel.SourceID, siteID string, raw partner.RawRecord) (*delivery.Delivery, error) {
	if raw == nil {
		return nil, partner.NewMappingError("record", "record is not an object")
	}

	id, err := m.requiredString(raw, "id", m.paths.id)
	if err != nil {
		return nil, err
	}
	supplier, err := m.requiredString(raw, "supplier", m.paths.supplier)
	if err != nil {
		return nil, err
	}
	deliveredAt, err := m.timestamp(raw)
	if err != nil {
		return nil, err
	}

	d, err := delivery.NewDelivery(
		id,
		supplier,
		deliveredAt,
		m.status(raw),
		truthy(search(m.paths.signed, raw)),
		siteID,
		source,
	)
	if err != nil {
		return nil, partner.NewMappingError("delivery", err.Error())
	}
	return d, nil
}

func (m *SchemaMapper) requiredString(raw partner.RawRecord, field string, path jmespath.JMESPath) (string, error) {
	value := search(path, raw)
	if value == nil {
		return "", partner.NewMappingError(field, "missing")
	}
	str, ok := value.(string)
	if !ok {
		return "", partner.NewMappingError(field, fmt.Sprintf("expected string, got %T", value))
	}
	if strings.TrimSpace(str) == "" {
		return "", partner.NewMappingError(field, "empty")
	}
	return str, nil
}

func (m *SchemaMapper) timestamp(raw partner.RawRecord) (time.Time, error) {
	value := search(m.paths.timestamp, raw)
	if value == nil {
		return time.Time{}, partner.NewMappingError("timestamp", "missing")
	}
	str, ok := value.(string)
	if !ok {
		return time.Time{}, partner.NewMappingError("timestamp", fmt.Sprintf("expected string, got %T", value))
	}
	parsed, err := ParseTimestamp(str)
	if err != nil {
		return time.Time{}, partner.NewMappingError("timestamp", err.Error())
	}
	return parsed, nil
}

func (m *SchemaMapper) status(raw partner.RawRecord) delivery.Status {
	str, ok := search(m.paths.status, raw).(string)
	if !ok {
		return delivery.Pending
	}
	if status, found := m.schema.StatusTable[strings.ToLower(strings.TrimSpace(str))]; found {
		return status
	}
	return delivery.Pending
}

// timestampLayouts are tried in order; each requires a zone offset or "Z".
// Offsets may be written +hh:mm, +hhmm or +hh, and the basic format
// 20240101T060000+0100 is accepted.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999-0700",
	"2006-01-02 15:04:05.999999999-0700",
	"2006-01-02T15:04:05.999999999-07",
	"2006-01-02 15:04:05.999999999-07",
	"20060102T150405.999999999Z0700",
	"20060102T150405.999999999Z07",
}

// localLayouts match timestamps that lack an offset, to report that precisely.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"20060102T150405.999999999",
}

// ParseTimestamp parses an ISO 8601 timestamp that carries an explicit offset and
// returns it in UTC. Timestamps without an offset are rejected.
func ParseTimestamp(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.UTC(), nil
		}
	}
	for _, layout := range localLayouts {
		if _, err := time.Parse(layout, trimmed); err == nil {
			return time.Time{}, fmt.Errorf("%q has no timezone offset", value)
		}
	}
	return time.Time{}, fmt.Errorf("%q is not an ISO 8601 timestamp", value)
}

// search evaluates a compiled path; evaluation errors read as absent.
func search(path jmespath.JMESPath, raw partner.RawRecord) any {
	value, err := path.Search(map[string]any(raw))
	if err != nil {
		return nil
	}
	return value
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	case int:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}
