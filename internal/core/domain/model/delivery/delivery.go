package delivery

import (
	"errors"
	"strings"
	"time"

	"deliveryingest/internal/core/domain/model/kernel"
	"deliveryingest/internal/pkg/errs"
)

var (
	// ErrDeliveryIsNotConstructed is returned when a Delivery instance was not created through
	// the NewDelivery factory method.
	ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery constructor")
)

// Delivery is the canonical delivery record every partner payload is normalized into.
//
// Delivery follows these invariants:
//   - id, supplier and siteID are non-empty
//   - deliveredAt is non-zero and expressed in UTC
//   - status is one of Pending, Delivered, Cancelled
//   - score always equals Score(deliveredAt, signed); it is computed once at construction
//
// A Delivery has no mutators and is safe to share between goroutines.
type Delivery struct {
	// id is the partner-assigned delivery identifier
	id string

	// supplier is the supplying company as reported by the partner
	supplier string

	// deliveredAt is the delivery moment, normalized to UTC
	deliveredAt time.Time

	status Status
	signed bool

	// siteID identifies the construction site the run was executed for
	siteID string

	// source is the partner source the record was fetched from
	source kernel.SourceID

	score float64

	isConstructed bool
}

// NewDelivery validates its inputs and creates a Delivery with its score computed.
//
// Parameters:
//   - id: Partner delivery identifier (required)
//   - supplier: Supplier name (required)
//   - deliveredAt: Delivery moment, any location; stored in UTC (required)
//   - status: Normalized status (must be valid)
//   - signed: Whether the receiver signed for the delivery
//   - siteID: Site the ingestion run belongs to (required)
//   - source: Partner source (required)
//
// Returns:
//   - *Delivery: The created delivery if all validations pass
//   - error: All validation errors joined together
//
// Example:
//
//	at, _ := time.Parse(time.RFC3339, "2024-01-01T06:00:00+00:00")
//	d, err := delivery.NewDelivery("D1", "S", at, delivery.Delivered, true, "site-1", "A")
//	// d.Score() == 1.2
func NewDelivery(
	id string,
	supplier string,
	deliveredAt time.Time,
	status Status,
	signed bool,
	siteID string,
	source kernel.SourceID,
) (*Delivery, error) {
	d := &Delivery{
		signed:        signed,
		isConstructed: true,
	}

	if err := errors.Join(
		d.setID(id),
		d.setSupplier(supplier),
		d.setDeliveredAt(deliveredAt),
		d.setStatus(status),
		d.setSiteID(siteID),
		d.setSource(source),
	); err != nil {
		return nil, err
	}

	d.score = Score(d.deliveredAt, d.signed)
	return d, nil
}

// Validate ensures the Delivery instance was created through NewDelivery.
func (d *Delivery) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDeliveryIsNotConstructed
	}
	return nil
}

// ID returns the partner delivery identifier.
func (d *Delivery) ID() string {
	return d.id
}

// Supplier returns the supplier name.
func (d *Delivery) Supplier() string {
	return d.supplier
}

// DeliveredAt returns the delivery moment in UTC.
func (d *Delivery) DeliveredAt() time.Time {
	return d.deliveredAt
}

// Status returns the normalized delivery status.
func (d *Delivery) Status() Status {
	return d.status
}

// Signed reports whether the receiver signed for the delivery.
func (d *Delivery) Signed() bool {
	return d.signed
}

// SiteID returns the site the delivery was ingested for.
func (d *Delivery) SiteID() string {
	return d.siteID
}

// Source returns the partner source of the delivery.
func (d *Delivery) Source() kernel.SourceID {
	return d.source
}

// Score returns the delivery score computed at construction.
func (d *Delivery) Score() float64 {
	return d.score
}

func (d *Delivery) setID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errs.NewValueIsRequiredError("id")
	}
	d.id = id
	return nil
}

func (d *Delivery) setSupplier(supplier string) error {
	if strings.TrimSpace(supplier) == "" {
		return errs.NewValueIsRequiredError("supplier")
	}
	d.supplier = supplier
	return nil
}

func (d *Delivery) setDeliveredAt(deliveredAt time.Time) error {
	if deliveredAt.IsZero() {
		return errs.NewValueIsRequiredError("deliveredAt")
	}
	d.deliveredAt = deliveredAt.UTC()
	return nil
}

func (d *Delivery) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	d.status = status
	return nil
}

func (d *Delivery) setSiteID(siteID string) error {
	if strings.TrimSpace(siteID) == "" {
		return errs.NewValueIsRequiredError("siteId")
	}
	d.siteID = siteID
	return nil
}

func (d *Delivery) setSource(source kernel.SourceID) error {
	if err := source.Validate(); err != nil {
		return err
	}
	d.source = source
	return nil
}
