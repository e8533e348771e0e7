package services

import (
	"deliveryingest/internal/core/domain/model/delivery"
)

const (
	// PartnerAKind is the wire format of logistics partner A.
	PartnerAKind = "partner-a"

	// PartnerBKind is the wire format of logistics partner B.
	PartnerBKind = "partner-b"
)

// PartnerASchema reads records like:
//
//	{"deliveryId": "A-1", "supplier": "Acme", "timestamp": "2024-01-01T06:00:00+00:00",
//	 "status": "DELIVERED", "signedBy": "J. Doe"}
//
// The record is signed when signedBy is non-empty.
func PartnerASchema() PartnerSchema {
	return PartnerSchema{
		Kind:          PartnerAKind,
		IDPath:        "deliveryId",
		SupplierPath:  "supplier",
		TimestampPath: "timestamp",
		StatusPath:    "status",
		SignedPath:    "signedBy",
		StatusTable: map[string]delivery.Status{
			"delivered": delivery.Delivered,
			"cancelled": delivery.Cancelled,
			"pending":   delivery.Pending,
		},
	}
}

// PartnerBSchema reads records like:
//
//	{"id": "B-1", "provider": "Bolt", "deliveredAt": "2024-01-01T12:00:00Z",
//	 "statusCode": "OK", "receiver": {"name": "J. Doe", "signed": true}}
//
// statusCode ok means delivered and failed means cancelled.
func PartnerBSchema() PartnerSchema {
	return PartnerSchema{
		Kind:          PartnerBKind,
		IDPath:        "id",
		SupplierPath:  "provider",
		TimestampPath: "deliveredAt",
		StatusPath:    "statusCode",
		SignedPath:    "receiver.signed",
		StatusTable: map[string]delivery.Status{
			"ok":     delivery.Delivered,
			"failed": delivery.Cancelled,
		},
	}
}

// NewPartnerAMapper returns the mapper of partner A records.
func NewPartnerAMapper() *SchemaMapper {
	return MustNewSchemaMapper(PartnerASchema())
}

// NewPartnerBMapper returns the mapper of partner B records.
func NewPartnerBMapper() *SchemaMapper {
	return MustNewSchemaMapper(PartnerBSchema())
}

// MapperForKind returns the built-in mapper of a wire format.
func MapperForKind(kind string) (*SchemaMapper, bool) {
	switch kind {
	case PartnerAKind:
		return NewPartnerAMapper(), true
	case PartnerBKind:
		return NewPartnerBMapper(), true
	default:
		return nil, false
	}
}
