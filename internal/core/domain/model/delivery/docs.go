// Package delivery provides the canonical delivery record produced by the partner
// mappers, together with its status value object and the scoring rule.
//
// The package includes:
//   - Delivery: The normalized, immutable delivery record
//   - Status: The three-valued delivery status (delivered, cancelled, pending)
//   - Score: The deterministic quality score derived from delivery time and signature
//
// Key business rules:
//   - A delivery is only created through NewDelivery, which computes its score
//   - Delivery timestamps are always stored in UTC
//   - Unrecognized partner statuses normalize to pending before reaching this package
package delivery
