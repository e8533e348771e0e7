package ports

import (
	"context"

	"deliveryingest/internal/core/domain/model/kernel"
	"deliveryingest/internal/core/domain/model/partner"
)

// PartnerDeliveryFetcher reads the current delivery list of a partner source.
type PartnerDeliveryFetcher interface {
	// Fetch performs exactly one request to the endpoint configured for source and
	// returns its records untouched. Unknown sources, transport failures, non-success
	// responses and undecodable bodies are reported as *partner.FetchError.
	// Fetch must return promptly when ctx is cancelled.
	Fetch(ctx context.Context, source kernel.SourceID) (partner.RawBatch, error)
}
