package llm

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Tier pairs a model identifier with the call that exercises it.
type Tier[T any] struct {
	Model string
	Run   func(ctx context.Context) (T, error)
}

// RunTiered tries each tier in order and returns the first success along with
// the model that produced it. Only a quota-classified failure advances to the
// next tier; any other failure, and any failure of the last tier, propagates
// immediately.
func RunTiered[T any](ctx context.Context, tiers []Tier[T]) (T, string, error) {
	var zero T
	for i, tier := range tiers {
		v, err := tier.Run(ctx)
		if err == nil {
			return v, tier.Model, nil
		}
		if i == len(tiers)-1 || !IsQuotaError(err) {
			return zero, tier.Model, err
		}
		log.Warn().Err(err).
			Str("model", tier.Model).
			Str("fallback", tiers[i+1].Model).
			Msg("quota exhausted, falling back to next model")
	}
	return zero, "", nil // unreachable for non-empty tiers
}
