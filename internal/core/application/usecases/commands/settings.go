package commands

import "time"

// Default dispatch tunables.
const (
	DefaultCandidatePoolSize = 3
	DefaultMaxExtraRounds    = 2
	DefaultWorkerCapacity    = 3
	DefaultOfferTTL          = 10 * time.Minute
)

// DispatchSettings carries the named dispatch options threaded from
// configuration into the coordinator handlers.
type DispatchSettings struct {
	// CandidatePoolSize is the maximum number of workers offered per round (K).
	CandidatePoolSize int

	// MaxExtraRounds bounds reassignment: after the first round, at most this
	// many additional rounds run before the order escalates to manual review.
	MaxExtraRounds int

	// DefaultWorkerCapacity applies to workers without a configured
	// max_concurrent_jobs limit.
	DefaultWorkerCapacity int

	// OfferTTL is the response window after which open offers expire.
	OfferTTL time.Duration
}

// DefaultDispatchSettings returns the documented defaults.
func DefaultDispatchSettings() DispatchSettings {
	return DispatchSettings{
		CandidatePoolSize:     DefaultCandidatePoolSize,
		MaxExtraRounds:        DefaultMaxExtraRounds,
		DefaultWorkerCapacity: DefaultWorkerCapacity,
		OfferTTL:              DefaultOfferTTL,
	}
}
