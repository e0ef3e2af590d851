package services

import (
	"errors"
	"sort"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/worker"
)

var (
	// ErrNoWorkersAvailable is returned when no worker in the region passes the
	// eligibility filter at all, before capacity is even considered.
	ErrNoWorkersAvailable = errors.New("no workers available in region")

	// ErrWorkersOverbooked is returned when eligible workers exist in the region
	// but every one of them is at or over capacity. Downstream handling differs
	// from ErrNoWorkersAvailable, so the two are distinguished explicitly.
	ErrWorkersOverbooked = errors.New("all workers in region are at capacity")

	// ErrCandidatePoolExhausted is returned during reassignment when every
	// eligible worker in the region has already been offered this order.
	// The coordinator escalates this to manual review.
	ErrCandidatePoolExhausted = errors.New("all eligible workers have already been offered this order")
)

// CandidateSelector is a pure domain service that picks the workers to invite
// for an order. Given a region, an exclusion set of previously offered workers
// and a snapshot of the directory, it filters by eligibility and capacity and
// ranks the survivors.
//
// Ranking prefers proven-but-less-loaded workers: rating descending, with
// total completed jobs ascending as the tie-break. The result is capped at the
// configured pool size.
//
// Selection is a side-effect-free read; capacity seen here is an eventually
// consistent snapshot and is re-checked atomically when an offer is accepted.
type CandidateSelector struct {
	poolSize        int
	defaultCapacity int
}

// NewCandidateSelector creates a selector with the given candidate pool size
// and the capacity fallback applied to workers without a configured limit.
func NewCandidateSelector(poolSize, defaultCapacity int) CandidateSelector {
	return CandidateSelector{
		poolSize:        poolSize,
		defaultCapacity: defaultCapacity,
	}
}

// Select returns the ranked candidates for an order in the given region.
//
// The serviceType is carried for audit context only; the worker directory
// qualifies workers per region, not per service.
//
// Failure modes:
//   - ErrNoWorkersAvailable: nobody eligible in the region (pre-capacity)
//   - ErrWorkersOverbooked: eligible workers exist but all are full
func (s CandidateSelector) Select(
	region kernel.RegionCode,
	serviceType string,
	exclusions map[kernel.UUID]struct{},
	workers []*worker.Worker,
) ([]*worker.Worker, error) {
	_ = serviceType

	if err := region.Validate(); err != nil {
		return nil, err
	}

	eligibleInRegion := 0
	remainingAfterExclusion := 0
	candidates := make([]*worker.Worker, 0, len(workers))

	for _, w := range workers {
		if err := w.Validate(); err != nil {
			return nil, err
		}
		if !w.IsEligibleFor(region) {
			continue
		}
		eligibleInRegion++

		if _, excluded := exclusions[w.ID()]; excluded {
			continue
		}
		remainingAfterExclusion++

		if !w.HasFreeCapacity(s.defaultCapacity) {
			continue
		}
		candidates = append(candidates, w)
	}

	if eligibleInRegion == 0 {
		return nil, ErrNoWorkersAvailable
	}
	if remainingAfterExclusion == 0 {
		return nil, ErrCandidatePoolExhausted
	}
	if len(candidates) == 0 {
		return nil, ErrWorkersOverbooked
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Rating() != candidates[j].Rating() {
			return candidates[i].Rating() > candidates[j].Rating()
		}
		return candidates[i].TotalJobs() < candidates[j].TotalJobs()
	})

	if len(candidates) > s.poolSize {
		candidates = candidates[:s.poolSize]
	}
	return candidates, nil
}
