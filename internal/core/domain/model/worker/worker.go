// Package worker contains the Worker aggregate: eligibility attributes,
// load counters and the set of regions a worker serves. The dispatch
// selector reads these attributes; the response commands mutate the
// load counters.
package worker

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	// ratingMin and ratingMax bound the worker rating scale.
	ratingMin = 0.0
	ratingMax = 5.0
)

var (
	// ErrNameIsRequired is returned when attempting to create a worker without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrServiceAreasAreRequired is returned when a worker serves no region at all.
	ErrServiceAreasAreRequired = errs.NewValueIsRequiredError("service areas")
	// ErrWorkerIsNotConstructed is returned when using an improperly initialized Worker.
	ErrWorkerIsNotConstructed = errors.New("Worker must be created via NewWorker or RestoreWorker constructor")
	// ErrNoCapacity is returned when TakeJob would exceed the concurrency limit.
	ErrNoCapacity = errors.New("worker has no free capacity")
)

// Worker represents a service worker in the directory.
//
// The eligibility attributes (active flag, verification status, ban flag,
// service areas) gate whether the worker may receive offers at all; the load
// counters (currentActiveJobs vs maxConcurrentJobs) gate how many jobs the
// worker may hold at once. The in-memory counters here are a snapshot; the
// race-free capacity guarantee lives in the directory's conditional update
// at the moment an offer is accepted.
type Worker struct {
	id                kernel.UUID
	name              string
	active            bool
	verification      VerificationStatus
	banned            bool
	rating            float64
	totalJobs         int
	currentActiveJobs int
	maxConcurrentJobs int
	serviceAreas      []kernel.RegionCode
	guard             guard.ConstructorGuard
}

// NewWorker creates a new Worker in the directory: active, unverified, unbanned,
// with zero rating and load. maxConcurrentJobs of zero means "use the configured
// default capacity".
func NewWorker(id kernel.UUID, name string, maxConcurrentJobs int, serviceAreas []kernel.RegionCode) (*Worker, error) {
	return RestoreWorker(id, name, true, VerificationPending, false, 0, 0, 0, maxConcurrentJobs, serviceAreas)
}

// RestoreWorker reconstructs a Worker from persistence with all attributes validated.
func RestoreWorker(
	id kernel.UUID,
	name string,
	active bool,
	verification VerificationStatus,
	banned bool,
	rating float64,
	totalJobs int,
	currentActiveJobs int,
	maxConcurrentJobs int,
	serviceAreas []kernel.RegionCode,
) (*Worker, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, ErrNameIsRequired
	}
	if err := verification.Validate(); err != nil {
		return nil, err
	}
	if rating < ratingMin || rating > ratingMax {
		return nil, errs.NewValueIsOutOfRangeError("rating", rating, ratingMin, ratingMax)
	}
	if len(serviceAreas) == 0 {
		return nil, ErrServiceAreasAreRequired
	}
	for _, region := range serviceAreas {
		if err := region.Validate(); err != nil {
			return nil, err
		}
	}

	areas := make([]kernel.RegionCode, len(serviceAreas))
	copy(areas, serviceAreas)

	return &Worker{
		id:                id,
		name:              name,
		active:            active,
		verification:      verification,
		banned:            banned,
		rating:            rating,
		totalJobs:         totalJobs,
		currentActiveJobs: currentActiveJobs,
		maxConcurrentJobs: maxConcurrentJobs,
		serviceAreas:      areas,
		guard:             guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the Worker was created through a constructor.
func (w *Worker) Validate() error {
	if w == nil {
		return ErrWorkerIsNotConstructed
	}
	return w.guard.Validate(ErrWorkerIsNotConstructed)
}

// ID returns the worker's unique identifier.
func (w *Worker) ID() kernel.UUID {
	return w.id
}

// Name returns the worker's display name.
func (w *Worker) Name() string {
	return w.name
}

// IsActive reports whether the worker is currently taking work.
func (w *Worker) IsActive() bool {
	return w.active
}

// Verification returns the worker's vetting status.
func (w *Worker) Verification() VerificationStatus {
	return w.verification
}

// IsBanned reports whether the worker is banned from the platform.
func (w *Worker) IsBanned() bool {
	return w.banned
}

// Rating returns the worker's average rating on the 0..5 scale.
func (w *Worker) Rating() float64 {
	return w.rating
}

// TotalJobs returns the number of jobs the worker has completed.
func (w *Worker) TotalJobs() int {
	return w.totalJobs
}

// CurrentActiveJobs returns the snapshot of jobs the worker currently holds.
func (w *Worker) CurrentActiveJobs() int {
	return w.currentActiveJobs
}

// MaxConcurrentJobs returns the configured concurrency limit.
// Zero means the directory-wide default applies.
func (w *Worker) MaxConcurrentJobs() int {
	return w.maxConcurrentJobs
}

// ServiceAreas returns a copy of the regions the worker serves.
func (w *Worker) ServiceAreas() []kernel.RegionCode {
	areas := make([]kernel.RegionCode, len(w.serviceAreas))
	copy(areas, w.serviceAreas)
	return areas
}

// ServesRegion reports whether the worker covers the given region.
func (w *Worker) ServesRegion(region kernel.RegionCode) bool {
	for _, area := range w.serviceAreas {
		if area.IsEqual(region) {
			return true
		}
	}
	return false
}

// IsEligibleFor reports whether the worker passes every eligibility gate for
// the given region: active, approved, not banned, and serving the region.
// Capacity is checked separately because its failure mode differs downstream.
func (w *Worker) IsEligibleFor(region kernel.RegionCode) bool {
	return w.active &&
		w.verification == VerificationApproved &&
		!w.banned &&
		w.ServesRegion(region)
}

// EffectiveCapacity resolves the concurrency limit, substituting defaultLimit
// when the worker has none configured.
func (w *Worker) EffectiveCapacity(defaultLimit int) int {
	if w.maxConcurrentJobs > 0 {
		return w.maxConcurrentJobs
	}
	return defaultLimit
}

// HasFreeCapacity reports whether the load snapshot is below the effective limit.
func (w *Worker) HasFreeCapacity(defaultLimit int) bool {
	return w.currentActiveJobs < w.EffectiveCapacity(defaultLimit)
}

// Approve marks the worker as having passed vetting.
func (w *Worker) Approve() {
	w.verification = VerificationApproved
}

// Reject marks the worker as having failed vetting.
func (w *Worker) Reject() {
	w.verification = VerificationRejected
}

// Ban removes the worker from further candidate selection.
func (w *Worker) Ban() {
	w.banned = true
}

// Deactivate pauses the worker without affecting vetting status.
func (w *Worker) Deactivate() {
	w.active = false
}

// Activate resumes a paused worker.
func (w *Worker) Activate() {
	w.active = true
}

// TakeJob increments the load counter if the effective limit allows it.
// This is the in-memory mirror of the directory's conditional increment.
func (w *Worker) TakeJob(defaultLimit int) error {
	if !w.HasFreeCapacity(defaultLimit) {
		return ErrNoCapacity
	}
	w.currentActiveJobs++
	return nil
}

// FinishJob releases one unit of load and credits the completed job.
func (w *Worker) FinishJob() {
	if w.currentActiveJobs > 0 {
		w.currentActiveJobs--
	}
	w.totalJobs++
}
