package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrRegisterWorkerCommandIsNotConstructed = errors.New(
	"RegisterWorkerCommand must be created via NewRegisterWorkerCommand constructor",
)

// RegisterWorkerCommand adds a worker to the directory. New workers start
// active but unverified; they become eligible for offers only after approval.
type RegisterWorkerCommand struct {
	workerID          kernel.UUID
	name              string
	maxConcurrentJobs int
	serviceAreas      []kernel.RegionCode
	guard             guard.ConstructorGuard
}

// NewRegisterWorkerCommand creates a worker registration.
// A maxConcurrentJobs of zero means the system default applies.
func NewRegisterWorkerCommand(
	workerID kernel.UUID,
	name string,
	maxConcurrentJobs int,
	serviceAreas []kernel.RegionCode,
) (RegisterWorkerCommand, error) {
	if err := workerID.Validate(); err != nil {
		return RegisterWorkerCommand{}, err
	}
	if name == "" {
		return RegisterWorkerCommand{}, errs.NewValueIsRequiredError("name")
	}
	if len(serviceAreas) == 0 {
		return RegisterWorkerCommand{}, errs.NewValueIsRequiredError("service areas")
	}
	for _, region := range serviceAreas {
		if err := region.Validate(); err != nil {
			return RegisterWorkerCommand{}, err
		}
	}
	return RegisterWorkerCommand{
		workerID:          workerID,
		name:              name,
		maxConcurrentJobs: maxConcurrentJobs,
		serviceAreas:      serviceAreas,
		guard:             guard.NewConstructorGuard(),
	}, nil
}

// WorkerID returns the new worker's identifier.
func (c RegisterWorkerCommand) WorkerID() kernel.UUID {
	return c.workerID
}

// Name returns the worker's display name.
func (c RegisterWorkerCommand) Name() string {
	return c.name
}

// MaxConcurrentJobs returns the worker's concurrency limit, zero for default.
func (c RegisterWorkerCommand) MaxConcurrentJobs() int {
	return c.maxConcurrentJobs
}

// ServiceAreas returns the regions the worker serves.
func (c RegisterWorkerCommand) ServiceAreas() []kernel.RegionCode {
	return c.serviceAreas
}

// Validate ensures the command was created through the constructor.
func (c RegisterWorkerCommand) Validate() error {
	return c.guard.Validate(ErrRegisterWorkerCommandIsNotConstructed)
}
