package commands_test

import (
	"context"
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegisterWorkerCommandHandler_PersistsUnverifiedWorker(t *testing.T) {
	ctx := context.Background()

	region, err := kernel.NewRegionCode("north")
	require.NoError(t, err)

	workerID := kernel.NewUUID()
	command, err := commands.NewRegisterWorkerCommand(workerID, "Sam Carter", 5, []kernel.RegionCode{region})
	require.NoError(t, err)

	workerRepo := new(MockWorkerRepository)
	workerRepo.On("Add", ctx, mock.MatchedBy(func(w *worker.Worker) bool {
		return w.ID().IsEqual(workerID) &&
			w.Verification() == worker.VerificationPending &&
			w.IsActive() &&
			w.MaxConcurrentJobs() == 5
	})).Return(nil).Once()

	uow := new(MockWorkerUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("WorkerRepository").Return(workerRepo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockWorkerUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewRegisterWorkerCommandHandler(factory, testLogger())
	require.NoError(t, handler.Handle(ctx, command))

	mock.AssertExpectationsForObjects(t, workerRepo, uow, factory)
}

func TestRegisterWorkerCommand_RequiresServiceAreas(t *testing.T) {
	_, err := commands.NewRegisterWorkerCommand(kernel.NewUUID(), "Sam Carter", 5, nil)
	assert.Error(t, err)
}
