package commands_test

import (
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/activity"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCancelOrderCommandHandler_Handle_WithdrawsOpenOffers(t *testing.T) {
	ctx := t.Context()
	region, _ := kernel.NewRegionCode("north")
	ord := assignedOrder(t, region)

	holderID := kernel.NewUUID()
	open := openOffer(t, ord.ID(), holderID)

	declined := openOffer(t, ord.ID(), kernel.NewUUID())
	require.NoError(t, declined.Decline())

	orderRepo := new(MockOrderRepository)
	assignmentRepo := new(MockAssignmentRepository)
	uow := new(MockDispatchUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, ord.ID()).Return(ord, nil).Once(),
		uow.On("AssignmentRepository").Return(assignmentRepo).Once(),
		assignmentRepo.On("GetAllForOrder", ctx, ord.ID()).
			Return([]*assignment.Assignment{open, declined}, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Update", ctx, ord).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotifier)
	notifier.On("Notify", ctx, holderID, mock.Anything, mock.Anything,
		notification.KindOrderCancelled, ord.ID()).Return(nil).Once()

	activityLog := new(MockActivityLog)
	activityLog.On("Record", ctx, activity.ActionOrderCancelled, mock.Anything, mock.Anything).Return(nil).Once()

	handler := commands.NewCancelOrderCommandHandler(factory, notifier, activityLog, testLogger())

	cmd, err := commands.NewCancelOrderCommand(ord.ID())
	require.NoError(t, err)

	require.NoError(t, handler.Handle(ctx, cmd))
	assert.Equal(t, order.StatusCancelled, ord.Status())
	assert.Equal(t, order.AssignmentCancelled, ord.AssignmentStatus())
	notifier.AssertExpectations(t)
	activityLog.AssertExpectations(t)
	uow.AssertExpectations(t)
}

// Cancelling after acceptance must hand the winner's claimed capacity slot
// back (without crediting a completed job) and tell the worker the job is
// gone.
func TestCancelOrderCommandHandler_Handle_AcceptedOrderReleasesWorkerClaim(t *testing.T) {
	ctx := t.Context()
	region, _ := kernel.NewRegionCode("north")
	ord, err := order.RestoreOrder(kernel.NewUUID(), order.StatusConfirmed,
		order.AssignmentAccepted, region, "plumbing", time.Now().UTC())
	require.NoError(t, err)

	winnerID := kernel.NewUUID()
	acceptedOffer := openOffer(t, ord.ID(), winnerID)
	require.NoError(t, acceptedOffer.Accept())

	orderRepo := new(MockOrderRepository)
	assignmentRepo := new(MockAssignmentRepository)
	workerRepo := new(MockWorkerRepository)
	uow := new(MockDispatchUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, ord.ID()).Return(ord, nil).Once(),
		uow.On("AssignmentRepository").Return(assignmentRepo).Once(),
		assignmentRepo.On("GetAllForOrder", ctx, ord.ID()).
			Return([]*assignment.Assignment{acceptedOffer}, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Update", ctx, ord).Return(nil).Once(),
		uow.On("WorkerRepository").Return(workerRepo).Once(),
		workerRepo.On("ReleaseClaim", ctx, winnerID).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotifier)
	notifier.On("Notify", ctx, winnerID, mock.Anything, mock.Anything,
		notification.KindOrderCancelled, ord.ID()).Return(nil).Once()

	activityLog := new(MockActivityLog)
	activityLog.On("Record", ctx, activity.ActionOrderCancelled, mock.Anything, mock.Anything).Return(nil).Once()

	handler := commands.NewCancelOrderCommandHandler(factory, notifier, activityLog, testLogger())

	cmd, err := commands.NewCancelOrderCommand(ord.ID())
	require.NoError(t, err)

	require.NoError(t, handler.Handle(ctx, cmd))
	assert.Equal(t, order.StatusCancelled, ord.Status())
	assert.Equal(t, order.AssignmentCancelled, ord.AssignmentStatus())
	workerRepo.AssertExpectations(t)
	notifier.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCancelOrderCommandHandler_Handle_CompletedOrderCannotBeCancelled(t *testing.T) {
	ctx := t.Context()
	region, _ := kernel.NewRegionCode("north")
	ord, err := order.RestoreOrder(kernel.NewUUID(), order.StatusCompleted,
		order.AssignmentCompleted, region, "plumbing", time.Now().UTC())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	assignmentRepo := new(MockAssignmentRepository)
	uow := new(MockDispatchUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, ord.ID()).Return(ord, nil).Once(),
		uow.On("AssignmentRepository").Return(assignmentRepo).Once(),
		assignmentRepo.On("GetAllForOrder", ctx, ord.ID()).
			Return([]*assignment.Assignment{}, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCancelOrderCommandHandler(factory, new(MockNotifier), new(MockActivityLog), testLogger())

	cmd, err := commands.NewCancelOrderCommand(ord.ID())
	require.NoError(t, err)

	require.Error(t, handler.Handle(ctx, cmd))
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	uow.AssertNotCalled(t, "WorkerRepository")
}
