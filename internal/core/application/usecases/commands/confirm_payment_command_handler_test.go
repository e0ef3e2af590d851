package commands_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestConfirmPaymentCommandHandler_Handle_ConfirmsPendingPayment(t *testing.T) {
	ctx := t.Context()
	region, _ := kernel.NewRegionCode("north")
	ord, err := order.NewOrder(kernel.NewUUID(), region, "plumbing")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockOrderUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, ord.ID()).Return(ord, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Update", ctx, ord).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewConfirmPaymentCommandHandler(factory, testLogger())

	cmd, err := commands.NewConfirmPaymentCommand(ord.ID())
	require.NoError(t, err)

	require.NoError(t, handler.Handle(ctx, cmd))
	assert.Equal(t, order.StatusConfirmed, ord.Status())
	uow.AssertExpectations(t)
}

func TestConfirmPaymentCommandHandler_Handle_RedeliveredConfirmationIsNoOp(t *testing.T) {
	ctx := t.Context()
	region, _ := kernel.NewRegionCode("north")
	ord, err := order.NewOrder(kernel.NewUUID(), region, "plumbing")
	require.NoError(t, err)
	require.NoError(t, ord.ConfirmPayment())

	orderRepo := new(MockOrderRepository)
	uow := new(MockOrderUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, ord.ID()).Return(ord, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewConfirmPaymentCommandHandler(factory, testLogger())

	cmd, err := commands.NewConfirmPaymentCommand(ord.ID())
	require.NoError(t, err)

	require.NoError(t, handler.Handle(ctx, cmd))
	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
