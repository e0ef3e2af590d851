package cmd

import (
	"log/slog"
	"time"

	inmq "dispatch/internal/adapters/in/mq"
	outmq "dispatch/internal/adapters/out/mq"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/activityrepo"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"
	"dispatch/internal/notifier"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	mqClient   *outmq.Client
	settings   commands.DispatchSettings
	logger     *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, mqClient *outmq.Client, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		mqClient:   mqClient,
		settings:   dispatchSettings(config),
		logger:     logger,
	}
}

// dispatchSettings applies configured overrides on top of the defaults.
func dispatchSettings(config Config) commands.DispatchSettings {
	settings := commands.DefaultDispatchSettings()
	if config.CandidatePoolSize > 0 {
		settings.CandidatePoolSize = config.CandidatePoolSize
	}
	if config.MaxExtraRounds > 0 {
		settings.MaxExtraRounds = config.MaxExtraRounds
	}
	if config.DefaultWorkerCapacity > 0 {
		settings.DefaultWorkerCapacity = config.DefaultWorkerCapacity
	}
	if config.OfferTTLMinutes > 0 {
		settings.OfferTTL = time.Duration(config.OfferTTLMinutes) * time.Minute
	}
	return settings
}

func (c *CompositionRoot) CreateNotifier() ports.Notifier {
	var f commands.NotificationUoWFactory = FuncNotificationUoWFactory(func() commands.NotificationUoW {
		return c.uowFactory.Create()
	})

	var pusher ports.RealtimePusher
	if c.mqClient != nil {
		pusher = outmq.NewPusher(c.mqClient)
	}
	return notifier.New(f, pusher, c.logger)
}

func (c *CompositionRoot) CreateActivityLog() ports.ActivityLog {
	return activityrepo.NewGormActivityLog(c.gormDB)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.logger)
}

func (c *CompositionRoot) CreateConfirmPaymentCommandHandler() commands.ConfirmPaymentCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewConfirmPaymentCommandHandler(f, c.logger)
}

func (c *CompositionRoot) CreateProcessOrderCommandHandler() commands.ProcessOrderCommandHandler {
	return commands.NewProcessOrderCommandHandler(
		c.dispatchUoWFactory(),
		c.CreateNotifier(),
		c.CreateActivityLog(),
		c.settings,
		c.logger,
	)
}

func (c *CompositionRoot) CreateRespondToOfferCommandHandler() commands.RespondToOfferCommandHandler {
	return commands.NewRespondToOfferCommandHandler(
		c.dispatchUoWFactory(),
		c.CreateProcessOrderCommandHandler(),
		c.CreateNotifier(),
		c.CreateActivityLog(),
		c.settings,
		c.logger,
	)
}

func (c *CompositionRoot) CreateExpireOffersCommandHandler() commands.ExpireOffersCommandHandler {
	return commands.NewExpireOffersCommandHandler(
		c.dispatchUoWFactory(),
		c.CreateActivityLog(),
		c.settings,
		c.logger,
	)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(
		c.dispatchUoWFactory(),
		c.CreateNotifier(),
		c.CreateActivityLog(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateCompleteOrderCommandHandler() commands.CompleteOrderCommandHandler {
	return commands.NewCompleteOrderCommandHandler(
		c.dispatchUoWFactory(),
		c.CreateActivityLog(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateRegisterWorkerCommandHandler() commands.RegisterWorkerCommandHandler {
	var f commands.WorkerUoWFactory = FuncWorkerUoWFactory(func() commands.WorkerUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegisterWorkerCommandHandler(f, c.logger)
}

func (c *CompositionRoot) CreateMarkNotificationReadCommandHandler() commands.MarkNotificationReadCommandHandler {
	var f commands.NotificationUoWFactory = FuncNotificationUoWFactory(func() commands.NotificationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewMarkNotificationReadCommandHandler(f, c.logger)
}

func (c *CompositionRoot) CreateGetWorkerNotificationsQueryHandler() queries.GetWorkerNotificationsQueryHandler {
	return queries.NewGetWorkerNotificationsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderAssignmentsQueryHandler() queries.GetOrderAssignmentsQueryHandler {
	return queries.NewGetOrderAssignmentsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return jobs.NewJobManager(
		c.CreateExpireOffersCommandHandler(),
		f,
		c.CreateProcessOrderCommandHandler(),
		c.logger,
	)
}

func (c *CompositionRoot) CreatePaymentConsumer() *inmq.PaymentConsumer {
	return inmq.NewPaymentConsumer(
		c.mqClient,
		c.CreateConfirmPaymentCommandHandler(),
		c.CreateProcessOrderCommandHandler(),
		c.logger,
	)
}

func (c *CompositionRoot) dispatchUoWFactory() commands.DispatchUoWFactory {
	return FuncDispatchUoWFactory(func() commands.DispatchUoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncWorkerUoWFactory func() commands.WorkerUoW

func (f FuncWorkerUoWFactory) Create() commands.WorkerUoW {
	return f()
}

type FuncNotificationUoWFactory func() commands.NotificationUoW

func (f FuncNotificationUoWFactory) Create() commands.NotificationUoW {
	return f()
}

type FuncDispatchUoWFactory func() commands.DispatchUoW

func (f FuncDispatchUoWFactory) Create() commands.DispatchUoW {
	return f()
}
