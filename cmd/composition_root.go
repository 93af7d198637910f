package cmd

import (
	"log/slog"

	httpin "orderhub/internal/adapters/in/http"
	"orderhub/internal/adapters/out/kafka"
	"orderhub/internal/adapters/out/postgres"
	"orderhub/internal/adapters/out/postgres/menurepo"
	"orderhub/internal/adapters/out/postgres/orderrepo"
	"orderhub/internal/adapters/out/rediscache"
	"orderhub/internal/adapters/out/security"
	"orderhub/internal/core/application/usecases/commands"
	"orderhub/internal/core/application/usecases/queries"
	"orderhub/internal/core/ports"
	"orderhub/internal/jobs"
	"orderhub/internal/metrics"
	"orderhub/internal/pkg/clock"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	logger     *slog.Logger
	uowFactory postgres.GormUnitOfWorkFactory

	cache    ports.CapabilityCache
	notifier ports.Notifier
	hasher   ports.PasswordHasher
	tokens   ports.TokenIssuer
	clock    ports.Clock
	metrics  ports.Metrics

	closers []func() error
}

// NewCompositionRoot builds the adapters. Redis and Kafka are optional: without an
// address the capability cache is skipped and notifications are only logged.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	tokens, err := security.NewJWTIssuer(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		logger:     logger,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		hasher:     security.NewBcryptHasher(cfg.BcryptCost),
		tokens:     tokens,
		clock:      clock.System{},
		metrics:    metrics.Recorder{},
	}

	if cfg.RedisAddr != "" {
		cache := rediscache.New(cfg.RedisAddr, cfg.CapabilityTTL)
		c.cache = cache
		c.closers = append(c.closers, cache.Close)
	}

	if len(cfg.KafkaBrokers) > 0 {
		notifier := kafka.NewNotifier(cfg.KafkaBrokers, cfg.KafkaNotificationsTopic)
		c.notifier = notifier
		c.closers = append(c.closers, notifier.Close)
	} else {
		c.notifier = logNotifier{logger: logger.With("component", "notifier")}
	}

	return c, nil
}

// Close releases the Redis and Kafka connections.
func (c *CompositionRoot) Close() {
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil {
			c.logger.Warn("closing adapter failed", "error", err)
		}
	}
}

func (c *CompositionRoot) commandUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateAuthorizeQueryHandler() queries.AuthorizeQueryHandler {
	return queries.NewAuthorizeQueryHandler(&c.uowFactory, c.cache, c.clock, c.logger)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.commandUoWFactory(), c.CreateAuthorizeQueryHandler(),
		menurepo.NewGormCatalog(c.gormDB), c.notifier, c.clock, c.cfg.PricingPolicy(), c.logger)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	return commands.NewTransitionOrderCommandHandler(c.commandUoWFactory(), c.CreateAuthorizeQueryHandler(),
		c.notifier, c.clock, c.metrics, c.logger)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.CreateTransitionOrderCommandHandler())
}

func (c *CompositionRoot) CreateAssignCourierCommandHandler() commands.AssignCourierCommandHandler {
	return commands.NewAssignCourierCommandHandler(c.commandUoWFactory(), c.CreateAuthorizeQueryHandler(),
		c.notifier, c.clock, c.metrics, c.cfg.MaxAssignAttempts, c.logger)
}

func (c *CompositionRoot) CreateCompleteDeliveryCommandHandler() commands.CompleteDeliveryCommandHandler {
	return commands.NewCompleteDeliveryCommandHandler(c.commandUoWFactory(), c.CreateAuthorizeQueryHandler(),
		c.notifier, c.clock, c.metrics, c.logger)
}

func (c *CompositionRoot) CreateRateDeliveryCommandHandler() commands.RateDeliveryCommandHandler {
	return commands.NewRateDeliveryCommandHandler(c.commandUoWFactory(), c.CreateAuthorizeQueryHandler(), c.clock)
}

func (c *CompositionRoot) CreateUpdateLocationCommandHandler() commands.UpdateLocationCommandHandler {
	return commands.NewUpdateLocationCommandHandler(c.commandUoWFactory(), c.CreateAuthorizeQueryHandler(), c.clock)
}

func (c *CompositionRoot) CreateMarkPaymentCompletedCommandHandler() commands.MarkPaymentCompletedCommandHandler {
	return commands.NewMarkPaymentCompletedCommandHandler(c.commandUoWFactory(), c.notifier, c.clock, c.logger)
}

func (c *CompositionRoot) CreateAuthenticateCommandHandler() commands.AuthenticateCommandHandler {
	return commands.NewAuthenticateCommandHandler(c.commandUoWFactory(), c.hasher, c.tokens, c.clock, c.metrics,
		c.cfg.AuthPolicy())
}

func (c *CompositionRoot) CreateRegisterActorCommandHandler() commands.RegisterActorCommandHandler {
	return commands.NewRegisterActorCommandHandler(c.commandUoWFactory(), c.hasher, c.clock)
}

func (c *CompositionRoot) CreatePromoteActorCommandHandler() commands.PromoteActorCommandHandler {
	return commands.NewPromoteActorCommandHandler(c.commandUoWFactory(), c.CreateAuthorizeQueryHandler(), c.cache,
		c.clock, c.logger)
}

func (c *CompositionRoot) CreateDeactivateActorCommandHandler() commands.DeactivateActorCommandHandler {
	return commands.NewDeactivateActorCommandHandler(c.commandUoWFactory(), c.CreateAuthorizeQueryHandler(), c.cache,
		c.clock, c.logger)
}

func (c *CompositionRoot) CreateGrantCapabilityCommandHandler() commands.GrantCapabilityCommandHandler {
	return commands.NewGrantCapabilityCommandHandler(c.commandUoWFactory(), c.CreateAuthorizeQueryHandler(), c.cache,
		c.clock, c.logger)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB, c.CreateAuthorizeQueryHandler(), c.clock)
}

func (c *CompositionRoot) CreateGetOrderTrackingHistoryQueryHandler() queries.GetOrderTrackingHistoryQueryHandler {
	return queries.NewGetOrderTrackingHistoryQueryHandler(c.gormDB, c.CreateAuthorizeQueryHandler(), c.clock)
}

func (c *CompositionRoot) CreateQueryActivityLogQueryHandler() queries.QueryActivityLogQueryHandler {
	return queries.NewQueryActivityLogQueryHandler(&c.uowFactory, c.CreateAuthorizeQueryHandler(), c.clock)
}

// CreateHTTPServer wires every use case into the HTTP adapter.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		CreateOrder:          c.CreateCreateOrderCommandHandler(),
		TransitionOrder:      c.CreateTransitionOrderCommandHandler(),
		CancelOrder:          c.CreateCancelOrderCommandHandler(),
		AssignCourier:        c.CreateAssignCourierCommandHandler(),
		CompleteDelivery:     c.CreateCompleteDeliveryCommandHandler(),
		RateDelivery:         c.CreateRateDeliveryCommandHandler(),
		UpdateLocation:       c.CreateUpdateLocationCommandHandler(),
		MarkPaymentCompleted: c.CreateMarkPaymentCompletedCommandHandler(),
		Authenticate:         c.CreateAuthenticateCommandHandler(),
		RegisterActor:        c.CreateRegisterActorCommandHandler(),
		PromoteActor:         c.CreatePromoteActorCommandHandler(),
		DeactivateActor:      c.CreateDeactivateActorCommandHandler(),
		GrantCapability:      c.CreateGrantCapabilityCommandHandler(),
		Authorize:            c.CreateAuthorizeQueryHandler(),
		GetOrder:             c.CreateGetOrderQueryHandler(),
		GetTrackingHistory:   c.CreateGetOrderTrackingHistoryQueryHandler(),
		QueryActivityLog:     c.CreateQueryActivityLogQueryHandler(),
	}, c.tokens, c.cfg.WebhookSecret, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	dispatch := jobs.NewDispatchJob(
		orderrepo.NewGormOrderRepository(c.gormDB),
		c.CreateAssignCourierCommandHandler(),
		c.cfg.DispatchSchedule,
		c.cfg.DispatchBatchSize,
		c.logger,
	)
	return jobs.NewJobManager(dispatch)
}

func (c *CompositionRoot) UnitOfWorkFactory() ports.UnitOfWorkFactory {
	return &c.uowFactory
}

func (c *CompositionRoot) PasswordHasher() ports.PasswordHasher {
	return c.hasher
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
