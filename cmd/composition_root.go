package cmd

import (
	"errors"
	"log/slog"
	"net/http"

	httpin "marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/out/eventbus"
	"marketplace/internal/adapters/out/kafka"
	"marketplace/internal/adapters/out/metrics"
	"marketplace/internal/adapters/out/payment"
	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/postgres/backlogrepo"
	"marketplace/internal/adapters/out/postgres/catalogrepo"
	"marketplace/internal/adapters/out/postgres/driverrepo"
	"marketplace/internal/adapters/out/rabbitmq"
	"marketplace/internal/adapters/out/redisgeo"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/jobs"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// CompositionRoot owns every long-lived dependency and builds the handlers on demand.
type CompositionRoot struct {
	config     Config
	logger     *slog.Logger
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory

	pricing   services.PricingPolicy
	assigner  *services.DriverAssignmentCoordinator
	locator   ports.DriverLocator
	index     ports.DriverLocationIndex
	publisher ports.EventPublisher
	payments  ports.PaymentGateway
	metrics   *metrics.Lifecycle

	redis  *redis.Client
	rabbit *rabbitmq.Publisher
	audit  *kafka.AuditStream
}

// NewCompositionRoot connects the optional brokers and caches named in config. Anything
// left unconfigured is simply not wired: no audit stream without Kafka brokers, log-only
// events without RabbitMQ, the SQL locator without Redis.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	root := &CompositionRoot{
		config:  config,
		logger:  logger,
		gormDB:  gormDB,
		metrics: metrics.NewLifecycle(),
	}

	var observer postgres.CommitObserver
	if len(config.KafkaBrokers) > 0 {
		producer, err := kafka.NewSyncProducer(config.KafkaBrokers)
		if err != nil {
			return nil, err
		}
		root.audit = kafka.NewAuditStream(producer, config.KafkaTopic, logger)
		observer = root.audit
	}
	root.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB, observer)

	sinks := []ports.EventPublisher{eventbus.NewLogPublisher(logger)}
	if config.RabbitMQURL != "" {
		publisher, err := rabbitmq.Dial(config.RabbitMQURL, config.RabbitMQExchange)
		if err != nil {
			root.Close()
			return nil, err
		}
		root.rabbit = publisher
		sinks = append(sinks, publisher)
	}
	root.publisher = eventbus.NewFanout(sinks...)

	root.locator = driverrepo.NewSQLDriverLocator(gormDB)
	if config.RedisAddr != "" {
		root.redis = redis.NewClient(&redis.Options{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
			DB:       config.RedisDB,
		})
		root.index = redisgeo.NewLocationIndex(root.redis, redisgeo.DefaultKey)
		if config.DriverLocator == LocatorRedis {
			root.locator = redisgeo.NewDriverLocator(root.redis, redisgeo.DefaultKey, gormDB)
		}
	}

	assigner, err := services.NewDriverAssignmentCoordinator(root.locator, config.DriverSearchRadiusKm, config.DriverCandidateLimit)
	if err != nil {
		root.Close()
		return nil, err
	}
	root.assigner = assigner

	pricing, err := services.NewPricingPolicy(config.BaseDeliveryFee, config.CostPerKm, config.FreeDistanceKm, config.TaxRate)
	if err != nil {
		root.Close()
		return nil, err
	}
	root.pricing = pricing

	gateway, err := payment.NewGateway(config.PaymentGatewayURL, config.PaymentGatewayTimeout)
	if err != nil {
		root.Close()
		return nil, err
	}
	root.payments = gateway

	return root, nil
}

func (c *CompositionRoot) lifecycleDeps() commands.LifecycleDeps {
	return commands.LifecycleDeps{
		Assigner:   c.assigner,
		Payments:   c.payments,
		Publisher:  c.publisher,
		Metrics:    c.metrics,
		Logger:     c.logger,
		RetryDelay: c.config.AssignmentRetryDelay,
	}
}

func (c *CompositionRoot) lifecycleUoWFactory() commands.LifecycleUoWFactory {
	return FuncLifecycleUoWFactory(func() commands.LifecycleUoW {
		return c.uowFactory.CreateGorm()
	})
}

func (c *CompositionRoot) driverUoWFactory() commands.DriverUoWFactory {
	return FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.CreateGorm()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() *commands.CreateOrderCommandHandler {
	var f commands.CreateOrderUoWFactory = FuncCreateOrderUoWFactory(func() commands.CreateOrderUoW {
		return c.uowFactory.CreateGorm()
	})
	h := commands.NewCreateOrderCommandHandler(f, c.pricing, c.publisher, c.metrics, c.logger)
	return &h
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() *commands.UpdateOrderStatusCommandHandler {
	h := commands.NewUpdateOrderStatusCommandHandler(c.lifecycleUoWFactory(), c.lifecycleDeps())
	return &h
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() *commands.CancelOrderCommandHandler {
	h := commands.NewCancelOrderCommandHandler(c.lifecycleUoWFactory(), c.lifecycleDeps())
	return &h
}

func (c *CompositionRoot) CreateAssignDriverCommandHandler() *commands.AssignDriverCommandHandler {
	h := commands.NewAssignDriverCommandHandler(c.lifecycleUoWFactory(), c.lifecycleDeps())
	return &h
}

func (c *CompositionRoot) CreateUpdateDriverLocationCommandHandler() *commands.UpdateDriverLocationCommandHandler {
	h := commands.NewUpdateDriverLocationCommandHandler(c.driverUoWFactory(), c.index, c.publisher, c.logger)
	return &h
}

func (c *CompositionRoot) CreateChangeDriverStatusCommandHandler() *commands.ChangeDriverStatusCommandHandler {
	h := commands.NewChangeDriverStatusCommandHandler(c.driverUoWFactory(), c.index, c.publisher, c.logger)
	return &h
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateFindNearbyDriversQueryHandler() queries.FindNearbyDriversQueryHandler {
	return queries.NewFindNearbyDriversQueryHandler(c.locator)
}

func (c *CompositionRoot) CreateFindNearbyRestaurantsQueryHandler() queries.FindNearbyRestaurantsQueryHandler {
	return queries.NewFindNearbyRestaurantsQueryHandler(catalogrepo.NewSQLRestaurantLocator(c.gormDB), c.pricing)
}

func (c *CompositionRoot) CreateListCustomerOrdersQueryHandler() queries.ListCustomerOrdersQueryHandler {
	return queries.NewListCustomerOrdersQueryHandler(c.gormDB)
}

// CreateRouter builds the HTTP API with health and metrics endpoints.
func (c *CompositionRoot) CreateRouter() (*echo.Echo, error) {
	server := httpin.NewServer(httpin.Handlers{
		CreateOrder:           c.CreateCreateOrderCommandHandler(),
		UpdateOrderStatus:     c.CreateUpdateOrderStatusCommandHandler(),
		CancelOrder:           c.CreateCancelOrderCommandHandler(),
		UpdateDriverLocation:  c.CreateUpdateDriverLocationCommandHandler(),
		ChangeDriverStatus:    c.CreateChangeDriverStatusCommandHandler(),
		GetOrder:              c.CreateGetOrderQueryHandler(),
		FindNearbyDrivers:     c.CreateFindNearbyDriversQueryHandler(),
		FindNearbyRestaurants: c.CreateFindNearbyRestaurantsQueryHandler(),
		ListCustomerOrders:    c.CreateListCustomerOrdersQueryHandler(),
	}, c.logger)

	return httpin.NewRouter(server, httpin.RouterOptions{
		Logger:  c.logger,
		Metrics: c.MetricsHandler(),
		Health:  c.Health,
	})
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	retry := jobs.NewDriverAssignmentRetryJob(
		backlogrepo.NewGormBacklogRepository(c.gormDB),
		c.CreateAssignDriverCommandHandler(),
		c.config.AssignmentRetrySchedule,
		c.config.AssignmentRetryBatch,
		c.logger,
	)
	return jobs.NewJobManager(retry)
}

func (c *CompositionRoot) MetricsHandler() http.Handler {
	return c.metrics.Handler()
}

// Health checks the database and the RabbitMQ connection when one is configured.
func (c *CompositionRoot) Health() error {
	sqlDB, err := c.gormDB.DB()
	if err != nil {
		return err
	}
	if err = sqlDB.Ping(); err != nil {
		return err
	}
	if c.rabbit != nil {
		return c.rabbit.Ping()
	}
	return nil
}

// Close releases broker and cache connections. The database is owned by the caller.
func (c *CompositionRoot) Close() error {
	var errList []error
	if c.audit != nil {
		errList = append(errList, c.audit.Close())
	}
	if c.rabbit != nil {
		errList = append(errList, c.rabbit.Close())
	}
	if c.redis != nil {
		errList = append(errList, c.redis.Close())
	}
	return errors.Join(errList...)
}

type FuncCreateOrderUoWFactory func() commands.CreateOrderUoW

func (f FuncCreateOrderUoWFactory) Create() commands.CreateOrderUoW {
	return f()
}

type FuncLifecycleUoWFactory func() commands.LifecycleUoW

func (f FuncLifecycleUoWFactory) Create() commands.LifecycleUoW {
	return f()
}

type FuncDriverUoWFactory func() commands.DriverUoW

func (f FuncDriverUoWFactory) Create() commands.DriverUoW {
	return f()
}
