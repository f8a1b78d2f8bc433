package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"customer-relay/internal/api/http/handler"
	"customer-relay/internal/api/http/route"
	"customer-relay/internal/apperrors"
	"customer-relay/internal/config"
	"customer-relay/internal/model"
	"customer-relay/internal/msg/broadcast"
	"customer-relay/internal/msg/channel"
	"customer-relay/internal/msg/poller"
	"customer-relay/internal/msg/printer"
	"customer-relay/internal/msg/sink"
	"customer-relay/internal/repository"
	"customer-relay/internal/service"
	"customer-relay/pkg/kafka"
	"customer-relay/pkg/postgres"
	"customer-relay/pkg/redis"
	"customer-relay/pkg/server"
)

const (
	defaultTimeout      = 15 * time.Second
	channelDrainTimeout = 5 * time.Second
)

type CustomerRepository interface {
	SelectAll(ctx context.Context, ext repository.RepoExtension) ([]model.Customer, error)
	InsertCustomer(ctx context.Context, ext repository.RepoExtension, customer model.Customer) error
	Count(ctx context.Context, ext repository.RepoExtension) (int, error)
}

type HealthRepository interface {
	Ping(ctx context.Context) error
}

type CustomerService interface {
	Ingest(ctx context.Context, req model.CustomerRequest) (*model.Message, error)
}

type HealthService interface {
	Health(ctx context.Context) (*model.Health, error)
}

type Poller interface {
	Run(ctx context.Context)
}

type App struct {
	Cfg        *config.Config
	Log        *zap.Logger
	Handler    *Handler
	Service    *Service
	DB         postgres.Postgres
	RDB        redis.Redis
	HTTPServer server.HTTPServer
	Relay      *Relay

	// drainTimeout bounds how long Shutdown waits for the channel to empty.
	drainTimeout time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped bool
	wg      sync.WaitGroup
}

type Repository struct {
	CustomerRepository CustomerRepository
	HealthRepository   HealthRepository
}

type Service struct {
	CustomerService CustomerService
	HealthService   HealthService
}

type Handler struct {
	CustomerHandler *handler.CustomerHandler
	HealthHandler   *handler.HealthHandler
}

// Relay is everything between the producers and the printed output.
type Relay struct {
	Channel *channel.Channel
	Printer *printer.Printer
	Poller  Poller
	Hub     *broadcast.Hub
	Kafka   *sink.KafkaSink
}

func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	db, err := initDB(&cfg.Database)
	if err != nil {
		log.Error("Failed to initialize database", zap.Error(err))
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	var rdb redis.Redis
	if cfg.Redis.Enable {
		rdb, err = initRedis(&cfg.Redis)
		if err != nil {
			log.Error("Failed to initialize redis", zap.Error(err))
			db.Close()

			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
	}

	repo := initRepository(log, db)

	if err := seed(ctx, log, &cfg.Database.Seed, repo); err != nil {
		log.Error("Failed to seed customers", zap.Error(err))
	}

	relay, err := initRelay(log, cfg, repo, rdb)
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}

		db.Close()
		return nil, fmt.Errorf("failed to initialize relay: %w", err)
	}

	svc := initService(log, repo, relay)

	hdl := initHandler(log, cfg, svc, relay)

	httpServer := initHTTPServer(log, cfg, hdl)

	return &App{
		Cfg:        cfg,
		Log:        log,
		Handler:    hdl,
		Service:    svc,
		DB:         db,
		RDB:        rdb,
		HTTPServer: httpServer,
		Relay:      relay,

		drainTimeout: channelDrainTimeout,
	}, nil
}

func MustNew(cfg *config.Config, log *zap.Logger) *App {
	app, err := New(cfg, log)
	if err != nil {
		panic(err)
	}

	return app
}

// Run starts the relay and blocks in the HTTP server. It returns at once if
// Shutdown has already been called.
func (a *App) Run(ctx context.Context) error {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return nil
	}

	ctx, a.cancel = context.WithCancel(ctx)

	a.wg.Add(2)

	go func() {
		defer a.wg.Done()
		a.Relay.Channel.Run(ctx)
	}()

	go func() {
		defer a.wg.Done()
		a.Relay.Poller.Run(ctx)
	}()
	a.mu.Unlock()

	a.Log.Info("HTTP server started", zap.String("addr", a.HTTPServer.Addr()))

	if err := a.HTTPServer.Run(); err != nil {
		return err
	}

	return nil
}

// Shutdown stops the producers first, then lets the channel drain into the
// printer before the sinks and connections go away. If the channel does not
// drain in time the sinks are left open, the dispatcher may still be using them.
func (a *App) Shutdown() error {
	var errs []error

	if srvErr := a.HTTPServer.Shutdown(); srvErr != nil {
		errs = append(errs, fmt.Errorf("failed to shutdown http server: %w", srvErr))
	}

	a.Log.Debug("Http server shutdown")

	a.mu.Lock()
	a.stopped = true
	cancel := a.cancel
	a.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	a.Relay.Channel.Close()

	if cancel == nil {
		// never ran, nobody else will drain what is queued
		go a.Relay.Channel.Run(context.Background())
	}

	drainTimeout := a.drainTimeout
	if drainTimeout <= 0 {
		drainTimeout = channelDrainTimeout
	}

	drained := false

	select {
	case <-a.Relay.Channel.Done():
		a.wg.Wait()
		drained = true
		a.Log.Debug("Channel drained")
	case <-time.After(drainTimeout):
		left := a.Relay.Channel.Len()
		a.Log.Error("Channel did not drain in time, leaving sinks open", zap.Int("left", left))
		errs = append(errs, fmt.Errorf("channel did not drain in %s, %d messages left", drainTimeout, left))
	}

	if drained {
		errs = append(errs, a.closeSinks()...)
	}

	a.DB.Close()
	a.Log.Debug("Database closed")

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", apperrors.ErrShutdown, errors.Join(errs...))
	}

	return nil
}

func (a *App) closeSinks() []error {
	var errs []error

	if a.Relay.Hub != nil {
		if hubErr := a.Relay.Hub.Close(); hubErr != nil {
			errs = append(errs, fmt.Errorf("failed to close stream hub: %w", hubErr))
		}
	}

	if a.Relay.Kafka != nil {
		if kErr := a.Relay.Kafka.Close(); kErr != nil {
			errs = append(errs, fmt.Errorf("failed to close kafka producer: %w", kErr))
		}

		a.Log.Debug("Kafka producer closed")
	}

	if a.RDB != nil {
		if rdbErr := a.RDB.Close(); rdbErr != nil {
			errs = append(errs, fmt.Errorf("failed to close RDB: %w", rdbErr))
		}

		a.Log.Debug("Redis closed")
	}

	return errs
}

func initDB(cfg *config.Database) (postgres.Postgres, error) {
	postgresCfg := &postgres.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Password: cfg.Password,
		Name:     cfg.Name,
		SSLMode:  cfg.SSLMode,
		MaxConns: cfg.MaxConns,
		MinConns: cfg.MinConns,
		Migration: postgres.Migration{
			Path:      cfg.Migration.Path,
			AutoApply: cfg.Migration.AutoApply,
		},
	}

	db, err := postgres.New(postgresCfg)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func initRedis(cfg *config.Redis) (redis.Redis, error) {
	redisCfg := &redis.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	rdb, err := redis.New(redisCfg)
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func initRepository(log *zap.Logger, db postgres.Postgres) *Repository {
	customerRepo := repository.NewCustomerRepository(db.Pool())
	log.Debug("Customer repository initialized")

	healthRepo := repository.NewHealthRepository(db.Pool())
	log.Debug("Health repository initialized")

	return &Repository{
		CustomerRepository: customerRepo,
		HealthRepository:   healthRepo,
	}
}

func seed(ctx context.Context, log *zap.Logger, cfg *config.Seed, repo *Repository) error {
	if cfg.Count <= 0 {
		return nil
	}

	seedSvc := service.NewSeedService(log, repo.CustomerRepository, cfg.Seed)

	if _, err := seedSvc.Seed(ctx, cfg.Count); err != nil {
		return err
	}

	return nil
}

func initRelay(log *zap.Logger, cfg *config.Config, repo *Repository, rdb redis.Redis) (*Relay, error) {
	relay := &Relay{}

	var sinks []printer.Sink

	if cfg.Stream.Enabled {
		relay.Hub = broadcast.NewHub(log, cfg.Stream.ViewerBuffer)
		sinks = append(sinks, relay.Hub)
		log.Debug("Stream hub initialized")
	}

	if rdb != nil {
		sinks = append(sinks, sink.NewRedisSink(rdb.RDB(), cfg.Redis.KeyPrefix))
		log.Debug("Redis sink initialized")
	}

	if cfg.Kafka.Enable {
		producer, err := kafka.NewProducer(
			cfg.Kafka.Brokers,
			kafka.WithBalancer(kafka.RoundRobin),
			kafka.WithRequiredAcks(kafka.RequireAll),
			kafka.WithClientID(cfg.Kafka.ClientID),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to init kafka producer: %w", err)
		}

		relay.Kafka = sink.NewKafkaSink(producer, cfg.Kafka.Topic)
		sinks = append(sinks, relay.Kafka)
		log.Debug("Kafka sink initialized")
	}

	relay.Printer = printer.NewPrinter(log, sinks...)
	log.Debug("Printer initialized", zap.Int("sinks", len(sinks)))

	channelCfg := channel.Config{
		Name:     cfg.Channel.Name,
		Capacity: cfg.Channel.Capacity,
		Overflow: channel.Overflow(cfg.Channel.Overflow),
	}

	relay.Channel = channel.New(log, channelCfg, relay.Printer)
	log.Debug("Channel initialized")

	pollerCfg := poller.Config{
		Name:     cfg.Poller.Name,
		Interval: cfg.Poller.Interval,
		Timeout:  cfg.Poller.Timeout,
	}

	relay.Poller = poller.NewPoller(log, pollerCfg, repo.CustomerRepository, relay.Channel)
	log.Debug("Poller initialized")

	return relay, nil
}

func initService(log *zap.Logger, repo *Repository, relay *Relay) *Service {
	customerSvc := service.NewCustomerService(log, relay.Channel)
	log.Debug("Customer service initialized")

	healthSvc := service.NewHealthService(log, repo.HealthRepository, relay.Channel)
	log.Debug("Health service initialized")

	return &Service{
		CustomerService: customerSvc,
		HealthService:   healthSvc,
	}
}

func initHandler(log *zap.Logger, cfg *config.Config, svc *Service, relay *Relay) *Handler {
	healthHandler := handler.NewHealthHandler(log, svc.HealthService)
	log.Debug("Health handler initialized")

	// a typed nil *broadcast.Hub would not compare equal to nil inside the handler
	var hub handler.StreamHub
	if relay.Hub != nil {
		hub = relay.Hub
	}

	customerHandler := handler.NewCustomerHandler(log, svc.CustomerService, hub, cfg.Stream.PingInterval)
	log.Debug("Customer handler initialized")

	return &Handler{
		CustomerHandler: customerHandler,
		HealthHandler:   healthHandler,
	}
}

func initHTTPServer(log *zap.Logger, cfg *config.Config, hdl *Handler) server.HTTPServer {
	router := route.SetupRouter(
		log,
		cfg,
		hdl.HealthHandler,
		hdl.CustomerHandler,
	)

	httpServer := server.NewHTTPServer(
		server.WithAddr(cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		server.WithTimeout(cfg.HTTPServer.Timeout.Read, cfg.HTTPServer.Timeout.Write, cfg.HTTPServer.Timeout.Idle),
		server.WithShutdownTimeout(cfg.HTTPServer.Timeout.Shutdown),
		server.WithHandler(router),
	)

	return httpServer
}
