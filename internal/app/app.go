// Package app wires configuration, backends and HTTP routes into a runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orbio/internal/config"
	"orbio/internal/events"
	"orbio/internal/handlers"
	"orbio/internal/middleware"
	"orbio/internal/models"
	"orbio/internal/repositories"
	"orbio/internal/services"
	"orbio/internal/sessions"
	"orbio/internal/store"
	"orbio/internal/util"
	"orbio/pkg/kafka"
	"orbio/pkg/mailer"
	"orbio/pkg/postgrest"
	"orbio/pkg/rabbitmq"
	"orbio/pkg/storage"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// App is the assembled service.
type App struct {
	Fiber *fiber.App
	Repos *repositories.Set
	Auth  *services.AuthService

	cfg     *config.Config
	log     *zap.Logger
	closers []func(context.Context) error
	started time.Time
	backend string
	broker  string
}

// New builds every dependency named by cfg. Optional infrastructure that
// cannot be reached (Redis, brokers, object storage, tracing) is logged and
// replaced by its in-process fallback.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	log = util.OrNop(log)
	a := &App{cfg: cfg, log: log, started: time.Now(), backend: string(cfg.Backend)}

	if err := cfg.Validate(); err != nil {
		var cerr *config.ConfigurationError
		if !errors.As(err, &cerr) || cfg.Backend != config.BackendSupabase || len(cerr.Insecure) > 0 {
			return nil, err
		}
		// the hosted client still builds; its calls fail with ErrNotConfigured
		log.Error("configuration incomplete, data access disabled", zap.Strings("missing", cerr.Missing))
	}

	if cfg.Observ.JaegerEndpoint != "" {
		tp, err := util.InitTracer("orbio", cfg.Observ.JaegerEndpoint)
		if err != nil {
			log.Warn("tracing disabled", zap.Error(err))
		} else {
			a.closers = append(a.closers, tp.Shutdown)
		}
	}

	validate := validator.New()

	client, provider, err := a.openBackend()
	if err != nil {
		return nil, err
	}
	a.Repos = repositories.NewSet(client, validate)
	if provider == nil {
		provider = services.NewLocalIdentityProvider(a.Repos.Credentials)
	}

	a.Auth = services.NewAuthService(provider, a.Repos.Profiles, a.openSessions(ctx), cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, log)
	publisher := a.openPublisher()

	var notifier services.Notifier
	if m := mailer.New(mailer.Config{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
	}); m.Configured() {
		notifier = m
	}

	var uploader handlers.ImageUploader
	if cfg.Storage.Endpoint != "" {
		images, err := storage.New(ctx, storage.Config{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
			PublicURL: cfg.Storage.PublicURL,
		})
		if err != nil {
			log.Warn("image storage unavailable", zap.Error(err))
		} else {
			uploader = images
		}
	}

	orders := services.NewOrderService(a.Repos.Orders, a.Repos.Products, a.Repos.Inventory, publisher, log)
	inquiries := services.NewInquiryService(a.Repos.Inquiries, publisher, notifier, cfg.Mail.AdminAddress, log)
	catalog := services.NewCatalogService(a.Repos)

	if cfg.Backend != config.BackendSupabase {
		if err := seedContent(ctx, a.Repos, log); err != nil {
			log.Warn("content seed failed", zap.Error(err))
		}
		if cfg.IsDevelopment() && cfg.Auth.SeedDevAdmin {
			seedDevAdmin(ctx, a.Auth, log)
		}
	}

	a.Fiber = fiber.New(fiber.Config{
		AppName:      "orbio",
		ReadTimeout:  cfg.Server.RequestTimeout,
		WriteTimeout: cfg.Server.RequestTimeout,
	})
	a.Fiber.Use(recover.New())
	a.Fiber.Use(logger.New())
	a.Fiber.Use(middleware.Metrics())

	requireAuth := middleware.AuthRequired(a.Auth, log)
	apiV1 := a.Fiber.Group("/api/v1")

	handlers.NewAuthHandler(a.Auth, validate, log).RegisterRoutes(apiV1, requireAuth)
	handlers.NewCatalogHandler(catalog, log).RegisterRoutes(apiV1)
	handlers.NewContactHandler(inquiries, catalog, validate, log).RegisterRoutes(apiV1)
	handlers.NewOrderHandler(orders, a.Auth, validate, log).RegisterRoutes(apiV1, requireAuth)

	adminRoutes := apiV1.Group("/admin", requireAuth, middleware.RequireAdmin())
	newStore := func() *store.AdminStore {
		return store.NewAdminStore(a.Repos, orders, inquiries, a.Auth, log)
	}
	handlers.NewAdminHandler(newStore, uploader, validate, log).RegisterRoutes(adminRoutes)

	a.Fiber.Get("/health", a.handleHealth)
	a.Fiber.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return a, nil
}

func (a *App) handleHealth(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "healthy",
		"time":    time.Now().Format(time.RFC3339),
		"uptime":  time.Since(a.started).Round(time.Second).String(),
		"backend": a.backend,
		"events":  a.broker,
	})
}

// openBackend returns the table client for cfg.Backend. A nil provider means
// identities are managed locally.
func (a *App) openBackend() (repositories.TableClient, services.IdentityProvider, error) {
	cfg := a.cfg
	switch cfg.Backend {
	case config.BackendSupabase:
		client := postgrest.New(postgrest.Config{
			URL:     cfg.Supabase.URL,
			APIKey:  cfg.Supabase.AnonKey,
			Timeout: cfg.Supabase.Timeout,
		})
		return client, client, nil

	case config.BackendDatabase:
		var dialector gorm.Dialector
		switch cfg.Database.Driver {
		case "postgres":
			dialector = postgres.Open(cfg.Database.DSN)
		case "sqlite":
			dialector = sqlite.Open(cfg.Database.DSN)
		default:
			return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
		}
		db, err := gorm.Open(dialector, &gorm.Config{
			TranslateError: true,
			Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		})

		client := repositories.NewGORMTableClient(db, models.Tables()...)
		if err := client.Migrate(); err != nil {
			return nil, nil, fmt.Errorf("failed to auto-migrate database: %w", err)
		}
		a.log.Info("database connected", zap.String("driver", cfg.Database.Driver))
		return client, nil, nil

	default:
		a.log.Info("using in-memory tables")
		return repositories.NewMemoryTableClient(), nil, nil
	}
}

func (a *App) openSessions(ctx context.Context) sessions.Store {
	if a.cfg.Redis.Addr == "" {
		return sessions.NewMemoryStore()
	}
	client, err := sessions.NewRedisClient(ctx, a.cfg.Redis.Addr, a.cfg.Redis.Password, a.cfg.Redis.DB)
	if err != nil {
		a.log.Warn("redis unavailable, sessions kept in memory", zap.Error(err))
		return sessions.NewMemoryStore()
	}
	a.closers = append(a.closers, func(context.Context) error { return client.Close() })
	a.log.Info("redis session store connected", zap.String("addr", a.cfg.Redis.Addr))
	return sessions.NewRedisStore(client)
}

func (a *App) openPublisher() events.Publisher {
	cfg := a.cfg.Events
	switch cfg.Broker {
	case "rabbitmq":
		client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, a.log)
		if err != nil {
			a.log.Warn("rabbitmq unavailable, events disabled", zap.Error(err))
			break
		}
		a.closers = append(a.closers, func(context.Context) error { return client.Close() })
		if err := client.Consume(a.auditEvent); err != nil {
			a.log.Warn("failed to start audit consumer", zap.Error(err))
		}
		a.broker = cfg.Broker
		return events.RabbitPublisher{Client: client}

	case "kafka":
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		a.closers = append(a.closers, func(context.Context) error { return producer.Close() })
		a.broker = cfg.Broker
		return events.KafkaPublisher{Producer: producer}
	}
	a.broker = "none"
	return events.Nop{}
}

// auditEvent logs every domain event that comes back off the queue.
func (a *App) auditEvent(msg amqp.Delivery) error {
	a.log.Info("domain event",
		zap.String("routing_key", msg.RoutingKey),
		zap.ByteString("body", msg.Body))
	return nil
}

// Listen serves HTTP on the configured port until Shutdown.
func (a *App) Listen() error {
	return a.Fiber.Listen(a.cfg.Server.Port)
}

// Shutdown stops the HTTP server and releases every backend connection.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if err := a.Fiber.ShutdownWithContext(ctx); err != nil {
		errs = append(errs, err)
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
