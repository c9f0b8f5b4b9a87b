// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	app "github.com/alchemorsel/pantry/internal/application/recipe"
	"github.com/alchemorsel/pantry/internal/application/video"
	"github.com/alchemorsel/pantry/internal/infrastructure/ai/generator"
	"github.com/alchemorsel/pantry/internal/infrastructure/config"
	"github.com/alchemorsel/pantry/internal/infrastructure/events"
	"github.com/alchemorsel/pantry/internal/infrastructure/http/apiserver"
	"github.com/alchemorsel/pantry/internal/infrastructure/monitoring"
	gormRepo "github.com/alchemorsel/pantry/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/migrations"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/postgres"
	redisRepo "github.com/alchemorsel/pantry/internal/infrastructure/persistence/redis"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/sqlite"
	"github.com/alchemorsel/pantry/internal/infrastructure/storage"
	"github.com/alchemorsel/pantry/internal/ports/inbound"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
	"github.com/alchemorsel/pantry/pkg/healthcheck"
	"github.com/alchemorsel/pantry/pkg/logger"
)

// ConfigPath is the optional configuration file handed to config.Load
type ConfigPath string

// CoreModule wires everything the use cases need. The CLI runs on it alone.
var CoreModule = fx.Options(
	ConfigModule,
	LoggerModule,
	MonitoringModule,
	DatabaseModule,
	CatalogModule,
	CacheModule,
	GeneratorModule,
	EventModule,
	ServiceModule,
)

// Module is the full API server application
var Module = fx.Options(
	CoreModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func(path ConfigPath) (*config.Config, error) {
		return config.Load(string(path))
	},
)

// LoggerModule provides logging. The atomic level is kept so config
// reloads can change verbosity.
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, zap.AtomicLevel, error) {
		return logger.NewWithLevel(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// MonitoringModule provides metrics, tracing and health checks
var MonitoringModule = fx.Provide(
	monitoring.NewMetrics,
	func(m *monitoring.Metrics) outbound.VideoMetrics { return m },
	func(cfg *config.Config, log *zap.Logger) *healthcheck.HealthCheck {
		return healthcheck.New(cfg.App.Version, log.Named("health"))
	},
	NewTracing,
)

// DatabaseModule provides the optional relational database
var DatabaseModule = fx.Provide(NewDatabase)

// CatalogModule provides the recipe catalog and rating store
var CatalogModule = fx.Provide(NewCatalogRepository, NewRatingRepository)

// CacheModule provides the video cache
var CacheModule = fx.Provide(NewVideoCache)

// GeneratorModule provides the video generation strategy
var GeneratorModule = fx.Provide(NewVideoGenerator)

// EventModule provides the domain event publisher
var EventModule = fx.Provide(NewEventPublisher)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	fx.Annotate(
		app.NewCatalogService,
		fx.As(new(inbound.CatalogService)),
	),
	func(cfg *config.Config) video.Config {
		return video.Config{
			FallbackEnabled:   cfg.Video.FallbackEnabled,
			FallbackURL:       cfg.Video.FallbackURL,
			GenerationTimeout: cfg.Video.GenerationTimeout,
			CacheTimeout:      cfg.Video.CacheTimeout,
		}
	},
	fx.Annotate(
		video.NewService,
		fx.As(new(inbound.VideoService)),
	),
)

// HTTPModule provides the API server
var HTTPModule = fx.Provide(
	func(
		cfg *config.Config,
		log *zap.Logger,
		catalog inbound.CatalogService,
		videos inbound.VideoService,
		metrics *monitoring.Metrics,
		health *healthcheck.HealthCheck,
	) *apiserver.Server {
		if !cfg.Monitoring.EnableMetrics {
			metrics = nil
		}
		return apiserver.New(cfg, log, catalog, videos, metrics, health)
	},
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// Database holds the relational database, nil when neither the catalog
// nor the video cache is configured to use one
type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the configured database when a component needs it
func NewDatabase(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, health *healthcheck.HealthCheck) (*Database, error) {
	if cfg.Catalog.Driver != "database" && cfg.Video.CacheDriver != "database" {
		return &Database{}, nil
	}

	ctx := context.Background()
	var (
		db  *gorm.DB
		err error
	)

	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.AutoMigrate {
			if err := migrateUp(cfg.Database, log); err != nil {
				return nil, err
			}
		}
		db, err = postgres.Connect(ctx, cfg.Database, cfg.App.LogLevel, log)
	default:
		db, err = sqlite.SetupDatabase(cfg.Database.Path,
			gormRepo.NewLogger(log, cfg.App.LogLevel, cfg.Database.SlowQueryThreshold))
		if err == nil {
			log.Info("Connected to SQLite database", zap.String("path", cfg.Database.Path))
		}
	}
	if err != nil {
		return nil, err
	}

	if cfg.Catalog.Driver == "database" && cfg.Catalog.Seed {
		if err := sqlite.SeedDatabase(ctx, db, log); err != nil {
			return nil, err
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	health.Register("database", healthcheck.NewSQLChecker(sqlDB))

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return sqlDB.Close()
		},
	})

	return &Database{DB: db}, nil
}

func migrateUp(cfg config.DatabaseConfig, log *zap.Logger) error {
	m, err := migrations.Open(cfg, log.Named("migrations"))
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}

// NewCatalogRepository selects the catalog store
func NewCatalogRepository(cfg *config.Config, db *Database, log *zap.Logger) (outbound.CatalogRepository, error) {
	if cfg.Catalog.Driver == "database" {
		log.Info("Using database recipe catalog")
		return gormRepo.NewCatalogRepository(db.DB), nil
	}

	log.Info("Using built-in recipe catalog")
	return memory.NewSeededCatalogRepository()
}

// NewRatingRepository stores ratings next to the catalog
func NewRatingRepository(cfg *config.Config, db *Database) outbound.RatingRepository {
	if cfg.Catalog.Driver == "database" {
		return gormRepo.NewRatingRepository(db.DB)
	}
	return memory.NewRatingRepository()
}

// NewVideoCache selects the video cache
func NewVideoCache(
	lc fx.Lifecycle,
	cfg *config.Config,
	db *Database,
	health *healthcheck.HealthCheck,
	log *zap.Logger,
) (outbound.VideoCache, error) {
	ttl := cfg.Video.CacheTTL

	switch cfg.Video.CacheDriver {
	case "redis":
		client, err := redisRepo.NewClient(context.Background(), cfg.Redis, log)
		if err != nil {
			return nil, err
		}
		health.Register("redis", healthcheck.NewRedisChecker(client))
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return client.Close()
			},
		})
		return redisRepo.NewVideoCache(client, cfg.Redis.KeyPrefix, ttl, log), nil
	case "database":
		return gormRepo.NewVideoRecordRepository(db.DB, ttl), nil
	default:
		return memory.NewVideoCache(ttl), nil
	}
}

// NewVideoGenerator builds the generation chain: the remote provider
// (throttled) or the keyword matcher, optionally mirrored into S3.
func NewVideoGenerator(cfg *config.Config, log *zap.Logger) (outbound.VideoGenerator, error) {
	vc := cfg.Video

	var gen outbound.VideoGenerator
	if cfg.UseRemoteGenerator() {
		client := generator.NewHTTPClient(vc.Remote.RequestTimeout)
		tokens := generator.NewAuthenticator(vc.Remote.BaseURL, vc.Remote.APIKey, client, vc.Remote.AuthTimeout, log)
		remote := generator.NewRemoteGenerator(generator.RemoteConfig{
			BaseURL:        vc.Remote.BaseURL,
			Model:          vc.Remote.Model,
			RequestTimeout: vc.Remote.RequestTimeout,
		}, tokens, client, log)
		gen = generator.NewRateLimitedGenerator(remote, vc.RateLimit.RequestsPerMinute, vc.RateLimit.Burst)
		log.Info("Using remote video generator",
			zap.String("base_url", vc.Remote.BaseURL),
			zap.String("model", vc.Remote.Model),
		)
	} else {
		gen = generator.NewKeywordGenerator()
		log.Info("Using keyword video generator")
	}

	if !vc.Mirror.Enabled {
		return gen, nil
	}

	store, err := storage.NewS3Storage(context.Background(), storage.S3Config{
		Region:          cfg.AWS.Region,
		Bucket:          vc.Mirror.Bucket,
		Endpoint:        cfg.AWS.Endpoint,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		UsePathStyle:    cfg.AWS.UsePathStyle,
		PublicBaseURL:   vc.Mirror.PublicBaseURL,
	}, log)
	if err != nil {
		return nil, err
	}

	return generator.NewMirroringGenerator(
		gen,
		store,
		generator.NewHTTPClient(vc.GenerationTimeout),
		vc.Mirror.Prefix,
		vc.Mirror.MaxBytes,
		log,
	), nil
}

// NewEventPublisher selects the event sink
func NewEventPublisher(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (outbound.EventPublisher, error) {
	if cfg.Events.Driver != "kafka" {
		return events.NewLogPublisher(log), nil
	}

	publisher, err := events.NewKafkaPublisher(events.KafkaConfig{
		Brokers:      cfg.Events.Brokers,
		Topic:        cfg.Events.Topic,
		ClientID:     cfg.Events.ClientID,
		RetryMax:     cfg.Events.RetryMax,
		RequiredAcks: cfg.Events.RequiredAcks,
	}, log)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return publisher.Close()
		},
	})
	return publisher, nil
}

// NewTracing installs the tracer provider and flushes it on stop
func NewTracing(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*monitoring.Tracing, error) {
	tracing, err := monitoring.NewTracing(context.Background(), monitoring.TracingConfig{
		ServiceName:    cfg.App.Name,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		Endpoint:       cfg.Monitoring.OTLPEndpoint,
		Insecure:       cfg.Monitoring.OTLPInsecure,
		SamplingRate:   cfg.Monitoring.SamplingRate,
		Enabled:        cfg.Monitoring.EnableTracing,
	}, log)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{OnStop: tracing.Shutdown})
	return tracing, nil
}

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	path ConfigPath,
	cfg *config.Config,
	log *zap.Logger,
	level zap.AtomicLevel,
	_ *monitoring.Tracing,
	server *apiserver.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting Pantry",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
				zap.String("catalog", cfg.Catalog.Driver),
				zap.String("video_cache", cfg.Video.CacheDriver),
				zap.Bool("remote_generator", cfg.UseRemoteGenerator()),
			)

			if path != "" {
				config.WatchLogLevel(string(path), level, log)
			}

			go func() {
				if err := server.Start(); err != nil {
					log.Error("HTTP server stopped", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down Pantry")

			if err := server.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			_ = log.Sync()
			return nil
		},
	})
}
