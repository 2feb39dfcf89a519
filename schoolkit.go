package schoolkit

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/techmaster-vietnam/schoolkit/cache"
	"github.com/techmaster-vietnam/schoolkit/config"
	"github.com/techmaster-vietnam/schoolkit/core"
	"github.com/techmaster-vietnam/schoolkit/database"
	"github.com/techmaster-vietnam/schoolkit/handlers"
	"github.com/techmaster-vietnam/schoolkit/middleware"
	"github.com/techmaster-vietnam/schoolkit/repository"
	"github.com/techmaster-vietnam/schoolkit/router"
	"github.com/techmaster-vietnam/schoolkit/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Config là alias cho config.Config để tránh conflict với package config khác
type Config = config.Config

// SchoolKit là main struct chứa tất cả dependencies
type SchoolKit struct {
	Config *Config
	Logger *zap.Logger

	// Storage: DB khác nil với driver postgres, Store khác nil với driver memory
	DB    *gorm.DB
	Store *repository.MemoryStore
	Redis *redis.Client

	// Repositories
	RoleRepo   core.RoleRepository
	UserRepo   core.UserRepository
	SchoolRepo core.SchoolRepository
	RoleCache  core.RoleCache

	// Services
	RoleUsage     *service.RoleUsageService
	AuthService   *service.AuthService
	RoleService   *service.RoleService
	UserService   *service.UserService
	SchoolService *service.SchoolService

	// Middleware
	AuthMiddleware *middleware.AuthMiddleware

	// Handlers
	AuthHandler   *handlers.AuthHandler
	RoleHandler   *handlers.RoleHandler
	UserHandler   *handlers.UserHandler
	SchoolHandler *handlers.SchoolHandler

	// Route registry
	RouteRegistry *router.RouteRegistry

	app *fiber.App
}

// Builder là builder để tạo SchoolKit
type Builder struct {
	app     *fiber.App
	db      *gorm.DB
	config  *Config
	logger  *zap.Logger
	dataset *database.Dataset
}

// New tạo mới Builder
func New(app *fiber.App) *Builder {
	return &Builder{app: app}
}

// WithConfig set config cho builder
func (b *Builder) WithConfig(cfg *Config) *Builder {
	b.config = cfg
	return b
}

// WithDB dùng kết nối có sẵn thay vì mở kết nối mới (chỉ với driver postgres)
func (b *Builder) WithDB(db *gorm.DB) *Builder {
	b.db = db
	return b
}

// WithLogger set logger cho seed và cache
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	b.logger = logger
	return b
}

// WithDataset thay dataset khởi tạo mặc định (database.DevDataset)
func (b *Builder) WithDataset(ds database.Dataset) *Builder {
	b.dataset = &ds
	return b
}

// Initialize khởi tạo SchoolKit với tất cả dependencies
func (b *Builder) Initialize(ctx context.Context) (*SchoolKit, error) {
	if b.config == nil {
		b.config = config.LoadConfig()
	}
	if b.logger == nil {
		b.logger = zap.NewNop()
	}
	if b.dataset == nil {
		ds := database.DevDataset()
		b.dataset = &ds
	}
	cfg := b.config

	kit := &SchoolKit{Config: cfg, Logger: b.logger, app: b.app}
	if err := b.initStorage(ctx, kit); err != nil {
		return nil, err
	}

	if cfg.Redis.Addr != "" {
		kit.Redis = cache.NewRedisClient(cfg.Redis)
		kit.RoleCache = cache.NewRedisRoleCache(kit.Redis, cfg.Redis.TTL, b.logger)
	} else {
		kit.RoleCache = cache.NewMemoryRoleCache()
	}

	// Initialize services
	kit.RoleUsage = service.NewRoleUsageService(kit.RoleRepo, kit.UserRepo)
	kit.RoleService = service.NewRoleService(kit.RoleRepo, kit.RoleUsage, kit.RoleCache)
	kit.UserService = service.NewUserService(kit.UserRepo, kit.RoleRepo, kit.RoleUsage)
	kit.SchoolService = service.NewSchoolService(kit.SchoolRepo, kit.RoleRepo, kit.UserRepo, kit.RoleCache, cfg.Seed.DefaultSchoolAdminPassword)
	kit.AuthService = service.NewAuthService(kit.UserRepo, kit.RoleService, cfg.JWT)

	kit.AuthMiddleware = middleware.NewAuthMiddleware(kit.AuthService)

	// Initialize handlers
	kit.AuthHandler = handlers.NewAuthHandler(kit.AuthService)
	kit.RoleHandler = handlers.NewRoleHandler(kit.RoleService)
	kit.UserHandler = handlers.NewUserHandler(kit.UserService, kit.RoleService, kit.SchoolService)
	kit.SchoolHandler = handlers.NewSchoolHandler(kit.SchoolService)

	kit.RouteRegistry = router.NewRouteRegistry()
	return kit, nil
}

func (b *Builder) initStorage(ctx context.Context, kit *SchoolKit) error {
	cfg := b.config
	switch cfg.Storage.Driver {
	case config.StorageMemory, "":
		store := repository.NewMemoryStore()
		if cfg.Seed.Enabled {
			if err := database.SeedMemory(store, *b.dataset, cfg.Seed.Version, b.logger); err != nil {
				return fmt.Errorf("seed memory store: %w", err)
			}
		}
		kit.Store = store
		kit.RoleRepo, kit.UserRepo, kit.SchoolRepo = store.Roles(), store.Users(), store.Schools()

	case config.StoragePostgres:
		db := b.db
		if db == nil {
			var err error
			if db, err = database.Open(cfg.Database, cfg.Log.Level); err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
		}
		if cfg.Database.Reset {
			if err := database.Reset(db, b.logger); err != nil {
				return fmt.Errorf("reset database: %w", err)
			}
		}
		if err := database.RunMigrations(db, cfg.Database.Name); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		if cfg.Seed.Enabled {
			if err := database.SeedPostgres(ctx, db, *b.dataset, cfg.Seed.Version, b.logger); err != nil {
				return fmt.Errorf("seed database: %w", err)
			}
		}
		kit.DB = db
		kit.RoleRepo = repository.NewRoleRepository(db)
		kit.UserRepo = repository.NewUserRepository(db)
		kit.SchoolRepo = repository.NewSchoolRepository(db)

	default:
		return fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	return nil
}

// SetupRoutes đăng ký toàn bộ route vào fiber app
func (k *SchoolKit) SetupRoutes() {
	router.SetupRoutes(k.app, k.RouteRegistry, k.AuthMiddleware, router.Handlers{
		Auth:   k.AuthHandler,
		Role:   k.RoleHandler,
		User:   k.UserHandler,
		School: k.SchoolHandler,
	})
}

// InvalidateCache xóa toàn bộ cache role
func (k *SchoolKit) InvalidateCache(ctx context.Context) {
	k.RoleCache.Clear(ctx)
}

// Close đóng các kết nối đã mở
func (k *SchoolKit) Close() error {
	if k.Redis != nil {
		if err := k.Redis.Close(); err != nil {
			return err
		}
	}
	if k.DB != nil {
		sqlDB, err := k.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return config.LoadConfig()
}
