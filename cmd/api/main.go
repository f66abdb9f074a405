package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/blog-service/internal/api/http"
	"github.com/spec-kit/blog-service/internal/api/http/handlers"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/observability"
	"github.com/spec-kit/blog-service/internal/persistence"
	"github.com/spec-kit/blog-service/internal/repository"
	"github.com/spec-kit/blog-service/internal/service"
	"github.com/spec-kit/blog-service/internal/storage"
	"github.com/spec-kit/blog-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	articleRepo := repository.NewArticleRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	fileRepo := repository.NewFileRepository(pool)

	blacklistTTL := maxTokenTTL(cfg.Auth)
	var blacklistRepo repository.TokenBlacklistRepository
	if err := redis.Ping(ctx); err != nil {
		logger.Warn("redis unavailable; using in-memory token blacklist", zap.Error(err))
		blacklistRepo = repository.NewMemoryTokenBlacklist(blacklistTTL)
	} else {
		blacklistRepo = repository.NewRedisTokenBlacklist(redis.Client, blacklistTTL)
	}

	fileStore, err := newFileStore(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("failed to init file store", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:      userRepo,
		RoleRepo:      roleRepo,
		BlacklistRepo: blacklistRepo,
		Dispatcher:    dispatcher,
	})
	userService := service.NewUserService(userRepo, roleRepo)
	articleService := service.NewArticleService(articleRepo, commentRepo)
	commentService := service.NewCommentService(commentRepo, articleRepo, dispatcher)
	fileService := service.NewFileService(fileRepo, userRepo, fileStore)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenFactory(), blacklistRepo, userRepo, roleRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService, userService),
		Articles:       handlers.NewArticlesHandler(articleService),
		Comments:       handlers.NewCommentsHandler(commentService),
		Files:          handlers.NewFilesHandler(fileService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func newFileStore(ctx context.Context, cfg config.StorageConfig) (storage.FileStore, error) {
	if cfg.Driver == "minio" {
		return storage.NewMinioStore(ctx, cfg)
	}
	return storage.NewDiskStore(cfg.DiskDir)
}

func maxTokenTTL(cfg config.AuthConfig) time.Duration {
	minutes := cfg.AuthTokenTTLMinutes
	if cfg.PassResetTTLMinutes > minutes {
		minutes = cfg.PassResetTTLMinutes
	}
	if cfg.VerifyTokenTTLMinutes > minutes {
		minutes = cfg.VerifyTokenTTLMinutes
	}
	if minutes <= 0 {
		minutes = 60
	}
	return time.Duration(minutes) * time.Minute
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
