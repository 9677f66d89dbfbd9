package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/campuskit/lostfound/internal/config"
	"github.com/campuskit/lostfound/internal/infra/cache"
	"github.com/campuskit/lostfound/internal/infra/database"
	"github.com/campuskit/lostfound/internal/infra/repository"
	"github.com/campuskit/lostfound/internal/present/rest"
	"github.com/campuskit/lostfound/internal/present/rest/middleware"
	"github.com/campuskit/lostfound/internal/service"
	"github.com/campuskit/lostfound/internal/telemetry"
	"github.com/campuskit/lostfound/internal/usecase"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	if conf.Server.EnableTrace {
		shutdown, err := telemetry.Setup(ctx, "lostfound", conf.Server.TraceEndpoint)
		if err != nil {
			slog.Error("failed to setup tracing", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer shutdown(ctx)
	}

	db, err := database.NewPostgres(conf.Server.PostgresDsn)
	if err != nil {
		slog.Error("failed to connect database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := database.MigratePostgres(db); err != nil {
		slog.Error("failed to migrate database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rdb := database.NewRedis(conf.Server.RedisAddr, conf.Server.RedisPassword, conf.Server.RedisDB)
	mc := database.NewMemcached(conf.Server.MemcachedAddr)

	signal := service.NewSignalService(rdb)
	limiter := service.NewRateLimitService(rdb)

	postingRepo := repository.NewPostingRepository(db)
	itemRepo := repository.NewItemRepository(db)
	configRepo := repository.NewConfigRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	statsCache := cache.NewStatsCache(mc)

	configUC := usecase.NewConfigUsecase(configRepo, signal)
	reviewUC := usecase.NewReviewUsecase(postingRepo, configUC, limiter, signal)
	itemUC := usecase.NewItemUsecase(itemRepo, configUC, signal)
	statsUC := usecase.NewStatsUsecase(itemRepo, statsCache)
	accountUC := usecase.NewAccountUsecase(accountRepo)
	announcementUC := usecase.NewAnnouncementUsecase(announcementRepo)

	handler := rest.NewHandler(reviewUC, itemUC, configUC, statsUC, accountUC, announcementUC, signal)
	staff := middleware.NewStaffMiddleware()

	e := echo.New()
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	if conf.Server.EnableTrace {
		e.Use(otelecho.Middleware("lostfound"))
	}
	e.Use(staff.IdentifyStaff)

	handler.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(conf.Server.Listen))
}
