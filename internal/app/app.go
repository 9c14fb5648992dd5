package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/roomstay/backoffice/internal/auth"
	"github.com/roomstay/backoffice/internal/booking"
	"github.com/roomstay/backoffice/internal/codes"
	"github.com/roomstay/backoffice/internal/config"
	"github.com/roomstay/backoffice/internal/forum"
	"github.com/roomstay/backoffice/internal/logger"
	"github.com/roomstay/backoffice/internal/member"
	"github.com/roomstay/backoffice/internal/migration"
	"github.com/roomstay/backoffice/internal/rooms"
	"github.com/roomstay/backoffice/internal/storage/memory"
	"github.com/roomstay/backoffice/internal/storage/postgres"
	"github.com/roomstay/backoffice/internal/transport/web"
)

func Run(l *logger.Logger) error {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGHUP,
	)
	defer cancel()

	conf := config.Load()

	managers, err := buildManagers(ctx, l, conf)
	if err != nil {
		return err
	}

	webConf := web.Conf{
		L:                 l,
		ServerLogger:      log.Default(),
		Host:              conf.Host,
		Port:              conf.Port,
		ReadHeaderTimeout: conf.ReadHeaderTimeout,
		LivenessEndpoint:  conf.LivenessEndpoint,
	}

	srv, err := web.New(ctx, webConf, managers)
	if err != nil {
		return fmt.Errorf("init http server: %w", err)
	}

	//nolint:contextcheck
	go func() {
		<-ctx.Done()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*4) //nolint:gomnd
		defer cancel()

		if err := srv.Srv().Shutdown(ctx); err != nil {
			l.LogErrorf("Failed to stop http server: %v", err.Error())
		}
	}()

	l.LogInfo("Application is running on %v:%v...", webConf.Host, webConf.Port)

	if err := srv.Srv().ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		l.LogErrorf("Failed to run http server: %v", err.Error())

		cancel()
	}

	l.LogInfo("Application stopped gracefully")

	return nil
}

func buildManagers(ctx context.Context, l *logger.Logger, conf *config.Config) (web.Managers, error) {
	codeGen := codes.New()

	var managers web.Managers

	if conf.DatabaseURL != "" {
		store, err := postgres.Open(l, conf.DatabaseURL)
		if err != nil {
			return managers, fmt.Errorf("open postgres storage: %w", err)
		}

		if err := migration.Up(ctx, l, store); err != nil {
			return managers, fmt.Errorf("seed postgres storage: %w", err)
		}

		managers.Bookings = booking.New(l, store, codeGen)
		managers.Rooms = rooms.New(l, store)
		managers.Members = member.New(l, store)
		managers.Forum = forum.New(l, store)

		l.LogInfo("Using postgres storage")
	} else {
		store := memory.New(memory.Config{L: l})

		if err := migration.Up(ctx, l, store); err != nil {
			return managers, fmt.Errorf("seed memory storage: %w", err)
		}

		managers.Bookings = booking.New(l, store, codeGen)
		managers.Rooms = rooms.New(l, store)
		managers.Members = member.New(l, store)
		managers.Forum = forum.New(l, store)

		l.LogInfo("Using in-memory storage")
	}

	var tokens auth.TokenStore = auth.NewMemoryStore()
	if conf.RedisAddr != "" {
		tokens = auth.NewRedisStore(conf.RedisAddr, conf.RedisPassword)

		l.LogInfo("Using redis token store at %v", conf.RedisAddr)
	}

	authConf := auth.Config{
		Secret:     []byte(conf.JWTSecret),
		AccessTTL:  conf.AccessTokenTTL,
		RefreshTTL: conf.RefreshTokenTTL,
	}

	managers.Auth = auth.New(l, authConf, managers.Members, tokens)

	return managers, nil
}
