// Command mockapi serves a local stand-in for the admin API: authentication,
// roles, permissions and cities, backed by memory or MongoDB.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirenecole/admin-console/internal/api"
	"github.com/sirenecole/admin-console/internal/api/handler"
	"github.com/sirenecole/admin-console/internal/core/ports"
	"github.com/sirenecole/admin-console/internal/core/service"
	"github.com/sirenecole/admin-console/internal/infrastructure/config"
	"github.com/sirenecole/admin-console/internal/infrastructure/db/memory"
	mongostore "github.com/sirenecole/admin-console/internal/infrastructure/db/mongo"
	redisstore "github.com/sirenecole/admin-console/internal/infrastructure/db/redis"
	"github.com/sirenecole/admin-console/internal/infrastructure/seed"
	"github.com/sirenecole/admin-console/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "mockapi: %v\n", err)
		os.Exit(1)
	}
}

type stores struct {
	users  ports.UserRepository
	roles  ports.RoleRepository
	cities ports.CityRepository
	otps   ports.OTPStore
	checks map[string]handler.Check
	close  []func(context.Context) error
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "mockapi",
	})

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for _, c := range st.close {
			if err := c(closeCtx); err != nil {
				log.Warn().Err(err).Msg("closing store")
			}
		}
	}()

	if cfg.MockAPI.Seed {
		if err := seed.Run(ctx, st.users, st.roles, st.cities, nil, logger.For("seed")); err != nil {
			return err
		}
	}

	directory := service.NewDirectoryService(st.users, st.roles, st.cities, st.otps, service.DirectoryConfig{
		JWTSecret: cfg.MockAPI.JWTSecret,
		TokenTTL:  cfg.MockAPI.TokenTTL,
		OTPTTL:    cfg.MockAPI.OTPTTL,
	}, logger.For("directory"))

	e := api.NewRouter(api.Deps{
		Directory: directory,
		JWTSecret: cfg.MockAPI.JWTSecret,
		Checks:    st.checks,
		Log:       logger.For("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.MockAPI.Port
		log.Info().Str("addr", addr).Str("store", cfg.MockAPI.Store).Str("otp_store", cfg.MockAPI.OTPStore).Msg("mock API listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	st := &stores{checks: map[string]handler.Check{}}

	switch cfg.MockAPI.Store {
	case config.StoreMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		st.close = append(st.close, client.Disconnect)
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			return nil, err
		}
		st.users = mongostore.NewUserRepository(db)
		st.roles = mongostore.NewRoleRepository(db)
		st.cities = mongostore.NewCityRepository(db)
		st.checks["mongo"] = handler.MongoCheck(db)
		log.Info().Str("database", cfg.Mongo.Database).Msg("using MongoDB store")
	default:
		users := memory.NewUserRepository()
		st.users = users
		st.roles = memory.NewRoleRepository(users)
		st.cities = memory.NewCityRepository()
	}

	switch cfg.MockAPI.OTPStore {
	case config.SessionRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		st.close = append(st.close, func(context.Context) error { return client.Close() })
		st.otps = redisstore.NewOTPStore(client)
		st.checks["redis"] = handler.RedisCheck(client)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using Redis OTP store")
	default:
		st.otps = memory.NewOTPStore()
	}
	return st, nil
}
