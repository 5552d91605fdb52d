package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Checker-Finance/paymob-payout/internal/api"
	intsecrets "github.com/Checker-Finance/paymob-payout/internal/secrets"
	"github.com/Checker-Finance/paymob-payout/pkg/config"
	"github.com/Checker-Finance/paymob-payout/pkg/logger"
	"github.com/Checker-Finance/paymob-payout/pkg/payout"
	pkgsecrets "github.com/Checker-Finance/paymob-payout/pkg/secrets"
	"github.com/Checker-Finance/paymob-payout/pkg/store"
	"github.com/Checker-Finance/paymob-payout/pkg/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Load configuration ---
	cfg := config.Load()

	logger.Init(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	defer logger.Sync()
	logg := logger.S()
	logg.Info("starting [paymob-payout]...")

	if err := cfg.Validate(); err != nil {
		logg.Fatalw("invalid configuration", "error", err)
	}

	// --- Credentials (env or AWS Secrets Manager) ---
	creds, err := resolveCredentials(ctx, cfg, logger.L())
	if err != nil {
		logg.Fatalw("failed to resolve paymob credentials", "error", err)
	}

	// --- Token store ---
	st, err := newTokenStore(ctx, cfg, logger.L())
	if err != nil {
		logg.Fatalw("failed to init token store", "error", err)
	}
	defer st.Close() //nolint:errcheck

	// --- Paymob client + payout facade ---
	client, err := payout.NewClient(cfg.Payout(creds), st, payout.WithLogger(logger.L()))
	if err != nil {
		logg.Fatalw("failed to init paymob client", "error", err)
	}
	svc := payout.NewService(client, logger.L())

	// --- Fiber HTTP Server ---
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
		BodyLimit:    cfg.HTTPBodyLimit,
	})
	api.RegisterRoutes(app, st, api.NewPayoutHandler(logger.L(), svc))

	go func() {
		logg.Infof("HTTP API listening on :%d", cfg.Port)
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			logg.Fatalw("fiber.listen_failed", "error", err)
		}
	}()

	logg.Infow("[paymob-payout] running",
		"paymob_env", cfg.PaymobEnvironment,
		"token_store", cfg.TokenStore,
		"username", creds.Username)

	<-ctx.Done()
	stop()
	logg.Info("shutting down [paymob-payout]...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	app.ShutdownWithContext(shutdownCtx) //nolint:errcheck
}

// resolveCredentials reads credentials from AWS Secrets Manager when PAYMOB_SECRET_ID is set.
func resolveCredentials(ctx context.Context, cfg *config.Config, log *zap.Logger) (payout.Credentials, error) {
	if cfg.PaymobSecretID == "" {
		return cfg.Credentials(), nil
	}

	awsProvider, err := pkgsecrets.NewAWSProvider(ctx, cfg.AWSRegion)
	if err != nil {
		return payout.Credentials{}, err
	}
	cache := pkgsecrets.NewCache[payout.Credentials](cfg.SecretCacheTTL)
	resolver := intsecrets.NewCredentialsResolver(log, cfg.PaymobSecretID, awsProvider, cache)
	return resolver.Resolve(ctx)
}

func newTokenStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (store.TokenStore, error) {
	if cfg.TokenStore == config.StoreRedis {
		log.Info("store.redis_selected", zap.String("url", utils.MaskDSN(cfg.RedisURL)))
		return store.NewRedisStoreFromURL(ctx, cfg.RedisURL, log)
	}
	return store.NewMemoryStore(cfg.CleanupFreq), nil
}
