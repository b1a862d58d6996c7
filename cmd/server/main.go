package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	httpapi "github.com/swapmarket/swapmarket/internal/api/http"
	"github.com/swapmarket/swapmarket/internal/application/auth"
	"github.com/swapmarket/swapmarket/internal/application/chain"
	"github.com/swapmarket/swapmarket/internal/application/claim"
	"github.com/swapmarket/swapmarket/internal/application/match"
	appOffer "github.com/swapmarket/swapmarket/internal/application/offer"
	appProduct "github.com/swapmarket/swapmarket/internal/application/product"
	"github.com/swapmarket/swapmarket/internal/config"
	"github.com/swapmarket/swapmarket/internal/infrastructure/postgres"
	"github.com/swapmarket/swapmarket/internal/infrastructure/sse"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db error: %v", err)
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool, "internal/migrations"); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	// repositories
	store := postgres.NewStore(pool)
	offerRepo := postgres.NewOfferRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)

	// infrastructure
	sseHub := sse.NewHub(logger)

	// services
	coordinator := claim.NewCoordinator(store, logger)
	authSvc := auth.NewService(userRepo, sessionRepo, cfg.SessionTTL, logger)
	productSvc := appProduct.NewService(productRepo, logger)
	offerSvc := appOffer.NewService(offerRepo, productRepo, coordinator, sseHub, cfg.OfferTTL, logger)
	chainSvc := chain.NewService(offerRepo, cfg.ChainMaxDepth, logger)
	matchSvc := match.NewService(productRepo, cfg.MatchLimit, logger)

	// API server
	apiServer := httpapi.NewServer(authSvc, productSvc, offerSvc, chainSvc, matchSvc, sseHub, cfg.SessionCookieName, cfg.SessionCookieSecure)

	httpServer := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// background loops
	go func() {
		ticker := time.NewTicker(cfg.ExpirySweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			n, err := offerSvc.ExpirePending(context.Background(), time.Now().UTC(), cfg.ExpirySweepBatch)
			if err != nil {
				logger.Warn().Err(err).Msg("offer expiry sweep failed")
				continue
			}
			if n > 0 {
				logger.Info().Int("expired", n).Msg("offer expiry sweep")
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			_, _ = sessionRepo.DeleteExpired(context.Background())
		}
	}()

	// start server
	go func() {
		logger.Info().Str("addr", cfg.ServerAddr).Msg("http server started")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctxShutdown)
	sseHub.Stop()
}
