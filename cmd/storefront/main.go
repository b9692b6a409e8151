package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/storefront/internal/apiclient"
	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/checkout"
	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/es"
	"github.com/Skotchmaster/storefront/internal/guard"
	"github.com/Skotchmaster/storefront/internal/handlers"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/middleware/csrf"
	"github.com/Skotchmaster/storefront/internal/middleware/reqlog"
	"github.com/Skotchmaster/storefront/internal/mykafka"
	"github.com/Skotchmaster/storefront/internal/notify"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/storage"
	httpserver "github.com/Skotchmaster/storefront/internal/transport/http"
)

func main() {
	cfg := config.Load()
	l := logging.New(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		l.Error("config_invalid", "error", err)
		os.Exit(1)
	}
	ctx := logging.IntoContext(context.Background(), l)

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		l.Error("storage_open_failed", "backend", cfg.StorageBackend, "error", err)
		os.Exit(1)
	}
	tokens := storage.NewTokenStore(store, cfg.TokenTTL)

	queue := notify.NewQueue(50)
	notifier := notify.Fanout{notify.Log{Logger: l}, queue}

	var prod *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		if prod, err = mykafka.NewProducer(cfg.KafkaBrokers, l); err != nil {
			l.Error("kafka_init_failed", "error", err)
			os.Exit(1)
		}
		notifier = append(notifier, notify.Events{Producer: prod})
	}

	var searcher *search.Searcher
	if cfg.ESURL != "" {
		client, err := es.NewClient(ctx, cfg, l)
		if err != nil {
			l.Warn("search_disabled", "reason", err.Error())
		} else {
			searcher = &search.Searcher{Client: client, Index: cfg.ESIndex}
		}
	}

	api := apiclient.New(cfg.APIBaseURL, cfg.APITimeout)
	basket := cart.Load(ctx, store, notifier, l)
	sess := session.New(api, tokens, notifier, l)
	go sess.Hydrate(ctx)

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), reqlog.RequestLogger(l), csrf.Middleware(csrf.DefaultConfig()))

	deps := httpserver.Deps{
		Session:  sess,
		API:      guard.API(),
		Cart:     &handlers.CartHandler{Cart: basket, Catalog: api},
		Auth:     &handlers.SessionHandler{Session: sess},
		Checkout: &handlers.CheckoutHandler{Checkout: &checkout.Service{API: api, Cart: basket, Session: sess, Notifier: notifier, Logger: l}},
		Catalog:  &handlers.CatalogHandler{API: api, Search: searcher},
		Customer: &handlers.CustomerHandler{API: api, Session: sess},
		Shop:     &handlers.ShopHandler{API: api, Session: sess},
		Routes:   &handlers.RoutesHandler{Pages: guard.Pages(), Session: sess},
		Notices:  &handlers.NoticesHandler{Queue: queue},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		l.Info("http_listening", "addr", cfg.ListenAddr, "api", cfg.APIBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("http_server_error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	go func() {
		<-quit
		l.Warn("force_exit")
		os.Exit(1)
	}()

	l.Info("shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error("server_shutdown_error", "error", err)
	}
	if prod != nil {
		if err := prod.Close(); err != nil {
			l.Error("kafka_close_error", "error", err)
		}
	}
	if err := store.Close(); err != nil {
		l.Error("storage_close_error", "error", err)
	}

	l.Info("shutdown_complete")
}
