package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devanshgoyal/shopkart/internal/api/handlers"
	"github.com/devanshgoyal/shopkart/internal/api/middleware"
	"github.com/devanshgoyal/shopkart/internal/config"
	"github.com/devanshgoyal/shopkart/internal/events"
	"github.com/devanshgoyal/shopkart/internal/health"
	"github.com/devanshgoyal/shopkart/internal/kv"
	"github.com/devanshgoyal/shopkart/internal/metrics"
	service "github.com/devanshgoyal/shopkart/internal/services"
	"github.com/devanshgoyal/shopkart/pkg/email"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Record store setup
	store, limiter, err := newStore(cfg)
	if err != nil {
		slog.Error("❌ Error initializing the record store", "error", err.Error())
		os.Exit(1)
	}

	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("⚠️ Error closing record store", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Record store closed")
		}
	}()

	// Tracing setup (no-op when no OTLP endpoint is configured)
	shutdownTracing, err := setupTracing(context.Background(), cfg)
	if err != nil {
		slog.Error("❌ Error initializing tracing", "error", err.Error())
		os.Exit(1)
	}
	defer shutdownTracing()

	jwtKey := []byte(cfg.Security.JWTKey)

	var mailer email.Service
	if cfg.SendGrid.APIKey != "" {
		mailer = email.NewSendGridService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	}

	hub := events.NewHub()
	cartService := service.NewCartService(store)
	catalogService := service.NewCatalogService(store, hub, seedProducts())
	// Subscribes to identity changes; must exist before any login happens.
	favoritesService := service.NewFavoritesService(store, hub)
	userService := service.NewUserService(store, hub, cartService, limiter, jwtKey, &cfg.Auth)
	orderService := service.NewOrderService(store, hub, cartService, catalogService)
	reviewService := service.NewReviewService(store, hub)
	supportService := service.NewSupportService(store, mailer, &cfg.Support)
	prefsService := service.NewPrefsService(store)

	if err := userService.Bootstrap(context.Background()); err != nil {
		slog.Error("❌ Error bootstrapping the admin account", "error", err.Error())
		os.Exit(1)
	}

	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartService)
	favoriteHandler := handlers.NewFavoriteHandler(favoritesService)
	orderHandler := handlers.NewOrderHandler(orderService, userService)
	reviewHandler := handlers.NewReviewHandler(reviewService, userService)
	supportHandler := handlers.NewSupportHandler(supportService, userService)
	prefsHandler := handlers.NewPrefsHandler(prefsService)
	authMiddleware := middleware.NewAuthMiddleware(jwtKey)

	healthHandler, err := health.NewHealthHandler(cfg, store)
	if err != nil {
		slog.Error("❌ Error initializing health checks", "error", err.Error())
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("backend", cfg.Storage.Backend), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("POST /api/v1/users/register", userHandler.Register())
	routerMux.HandleFunc("POST /api/v1/users/login", userHandler.Login())
	routerMux.HandleFunc("POST /api/v1/users/logout", authMiddleware.Authenticate(userHandler.Logout()))
	routerMux.HandleFunc("GET /api/v1/users/profile", authMiddleware.Authenticate(userHandler.Profile()))
	routerMux.HandleFunc("GET /api/v1/products", productHandler.ListProducts())
	routerMux.HandleFunc("GET /api/v1/products/{id}", productHandler.GetProduct())
	routerMux.HandleFunc("POST /api/v1/products", authMiddleware.Authenticate(productHandler.CreateProduct()))
	routerMux.HandleFunc("DELETE /api/v1/products/{id}", authMiddleware.Authenticate(productHandler.DeleteProduct()))
	routerMux.HandleFunc("GET /api/v1/store/products", authMiddleware.Authenticate(productHandler.ListStoreProducts()))
	routerMux.HandleFunc("GET /api/v1/carts", cartHandler.GetCart())
	routerMux.HandleFunc("POST /api/v1/carts/items", cartHandler.AddItem())
	routerMux.HandleFunc("PUT /api/v1/carts/items", cartHandler.UpdateQuantity())
	routerMux.HandleFunc("DELETE /api/v1/carts/items/{id}", cartHandler.RemoveItem())
	routerMux.HandleFunc("DELETE /api/v1/carts", cartHandler.ClearCart())
	routerMux.HandleFunc("GET /api/v1/favorites", authMiddleware.Optional(favoriteHandler.ListFavorites()))
	routerMux.HandleFunc("POST /api/v1/favorites/toggle", authMiddleware.Optional(favoriteHandler.ToggleFavorite()))
	routerMux.HandleFunc("POST /api/v1/orders", authMiddleware.Authenticate(orderHandler.Checkout()))
	routerMux.HandleFunc("GET /api/v1/orders", authMiddleware.Authenticate(orderHandler.ListOrders()))
	routerMux.HandleFunc("GET /api/v1/orders/{id}", authMiddleware.Authenticate(orderHandler.GetOrder()))
	routerMux.HandleFunc("PATCH /api/v1/orders/{id}/status", authMiddleware.Authenticate(orderHandler.UpdateOrderStatus()))
	routerMux.HandleFunc("DELETE /api/v1/orders/{id}", authMiddleware.Authenticate(orderHandler.DeleteOrder()))
	routerMux.HandleFunc("GET /api/v1/store/orders", authMiddleware.Authenticate(orderHandler.ListStoreOrders()))
	routerMux.HandleFunc("GET /api/v1/store/revenue", authMiddleware.Authenticate(orderHandler.StoreRevenue()))
	routerMux.HandleFunc("POST /api/v1/reviews", authMiddleware.Authenticate(reviewHandler.CreateReview()))
	routerMux.HandleFunc("GET /api/v1/products/{id}/reviews", reviewHandler.ListProductReviews())
	routerMux.HandleFunc("GET /api/v1/reviews", authMiddleware.Authenticate(reviewHandler.ListMyReviews()))
	routerMux.HandleFunc("DELETE /api/v1/reviews/{id}", authMiddleware.Authenticate(reviewHandler.DeleteReview()))
	routerMux.HandleFunc("POST /api/v1/support/tickets", authMiddleware.Authenticate(supportHandler.SubmitTicket()))
	routerMux.HandleFunc("GET /api/v1/preferences/theme", prefsHandler.GetTheme())
	routerMux.HandleFunc("PUT /api/v1/preferences/theme", prefsHandler.SetTheme())
	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, "shopkart")

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

}

// newStore builds the record backend named by STORAGE_BACKEND. The login
// rate limiter needs redis; on the other backends login is unthrottled.
func newStore(cfg *config.Config) (kv.Store, kv.LoginRateLimiter, error) {
	switch cfg.Storage.Backend {
	case "redis":
		client, err := kv.NewRedisClient(cfg)
		if err != nil {
			return nil, nil, err
		}

		return kv.NewRedis(client), kv.NewLoginRateLimiter(client, cfg), nil
	case "postgres":
		store, err := kv.NewPostgres(cfg)
		if err != nil {
			return nil, nil, err
		}

		return store, nil, nil
	default:
		return kv.NewMemory(), nil, nil
	}
}

func setupTracing(ctx context.Context, cfg *config.Config) (func(), error) {
	if cfg.Telemetry.OTLPEndpoint == "" {
		return func() {}, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.Telemetry.OTLPEndpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName("shopkart"),
		semconv.ServiceVersion("1.0.0"),
	))
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := tp.Shutdown(shutdownCtx); err != nil {
			slog.Error("⚠️ Tracer provider shutdown encountered an issue", slog.String("error", err.Error()))
		}
	}, nil
}
