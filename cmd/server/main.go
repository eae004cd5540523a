package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/gin-gonic/gin"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/groupdir/internal/api"
	"github.com/mmynk/groupdir/internal/auth"
	"github.com/mmynk/groupdir/internal/config"
	"github.com/mmynk/groupdir/internal/directory"
	"github.com/mmynk/groupdir/internal/metrics"
	"github.com/mmynk/groupdir/internal/middleware"
	"github.com/mmynk/groupdir/internal/ratelimit"
	"github.com/mmynk/groupdir/internal/service"
	"github.com/mmynk/groupdir/internal/storage"
	"github.com/mmynk/groupdir/internal/storage/memory"
	"github.com/mmynk/groupdir/internal/storage/sqlite"
	"github.com/mmynk/groupdir/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.IsDevelopment())
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, ping, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	m := metrics.New()
	dir := directory.New(store, m)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry)
	authenticator := auth.NewPasswordAuthenticator(store)

	limiter := ratelimit.NewMemoryLimiter(time.Minute)
	go limiter.RunPruner(ctx)

	interceptors := connect.WithInterceptors(
		middleware.OptionalAuth(jwtManager),
		middleware.LoggingInterceptor(m),
	)

	mux := http.NewServeMux()

	// Register Connect services
	mux.Handle(service.NewDirectoryServiceHandler(service.NewDirectoryService(dir), interceptors))
	mux.Handle(service.NewAuthServiceHandler(service.NewAuthService(authenticator, jwtManager, store, logger), interceptors))

	// REST API
	router, err := api.NewRouter(dir, api.Options{
		Metrics:        m,
		Limiter:        limiter,
		SubmitLimit:    cfg.SubmitRateLimit,
		Ping:           ping,
		TrustedProxies: cfg.TrustedProxies,
	})
	if err != nil {
		return fmt.Errorf("build REST router: %w", err)
	}
	mux.Handle("/api/", router)
	mux.Handle("/healthz", router)

	mux.Handle("/metrics", m.Handler())

	staticDir, err := filepath.Abs(cfg.StaticPath)
	if err != nil {
		return fmt.Errorf("resolve static path: %w", err)
	}
	slog.Info("Serving static files", "path", staticDir)
	mux.HandleFunc("/", spaHandler(staticDir))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	handler := h2c.NewHandler(corsMiddleware(mux), &http2.Server{})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting",
			"address", srv.Addr,
			"url", fmt.Sprintf("http://localhost%s", srv.Addr),
			"env", cfg.AppEnv,
			"storage", cfg.StorageDriver,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openStore opens the configured backend and seeds it when requested. The
// SQLite backend is only seeded while empty. The returned ping is nil for
// the memory backend.
func openStore(ctx context.Context, cfg config.Config) (storage.Store, func(context.Context) error, error) {
	var (
		store storage.Store
		ping  func(context.Context) error
	)

	switch cfg.StorageDriver {
	case config.DriverSQLite:
		s, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize storage: %w", err)
		}
		store, ping = s, s.Ping
		slog.Info("Storage initialized", "driver", cfg.StorageDriver, "database", cfg.DBPath)
	default:
		store = memory.New()
		slog.Info("Storage initialized", "driver", cfg.StorageDriver)
	}

	if !cfg.SeedData {
		return store, ping, nil
	}

	existing, err := store.GetAllGroups(ctx)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("check existing groups: %w", err)
	}
	if len(existing) > 0 {
		slog.Info("Skipping seed, directory not empty", "groups", len(existing))
		return store, ping, nil
	}
	if err := storage.Seed(ctx, store); err != nil {
		store.Close()
		return nil, nil, err
	}
	slog.Info("Seeded directory", "groups", len(storage.SeedGroups()))
	return store, ping, nil
}

// spaHandler serves files from staticDir, falling back to index.html for
// unknown paths so client-side routes resolve.
func spaHandler(staticDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/groupdir.v1.") {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean(urlPath))
		if info, err := os.Stat(filePath); err != nil || info.IsDir() {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}

		http.ServeFile(w, r, filePath)
	}
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms, X-Request-ID, Retry-After")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
