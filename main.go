package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"modesta/checkout"
	"modesta/config"
	"modesta/db"
	"modesta/globals"
	"modesta/live"
	"modesta/middleware"
	"modesta/mq"
	"modesta/ratelim"
	"modesta/rdx"
	"modesta/routes"
	"modesta/search"
	"modesta/store"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

// backends picks Redis for the bus, checkout lock and search cache when it
// is configured and reachable, and in-process versions otherwise.
func backends(ctx context.Context, cfg *config.Config) (mq.Bus, checkout.Locker, search.Cache) {
	if cfg.RedisAddr != "" {
		err := rdx.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err == nil {
			return mq.NewRedisBus(rdx.Conn), rdx.NewLocker(rdx.Conn), rdx.NewCache(rdx.Conn, "search:", cfg.SearchCacheTTL)
		}
		log.Printf("⚠️ Redis unavailable, using in-process bus and locks: %v", err)
	}
	return mq.NewLocalBus(), checkout.NewLocalLocker(), nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config error: %v", err)
	}
	globals.JwtSecret = []byte(cfg.JWTSecret)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB); err != nil {
		log.Fatalf("❌ MongoDB error: %v", err)
	}
	if err := db.EnsureIndexes(ctx); err != nil {
		log.Fatalf("❌ Index setup failed: %v", err)
	}

	bus, locker, cache := backends(ctx, cfg)
	st := store.NewMongo()

	// initialize rate limiter
	rateLimiter := ratelim.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	janitorStop := make(chan struct{})
	rateLimiter.StartJanitor(time.Minute, janitorStop)

	// live order feed
	hub := live.NewHub()
	go hub.Run()
	if err := live.Forward(ctx, bus, hub); err != nil {
		log.Printf("⚠️ Live feed subscription failed: %v", err)
	}

	searchHandler := search.NewHandler(search.MongoFinder{}, cache)
	if err := searchHandler.FlushOnCatalogChange(ctx, bus); err != nil {
		log.Printf("⚠️ Search cache invalidation disabled: %v", err)
	}

	router := httprouter.New()
	routes.RoutesWrapper(router, routes.Deps{
		Store:       st,
		Checkout:    checkout.NewService(st, locker, bus, cfg.CheckoutLock),
		Bus:         bus,
		Limiter:     rateLimiter,
		Idempotency: middleware.MongoIdempotency{},
		Search:      searchHandler,
		Hub:         hub,
	})

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "Idempotency-Key"},
		ExposedHeaders:   []string{"Idempotent-Replayed", "Retry-After"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Println("🛑 Shutting down live feed...")
		stop()
		hub.Stop()
		close(janitorStop)
	})

	go func() {
		log.Printf("🚀 Server listening on %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe error: %v", err)
		}
	}()

	// wait for interrupt or SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("🛑 Shutdown signal received; shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Graceful shutdown failed: %v", err)
	}
	rdx.Close()
	db.Disconnect(shutdownCtx)

	log.Println("✅ Server stopped cleanly")
}
