package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"peermeet-server/internal/config"
	"peermeet-server/internal/routes"
	"peermeet-server/internal/signaling"
)

func main() {
	var addr = flag.String("addr", "", "address to listen on (overrides SERVER_ADDR)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	cfg.ConfigureLogger()
	if *addr != "" {
		cfg.ServerAddr = *addr
	}

	matchmaker := signaling.NewMatchmaker()
	hub := signaling.NewHub(matchmaker)
	go hub.Run()

	handler := routes.NewHandler(matchmaker, cfg.IceServers, cfg.JWTSecret)

	router := mux.NewRouter()
	router.Use(loggingMiddleware)
	router.Use(corsMiddleware(cfg.AllowedOrigins))

	router.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	protectedRouter := router.PathPrefix("/api/webrtc").Subrouter()
	protectedRouter.Use(handler.AuthMiddleware)
	protectedRouter.HandleFunc("/ice-servers", handler.GetIceServers).Methods("GET")
	protectedRouter.HandleFunc("/stats", handler.GetStats).Methods("GET")

	router.HandleFunc("/ws", signaling.ServeWs(hub, cfg.AllowedOrigins))

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.Infof("Starting signaling server on %s", cfg.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("ListenAndServe: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("Server shutdown failed: %v", err)
	}
	logrus.Info("Server stopped")
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logrus.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.RequestURI,
			"remote":     r.RemoteAddr,
			"latency_ms": time.Since(start).Milliseconds(),
		}).Info("Request handled")
	})
}

func corsMiddleware(allowedOrigins []string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if allowed == "*" || allowed == origin {
					w.Header().Set("Access-Control-Allow-Origin", allowed)
					break
				}
			}
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
