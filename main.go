package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	apihttp "reactor-sim/internal/api/http"
	"reactor-sim/internal/auth"
	"reactor-sim/internal/monitoring"
	"reactor-sim/internal/monitoring/notify"
	"reactor-sim/internal/observability/metrics"
	"reactor-sim/internal/reactor/application"
	reactor "reactor-sim/internal/reactor/domain"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	cfg, err := application.LoadConfig()
	if err != nil {
		logger.Fatalf("config error: %v", err)
	}

	metrics.Init()

	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	core, err := reactor.NewReactor(cfg.ReactorID, cfg.ReactorName,
		reactor.WithRand(rand.New(rand.NewSource(seed))),
	)
	if err != nil {
		logger.Fatalf("reactor error: %v", err)
	}

	service, err := application.NewService(core, logger)
	if err != nil {
		logger.Fatalf("service error: %v", err)
	}
	monitor := monitoring.NewService()

	var notifier notify.Notifier
	if cfg.AlertWebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.AlertWebhookURL)
	}

	loop := application.NewLoop(service, monitor, notifier, cfg.TickInterval, logger)
	go loop.Run(context.Background())

	handler, err := apihttp.NewHandler(service, monitor)
	if err != nil {
		logger.Fatalf("handler error: %v", err)
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	handler.Register(mux)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s reactor_id=%s tick=%s", cfg.HTTPAddr, cfg.ReactorID, cfg.TickInterval)
	logger.Fatal(server.ListenAndServe())
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
