package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"Deckwright/internal/auth"
	"Deckwright/internal/calc/batch"
	"Deckwright/internal/calc/engine"
	"Deckwright/internal/calc/importer"
	"Deckwright/internal/calc/report"
	"Deckwright/internal/config"
	"Deckwright/internal/logging"
	"Deckwright/internal/metrics"
	"Deckwright/internal/repo"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+logging.RequestIDHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

type server struct {
	cfg      *config.Config
	log      *zap.Logger
	engine   *engine.Engine
	ref      engine.Reference
	registry *prometheus.Registry
	metrics  *metrics.Metrics
}

func HandleList(mux *mux.Router, s *server) {
	authEnv := &auth.Authenv{JWTkey: []byte(s.cfg.TokenKey)}
	limiter := auth.NewIPRateLimiter(rate.Limit(s.cfg.RateLimit), s.cfg.RateBurst)

	mux.Handle("/metrics", metrics.Handler(s.registry)).Methods("GET")

	api := mux.PathPrefix("/api").Subrouter()
	api.Use(logging.Middleware(s.log))
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		engine.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	deckH := &engine.Handler{Engine: s.engine, Ref: s.ref, Log: s.log, Metrics: s.metrics}
	batchH := &batch.Handler{Engine: s.engine, Ref: s.ref}
	importH := &importer.Handler{Engine: s.engine, Ref: s.ref}
	reportH := &report.Handler{Engine: s.engine, Ref: s.ref}

	tools := secureApi.PathPrefix("/tools/deck").Subrouter()
	tools.HandleFunc("/generate", deckH.Generate).Methods("POST")
	tools.HandleFunc("/validate", deckH.Validate).Methods("POST")
	tools.HandleFunc("/tables", deckH.Tables).Methods("GET")
	tools.HandleFunc("/batch", batchH.Generate).Methods("POST")
	tools.HandleFunc("/import", importH.Decks).Methods("POST")
	tools.HandleFunc("/import/template", importH.Template).Methods("GET")
	tools.HandleFunc("/report/pdf", reportH.PDF).Methods("POST")
	tools.HandleFunc("/takeoff/xlsx", reportH.XLSX).Methods("POST")
}

// loadReference prefers the postgres price book when DATABASE_URL is set.
func loadReference(ctx context.Context, cfg *config.Config, log *zap.Logger) (engine.Reference, error) {
	ref, err := engine.LoadReference(cfg.SpanTablePath, cfg.PriceBookPath)
	if err != nil {
		return engine.Reference{}, err
	}
	if cfg.DatabaseURL == "" {
		return ref, nil
	}

	db, err := repo.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return engine.Reference{}, err
	}
	defer db.Close()
	book, err := repo.NewPostgresPriceDB(db).LoadBook(ctx)
	if err != nil {
		return engine.Reference{}, err
	}
	if err := engine.CheckPrices(book); err != nil {
		return engine.Reference{}, err
	}
	log.Info("price book loaded from database")
	ref.Prices = book
	return ref, nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config", zap.Error(err))
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		zap.NewExample().Fatal("logger", zap.Error(err))
	}
	defer log.Sync()
	if err := cfg.RequireServer(); err != nil {
		log.Fatal("config", zap.Error(err))
	}

	ref, err := loadReference(ctx, cfg, log)
	if err != nil {
		log.Fatal("reference data", zap.Error(err))
	}
	eng, err := engine.New(engine.WithLogger(log))
	if err != nil {
		log.Fatal("engine", zap.Error(err))
	}
	registry, m := metrics.NewRegistry()

	router := mux.NewRouter()
	HandleList(router, &server{cfg: cfg, log: log, engine: eng, ref: ref, registry: registry, metrics: m})
	handler := CORS(router)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("starting server", zap.String("addr", cfg.Addr))
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
	wg.Wait()
	log.Info("server stopped")
}
