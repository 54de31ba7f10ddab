package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appcatalog "github.com/Zhima-Mochi/storefront/app/internal/application/catalog"
	appclient "github.com/Zhima-Mochi/storefront/app/internal/application/client"
	appinv "github.com/Zhima-Mochi/storefront/app/internal/application/inventory"
	apporder "github.com/Zhima-Mochi/storefront/app/internal/application/order"
	apporderline "github.com/Zhima-Mochi/storefront/app/internal/application/orderline"
	appratelimit "github.com/Zhima-Mochi/storefront/app/internal/application/ratelimit"
	"github.com/Zhima-Mochi/storefront/app/internal/config"
	domcat "github.com/Zhima-Mochi/storefront/app/internal/domain/catalog"
	domclient "github.com/Zhima-Mochi/storefront/app/internal/domain/client"
	dominv "github.com/Zhima-Mochi/storefront/app/internal/domain/inventory"
	domorder "github.com/Zhima-Mochi/storefront/app/internal/domain/order"
	domratelimit "github.com/Zhima-Mochi/storefront/app/internal/domain/ratelimit"
	"github.com/Zhima-Mochi/storefront/app/internal/domain/storage"
	"github.com/Zhima-Mochi/storefront/app/internal/infrastructure/gormstore"
	"github.com/Zhima-Mochi/storefront/app/internal/infrastructure/memory"
	"github.com/Zhima-Mochi/storefront/app/internal/infrastructure/rediscounter"
	"github.com/Zhima-Mochi/storefront/app/internal/pkg/logging"
	httppresentation "github.com/Zhima-Mochi/storefront/app/internal/presentation/http"
)

type stores struct {
	tx         storage.TxManager
	categories domcat.CategoryRepository
	products   domcat.ProductRepository
	clients    domclient.Repository
	orders     domorder.Repository
	lines      domorder.LineRepository
	stock      dominv.Store
}

func main() {
	cfg := config.Load()

	baseLogger := logging.MustNewLogger(cfg.ServiceName, cfg.Env)
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)
	httpDurations := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP request handling in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	ledgerOps := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_operations_total",
			Help: "Total number of inventory ledger operations.",
		},
		[]string{"op", "outcome"},
	)
	ratelimitDecisions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratelimit_decisions_total",
			Help: "Total number of rate limit decisions.",
		},
		[]string{"outcome"},
	)
	prometheus.MustRegister(httpRequests, httpDurations, ledgerOps, ratelimitDecisions)

	st, err := buildStores(cfg)
	if err != nil {
		baseLogger.Fatal("store_init_failed", zap.Error(err))
	}

	ledger := appinv.NewLedger(st.tx, st.stock, ledgerOps)
	catalogService := appcatalog.NewService(st.tx, st.categories, st.products, ledger)
	clientService := appclient.NewService(st.clients)
	lineService := apporderline.NewService(st.tx, st.lines, st.orders, st.products, ledger)
	orderService := apporder.NewService(st.orders, st.clients, lineService)

	var counterStore domratelimit.CounterStore
	if cfg.RedisAddr != "" {
		counterStore = rediscounter.NewStore(redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}))
	} else {
		counterStore = memory.NewCounterStore()
	}
	engine := appratelimit.NewEngine(counterStore, cfg.RateLimitCalls, cfg.RateLimitPeriod)

	handler := httppresentation.NewHandler(catalogService, clientService, orderService, lineService)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", handler.Router())

	root := httppresentation.Chain(mux,
		httppresentation.Trace,
		httppresentation.RequestLogger(baseLogger),
		httppresentation.Metrics(httpRequests, httpDurations),
		httppresentation.AccessLog,
		httppresentation.RateLimit(httppresentation.RateLimitOptions{
			Engine:           engine,
			ExcludedPrefixes: cfg.RateLimitExcluded,
			Decisions:        ratelimitDecisions,
		}),
	)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: root,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("http_server_start", zap.String("addr", server.Addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Error("http_server_error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("http_server_shutdown_error", zap.Error(err))
	} else {
		baseLogger.Info("http_server_stopped")
	}
}

func buildStores(cfg config.Config) (stores, error) {
	if cfg.DatabaseDSN == "" {
		mem := memory.NewStore(cfg.LockWaitTimeout)
		return stores{
			tx:         memory.NewTxManager(),
			categories: mem.Categories(),
			products:   mem.Products(),
			clients:    mem.Clients(),
			orders:     mem.Orders(),
			lines:      mem.Lines(),
			stock:      mem.Stock(),
		}, nil
	}
	db, err := gormstore.Open(cfg.DatabaseDSN)
	if err != nil {
		return stores{}, err
	}
	return stores{
		tx:         gormstore.NewTxManager(db),
		categories: gormstore.NewCategoryRepository(db),
		products:   gormstore.NewProductRepository(db),
		clients:    gormstore.NewClientRepository(db),
		orders:     gormstore.NewOrderRepository(db),
		lines:      gormstore.NewOrderLineRepository(db),
		stock:      gormstore.NewStockStore(db),
	}, nil
}
