package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	_ "github.com/almondkiruthu/flashtans-app/docs"
	"github.com/almondkiruthu/flashtans-app/pkg/logger"
	"github.com/almondkiruthu/flashtans-app/pkg/otel"
	"github.com/almondkiruthu/flashtans-app/pkg/storefront"
	"github.com/almondkiruthu/flashtans-app/pkg/storefront/memory"
	"github.com/almondkiruthu/flashtans-app/pkg/storefront/postgres"
)

var (
	redisClient *redis.Client
	products    storefront.ProductRepository
	customers   storefront.CustomerRepository
	orders      storefront.OrderRepository
	tracer      trace.Tracer
)

// @title Flash Tans API
// @version 1.0
// @description Storefront API for the Flash Tans shop
// @host localhost:8080
// @BasePath /
func main() {
	logger.Init("flashtans")
	defer logger.Sync()

	if host := os.Getenv("OTEL_HOST"); host != "" {
		tp, shutdown, err := otel.InitTracing(otel.Config{
			ServiceName: "flashtans",
			Host:        host,
			Probability: 1.0,
		})
		if err != nil {
			logger.Log.Fatal("init tracing", zap.Error(err))
		}
		defer shutdown(context.Background())
		tracer = tp.Tracer("flashtans")
	}

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			logger.Log.Fatal("db connect", zap.Error(err))
		}
		if err := postgres.InitSchema(context.Background(), db); err != nil {
			// Keep serving; the catalog may simply start out empty.
			logger.Log.Error("init schema", zap.Error(err))
		}
		products = postgres.NewProductRepository(db)
		customers = postgres.NewCustomerRepository(db)
		orders = postgres.NewOrderRepository(db)
		logger.Log.Info("using postgres store")
	} else {
		store := memory.NewStore()
		store.Seed()
		products = memory.NewProductRepository(store)
		customers = memory.NewCustomerRepository(store)
		orders = memory.NewOrderRepository(store)
		logger.Log.Info("using in-memory store")
	}

	redisClient = redis.NewClient(&redis.Options{Addr: getEnv("REDIS_ADDR", "localhost:6379")})

	r := mux.NewRouter()
	r.Use(traceMiddleware)
	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/login", loginHandler).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/products", listProductsHandler).Methods(http.MethodGet)
	api.HandleFunc("/products", requireAuth(createProductHandler)).Methods(http.MethodPost)
	api.HandleFunc("/products/{id}", requireAuth(updateProductHandler)).Methods(http.MethodPut)
	api.HandleFunc("/products/{id}", requireAuth(deleteProductHandler)).Methods(http.MethodDelete)
	api.HandleFunc("/orders", createOrderHandler).Methods(http.MethodPost)
	api.HandleFunc("/orders", requireAuth(listOrdersHandler)).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}", requireAuth(getOrderHandler)).Methods(http.MethodGet)

	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	addr := ":" + getEnv("PORT", "8080")
	logger.Log.Info("listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Log.Error("server closed", zap.Error(err))
	}
}

// traceMiddleware makes the tracer available to AddSpan in every handler.
func traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tracer != nil {
			r = r.WithContext(otel.InjectTracing(r.Context(), tracer))
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuth ensures a valid admin session exists before calling next.
func requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("session_id")
		if err != nil {
			respondError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		user, err := redisClient.Get(r.Context(), "session:"+c.Value).Result()
		if err != nil || user == "" {
			respondError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
