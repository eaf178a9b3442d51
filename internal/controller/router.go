package controller

import (
	"time"

	applicationSubscription "github.com/melodix/billing/internal/application/subscription"
	"github.com/melodix/billing/internal/config"
	"github.com/melodix/billing/internal/infrastructure/observability"
	customMW "github.com/melodix/billing/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
)

type RouterDeps struct {
	Pool          *pgxpool.Pool
	RedisClient   *redis.Client
	SubscribeUC   *applicationSubscription.SubscribeUseCase
	VerifyUC      *applicationSubscription.VerifyPaymentUseCase
	ListPlansUC   *applicationSubscription.ListPlansUseCase
	Metrics       *observability.Metrics
	CORSConfig    config.CORSConfig
	PublicBaseURL string
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(customMW.Tracing())
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSConfig.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: deps.CORSConfig.AllowCredentials,
		MaxAge:           300,
	}))
	r.Use(customMW.Metrics(deps.Metrics))

	healthH := NewHealthController(deps.Pool, deps.RedisClient)
	subscriptionH := NewSubscriptionController(
		deps.SubscribeUC,
		deps.VerifyUC,
		deps.ListPlansUC,
		deps.Metrics,
		deps.PublicBaseURL,
	)

	r.Get("/health", healthH.Health)
	r.Get("/health/live", healthH.Liveness)
	r.Get("/health/ready", healthH.Readiness)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/plans", subscriptionH.ListPlans)

		r.Post("/subscriptions/checkout", subscriptionH.Checkout)
		r.Get("/subscriptions/verify", subscriptionH.Verify)
	})

	return r
}
