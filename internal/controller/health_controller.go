package controller

import (
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"
)

// HealthController reports process liveness and dependency readiness.
type HealthController struct {
	pool  *pgxpool.Pool
	redis *redis.Client
}

func NewHealthController(pool *pgxpool.Pool, redisClient *redis.Client) *HealthController {
	return &HealthController{pool: pool, redis: redisClient}
}

// Health handles GET /health. It is an alias for readiness.
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	c.Readiness(w, r)
}

// Liveness handles GET /health/live. It answers as soon as the process
// serves HTTP.
func (c *HealthController) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Time: time.Now().UTC()})
}

// Readiness handles GET /health/ready. It pings the database and Redis and
// returns 503 if either is unreachable.
func (c *HealthController) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	components := map[string]string{}
	status := http.StatusOK

	if err := c.pool.Ping(ctx); err != nil {
		components["database"] = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		components["database"] = "ok"
	}

	if err := c.redis.Ping(ctx).Err(); err != nil {
		components["redis"] = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		components["redis"] = "ok"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	writeJSON(w, status, HealthResponse{Status: overall, Components: components, Time: time.Now().UTC()})
}
