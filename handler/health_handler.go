package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yakir1992/todoapp/dto"
	"github.com/yakir1992/todoapp/utils"
)

type ConnectivityTester interface {
	TestConnectivity(ctx context.Context) bool
}

// RevocationChecker reports whether the token revocation store answers.
type RevocationChecker interface {
	IsConnected(ctx context.Context) bool
}

type HealthHandler struct {
	db         ConnectivityTester
	revocation RevocationChecker
	timeout    time.Duration
}

func NewHealthHandler(db ConnectivityTester, revocation RevocationChecker, timeout time.Duration) *HealthHandler {
	return &HealthHandler{db: db, revocation: revocation, timeout: timeout}
}

// Health runs the connectivity self-test against MongoDB and Redis; 503 when
// either is unusable.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	pool := utils.GetMongoMetrics()
	resp := dto.HealthResponse{
		Connected: h.db.TestConnectivity(ctx),
		Redis:     h.revocation.IsConnected(ctx),
		CPU:       utils.GetCPUUsage(ctx),
		Pool: dto.PoolHealth{
			Open:    pool.ActiveConnections,
			InUse:   pool.CheckedOut,
			Created: pool.CreatedConnections,
			Closed:  pool.ClosedConnections,
		},
	}

	status := http.StatusOK
	if !resp.Connected || !resp.Redis {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, &utils.Response{Status: status, Data: resp})
}
