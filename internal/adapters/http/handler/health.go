package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

// Pinger はデータベースの疎通確認を行います。*pgxpool.Pool が満たします。
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler は /healthz を提供します。
type HealthHandler struct {
	pinger Pinger
}

// NewHealthHandler は HealthHandler を生成します。
func NewHealthHandler(pinger Pinger) *HealthHandler {
	return &HealthHandler{pinger: pinger}
}

// Check はデータベースに到達できれば 200、できなければ 503 を返します。
func (h *HealthHandler) Check(c *gin.Context) {
	if h.pinger == nil {
		c.JSON(http.StatusOK, gin.H{"status": "SERVING"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		log.Printf("healthz: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "NOT_SERVING"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "SERVING"})
}
