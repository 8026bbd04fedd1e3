package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/acavalcante04/erp-security/internal/apierror"
	"github.com/acavalcante04/erp-security/internal/infra"
	"github.com/acavalcante04/erp-security/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Checks DB and Redis connectivity and reports the SMTP breaker and the email DLQ;
// never exposes credentials or internals.
func Health(db *gorm.DB, rdb *redis.Client, smtpCB *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		var dlq int64
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		} else if n, err := worker.DLQLength(ctx, rdb, worker.QueueEmail); err == nil {
			dlq = n
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		body := gin.H{
			"ok":        status == http.StatusOK,
			"db":        dbStatus,
			"redis":     redisStatus,
			"email_dlq": dlq,
		}
		if smtpCB != nil {
			body["smtp"] = smtpCB.Snapshot()
		}
		c.JSON(status, body)
	}
}

// FalhasEmail lists the email jobs parked in the dead letter queue.
// Query: limite (default 50).
func FalhasEmail(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		limite, err := strconv.ParseInt(c.DefaultQuery("limite", "50"), 10, 64)
		if err != nil || limite < 1 || limite > 500 {
			c.JSON(http.StatusBadRequest, apierror.New("limite deve estar entre 1 e 500"))
			return
		}
		entradas, err := worker.ListDLQ(c.Request.Context(), rdb, worker.QueueEmail, limite)
		if err != nil {
			responderErro(c, err)
			return
		}
		total, err := worker.DLQLength(c.Request.Context(), rdb, worker.QueueEmail)
		if err != nil {
			responderErro(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"total": total, "data": entradas})
	}
}
