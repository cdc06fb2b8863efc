package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by the database pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports whether the database answers.
func Health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	}
}
