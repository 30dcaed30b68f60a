package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusrecords/internal/pkg/docstore"
)

const pingTimeout = 2 * time.Second

// HealthResponse reports the service and storage status
type HealthResponse struct {
	Status    string    `json:"status" example:"OK"`
	Database  string    `json:"database" example:"Connected" enums:"Connected,Disconnected"`
	Backend   string    `json:"backend" example:"mongodb"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthController reports liveness
type HealthController struct {
	backend docstore.Backend
}

// NewHealthController creates a new HealthController
func NewHealthController(backend docstore.Backend) *HealthController {
	return &HealthController{backend: backend}
}

// Root answers the bare liveness probe
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func (c *HealthController) Root(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "Backend is running!"})
}

// Health reports whether the storage backend answers
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), pingTimeout)
	defer cancel()

	database := "Connected"
	if err := c.backend.Ping(pingCtx); err != nil {
		database = "Disconnected"
	}
	ctx.JSON(http.StatusOK, HealthResponse{
		Status:    "OK",
		Database:  database,
		Backend:   c.backend.Name(),
		Timestamp: time.Now(),
	})
}
