package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/AbhinavKRN/microsocial-native-assignment/pkg/config"
	"github.com/labstack/echo/v4"
)

// HealthHandler reports service liveness and database connectivity
type HealthHandler struct {
	db *config.DB
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *config.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check pings both stores and reports a combined database status
func (h *HealthHandler) Check(c echo.Context) error {
	database := "connected"

	if sqlDB, err := h.db.Postgres.DB(); err != nil || sqlDB.Ping() != nil {
		database = "disconnected"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := h.db.Mongo.Ping(ctx, nil); err != nil {
		database = "disconnected"
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":   "OK",
		"message":  "MicroSocial API is running",
		"database": database,
	})
}
