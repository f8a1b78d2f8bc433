package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"customer-relay/internal/model"
)

type HealthService interface {
	Health(ctx context.Context) (*model.Health, error)
}

type HealthHandler struct {
	log *zap.Logger
	svc HealthService
}

func NewHealthHandler(log *zap.Logger, svc HealthService) *HealthHandler {
	return &HealthHandler{
		log: log,
		svc: svc,
	}
}

// Ping
// @Summary Проверка здоровья сервиса.
// @Description Возвращает “pong”.
// @Tags Health
// @Produce json
// @Success 200 {object} ResponseWithMessage "Success"
// @Router /health/ping [get]
func (h *HealthHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, ResponseWithMessage{
		Status:  StatusSuccess,
		Message: "pong",
	})
}

// Health
// @Summary Состояние зависимостей.
// @Description Пингует базу и отдаёт глубину очереди канала.
// @Tags Health
// @Produce json
// @Success 200 {object} ResponseWithData{data=model.Health} "Success"
// @Failure 503 {object} ResponseWithData{data=model.Health} "Database is unavailable"
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	health, err := h.svc.Health(ctx)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, ResponseWithData{
			Status: StatusErr,
			Data:   health,
		})

		return
	}

	c.JSON(http.StatusOK, ResponseWithData{
		Status: StatusSuccess,
		Data:   health,
	})
}
