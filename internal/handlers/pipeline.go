package handlers

import (
	"net/http"

	"water_telemetry/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	errGetState      = "failed to load pipeline state"
	errStreamCommand = "failed to reach ksqlDB"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// StreamCommandResponse echoes what ksqlDB answered.
type StreamCommandResponse struct {
	Action     string `json:"action" example:"create"`
	StatusCode int    `json:"status_code" example:"200"`
	Status     string `json:"status" example:"200 OK"`
	Body       string `json:"body"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Get pipeline state
// @Description  Latest water level, current value and alert seen by the consumer, with per-channel counters.
// @Tags         pipeline
// @Produce      json
// @Success      200  {object}  models.PipelineState
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/pipeline/state [get]
// @Security     BearerAuth
func (h *Handler) getState(c *gin.Context) {
	st, err := h.services.Monitoring.GetState(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "pipeline_get_state_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Create alert filter
// @Description  Submits CREATE STREAM for the alert stream. ksqlDB rejections are returned as-is.
// @Tags         alerts
// @Produce      json
// @Success      200  {object}  StreamCommandResponse
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/alerts/filter [post]
// @Security     BearerAuth
func (h *Handler) createAlertFilter(c *gin.Context) {
	h.runStreamCommand(c, service.ActionCreate)
}

// @Summary      Drop alert filter
// @Description  Submits DROP STREAM ... DELETE TOPIC for the alert stream.
// @Tags         alerts
// @Produce      json
// @Success      200  {object}  StreamCommandResponse
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/alerts/filter [delete]
// @Security     BearerAuth
func (h *Handler) dropAlertFilter(c *gin.Context) {
	h.runStreamCommand(c, service.ActionDrop)
}

func (h *Handler) runStreamCommand(c *gin.Context, a service.Action) {
	resp, err := h.services.Controller.Execute(c.Request.Context(), a)
	if err != nil {
		h.logAndJSONError(c, http.StatusBadGateway, errStreamCommand, "stream_command_failed", err, "action", a)
		return
	}
	c.JSON(http.StatusOK, StreamCommandResponse{
		Action:     string(a),
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       resp.Body,
	})
}
