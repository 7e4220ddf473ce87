package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emirozbir/alert-receiver/internal/models"
	"github.com/emirozbir/alert-receiver/internal/processor"
)

const (
	errCodeMalformedPayload   = "MALFORMED_PAYLOAD"
	errCodeInvalidArgument    = "INVALID_ARGUMENT"
	errCodePersistenceFailure = "PERSISTENCE_FAILURE"
	errCodeInternalError      = "INTERNAL_ERROR"
)

type Handler struct {
	processor *processor.Processor
	logger    *zap.Logger
}

func NewHandler(processor *processor.Processor, logger *zap.Logger) *Handler {
	return &Handler{
		processor: processor,
		logger:    logger,
	}
}

// ingestFailure is the body of a POST /alerts that was recorded in memory
// but could not be written to the durable log.
type ingestFailure struct {
	models.IngestAck
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ReceiveAlert handles webhook payloads pushed by the alerting system.
func (h *Handler) ReceiveAlert(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.logger.Error("failed to read alert payload", zap.Error(err))
		abortWithError(c, http.StatusBadRequest, errCodeMalformedPayload, "could not read request body")
		return
	}

	event, err := h.processor.Ingest(c.Request.Context(), body)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, event.Ack())
	case errors.Is(err, processor.ErrMalformedPayload):
		abortWithError(c, http.StatusBadRequest, errCodeMalformedPayload, err.Error())
	case errors.Is(err, processor.ErrPersistenceFailure):
		ack := event.Ack()
		ack.Status = "error"
		c.JSON(http.StatusInternalServerError, ingestFailure{
			IngestAck: ack,
			Error:     errCodePersistenceFailure,
			Message:   "alert recorded in memory but could not be persisted",
		})
	default:
		h.logger.Error("alert ingestion failed", zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, errCodeInternalError, "failed to process alert")
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.processor.Health())
}

func (h *Handler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.processor.Stats())
}

// AlertsHistory returns the newest events, newest first. Without a limit
// query parameter the configured default is used.
func (h *Handler) AlertsHistory(c *gin.Context) {
	limit := h.processor.DefaultLimit()
	if raw, ok := c.GetQuery("limit"); ok {
		var err error
		if limit, err = processor.ParseLimit(raw); err != nil {
			abortWithError(c, http.StatusBadRequest, errCodeInvalidArgument, err.Error())
			return
		}
	}

	events, err := h.processor.History(limit)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, errCodeInvalidArgument, err.Error())
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *Handler) AlertsBySeverity(c *gin.Context) {
	c.JSON(http.StatusOK, h.processor.BySeverity(c.Param("severity")))
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": code, "message": message})
}
