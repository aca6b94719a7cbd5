package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"greenhouse_dashboard/internal/models"
	"greenhouse_dashboard/internal/upstream"

	"github.com/gin-gonic/gin"
)

// Common response/error constants to avoid magic strings and typos.
const (
	statusOK    = "ok"
	statusReset = "reset"

	errGetStatus   = "failed to load greenhouse status"
	errGetLatest   = "failed to load latest reading"
	errGetHistory  = "failed to load history"
	errUnknownStat = "unknown stat"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// seriesErrorStatus maps client-facing fetch failures to status codes:
// upstream trouble is a gateway problem, anything else is ours.
func seriesErrorStatus(err error) int {
	if errors.Is(err, upstream.ErrTransport) || errors.Is(err, upstream.ErrMalformedResponse) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// parseLimit reads an optional ?limit=N query; 0 means unbounded.
func parseLimit(c *gin.Context) int {
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

// tail returns at most limit trailing elements; the UI renders the most
// recent slice of an ever-growing list.
func tail[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[len(items)-limit:]
	}
	return items
}

// statParam parses and validates the :stat path parameter, writing a 400
// if it names no known series.
func (h *Handler) statParam(c *gin.Context) (models.StatType, bool) {
	stat, err := models.ParseStatType(c.Param("stat"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errUnknownStat})
		return "", false
	}
	return stat, true
}

// ResetStatsRequest is the payload for resetting the stat series caches.
type ResetStatsRequest struct {
	// Backfill window in days for the fresh caches
	LookupDays int `json:"lookup_days" binding:"required,min=1" example:"7"`
}

// ResetLogsRequest is the payload for resetting the log series cache.
type ResetLogsRequest struct {
	// Minimum level to fetch. Allowed: debug, info, warn, error
	Level string `json:"level" binding:"required" example:"info"`
	// Backfill window in days for the fresh cache
	LookupDays int `json:"lookup_days" binding:"required,min=1" example:"7"`
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

// @Summary      Greenhouse status
// @Description  Upstream /status payload, passed through uncached.
// @Tags         status
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/status [get]
// @Security     BearerAuth
func (h *Handler) getStatus(c *gin.Context) {
	ctx := c.Request.Context()
	payload, err := h.services.StatusNow(ctx)
	if err != nil {
		h.logAndJSONError(c, seriesErrorStatus(err), errGetStatus, "status_fetch_failed", err)
		return
	}
	c.JSON(http.StatusOK, payload)
}

// @Summary      Latest reading for a stat
// @Description  Upstream /{stat}/latest payload, passed through uncached.
// @Tags         stats
// @Produce      json
// @Param        stat  path  string  true  "Series"  Enums(temperature,humidity,water,fan)
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/v1/stats/{stat}/latest [get]
// @Security     BearerAuth
func (h *Handler) getLatest(c *gin.Context) {
	stat, ok := h.statParam(c)
	if !ok {
		return
	}
	payload, err := h.services.LatestOf(c.Request.Context(), stat)
	if err != nil {
		h.logAndJSONError(c, seriesErrorStatus(err), errGetLatest, "latest_fetch_failed", err, "stat", stat)
		return
	}
	c.JSON(http.StatusOK, payload)
}

// @Summary      Series history
// @Description  Triggers an incremental fetch for the series, then returns the accumulated records oldest-first. Use limit to bound how much of the tail is returned.
// @Tags         stats
// @Produce      json
// @Param        stat   path   string  true   "Series"  Enums(temperature,humidity,water,fan)
// @Param        limit  query  int     false  "Max trailing records to return"
// @Success      200  {object}  map[string]interface{}  "count, records"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/stats/{stat}/history [get]
// @Security     BearerAuth
func (h *Handler) getHistory(c *gin.Context) {
	stat, ok := h.statParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var (
		records []models.TimeseriesRecord
		err     error
	)
	switch stat {
	case models.StatTemperature:
		records, err = h.services.Temperature(ctx)
	case models.StatHumidity:
		records, err = h.services.Humidity(ctx)
	case models.StatFan:
		records, err = h.services.Fan(ctx)
	case models.StatWater:
		records, err = h.services.Water(ctx)
	}
	if err != nil {
		h.logAndJSONError(c, seriesErrorStatus(err), errGetHistory, "history_fetch_failed", err, "stat", stat)
		return
	}

	records = tail(records, parseLimit(c))
	c.JSON(http.StatusOK, gin.H{
		"count":   len(records),
		"records": records,
	})
}

// @Summary      Series cache state
// @Description  Per-series record count and last fetch boundary.
// @Tags         stats
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/series [get]
// @Security     BearerAuth
func (h *Handler) getSeries(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.SeriesState())
}

// @Summary      Reset stat caches
// @Description  Replaces all four stat caches with fresh ones using the new backfill window. The logs cache is untouched.
// @Tags         stats
// @Accept       json
// @Produce      json
// @Param        body  body   ResetStatsRequest  true  "Reset payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/stats/reset [post]
// @Security     BearerAuth
func (h *Handler) resetStats(c *gin.Context) {
	var req ResetStatsRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	h.services.ResetStats(req.LookupDays)
	c.JSON(http.StatusOK, gin.H{"status": statusReset, "lookup_days": req.LookupDays})
}

// @Summary      Reset log cache
// @Description  Replaces the log cache with a fresh one bound to the new minimum level and backfill window. Stat caches are untouched.
// @Tags         logs
// @Accept       json
// @Produce      json
// @Param        body  body   ResetLogsRequest  true  "Reset payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/logs/reset [post]
// @Security     BearerAuth
func (h *Handler) resetLogs(c *gin.Context) {
	var req ResetLogsRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	level, err := models.ParseLogLevel(req.Level)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.services.ResetLogs(level, req.LookupDays)
	c.JSON(http.StatusOK, gin.H{"status": statusReset, "level": level, "lookup_days": req.LookupDays})
}
