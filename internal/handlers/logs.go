package handlers

import (
	"net/http"

	"greenhouse_dashboard/internal/models"

	"github.com/gin-gonic/gin"
)

const errLevelInvalid = "invalid 'level'; use one of debug, info, warn, error"

// filterByLevel keeps records at or above the given severity. The cache is
// already bound to a minimum level upstream; this only narrows further.
func filterByLevel(records []models.LogRecord, min models.LogLevel) []models.LogRecord {
	floor := min.Severity()
	out := make([]models.LogRecord, 0, len(records))
	for _, r := range records {
		if r.Level.Severity() >= floor {
			out = append(out, r)
		}
	}
	return out
}

// @Summary      List greenhouse logs
// @Description  Triggers an incremental fetch for the log series, then returns the accumulated records oldest-first. 'level' narrows the result to records at or above that severity; 'limit' bounds how much of the tail is returned.
// @Tags         logs
// @Produce      json
// @Param        level  query  string  false  "Minimum severity"  Enums(debug,info,warn,error)
// @Param        limit  query  int     false  "Max trailing records to return"
// @Success      200  {object}  map[string]interface{}  "count, records"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/logs [get]
// @Security     BearerAuth
func (h *Handler) getLogs(c *gin.Context) {
	ctx := c.Request.Context()

	records, err := h.services.Logs(ctx)
	if err != nil {
		h.logAndJSONError(c, seriesErrorStatus(err), "failed to load logs", "logs_fetch_failed", err)
		return
	}

	if qs := c.Query("level"); qs != "" {
		level, err := models.ParseLogLevel(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errLevelInvalid})
			return
		}
		records = filterByLevel(records, level)
	}

	records = tail(records, parseLimit(c))
	c.JSON(http.StatusOK, gin.H{
		"count":   len(records),
		"records": records,
	})
}
