package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taskforce-tools/op_funds_app/internal/utils"
)

// pathsToSkip contains paths that should not produce change events
var pathsToSkip = map[string]bool{
	"/health": true,
}

// RecordEventsMiddleware creates a Gin middleware handler that emits a
// fire-and-forget "record changed" event for every successful mutation.
// Consumers re-query the ledger on receipt; delivery is not guaranteed and
// the engine never depends on it.
func RecordEventsMiddleware(eventsClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if eventsClient == nil || !eventsClient.IsInitialized() || pathsToSkip[c.Request.URL.Path] {
			c.Next()
			return
		}

		// Process request first
		c.Next()

		// Only successful mutations produce change events
		if c.Request.Method == http.MethodGet {
			return
		}
		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		actorID, exists := GetActorIDFromContext(c)
		if !exists {
			return
		}

		// Create event name from route path (e.g., "/api/v1/fund-requests" -> "api_v1_fund-requests")
		eventName := strings.TrimPrefix(c.FullPath(), "/")
		eventName = strings.ReplaceAll(eventName, "/", "_")
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": c.Writer.Status(),
		}

		if len(c.Params) > 0 {
			params := make(map[string]string)
			for _, param := range c.Params {
				params[param.Key] = param.Value
			}
			props["params"] = params
		}

		eventsClient.Enqueue(actorID, eventName, props)
	}
}
