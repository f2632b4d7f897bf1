package httpserver

import (
	"net/http"
	"time"

	"github.com/crbuilding/server/pkg/responders"
)

// health reports liveness and process uptime.
func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	responders.JSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(serverStartTime).Round(time.Second).String(),
	})
}
