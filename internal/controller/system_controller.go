// internal/controller/system_controller.go
package controller

import (
	"database/sql"
	"log"
	"net/http"
	"time"
)

// SystemController serves the root and health probes.
type SystemController struct {
	DB      *sql.DB
	Name    string
	Version string
}

func (c *SystemController) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": c.Name,
		"version": c.Version,
	})
}

// Health probes the database. A failed probe reports degraded in the body
// rather than erroring; load balancers read the payload.
func (c *SystemController) Health(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC().Format(time.RFC3339)

	var one int
	if err := c.DB.QueryRow(`SELECT 1`).Scan(&one); err != nil {
		log.Println("⚠️ health check failed:", err)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":    "degraded",
			"database":  "error",
			"error":     err.Error(),
			"timestamp": now,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": now,
	})
}
