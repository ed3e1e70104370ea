package handler

import (
	"net/http"

	"atlas/internal/httputil"
)

// Health reports liveness. No upstream checks: the server is useful
// even when an external service is down, and the probes should not
// amplify an upstream outage.
func Health(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
