package handlers

import "net/http"

// Healthz reports liveness to orchestrators.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Status answers GET /v1/status.
func Status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, "APIs V1 is working", nil)
}
