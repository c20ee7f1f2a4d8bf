package handler

import (
	"encoding/json"
	"net/http"
)

// HealthCheckHandler reports that the service is up and its artifacts are
// loaded. A service that failed to load never reaches the point of
// registering this handler.
func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"message": "House Price Quoting Service is running",
	})
}
