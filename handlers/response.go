package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"mybank-server/services"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps domain errors to HTTP statuses: 404 for missing
// accounts, 500 for everything else.
func writeServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, services.ErrAccountNotFound) {
		status = http.StatusNotFound
	}
	writeError(w, status, err.Error())
}
