// internal/controller/controller.go
package controller

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	appErrors "github.com/theruads/fleet-backend/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto HTTP statuses. Dependency
// failures land on 500 with the underlying message logged.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appErrors.ErrUnauthenticated):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, appErrors.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case appErrors.IsNotFound(err):
		http.Error(w, err.Error(), http.StatusNotFound)
	case appErrors.IsValidation(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Println("❌ request failed:", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
