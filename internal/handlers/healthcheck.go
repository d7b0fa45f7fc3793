package handlers

import (
	"errors"
	"log"
	"net/http"

	"spotprice/backend-go/internal/models"
	"spotprice/backend-go/internal/services"
)

// Healthcheck relays GET ?url= (or HEALTHCHECK_URL) verbatim: status,
// content type and body are passed through untouched.
func (a *API) Healthcheck(w http.ResponseWriter, r *http.Request) {
	target := a.health.Target(r.URL.Query().Get("url"))
	if target == "" {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "No HEALTHCHECK_URL configured"})
		return
	}

	res, err := a.health.Fetch(r.Context(), target)
	if err != nil {
		details := err.Error()
		var tErr *services.TransportError
		if errors.As(err, &tErr) && tErr.Err != nil {
			details = tErr.Err.Error()
		}
		log.Printf("healthcheck %s: %s", target, details)
		writeJSON(w, http.StatusBadGateway, models.ErrorResponse{
			Error:     "Fetch failed",
			Details:   details,
			Attempted: target,
		})
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.WriteHeader(res.Status)
	_, _ = w.Write(res.Body)
}
