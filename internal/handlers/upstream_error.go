package handlers

import (
	"errors"
	"net/http"

	"spotprice/backend-go/internal/models"
	"spotprice/backend-go/internal/services"
)

// writeUpstreamError answers 502 for every failure to get a usable upstream reply.
func writeUpstreamError(w http.ResponseWriter, err error) {
	var upErr *services.UpstreamError
	if errors.As(err, &upErr) {
		writeJSON(w, http.StatusBadGateway, models.ErrorResponse{
			Error:    upErr.Error(),
			Code:     "upstream_status",
			Upstream: upErr.Status,
		})
		return
	}

	var tErr *services.TransportError
	if errors.As(err, &tErr) {
		code := "upstream_unreachable"
		if tErr.Timeout() {
			code = "upstream_timeout"
		}
		writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: tErr.Error(), Code: code})
		return
	}

	writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: "Upstream error: " + err.Error()})
}
