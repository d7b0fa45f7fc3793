package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"spotprice/backend-go/internal/models"
	"spotprice/backend-go/internal/services"
)

// Price handles POST /price/{commodity} with body {"date": "YYYY-MM-DD"}.
// The date is validated before any upstream call is made.
func (a *API) Price(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "commodity")
	commodity, ok := a.commodities.Lookup(slug)
	if !ok {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{
			Error: fmt.Sprintf("unknown commodity %q", slug),
			Code:  "unknown_commodity",
		})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 16<<10)
	defer r.Body.Close()
	var req models.PriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid_json", Details: err.Error()})
		return
	}

	date, err := a.dates.Validate(req.Date)
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: vErr.Reason, Code: vErr.Code()})
			return
		}
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	query := models.PriceQuery{Commodity: commodity.Slug, Date: date}

	upstream, err := a.prices.FetchPrice(r.Context(), commodity, query.Date)
	if err != nil {
		log.Printf("[%s] price %s %s: %v", middleware.GetReqID(r.Context()), query.Commodity, query.Date, err)
		writeUpstreamError(w, err)
		return
	}

	res := services.Normalize(upstream.Body)
	res.Commodity = query.Commodity
	res.Date = query.Date
	switch res.Kind {
	case models.KindOK:
		res.Unit = commodity.Unit
		if amount, ok := services.Amount(res); ok {
			res.Display = services.FormatUSD(amount)
		}
	case models.KindUpstreamError:
		res.Status = upstream.Status
		log.Printf("[%s] price %s %s: %s", middleware.GetReqID(r.Context()), query.Commodity, query.Date, res.Detail)
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":     "Upstream error: " + res.Detail,
			"kind":      res.Kind,
			"commodity": res.Commodity,
			"date":      res.Date,
			"status":    res.Status,
			"detail":    res.Detail,
		})
		return
	}
	writeJSON(w, http.StatusOK, res)
}
