package handlers

import (
	"net/http"

	"spotprice/backend-go/internal/models"
	"spotprice/backend-go/internal/services"
)

func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	commodities := a.commodities.All()
	statuses := make([]models.CommodityStatus, 0, len(commodities))
	ok := true
	for _, c := range commodities {
		configured := c.UpstreamURL != ""
		ok = ok && configured
		statuses = append(statuses, models.CommodityStatus{
			Slug:       c.Slug,
			Name:       c.Name,
			Unit:       c.Unit,
			Configured: configured,
		})
	}

	backend := "none"
	if a.limiter != nil {
		backend = a.limiter.Backend()
	}

	writeJSON(w, http.StatusOK, models.HealthResponse{
		Ok:          ok,
		TsISO:       nowISO(),
		Service:     "spotprice-backend",
		Version:     a.cfg.ServiceVersion,
		Commodities: statuses,
		RateLimiter: backend,
		DateRange:   [2]string{a.dates.Min.Format(services.DateLayout), a.dates.Max.Format(services.DateLayout)},
		Healthcheck: a.health.Configured(),
	})
}
