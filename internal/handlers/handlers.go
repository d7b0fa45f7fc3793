package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"spotprice/backend-go/internal/config"
	"spotprice/backend-go/internal/services"
)

type API struct {
	cfg         config.Config
	commodities *services.CommodityTable
	dates       services.DateRange
	prices      *services.PriceClient
	health      *services.HealthcheckClient
	limiter     services.RateLimiter
}

func New(cfg config.Config, prices *services.PriceClient, health *services.HealthcheckClient, limiter services.RateLimiter) (*API, error) {
	dates, err := services.NewDateRange(cfg.MinDate, cfg.MaxDate)
	if err != nil {
		return nil, err
	}
	return &API{
		cfg:         cfg,
		commodities: services.NewCommodityTable(cfg),
		dates:       dates,
		prices:      prices,
		health:      health,
		limiter:     limiter,
	}, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
