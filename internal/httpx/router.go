package httpx

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/startuptracker/startuptracker/internal/calc"
	"github.com/startuptracker/startuptracker/internal/config"
	"github.com/startuptracker/startuptracker/internal/ga4"
	"github.com/startuptracker/startuptracker/internal/models"
	"github.com/startuptracker/startuptracker/internal/store"
	"github.com/startuptracker/startuptracker/internal/utils"
)

// Defaults for the unit-economics inputs GA4 cannot supply.
const (
	defaultCAC         = 127.0
	defaultGrossMargin = 0.80
)

type handlers struct {
	log      *slog.Logger
	provider ga4.Provider
	st       *store.SQLiteStore
	cfg      config.Config
}

func NewRouter(log *slog.Logger, provider ga4.Provider, st *store.SQLiteStore, cfg config.Config) http.Handler {
	h := &handlers{log: log, provider: provider, st: st, cfg: cfg}

	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))
	mux.Use(utils.Metrics)
	mux.Use(utils.Recoverer(log))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	mux.Handle("/metrics", promhttp.Handler())

	mux.Get("/", h.dashboardPage)
	mux.Get("/api/metrics", h.allMetrics)
	mux.Get("/api/metrics/funnel", h.funnel)
	mux.Get("/api/metrics/revenue", h.revenue)
	mux.Get("/api/metrics/unit-economics", h.unitEconomics)
	mux.Get("/api/revenue/trend", h.revenueTrend)

	return mux
}

// periodDays clamps the optional ?days= query to 1..365.
func (h *handlers) periodDays(r *http.Request) int {
	days := h.cfg.PeriodDays
	if q := r.URL.Query().Get("days"); q != "" {
		if v := atoiDef(q, 0); v > 0 {
			days = v
		}
	}
	if days < 1 {
		days = 1
	}
	if days > 365 {
		days = 365
	}
	return days
}

func (h *handlers) buildDashboard(ctx context.Context, days int) models.Dashboard {
	revenue := h.provider.Revenue(ctx, days)
	funnel := h.provider.ConversionFunnel(ctx, days)

	arpu := revenue.AverageOrderValue
	churn := (100 - funnel.ConversionRates["retention_rate"]) / 100

	d := models.Dashboard{
		WebsiteVisitors:  h.provider.WebsiteVisitors(ctx, days),
		ConversionFunnel: funnel,
		Revenue:          revenue,
		TrafficSources:   h.provider.TrafficSources(ctx, days),
		UserBehavior:     h.provider.UserBehavior(ctx, days),
		CohortRetention:  h.provider.CohortRetention(ctx, days),
		FeatureUsage:     h.provider.FeatureUsage(ctx, days),
		UnitEconomics:    calc.UnitEconomics(arpu, defaultCAC, defaultGrossMargin, churn),
		LastUpdated:      time.Now().UTC().Format(time.RFC3339),
		DataPeriodDays:   days,
	}

	h.recordRevenue(ctx, revenue.MonthlyRevenue)
	return d
}

// recordRevenue keeps the trend history current. Store trouble is
// logged and swallowed; metrics requests never fail on it.
func (h *handlers) recordRevenue(ctx context.Context, monthly float64) {
	if h.st == nil || monthly <= 0 {
		return
	}
	month := time.Now().UTC().Format("2006-01")
	if err := h.st.RecordRevenue(ctx, month, monthly); err != nil {
		h.log.Warn("revenue history write failed", slog.String("err", err.Error()))
	}
}

func (h *handlers) allMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.buildDashboard(r.Context(), h.periodDays(r)))
}

func (h *handlers) funnel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.provider.ConversionFunnel(r.Context(), h.periodDays(r)))
}

func (h *handlers) revenue(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.provider.Revenue(r.Context(), h.periodDays(r)))
}

func (h *handlers) unitEconomics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	days := h.periodDays(r)
	revenue := h.provider.Revenue(ctx, days)
	funnel := h.provider.ConversionFunnel(ctx, days)
	churn := (100 - funnel.ConversionRates["retention_rate"]) / 100
	writeJSON(w, calc.UnitEconomics(revenue.AverageOrderValue, defaultCAC, defaultGrossMargin, churn))
}

type trendPayload struct {
	Trend      []models.RevenuePoint `json:"trend"`
	GrowthRate float64               `json:"growth_rate"`
}

func (h *handlers) revenueTrend(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.loadTrend(r.Context()))
}

func (h *handlers) loadTrend(ctx context.Context) trendPayload {
	trend := store.DemoTrend()
	if h.st != nil {
		if rows, err := h.st.RevenueTrend(ctx, 12); err != nil {
			h.log.Warn("revenue history read failed, serving demo trend", slog.String("err", err.Error()))
		} else if len(rows) > 0 {
			trend = rows
		}
	}
	var growth float64
	if n := len(trend); n >= 2 {
		growth = calc.GrowthRate(trend[n-1].Revenue, trend[n-2].Revenue)
	}
	return trendPayload{Trend: trend, GrowthRate: growth}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}

func atoiDef(s string, d int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}
