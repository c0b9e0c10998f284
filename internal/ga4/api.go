package ga4

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/startuptracker/startuptracker/internal/calc"
	"github.com/startuptracker/startuptracker/internal/config"
	"github.com/startuptracker/startuptracker/internal/models"
)

// Funnel stage events as sent by the site's tag configuration.
const (
	eventSignUp    = "sign_up"
	eventTrial     = "trial_start"
	eventPurchase  = "purchase"
	eventRetention = "retention"
)

// APIProvider reads the Analytics Data API. One attempt per report;
// any failure logs a warning and hands the category to the mock.
type APIProvider struct {
	cfg   config.Config
	token string
	c     HTTPClient
	log   *slog.Logger
	mock  *MockProvider
}

func NewAPIProvider(cfg config.Config, token string, c HTTPClient, log *slog.Logger) *APIProvider {
	return &APIProvider{cfg: cfg, token: token, c: c, log: log, mock: NewMockProvider()}
}

type named struct {
	Name string `json:"name"`
}

type dateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type runReportRequest struct {
	DateRanges []dateRange `json:"dateRanges"`
	Dimensions []named     `json:"dimensions,omitempty"`
	Metrics    []named     `json:"metrics"`
}

type reportRow struct {
	DimensionValues []struct {
		Value string `json:"value"`
	} `json:"dimensionValues"`
	MetricValues []struct {
		Value string `json:"value"`
	} `json:"metricValues"`
}

type runReportResponse struct {
	Rows []reportRow `json:"rows"`
}

func (p *APIProvider) runReport(ctx context.Context, days int, dims []string, metrics []string) (*runReportResponse, error) {
	req := runReportRequest{
		DateRanges: []dateRange{{StartDate: fmt.Sprintf("%ddaysAgo", days), EndDate: "today"}},
	}
	for _, d := range dims {
		req.Dimensions = append(req.Dimensions, named{Name: d})
	}
	for _, m := range metrics {
		req.Metrics = append(req.Metrics, named{Name: m})
	}
	url := fmt.Sprintf("%s/properties/%s:runReport", p.cfg.GA4Endpoint, p.cfg.GA4PropertyID)
	var resp runReportResponse
	if err := postJSON(ctx, p.c, url, p.token, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (p *APIProvider) fallback(category string, err error) {
	p.log.Warn("ga4 fetch failed, serving mock", slog.String("category", category), slog.String("err", err.Error()))
}

func (p *APIProvider) WebsiteVisitors(ctx context.Context, days int) models.VisitorSnapshot {
	resp, err := p.runReport(ctx, days, nil, []string{"totalUsers", "newUsers"})
	if err != nil || len(resp.Rows) == 0 {
		p.fallback("visitors", orEmpty(err))
		return p.mock.WebsiteVisitors(ctx, days)
	}
	total := metricInt(resp.Rows[0], 0)
	newV := metricInt(resp.Rows[0], 1)
	returning := total - newV
	if returning < 0 {
		returning = 0
	}
	return models.VisitorSnapshot{
		TotalVisitors:     total,
		NewVisitors:       newV,
		ReturningVisitors: returning,
		PeriodDays:        days,
		DateRange:         fmt.Sprintf("Last %d days", days),
	}
}

func (p *APIProvider) ConversionFunnel(ctx context.Context, days int) models.FunnelSnapshot {
	resp, err := p.runReport(ctx, days, []string{"eventName"}, []string{"eventCount"})
	if err != nil || len(resp.Rows) == 0 {
		p.fallback("funnel", orEmpty(err))
		return p.mock.ConversionFunnel(ctx, days)
	}
	counts := map[string]int{}
	for _, row := range resp.Rows {
		if len(row.DimensionValues) > 0 {
			counts[row.DimensionValues[0].Value] = metricInt(row, 0)
		}
	}
	visitors := p.WebsiteVisitors(ctx, days).TotalVisitors
	f := models.FunnelSnapshot{
		WebsiteVisitors:   visitors,
		SignUps:           counts[eventSignUp],
		TrialUsers:        counts[eventTrial],
		PaidCustomers:     counts[eventPurchase],
		RetainedCustomers: counts[eventRetention],
	}
	f.ConversionRates = map[string]float64{
		"visitor_to_signup": calc.ConversionRate(f.SignUps, f.WebsiteVisitors),
		"signup_to_trial":   calc.ConversionRate(f.TrialUsers, f.SignUps),
		"trial_to_paid":     calc.ConversionRate(f.PaidCustomers, f.TrialUsers),
		"retention_rate":    calc.ConversionRate(f.RetainedCustomers, f.PaidCustomers),
	}
	return f
}

func (p *APIProvider) Revenue(ctx context.Context, days int) models.RevenueSnapshot {
	resp, err := p.runReport(ctx, days, nil, []string{"totalRevenue", "transactions", "totalUsers"})
	if err != nil || len(resp.Rows) == 0 {
		p.fallback("revenue", orEmpty(err))
		return p.mock.Revenue(ctx, days)
	}
	row := resp.Rows[0]
	revenue := metricFloat(row, 0)
	txns := metricInt(row, 1)
	users := metricInt(row, 2)
	return models.RevenueSnapshot{
		TotalRevenue:      revenue,
		MonthlyRevenue:    revenue,
		AverageOrderValue: round2(safeDiv(revenue, float64(txns))),
		Transactions:      txns,
		RevenuePerVisitor: round2(safeDiv(revenue, float64(users))),
	}
}

func (p *APIProvider) TrafficSources(ctx context.Context, days int) map[string]models.TrafficSource {
	resp, err := p.runReport(ctx, days, []string{"sessionDefaultChannelGroup"}, []string{"totalUsers", "conversions"})
	if err != nil || len(resp.Rows) == 0 {
		p.fallback("traffic", orEmpty(err))
		return p.mock.TrafficSources(ctx, days)
	}
	total := 0
	for _, row := range resp.Rows {
		total += metricInt(row, 0)
	}
	out := make(map[string]models.TrafficSource, len(resp.Rows))
	for _, row := range resp.Rows {
		if len(row.DimensionValues) == 0 {
			continue
		}
		users := metricInt(row, 0)
		conversions := metricInt(row, 1)
		out[channelKey(row.DimensionValues[0].Value)] = models.TrafficSource{
			Visitors:       users,
			Percentage:     round1(safeDiv(float64(users), float64(total)) * 100),
			ConversionRate: calc.ConversionRate(conversions, users),
		}
	}
	return out
}

func (p *APIProvider) UserBehavior(ctx context.Context, days int) models.BehaviorSnapshot {
	resp, err := p.runReport(ctx, days, nil, []string{
		"sessionsPerUser", "averageSessionDuration", "bounceRate", "screenPageViewsPerSession",
	})
	if err != nil || len(resp.Rows) == 0 {
		p.fallback("behavior", orEmpty(err))
		return p.mock.UserBehavior(ctx, days)
	}
	row := resp.Rows[0]
	v := p.WebsiteVisitors(ctx, days)
	return models.BehaviorSnapshot{
		SessionsPerUser:        round1(metricFloat(row, 0)),
		AverageSessionDuration: round1(metricFloat(row, 1) / 60), // API reports seconds
		ReturnUserRate:         round1(safeDiv(float64(v.ReturningVisitors), float64(v.TotalVisitors)) * 100),
		BounceRate:             round1(metricFloat(row, 2) * 100),
		PagesPerSession:        round1(metricFloat(row, 3)),
	}
}

// CohortRetention serves the static cohorts even in live mode.
// TODO: build a cohortSpec request; the Data API cohort shape needs
// its own request/response types and is not worth faking via runReport.
func (p *APIProvider) CohortRetention(ctx context.Context, days int) models.CohortSnapshot {
	return p.mock.CohortRetention(ctx, days)
}

func (p *APIProvider) FeatureUsage(ctx context.Context, days int) map[string]int {
	resp, err := p.runReport(ctx, days, []string{"eventName"}, []string{"totalUsers"})
	if err != nil || len(resp.Rows) == 0 {
		p.fallback("features", orEmpty(err))
		return p.mock.FeatureUsage(ctx, days)
	}
	total := p.WebsiteVisitors(ctx, days).TotalVisitors
	out := map[string]int{}
	for _, row := range resp.Rows {
		if len(row.DimensionValues) == 0 {
			continue
		}
		name := row.DimensionValues[0].Value
		if !strings.HasPrefix(name, "feature_") {
			continue
		}
		pct := int(safeDiv(float64(metricInt(row, 0)), float64(total)) * 100)
		out[strings.TrimPrefix(name, "feature_")] = pct
	}
	if len(out) == 0 {
		return p.mock.FeatureUsage(ctx, days)
	}
	return out
}

func channelKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

func metricInt(row reportRow, i int) int {
	if i >= len(row.MetricValues) {
		return 0
	}
	v, _ := strconv.Atoi(strings.TrimSpace(row.MetricValues[i].Value))
	return v
}

func metricFloat(row reportRow, i int) float64 {
	if i >= len(row.MetricValues) {
		return 0
	}
	v, _ := strconv.ParseFloat(strings.TrimSpace(row.MetricValues[i].Value), 64)
	return v
}

func orEmpty(err error) error {
	if err == nil {
		return errEmptyReport
	}
	return err
}

var errEmptyReport = fmt.Errorf("empty report")

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
func round1(f float64) float64 { return float64(int64(f*10+0.5)) / 10 }
func round2(f float64) float64 { return float64(int64(f*100+0.5)) / 100 }
