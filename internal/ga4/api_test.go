package ga4

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startuptracker/startuptracker/internal/config"
)

func newTestAPIProvider(t *testing.T, handler http.HandlerFunc) (*APIProvider, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := config.Config{
		GA4PropertyID: "123456789",
		GA4Endpoint:   srv.URL,
		HTTPTimeout:   2 * time.Second,
	}
	return NewAPIProvider(cfg, "tok", NewHTTPClient(cfg.HTTPTimeout), discardLogger()), srv
}

func reportRows(rows ...[]string) map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		dims := []map[string]string{}
		metrics := []map[string]string{}
		for i, v := range r {
			if i == 0 && v != "" && !isNumeric(v) {
				dims = append(dims, map[string]string{"value": v})
				continue
			}
			metrics = append(metrics, map[string]string{"value": v})
		}
		out = append(out, map[string]any{"dimensionValues": dims, "metricValues": metrics})
	}
	return map[string]any{"rows": out}
}

func isNumeric(s string) bool {
	for _, c := range s {
		if (c < '0' || c > '9') && c != '.' {
			return false
		}
	}
	return len(s) > 0
}

func TestAPIProviderParsesVisitors(t *testing.T) {
	p, _ := newTestAPIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/properties/123456789:runReport", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(reportRows([]string{"20000", "14000"}))
	})

	v := p.WebsiteVisitors(context.Background(), 30)
	assert.Equal(t, 20000, v.TotalVisitors)
	assert.Equal(t, 14000, v.NewVisitors)
	assert.Equal(t, 6000, v.ReturningVisitors)
	assert.Equal(t, "Last 30 days", v.DateRange)
}

func TestAPIProviderSendsDateRange(t *testing.T) {
	var req runReportRequest
	p, _ := newTestAPIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(reportRows([]string{"100", "50"}))
	})

	p.WebsiteVisitors(context.Background(), 7)
	require.Len(t, req.DateRanges, 1)
	assert.Equal(t, "7daysAgo", req.DateRanges[0].StartDate)
	assert.Equal(t, "today", req.DateRanges[0].EndDate)
}

func TestAPIProviderRevenueDerivedFields(t *testing.T) {
	p, _ := newTestAPIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(reportRows([]string{"50000", "200", "10000"}))
	})

	rev := p.Revenue(context.Background(), 30)
	assert.Equal(t, float64(50000), rev.TotalRevenue)
	assert.Equal(t, 200, rev.Transactions)
	assert.Equal(t, 250.0, rev.AverageOrderValue)
	assert.Equal(t, 5.0, rev.RevenuePerVisitor)
}

func TestAPIProviderFallsBackOnServerError(t *testing.T) {
	p, _ := newTestAPIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	v := p.WebsiteVisitors(context.Background(), 30)
	assert.Equal(t, 12450, v.TotalVisitors, "server error must fall back to the mock payload")
}

func TestAPIProviderFallsBackOnMalformedBody(t *testing.T) {
	p, _ := newTestAPIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	})

	rev := p.Revenue(context.Background(), 30)
	assert.Equal(t, float64(62000), rev.TotalRevenue)
}

func TestAPIProviderFallsBackOnEmptyReport(t *testing.T) {
	p, _ := newTestAPIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"rows": []any{}})
	})

	f := p.ConversionFunnel(context.Background(), 30)
	assert.Equal(t, 1245, f.SignUps)
}

func TestAPIProviderFallsBackOnUnreachableEndpoint(t *testing.T) {
	cfg := config.Config{
		GA4PropertyID: "123456789",
		GA4Endpoint:   "http://127.0.0.1:1",
		HTTPTimeout:   500 * time.Millisecond,
	}
	p := NewAPIProvider(cfg, "tok", NewHTTPClient(cfg.HTTPTimeout), discardLogger())

	b := p.UserBehavior(context.Background(), 30)
	assert.Equal(t, 4.2, b.SessionsPerUser)
}

func TestAPIProviderFunnelRates(t *testing.T) {
	p, _ := newTestAPIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		var req runReportRequest
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Dimensions) > 0 {
			json.NewEncoder(w).Encode(reportRows(
				[]string{"sign_up", "1000"},
				[]string{"trial_start", "300"},
				[]string{"purchase", "150"},
				[]string{"retention", "120"},
			))
			return
		}
		json.NewEncoder(w).Encode(reportRows([]string{"10000", "7000"}))
	})

	f := p.ConversionFunnel(context.Background(), 30)
	assert.Equal(t, 10000, f.WebsiteVisitors)
	assert.Equal(t, 1000, f.SignUps)
	assert.Equal(t, 10.0, f.ConversionRates["visitor_to_signup"])
	assert.Equal(t, 30.0, f.ConversionRates["signup_to_trial"])
	assert.Equal(t, 50.0, f.ConversionRates["trial_to_paid"])
	assert.Equal(t, 80.0, f.ConversionRates["retention_rate"])
}

func TestChannelKey(t *testing.T) {
	assert.Equal(t, "organic_search", channelKey(" Organic Search "))
	assert.Equal(t, "direct", channelKey("Direct"))
}
