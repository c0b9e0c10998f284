package httpx

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
)

type dashboardData struct {
	LTV        string
	CAC        string
	Ratio      string
	MRR        string
	Retention  string
	GrowthRate string
	// MetricsJSON and TrendJSON feed the Chart.js setup script.
	MetricsJSON template.JS
	TrendJSON   template.JS
}

func (h *handlers) dashboardPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	d := h.buildDashboard(ctx, h.periodDays(r))
	trend := h.loadTrend(ctx)

	metricsJSON, err := json.Marshal(d)
	if err != nil {
		http.Error(w, "failed to build dashboard", http.StatusInternalServerError)
		return
	}
	trendJSON, _ := json.Marshal(trend)

	data := dashboardData{
		LTV:         fmt.Sprintf("$%.2f", d.UnitEconomics.LTV),
		CAC:         fmt.Sprintf("$%.2f", d.UnitEconomics.CAC),
		Ratio:       fmt.Sprintf("%.2f:1", d.UnitEconomics.LTVCACRatio),
		MRR:         fmt.Sprintf("$%.0f", d.Revenue.MonthlyRevenue),
		Retention:   fmt.Sprintf("%.1f%%", d.ConversionFunnel.ConversionRates["retention_rate"]),
		GrowthRate:  fmt.Sprintf("%.1f%%", trend.GrowthRate),
		MetricsJSON: template.JS(metricsJSON),
		TrendJSON:   template.JS(trendJSON),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTmpl.Execute(w, data); err != nil {
		h.log.Warn("dashboard render failed", "err", err.Error())
	}
}

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>StartupTracker</title>
<script src="https://cdn.jsdelivr.net/npm/chart.js@4"></script>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; margin: 0; background: #f5f6fa; color: #2d3436; }
header { background: #2d3436; color: #fff; padding: 20px 32px; }
header h1 { margin: 0; font-size: 20px; }
header p { margin: 4px 0 0; color: #b2bec3; font-size: 13px; }
.cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(180px, 1fr)); gap: 16px; padding: 24px 32px; }
.card { background: #fff; border-radius: 8px; padding: 18px; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
.card .label { font-size: 12px; text-transform: uppercase; letter-spacing: .05em; color: #636e72; }
.card .value { font-size: 26px; font-weight: 600; margin-top: 6px; }
.charts { display: grid; grid-template-columns: 1fr 1fr; gap: 16px; padding: 0 32px 32px; }
.chart { background: #fff; border-radius: 8px; padding: 18px; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
.chart h2 { font-size: 14px; margin: 0 0 12px; color: #636e72; }
@media (max-width: 800px) { .charts { grid-template-columns: 1fr; } }
</style>
</head>
<body>
<header>
<h1>StartupTracker</h1>
<p>Customer analytics for early-stage startups</p>
</header>
<div class="cards">
<div class="card"><div class="label">LTV</div><div class="value">{{.LTV}}</div></div>
<div class="card"><div class="label">CAC</div><div class="value">{{.CAC}}</div></div>
<div class="card"><div class="label">LTV:CAC</div><div class="value">{{.Ratio}}</div></div>
<div class="card"><div class="label">MRR</div><div class="value">{{.MRR}}</div></div>
<div class="card"><div class="label">Retention</div><div class="value">{{.Retention}}</div></div>
<div class="card"><div class="label">MoM Growth</div><div class="value">{{.GrowthRate}}</div></div>
</div>
<div class="charts">
<div class="chart"><h2>Conversion Funnel</h2><canvas id="funnel"></canvas></div>
<div class="chart"><h2>Revenue Trend</h2><canvas id="trend"></canvas></div>
<div class="chart"><h2>Traffic Sources</h2><canvas id="traffic"></canvas></div>
<div class="chart"><h2>Feature Usage</h2><canvas id="features"></canvas></div>
</div>
<script>
const metrics = {{.MetricsJSON}};
const trend = {{.TrendJSON}};

const funnel = metrics.conversion_funnel;
new Chart(document.getElementById('funnel'), {
  type: 'bar',
  data: {
    labels: ['Visitors', 'Sign-ups', 'Trials', 'Paid', 'Retained'],
    datasets: [{
      label: 'Users',
      data: [funnel.website_visitors, funnel.sign_ups, funnel.trial_users, funnel.paid_customers, funnel.retained_customers],
      backgroundColor: '#0984e3'
    }]
  },
  options: { plugins: { legend: { display: false } } }
});

new Chart(document.getElementById('trend'), {
  type: 'line',
  data: {
    labels: trend.trend.map(p => p.month),
    datasets: [{ label: 'Revenue', data: trend.trend.map(p => p.revenue), borderColor: '#00b894', tension: 0.3, fill: false }]
  },
  options: { plugins: { legend: { display: false } } }
});

const sources = metrics.traffic_sources;
const sourceNames = Object.keys(sources).sort();
new Chart(document.getElementById('traffic'), {
  type: 'doughnut',
  data: {
    labels: sourceNames,
    datasets: [{
      data: sourceNames.map(k => sources[k].visitors),
      backgroundColor: ['#0984e3', '#00b894', '#fdcb6e', '#e17055', '#6c5ce7']
    }]
  }
});

const features = metrics.feature_usage;
const featureNames = Object.keys(features).sort();
new Chart(document.getElementById('features'), {
  type: 'bar',
  data: {
    labels: featureNames,
    datasets: [{ label: '% of users', data: featureNames.map(k => features[k]), backgroundColor: '#6c5ce7' }]
  },
  options: { indexAxis: 'y', plugins: { legend: { display: false } } }
});
</script>
</body>
</html>
`))
