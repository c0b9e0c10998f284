package models

// VisitorSnapshot summarizes site traffic for a lookback window.
type VisitorSnapshot struct {
	TotalVisitors     int    `json:"total_visitors"`
	NewVisitors       int    `json:"new_visitors"`
	ReturningVisitors int    `json:"returning_visitors"`
	PeriodDays        int    `json:"period_days"`
	DateRange         string `json:"date_range"`
}

// FunnelSnapshot tracks the visitor -> signup -> trial -> paid -> retained
// funnel plus the stage-to-stage conversion percentages.
type FunnelSnapshot struct {
	WebsiteVisitors   int                `json:"website_visitors"`
	SignUps           int                `json:"sign_ups"`
	TrialUsers        int                `json:"trial_users"`
	PaidCustomers     int                `json:"paid_customers"`
	RetainedCustomers int                `json:"retained_customers"`
	ConversionRates   map[string]float64 `json:"conversion_rates"`
}

type RevenueSnapshot struct {
	TotalRevenue      float64 `json:"total_revenue"`
	MonthlyRevenue    float64 `json:"monthly_revenue"`
	AverageOrderValue float64 `json:"average_order_value"`
	Transactions      int     `json:"transactions"`
	RevenuePerVisitor float64 `json:"revenue_per_visitor"`
}

type TrafficSource struct {
	Visitors       int     `json:"visitors"`
	Percentage     float64 `json:"percentage"`
	ConversionRate float64 `json:"conversion_rate"`
}

type BehaviorSnapshot struct {
	SessionsPerUser        float64 `json:"sessions_per_user"`
	AverageSessionDuration float64 `json:"average_session_duration"`
	ReturnUserRate         float64 `json:"return_user_rate"`
	BounceRate             float64 `json:"bounce_rate"`
	PagesPerSession        float64 `json:"pages_per_session"`
}

// CohortRow holds monthly retention percentages for one signup cohort.
// M2 is nil while the cohort is too young to have a second month.
type CohortRow struct {
	Month string `json:"month"`
	M0    int    `json:"m0"`
	M1    int    `json:"m1"`
	M2    *int   `json:"m2"`
}

type CohortSnapshot struct {
	Cohorts []CohortRow `json:"cohorts"`
}

type UnitEconomics struct {
	LTV                 float64 `json:"ltv"`
	CAC                 float64 `json:"cac"`
	LTVCACRatio         float64 `json:"ltv_cac_ratio"`
	PaybackPeriodMonths float64 `json:"payback_period_months"`
	MonthlyARPU         float64 `json:"monthly_arpu"`
	GrossMargin         float64 `json:"gross_margin"`
	MonthlyChurn        float64 `json:"monthly_churn"`
	ContributionMargin  float64 `json:"contribution_margin"`
	MonthsToBreakeven   float64 `json:"months_to_breakeven"`
}

// Dashboard is the combined payload served to the dashboard page and
// GET /api/metrics. Built per request and discarded.
type Dashboard struct {
	WebsiteVisitors  VisitorSnapshot          `json:"website_visitors"`
	ConversionFunnel FunnelSnapshot           `json:"conversion_funnel"`
	Revenue          RevenueSnapshot          `json:"revenue"`
	TrafficSources   map[string]TrafficSource `json:"traffic_sources"`
	UserBehavior     BehaviorSnapshot         `json:"user_behavior"`
	CohortRetention  CohortSnapshot           `json:"cohort_retention"`
	FeatureUsage     map[string]int           `json:"feature_usage"`
	UnitEconomics    UnitEconomics            `json:"unit_economics"`
	LastUpdated      string                   `json:"last_updated"`
	DataPeriodDays   int                      `json:"data_period_days"`
}

// RevenuePoint is one month of the stored revenue trend.
type RevenuePoint struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}
