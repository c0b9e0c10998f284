package ga4

import (
	"context"
	"fmt"

	"github.com/startuptracker/startuptracker/internal/models"
)

// MockProvider serves the fixed demo payload. Every number derives
// from a 10% / 30% / 50% funnel over 12450 visitors so the stages and
// percentages stay mutually consistent.
type MockProvider struct{}

func NewMockProvider() *MockProvider { return &MockProvider{} }

func (*MockProvider) WebsiteVisitors(_ context.Context, days int) models.VisitorSnapshot {
	return models.VisitorSnapshot{
		TotalVisitors:     12450,
		NewVisitors:       8930,
		ReturningVisitors: 3520,
		PeriodDays:        days,
		DateRange:         fmt.Sprintf("Last %d days", days),
	}
}

func (*MockProvider) ConversionFunnel(_ context.Context, _ int) models.FunnelSnapshot {
	return models.FunnelSnapshot{
		WebsiteVisitors:   12450,
		SignUps:           1245,
		TrialUsers:        374,
		PaidCustomers:     187,
		RetainedCustomers: 156,
		ConversionRates: map[string]float64{
			"visitor_to_signup": 10.0,
			"signup_to_trial":   30.0,
			"trial_to_paid":     50.0,
			"retention_rate":    94.8,
		},
	}
}

func (*MockProvider) Revenue(_ context.Context, _ int) models.RevenueSnapshot {
	return models.RevenueSnapshot{
		TotalRevenue:      62000,
		MonthlyRevenue:    62000,
		AverageOrderValue: 20.83,
		Transactions:      187,
		RevenuePerVisitor: 4.98,
	}
}

func (*MockProvider) TrafficSources(_ context.Context, _ int) map[string]models.TrafficSource {
	return map[string]models.TrafficSource{
		"organic_search": {Visitors: 5603, Percentage: 45.0, ConversionRate: 1.5},
		"social_media":   {Visitors: 3113, Percentage: 25.0, ConversionRate: 0.8},
		"paid_ads":       {Visitors: 1868, Percentage: 15.0, ConversionRate: 1.2},
		"referrals":      {Visitors: 1245, Percentage: 10.0, ConversionRate: 2.0},
		"direct_traffic": {Visitors: 622, Percentage: 5.0, ConversionRate: 2.5},
	}
}

func (*MockProvider) UserBehavior(_ context.Context, _ int) models.BehaviorSnapshot {
	return models.BehaviorSnapshot{
		SessionsPerUser:        4.2,
		AverageSessionDuration: 12.5,
		ReturnUserRate:         67.0,
		BounceRate:             35.2,
		PagesPerSession:        3.8,
	}
}

func (*MockProvider) CohortRetention(_ context.Context, _ int) models.CohortSnapshot {
	m2a, m2b := 76, 81
	return models.CohortSnapshot{Cohorts: []models.CohortRow{
		{Month: "Jan 2024", M0: 100, M1: 89, M2: &m2a},
		{Month: "Feb 2024", M0: 100, M1: 92, M2: &m2b},
		{Month: "Mar 2024", M0: 100, M1: 85, M2: nil},
	}}
}

func (*MockProvider) FeatureUsage(_ context.Context, _ int) map[string]int {
	return map[string]int{
		"dashboard_analytics": 85,
		"export_reports":      67,
		"api_integration":     42,
		"custom_dashboards":   28,
	}
}
