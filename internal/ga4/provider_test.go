package ga4

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startuptracker/startuptracker/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSelectWithoutCredentialsReturnsMock(t *testing.T) {
	p := Select(config.Config{}, discardLogger())
	_, ok := p.(*MockProvider)
	require.True(t, ok, "missing credentials must select the mock provider")
}

func TestSelectWithUnreadableCredentialsReturnsMock(t *testing.T) {
	cfg := config.Config{
		GA4PropertyID:      "123456789",
		GA4CredentialsPath: filepath.Join(t.TempDir(), "missing.json"),
	}
	p := Select(cfg, discardLogger())
	_, ok := p.(*MockProvider)
	require.True(t, ok, "unreadable credentials must select the mock provider")
}

func TestSelectWithCredentialsReturnsAPIProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"access_token": "tok-123"}`), 0600))

	cfg := config.Config{GA4PropertyID: "123456789", GA4CredentialsPath: path}
	p := Select(cfg, discardLogger())
	api, ok := p.(*APIProvider)
	require.True(t, ok)
	assert.Equal(t, "tok-123", api.token)
}

func TestReadTokenRawForm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("raw-token\n"), 0600))

	token, err := readToken(path)
	require.NoError(t, err)
	assert.Equal(t, "raw-token", token)
}

func TestMockPayloadIsConsistent(t *testing.T) {
	ctx := context.Background()
	m := NewMockProvider()

	v := m.WebsiteVisitors(ctx, 30)
	assert.Equal(t, 12450, v.TotalVisitors)
	assert.Equal(t, v.TotalVisitors, v.NewVisitors+v.ReturningVisitors)
	assert.Equal(t, 30, v.PeriodDays)
	assert.Equal(t, "Last 30 days", v.DateRange)

	f := m.ConversionFunnel(ctx, 30)
	assert.Equal(t, v.TotalVisitors, f.WebsiteVisitors)
	// Each stage is strictly narrower than the one before it.
	assert.Greater(t, f.WebsiteVisitors, f.SignUps)
	assert.Greater(t, f.SignUps, f.TrialUsers)
	assert.Greater(t, f.TrialUsers, f.PaidCustomers)
	assert.Greater(t, f.PaidCustomers, f.RetainedCustomers)
	assert.Equal(t, 94.8, f.ConversionRates["retention_rate"])

	r := m.Revenue(ctx, 30)
	assert.Equal(t, float64(62000), r.TotalRevenue)
	assert.Equal(t, f.PaidCustomers, r.Transactions)

	sources := m.TrafficSources(ctx, 30)
	var pct float64
	for _, s := range sources {
		pct += s.Percentage
	}
	assert.InDelta(t, 100, pct, 0.01, "traffic source shares must sum to 100%%")

	cohorts := m.CohortRetention(ctx, 90)
	require.Len(t, cohorts.Cohorts, 3)
	assert.Nil(t, cohorts.Cohorts[2].M2, "youngest cohort has no second month yet")
}

func TestMockHonorsPeriodDays(t *testing.T) {
	v := NewMockProvider().WebsiteVisitors(context.Background(), 7)
	assert.Equal(t, 7, v.PeriodDays)
	assert.Equal(t, "Last 7 days", v.DateRange)
}
