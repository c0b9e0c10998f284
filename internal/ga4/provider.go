// Package ga4 supplies the dashboard's data. When a GA4 property and a
// credentials file are configured, it queries the Analytics Data API;
// in every other case (no config, unreadable credentials, transport
// or decode failure) it serves a fixed, plausible payload. Fetch
// failures never reach the caller.
package ga4

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"

	"github.com/startuptracker/startuptracker/internal/config"
	"github.com/startuptracker/startuptracker/internal/models"
)

// Provider returns one snapshot per dashboard category. Methods never
// fail; implementations degrade to the mock payload instead.
type Provider interface {
	WebsiteVisitors(ctx context.Context, days int) models.VisitorSnapshot
	ConversionFunnel(ctx context.Context, days int) models.FunnelSnapshot
	Revenue(ctx context.Context, days int) models.RevenueSnapshot
	TrafficSources(ctx context.Context, days int) map[string]models.TrafficSource
	UserBehavior(ctx context.Context, days int) models.BehaviorSnapshot
	CohortRetention(ctx context.Context, days int) models.CohortSnapshot
	FeatureUsage(ctx context.Context, days int) map[string]int
}

// Select picks the live provider when the property ID is set and the
// credentials file resolves, the mock provider otherwise.
func Select(cfg config.Config, log *slog.Logger) Provider {
	if cfg.GA4PropertyID == "" || cfg.GA4CredentialsPath == "" {
		log.Info("ga4 not configured, serving mock metrics")
		return NewMockProvider()
	}
	token, err := readToken(cfg.GA4CredentialsPath)
	if err != nil {
		log.Warn("ga4 credentials unreadable, serving mock metrics", slog.String("err", err.Error()))
		return NewMockProvider()
	}
	log.Info("ga4 configured", slog.String("property", cfg.GA4PropertyID))
	return NewAPIProvider(cfg, token, NewHTTPClient(cfg.HTTPTimeout), log)
}

// readToken loads the bearer token from the credentials file. The file
// holds either the raw token or a JSON object with an access_token
// field; both forms are accepted.
func readToken(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	s := strings.TrimSpace(string(b))
	if strings.HasPrefix(s, "{") {
		var creds struct {
			AccessToken string `json:"access_token"`
		}
		if err := json.Unmarshal([]byte(s), &creds); err != nil {
			return "", err
		}
		return creds.AccessToken, nil
	}
	return s, nil
}
