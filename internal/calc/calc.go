// Package calc holds the pure metric formulas. Everything here is
// stateless: numbers in, numbers out, zero on a zero denominator.
package calc

import "github.com/startuptracker/startuptracker/internal/models"

// LTV computes customer lifetime value as ARPU x margin x (1/churn).
// monthlyChurn and grossMargin are fractions (0.052, 0.80).
func LTV(monthlyARPU, grossMargin, monthlyChurn float64) float64 {
	return round2(safeDivF(monthlyARPU*grossMargin, monthlyChurn))
}

// SimpleLTV is the payment-processor variant: ARPU / churn, no margin.
func SimpleLTV(monthlyARPU, monthlyChurn float64) float64 {
	return round2(safeDivF(monthlyARPU, monthlyChurn))
}

func CAC(totalAcquisitionSpend float64, newCustomers int) float64 {
	return round2(safeDivF(totalAcquisitionSpend, float64(newCustomers)))
}

func LTVCACRatio(ltv, cac float64) float64 {
	return round2(safeDivF(ltv, cac))
}

// ConversionRate returns a percentage, e.g. 156/12450 -> 1.25.
func ConversionRate(conversions, visitors int) float64 {
	return round2(safeDivF(float64(conversions), float64(visitors)) * 100)
}

// Retention is the complement of churn, both expressed as percentages.
func Retention(churnPct float64) float64 {
	return round1(100 - churnPct)
}

// PaybackPeriod is the months of ARPU needed to recover one CAC.
func PaybackPeriod(cac, monthlyARPU float64) float64 {
	return round1(safeDivF(cac, monthlyARPU))
}

func MRR(activeUsers int, monthlyARPU float64) float64 {
	return round2(float64(activeUsers) * monthlyARPU)
}

func ARR(mrr float64) float64 {
	return round2(mrr * 12)
}

// NRR includes expansion revenue; GRR only subtracts churned revenue.
func NRR(startingMRR, expansion, churned float64) float64 {
	return round1(safeDivF(startingMRR+expansion-churned, startingMRR) * 100)
}

func GRR(startingMRR, churned float64) float64 {
	return round1(safeDivF(startingMRR-churned, startingMRR) * 100)
}

// GrowthRate is the period-over-period change as a percentage.
func GrowthRate(current, previous float64) float64 {
	return round1(safeDivF(current-previous, previous) * 100)
}

// baselineConversion normalizes channel efficiency against a 1.25%
// site-wide conversion rate.
const baselineConversion = 0.0125

// CACByChannel spreads a blended CAC across acquisition channels,
// weighting by conversion efficiency: channels that convert better
// than the baseline get a proportionally lower effective CAC.
// Channels missing a conversion rate are skipped.
func CACByChannel(totalCAC float64, conversionRates map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(conversionRates))
	for channel, rate := range conversionRates {
		if rate <= 0 {
			continue
		}
		out[channel] = round2(totalCAC * safeDivF(baselineConversion, rate))
	}
	return out
}

// Card processing fees, standard rate: 2.9% + $0.30 per transaction.
const (
	feePct   = 0.029
	feeFixed = 0.30
)

type FeeBreakdown struct {
	TransactionAmount float64 `json:"transaction_amount"`
	PercentageFee     float64 `json:"percentage_fee"`
	FixedFee          float64 `json:"fixed_fee"`
	TotalFee          float64 `json:"total_fee"`
	NetAmount         float64 `json:"net_amount"`
	FeePercentage     float64 `json:"fee_percentage"`
}

func ProcessingFees(amount float64) FeeBreakdown {
	pct := amount * feePct
	total := pct + feeFixed
	return FeeBreakdown{
		TransactionAmount: round2(amount),
		PercentageFee:     round2(pct),
		FixedFee:          feeFixed,
		TotalFee:          round2(total),
		NetAmount:         round2(amount - total),
		FeePercentage:     round2(safeDivF(total, amount) * 100),
	}
}

// UnitEconomics bundles the per-customer economics from the four core
// inputs. Margin and churn come in as fractions and go out as
// percentages, matching the dashboard payload.
func UnitEconomics(monthlyARPU, cac, grossMargin, monthlyChurn float64) models.UnitEconomics {
	ltv := LTV(monthlyARPU, grossMargin, monthlyChurn)
	contribution := monthlyARPU * grossMargin
	return models.UnitEconomics{
		LTV:                 ltv,
		CAC:                 round2(cac),
		LTVCACRatio:         LTVCACRatio(ltv, cac),
		PaybackPeriodMonths: PaybackPeriod(cac, monthlyARPU),
		MonthlyARPU:         round2(monthlyARPU),
		GrossMargin:         round1(grossMargin * 100),
		MonthlyChurn:        round1(monthlyChurn * 100),
		ContributionMargin:  round2(contribution),
		MonthsToBreakeven:   round1(safeDivF(cac, contribution)),
	}
}

func safeDivF(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
func round1(f float64) float64 { return roundN(f, 10) }
func round2(f float64) float64 { return roundN(f, 100) }
func roundN(f, scale float64) float64 {
	if f < 0 {
		return float64(int64(f*scale-0.5)) / scale
	}
	return float64(int64(f*scale+0.5)) / scale
}
