// Package metrics derives the display values the dashboard and profile
// screens show from raw account snapshot fields. Every function is pure and,
// with the single exception of the credit score's target guard, total:
// malformed server data degrades to a neutral default instead of failing.
package metrics

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/tobiusaolo/Cariya-wallet/models"
)

// ErrInvalidTarget is returned when the configured savings target is zero or
// negative. The target comes from configuration and must be positive; this is
// a deployment mistake, not bad server data, so it is the one derivation that
// reports an error instead of defaulting.
var ErrInvalidTarget = errors.New("metrics: target savings must be positive")

// MaxCreditScore is the top of the derived credit score range.
const MaxCreditScore = 800

// CreditStatus is the tier label shown next to the credit score.
type CreditStatus string

const (
	StatusExcellent CreditStatus = "EXCELLENT"
	StatusGood      CreditStatus = "GOOD"
	StatusPoor      CreditStatus = "POOR"
)

// CreditScore maps total savings onto a 0-800 score against the configured
// target: round((total/target) * 800). Values above the target clamp to 800,
// negative savings clamp to 0.
func CreditScore(totalSavings, targetSavings float64) (int, error) {
	if targetSavings <= 0 {
		return 0, ErrInvalidTarget
	}
	score := int(math.Round(totalSavings / targetSavings * MaxCreditScore))
	if score < 0 {
		return 0, nil
	}
	if score > MaxCreditScore {
		return MaxCreditScore, nil
	}
	return score, nil
}

// StatusForScore tiers a credit score. Boundaries are inclusive on the lower
// bound: 600 is EXCELLENT, 400 is GOOD.
func StatusForScore(score int) CreditStatus {
	switch {
	case score >= 600:
		return StatusExcellent
	case score >= 400:
		return StatusGood
	default:
		return StatusPoor
	}
}

// AccountBalance converts savings units into the displayed balance using the
// configured conversion rate.
func AccountBalance(totalSavings, conversionRate float64) float64 {
	return totalSavings * conversionRate
}

// ComplianceProgress parses an "achieved/total" compliance string into a
// fraction. Malformed strings and zero denominators yield 0; the screens
// render a neutral value rather than surface a parse error.
func ComplianceProgress(score string) float64 {
	parts := strings.SplitN(score, "/", 2)
	if len(parts) != 2 {
		return 0
	}
	achieved, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0
	}
	total, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || total == 0 {
		return 0
	}
	return achieved / total
}

// MonthSlot is one calendar month of the rollup, January first.
type MonthSlot struct {
	Name      string
	Savings   float64
	Milestone bool
}

var monthNames = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// MonthlyRollup is the fixed 12-slot milestone summary derived from an
// account snapshot's monthly data.
type MonthlyRollup struct {
	Months          [12]MonthSlot
	TotalMilestones int
}

// Rollup folds a "YYYY-MM"-keyed monthly data map into the 12 calendar
// slots. Keys with an unparseable or out-of-range month are ignored; the
// result does not depend on map iteration order because year-month keys are
// unique per map.
func Rollup(monthly map[string]models.MonthlySavings) MonthlyRollup {
	var r MonthlyRollup
	for i := range r.Months {
		r.Months[i].Name = monthNames[i]
	}
	for key, data := range monthly {
		idx := strings.LastIndex(key, "-")
		if idx < 0 {
			continue
		}
		month, err := strconv.Atoi(key[idx+1:])
		if err != nil || month < 1 || month > 12 {
			continue
		}
		r.Months[month-1].Savings = data.Savings
		r.Months[month-1].Milestone = data.MilestoneScore != 0
	}
	for i := range r.Months {
		if r.Months[i].Milestone {
			r.TotalMilestones++
		}
	}
	return r
}
