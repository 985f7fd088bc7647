package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tobiusaolo/Cariya-wallet/models"
)

func TestCreditScore(t *testing.T) {
	tests := []struct {
		name   string
		total  float64
		target float64
		want   int
	}{
		{"empty account", 0, 7680, 0},
		{"full target", 7680, 7680, 800},
		{"half target", 3840, 7680, 400},
		{"rounds nearest", 100, 7680, 10},
		{"clamps above target", 9000, 7680, 800},
		{"clamps negative", -50, 7680, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CreditScore(tt.total, tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreditScoreInvalidTarget(t *testing.T) {
	_, err := CreditScore(100, 0)
	assert.ErrorIs(t, err, ErrInvalidTarget)

	_, err = CreditScore(100, -1)
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

func TestStatusForScore(t *testing.T) {
	assert.Equal(t, StatusExcellent, StatusForScore(800))
	assert.Equal(t, StatusExcellent, StatusForScore(600))
	assert.Equal(t, StatusGood, StatusForScore(599))
	assert.Equal(t, StatusGood, StatusForScore(400))
	assert.Equal(t, StatusPoor, StatusForScore(399))
	assert.Equal(t, StatusPoor, StatusForScore(0))
}

func TestAccountBalance(t *testing.T) {
	assert.Equal(t, float64(900000), AccountBalance(250, 3600))
	assert.Equal(t, float64(0), AccountBalance(0, 3600))
}

func TestComplianceProgress(t *testing.T) {
	tests := []struct {
		score string
		want  float64
	}{
		{"4/8", 0.5},
		{"8/8", 1},
		{"0/0", 0},
		{"bad", 0},
		{"", 0},
		{"3/", 0},
		{"/8", 0},
		{"a/b", 0},
		{" 2 / 4 ", 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.score, func(t *testing.T) {
			assert.Equal(t, tt.want, ComplianceProgress(tt.score))
		})
	}
}

func TestRollup(t *testing.T) {
	monthly := map[string]models.MonthlySavings{
		"2025-01": {Savings: 50, MilestoneScore: 1},
		"2025-03": {Savings: 125, MilestoneScore: 1},
	}
	r := Rollup(monthly)

	assert.Equal(t, MonthSlot{Name: "Jan", Savings: 50, Milestone: true}, r.Months[0])
	assert.Equal(t, MonthSlot{Name: "Feb"}, r.Months[1])
	assert.Equal(t, MonthSlot{Name: "Mar", Savings: 125, Milestone: true}, r.Months[2])
	for i := 3; i < 12; i++ {
		assert.Equal(t, MonthSlot{Name: monthNames[i]}, r.Months[i])
	}
	assert.Equal(t, 2, r.TotalMilestones)
}

func TestRollupIgnoresMalformedKeys(t *testing.T) {
	monthly := map[string]models.MonthlySavings{
		"2025-13": {Savings: 10, MilestoneScore: 1},
		"2025-00": {Savings: 10, MilestoneScore: 1},
		"garbage": {Savings: 10, MilestoneScore: 1},
		"2025-xx": {Savings: 10, MilestoneScore: 1},
		"2025-02": {Savings: 75, MilestoneScore: 0},
		"2025-12": {Savings: 20, MilestoneScore: 1},
	}
	r := Rollup(monthly)

	assert.Equal(t, float64(75), r.Months[1].Savings)
	assert.False(t, r.Months[1].Milestone)
	assert.True(t, r.Months[11].Milestone)
	assert.Equal(t, 1, r.TotalMilestones)
}

func TestRollupEmpty(t *testing.T) {
	r := Rollup(nil)
	assert.Equal(t, 0, r.TotalMilestones)
	for i, slot := range r.Months {
		assert.Equal(t, monthNames[i], slot.Name)
		assert.Zero(t, slot.Savings)
		assert.False(t, slot.Milestone)
	}
}
