package models

import (
	"testing"
	"time"

	"korus/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestRepMultiplier(t *testing.T) {
	tests := []struct {
		name string
		user User
		want float64
	}{
		{"standard", User{Tier: domain.TierStandard}, 1.0},
		{"premium", User{Tier: domain.TierPremium}, 1.2},
		{"genesis beats premium", User{Tier: domain.TierPremium, GenesisVerified: true}, 1.5},
		{"genesis on standard tier", User{Tier: domain.TierStandard, GenesisVerified: true}, 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.user.RepMultiplier())
		})
	}
}

func TestEligibleForDistribution(t *testing.T) {
	weekStart := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	staleWeek := weekStart.AddDate(0, 0, -7)

	tests := []struct {
		name string
		user User
		want bool
	}{
		{"earned this week", User{WeeklyRepEarned: 50, WeekStartDate: &weekStart}, true},
		{"suspended with nonzero rep", User{WeeklyRepEarned: 50, WeekStartDate: &weekStart, IsSuspended: true}, false},
		{"zero weekly rep", User{WeeklyRepEarned: 0, WeekStartDate: &weekStart}, false},
		{"rep from a previous week", User{WeeklyRepEarned: 50, WeekStartDate: &staleWeek}, false},
		{"never earned", User{WeeklyRepEarned: 50}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.user.EligibleForDistribution(weekStart))
		})
	}
}

func TestWeeklyPoolTotalRevenue(t *testing.T) {
	p := WeeklyPool{SponsoredRevenue: 100, GameFees: 40, EventFees: 10}
	require.Equal(t, 150.0, p.TotalRevenue())
}
