package service

import (
	"testing"

	"korus/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestTipUnits(t *testing.T) {
	tests := []struct {
		amount float64
		want   int
	}{
		{0, 0},
		{1, 0},
		{50, 0},
		{99.99, 0}, // under 100 ALLY earns nothing
		{100, 1},
		{199.5, 1},
		{250, 2},
		{1000, 10},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tipUnits(tt.amount), "amount %v", tt.amount)
	}
}

func TestTipUnderHundredEarnsNoPoints(t *testing.T) {
	require.Equal(t, 0, tipUnits(40)*domain.PointsTipSentPer100)
	require.Equal(t, 0, tipUnits(40)*domain.PointsTipRecvPer100)
	require.Equal(t, domain.PointsTipSentPer100, tipUnits(100)*domain.PointsTipSentPer100)
}

func TestStreakBonus(t *testing.T) {
	tests := []struct {
		streak int
		want   int
	}{
		{1, 1},
		{7, 7},
		{30, 30},
		{31, 30},
		{365, 30},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, streakBonus(tt.streak), "streak %d", tt.streak)
	}
}

func TestDailyLoginPoints(t *testing.T) {
	// A first login earns the base plus one streak-day bonus.
	require.Equal(t, 6, domain.PointsDailyLogin+streakBonus(1)*domain.PointsStreakPerDay)
	// A long streak caps at 30 bonus days.
	require.Equal(t, 35, domain.PointsDailyLogin+streakBonus(100)*domain.PointsStreakPerDay)
}
