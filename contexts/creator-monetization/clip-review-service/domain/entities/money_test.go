package entities

import "testing"

func TestRevenueForRoundsToFourDecimals(t *testing.T) {
	cases := []struct {
		views int64
		rate  float64
		want  float64
	}{
		{200_000, 5.0, 10.0},
		{-200_000, 5.0, -10.0},
		{1, 3.0, 0.0},
		{33_333, 3.0, 1.0},
		{0, 5.0, 0.0},
	}
	for _, tc := range cases {
		if got := RevenueFor(tc.views, tc.rate); got != tc.want {
			t.Fatalf("RevenueFor(%d, %.2f) = %v, want %v", tc.views, tc.rate, got, tc.want)
		}
	}
}
