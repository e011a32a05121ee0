package booking

import "testing"

func TestPriceCalculator(t *testing.T) {
	calc := PriceCalculator{BasePrice: 50, PerHopRate: 10}

	cases := []struct {
		hops int
		want int64
	}{
		{1, 60},
		{2, 70},
		{3, 80},
		{10, 150},
	}
	for _, tc := range cases {
		if got := calc.Price(tc.hops); got != tc.want {
			t.Errorf("Price(%d) = %d, want %d", tc.hops, got, tc.want)
		}
	}
}
