package lake

import (
	"math"
	"time"
)

// windHarmonics is the fixed empirical fit behind the default synthetic
// wind series. The coefficients are not tunable; reproduce them exactly.
var windHarmonics = [...]struct {
	freq float64
	cos  float64
	sin  float64
}{
	{1, 0.83408, 0.87256},
	{2, 0.4245, -0.2871},
	{3, 0.0268, -0.1209},
	{4, -0.2158, -0.6634},
	{6, 0.1083, 0.4047},
	{8, -0.0264, -0.2766},
	{16, 0.0236, -0.3492},
	{32, -0.442, 0.89},
	{64, -1.4385, 0.634},
	{128, 0.0935, -1.06},
	{200, -0.564, -0.291},
	{300, -0.6484, 0.6162},
}

// DefaultWind synthesizes the deterministic 365-day wind speed for the
// given day, superimposing the harmonic table on the mean. A non-positive
// mean falls back to 3.0; the result is floored at zero.
func DefaultWind(mean float64, t time.Time) float64 {
	if mean <= 0 {
		mean = 3.0
	}
	theta := 2 * math.Pi * float64(t.YearDay()) / 365
	value := mean
	for _, h := range windHarmonics {
		value += h.cos*math.Cos(h.freq*theta) + h.sin*math.Sin(h.freq*theta)
	}
	if value < 0 {
		return 0
	}
	return value
}
