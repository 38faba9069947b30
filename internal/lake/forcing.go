package lake

import (
	"fmt"
	"math"
	"time"

	"github.com/limnetics/limnosim/internal/series"
)

// Mode selects how a forcing family produces values. The set is closed;
// each family supports a documented subset.
type Mode string

const (
	ModeConstant          Mode = "constant"
	ModeSeriesExact       Mode = "series_exact"
	ModeSeriesInterpolate Mode = "series_interpolate"
	ModeMeanRange         Mode = "mean_range"
	ModeDefaultSeries     Mode = "default_series"
	ModeTimeVarying       Mode = "time_varying"
)

// peakDay is the julian day at which the seasonal cosine peaks, for both
// temperature and light mean_range modes.
const peakDay = 200

// ForcingConfig describes one scalar forcing family. Which fields are
// meaningful depends on Mode: Value for constant, Mean/Range for mean_range
// (Mean also seeds the synthetic wind in default_series), Series for the
// series-backed modes. Configs are chosen at load time and never change
// during a run.
type ForcingConfig struct {
	Mode   Mode
	Value  float64
	Mean   float64
	Range  float64
	Series *series.Series
}

// resolve handles the mode subset shared by light, pH and TSS.
func (c ForcingConfig) resolve(family string, t time.Time, allowMeanRange bool) (float64, error) {
	switch c.Mode {
	case ModeConstant:
		return c.Value, nil
	case ModeMeanRange:
		if !allowMeanRange {
			return 0, fmt.Errorf("%s: mode %q: %w", family, c.Mode, ErrUnknownMode)
		}
		return seasonalCosine(c.Mean, c.Range, t), nil
	case ModeTimeVarying:
		if c.Series.Empty() {
			return 0, fmt.Errorf("%s: %w", family, ErrInvalidSeries)
		}
		return c.Series.Resolve(t), nil
	default:
		return 0, fmt.Errorf("%s: mode %q: %w", family, c.Mode, ErrUnknownMode)
	}
}

// seasonalCosine reconstructs an annual cycle from a mean and a total
// range, with the warm peak fixed at julian day 200.
func seasonalCosine(mean, rng float64, t time.Time) float64 {
	day := float64(t.YearDay())
	return mean + (rng/2)*math.Cos(2*math.Pi*(day-peakDay)/365)
}
