package lake

import (
	"fmt"
	"math"
	"time"

	"github.com/limnetics/limnosim/internal/foodweb"
	"github.com/limnetics/limnosim/internal/series"
)

// stratificationThreshold is the epi/hypo temperature difference, in
// degrees, above which the water column is treated as stratified.
const stratificationThreshold = 3.0

// Environment is the physical container for a run: basin geometry, the
// hydrological boundary series, and one forcing configuration per family.
// Volume is the only field mutated during a run (once per tick, by the
// water balance); everything else is immutable after loading.
type Environment struct {
	Volume    float64 // m^3
	Area      float64 // m^2
	DepthMean float64 // m
	DepthMax  float64 // m

	// Evaporation is a constant volumetric loss in m^3/day, applied by the
	// water balance alongside the inflow/outflow series.
	Evaporation float64

	Inflow  *series.Series // m^3/day
	Outflow *series.Series // m^3/day

	Temperature TemperatureConfig
	Wind        ForcingConfig
	Light       ForcingConfig
	PH          ForcingConfig
	TSS         ForcingConfig

	// Web is the optional trophic interaction network consulted by the
	// integrator; nil disables trophic transfer.
	Web *foodweb.FoodWeb
}

// GetInflow returns the inflow boundary condition in m^3/day. An empty
// series resolves to 0.0; this is the single documented silent default.
func (e *Environment) GetInflow(t time.Time) float64 {
	return e.Inflow.Resolve(t)
}

// GetOutflow returns the outflow boundary condition in m^3/day.
func (e *Environment) GetOutflow(t time.Time) float64 {
	return e.Outflow.Resolve(t)
}

// GetWind returns the wind speed forcing for t.
func (e *Environment) GetWind(t time.Time) (float64, error) {
	switch e.Wind.Mode {
	case ModeConstant:
		return e.Wind.Value, nil
	case ModeDefaultSeries:
		return DefaultWind(e.Wind.Mean, t), nil
	case ModeTimeVarying:
		if e.Wind.Series.Empty() {
			return 0, fmt.Errorf("wind: %w", ErrInvalidSeries)
		}
		return e.Wind.Series.Resolve(t), nil
	default:
		return 0, fmt.Errorf("wind: mode %q: %w", e.Wind.Mode, ErrUnknownMode)
	}
}

// GetLight returns the light forcing for t.
func (e *Environment) GetLight(t time.Time) (float64, error) {
	return e.Light.resolve("light", t, true)
}

// GetPH returns the pH forcing for t.
func (e *Environment) GetPH(t time.Time) (float64, error) {
	return e.PH.resolve("ph", t, false)
}

// GetTSS returns the total-suspended-solids forcing for t.
func (e *Environment) GetTSS(t time.Time) (float64, error) {
	return e.TSS.resolve("tss", t, false)
}

// TemperatureConfig drives the paired epilimnion/hypolimnion temperature
// forcing. The two layers share one mode; per-layer parameters select the
// constant values, seasonal parameters, or series.
type TemperatureConfig struct {
	Mode Mode

	Epi  float64 // constant mode
	Hypo float64

	EpiMean   float64 // mean_range mode
	EpiRange  float64
	HypoMean  float64
	HypoRange float64

	EpiSeries  *series.Series
	HypoSeries *series.Series
}

// TemperaturePair is a resolved epilimnion/hypolimnion reading.
type TemperaturePair struct {
	Epilimnion  float64
	Hypolimnion float64
	Stratified  bool
}

// GetTemperaturePair resolves both layer temperatures for t. The second
// return is false when neither layer resolves; callers must treat that as
// missing forcing coverage, not as zero degrees.
//
// When only one layer resolves it is mirrored into the other. When the
// layers differ by no more than the stratification threshold the column is
// considered well mixed and the hypolimnion collapses onto the epilimnion.
func (e *Environment) GetTemperaturePair(t time.Time) (TemperaturePair, bool) {
	epi, epiOK, hypo, hypoOK := e.Temperature.resolveLayers(t)
	if !epiOK && !hypoOK {
		return TemperaturePair{}, false
	}
	if !epiOK {
		epi = hypo
	}
	if !hypoOK {
		hypo = epi
	}
	stratified := math.Abs(epi-hypo) > stratificationThreshold
	if !stratified {
		hypo = epi
	}
	return TemperaturePair{Epilimnion: epi, Hypolimnion: hypo, Stratified: stratified}, true
}

func (c TemperatureConfig) resolveLayers(t time.Time) (epi float64, epiOK bool, hypo float64, hypoOK bool) {
	switch c.Mode {
	case ModeConstant:
		return c.Epi, true, c.Hypo, true
	case ModeMeanRange:
		return seasonalCosine(c.EpiMean, c.EpiRange, t), true,
			seasonalCosine(c.HypoMean, c.HypoRange, t), true
	case ModeSeriesExact:
		epi, epiOK = c.EpiSeries.At(t)
		if !c.HypoSeries.Empty() {
			hypo, hypoOK = c.HypoSeries.At(t)
			if !hypoOK {
				// A configured hypolimnion series that lacks the exact
				// key reports the whole pair as missing.
				return 0, false, 0, false
			}
		}
		return epi, epiOK, hypo, hypoOK
	case ModeSeriesInterpolate:
		epi, epiOK = resolveWithinCoverage(c.EpiSeries, t)
		hypo, hypoOK = resolveWithinCoverage(c.HypoSeries, t)
		return epi, epiOK, hypo, hypoOK
	default:
		return 0, false, 0, false
	}
}

// resolveWithinCoverage interpolates inside the covered span only; queries
// outside it report no value rather than extrapolating cyclically.
func resolveWithinCoverage(s *series.Series, t time.Time) (float64, bool) {
	if s.Empty() {
		return 0, false
	}
	if t.Before(s.First().Time) || t.After(s.Last().Time) {
		return 0, false
	}
	return s.Resolve(t), true
}
