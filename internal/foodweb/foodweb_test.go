package foodweb_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limnetics/limnosim/internal/foodweb"
	"github.com/limnetics/limnosim/internal/state"
)

var t0 = time.Date(1992, time.June, 1, 0, 0, 0, 0, time.UTC)

func ptr(v float64) *float64 { return &v }

func plant(name string, biomass float64) *state.Plant {
	return state.NewPlant(state.PlantParams{Name: name, Units: "mg/L", Biomass: biomass})
}

func animal(name string, biomass, consumption, assimilation float64, prefs map[string]float64) *state.Animal {
	return state.NewAnimal(state.AnimalParams{
		Name: name, Units: "mg/L", Biomass: biomass,
		Consumption: consumption, Assimilation: assimilation, FeedingPrefs: prefs,
	})
}

func pools(vars ...state.Var) []foodweb.Pool {
	out := make([]foodweb.Pool, len(vars))
	for i, v := range vars {
		out[i] = v
	}
	return out
}

func TestNormalizeName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Daphnia (adult)", "daphnia adult"},
		{"  Yellow   Perch ", "yellow perch"},
		{"Chara, Nitella", "chara nitella"},
		{"NO3-N", "no3 n"},
		{"()", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, foodweb.NormalizeName(tt.in), "input %q", tt.in)
	}
}

func TestComputeRatesProportionalSplit(t *testing.T) {
	web := foodweb.New([]foodweb.Interaction{
		{Predator: "Perch", Prey: "Algae", DietPercent: ptr(0.75)},
		{Predator: "Perch", Prey: "Moss", DietPercent: ptr(0.25)},
	})
	algae := plant("Algae", 2)
	moss := plant("Moss", 2)
	perch := animal("Perch", 10, 0.1, 0, nil)

	rates := web.ComputeRates(t0, 1.0, pools(algae, moss, perch))

	// ingestion = 0.1*10 = 1, split 1.5:0.5 by weight*biomass
	assert.InDelta(t, -0.75, rates["Algae"], 1e-12)
	assert.InDelta(t, -0.25, rates["Moss"], 1e-12)
	assert.InDelta(t, 0.7, rates["Perch"], 1e-12) // default assimilation
}

func TestComputeRatesClampsToPreyStock(t *testing.T) {
	web := foodweb.New([]foodweb.Interaction{
		{Predator: "Perch", Prey: "Algae", DietPercent: ptr(1.0)},
	})
	algae := plant("Algae", 0.5)
	perch := animal("Perch", 100, 2.0, 0.6, nil)

	rates := web.ComputeRates(t0, 1.0, pools(algae, perch))

	// ingestion would be 200, but the pool only holds 0.5
	assert.Equal(t, -0.5, rates["Algae"])
	assert.InDelta(t, 0.5*0.6, rates["Perch"], 1e-12)
}

func TestComputeRatesMassBound(t *testing.T) {
	web := foodweb.New([]foodweb.Interaction{
		{Predator: "Perch", Prey: "Algae", DietPercent: ptr(0.6)},
		{Predator: "Perch", Prey: "Daphnia", DietPercent: ptr(0.4)},
		{Predator: "Pike", Prey: "Perch", DietPercent: ptr(1.0)},
	})
	vars := []state.Var{
		plant("Algae", 3),
		animal("Daphnia", 1, 0, 0, nil),
		animal("Perch", 5, 0.8, 0, nil),
		animal("Pike", 2, 0.5, 0, nil),
	}
	rates := web.ComputeRates(t0, 1.0, pools(vars...))

	totalConsumed := 0.0
	for _, sv := range vars {
		r := rates[sv.Name()]
		if r < 0 {
			require.LessOrEqual(t, -r, sv.Value(), "prey %s overdrawn", sv.Name())
			totalConsumed += -r
		}
	}
	assert.LessOrEqual(t, rates["Pike"], totalConsumed*0.7+1e-12)
}

func TestComputeRatesExplicitPrefsWin(t *testing.T) {
	// Interactions point at Moss, but the predator's own preferences say
	// Algae; preferences take precedence.
	web := foodweb.New([]foodweb.Interaction{
		{Predator: "Perch", Prey: "Moss", DietPercent: ptr(1.0)},
	})
	algae := plant("Algae", 10)
	moss := plant("Moss", 10)
	perch := animal("Perch", 1, 0.5, 0, map[string]float64{"Algae": 1})

	rates := web.ComputeRates(t0, 1.0, pools(algae, moss, perch))
	assert.InDelta(t, -0.5, rates["Algae"], 1e-12)
	assert.NotContains(t, rates, "Moss")
}

func TestComputeRatesPreferenceSources(t *testing.T) {
	interactions := []foodweb.Interaction{
		{Predator: "Perch", Prey: "Algae", Observations: 9},
		{Predator: "Perch", Prey: "Moss", Observations: 1, DietPercent: ptr(1.0)},
	}
	algae := plant("Algae", 1)
	moss := plant("Moss", 1)
	perch := animal("Perch", 1, 1.0, 0, nil)

	// diet_percent: only Moss carries a recorded diet value
	web := foodweb.New(interactions)
	web.Source = foodweb.PreferDietPercent
	rates := web.ComputeRates(t0, 1.0, pools(algae, moss, perch))
	assert.NotContains(t, rates, "Algae")
	assert.InDelta(t, -1.0, rates["Moss"], 1e-12)

	// observations: both prey weighted by count
	web = foodweb.New(interactions)
	web.Source = foodweb.PreferObservations
	rates = web.ComputeRates(t0, 1.0, pools(algae, moss, perch))
	assert.InDelta(t, -0.9, rates["Algae"], 1e-12)
	assert.InDelta(t, -0.1, rates["Moss"], 1e-12)

	// hybrid: diet value where recorded, observation count otherwise
	web = foodweb.New(interactions)
	web.Source = foodweb.PreferDietThenObservations
	rates = web.ComputeRates(t0, 1.0, pools(algae, moss, perch))
	assert.InDelta(t, -0.9, rates["Algae"], 1e-12)
	assert.InDelta(t, -0.1, rates["Moss"], 1e-12)
}

func TestComputeRatesNormalizedNameMatching(t *testing.T) {
	web := foodweb.New([]foodweb.Interaction{
		{Predator: "Daphnia (adult)", Prey: "Green Algae", DietPercent: ptr(1.0)},
	})
	algae := plant("green algae", 4)
	daphnia := animal("daphnia adult", 1, 0.25, 0, nil)

	rates := web.ComputeRates(t0, 1.0, pools(algae, daphnia))
	assert.InDelta(t, -0.25, rates["green algae"], 1e-12)
	assert.InDelta(t, 0.25*0.7, rates["daphnia adult"], 1e-12)
}

func TestComputeRatesSkipsDegenerateCases(t *testing.T) {
	web := foodweb.New([]foodweb.Interaction{
		{Predator: "Perch", Prey: "Algae", DietPercent: ptr(1.0)},
		{Predator: "Pike", Prey: "Perch", DietPercent: ptr(1.0)},
	})

	// prey with zero biomass: predator has nothing to eat
	rates := web.ComputeRates(t0, 1.0, pools(
		plant("Algae", 0),
		animal("Perch", 5, 0.5, 0, nil),
	))
	assert.Empty(t, rates)

	// predator with zero consumption rate contributes nothing
	rates = web.ComputeRates(t0, 1.0, pools(
		plant("Algae", 5),
		animal("Perch", 5, 0, 0, nil),
	))
	assert.Empty(t, rates)

	// predator absent from the pool collection is ignored
	rates = web.ComputeRates(t0, 1.0, pools(plant("Algae", 5)))
	assert.Empty(t, rates)
}

func TestBuildMatrices(t *testing.T) {
	web := foodweb.New([]foodweb.Interaction{
		{Predator: "Perch", Prey: "Algae", DietPercent: ptr(0.8)},
		{Predator: "Perch", Prey: "Daphnia (adult)", DietPercent: ptr(0.2)},
	})
	nitrate := state.NewNutrient("Nitrate", "mg/L", "NO3", 0.4)
	algae := plant("Algae", 10)
	daphnia := animal("daphnia adult", 1, 0.1, 0, nil)
	perch := animal("Perch", 2, 0.5, 0.8, nil)

	names, prefs, egestion := web.BuildMatrices(pools(nitrate, algae, daphnia, perch))

	// nutrients are excluded, biota keep collection order
	require.Equal(t, []string{"Algae", "daphnia adult", "Perch"}, names)

	perchRow := 2
	assert.Equal(t, 0.8, prefs.At(perchRow, 0))
	assert.Equal(t, 0.2, prefs.At(perchRow, 1)) // normalized prey match
	assert.True(t, math.IsNaN(prefs.At(perchRow, 2)))
	assert.True(t, math.IsNaN(prefs.At(0, 0)), "plants have no prey row entries")

	assert.InDelta(t, 0.2, egestion.At(perchRow, 0), 1e-12) // 1 - 0.8
	assert.InDelta(t, 0.2, egestion.At(perchRow, 1), 1e-12)
	assert.True(t, math.IsNaN(egestion.At(1, 2)))
}

func TestBuildMatricesClampsAssimilation(t *testing.T) {
	web := foodweb.New([]foodweb.Interaction{
		{Predator: "Perch", Prey: "Algae", DietPercent: ptr(1.0)},
	})
	algae := plant("Algae", 1)
	perch := animal("Perch", 1, 0.1, 1.6, nil) // efficiency above 1 clamps

	_, _, egestion := web.BuildMatrices(pools(algae, perch))
	assert.Equal(t, 0.0, egestion.At(1, 0))
}
