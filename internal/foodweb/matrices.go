package foodweb

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// BuildMatrices restricts the pools to biota and returns the ordered
// organism names plus two square matrices aligned to that order: prey
// preference weights and egestion coefficients (1 minus the predator's
// assimilation efficiency clamped to [0,1]). Entries with no recorded
// interaction hold NaN. Rows are predators, columns prey.
//
// This is a diagnostic export surface; the integration loop never reads it.
func (w *FoodWeb) BuildMatrices(pools []Pool) ([]string, *mat.Dense, *mat.Dense) {
	organisms := make([]Biota, 0, len(pools))
	for _, p := range pools {
		if b, ok := p.(Biota); ok {
			organisms = append(organisms, b)
		}
	}
	names := make([]string, len(organisms))
	index := make(map[string]int, len(organisms))
	byNorm := make(map[string]string, len(organisms))
	for i, org := range organisms {
		names[i] = org.Name()
		index[org.Name()] = i
		byNorm[NormalizeName(org.Name())] = org.Name()
	}

	n := len(names)
	preferences := nanDense(n)
	egestion := nanDense(n)

	for row, org := range organisms {
		var prefs map[string]float64
		assimilation := w.defaultAssimilation()
		if cons, ok := org.(Consumer); ok {
			prefs = cons.FeedingPrefs()
			if ae := cons.AssimilationEfficiency(); ae > 0 {
				assimilation = ae
			}
		}
		weights := w.weights(prefs, w.interactionsFor(org.Name()))
		if len(weights) == 0 {
			continue
		}
		egestionCoeff := 1.0 - clamp01(assimilation)
		for preyName, weight := range weights {
			target := preyName
			if _, ok := index[target]; !ok {
				target = byNorm[NormalizeName(preyName)]
			}
			col, ok := index[target]
			if !ok {
				continue
			}
			preferences.Set(row, col, weight)
			egestion.Set(row, col, egestionCoeff)
		}
	}
	return names, preferences, egestion
}

func nanDense(n int) *mat.Dense {
	if n == 0 {
		return &mat.Dense{}
	}
	data := make([]float64, n*n)
	for i := range data {
		data[i] = math.NaN()
	}
	return mat.NewDense(n, n, data)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(v, 1))
}
