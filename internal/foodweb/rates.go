package foodweb

import (
	"sort"
	"time"
)

// Pool is the view of a state variable the web needs for lookups.
type Pool interface {
	Name() string
	Value() float64
}

// Biota marks living pools tracked by biomass.
type Biota interface {
	Pool
	Biomass() float64
}

// Consumer is a pool that actively ingests prey.
type Consumer interface {
	Biota
	ConsumptionRate() float64
	FeedingPrefs() map[string]float64
	// AssimilationEfficiency returns the predator-specific efficiency;
	// non-positive means "use the web default".
	AssimilationEfficiency() float64
}

// ComputeRates allocates each predator's ingestion across its weighted prey
// and returns per-variable rate contributions (mass per day, negative for
// prey, positive for predators). t and dt are carried for future
// temperature- and ration-dependent feeding; the allocation itself depends
// only on the current pool values.
//
// Per predator: prey weights are scaled by current prey biomass into an
// availability-weighted mixture, ingestion = consumption rate times
// predator biomass is split proportionally, each prey's share is clamped
// to its standing stock, and the predator gains the consumed total times
// its assimilation efficiency.
func (w *FoodWeb) ComputeRates(t time.Time, dt float64, pools []Pool) map[string]float64 {
	_ = t
	_ = dt

	byName := make(map[string]Pool, len(pools))
	byNorm := make(map[string]Pool, len(pools))
	for _, p := range pools {
		byName[p.Name()] = p
		byNorm[NormalizeName(p.Name())] = p
	}
	lookup := func(name string) Pool {
		if p, ok := byName[name]; ok {
			return p
		}
		return byNorm[NormalizeName(name)]
	}

	rates := make(map[string]float64)
	for _, predatorName := range w.predatorOrder {
		predator := lookup(predatorName)
		if predator == nil {
			continue
		}
		cons, ok := predator.(Consumer)
		if !ok || cons.ConsumptionRate() <= 0 {
			continue
		}

		weights := w.weights(cons.FeedingPrefs(), w.byPredator[predatorName])
		if len(weights) == 0 {
			continue
		}

		// Deterministic prey order regardless of map iteration.
		preyNames := make([]string, 0, len(weights))
		for name := range weights {
			preyNames = append(preyNames, name)
		}
		sort.Strings(preyNames)

		type weightedPrey struct {
			pool   Pool
			scaled float64
		}
		weighted := make([]weightedPrey, 0, len(preyNames))
		total := 0.0
		for _, name := range preyNames {
			weight := weights[name]
			prey := lookup(name)
			if prey == nil || weight <= 0 {
				continue
			}
			availability := max(prey.Value(), 0)
			if availability <= 0 {
				continue
			}
			scaled := weight * availability
			weighted = append(weighted, weightedPrey{pool: prey, scaled: scaled})
			total += scaled
		}
		if total <= 0 {
			continue
		}

		ingestion := cons.ConsumptionRate() * max(predator.Value(), 0)
		if ingestion <= 0 {
			continue
		}

		assimilation := cons.AssimilationEfficiency()
		if assimilation <= 0 {
			assimilation = w.defaultAssimilation()
		}

		gain := 0.0
		for _, wp := range weighted {
			fraction := wp.scaled / total
			consumed := ingestion * fraction
			if stock := max(wp.pool.Value(), 0); consumed > stock {
				consumed = stock
			}
			if consumed <= 0 {
				continue
			}
			rates[wp.pool.Name()] -= consumed
			gain += consumed
		}
		if gain > 0 {
			rates[predator.Name()] += gain * assimilation
		}
	}
	return rates
}
