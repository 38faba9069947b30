// Package foodweb models predator-prey interactions and derives
// mass-conserving biomass transfer rates from them.
//
// The web is built once from an ordered interaction list and indexed by
// predator name twice: verbatim, and under a punctuation/case-insensitive
// normalized form that tolerates naming drift between the interaction
// source and the state-variable collection.
package foodweb

import (
	"regexp"
	"strings"
)

// PreferenceSource selects which interaction field seeds prey weights when
// a predator carries no explicit feeding preferences.
type PreferenceSource string

const (
	// PreferDietPercent uses recorded diet percentages only.
	PreferDietPercent PreferenceSource = "diet_percent"
	// PreferObservations uses raw observation counts.
	PreferObservations PreferenceSource = "observations"
	// PreferDietThenObservations uses the diet percentage when recorded
	// and falls back to the observation count otherwise.
	PreferDietThenObservations PreferenceSource = "diet_then_observations"
)

// DefaultAssimilation is the assimilation efficiency applied to predators
// that do not declare their own.
const DefaultAssimilation = 0.7

// Interaction is one predator-prey record. DietPercent and EgestionCoeff
// are nil when the source data left them unrecorded.
type Interaction struct {
	Predator      string
	Prey          string
	Observations  int
	DietPercent   *float64
	EgestionCoeff *float64
}

// FoodWeb holds the interaction list and its derived predator indexes.
// The indexes are built at construction and never mutated afterwards.
type FoodWeb struct {
	// Assimilation replaces DefaultAssimilation when positive.
	Assimilation float64
	// Source selects the weight derivation; zero value means
	// PreferDietPercent.
	Source PreferenceSource

	interactions  []Interaction
	byPredator    map[string][]Interaction
	byNorm        map[string][]Interaction
	predatorOrder []string
}

// New builds a web over the given interactions.
func New(interactions []Interaction) *FoodWeb {
	w := &FoodWeb{
		Assimilation: DefaultAssimilation,
		Source:       PreferDietPercent,
		interactions: append([]Interaction(nil), interactions...),
		byPredator:   make(map[string][]Interaction),
		byNorm:       make(map[string][]Interaction),
	}
	for _, in := range w.interactions {
		if _, seen := w.byPredator[in.Predator]; !seen {
			w.predatorOrder = append(w.predatorOrder, in.Predator)
		}
		w.byPredator[in.Predator] = append(w.byPredator[in.Predator], in)
		norm := NormalizeName(in.Predator)
		w.byNorm[norm] = append(w.byNorm[norm], in)
	}
	return w
}

// Interactions returns a copy of the interaction list in source order.
func (w *FoodWeb) Interactions() []Interaction {
	return append([]Interaction(nil), w.interactions...)
}

func (w *FoodWeb) defaultAssimilation() float64 {
	if w.Assimilation > 0 {
		return w.Assimilation
	}
	return DefaultAssimilation
}

// interactionsFor looks a predator up verbatim first, then under its
// normalized name.
func (w *FoodWeb) interactionsFor(predator string) []Interaction {
	if ins, ok := w.byPredator[predator]; ok {
		return ins
	}
	return w.byNorm[NormalizeName(predator)]
}

// weights derives prey weights for one predator. Explicit feeding
// preferences win outright; otherwise the configured preference source
// extracts weights from the interaction records.
func (w *FoodWeb) weights(prefs map[string]float64, interactions []Interaction) map[string]float64 {
	if len(prefs) > 0 {
		out := make(map[string]float64, len(prefs))
		for prey, weight := range prefs {
			out[prey] = weight
		}
		return out
	}
	out := make(map[string]float64)
	for _, in := range interactions {
		switch w.Source {
		case PreferObservations:
			out[in.Prey] = float64(in.Observations)
		case PreferDietPercent, "":
			if in.DietPercent != nil {
				out[in.Prey] = *in.DietPercent
			}
		default:
			if in.DietPercent != nil {
				out[in.Prey] = *in.DietPercent
			} else {
				out[in.Prey] = float64(in.Observations)
			}
		}
	}
	return out
}

var (
	parensRe   = regexp.MustCompile(`[()]`)
	nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)
)

// NormalizeName lowercases a name, strips parentheses and collapses every
// non-alphanumeric run to a single space, so "Daphnia (adult)" and
// "daphnia adult" index identically.
func NormalizeName(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	lowered = parensRe.ReplaceAllString(lowered, "")
	lowered = nonAlnumRe.ReplaceAllString(lowered, " ")
	return strings.TrimSpace(lowered)
}
