package scenario

import (
	"fmt"
	"path/filepath"

	"github.com/limnetics/limnosim/internal/foodweb"
	"github.com/limnetics/limnosim/internal/lake"
	"github.com/limnetics/limnosim/internal/series"
	"github.com/limnetics/limnosim/internal/sim"
	"github.com/limnetics/limnosim/internal/solver"
	"github.com/limnetics/limnosim/internal/state"
)

// Build materializes the scenario into a ready-to-run Simulation. baseDir
// anchors relative paths (the interactions CSV); pass the scenario file's
// directory.
func (sc *Scenario) Build(baseDir string) (*sim.Simulation, error) {
	env := &lake.Environment{
		Volume:      sc.Geometry.Volume,
		Area:        sc.Geometry.Area,
		DepthMean:   sc.Geometry.DepthMean,
		DepthMax:    sc.Geometry.DepthMax,
		Evaporation: sc.Geometry.Evaporation,
		Inflow:      buildSeries(sc.Forcing.Inflow.Series),
		Outflow:     buildSeries(sc.Forcing.Outflow.Series),
		Temperature: sc.buildTemperature(),
		Wind:        buildForcing(sc.Forcing.Wind),
		Light:       buildForcing(sc.Forcing.Light),
		PH:          buildForcing(sc.Forcing.PH),
		TSS:         buildForcing(sc.Forcing.TSS),
	}

	vars := make([]state.Var, 0, len(sc.Variables))
	for _, spec := range sc.Variables {
		sv, err := buildVariable(spec)
		if err != nil {
			return nil, err
		}
		vars = append(vars, sv)
	}

	if sc.FoodWeb != nil {
		web, err := sc.buildFoodWeb(baseDir)
		if err != nil {
			return nil, err
		}
		env.Web = web
	}

	s := sim.New(env, vars, solver.New(solver.Method(sc.Run.Method)))
	for role, name := range sc.Roles {
		s.Roles[sim.Role(role)] = name
	}
	return s, nil
}

func buildSeries(samples []Sample) *series.Series {
	pts := make([]series.Point, len(samples))
	for i, s := range samples {
		pts[i] = series.Point{Time: s.Date.Time, Value: s.Value}
	}
	return series.FromPoints(pts)
}

func buildForcing(spec ForcingSpec) lake.ForcingConfig {
	return lake.ForcingConfig{
		Mode:   lake.Mode(spec.Mode),
		Value:  spec.Value,
		Mean:   spec.Mean,
		Range:  spec.Range,
		Series: buildSeries(spec.Series),
	}
}

func (sc *Scenario) buildTemperature() lake.TemperatureConfig {
	spec := sc.Forcing.Temperature
	return lake.TemperatureConfig{
		Mode:       lake.Mode(spec.Mode),
		Epi:        spec.Epi,
		Hypo:       spec.Hypo,
		EpiMean:    spec.EpiMean,
		EpiRange:   spec.EpiRange,
		HypoMean:   spec.HypoMean,
		HypoRange:  spec.HypoRange,
		EpiSeries:  buildSeries(spec.EpiSeries),
		HypoSeries: buildSeries(spec.HypoSeries),
	}
}

func buildVariable(spec VariableSpec) (state.Var, error) {
	switch spec.Kind {
	case "nutrient":
		return state.NewNutrient(spec.Name, spec.Units, spec.Form, spec.Value), nil
	case "detritus":
		return state.NewDetritus(spec.Name, spec.Units,
			state.DetritusKind(spec.DetritusType), state.Layer(spec.Layer), spec.Value), nil
	case "plant":
		return state.NewPlant(state.PlantParams{
			Name:               spec.Name,
			Units:              spec.Units,
			Biomass:            spec.Biomass,
			MaxGrowth:          spec.MaxGrowth,
			MortalityRate:      spec.MortalityRate,
			NutrientUptakeRate: spec.NutrientUptakeRate,
		}), nil
	case "animal":
		return state.NewAnimal(state.AnimalParams{
			Name:          spec.Name,
			Units:         spec.Units,
			Biomass:       spec.Biomass,
			MaxGrowth:     spec.MaxGrowth,
			MortalityRate: spec.MortalityRate,
			FeedingPrefs:  spec.FeedingPrefs,
			Consumption:   spec.ConsumptionRate,
			Assimilation:  spec.Assimilation,
		}), nil
	case "driver":
		return state.NewDriver(spec.Name, spec.Units), nil
	default:
		return nil, fmt.Errorf("unknown state variable kind %q", spec.Kind)
	}
}

func (sc *Scenario) buildFoodWeb(baseDir string) (*foodweb.FoodWeb, error) {
	spec := sc.FoodWeb
	var interactions []foodweb.Interaction
	if spec.InteractionsCSV != "" {
		path := spec.InteractionsCSV
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		loaded, err := foodweb.LoadInteractionsCSV(path)
		if err != nil {
			return nil, err
		}
		interactions = loaded
	} else {
		for _, in := range spec.Interactions {
			interactions = append(interactions, foodweb.Interaction{
				Predator:      in.Predator,
				Prey:          in.Prey,
				Observations:  in.Observations,
				DietPercent:   in.DietPercent,
				EgestionCoeff: in.EgestionCoeff,
			})
		}
	}
	web := foodweb.New(interactions)
	if spec.DefaultAssimilation > 0 {
		web.Assimilation = spec.DefaultAssimilation
	}
	if spec.PreferenceSource != "" {
		web.Source = foodweb.PreferenceSource(spec.PreferenceSource)
	}
	return web, nil
}
