package scenario

import (
	"fmt"

	"github.com/limnetics/limnosim/internal/lake"
	"github.com/limnetics/limnosim/internal/sim"
)

var (
	temperatureModes = modeSet("constant", "series_exact", "series_interpolate", "mean_range")
	windModes        = modeSet("constant", "default_series", "time_varying")
	lightModes       = modeSet("constant", "mean_range", "time_varying")
	scalarModes      = modeSet("constant", "time_varying")
	variableKinds    = modeSet("nutrient", "detritus", "plant", "animal", "driver")
	prefSources      = modeSet("diet_percent", "observations", "diet_then_observations")
	knownRoles       = modeSet(
		string(sim.RoleTemperatureEpi), string(sim.RoleTemperatureHypo),
		string(sim.RoleWind), string(sim.RoleLight),
		string(sim.RolePH), string(sim.RoleTSS),
	)
)

func modeSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

func (sc *Scenario) validate() error {
	if sc.Run.Dt <= 0 {
		return fmt.Errorf("run.dt must be positive, got %g", sc.Run.Dt)
	}
	if sc.Run.Days <= 0 {
		return fmt.Errorf("run.days must be positive, got %g", sc.Run.Days)
	}

	if err := validateSamples("forcing.inflow", sc.Forcing.Inflow.Series); err != nil {
		return err
	}
	if err := validateSamples("forcing.outflow", sc.Forcing.Outflow.Series); err != nil {
		return err
	}
	if err := sc.validateTemperature(); err != nil {
		return err
	}
	if err := validateForcing("forcing.wind", sc.Forcing.Wind, windModes); err != nil {
		return err
	}
	if err := validateForcing("forcing.light", sc.Forcing.Light, lightModes); err != nil {
		return err
	}
	if err := validateForcing("forcing.ph", sc.Forcing.PH, scalarModes); err != nil {
		return err
	}
	if err := validateForcing("forcing.tss", sc.Forcing.TSS, scalarModes); err != nil {
		return err
	}

	if err := sc.validateVariables(); err != nil {
		return err
	}

	if sc.FoodWeb != nil {
		if src := sc.FoodWeb.PreferenceSource; src != "" && !prefSources[src] {
			return fmt.Errorf("foodweb.preference_source %q is not supported", src)
		}
		if sc.FoodWeb.InteractionsCSV != "" && len(sc.FoodWeb.Interactions) > 0 {
			return fmt.Errorf("foodweb: set interactions_csv or inline interactions, not both")
		}
		for i, in := range sc.FoodWeb.Interactions {
			if in.Predator == "" || in.Prey == "" {
				return fmt.Errorf("foodweb.interactions[%d]: predator and prey are required", i)
			}
		}
	}

	for role, name := range sc.Roles {
		if !knownRoles[role] {
			return fmt.Errorf("roles: unknown role %q", role)
		}
		if !sc.hasVariable(name) {
			return fmt.Errorf("roles.%s refers to unknown state variable %q", role, name)
		}
	}
	return nil
}

func (sc *Scenario) validateTemperature() error {
	spec := sc.Forcing.Temperature
	if spec.Mode == "" {
		return nil
	}
	if !temperatureModes[spec.Mode] {
		return fmt.Errorf("forcing.temperature: mode %q: %w", spec.Mode, lake.ErrUnknownMode)
	}
	switch spec.Mode {
	case "series_exact":
		if len(spec.EpiSeries) == 0 {
			return fmt.Errorf("forcing.temperature: series_exact without epi_series: %w", lake.ErrInvalidSeries)
		}
	case "series_interpolate":
		if len(spec.EpiSeries) == 0 && len(spec.HypoSeries) == 0 {
			return fmt.Errorf("forcing.temperature: series_interpolate without series: %w", lake.ErrInvalidSeries)
		}
	}
	if err := validateSamples("forcing.temperature.epi_series", spec.EpiSeries); err != nil {
		return err
	}
	return validateSamples("forcing.temperature.hypo_series", spec.HypoSeries)
}

func validateForcing(name string, spec ForcingSpec, allowed map[string]bool) error {
	if spec.Mode == "" {
		return nil
	}
	if !allowed[spec.Mode] {
		return fmt.Errorf("%s: mode %q: %w", name, spec.Mode, lake.ErrUnknownMode)
	}
	if spec.Mode == "time_varying" && len(spec.Series) == 0 {
		return fmt.Errorf("%s: time_varying without series: %w", name, lake.ErrInvalidSeries)
	}
	return validateSamples(name, spec.Series)
}

// validateSamples rejects duplicate timestamps; series carry unique keys
// by construction.
func validateSamples(name string, samples []Sample) error {
	seen := make(map[int64]bool, len(samples))
	for i, s := range samples {
		key := s.Date.UnixNano()
		if seen[key] {
			return fmt.Errorf("%s[%d]: duplicate timestamp %s: %w",
				name, i, s.Date.Format("2006-01-02"), lake.ErrInvalidSeries)
		}
		seen[key] = true
	}
	return nil
}

func (sc *Scenario) validateVariables() error {
	names := make(map[string]bool, len(sc.Variables))
	for i, v := range sc.Variables {
		if v.Name == "" {
			return fmt.Errorf("state_variables[%d]: name is required", i)
		}
		if names[v.Name] {
			return fmt.Errorf("state_variables[%d]: duplicate name %q", i, v.Name)
		}
		names[v.Name] = true
		if !variableKinds[v.Kind] {
			return fmt.Errorf("state_variables[%d] (%s): unknown kind %q", i, v.Name, v.Kind)
		}
		if v.Kind == "detritus" {
			if v.DetritusType != "labile" && v.DetritusType != "refractory" {
				return fmt.Errorf("state_variables[%d] (%s): detritus_type must be labile or refractory", i, v.Name)
			}
			if v.Layer != "water" && v.Layer != "sediment" {
				return fmt.Errorf("state_variables[%d] (%s): layer must be water or sediment", i, v.Name)
			}
		}
	}
	return nil
}

func (sc *Scenario) hasVariable(name string) bool {
	for _, v := range sc.Variables {
		if v.Name == name {
			return true
		}
	}
	return false
}
