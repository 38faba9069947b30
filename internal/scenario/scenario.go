// Package scenario loads run definitions from YAML and hands the core a
// fully validated Environment, state-variable collection, and food web.
// All validation happens here; the core never prompts, defaults, or
// degrades around malformed input.
package scenario

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Date is a YAML-friendly timestamp accepting "2006-01-02" or RFC 3339.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fmt.Errorf("invalid date %q (want YYYY-MM-DD or RFC 3339)", raw)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalYAML() (interface{}, error) {
	return d.Format("2006-01-02"), nil
}

// Sample is one timestamped series entry.
type Sample struct {
	Date  Date    `yaml:"date"`
	Value float64 `yaml:"value"`
}

// ForcingSpec configures one scalar forcing family. Field relevance
// follows the mode, mirroring lake.ForcingConfig.
type ForcingSpec struct {
	Mode   string   `yaml:"mode"`
	Value  float64  `yaml:"value"`
	Mean   float64  `yaml:"mean"`
	Range  float64  `yaml:"range"`
	Series []Sample `yaml:"series"`
}

// TemperatureSpec configures the paired epilimnion/hypolimnion forcing.
type TemperatureSpec struct {
	Mode       string   `yaml:"mode"`
	Epi        float64  `yaml:"epi"`
	Hypo       float64  `yaml:"hypo"`
	EpiMean    float64  `yaml:"epi_mean"`
	EpiRange   float64  `yaml:"epi_range"`
	HypoMean   float64  `yaml:"hypo_mean"`
	HypoRange  float64  `yaml:"hypo_range"`
	EpiSeries  []Sample `yaml:"epi_series"`
	HypoSeries []Sample `yaml:"hypo_series"`
}

// GeometrySpec is the basin geometry.
type GeometrySpec struct {
	Volume      float64 `yaml:"volume"`
	Area        float64 `yaml:"area"`
	DepthMean   float64 `yaml:"depth_mean"`
	DepthMax    float64 `yaml:"depth_max"`
	Evaporation float64 `yaml:"evaporation"`
}

// VariableSpec declares one state variable. Kind selects the variant and
// which remaining fields apply.
type VariableSpec struct {
	Name  string  `yaml:"name"`
	Kind  string  `yaml:"kind"`
	Units string  `yaml:"units"`
	Value float64 `yaml:"value"`

	Form string `yaml:"form"` // nutrient

	DetritusType string `yaml:"detritus_type"` // detritus
	Layer        string `yaml:"layer"`

	Biomass            float64            `yaml:"biomass"` // plant, animal
	MaxGrowth          float64            `yaml:"max_growth"`
	MortalityRate      float64            `yaml:"mortality_rate"`
	NutrientUptakeRate float64            `yaml:"nutrient_uptake_rate"` // plant
	FeedingPrefs       map[string]float64 `yaml:"feeding_prefs"`        // animal
	ConsumptionRate    float64            `yaml:"consumption_rate"`
	Assimilation       float64            `yaml:"assimilation"`
}

// InteractionSpec is one inline predator-prey record.
type InteractionSpec struct {
	Predator      string   `yaml:"predator"`
	Prey          string   `yaml:"prey"`
	Observations  int      `yaml:"observations"`
	DietPercent   *float64 `yaml:"diet_percent"`
	EgestionCoeff *float64 `yaml:"egestion_coeff"`
}

// FoodWebSpec configures the trophic network, either inline or from a CSV
// file resolved relative to the scenario file.
type FoodWebSpec struct {
	DefaultAssimilation float64           `yaml:"default_assimilation"`
	PreferenceSource    string            `yaml:"preference_source"`
	InteractionsCSV     string            `yaml:"interactions_csv"`
	Interactions        []InteractionSpec `yaml:"interactions"`
}

// RunSpec carries the solver settings and run window.
type RunSpec struct {
	Method string  `yaml:"method"`
	Days   float64 `yaml:"days"`
	Dt     float64 `yaml:"dt"`
}

// ForcingSection groups the per-family forcing specs.
type ForcingSection struct {
	Inflow      ForcingSpec     `yaml:"inflow"`
	Outflow     ForcingSpec     `yaml:"outflow"`
	Temperature TemperatureSpec `yaml:"temperature"`
	Wind        ForcingSpec     `yaml:"wind"`
	Light       ForcingSpec     `yaml:"light"`
	PH          ForcingSpec     `yaml:"ph"`
	TSS         ForcingSpec     `yaml:"tss"`
}

// Scenario is a complete run definition.
type Scenario struct {
	Name      string            `yaml:"name"`
	Geometry  GeometrySpec      `yaml:"geometry"`
	Forcing   ForcingSection    `yaml:"forcing"`
	Variables []VariableSpec    `yaml:"state_variables"`
	Roles     map[string]string `yaml:"roles"`
	FoodWeb   *FoodWebSpec      `yaml:"foodweb"`
	Run       RunSpec           `yaml:"run"`
}

// DefaultRun returns the run settings applied when the scenario leaves
// them out.
func DefaultRun() RunSpec {
	return RunSpec{Method: "euler", Days: 365, Dt: 1.0}
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc := &Scenario{Run: DefaultRun()}
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	if sc.Run.Method == "" {
		sc.Run.Method = "euler"
	}
	if err := sc.validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return sc, nil
}

// Save writes the scenario back out, for fixture round-trips.
func Save(path string, sc *Scenario) error {
	data, err := yaml.Marshal(sc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
