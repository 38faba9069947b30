package state

import (
	"time"

	"github.com/limnetics/limnosim/internal/foodweb"
	"github.com/limnetics/limnosim/internal/lake"
)

// biota is the common core of the living compartments. Value and biomass
// are the same number: the invariant is structural, a single field read
// through both accessors, so no mutation can drive them apart.
type biota struct {
	name    string
	units   string
	biomass float64

	MaxGrowth     float64 // per day
	MortalityRate float64 // per day
}

func (b *biota) Name() string       { return b.name }
func (b *biota) Units() string      { return b.units }
func (b *biota) Value() float64     { return b.biomass }
func (b *biota) SetValue(v float64) { b.biomass = v }
func (b *biota) Biomass() float64   { return b.biomass }

// Rate is the net of first-order growth and mortality. Trophic gains and
// losses are contributed separately by the food web.
func (b *biota) Rate(t time.Time, dt float64, env *lake.Environment, peers []Var) float64 {
	return b.MaxGrowth*b.biomass - b.MortalityRate*b.biomass
}

// Plant is a primary producer.
type Plant struct {
	biota
	// NutrientUptakeRate parameterizes the nutrient coupling of later
	// process modules; it does not enter the rate yet.
	NutrientUptakeRate float64
}

// PlantParams configures a Plant.
type PlantParams struct {
	Name               string
	Units              string
	Biomass            float64
	MaxGrowth          float64
	MortalityRate      float64
	NutrientUptakeRate float64
}

func NewPlant(p PlantParams) *Plant {
	return &Plant{
		biota: biota{
			name:          p.Name,
			units:         p.Units,
			biomass:       p.Biomass,
			MaxGrowth:     p.MaxGrowth,
			MortalityRate: p.MortalityRate,
		},
		NutrientUptakeRate: p.NutrientUptakeRate,
	}
}

// Animal is a consumer. Its feeding preferences and consumption rate feed
// the trophic engine; its own Rate covers only growth and mortality.
type Animal struct {
	biota
	feedingPrefs map[string]float64
	consumption  float64
	assimilation float64
}

// AnimalParams configures an Animal. Assimilation <= 0 defers to the food
// web default efficiency.
type AnimalParams struct {
	Name          string
	Units         string
	Biomass       float64
	MaxGrowth     float64
	MortalityRate float64
	FeedingPrefs  map[string]float64
	Consumption   float64
	Assimilation  float64
}

func NewAnimal(p AnimalParams) *Animal {
	prefs := make(map[string]float64, len(p.FeedingPrefs))
	for prey, weight := range p.FeedingPrefs {
		prefs[prey] = weight
	}
	return &Animal{
		biota: biota{
			name:          p.Name,
			units:         p.Units,
			biomass:       p.Biomass,
			MaxGrowth:     p.MaxGrowth,
			MortalityRate: p.MortalityRate,
		},
		feedingPrefs: prefs,
		consumption:  p.Consumption,
		assimilation: p.Assimilation,
	}
}

func (a *Animal) FeedingPrefs() map[string]float64 { return a.feedingPrefs }
func (a *Animal) ConsumptionRate() float64         { return a.consumption }
func (a *Animal) AssimilationEfficiency() float64  { return a.assimilation }

var (
	_ Var              = (*Plant)(nil)
	_ Var              = (*Animal)(nil)
	_ foodweb.Biota    = (*Plant)(nil)
	_ foodweb.Consumer = (*Animal)(nil)
)
