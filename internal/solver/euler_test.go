package solver

import (
	"errors"
	"testing"
	"time"

	"github.com/limnetics/limnosim/internal/foodweb"
	"github.com/limnetics/limnosim/internal/lake"
	"github.com/limnetics/limnosim/internal/state"
)

var t0 = time.Date(1992, time.January, 1, 0, 0, 0, 0, time.UTC)

// constantRateVar has a fixed derivative, independent of state.
type constantRateVar struct {
	name  string
	value float64
	c     float64
}

func (v *constantRateVar) Name() string        { return v.name }
func (v *constantRateVar) Units() string       { return "arb" }
func (v *constantRateVar) Value() float64      { return v.value }
func (v *constantRateVar) SetValue(x float64)  { v.value = x }
func (v *constantRateVar) Rate(time.Time, float64, *lake.Environment, []state.Var) float64 {
	return v.c
}

// mirrorRateVar's derivative is the current value of a named peer.
type mirrorRateVar struct {
	name   string
	value  float64
	source string
}

func (v *mirrorRateVar) Name() string       { return v.name }
func (v *mirrorRateVar) Units() string      { return "arb" }
func (v *mirrorRateVar) Value() float64     { return v.value }
func (v *mirrorRateVar) SetValue(x float64) { v.value = x }
func (v *mirrorRateVar) Rate(_ time.Time, _ float64, _ *lake.Environment, peers []state.Var) float64 {
	for _, p := range peers {
		if p.Name() == v.source {
			return p.Value()
		}
	}
	return 0
}

func TestEulerConstantRateStep(t *testing.T) {
	x := &constantRateVar{name: "X", c: 5.0}
	integ := New(Euler)
	if err := integ.Integrate([]state.Var{x}, &lake.Environment{}, t0, 1.0); err != nil {
		t.Fatal(err)
	}
	if x.value != 5.0 {
		t.Errorf("value = %v, want exactly 5.0", x.value)
	}
}

func TestEulerUsesPreStepStateOnly(t *testing.T) {
	a := &constantRateVar{name: "A", value: 0, c: 10}
	b := &mirrorRateVar{name: "B", value: 0, source: "A"}
	integ := New(Euler)
	if err := integ.Integrate([]state.Var{a, b}, &lake.Environment{}, t0, 1.0); err != nil {
		t.Fatal(err)
	}
	if a.value != 10 {
		t.Errorf("A = %v, want 10", a.value)
	}
	// B's rate reads A, which was 0 before the step; the mid-step A=10
	// must never be visible.
	if b.value != 0 {
		t.Errorf("B = %v, want 0 (saw mid-step peer update)", b.value)
	}
}

func TestUnsupportedMethodIsFatal(t *testing.T) {
	for _, method := range []Method{"rk4", "verlet", "implicit", ""} {
		integ := New(method)
		err := integ.Integrate([]state.Var{&constantRateVar{name: "X"}}, &lake.Environment{}, t0, 1.0)
		if !errors.Is(err, ErrUnsupportedMethod) {
			t.Errorf("method %q: err = %v, want ErrUnsupportedMethod", method, err)
		}
	}
}

func TestMethodNameIsCaseInsensitive(t *testing.T) {
	integ := New("Euler")
	if err := integ.Integrate([]state.Var{&constantRateVar{name: "X"}}, &lake.Environment{}, t0, 1.0); err != nil {
		t.Fatal(err)
	}
}

func TestIntegrateMergesFoodWebRates(t *testing.T) {
	diet := 1.0
	web := foodweb.New([]foodweb.Interaction{
		{Predator: "Daphnia", Prey: "Phytoplankton", DietPercent: &diet},
	})
	env := &lake.Environment{Web: web}

	plant := state.NewPlant(state.PlantParams{
		Name: "Phytoplankton", Units: "mg/L", Biomass: 10,
	})
	animal := state.NewAnimal(state.AnimalParams{
		Name: "Daphnia", Units: "mg/L", Biomass: 2, Consumption: 0.5,
	})

	integ := New(Euler)
	if err := integ.Integrate([]state.Var{plant, animal}, env, t0, 1.0); err != nil {
		t.Fatal(err)
	}

	// ingestion = 0.5 * 2 = 1; plant loses 1, animal gains 0.7 of it
	if plant.Value() != 9 {
		t.Errorf("plant = %v, want 9", plant.Value())
	}
	if animal.Value() != 2.7 {
		t.Errorf("animal = %v, want 2.7", animal.Value())
	}
}
