// Package state defines the mass/concentration compartments advanced by
// the solver: dissolved nutrients, detritus pools, and living biota.
//
// The set of variants is closed. Every variant satisfies [Var]; living
// compartments additionally satisfy the foodweb interfaces so the trophic
// engine can read their biomass and feeding parameters.
package state

import (
	"time"

	"github.com/limnetics/limnosim/internal/foodweb"
	"github.com/limnetics/limnosim/internal/lake"
)

// Var is a single simulated compartment. Rate reports the derivative
// dValue/dt (per day) from the pre-step state; it must not mutate the
// receiver or its peers.
type Var interface {
	Name() string
	Units() string
	Value() float64
	SetValue(float64)
	Rate(t time.Time, dt float64, env *lake.Environment, peers []Var) float64
}

// base carries the identity shared by the non-living variants.
type base struct {
	name  string
	units string
	value float64
}

func (b *base) Name() string       { return b.name }
func (b *base) Units() string      { return b.units }
func (b *base) Value() float64     { return b.value }
func (b *base) SetValue(v float64) { b.value = v }

// Nutrient is a dissolved nutrient pool (NH4, NO3, PO4, O2, CO2, ...).
// It is chemically inert at this stage: external loading and uptake
// coupling arrive with later process modules.
type Nutrient struct {
	base
	Form string
}

func NewNutrient(name, units, form string, value float64) *Nutrient {
	return &Nutrient{base: base{name: name, units: units, value: value}, Form: form}
}

func (n *Nutrient) Rate(time.Time, float64, *lake.Environment, []Var) float64 { return 0 }

// DetritusKind distinguishes fast- and slow-decaying organic matter.
type DetritusKind string

const (
	Labile     DetritusKind = "labile"
	Refractory DetritusKind = "refractory"
)

// Layer locates a detritus pool in the water column or the sediment.
type Layer string

const (
	WaterColumn Layer = "water"
	Sediment    Layer = "sediment"
)

// Detritus is a dead organic matter pool. Decay and settling are not
// modeled yet; the pool only moves through trophic consumption.
type Detritus struct {
	base
	Kind  DetritusKind
	Layer Layer
}

func NewDetritus(name, units string, kind DetritusKind, layer Layer, value float64) *Detritus {
	return &Detritus{base: base{name: name, units: units, value: value}, Kind: kind, Layer: layer}
}

func (d *Detritus) Rate(time.Time, float64, *lake.Environment, []Var) float64 { return 0 }

// Driver is a sentinel compartment that mirrors a resolved forcing value
// so it appears in snapshots alongside the simulated pools. The run loop
// overwrites its value each tick; it contributes no rate of its own.
type Driver struct {
	base
}

func NewDriver(name, units string) *Driver {
	return &Driver{base: base{name: name, units: units}}
}

func (d *Driver) Rate(time.Time, float64, *lake.Environment, []Var) float64 { return 0 }

var (
	_ Var          = (*Nutrient)(nil)
	_ Var          = (*Detritus)(nil)
	_ Var          = (*Driver)(nil)
	_ foodweb.Pool = (*Nutrient)(nil)
	_ foodweb.Pool = (*Detritus)(nil)
)
