package sim

import (
	"fmt"
	"strings"
	"time"

	"github.com/limnetics/limnosim/internal/foodweb"
	"github.com/limnetics/limnosim/internal/lake"
	"github.com/limnetics/limnosim/internal/state"
)

// Role names a forcing slot that a sentinel state variable can mirror.
type Role string

const (
	RoleTemperatureEpi  Role = "temperature_epi"
	RoleTemperatureHypo Role = "temperature_hypo"
	RoleWind            Role = "wind"
	RoleLight           Role = "light"
	RolePH              Role = "ph"
	RoleTSS             Role = "tss"
)

// RoleMap assigns forcing roles to state-variable names. The loader builds
// it once; an unassigned role falls back to a fuzzy lookup over driver
// variables using normalized name keywords.
type RoleMap map[Role]string

// roleKeywords drives the fuzzy fallback. A driver variable matches a role
// when its normalized name contains one of the keywords as a whole word.
var roleKeywords = map[Role][]string{
	RoleTemperatureEpi:  {"epilimnion"},
	RoleTemperatureHypo: {"hypolimnion"},
	RoleWind:            {"wind"},
	RoleLight:           {"light"},
	RolePH:              {"ph"},
	RoleTSS:             {"tss", "suspended"},
}

// sentinel locates the variable assigned to a role. Explicit role-map
// entries may address any variable by exact name; the fuzzy fallback is
// restricted to Driver variables so it can never clobber a simulated pool.
func (s *Simulation) sentinel(role Role) state.Var {
	if name, ok := s.Roles[role]; ok {
		for _, sv := range s.Vars {
			if sv.Name() == name {
				return sv
			}
		}
		return nil
	}
	for _, sv := range s.Vars {
		if _, ok := sv.(*state.Driver); !ok {
			continue
		}
		words := strings.Fields(foodweb.NormalizeName(sv.Name()))
		for _, keyword := range roleKeywords[role] {
			for _, w := range words {
				if w == keyword {
					return sv
				}
			}
		}
	}
	return nil
}

func (s *Simulation) setSentinel(role Role, value float64) {
	if sv := s.sentinel(role); sv != nil {
		sv.SetValue(value)
	}
}

// applyForcing resolves every configured forcing family for t and mirrors
// the values into the sentinel variables. A configured family that cannot
// produce a value is fatal; unconfigured families (zero-value mode) are
// skipped.
func (s *Simulation) applyForcing(t time.Time) error {
	if s.Env.Temperature.Mode != "" {
		pair, ok := s.Env.GetTemperaturePair(t)
		if !ok {
			return fmt.Errorf("temperature: %w", lake.ErrMissingForcing)
		}
		s.setSentinel(RoleTemperatureEpi, pair.Epilimnion)
		s.setSentinel(RoleTemperatureHypo, pair.Hypolimnion)
	}
	if s.Env.Wind.Mode != "" {
		v, err := s.Env.GetWind(t)
		if err != nil {
			return err
		}
		s.setSentinel(RoleWind, v)
	}
	if s.Env.Light.Mode != "" {
		v, err := s.Env.GetLight(t)
		if err != nil {
			return err
		}
		s.setSentinel(RoleLight, v)
	}
	if s.Env.PH.Mode != "" {
		v, err := s.Env.GetPH(t)
		if err != nil {
			return err
		}
		s.setSentinel(RolePH, v)
	}
	if s.Env.TSS.Mode != "" {
		v, err := s.Env.GetTSS(t)
		if err != nil {
			return err
		}
		s.setSentinel(RoleTSS, v)
	}
	return nil
}
