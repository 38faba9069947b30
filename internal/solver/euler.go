// Package solver advances the state-variable collection through time.
// Only the explicit first-order (forward Euler) scheme is implemented;
// requesting any other method fails at the first integration call.
package solver

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/limnetics/limnosim/internal/foodweb"
	"github.com/limnetics/limnosim/internal/lake"
	"github.com/limnetics/limnosim/internal/state"
)

// Method names an integration scheme.
type Method string

// Euler is the explicit first-order scheme, the only one supported.
const Euler Method = "euler"

// ErrUnsupportedMethod indicates a configured method other than Euler.
var ErrUnsupportedMethod = errors.New("solver: only the explicit euler method is implemented")

// Integrator applies one explicit step per call.
type Integrator struct {
	Method Method
}

func New(method Method) *Integrator {
	return &Integrator{Method: method}
}

// Integrate advances every variable by one explicit step.
//
// All rates are evaluated against the pre-step state first, the food web's
// per-name contributions are merged in (zero when absent), and only then
// are the updates applied. No variable ever sees a peer's mid-step value,
// so the apply order is immaterial and the step is deterministic.
func (in *Integrator) Integrate(vars []state.Var, env *lake.Environment, t time.Time, dtDays float64) error {
	if !strings.EqualFold(string(in.Method), string(Euler)) {
		return fmt.Errorf("method %q: %w", in.Method, ErrUnsupportedMethod)
	}

	rates := make([]float64, len(vars))
	for i, sv := range vars {
		rates[i] = sv.Rate(t, dtDays, env, vars)
	}

	if env != nil && env.Web != nil {
		pools := make([]foodweb.Pool, len(vars))
		for i, sv := range vars {
			pools[i] = sv
		}
		trophic := env.Web.ComputeRates(t, dtDays, pools)
		for i, sv := range vars {
			rates[i] += trophic[sv.Name()]
		}
	}

	for i, sv := range vars {
		sv.SetValue(sv.Value() + dtDays*rates[i])
	}
	return nil
}
