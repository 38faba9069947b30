// Package sim orchestrates a run: each tick resolves forcing, writes the
// sentinel variables, integrates the compartments, balances the water
// volume, and appends a snapshot to the ordered output log.
package sim

import (
	"fmt"
	"time"

	"github.com/limnetics/limnosim/internal/lake"
	"github.com/limnetics/limnosim/internal/solver"
	"github.com/limnetics/limnosim/internal/state"
)

// Snapshot is one completed tick: the timestamp and every variable's
// post-step value.
type Snapshot struct {
	Time   time.Time
	Values map[string]float64
}

// RunError wraps a fatal condition with its position in the run.
type RunError struct {
	Step    int
	Time    time.Time
	Wrapped error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("step %d (t=%s): %v", e.Step, e.Time.Format("2006-01-02"), e.Wrapped)
}

func (e *RunError) Unwrap() error { return e.Wrapped }

// Simulation couples the environment, the state-variable collection, and
// the solver. It owns the only mutable run state: Environment.Volume, the
// variable values, and the append-only output log.
type Simulation struct {
	Env    *lake.Environment
	Vars   []state.Var
	Solver *solver.Integrator
	Roles  RoleMap

	outputs []Snapshot
	step    int
}

func New(env *lake.Environment, vars []state.Var, integ *solver.Integrator) *Simulation {
	return &Simulation{Env: env, Vars: vars, Solver: integ, Roles: RoleMap{}}
}

// StartTime infers the run start from the earliest inflow key, then the
// earliest outflow key, then the wall clock.
func (s *Simulation) StartTime() time.Time {
	if !s.Env.Inflow.Empty() {
		return s.Env.Inflow.First().Time
	}
	if !s.Env.Outflow.Empty() {
		return s.Env.Outflow.First().Time
	}
	return time.Now().UTC()
}

// Run advances the model from its inferred start until timeEnd, one dtDays
// step at a time. The first unrecoverable condition (missing forcing
// coverage, unsupported method) aborts the run and discards every snapshot
// recorded so far; a failed run yields no output at all.
func (s *Simulation) Run(timeEnd time.Time, dtDays float64) error {
	if dtDays <= 0 {
		return fmt.Errorf("dt must be positive, got %g days", dtDays)
	}
	if len(s.Vars) == 0 {
		return nil
	}
	t := s.StartTime()
	for t.Before(timeEnd) {
		next, err := s.Step(t, dtDays)
		if err != nil {
			s.outputs = nil
			return err
		}
		t = next
	}
	return nil
}

// Step executes a single tick at t and returns the advanced timestamp.
func (s *Simulation) Step(t time.Time, dtDays float64) (time.Time, error) {
	if err := s.applyForcing(t); err != nil {
		return t, &RunError{Step: s.step, Time: t, Wrapped: err}
	}
	if err := s.Solver.Integrate(s.Vars, s.Env, t, dtDays); err != nil {
		return t, &RunError{Step: s.step, Time: t, Wrapped: err}
	}

	inflow := s.Env.GetInflow(t)
	outflow := s.Env.GetOutflow(t)
	s.Env.Volume += (inflow - outflow - s.Env.Evaporation) * dtDays
	if s.Env.Volume < 0 {
		s.Env.Volume = 0
	}

	values := make(map[string]float64, len(s.Vars))
	for _, sv := range s.Vars {
		values[sv.Name()] = sv.Value()
	}
	s.outputs = append(s.outputs, Snapshot{Time: t, Values: values})
	s.step++

	return t.Add(time.Duration(dtDays * float64(24) * float64(time.Hour))), nil
}

// OutputResults returns the recorded snapshots in insertion order, one per
// completed tick.
func (s *Simulation) OutputResults() []Snapshot {
	out := make([]Snapshot, len(s.outputs))
	copy(out, s.outputs)
	return out
}

// VariableNames returns the state-variable names in collection order.
func (s *Simulation) VariableNames() []string {
	names := make([]string, len(s.Vars))
	for i, sv := range s.Vars {
		names[i] = sv.Name()
	}
	return names
}
