// Package optimizer formulates the integer allocation problem and delegates
// solving to a pluggable backend.
package optimizer

import (
	"context"
	"fmt"
)

// Status is the outcome of a solve attempt.
type Status int

const (
	StatusOptimal Status = iota
	StatusInfeasible
	StatusUnbounded
	StatusTimeout
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusTimeout:
		return "timeout"
	default:
		return "error"
	}
}

// Constraint is one linear constraint over the decision variables:
// Σ Coefficients·x (= | ≤) Bound, depending on which list it is in.
type Constraint struct {
	Name         string
	Coefficients []float64
	Bound        float64
}

// Problem is the solver-agnostic formulation: maximize Objective·x subject
// to the equality and inequality constraints, x integer ≥ 0.
type Problem struct {
	Objective    []float64
	Equalities   []Constraint
	Inequalities []Constraint
}

// Solution is what a backend returns. Values is only meaningful for
// StatusOptimal.
type Solution struct {
	Status    Status
	Values    []float64
	Objective float64
	Message   string
}

// Backend is the external integer-programming capability: any conforming
// solver may implement it. The context carries the run's time budget;
// backends must honor cancellation.
type Backend interface {
	Solve(ctx context.Context, p *Problem) (*Solution, error)
}

// SolveError is a SolverFailure for one run: infeasible, unbounded, timed
// out, or a solver-internal error. It is propagated unchanged and never
// converted into an empty-but-successful result.
type SolveError struct {
	Status  Status
	Message string
}

func (e *SolveError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("solver failure: %s", e.Status)
	}
	return fmt.Sprintf("solver failure: %s: %s", e.Status, e.Message)
}
