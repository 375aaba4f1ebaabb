// Package lpsolver implements the optimizer.Backend capability on top of
// github.com/willauld/lpsimplex.
//
// The allocation polytope has one demand equality and at most one capacity
// inequality touching each variable, so its constraint matrix is totally
// unimodular and simplex vertices are integral. The backend still verifies
// integrality of the returned vertex and reports a solver error if the
// guarantee is violated.
package lpsolver

import (
	"context"
	"errors"
	"math"

	"github.com/willauld/lpsimplex"

	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/core/optimizer"
)

// lpsimplex status codes (scipy linprog convention).
const (
	lpOptimal        = 0
	lpIterationLimit = 1
	lpInfeasible     = 2
	lpUnbounded      = 3
)

const integralityTol = 1e-6

// Solver solves the allocation LP with the simplex method. The zero value
// is not usable; call New.
type Solver struct {
	MaxIterations int
	Tol           float64
}

// New returns a Solver with the default iteration budget and tolerance.
func New() *Solver {
	return &Solver{
		MaxIterations: 4000,
		Tol:           1e-12,
	}
}

// Solve implements optimizer.Backend. It honors context cancellation: the
// run's time budget expiring yields StatusTimeout, distinct from proven
// infeasibility.
func (s *Solver) Solve(ctx context.Context, p *optimizer.Problem) (*optimizer.Solution, error) {
	// A context that expired before the solve starts reports the same
	// status as one that expires mid-solve.
	if err := ctx.Err(); err != nil {
		return cancelSolution(err), nil
	}

	if len(p.Objective) == 0 {
		return &optimizer.Solution{Status: optimizer.StatusOptimal}, nil
	}

	// lpsimplex minimizes; negate to maximize.
	c := make([]float64, len(p.Objective))
	for i, v := range p.Objective {
		c[i] = -v
	}

	aub, bub := denseRows(p.Inequalities)
	aeq, beq := denseRows(p.Equalities)

	done := make(chan lpsimplex.OptResult, 1)
	go func() {
		callback := lpsimplex.Callbackfunc(nil)
		done <- lpsimplex.LPSimplex(c, aub, bub, aeq, beq, nil, callback, false, s.MaxIterations, s.Tol, false)
	}()

	var res lpsimplex.OptResult
	select {
	case res = <-done:
	case <-ctx.Done():
		return cancelSolution(ctx.Err()), nil
	}

	switch res.Status {
	case lpOptimal:
		// fall through to extraction
	case lpInfeasible:
		return &optimizer.Solution{Status: optimizer.StatusInfeasible, Message: res.Message}, nil
	case lpUnbounded:
		return &optimizer.Solution{Status: optimizer.StatusUnbounded, Message: res.Message}, nil
	case lpIterationLimit:
		return &optimizer.Solution{Status: optimizer.StatusError, Message: "iteration limit reached"}, nil
	default:
		return &optimizer.Solution{Status: optimizer.StatusError, Message: res.Message}, nil
	}

	values := make([]float64, len(res.X))
	objective := 0.0
	for i, x := range res.X {
		rounded := math.Round(x)
		if math.Abs(x-rounded) > integralityTol {
			return &optimizer.Solution{
				Status:  optimizer.StatusError,
				Message: "simplex vertex is not integral",
			}, nil
		}
		values[i] = rounded
		objective += p.Objective[i] * rounded
	}

	return &optimizer.Solution{
		Status:    optimizer.StatusOptimal,
		Values:    values,
		Objective: objective,
	}, nil
}

// cancelSolution maps a cancelled context to a solution status. An exceeded
// deadline is the run's time budget, a distinct outcome from infeasibility.
func cancelSolution(err error) *optimizer.Solution {
	if errors.Is(err, context.DeadlineExceeded) {
		return &optimizer.Solution{Status: optimizer.StatusTimeout, Message: "time budget exceeded"}
	}
	return &optimizer.Solution{Status: optimizer.StatusError, Message: err.Error()}
}

func denseRows(constraints []optimizer.Constraint) ([][]float64, []float64) {
	if len(constraints) == 0 {
		return nil, nil
	}
	a := make([][]float64, len(constraints))
	b := make([]float64, len(constraints))
	for i, con := range constraints {
		a[i] = con.Coefficients
		b[i] = con.Bound
	}
	return a, b
}
