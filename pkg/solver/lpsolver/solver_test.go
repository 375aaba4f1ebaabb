package lpsolver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/core/optimizer"
)

// twoInstitutionProblem: 12 students, two institutions with capacities 10
// and 5, scores 0.8 and 0.5. The best plan fills the better institution
// first: 10 + 2.
func twoInstitutionProblem() *optimizer.Problem {
	return &optimizer.Problem{
		Objective: []float64{0.8, 0.5},
		Equalities: []optimizer.Constraint{
			{Name: "demand", Coefficients: []float64{1, 1}, Bound: 12},
		},
		Inequalities: []optimizer.Constraint{
			{Name: "cap_a", Coefficients: []float64{1, 0}, Bound: 10},
			{Name: "cap_b", Coefficients: []float64{0, 1}, Bound: 5},
		},
	}
}

func TestSolve_Optimal(t *testing.T) {
	sol, err := New().Solve(context.Background(), twoInstitutionProblem())
	require.NoError(t, err)

	require.Equal(t, optimizer.StatusOptimal, sol.Status)
	require.Len(t, sol.Values, 2)
	assert.InDelta(t, 10, sol.Values[0], 1e-9)
	assert.InDelta(t, 2, sol.Values[1], 1e-9)
	assert.InDelta(t, 0.8*10+0.5*2, sol.Objective, 1e-6)
}

func TestSolve_IntegralValues(t *testing.T) {
	sol, err := New().Solve(context.Background(), twoInstitutionProblem())
	require.NoError(t, err)
	require.Equal(t, optimizer.StatusOptimal, sol.Status)

	for i, v := range sol.Values {
		assert.Equal(t, float64(int(v)), v, "value %d must be integral", i)
	}
}

func TestSolve_Infeasible(t *testing.T) {
	// Demand 80 against 5x15 seats cannot be met
	p := &optimizer.Problem{
		Objective: []float64{0.8, 0.7, 0.6, 0.5, 0.4},
		Equalities: []optimizer.Constraint{
			{Name: "demand", Coefficients: []float64{1, 1, 1, 1, 1}, Bound: 80},
		},
	}
	for i := 0; i < 5; i++ {
		coeffs := make([]float64, 5)
		coeffs[i] = 1
		p.Inequalities = append(p.Inequalities, optimizer.Constraint{
			Name:         "cap",
			Coefficients: coeffs,
			Bound:        15,
		})
	}

	sol, err := New().Solve(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, optimizer.StatusInfeasible, sol.Status)
}

func TestSolve_Unbounded(t *testing.T) {
	p := &optimizer.Problem{Objective: []float64{1}}

	sol, err := New().Solve(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, optimizer.StatusUnbounded, sol.Status)
}

func TestSolve_TimeBudgetExceeded(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	sol, err := New().Solve(ctx, twoInstitutionProblem())
	require.NoError(t, err)

	assert.Equal(t, optimizer.StatusTimeout, sol.Status)
	assert.NotEqual(t, optimizer.StatusInfeasible, sol.Status)
	assert.Equal(t, "time budget exceeded", sol.Message)
}

func TestSolve_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sol, err := New().Solve(ctx, twoInstitutionProblem())
	require.NoError(t, err)

	assert.Equal(t, optimizer.StatusError, sol.Status)
}

func TestSolve_EmptyProblem(t *testing.T) {
	sol, err := New().Solve(context.Background(), &optimizer.Problem{})
	require.NoError(t, err)

	assert.Equal(t, optimizer.StatusOptimal, sol.Status)
	assert.Empty(t, sol.Values)
	assert.InDelta(t, 0, sol.Objective, 1e-9)
}
