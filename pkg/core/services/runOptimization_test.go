package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/core/loader"
	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/core/model"
	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/core/optimizer"
	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/solver/lpsolver"
)

func testParams() RunParams {
	return RunParams{
		WeightSet:     "S1",
		Semester:      "2025-1",
		TotalStudents: 12,
		Defaults: model.RunDefaults{
			Program:      "Enfermería",
			StudentType:  "Pregrado",
			PracticeType: "Rotación pregrado",
			Semester:     "2025-1",
		},
	}
}

// testDataset carries two institutions with capacity and costs, one demand
// group and a weight set mixing a quality criterion with cost criteria.
func testDataset() *loader.Dataset {
	ppe := 0.5
	return &loader.Dataset{
		Institutions: []model.Institution{
			{ID: "100", Name: "Hospital Central"},
			{ID: "200", Name: "Clinica Norte"},
		},
		Attributes: map[string]map[string]string{
			"100": {"Areas_Bienestar (0/1)": "1"},
			"200": {"Areas_Bienestar (0/1)": "0"},
		},
		Columns: map[string]bool{"Areas_Bienestar (0/1)": true},
		Capacities: []model.CapacityRecord{
			{Institution: "100", Program: "Enfermería", StudentType: "Pregrado", Semester: "2025-1", Capacity: 10, SourceRow: 0},
			{Institution: "200", Program: "Enfermería", StudentType: "Pregrado", Semester: "2025-1", Capacity: 5, SourceRow: 1},
		},
		Costs: []model.CostRecord{
			{Institution: "100", Program: "Enfermería", StudentType: "Pregrado", PracticeType: "Rotación pregrado", Semester: "2025-1", ContributionPct: 40, PPERequired: &ppe, SourceRow: 0},
			{Institution: "200", Program: "Enfermería", StudentType: "Pregrado", PracticeType: "Rotación pregrado", Semester: "2025-1", ContributionPct: 20, PPECharge: true, SourceRow: 1},
		},
		Weights: []model.WeightRow{
			{SetID: "S1", Criterion: "Areas_Bienestar (0/1)", Weight: 0.5, Active: true, Type: model.TypeBenefit, Semester: "2025-1", SourceRow: 0},
			{SetID: "S1", Criterion: "%_Contraprestacion_Matricula (0-100)", Weight: 0.3, Active: true, Type: model.TypeCost, Semester: "2025-1", SourceRow: 1},
			{SetID: "S1", Criterion: "EPP_Exigidos (No exige/Parcial/Completo)", Weight: 0.2, Active: true, Type: model.TypeCost, Semester: "2025-1", SourceRow: 2},
		},
		Demand: []model.DemandGroup{
			{GroupKey: model.GroupKey{Program: "Enfermería", StudentType: "Pregrado", PracticeType: "Rotación pregrado", Semester: "2025-1"}, Count: 12},
		},
	}
}

func TestRunOptimization(t *testing.T) {
	result, err := RunOptimization(context.Background(), testDataset(), lpsolver.New(), testParams(), zap.NewNop())
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, optimizer.StatusOptimal, result.Status)
	assert.InDelta(t, 1.0, result.WeightSum, 1e-9)

	// 100 scores 0.5*1 + 0.3*0.6 + 0.2*0.5 = 0.78
	// 200 scores 0.5*0 + 0.3*0.8 + 0.2*0.0 = 0.24
	// so demand 12 fills 100 first: 10 + 2
	require.Len(t, result.Allocations, 2)
	assert.Equal(t, "100", result.Allocations[0].InstitutionID)
	assert.Equal(t, "Hospital Central", result.Allocations[0].InstitutionName)
	assert.Equal(t, 10, result.Allocations[0].Assigned)
	assert.InDelta(t, 0.78, result.Allocations[0].UnitScore, 1e-9)
	assert.Equal(t, 2, result.Allocations[1].Assigned)
	assert.InDelta(t, 10*0.78+2*0.24, result.Objective, 1e-6)

	d := result.Diagnostics
	assert.Equal(t, 2, d.Institutions)
	assert.Equal(t, 1, d.Groups)
	assert.Equal(t, 3, d.ActiveCriteria)
	assert.Equal(t, 2, d.FeasiblePairs)
	assert.Equal(t, 12, d.TotalDemand)
	assert.Equal(t, 12, d.TotalAssigned)
	assert.Equal(t, 0, d.Gap)
	assert.InDelta(t, 1.0, d.CoverageRate, 1e-9)
	assert.False(t, d.UsedExampleCapacity)
	assert.False(t, d.UsedExampleDemand)

	require.Len(t, result.Summaries, 1)
	assert.Equal(t, 12, result.Summaries[0].Assigned)
	assert.Equal(t, 0, result.Summaries[0].Gap)

	require.Len(t, result.Utilization, 2)
	assert.Equal(t, "100", result.Utilization[0].InstitutionID)
	assert.Equal(t, 10, result.Utilization[0].Assigned)
	assert.InDelta(t, 100.0, result.Utilization[0].UtilizationPct, 1e-9)
	assert.InDelta(t, 40.0, result.Utilization[1].UtilizationPct, 1e-9)
}

func TestRunOptimization_UnitScoreConsistency(t *testing.T) {
	result, err := RunOptimization(context.Background(), testDataset(), lpsolver.New(), testParams(), zap.NewNop())
	require.NoError(t, err)

	total := 0.0
	for _, a := range result.Allocations {
		total += float64(a.Assigned) * a.UnitScore
	}
	assert.InDelta(t, result.Objective, total, 1e-6)
}

func TestRunOptimization_Deterministic(t *testing.T) {
	first, err := RunOptimization(context.Background(), testDataset(), lpsolver.New(), testParams(), zap.NewNop())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		again, err := RunOptimization(context.Background(), testDataset(), lpsolver.New(), testParams(), zap.NewNop())
		require.NoError(t, err)
		assert.InDelta(t, first.Objective, again.Objective, 1e-9)
		assert.Equal(t, first.Allocations[0].InstitutionID, again.Allocations[0].InstitutionID)
	}
}

func TestRunOptimization_InvalidWeightSum(t *testing.T) {
	ds := testDataset()
	ds.Weights[0].Weight = 0.2

	_, err := RunOptimization(context.Background(), ds, lpsolver.New(), testParams(), zap.NewNop())
	require.Error(t, err)
	assert.True(t, model.IsConfigError(err))
}

func TestRunOptimization_UnknownWeightSet(t *testing.T) {
	_, err := RunOptimization(context.Background(), testDataset(), lpsolver.New(), RunParams{
		WeightSet:     "S9",
		Semester:      "2025-1",
		TotalStudents: 12,
		Defaults:      testParams().Defaults,
	}, zap.NewNop())

	require.Error(t, err)
	assert.True(t, model.IsConfigError(err))
}

func TestRunOptimization_InfeasibleDemand(t *testing.T) {
	ds := testDataset()
	ds.Demand[0].Count = 80

	_, err := RunOptimization(context.Background(), ds, lpsolver.New(), testParams(), zap.NewNop())
	require.Error(t, err)

	var solveErr *optimizer.SolveError
	require.True(t, errors.As(err, &solveErr))
	assert.Equal(t, optimizer.StatusInfeasible, solveErr.Status)
}

func TestRunOptimization_ExampleFallbacks(t *testing.T) {
	ds := testDataset()
	for i := range ds.Capacities {
		ds.Capacities[i].Capacity = 0
	}
	ds.Costs = nil
	ds.Demand = nil
	ds.DemandAbsent = true

	// The example capacities cover the example institutions, which are not
	// in this roster, so no feasible pair exists and the unmet demand
	// surfaces as a full-gap result rather than fabricated assignments.
	result, err := RunOptimization(context.Background(), ds, lpsolver.New(), testParams(), zap.NewNop())
	require.NoError(t, err)

	d := result.Diagnostics
	assert.True(t, d.UsedExampleCapacity)
	assert.True(t, d.UsedExampleDemand)
	assert.Equal(t, 0, d.FeasiblePairs)
	assert.Empty(t, result.Allocations)
	assert.Equal(t, 12, d.TotalDemand)
	assert.Equal(t, 0, d.TotalAssigned)
	assert.Equal(t, 12, d.Gap)
	assert.InDelta(t, 0.0, d.CoverageRate, 1e-9)
}

func TestRunOptimization_ManualDemandFallback(t *testing.T) {
	ds := testDataset()
	ds.Demand = nil
	ds.DemandAbsent = true

	result, err := RunOptimization(context.Background(), ds, lpsolver.New(), testParams(), zap.NewNop())
	require.NoError(t, err)

	assert.True(t, result.Diagnostics.UsedExampleDemand)
	assert.Equal(t, 12, result.Diagnostics.TotalDemand)
	assert.Equal(t, 12, result.Diagnostics.TotalAssigned)
}
