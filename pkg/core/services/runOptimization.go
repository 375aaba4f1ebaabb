package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/core/costs"
	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/core/loader"
	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/core/model"
	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/core/optimizer"
	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/core/scoring"
)

// RunParams selects what one optimization run operates on.
type RunParams struct {
	// WeightSet and Semester pick the active rows of the weight catalog.
	WeightSet string
	Semester  string

	// TotalStudents sizes the manual single-group demand used when no
	// demand rows match the run semester.
	TotalStudents int

	// Defaults fill blank capacity dimensions and shape the manual demand
	// group.
	Defaults model.RunDefaults
}

// Diagnostics carries per-run counters surfaced alongside the results.
type Diagnostics struct {
	Institutions         int
	Groups               int
	ActiveCriteria       int
	FeasiblePairs        int
	CostResolvedPairs    int
	PPERequiredFallbacks int
	TotalDemand          int
	TotalAssigned        int
	Gap                  int
	CoverageRate         float64
	UsedExampleCapacity  bool
	UsedExampleDemand    bool
}

// RunOptimizationResult contains the solved allocation and its summaries.
type RunOptimizationResult struct {
	RunID       string
	Status      optimizer.Status
	Objective   float64
	WeightSum   float64
	Allocations []model.Allocation
	Summaries   []model.GroupSummary
	Utilization []model.Utilization
	Diagnostics Diagnostics
}

// RunOptimization executes the full pipeline: weight validation, criteria
// normalization, cost resolution, value aggregation and the assignment
// solve. Configuration problems surface as model.ConfigError; solver
// outcomes other than optimal surface as *optimizer.SolveError.
func RunOptimization(
	ctx context.Context,
	ds *loader.Dataset,
	backend optimizer.Backend,
	params RunParams,
	logger *zap.Logger,
) (*RunOptimizationResult, error) {
	runID := uuid.New().String()
	logger.Info("Starting optimization run",
		zap.String("run_id", runID),
		zap.String("weight_set", params.WeightSet),
		zap.String("semester", params.Semester))

	// Step 1: Validate the selected weight set before any scoring
	weightSum, err := ds.ValidateWeights(params.WeightSet, params.Semester)
	if err != nil {
		return nil, err
	}
	rawWeights, _ := ds.WeightsFor(params.WeightSet, params.Semester)
	if len(rawWeights) == 0 {
		return nil, model.NewConfigError(
			"weight set %s has no active rows for semester %s", params.WeightSet, params.Semester)
	}
	weights := canonicalWeights(rawWeights)
	logger.Debug("Weight set validated",
		zap.Int("active_criteria", len(weights)),
		zap.Float64("sum", weightSum))

	diag := Diagnostics{
		Institutions:   len(ds.Institutions),
		ActiveCriteria: len(weights),
	}

	// Step 2: Capacity data, with the example fallback for an empty sheet
	capRecords := ds.Capacities
	if !ds.HasCapacityData() {
		logger.Warn("Capacity sheet has no usable rows - using example capacities")
		capRecords = loader.ExampleCapacities(params.Defaults)
		diag.UsedExampleCapacity = true
	}
	capacities := loader.BuildCapacityMap(capRecords, params.Defaults)

	// Step 3: Cost data, same fallback policy
	costRecords := ds.Costs
	if !ds.HasCostData() {
		logger.Warn("Cost sheet has no usable rows - using example costs")
		costRecords = loader.ExampleCosts(params.Defaults)
	}
	resolver := costs.NewResolver(costRecords)

	// Step 4: Demand groups for the run semester, manual single group otherwise
	groups := ds.DemandFor(params.Semester)
	if len(groups) == 0 {
		logger.Warn("No demand rows match the run semester - using manual demand",
			zap.String("semester", params.Semester),
			zap.Int("total_students", params.TotalStudents))
		groups = loader.ManualDemand(params.Defaults, params.TotalStudents)
		diag.UsedExampleDemand = true
	}
	diag.Groups = len(groups)
	for _, g := range groups {
		diag.TotalDemand += g.Count
	}

	// Step 5: Normalize criteria scores from the roster attributes
	scores := scoring.Normalize(ds)
	logger.Debug("Criteria normalized", zap.Int("scored_criteria", len(scores.Codes())))

	// Step 6: Aggregate weighted values over feasible pairs
	values, err := scoring.BuildValueMap(scoring.BuildInput{
		Institutions: ds.Institutions,
		Groups:       groups,
		Capacities:   capacities,
		Costs:        resolver,
		Scores:       scores,
		Weights:      weights,
	})
	if err != nil {
		return nil, err
	}
	diag.FeasiblePairs = values.FeasiblePairs
	diag.CostResolvedPairs = values.CostResolvedPairs
	diag.PPERequiredFallbacks = values.PPERequiredFallbacks
	logger.Debug("Value map built",
		zap.Int("feasible_pairs", values.FeasiblePairs),
		zap.Int("valued_pairs", len(values.Values)))

	// Step 7: Formulate and solve the assignment problem
	mdl := optimizer.Build(optimizer.BuildInput{
		Values:     values,
		Groups:     groups,
		Capacities: capacities,
		Semester:   params.Semester,
	})
	solved, err := mdl.Solve(ctx, backend, logger)
	if err != nil {
		return nil, fmt.Errorf("optimization run %s: %w", runID, err)
	}

	// Step 8: Join institution names and summarize
	allocations := withInstitutionNames(solved.Allocations, ds.Institutions)
	for _, a := range allocations {
		diag.TotalAssigned += a.Assigned
	}
	diag.Gap = diag.TotalDemand - diag.TotalAssigned
	if diag.TotalDemand > 0 {
		diag.CoverageRate = float64(diag.TotalAssigned) / float64(diag.TotalDemand)
	}

	result := &RunOptimizationResult{
		RunID:       runID,
		Status:      solved.Status,
		Objective:   solved.Objective,
		WeightSum:   weightSum,
		Allocations: allocations,
		Summaries:   buildGroupSummaries(groups, allocations),
		Utilization: buildUtilization(ds.Institutions, capRecords, allocations, params.Semester),
		Diagnostics: diag,
	}

	logger.Info("Optimization run complete",
		zap.String("run_id", runID),
		zap.Float64("objective", result.Objective),
		zap.Int("assigned", diag.TotalAssigned),
		zap.Int("demand", diag.TotalDemand))

	return result, nil
}

// canonicalWeights reindexes the catalog weights by canonical criterion code
// so annotated codes in the sheet still bind to their score sources.
func canonicalWeights(raw map[string]float64) map[string]float64 {
	weights := make(map[string]float64, len(raw))
	for code, w := range raw {
		weights[scoring.CanonicalCode(code)] += w
	}
	return weights
}
