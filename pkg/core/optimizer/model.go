package optimizer

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/core/model"
	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/core/scoring"
)

// Variable is one integer decision: how many students of a group go to an
// institution. Variables exist only for pairs with a defined value.
type Variable struct {
	Institution string
	Group       model.GroupKey
	Score       float64
}

// Model is a built formulation ready to solve.
type Model struct {
	Variables []Variable
	Problem   *Problem
}

// BuildInput collects the formulation inputs for one run.
type BuildInput struct {
	Values     *scoring.ValueMap
	Groups     []model.DemandGroup
	Capacities map[model.CapacityKey]int
	Semester   string
}

// Result is a solved-optimal outcome: the objective value plus the nonzero
// allocations, sorted by (program, student type, practice type, institution).
type Result struct {
	Status      Status
	Objective   float64
	Allocations []model.Allocation
}

// Build creates decision variables for every valued pair and formulates the
// demand-equality and capacity-inequality constraints. Variables are ordered
// deterministically so identical inputs produce identical problems.
func Build(in BuildInput) *Model {
	m := &Model{Problem: &Problem{}}

	// One variable per valued pair; pairs with zero capacity never reached
	// the value map, so no variable can exist for them.
	pairs := make([]scoring.Pair, 0, len(in.Values.Values))
	for p := range in.Values.Values {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		a, b := pairs[i], pairs[j]
		if a.Group != b.Group {
			return lessGroup(a.Group, b.Group)
		}
		return a.Institution < b.Institution
	})

	varIndex := make(map[scoring.Pair]int, len(pairs))
	for i, p := range pairs {
		m.Variables = append(m.Variables, Variable{
			Institution: p.Institution,
			Group:       p.Group,
			Score:       in.Values.Values[p],
		})
		m.Problem.Objective = append(m.Problem.Objective, in.Values.Values[p])
		varIndex[p] = i
	}

	// Demand constraints: strict equality per group that has any variable.
	// Under-supply must surface as infeasibility, never a silent shortfall.
	for _, g := range in.Groups {
		coeffs := make([]float64, len(m.Variables))
		any := false
		for i, v := range m.Variables {
			if v.Group == g.GroupKey {
				coeffs[i] = 1
				any = true
			}
		}
		if !any {
			continue
		}
		m.Problem.Equalities = append(m.Problem.Equalities, Constraint{
			Name:         fmt.Sprintf("demand_%s_%s_%s_%s", g.Program, g.StudentType, g.PracticeType, g.Semester),
			Coefficients: coeffs,
			Bound:        float64(g.Count),
		})
	}

	// Capacity constraints: one per capacity key in the run semester that
	// covers at least one variable.
	capKeys := make([]model.CapacityKey, 0, len(in.Capacities))
	for k := range in.Capacities {
		capKeys = append(capKeys, k)
	}
	sort.Slice(capKeys, func(i, j int) bool { return lessCapKey(capKeys[i], capKeys[j]) })

	for _, k := range capKeys {
		if k.Semester != in.Semester {
			continue
		}
		coeffs := make([]float64, len(m.Variables))
		any := false
		for i, v := range m.Variables {
			if v.Institution == k.Institution &&
				v.Group.Program == k.Program &&
				v.Group.StudentType == k.StudentType &&
				v.Group.Semester == k.Semester {
				coeffs[i] = 1
				any = true
			}
		}
		if !any {
			continue
		}
		m.Problem.Inequalities = append(m.Problem.Inequalities, Constraint{
			Name:         fmt.Sprintf("cap_%s_%s_%s_%s", k.Institution, k.Program, k.StudentType, k.Semester),
			Coefficients: coeffs,
			Bound:        float64(in.Capacities[k]),
		})
	}

	return m
}

// Solve delegates to the backend and extracts the nonzero allocations.
// Non-optimal statuses are returned as a SolveError, preserving the status.
func (m *Model) Solve(ctx context.Context, backend Backend, logger *zap.Logger) (*Result, error) {
	logger.Debug("Solving allocation model",
		zap.Int("variables", len(m.Variables)),
		zap.Int("equalities", len(m.Problem.Equalities)),
		zap.Int("inequalities", len(m.Problem.Inequalities)))

	sol, err := backend.Solve(ctx, m.Problem)
	if err != nil {
		return nil, &SolveError{Status: StatusError, Message: err.Error()}
	}
	if sol.Status != StatusOptimal {
		return nil, &SolveError{Status: sol.Status, Message: sol.Message}
	}

	result := &Result{Status: StatusOptimal, Objective: sol.Objective}
	for i, v := range m.Variables {
		count := int(math.Round(sol.Values[i]))
		if count <= 0 {
			continue
		}
		result.Allocations = append(result.Allocations, model.Allocation{
			InstitutionID: v.Institution,
			Program:       v.Group.Program,
			StudentType:   v.Group.StudentType,
			PracticeType:  v.Group.PracticeType,
			Semester:      v.Group.Semester,
			Assigned:      count,
			UnitScore:     v.Score,
		})
	}

	sort.Slice(result.Allocations, func(i, j int) bool {
		a, b := result.Allocations[i], result.Allocations[j]
		if a.Program != b.Program {
			return a.Program < b.Program
		}
		if a.StudentType != b.StudentType {
			return a.StudentType < b.StudentType
		}
		if a.PracticeType != b.PracticeType {
			return a.PracticeType < b.PracticeType
		}
		return a.InstitutionID < b.InstitutionID
	})

	logger.Debug("Model solved",
		zap.Float64("objective", result.Objective),
		zap.Int("allocation_rows", len(result.Allocations)))

	return result, nil
}

func lessGroup(a, b model.GroupKey) bool {
	if a.Program != b.Program {
		return a.Program < b.Program
	}
	if a.StudentType != b.StudentType {
		return a.StudentType < b.StudentType
	}
	if a.PracticeType != b.PracticeType {
		return a.PracticeType < b.PracticeType
	}
	return a.Semester < b.Semester
}

func lessCapKey(a, b model.CapacityKey) bool {
	if a.Institution != b.Institution {
		return a.Institution < b.Institution
	}
	if a.Program != b.Program {
		return a.Program < b.Program
	}
	if a.StudentType != b.StudentType {
		return a.StudentType < b.StudentType
	}
	return a.Semester < b.Semester
}
