package scoring

import (
	"sort"

	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/core/costs"
	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/core/model"
)

// Pair identifies one (institution, demand group) combination under
// consideration for allocation.
type Pair struct {
	Institution string
	Group       model.GroupKey
}

// ValueMap carries the weighted value V(j,g) for every feasible,
// cost-resolved pair, plus diagnostic counters for the run.
type ValueMap struct {
	Values map[Pair]float64

	// FeasiblePairs counts pairs with positive capacity;
	// CostResolvedPairs counts those that additionally received a value.
	// PPERequiredFallbacks counts pairs whose requirement score fell back
	// to the charge-derived score. Diagnostics only, never control flow.
	FeasiblePairs        int
	CostResolvedPairs    int
	PPERequiredFallbacks int
}

// BuildInput collects everything the aggregator needs for one run.
type BuildInput struct {
	Institutions []model.Institution
	Groups       []model.DemandGroup
	Capacities   map[model.CapacityKey]int
	Costs        *costs.Resolver
	Scores       *ScoreSet

	// Weights is keyed by canonical criterion code and must sum to 1.0
	// (validated by the loader before this point).
	Weights map[string]float64
}

// BuildValueMap enumerates feasible pairs and computes their weighted
// values. Before iterating pairs it verifies, once, that every active
// criterion binds to a score source; an unresolvable criterion is a fatal
// configuration error, never a silent zero across all pairs.
func BuildValueMap(in BuildInput) (*ValueMap, error) {
	if err := checkCriteriaResolvable(in.Weights, in.Scores); err != nil {
		return nil, err
	}

	vm := &ValueMap{Values: make(map[Pair]float64)}

	codes := sortedCodes(in.Weights)

	for _, inst := range in.Institutions {
		for _, g := range in.Groups {
			capKey := model.CapacityKey{
				Institution: inst.ID,
				Program:     g.Program,
				StudentType: g.StudentType,
				Semester:    g.Semester,
			}
			if in.Capacities[capKey] <= 0 {
				continue
			}
			vm.FeasiblePairs++

			res := in.Costs.Resolve(inst.ID, g.Program, g.StudentType, g.PracticeType, g.Semester)
			vm.CostResolvedPairs++

			contributionScore := 1.0 - res.ContributionPct/100.0
			chargeScore := 1.0
			if res.PPECharge {
				chargeScore = 0.0
			}
			requiredScore := chargeScore
			if res.PPERequired != nil {
				requiredScore = 1.0 - *res.PPERequired
			} else {
				vm.PPERequiredFallbacks++
			}

			score := 0.0
			for _, code := range codes {
				w := in.Weights[code]
				if w <= 0 {
					continue
				}
				var s float64
				switch code {
				case CodeContribution:
					s = contributionScore
				case CodePPECharge:
					s = chargeScore
				case CodePPERequired:
					s = requiredScore
				default:
					s = in.Scores.Score(code, inst.ID)
				}
				score += w * s
			}

			vm.Values[Pair{Institution: inst.ID, Group: g.GroupKey}] = score
		}
	}

	return vm, nil
}

// checkCriteriaResolvable verifies every active criterion code is either a
// cost-special code or was scored by the normalizer.
func checkCriteriaResolvable(weights map[string]float64, scores *ScoreSet) error {
	var missing []string
	for code := range weights {
		if IsCostSpecial(code) || scores.Has(code) {
			continue
		}
		missing = append(missing, code)
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return model.NewConfigError(
			"active criteria %v have no score source: not cost-special and no matching attribute column", missing)
	}
	return nil
}

func sortedCodes(weights map[string]float64) []string {
	codes := make([]string, 0, len(weights))
	for code := range weights {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
