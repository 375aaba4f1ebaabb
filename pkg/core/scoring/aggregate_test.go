package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/core/costs"
	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/core/model"
)

func aggregateFixture() BuildInput {
	group := model.DemandGroup{
		GroupKey: model.GroupKey{
			Program:      "Enfermería",
			StudentType:  "Pregrado",
			PracticeType: "Rotación pregrado",
			Semester:     "2025-1",
		},
		Count: 10,
	}

	ds := testDataset(
		[]string{"Areas_Bienestar (0/1)"},
		map[string]map[string]string{
			"100": {"Areas_Bienestar (0/1)": "1"},
			"200": {"Areas_Bienestar (0/1)": "0"},
		},
	)

	ppe := 0.5
	resolver := costs.NewResolver([]model.CostRecord{
		{
			Institution:     "100",
			Program:         "Enfermería",
			StudentType:     "Pregrado",
			PracticeType:    "Rotación pregrado",
			Semester:        "2025-1",
			ContributionPct: 40,
			PPECharge:       false,
			PPERequired:     &ppe,
			SourceRow:       0,
		},
	})

	return BuildInput{
		Institutions: []model.Institution{{ID: "100"}, {ID: "200"}},
		Groups:       []model.DemandGroup{group},
		Capacities: map[model.CapacityKey]int{
			{Institution: "100", Program: "Enfermería", StudentType: "Pregrado", Semester: "2025-1"}: 15,
			{Institution: "200", Program: "Enfermería", StudentType: "Pregrado", Semester: "2025-1"}: 15,
		},
		Costs:  resolver,
		Scores: Normalize(ds),
		Weights: map[string]float64{
			"Areas_Bienestar": 0.5,
			CodeContribution:  0.3,
			CodePPERequired:   0.2,
		},
	}
}

func TestBuildValueMap(t *testing.T) {
	in := aggregateFixture()

	vm, err := BuildValueMap(in)
	require.NoError(t, err)

	group := in.Groups[0].GroupKey
	assert.Equal(t, 2, vm.FeasiblePairs)
	assert.Equal(t, 2, vm.CostResolvedPairs)

	// 100: 0.5*1 + 0.3*(1-0.40) + 0.2*(1-0.5)
	assert.InDelta(t, 0.78, vm.Values[Pair{Institution: "100", Group: group}], 1e-9)
	// 200 has no cost row: tier-5 neutral 50%, no requirement signal so the
	// requirement score falls back to the charge score (1.0)
	assert.InDelta(t, 0.35, vm.Values[Pair{Institution: "200", Group: group}], 1e-9)
	assert.Equal(t, 1, vm.PPERequiredFallbacks)
}

func TestBuildValueMap_ZeroCapacityExcluded(t *testing.T) {
	in := aggregateFixture()
	in.Capacities[model.CapacityKey{Institution: "200", Program: "Enfermería", StudentType: "Pregrado", Semester: "2025-1"}] = 0

	vm, err := BuildValueMap(in)
	require.NoError(t, err)

	assert.Equal(t, 1, vm.FeasiblePairs)
	assert.Len(t, vm.Values, 1)
	_, has := vm.Values[Pair{Institution: "200", Group: in.Groups[0].GroupKey}]
	assert.False(t, has)
}

func TestBuildValueMap_UnresolvableCriterion(t *testing.T) {
	in := aggregateFixture()
	in.Weights["Servicios_Obstetricia"] = 0.1

	_, err := BuildValueMap(in)
	require.Error(t, err)
	assert.True(t, model.IsConfigError(err))
	assert.Contains(t, err.Error(), "Servicios_Obstetricia")
}

func TestBuildValueMap_ZeroWeightIgnored(t *testing.T) {
	in := aggregateFixture()
	in.Weights["Areas_Bienestar"] = 0

	vm, err := BuildValueMap(in)
	require.NoError(t, err)

	group := in.Groups[0].GroupKey
	// Only the cost components remain
	assert.InDelta(t, 0.28, vm.Values[Pair{Institution: "100", Group: group}], 1e-9)
}
