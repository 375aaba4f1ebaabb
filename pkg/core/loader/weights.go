package loader

import (
	"math"
	"sort"

	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/core/model"
)

const weightSumTolerance = 1e-6

// activeWeights filters the catalog to the active rows of one
// (weight set, semester) selection.
func (d *Dataset) activeWeights(set, semester string) []model.WeightRow {
	var rows []model.WeightRow
	for _, w := range d.Weights {
		if w.SetID == set && w.Active && w.Semester == semester {
			rows = append(rows, w)
		}
	}
	return rows
}

// ValidateWeights checks that the active weights of the selection sum to
// 1.0 within tolerance. It returns the sum and a ConfigError on violation.
// This must pass before any scoring happens.
func (d *Dataset) ValidateWeights(set, semester string) (float64, error) {
	sum := 0.0
	for _, w := range d.activeWeights(set, semester) {
		sum += w.Weight
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return sum, model.NewConfigError(
			"active weights for set %s semester %s sum to %.6f, expected 1.0", set, semester, sum)
	}
	return sum, nil
}

// WeightsFor returns the (criterion code → weight) and (criterion code →
// type) maps for the selection. Codes are returned as written in the catalog;
// callers canonicalize them before matching score sources.
func (d *Dataset) WeightsFor(set, semester string) (map[string]float64, map[string]model.CriterionType) {
	weights := make(map[string]float64)
	types := make(map[string]model.CriterionType)
	for _, w := range d.activeWeights(set, semester) {
		weights[w.Criterion] = w.Weight
		types[w.Criterion] = w.Type
	}
	return weights, types
}

// AvailableSets lists the distinct weight-set IDs present in the catalog.
func (d *Dataset) AvailableSets() []string {
	return distinct(d.Weights, func(w model.WeightRow) string { return w.SetID })
}

// AvailableSemesters lists the distinct validity semesters present in the
// catalog.
func (d *Dataset) AvailableSemesters() []string {
	return distinct(d.Weights, func(w model.WeightRow) string { return w.Semester })
}

func distinct(rows []model.WeightRow, key func(model.WeightRow) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		v := key(r)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
