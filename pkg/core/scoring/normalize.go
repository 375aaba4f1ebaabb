package scoring

import (
	"math"
	"sort"
	"strings"

	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/core/loader"
)

// ScoreSet holds normalized [0,1] scores per criterion code and institution.
// Scores may be NaN for institutions whose raw value was unparsable on a
// scale-type rule; consumers treat NaN as 0.
type ScoreSet struct {
	scores map[string]map[string]float64
}

// Has reports whether the criterion was scored (its source column existed).
func (s *ScoreSet) Has(code string) bool {
	_, ok := s.scores[code]
	return ok
}

// Score returns the normalized value for a criterion and institution.
// Missing criteria, unknown institutions and NaN values all yield 0.
func (s *ScoreSet) Score(code, institutionID string) float64 {
	values, ok := s.scores[code]
	if !ok {
		return 0
	}
	v, ok := values[institutionID]
	if !ok || math.IsNaN(v) {
		return 0
	}
	return v
}

// Codes returns the sorted criterion codes present in the set.
func (s *ScoreSet) Codes() []string {
	codes := make([]string, 0, len(s.scores))
	for code := range s.scores {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Normalize converts the raw institution attributes of a dataset into
// normalized scores for every catalog criterion whose source column(s) are
// present. Missing columns are skipped, not errors. Every roster institution
// gets a value: boolean-like rules fill 0 for absent raw data, scale rules
// keep NaN (scored as 0 downstream).
func Normalize(ds *loader.Dataset) *ScoreSet {
	set := &ScoreSet{scores: make(map[string]map[string]float64)}

	for _, crit := range Catalog {
		if !columnsPresent(ds.Columns, crit.Columns) {
			continue
		}
		values := make(map[string]float64, len(ds.Institutions))
		for _, inst := range ds.Institutions {
			values[inst.ID] = normalizeCell(crit, ds.Attributes[inst.ID])
		}
		if crit.Rule == RuleCountCost {
			invertCounts(values)
		}
		set.scores[crit.Code] = values
	}

	return set
}

func columnsPresent(columns map[string]bool, required []string) bool {
	for _, col := range required {
		if !columns[col] {
			return false
		}
	}
	return true
}

func normalizeCell(crit Criterion, attrs map[string]string) float64 {
	raw := ""
	if attrs != nil {
		raw = attrs[crit.Columns[0]]
	}

	switch crit.Rule {
	case RuleScale1to5:
		return (loader.ParseDecimal(raw) - 1.0) / 4.0
	case RuleScale0to5:
		return loader.ParseDecimal(raw) / 5.0
	case RulePercent:
		return loader.ParseDecimal(raw) / 100.0
	case RuleBinary:
		return clip01(zeroIfNaN(loader.ParseDecimal(raw)))
	case RuleBinaryOr:
		combined := 0.0
		for _, col := range crit.Columns {
			v := 0.0
			if attrs != nil {
				v = zeroIfNaN(loader.ParseDecimal(attrs[col]))
			}
			combined = math.Max(combined, v)
		}
		return clip01(combined)
	case RuleYesNo:
		return yesNo(raw)
	case RuleCountCost:
		// Raw count kept here; invertCounts applies min-max afterwards.
		return zeroIfNaN(loader.ParseDecimal(raw))
	}
	return math.NaN()
}

// invertCounts applies the fewer-is-better min-max inversion in place. When
// the column has no spread there is no discriminative power, so every
// institution scores 1.0 rather than being penalized.
func invertCounts(values map[string]float64) {
	mn, mx := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		mn = math.Min(mn, v)
		mx = math.Max(mx, v)
	}
	degenerate := math.IsInf(mn, 1) || math.IsInf(mx, -1) || math.Abs(mx-mn) < 1e-9
	for id, v := range values {
		if degenerate || math.IsNaN(v) {
			values[id] = 1.0
			continue
		}
		values[id] = (mx - v) / (mx - mn)
	}
}

func yesNo(raw string) float64 {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "sí", "si", "yes", "1", "true":
		return 1
	}
	return 0
}

func zeroIfNaN(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

func clip01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
