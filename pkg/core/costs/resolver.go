// Package costs resolves per-pair site cost attributes through a
// specificity-ordered fallback chain over the cost sheet.
package costs

import (
	"math"
	"sort"

	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/core/model"
)

// ProgramWildcard is the applies-to-all program value in the cost sheet.
const ProgramWildcard = "Todos"

// Neutral defaults used when no cost row (or no usable field) matches.
const (
	NeutralContributionPct = 50.0
)

// Resolution is the outcome of one cost lookup. It is always total: missing
// data degrades to neutral defaults instead of failing. Tier records which
// fallback level produced the values (1 = exact match, 5 = global neutral).
type Resolution struct {
	ContributionPct float64
	PPECharge       bool
	// PPERequired is nil when no requirement signal exists for the match;
	// consumers fall back to the charge-derived score.
	PPERequired *float64
	Tier        int
}

type fullKey struct {
	institution  string
	program      string
	studentType  string
	practiceType string
	semester     string
}

type semiKey struct {
	institution string
	program     string
	studentType string
	semester    string
}

// Resolver answers cost lookups from indexes built once over the cost rows,
// instead of re-filtering the sheet per pair. Within a tier the row with the
// lowest source index wins, which makes resolution deterministic.
type Resolver struct {
	full   map[fullKey]*model.CostRecord
	semi   map[semiKey]*model.CostRecord
	byInst map[string]*model.CostRecord
}

// NewResolver indexes an owned snapshot of the given cost records.
func NewResolver(records []model.CostRecord) *Resolver {
	r := &Resolver{
		full:   make(map[fullKey]*model.CostRecord),
		semi:   make(map[semiKey]*model.CostRecord),
		byInst: make(map[string]*model.CostRecord),
	}

	ordered := make([]model.CostRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SourceRow < ordered[j].SourceRow
	})

	for i := range ordered {
		rec := &ordered[i]

		fk := fullKey{rec.Institution, rec.Program, rec.StudentType, rec.PracticeType, rec.Semester}
		if _, taken := r.full[fk]; !taken {
			r.full[fk] = rec
		}

		sk := semiKey{rec.Institution, rec.Program, rec.StudentType, rec.Semester}
		if _, taken := r.semi[sk]; !taken {
			r.semi[sk] = rec
		}

		if _, taken := r.byInst[rec.Institution]; !taken {
			r.byInst[rec.Institution] = rec
		}
	}

	return r
}

// Resolve walks the fallback chain, most specific first:
//
//  1. exact institution + student type + practice type + semester + program
//  2. same, with the program relaxed to the "Todos" wildcard
//  3. tiers 1-2 with the practice type dropped from the key
//  4. first cost row for the institution, neutral back-fill for missing
//     fields (requirement mirrors the charge)
//  5. global neutral defaults (50% contribution, no charge, no signal)
//
// Resolution never fails.
func (r *Resolver) Resolve(institution, program, studentType, practiceType, semester string) Resolution {
	if rec, ok := r.full[fullKey{institution, program, studentType, practiceType, semester}]; ok {
		return fromRecord(rec, 1)
	}
	if rec, ok := r.full[fullKey{institution, ProgramWildcard, studentType, practiceType, semester}]; ok {
		return fromRecord(rec, 2)
	}
	if rec, ok := r.semi[semiKey{institution, program, studentType, semester}]; ok {
		return fromRecord(rec, 3)
	}
	if rec, ok := r.semi[semiKey{institution, ProgramWildcard, studentType, semester}]; ok {
		return fromRecord(rec, 3)
	}
	if rec, ok := r.byInst[institution]; ok {
		res := fromRecord(rec, 4)
		if res.PPERequired == nil {
			mirror := 0.0
			if res.PPECharge {
				mirror = 1.0
			}
			res.PPERequired = &mirror
		}
		return res
	}
	return Resolution{ContributionPct: NeutralContributionPct, Tier: 5}
}

func fromRecord(rec *model.CostRecord, tier int) Resolution {
	pct := rec.ContributionPct
	if math.IsNaN(pct) {
		pct = NeutralContributionPct
	}
	return Resolution{
		ContributionPct: pct,
		PPECharge:       rec.PPECharge,
		PPERequired:     rec.PPERequired,
		Tier:            tier,
	}
}
