package services

import (
	"math"
	"sort"

	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/core/model"
)

// withInstitutionNames joins institution display names onto allocation rows.
func withInstitutionNames(allocations []model.Allocation, institutions []model.Institution) []model.Allocation {
	names := make(map[string]string, len(institutions))
	for _, inst := range institutions {
		names[inst.ID] = inst.Name
	}

	out := make([]model.Allocation, len(allocations))
	for i, a := range allocations {
		a.InstitutionName = names[a.InstitutionID]
		out[i] = a
	}
	return out
}

// buildGroupSummaries reports demand coverage per group, in the demand
// groups' source order.
func buildGroupSummaries(groups []model.DemandGroup, allocations []model.Allocation) []model.GroupSummary {
	assigned := make(map[model.GroupKey]int)
	for _, a := range allocations {
		key := model.GroupKey{
			Program:      a.Program,
			StudentType:  a.StudentType,
			PracticeType: a.PracticeType,
			Semester:     a.Semester,
		}
		assigned[key] += a.Assigned
	}

	summaries := make([]model.GroupSummary, 0, len(groups))
	for _, g := range groups {
		got := assigned[g.GroupKey]
		summaries = append(summaries, model.GroupSummary{
			Program:      g.Program,
			StudentType:  g.StudentType,
			PracticeType: g.PracticeType,
			Demand:       g.Count,
			Assigned:     got,
			Gap:          g.Count - got,
		})
	}
	return summaries
}

// buildUtilization reports assigned head count against total capacity per
// institution for the run semester. Institutions with neither capacity nor
// assignments are omitted. Rows are sorted by institution ID.
func buildUtilization(
	institutions []model.Institution,
	capRecords []model.CapacityRecord,
	allocations []model.Allocation,
	semester string,
) []model.Utilization {
	names := make(map[string]string, len(institutions))
	for _, inst := range institutions {
		names[inst.ID] = inst.Name
	}

	capacity := make(map[string]int)
	for _, rec := range capRecords {
		if rec.Semester == "" || rec.Semester == semester {
			capacity[rec.Institution] += rec.Capacity
		}
	}
	assigned := make(map[string]int)
	for _, a := range allocations {
		assigned[a.InstitutionID] += a.Assigned
	}

	ids := make(map[string]bool, len(capacity)+len(assigned))
	for id := range capacity {
		ids[id] = true
	}
	for id := range assigned {
		ids[id] = true
	}

	rows := make([]model.Utilization, 0, len(ids))
	for id := range ids {
		row := model.Utilization{
			InstitutionID:   id,
			InstitutionName: names[id],
			Assigned:        assigned[id],
			Capacity:        capacity[id],
		}
		if row.Capacity > 0 {
			pct := 100 * float64(row.Assigned) / float64(row.Capacity)
			row.UtilizationPct = math.Round(pct*100) / 100
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].InstitutionID < rows[j].InstitutionID })
	return rows
}
