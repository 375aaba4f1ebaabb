package loader

import (
	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/core/model"
)

// Illustrative institutions used when the template carries no usable
// capacity or cost rows.
var exampleInstitutions = []string{
	"7600103715",
	"500102104",
	"7600102541",
	"7600103359",
	"7600108077",
}

// ExampleCapacities generates the fallback capacity table: each example
// institution offers 15 seats for the default program and student type.
func ExampleCapacities(defaults model.RunDefaults) []model.CapacityRecord {
	records := make([]model.CapacityRecord, 0, len(exampleInstitutions))
	for i, inst := range exampleInstitutions {
		records = append(records, model.CapacityRecord{
			Institution: inst,
			Program:     defaults.Program,
			StudentType: defaults.StudentType,
			Semester:    defaults.Semester,
			Capacity:    15,
			SourceRow:   i,
		})
	}
	return records
}

// ExampleCosts generates the fallback cost table: a 30% contribution with no
// protective-equipment charge per example institution and practice type.
func ExampleCosts(defaults model.RunDefaults) []model.CostRecord {
	practiceTypes := []string{"Rotación pregrado", "Internado de medicina"}
	records := make([]model.CostRecord, 0, len(exampleInstitutions)*len(practiceTypes))
	row := 0
	for _, inst := range exampleInstitutions {
		for _, pt := range practiceTypes {
			records = append(records, model.CostRecord{
				Institution:     inst,
				Program:         defaults.Program,
				StudentType:     defaults.StudentType,
				PracticeType:    pt,
				Semester:        defaults.Semester,
				ContributionPct: 30.0,
				PPECharge:       false,
				SourceRow:       row,
			})
			row++
		}
	}
	return records
}

// ManualDemand builds the single-group demand fallback used when the demand
// sheet is missing or has no rows for the run semester.
func ManualDemand(defaults model.RunDefaults, totalStudents int) []model.DemandGroup {
	return []model.DemandGroup{{
		GroupKey: model.GroupKey{
			Program:      defaults.Program,
			StudentType:  defaults.StudentType,
			PracticeType: defaults.PracticeType,
			Semester:     defaults.Semester,
		},
		Count: totalStudents,
	}}
}
