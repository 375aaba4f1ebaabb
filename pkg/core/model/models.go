package model

// CriterionType distinguishes benefit criteria (more is better) from cost
// criteria (less is better) in the weight catalog.
type CriterionType string

const (
	TypeBenefit CriterionType = "Beneficio"
	TypeCost    CriterionType = "Costo"
)

// Institution represents one row of the offer roster.
type Institution struct {
	ID   string
	Name string
}

// WeightRow is one entry of the weight catalog sheet.
type WeightRow struct {
	SetID     string
	Criterion string
	Weight    float64
	Active    bool
	Type      CriterionType
	Semester  string
	SourceRow int
}

// GroupKey identifies a demand group.
type GroupKey struct {
	Program      string
	StudentType  string
	PracticeType string
	Semester     string
}

// DemandGroup is a demand bucket: the number of students that must be placed
// for one (program, student type, practice type, semester) combination.
type DemandGroup struct {
	GroupKey
	Count int
}

// CapacityKey is the tuple under which capacity constraints are aggregated.
type CapacityKey struct {
	Institution string
	Program     string
	StudentType string
	Semester    string
}

// CapacityRecord is one row of the capacity sheet. Dimension fields may be
// blank in the source; blanks are substituted with run-time defaults when the
// per-run capacity map is built.
type CapacityRecord struct {
	Institution string
	Program     string
	StudentType string
	Semester    string
	Capacity    int
	SourceRow   int
}

// CostRecord is one row of the cost sheet. ContributionPct is NaN when the
// source cell was blank or unparsable. PPERequired is nil when the sheet
// carries no requirement degree for the row.
type CostRecord struct {
	Institution     string
	Program         string
	StudentType     string
	PracticeType    string
	Semester        string
	ContributionPct float64
	PPECharge       bool
	PPERequired     *float64
	SourceRow       int
}

// RunDefaults are the manually supplied values used to fill blank capacity
// dimensions and to build the single-group demand fallback.
type RunDefaults struct {
	Program      string
	StudentType  string
	PracticeType string
	Semester     string
}

// Allocation is one materialized assignment row: how many students of a group
// were placed at an institution, with the unit score of the pair.
type Allocation struct {
	InstitutionID   string
	InstitutionName string
	Program         string
	StudentType     string
	PracticeType    string
	Semester        string
	Assigned        int
	UnitScore       float64
}

// GroupSummary reports demand coverage for one group.
type GroupSummary struct {
	Program      string
	StudentType  string
	PracticeType string
	Demand       int
	Assigned     int
	Gap          int
}

// Utilization reports how much of an institution's capacity was used.
type Utilization struct {
	InstitutionID   string
	InstitutionName string
	Assigned        int
	Capacity        int
	UtilizationPct  float64
}
