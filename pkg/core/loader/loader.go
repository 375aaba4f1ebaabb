package loader

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/core/model"
	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/workbook"
)

// Column names referenced in the input sheets. Several carry a unit
// annotation in parentheses and must be matched exactly.
const (
	ColInstitutionID   = "ID_Institucion"
	ColInstitutionName = "Institucion"

	ColCapProgram     = "Programa"
	ColCapStudentType = "Tipo_Estudiante (Pregrado/Posgrado)"
	ColCapSemester    = "Semestre (AAAA-S)"
	ColCapacity       = "Cupo_Estimado_Semestral"

	ColCostProgram      = "Programa_Costo"
	ColCostStudentType  = "Tipo_Estudiante_Costo"
	ColCostPracticeType = "Tipo_Practica_Costo"
	ColCostSemester     = "Semestre_Vigencia (AAAA-S)"
	ColContribution     = "%_Contraprestacion_Matricula (0-100)"
	ColPPECharge        = "Cobro_EPP (No cobra/Cobra a la Universidad)"
	ColPPERequired      = "EPP_Exigidos (No exige/Parcial/Completo)"

	ColSetID          = "Set_ID"
	ColCriterion      = "Criterio_Codigo"
	ColWeight         = "Peso (0-1)"
	ColActive         = "Activo (0/1)"
	ColCriterionType  = "Tipo (Beneficio/Costo)"
	ColWeightSemester = "Semestre_Vigencia (AAAA-S)"

	ColDemandSemester     = "Semestre"
	ColDemandProgram      = "Programa"
	ColDemandStudentType  = "Tipo_Estudiante"
	ColDemandPracticeType = "Tipo_Practica"
	ColDemandCount        = "Demanda_Estudiantes"
)

// Dataset holds everything loaded from one input workbook. It is built once
// per run; later pipeline stages take owned copies (CapacityMap, DemandFor)
// instead of mutating it in place.
type Dataset struct {
	Institutions []model.Institution

	// Attributes maps institution ID to raw attribute cells keyed by exact
	// column name, merged from the offer and quality sheets (offer wins on
	// collision, quality attributes are optional per institution).
	Attributes map[string]map[string]string

	// Columns is the merged set of attribute column names present in the
	// offer and quality sheets.
	Columns map[string]bool

	Capacities []model.CapacityRecord
	Costs      []model.CostRecord
	Weights    []model.WeightRow

	// Demand is nil when the optional demand sheet is absent; DemandAbsent
	// distinguishes "sheet missing" from "sheet empty".
	Demand       []model.DemandGroup
	DemandAbsent bool
}

// Load reads the five required sheets and the optional demand sheet from the
// source. Absence of the demand sheet is tolerated and logged as a warning;
// any other problem is an error. Missing required columns surface as
// ConfigError.
func Load(src workbook.Source, logger *zap.Logger) (*Dataset, error) {
	offer, err := src.ReadTable(workbook.SheetOffer, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load offer sheet: %w", err)
	}
	quality, err := src.ReadTable(workbook.SheetQuality, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load quality sheet: %w", err)
	}
	capacity, err := src.ReadTable(workbook.SheetCapacity, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load capacity sheet: %w", err)
	}
	costs, err := src.ReadTable(workbook.SheetCosts, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load cost sheet: %w", err)
	}
	weights, err := src.ReadTable(workbook.SheetWeights, workbook.WeightsHeaderRow)
	if err != nil {
		return nil, fmt.Errorf("failed to load weight catalog: %w", err)
	}

	if err := requireColumns(offer, ColInstitutionID); err != nil {
		return nil, err
	}
	if err := requireColumns(quality, ColInstitutionID); err != nil {
		return nil, err
	}
	if err := requireColumns(capacity, ColInstitutionID, ColCapacity); err != nil {
		return nil, err
	}
	if err := requireColumns(costs, ColInstitutionID, ColContribution, ColPPECharge); err != nil {
		return nil, err
	}
	if err := requireColumns(weights, ColSetID, ColCriterion, ColWeight, ColActive, ColWeightSemester); err != nil {
		return nil, err
	}

	ds := &Dataset{
		Attributes: make(map[string]map[string]string),
		Columns:    make(map[string]bool),
	}

	ds.loadRoster(offer, quality)
	ds.loadCapacities(capacity)
	ds.loadCosts(costs)
	ds.loadWeights(weights)

	demand, err := src.ReadTable(workbook.SheetDemand, 0)
	switch {
	case errors.Is(err, workbook.ErrSheetNotFound):
		logger.Warn("Demand sheet not found - manual single-group fallback will apply",
			zap.String("sheet", workbook.SheetDemand))
		ds.DemandAbsent = true
	case err != nil:
		return nil, fmt.Errorf("failed to load demand sheet: %w", err)
	default:
		ds.loadDemand(demand)
	}

	logger.Info("Workbook loaded",
		zap.Int("institutions", len(ds.Institutions)),
		zap.Int("capacity_rows", len(ds.Capacities)),
		zap.Int("cost_rows", len(ds.Costs)),
		zap.Int("weight_rows", len(ds.Weights)),
		zap.Int("demand_groups", len(ds.Demand)))

	return ds, nil
}

func requireColumns(t *workbook.Table, cols ...string) error {
	if missing := t.MissingColumns(cols...); len(missing) > 0 {
		return model.NewConfigError("sheet %s is missing required columns %v", t.Name, missing)
	}
	return nil
}

// loadRoster joins the offer and quality sheets on institution ID. Quality
// attributes are optional per institution (left join); on column collision
// the offer sheet wins.
func (d *Dataset) loadRoster(offer, quality *workbook.Table) {
	qualityByID := make(map[string]int)
	for i := range quality.Rows {
		if id := quality.Cell(i, ColInstitutionID); id != "" {
			if _, seen := qualityByID[id]; !seen {
				qualityByID[id] = i
			}
		}
	}

	for _, col := range offer.Header {
		if col != ColInstitutionID && col != ColInstitutionName {
			d.Columns[col] = true
		}
	}
	for _, col := range quality.Header {
		if col != ColInstitutionID {
			d.Columns[col] = true
		}
	}

	seen := make(map[string]bool)
	for i := range offer.Rows {
		id := offer.Cell(i, ColInstitutionID)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		d.Institutions = append(d.Institutions, model.Institution{
			ID:   id,
			Name: offer.Cell(i, ColInstitutionName),
		})

		attrs := make(map[string]string)
		for _, col := range offer.Header {
			if col == ColInstitutionID || col == ColInstitutionName {
				continue
			}
			attrs[col] = offer.Cell(i, col)
		}
		if qi, ok := qualityByID[id]; ok {
			for _, col := range quality.Header {
				if col == ColInstitutionID {
					continue
				}
				if _, taken := attrs[col]; !taken {
					attrs[col] = quality.Cell(qi, col)
				}
			}
		}
		d.Attributes[id] = attrs
	}
}

func (d *Dataset) loadCapacities(t *workbook.Table) {
	for i := range t.Rows {
		inst := t.Cell(i, ColInstitutionID)
		if inst == "" {
			continue
		}
		d.Capacities = append(d.Capacities, model.CapacityRecord{
			Institution: inst,
			Program:     t.Cell(i, ColCapProgram),
			StudentType: t.Cell(i, ColCapStudentType),
			Semester:    t.Cell(i, ColCapSemester),
			Capacity:    parseCount(t.Cell(i, ColCapacity)),
			SourceRow:   i,
		})
	}
}

func (d *Dataset) loadCosts(t *workbook.Table) {
	for i := range t.Rows {
		inst := t.Cell(i, ColInstitutionID)
		if inst == "" {
			continue
		}
		d.Costs = append(d.Costs, model.CostRecord{
			Institution:     inst,
			Program:         t.Cell(i, ColCostProgram),
			StudentType:     t.Cell(i, ColCostStudentType),
			PracticeType:    t.Cell(i, ColCostPracticeType),
			Semester:        t.Cell(i, ColCostSemester),
			ContributionPct: ParseDecimal(t.Cell(i, ColContribution)),
			PPECharge:       parsePPECharge(t.Cell(i, ColPPECharge)),
			PPERequired:     parsePPERequired(t.Cell(i, ColPPERequired)),
			SourceRow:       i,
		})
	}
}

func (d *Dataset) loadWeights(t *workbook.Table) {
	for i := range t.Rows {
		set := t.Cell(i, ColSetID)
		criterion := t.Cell(i, ColCriterion)
		if set == "" && criterion == "" {
			continue
		}
		weight := ParseDecimal(t.Cell(i, ColWeight))
		if math.IsNaN(weight) {
			weight = 0
		}
		d.Weights = append(d.Weights, model.WeightRow{
			SetID:     set,
			Criterion: criterion,
			Weight:    weight,
			Active:    parseFlag(t.Cell(i, ColActive)),
			Type:      model.CriterionType(t.Cell(i, ColCriterionType)),
			Semester:  t.Cell(i, ColWeightSemester),
			SourceRow: i,
		})
	}
}

func (d *Dataset) loadDemand(t *workbook.Table) {
	for i := range t.Rows {
		program := t.Cell(i, ColDemandProgram)
		if program == "" {
			continue
		}
		d.Demand = append(d.Demand, model.DemandGroup{
			GroupKey: model.GroupKey{
				Program:      program,
				StudentType:  t.Cell(i, ColDemandStudentType),
				PracticeType: t.Cell(i, ColDemandPracticeType),
				Semester:     t.Cell(i, ColDemandSemester),
			},
			Count: parseCount(t.Cell(i, ColDemandCount)),
		})
	}
}

// HasCapacityData reports whether any capacity row carries a positive count.
func (d *Dataset) HasCapacityData() bool {
	for _, c := range d.Capacities {
		if c.Capacity > 0 {
			return true
		}
	}
	return false
}

// HasCostData reports whether any cost row carries a usable contribution
// percentage.
func (d *Dataset) HasCostData() bool {
	for _, c := range d.Costs {
		if !math.IsNaN(c.ContributionPct) {
			return true
		}
	}
	return false
}

// CapacityMap builds the per-run capacity lookup, substituting the manual
// defaults for blank program/student-type/semester dimensions. The returned
// map is an owned copy; duplicated keys keep the last row, matching source
// order.
func (d *Dataset) CapacityMap(defaults model.RunDefaults) map[model.CapacityKey]int {
	return BuildCapacityMap(d.Capacities, defaults)
}

// BuildCapacityMap is CapacityMap over an arbitrary record slice, used when
// the example capacities stand in for an empty capacity sheet.
func BuildCapacityMap(records []model.CapacityRecord, defaults model.RunDefaults) map[model.CapacityKey]int {
	caps := make(map[model.CapacityKey]int, len(records))
	for _, rec := range records {
		key := model.CapacityKey{
			Institution: rec.Institution,
			Program:     orDefault(rec.Program, defaults.Program),
			StudentType: orDefault(rec.StudentType, defaults.StudentType),
			Semester:    orDefault(rec.Semester, defaults.Semester),
		}
		caps[key] = rec.Capacity
	}
	return caps
}

// DemandFor returns the demand groups whose semester matches, as an owned
// copy.
func (d *Dataset) DemandFor(semester string) []model.DemandGroup {
	var groups []model.DemandGroup
	for _, g := range d.Demand {
		if g.Semester == semester {
			groups = append(groups, g)
		}
	}
	return groups
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
