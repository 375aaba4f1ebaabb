package services

import (
	"go.uber.org/zap"

	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/core/loader"
	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/core/model"
)

// WeightSetReport is the outcome of checking one (set, semester) selection.
type WeightSetReport struct {
	Set        string
	Semester   string
	Sum        float64
	ActiveRows int
	Valid      bool
	Problem    string
}

// ValidateWeightSet checks the selected weight set without running an
// optimization. An invalid sum is reported in the result, not as an error;
// a selection with no active rows at all is a configuration error.
func ValidateWeightSet(ds *loader.Dataset, set, semester string, logger *zap.Logger) (*WeightSetReport, error) {
	active, _ := ds.WeightsFor(set, semester)
	if len(active) == 0 {
		return nil, model.NewConfigError(
			"weight set %s has no active rows for semester %s", set, semester)
	}

	report := &WeightSetReport{
		Set:        set,
		Semester:   semester,
		ActiveRows: len(active),
		Valid:      true,
	}

	sum, err := ds.ValidateWeights(set, semester)
	report.Sum = sum
	if err != nil {
		report.Valid = false
		report.Problem = err.Error()
	}

	logger.Debug("Weight set checked",
		zap.String("set", set),
		zap.String("semester", semester),
		zap.Float64("sum", sum),
		zap.Bool("valid", report.Valid))

	return report, nil
}

// WeightSetListing enumerates what the weight catalog offers.
type WeightSetListing struct {
	Sets      []string
	Semesters []string
}

// ListWeightSets reports the distinct weight-set IDs and validity semesters
// present in the catalog.
func ListWeightSets(ds *loader.Dataset, logger *zap.Logger) *WeightSetListing {
	listing := &WeightSetListing{
		Sets:      ds.AvailableSets(),
		Semesters: ds.AvailableSemesters(),
	}
	logger.Debug("Listed weight sets",
		zap.Int("sets", len(listing.Sets)),
		zap.Int("semesters", len(listing.Semesters)))
	return listing
}
