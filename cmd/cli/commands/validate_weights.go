package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/core/loader"
	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/core/services"
)

// ValidateWeightsCmd creates the validateWeights command
func ValidateWeightsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validateWeights",
		Short: "Check that a weight set sums to 1.0 for a semester",
		RunE: func(cmd *cobra.Command, args []string) error {
			weightSet, _ := cmd.Flags().GetString("set")
			semester, _ := cmd.Flags().GetString("semester")
			sheetID, _ := cmd.Flags().GetString("sheet-id")
			workbookPath, _ := cmd.Flags().GetString("workbook")

			if weightSet == "" {
				weightSet = app.Cfg.WeightSet
			}
			if semester == "" {
				semester = app.Cfg.Defaults.Semester
			}

			app.Logger.Debug("validateWeights command",
				zap.String("weight_set", weightSet),
				zap.String("semester", semester))

			src, closeSrc, err := app.openSource(sheetID, workbookPath)
			if err != nil {
				return err
			}
			defer closeSrc()

			ds, err := loader.Load(src, app.Logger)
			if err != nil {
				return fmt.Errorf("failed to load input workbook: %w", err)
			}

			report, err := services.ValidateWeightSet(ds, weightSet, semester, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\n⚖️  Weight Set Check\n\n")
			fmt.Printf("Set:         %s\n", report.Set)
			fmt.Printf("Semester:    %s\n", report.Semester)
			fmt.Printf("Active rows: %d\n", report.ActiveRows)
			fmt.Printf("Sum:         %.6f\n", report.Sum)
			if report.Valid {
				fmt.Printf("Status:      ✅ VALID\n\n")
				return nil
			}
			fmt.Printf("Status:      ❌ INVALID\n")
			fmt.Printf("Problem:     %s\n\n", report.Problem)
			return fmt.Errorf("weight set %s is invalid for semester %s", report.Set, report.Semester)
		},
	}

	cmd.Flags().String("set", "", "Weight set ID (defaults to config weightSet)")
	cmd.Flags().String("semester", "", "Validity semester (defaults to config defaults.semester)")
	cmd.Flags().String("sheet-id", "", "Read the input from this Google Sheets spreadsheet")
	cmd.Flags().String("workbook", "", "Read the input from this local workbook file")

	return cmd
}
