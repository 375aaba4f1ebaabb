package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/core/loader"
	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/core/model"
	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/core/optimizer"
	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/core/services"
	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/solver/lpsolver"
)

// OptimizeCmd creates the optimize command
func OptimizeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Run the student placement optimization",
		Long:  "Load the input workbook, score institutions against the selected weight set and solve the assignment problem",
		RunE: func(cmd *cobra.Command, args []string) error {
			weightSet, _ := cmd.Flags().GetString("set")
			semester, _ := cmd.Flags().GetString("semester")
			students, _ := cmd.Flags().GetInt("students")
			program, _ := cmd.Flags().GetString("program")
			studentType, _ := cmd.Flags().GetString("student-type")
			practiceType, _ := cmd.Flags().GetString("practice-type")
			output, _ := cmd.Flags().GetString("output")
			sheetID, _ := cmd.Flags().GetString("sheet-id")
			workbookPath, _ := cmd.Flags().GetString("workbook")

			params := runParams(app, weightSet, semester, students, program, studentType, practiceType)

			app.Logger.Debug("optimize command",
				zap.String("weight_set", params.WeightSet),
				zap.String("semester", params.Semester),
				zap.Int("students", params.TotalStudents))

			src, closeSrc, err := app.openSource(sheetID, workbookPath)
			if err != nil {
				return err
			}
			defer closeSrc()

			ds, err := loader.Load(src, app.Logger)
			if err != nil {
				return fmt.Errorf("failed to load input workbook: %w", err)
			}

			ctx := app.Ctx
			if app.Cfg.Solver.TimeBudgetSeconds > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx,
					time.Duration(app.Cfg.Solver.TimeBudgetSeconds)*time.Second)
				defer cancel()
			}

			backend := lpsolver.New()
			if app.Cfg.Solver.MaxIterations > 0 {
				backend.MaxIterations = app.Cfg.Solver.MaxIterations
			}

			result, err := services.RunOptimization(ctx, ds, backend, params, app.Logger)
			if err != nil {
				var solveErr *optimizer.SolveError
				if errors.As(err, &solveErr) {
					printSolveFailure(solveErr)
				}
				return fmt.Errorf("optimization failed: %w", err)
			}

			printRunResult(result)

			if output == "" {
				output = app.Cfg.OutputPath
			}
			if output != "" {
				if err := services.ExportResults(result, output, app.Logger); err != nil {
					return fmt.Errorf("failed to export results: %w", err)
				}
				fmt.Printf("Results written to %s\n\n", output)
			}

			return nil
		},
	}

	cmd.Flags().String("set", "", "Weight set ID (defaults to config weightSet)")
	cmd.Flags().String("semester", "", "Run semester, e.g. 2025-1 (defaults to config defaults.semester)")
	cmd.Flags().Int("students", 0, "Total students for the manual demand fallback (defaults to config totalStudents)")
	cmd.Flags().String("program", "", "Default program for blank capacity rows")
	cmd.Flags().String("student-type", "", "Default student type for blank capacity rows")
	cmd.Flags().String("practice-type", "", "Default practice type for the manual demand group")
	cmd.Flags().String("output", "", "Path for the results workbook (defaults to config outputPath)")
	cmd.Flags().String("sheet-id", "", "Read the input from this Google Sheets spreadsheet")
	cmd.Flags().String("workbook", "", "Read the input from this local workbook file")

	return cmd
}

// runParams merges command flags over the configured defaults.
func runParams(app *AppContext, weightSet, semester string, students int, program, studentType, practiceType string) services.RunParams {
	cfg := app.Cfg
	params := services.RunParams{
		WeightSet:     cfg.WeightSet,
		Semester:      cfg.Defaults.Semester,
		TotalStudents: cfg.TotalStudents,
		Defaults: model.RunDefaults{
			Program:      cfg.Defaults.Program,
			StudentType:  cfg.Defaults.StudentType,
			PracticeType: cfg.Defaults.PracticeType,
			Semester:     cfg.Defaults.Semester,
		},
	}
	if weightSet != "" {
		params.WeightSet = weightSet
	}
	if semester != "" {
		params.Semester = semester
		params.Defaults.Semester = semester
	}
	if students > 0 {
		params.TotalStudents = students
	}
	if program != "" {
		params.Defaults.Program = program
	}
	if studentType != "" {
		params.Defaults.StudentType = studentType
	}
	if practiceType != "" {
		params.Defaults.PracticeType = practiceType
	}
	return params
}

func printSolveFailure(err *optimizer.SolveError) {
	fmt.Printf("\n🎯 Optimization Result\n\n")
	switch err.Status {
	case optimizer.StatusInfeasible:
		fmt.Printf("Status: ❌ INFEASIBLE - demand cannot be covered with the available capacity\n")
	case optimizer.StatusUnbounded:
		fmt.Printf("Status: ❌ UNBOUNDED - the problem formulation is invalid\n")
	case optimizer.StatusTimeout:
		fmt.Printf("Status: ⏱  TIMEOUT - the time budget ran out before a solution was proven\n")
	default:
		fmt.Printf("Status: ❌ SOLVER ERROR\n")
	}
	if err.Message != "" {
		fmt.Printf("Detail: %s\n", err.Message)
	}
	fmt.Println()
}

func printRunResult(result *services.RunOptimizationResult) {
	d := result.Diagnostics

	fmt.Printf("\n🎯 Optimization Result\n\n")
	fmt.Printf("Run ID:     %s\n", result.RunID)
	fmt.Printf("Status:     ✅ OPTIMAL\n")
	fmt.Printf("Objective:  %.4f\n", result.Objective)
	fmt.Printf("Assigned:   %d of %d students (%.1f%%)\n", d.TotalAssigned, d.TotalDemand, 100*d.CoverageRate)
	if d.UsedExampleCapacity {
		fmt.Printf("Note:       ⚠️  example capacities were used (capacity sheet was empty)\n")
	}
	if d.UsedExampleDemand {
		fmt.Printf("Note:       ⚠️  manual demand was used (no demand rows for the semester)\n")
	}
	fmt.Println()

	fmt.Printf("📋 Allocations:\n\n")
	fmt.Printf("  %-14s %-30s %-20s %10s %10s\n", "Institution", "Name", "Program", "Students", "Score")
	for _, a := range result.Allocations {
		fmt.Printf("  %-14s %-30s %-20s %10d %10.4f\n",
			a.InstitutionID, truncateName(a.InstitutionName, 30), a.Program, a.Assigned, a.UnitScore)
	}
	fmt.Println()

	fmt.Printf("📊 Demand Coverage:\n\n")
	for _, s := range result.Summaries {
		marker := "✅"
		if s.Gap > 0 {
			marker = "⚠️ "
		}
		fmt.Printf("  %s %s / %s / %s: %d of %d assigned (gap %d)\n",
			marker, s.Program, s.StudentType, s.PracticeType, s.Assigned, s.Demand, s.Gap)
	}
	fmt.Println()

	fmt.Printf("🏥 Institution Utilization:\n\n")
	for _, u := range result.Utilization {
		fmt.Printf("  %-14s %-30s %3d / %3d (%.2f%%)\n",
			u.InstitutionID, u.InstitutionName, u.Assigned, u.Capacity, u.UtilizationPct)
	}
	fmt.Println()
}

// truncateName shortens a display name to max characters. Institution names
// carry accented characters, so truncation counts runes, not bytes.
func truncateName(name string, max int) string {
	runes := []rune(name)
	if len(runes) <= max {
		return name
	}
	return string(runes[:max-3]) + "..."
}
