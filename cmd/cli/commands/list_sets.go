package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/core/loader"
	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/core/services"
)

// ListSetsCmd creates the listSets command
func ListSetsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listSets",
		Short: "List the weight sets and semesters in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			sheetID, _ := cmd.Flags().GetString("sheet-id")
			workbookPath, _ := cmd.Flags().GetString("workbook")

			src, closeSrc, err := app.openSource(sheetID, workbookPath)
			if err != nil {
				return err
			}
			defer closeSrc()

			ds, err := loader.Load(src, app.Logger)
			if err != nil {
				return fmt.Errorf("failed to load input workbook: %w", err)
			}

			listing := services.ListWeightSets(ds, app.Logger)

			fmt.Printf("\n📚 Weight Catalog\n\n")
			if len(listing.Sets) == 0 {
				fmt.Printf("No weight sets found.\n\n")
				return nil
			}
			fmt.Printf("Sets (%d):\n", len(listing.Sets))
			for _, s := range listing.Sets {
				fmt.Printf("  • %s\n", s)
			}
			fmt.Printf("\nSemesters (%d):\n", len(listing.Semesters))
			for _, s := range listing.Semesters {
				fmt.Printf("  • %s\n", s)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().String("sheet-id", "", "Read the input from this Google Sheets spreadsheet")
	cmd.Flags().String("workbook", "", "Read the input from this local workbook file")

	return cmd
}
