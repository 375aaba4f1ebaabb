package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/cmd/cli/commands"
	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/internal/config"
	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/utils/logging"
)

var (
	env string
	app *commands.AppContext
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "modelo",
		Short: "Student placement optimizer - assign students to practice institutions",
		Long:  `A CLI tool for allocating students to practice institutions by weighted quality and cost criteria, solved as an assignment problem.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	// Add persistent environment flag
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	// Add all commands
	rootCmd.AddCommand(commands.OptimizeCmd(appRef()))
	rootCmd.AddCommand(commands.ValidateWeightsCmd(appRef()))
	rootCmd.AddCommand(commands.ListSetsCmd(appRef()))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// appRef returns the shared context handle; the fields are populated by
// initApp before any RunE executes.
func appRef() *commands.AppContext {
	if app == nil {
		app = &commands.AppContext{}
	}
	return app
}

// initApp sets up logger and config
func initApp() error {
	var err error
	ctx := appRef()
	ctx.Ctx = context.Background()
	ctx.Env = env

	// Initialize logger
	ctx.Logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx.Logger.Info("Starting application", zap.String("environment", env))

	// Load configuration
	ctx.Logger.Info("Loading configuration")
	ctx.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	ctx.Logger.Debug("Configuration loaded successfully")

	return nil
}
