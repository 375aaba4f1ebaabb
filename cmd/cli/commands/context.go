package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/internal/config"
	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/clients/sheetsclient"
	"github.com/JuanArias2206/modelo-optimizacion-estudiantes/pkg/workbook"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg    *config.Config
	Env    string
	Logger *zap.Logger
	Ctx    context.Context
}

// closeFunc releases whatever resources a workbook source holds. It is a
// no-op for spreadsheet-backed sources.
type closeFunc func() error

// loadOAuthClient reads the OAuth credentials for the spreadsheet source,
// preferring the path configured in oauthClientPath over env-suffixed
// discovery.
func (app *AppContext) loadOAuthClient() (*config.OAuthClientConfig, error) {
	if app.Cfg.OAuthClientPath != "" {
		return config.LoadOAuthClientFromPath(app.Cfg.OAuthClientPath)
	}
	return config.LoadOAuthClientWithEnv(app.Env)
}

// openSource opens the input workbook. A non-empty sheetID (from flag or
// config) selects the Google Sheets source and triggers the OAuth flow;
// otherwise the local workbook file is opened. OAuth credentials are only
// loaded when the spreadsheet source is actually used.
func (app *AppContext) openSource(sheetID, workbookPath string) (workbook.Source, closeFunc, error) {
	if sheetID == "" {
		sheetID = app.Cfg.WorkbookSheetID
	}
	if workbookPath == "" {
		workbookPath = app.Cfg.WorkbookPath
	}

	if sheetID != "" {
		app.Logger.Info("Opening spreadsheet source", zap.String("spreadsheet_id", sheetID))

		oauthCfg, err := app.loadOAuthClient()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load OAuth client config: %w", err)
		}

		client, err := sheetsclient.NewClient(app.Ctx, oauthCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create sheets client: %w", err)
		}

		src, err := sheetsclient.NewWorkbookSource(client, sheetID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open spreadsheet: %w", err)
		}
		return src, func() error { return nil }, nil
	}

	if workbookPath == "" {
		return nil, nil, fmt.Errorf("no input workbook: set workbookPath or workbookSheetID in config, or pass --workbook or --sheet-id")
	}

	app.Logger.Info("Opening workbook file", zap.String("path", workbookPath))
	src, err := workbook.OpenXLSX(workbookPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	return src, src.Close, nil
}
