package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"practiceplan-cli/internal/logging"
	"practiceplan-cli/internal/store"
	"practiceplan-cli/internal/tui"
)

// runTUI opens the editor. Logs go to the workspace log file so they never paint over
// the screen.
func runTUI(cmd *cobra.Command, app *App) error {
	level := app.LogLevel
	if level == "" {
		level = app.Config.LogLevel
	}
	log, closeLog, err := logging.NewFile(level, store.Store{Dir: app.Dir}.LogPath())
	if err != nil {
		return writeErr(cmd, err)
	}
	defer func() { _ = closeLog() }()
	app.Log = log

	s, err := openSession(cmd.Context(), app)
	if err != nil {
		return writeErr(cmd, err)
	}
	log.Info("editor started", zap.String("dir", app.Dir), zap.String("plan", s.plan.ID))

	return tui.Run(tui.Options{
		Store:  s.st,
		Plan:   s.plan,
		List:   s.list,
		Ledger: s.ledger,
		Engine: app.Config.EngineOptions(),
		Logger: log,
	})
}
