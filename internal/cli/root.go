package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"practiceplan-cli/internal/config"
	"practiceplan-cli/internal/format"
	"practiceplan-cli/internal/logging"
	"practiceplan-cli/internal/store"
)

type App struct {
	Dir        string
	PrettyJSON bool
	Format     string
	LogLevel   string

	Config *config.Config
	Log    *zap.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "practiceplan",
		Short:        "Practice plan editor (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive editor
  practiceplan

  # Create a plan in ./.practiceplan
  practiceplan init --name "Tuesday"

  # Move an item to the end of another section
  practiceplan drag item <item-id> --to "Half Court"
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive editor.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup(cmd)
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("PRACTICEPLAN_DIR", ""), "Path to the workspace dir (default: nearest .practiceplan)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("PRACTICEPLAN_FORMAT", "json"), "Output format (json|text)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error); default from config")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newSectionsCmd(app))
	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newGroupsCmd(app))
	cmd.AddCommand(newDragCmd(app))
	cmd.AddCommand(newUndoCmd(app))
	cmd.AddCommand(newRedoCmd(app))
	cmd.AddCommand(newHistoryCmd(app))

	return cmd
}

// setup loads config, builds the stderr logger and resolves the workspace dir.
func (app *App) setup(cmd *cobra.Command) error {
	cfgDir, err := store.ConfigDir()
	if err != nil {
		return writeErr(cmd, err)
	}
	cfg, err := config.Load(cfgDir)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.Config = cfg

	level := app.LogLevel
	if level == "" {
		level = cfg.LogLevel
	}
	log, err := logging.New(level, cmd.ErrOrStderr())
	if err != nil {
		return writeErr(cmd, err)
	}
	app.Log = log

	if app.Dir == "" {
		app.Dir = cfg.DataDir
	}
	if app.Dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return writeErr(cmd, err)
		}
		app.Dir = d
	}
	return nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
