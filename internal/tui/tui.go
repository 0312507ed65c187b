package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Run opens the editor full screen. Mouse cell motion is what drives dragging.
func Run(opts Options) error {
	applyThemePreference()
	applyColorProfilePreference()

	m := newEditorModel(opts)
	if vs, err := opts.Store.LoadTUIState(); err == nil {
		m.restoreViewState(vs)
	} else if opts.Logger != nil {
		opts.Logger.Warn("view state not loaded", zap.Error(err))
	}
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
