package cli

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mverma/stride/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(appCtx *Context) error {
	m := tui.NewModel(tui.Deps{
		Client:   appCtx.Client,
		Cache:    appCtx.Cache,
		Resolver: appCtx.Resolver,
		Timeout:  appCtx.Config.RequestTimeoutSec,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
