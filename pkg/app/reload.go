package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dicklesworthstone/chipselect/pkg/loader"
)

// LoadCmd reads the sources and delivers the result as a ReloadMsg
func LoadCmd(ctx context.Context, sources []loader.Source) tea.Cmd {
	return func() tea.Msg {
		return Load(ctx, sources)
	}
}

// Load reads the sources synchronously. Watchers call it from their goroutine
// and hand the message to the running program.
func Load(ctx context.Context, sources []loader.Source) ReloadMsg {
	records, err := loader.LoadAll(ctx, sources)
	return ReloadMsg{Records: records, Err: err}
}
