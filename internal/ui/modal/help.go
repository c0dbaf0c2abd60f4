package modal

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kyleking/lazylinear/internal/ui"
)

// HelpModal lists the key bindings.
type HelpModal struct {
	groups [][]key.Binding
	help   help.Model
	done   bool
	keys   helpKeyMap
}

type helpKeyMap struct {
	Close key.Binding
}

func defaultHelpKeyMap() helpKeyMap {
	return helpKeyMap{
		Close: key.NewBinding(key.WithKeys("esc", "q", "?")),
	}
}

// NewHelpModal creates a help modal for the given binding columns.
func NewHelpModal(groups [][]key.Binding) *HelpModal {
	h := help.New()
	h.ShowAll = true
	h.Styles.FullKey = ui.SelectedStyle
	h.Styles.FullDesc = ui.NormalStyle
	h.Styles.FullSeparator = ui.HelpStyle
	return &HelpModal{
		groups: groups,
		help:   h,
		keys:   defaultHelpKeyMap(),
	}
}

// Update closes the modal on esc, q or ?.
func (m *HelpModal) Update(msg tea.Msg) (Context, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Close) {
		m.done = true
	}
	return m, nil
}

// View renders the help modal.
func (m *HelpModal) View() string {
	return ui.TitleStyle.Render("Keys") + "\n\n" +
		m.help.FullHelpView(m.groups) + "\n\n" +
		ui.HelpStyle.Render("esc close")
}

// IsDone returns true if the modal is finished.
func (m *HelpModal) IsDone() bool {
	return m.done
}

// Result returns nil for the help modal.
func (m *HelpModal) Result() any {
	return nil
}
