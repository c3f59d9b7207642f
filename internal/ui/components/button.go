package components

import (
	"charm.land/lipgloss/v2"

	"github.com/morokoshi/quizlet/internal/ui/theme"
)

// Button renders a labelled action with its key, e.g. "Enter 次へ".
type Button struct {
	Label  string
	Key    string
	Active bool
}

// NewButton creates a new button.
func NewButton(label, key string, active bool) Button {
	return Button{
		Label:  label,
		Key:    key,
		Active: active,
	}
}

// View renders the button.
func (b Button) View() string {
	label := " ▸ " + b.Label + " "
	if b.Key != "" {
		label = " " + b.Key + "  " + b.Label + " "
	}
	if b.Active {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(lipgloss.NewStyle().Foreground(theme.TextDim).Render(label))
}
