package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/morokoshi/quizlet/internal/quiz"
	"github.com/morokoshi/quizlet/internal/router"
	"github.com/morokoshi/quizlet/internal/screen"
	"github.com/morokoshi/quizlet/internal/screens/play"
	"github.com/morokoshi/quizlet/internal/screens/sections"
	"github.com/morokoshi/quizlet/internal/ui/components"
	"github.com/morokoshi/quizlet/internal/ui/theme"
)

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	bankTitle  string
	sections   []quiz.Section
	menu       components.Menu
	menuLabels []string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen over the bank's sections. The slice is
// shared with the screens it opens.
func New(bankTitle string, secs []quiz.Section, cfg play.Config) *HomeScreen {
	menuLabels := []string{"START QUIZ", "SECTIONS", "EXIT"}

	items := []components.MenuItem{
		{Label: menuLabels[0], Action: func() tea.Cmd {
			return sections.PlayCmd(secs, NextSection(secs), cfg)
		}},
		{Label: menuLabels[1], Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: sections.New(secs, cfg)}
			}
		}},
		{Label: menuLabels[2], Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		bankTitle:  bankTitle,
		sections:   secs,
		menu:       components.NewMenu(items),
		menuLabels: menuLabels,
	}
}

// NextSection returns the index of the first section that is not yet
// completed, or 0 when all are.
func NextSection(secs []quiz.Section) int {
	for i := range secs {
		if secs[i].Status != quiz.Completed {
			return i
		}
	}
	return 0
}

// Counts tallies the sections by status.
func Counts(secs []quiz.Section) (notStarted, started, completed int) {
	for i := range secs {
		switch secs[i].Status {
		case quiz.Started:
			started++
		case quiz.Completed:
			completed++
		default:
			notStarted++
		}
	}
	return
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header, footer and gaps.
	termHeight := height + 8
	compact := termHeight < 30 || width < 100

	cw := components.ContentWidth(width)

	var parts []string
	parts = append(parts, h.renderTitle(cw, compact))
	if !compact {
		parts = append(parts, lipgloss.NewStyle().
			Width(cw).
			Align(lipgloss.Center).
			Render(RenderMascot(h.mascot())))
	}
	parts = append(parts, components.ScoreBox(h.renderStats(compact), cw))
	parts = append(parts, components.ArcadeMenu(h.menuLabels, h.menu.Selected, cw, compact))

	return components.CabinetFrame(strings.Join(parts, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) mascot() MascotVariant {
	_, _, completed := Counts(h.sections)
	if len(h.sections) > 0 && completed == len(h.sections) {
		return MascotCelebrating
	}
	return MascotIdle
}

func (h *HomeScreen) renderTitle(cw int, compact bool) string {
	title := components.Banner(compact || cw < components.BannerWidth)
	if h.bankTitle != "" {
		title += "\n\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.bankTitle)
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(title)
}

func (h *HomeScreen) renderStats(compact bool) string {
	notStarted, started, completed := Counts(h.sections)

	done := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	doing := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)
	todo := lipgloss.NewStyle().Foreground(theme.TextDim)

	if compact {
		return fmt.Sprintf("%s %s %s",
			done.Render(fmt.Sprintf("%s%d", quiz.Completed.Glyph(), completed)),
			doing.Render(fmt.Sprintf("%s%d", quiz.Started.Glyph(), started)),
			todo.Render(fmt.Sprintf("%s%d", quiz.NotStarted.Glyph(), notStarted)),
		)
	}
	return fmt.Sprintf("%s  %s  %s",
		done.Render(fmt.Sprintf("%s %d DONE", quiz.Completed.Glyph(), completed)),
		doing.Render(fmt.Sprintf("%s %d IN PROGRESS", quiz.Started.Glyph(), started)),
		todo.Render(fmt.Sprintf("%s %d NEW", quiz.NotStarted.Glyph(), notStarted)),
	)
}
