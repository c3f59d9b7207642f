package sections

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/morokoshi/quizlet/internal/quiz"
	"github.com/morokoshi/quizlet/internal/router"
	"github.com/morokoshi/quizlet/internal/screen"
	"github.com/morokoshi/quizlet/internal/screens/placeholder"
	"github.com/morokoshi/quizlet/internal/screens/play"
	"github.com/morokoshi/quizlet/internal/ui/components"
	"github.com/morokoshi/quizlet/internal/ui/layout"
	"github.com/morokoshi/quizlet/internal/ui/theme"
)

// SectionsScreen lists a bank's sections with their status badges.
type SectionsScreen struct {
	sections []quiz.Section
	cfg      play.Config
	menu     components.Menu
}

var _ screen.Screen = (*SectionsScreen)(nil)
var _ screen.KeyHintProvider = (*SectionsScreen)(nil)
var _ screen.Resumer = (*SectionsScreen)(nil)

// New creates a SectionsScreen. Sections are shared with the caller so
// status changes made while playing show up here.
func New(sections []quiz.Section, cfg play.Config) *SectionsScreen {
	s := &SectionsScreen{sections: sections, cfg: cfg}
	s.menu = components.NewMenu(s.items())
	return s
}

// Label returns the list label for the 1-based section number.
func Label(number int) string {
	return fmt.Sprintf("第%d セクション", number)
}

// Badge returns the styled status glyph for a section.
func Badge(st quiz.Status) string {
	switch st {
	case quiz.Started:
		return theme.StatusStarted.Render(st.Glyph())
	case quiz.Completed:
		return theme.StatusCompleted.Render(st.Glyph())
	}
	return theme.StatusNotStarted.Render(st.Glyph())
}

// PlayCmd returns the command that opens section i (0-based).
func PlayCmd(sections []quiz.Section, i int, cfg play.Config) tea.Cmd {
	if i < 0 || i >= len(sections) {
		return func() tea.Msg {
			return router.PushScreenMsg{Screen: placeholder.New("セクション", "このセクションは見つかりません")}
		}
	}
	sec := &sections[i]
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: play.New(sec, i+1, cfg)}
	}
}

func (s *SectionsScreen) items() []components.MenuItem {
	items := make([]components.MenuItem, len(s.sections))
	for i := range s.sections {
		sec := &s.sections[i]
		label := Label(i + 1)
		if !sameLabel(sec.Title, label) {
			label += "  " + sec.Title
		}
		items[i] = components.MenuItem{
			Label:  label,
			Badge:  Badge(sec.Status),
			Action: func() tea.Cmd { return PlayCmd(s.sections, i, s.cfg) },
		}
	}
	return items
}

// sameLabel reports whether a section title only repeats its number,
// as in "第1セクション".
func sameLabel(title, label string) bool {
	strip := strings.NewReplacer(" ", "", "　", "")
	return title == "" || strip.Replace(title) == strip.Replace(label)
}

func (s *SectionsScreen) Init() tea.Cmd {
	return nil
}

// Resume refreshes the badges after a section was played.
func (s *SectionsScreen) Resume() tea.Cmd {
	selected := s.menu.Selected
	s.menu = components.NewMenu(s.items())
	s.menu.Selected = selected
	return nil
}

func (s *SectionsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *SectionsScreen) View(width, height int) string {
	if len(s.sections) == 0 {
		return placeholder.New("セクション", "セクションがありません").View(width, height)
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("セクション一覧"))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.menu.View()))
	b.WriteString("\n")

	legend := fmt.Sprintf("%s 未着手   %s 学習中   %s 完了",
		Badge(quiz.NotStarted), Badge(quiz.Started), Badge(quiz.Completed))
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(legend))
	return b.String()
}

func (s *SectionsScreen) Title() string {
	return "Sections"
}

func (s *SectionsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "1-9", Description: "Jump"},
		{Key: "Enter", Description: "Play"},
		{Key: "Esc", Description: "Back"},
	}
}
