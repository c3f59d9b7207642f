package review

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/morokoshi/quizlet/internal/quiz"
	"github.com/morokoshi/quizlet/internal/router"
	"github.com/morokoshi/quizlet/internal/screen"
	"github.com/morokoshi/quizlet/internal/ui/layout"
	"github.com/morokoshi/quizlet/internal/ui/theme"
)

// Result is what a finished section hands to the review screen.
type Result struct {
	Section   string
	Score     int
	Attempts  int
	Completed []quiz.Question
}

// ReviewScreen lists the completed questions with their answers.
type ReviewScreen struct {
	result Result
	offset int
}

var _ screen.Screen = (*ReviewScreen)(nil)
var _ screen.KeyHintProvider = (*ReviewScreen)(nil)
var _ screen.StatusProvider = (*ReviewScreen)(nil)

// New creates a new ReviewScreen.
func New(result Result) *ReviewScreen {
	return &ReviewScreen{result: result}
}

// FromSnapshot builds a Result from the engine's final state.
func FromSnapshot(section string, snap quiz.Snapshot) Result {
	return Result{
		Section:   section,
		Score:     snap.Score,
		Attempts:  snap.Attempts,
		Completed: snap.Completed,
	}
}

func (r *ReviewScreen) Init() tea.Cmd {
	return nil
}

func (r *ReviewScreen) Title() string {
	return "復習セクション"
}

func (r *ReviewScreen) HeaderStatus() string {
	return fmt.Sprintf("スコア %d", r.result.Score)
}

func (r *ReviewScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Enter", Description: "Home"},
		{Key: "Esc", Description: "Back"},
	}
}

func (r *ReviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "up", "k":
			if r.offset > 0 {
				r.offset--
			}
		case "down", "j":
			if r.offset < len(r.result.Completed)-1 {
				r.offset++
			}
		case "enter", "q":
			return r, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return r, nil
}

func (r *ReviewScreen) View(width, height int) string {
	res := r.result
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Primary).Bold(true).Render("復習セクション"))
	b.WriteString("\n")
	if res.Section != "" {
		b.WriteString(center.Foreground(theme.TextDim).Render(res.Section))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	stats := fmt.Sprintf("スコア: %d   回答数: %d   完了: %d",
		res.Score, res.Attempts, len(res.Completed))
	b.WriteString(center.Foreground(theme.Secondary).Bold(true).Render(stats))
	b.WriteString("\n\n")

	if len(res.Completed) == 0 {
		b.WriteString(center.Foreground(theme.TextDim).Render("完了した問題はありません"))
		return b.String()
	}

	// Each entry takes three lines: question, answer, gap.
	used := strings.Count(b.String(), "\n")
	fit := (height - used) / 3
	if fit < 1 {
		fit = 1
	}

	textWidth := min(width-8, 70)
	qStyle := lipgloss.NewStyle().Width(textWidth).Foreground(theme.Text).Bold(true)
	aStyle := lipgloss.NewStyle().Width(textWidth).Foreground(theme.Success)

	end := min(r.offset+fit, len(res.Completed))
	for i := r.offset; i < end; i++ {
		q := res.Completed[i]
		entry := qStyle.Render(fmt.Sprintf("%d. %s", i+1, q.Text)) + "\n" +
			aStyle.Render("   正解: "+q.CorrectAnswer)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, entry))
		b.WriteString("\n\n")
	}
	return b.String()
}
