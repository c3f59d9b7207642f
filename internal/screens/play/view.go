package play

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/morokoshi/quizlet/internal/quiz"
	"github.com/morokoshi/quizlet/internal/ui/components"
	"github.com/morokoshi/quizlet/internal/ui/theme"
)

func (s *PlayScreen) View(width, height int) string {
	snap := s.engine.Snapshot()
	if snap.Feedback != nil {
		return s.renderFeedback(snap, width)
	}
	if snap.Current == nil {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  集計中...")
	}
	return s.renderQuestion(snap, width)
}

// renderQuestion renders the progress line, the prompt and its input.
func (s *PlayScreen) renderQuestion(snap quiz.Snapshot, width int) string {
	var b strings.Builder

	total := len(snap.Completed) + snap.Remaining
	bar := components.NewProgressBar(len(snap.Completed), total, min(width-8, 60))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	q := snap.Current
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(q.Text))
	b.WriteString("\n\n")

	if snap.Phase == quiz.PhaseMultipleChoice {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choices.View()))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("番号または ↑↓ + Enter で選択"))
		return b.String()
	}

	if q.MultipleChoiceCleared {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("選択肢なしで答えてください"))
		b.WriteString("\n\n")
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render("答え: " + s.input.View()))
	return b.String()
}

// renderFeedback renders the result of the last submission.
func (s *PlayScreen) renderFeedback(snap quiz.Snapshot, width int) string {
	fb := snap.Feedback
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n\n")

	if fb.WasCorrect {
		b.WriteString(center.Foreground(theme.Success).Bold(true).Render("正解！"))
	} else {
		b.WriteString(center.Foreground(theme.Error).Bold(true).Render("不正解！"))
	}
	b.WriteString("\n\n")

	b.WriteString(center.Foreground(theme.TextDim).Render(fb.Question))
	b.WriteString("\n\n")

	if !fb.WasCorrect || fb.NeedsRetry {
		b.WriteString(center.Foreground(theme.Text).Render("あなたの答えは：" + fb.UserAnswer))
		b.WriteString("\n")
		b.WriteString(center.Foreground(theme.Success).Render("正しい答えは: " + fb.CorrectAnswer))
		b.WriteString("\n\n")
	}

	if snap.AwaitingRetry {
		b.WriteString(center.Render(s.retry.View()))
		b.WriteString("\n\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			components.NewButton("再送信", "Enter", s.retry.Value() != "").View()))
		return b.String()
	}

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.NewButton("次へ", "Enter", true).View()))
	if fb.AutoDismissAfter > 0 {
		b.WriteString("\n\n")
		b.WriteString(center.Foreground(theme.TextDim).Italic(true).Render("まもなく次の問題へ進みます"))
	}
	return b.String()
}
