package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/morokoshi/quizlet/internal/bank"
	"github.com/morokoshi/quizlet/internal/quiz"
	"github.com/morokoshi/quizlet/internal/router"
	"github.com/morokoshi/quizlet/internal/screen"
	"github.com/morokoshi/quizlet/internal/screens/home"
	"github.com/morokoshi/quizlet/internal/screens/play"
	"github.com/morokoshi/quizlet/internal/screens/sections"
	"github.com/morokoshi/quizlet/internal/screens/welcome"
	"github.com/morokoshi/quizlet/internal/ui/layout"
)

// Options holds the dependencies for the application.
type Options struct {
	Bank *bank.Bank
	Play play.Config

	// StartSection, when positive, opens that 1-based section directly
	// on top of the home screen.
	StartSection int

	// Splash shows the welcome screen first. Ignored with StartSection.
	Splash bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	initCmd tea.Cmd
	width   int
	height  int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	var (
		title string
		secs  []quiz.Section
	)
	if opts.Bank != nil {
		title = opts.Bank.Title
		secs = opts.Bank.Sections
	}
	newHome := func() screen.Screen { return home.New(title, secs, opts.Play) }

	if opts.StartSection > 0 {
		return AppModel{
			router:  router.New(newHome()),
			initCmd: sections.PlayCmd(secs, opts.StartSection-1, opts.Play),
		}
	}
	if opts.Splash {
		w := welcome.New(title, newHome)
		return AppModel{router: router.New(w), initCmd: w.Init()}
	}
	return AppModel{router: router.New(newHome())}
}

func (m AppModel) Init() tea.Cmd {
	return m.initCmd
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.HeaderStatus()
		}
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if kp, ok := active.(screen.KeyHintProvider); ok {
		return append(kp.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	log := opts.Play.Logger
	if log == nil {
		log = zap.NewNop()
	}

	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		log.Error("program exited with error", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
