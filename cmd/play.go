package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/morokoshi/quizlet/internal/app"
	"github.com/morokoshi/quizlet/internal/bank"
	"github.com/morokoshi/quizlet/internal/config"
	"github.com/morokoshi/quizlet/internal/logger"
	"github.com/morokoshi/quizlet/internal/quiz"
	"github.com/morokoshi/quizlet/internal/screens/play"
)

// playOptions selects the bank and the section to open.
type playOptions struct {
	section int
	bankID  string
	file    string
	splash  bool
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a quiz",
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts playOptions
		opts.section, _ = cmd.Flags().GetInt("section")
		opts.bankID, _ = cmd.Flags().GetString("bank")
		opts.file, _ = cmd.Flags().GetString("file")
		if opts.bankID != "" && opts.file != "" {
			return fmt.Errorf("use --bank or --file, not both")
		}
		if opts.section < 0 {
			return fmt.Errorf("--section must be positive")
		}
		return runApp(cmd, opts)
	},
}

func init() {
	playCmd.Flags().Int("section", 0, "Open this section (1-based) directly")
	playCmd.Flags().String("bank", "", "Play an imported bank by ID (see 'quizlet bank list')")
	playCmd.Flags().String("file", "", "Play a bank file without importing it")
}

// runApp resolves the bank, builds the TUI logger, and launches the TUI.
func runApp(cmd *cobra.Command, opts playOptions) error {
	b, err := resolveBank(cmd, opts)
	if err != nil {
		return err
	}
	if opts.section > len(b.Sections) {
		return fmt.Errorf("section %d out of range: bank has %d sections", opts.section, len(b.Sections))
	}

	tuiLog, err := logger.NewTUI(cfg)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = tuiLog.Sync() }()
	tuiLog.Info("starting quiz",
		zap.String("bank", b.Title),
		zap.Int("sections", len(b.Sections)),
		zap.Int("questions", b.QuestionCount()),
	)

	return app.Run(app.Options{
		Bank: b,
		Play: play.Config{
			Logger:        tuiLog,
			EngineOptions: engineOptions(cfg.Quiz),
		},
		StartSection: opts.section,
		Splash:       opts.splash,
	})
}

// resolveBank picks the bank to play: --bank, then --file, then the
// bank_file setting, then the built-in bank.
func resolveBank(cmd *cobra.Command, opts playOptions) (*bank.Bank, error) {
	switch {
	case opts.bankID != "":
		id, err := uuid.Parse(opts.bankID)
		if err != nil {
			return nil, fmt.Errorf("invalid bank ID %q: %w", opts.bankID, err)
		}
		st, err := openStore(cmd)
		if err != nil {
			return nil, err
		}
		defer st.Close()
		b, err := st.BankRepo().Load(cmd.Context(), id)
		if err != nil {
			return nil, fmt.Errorf("load bank %s: %w", id, err)
		}
		return b, nil

	case opts.file != "":
		return loadBankFile(opts.file)

	case cfg.BankFile != "":
		return loadBankFile(cfg.BankFile)
	}
	return bank.Default(), nil
}

func loadBankFile(path string) (*bank.Bank, error) {
	b, err := bank.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// engineOptions maps quiz settings to engine options. A zero auto-dismiss
// delay keeps retry feedback on screen until dismissed.
func engineOptions(q config.Quiz) []quiz.Option {
	opts := []quiz.Option{
		quiz.WithShuffle(q.Shuffle),
		quiz.WithTrimSpace(q.TrimSpace),
	}
	if q.AutoDismiss <= 0 {
		return append(opts, quiz.WithScheduler(nil))
	}
	return append(opts, quiz.WithAutoDismissDelay(q.AutoDismiss))
}
