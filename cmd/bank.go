package cmd

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Manage question banks",
}

var bankValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a bank file without importing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBankFile(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%q, version %s, %d sections, %d questions)\n",
			args[0], b.Title, b.Version, len(b.Sections), b.QuestionCount())
		return nil
	},
}

var bankImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a bank file into the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBankFile(args[0])
		if err != nil {
			return err
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		id, err := st.BankRepo().Import(cmd.Context(), b, args[0])
		if err != nil {
			return fmt.Errorf("import bank: %w", err)
		}
		log.Info("imported bank", zap.String("id", id.String()), zap.String("source", args[0]))
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}

var bankListCmd = &cobra.Command{
	Use:   "list",
	Short: "List imported banks",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		banks, err := st.BankRepo().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list banks: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(banks) == 0 {
			fmt.Fprintln(out, "No banks imported.")
			return nil
		}

		// Header.
		fmt.Fprintf(out, "%-36s  %-28s  %-8s  %8s  %9s  %s\n",
			"ID", "Title", "Version", "Sections", "Questions", "Imported")
		fmt.Fprintln(out, strings.Repeat("─", 112))

		for _, b := range banks {
			title := b.Title
			if len([]rune(title)) > 28 {
				title = string([]rune(title)[:25]) + "..."
			}
			fmt.Fprintf(out, "%-36s  %-28s  %-8s  %8d  %9d  %s\n",
				b.ID, title, b.Version, b.Sections, b.Questions,
				b.ImportedAt.Local().Format("2006-01-02 15:04"))
		}

		fmt.Fprintf(out, "\n%d banks\n", len(banks))
		return nil
	},
}

var bankRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove an imported bank",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid bank ID %q: %w", args[0], err)
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.BankRepo().Delete(cmd.Context(), id); err != nil {
			return fmt.Errorf("remove bank %s: %w", id, err)
		}
		log.Info("removed bank", zap.String("id", id.String()))
		return nil
	},
}

func init() {
	bankCmd.AddCommand(bankValidateCmd)
	bankCmd.AddCommand(bankImportCmd)
	bankCmd.AddCommand(bankListCmd)
	bankCmd.AddCommand(bankRmCmd)
}
