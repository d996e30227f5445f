package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/pocket/internal/importer"
)

type importOptions struct {
	source       string
	format       string
	account      string
	card         string
	installments int
	dryRun       bool
}

func newImportCommand() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Import bank CSV exports",
		Long: "Import bank CSV exports into an account or card. Without files, every CSV in\n" +
			"the ledger's import/ directory is imported and moved to import/processed/.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			return runImport(s, cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.source, "source", "", "named import source from pocket.yaml")
	cmd.Flags().StringVar(&opts.format, "format", "", "file format: chase or simple")
	cmd.Flags().StringVar(&opts.account, "account", "", "book rows on this account")
	cmd.Flags().StringVar(&opts.card, "card", "", "book rows as purchases on this card")
	cmd.Flags().IntVar(&opts.installments, "installments", 1, "installments per card purchase")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "show what would be imported")

	return cmd
}

func runImport(s *session, cmd *cobra.Command, opts importOptions, files []string) error {
	if opts.source != "" {
		src, ok := s.cfg.Source(opts.source)
		if !ok {
			return fmt.Errorf("unknown import source %q", opts.source)
		}
		if !cmd.Flags().Changed("format") {
			opts.format = src.Format
		}
		if !cmd.Flags().Changed("account") && !cmd.Flags().Changed("card") {
			opts.account, opts.card = src.Account, src.Card
		}
	}

	parser := importer.DefaultRegistry().Get(opts.format)
	if parser == nil {
		return fmt.Errorf("unknown import format %q", opts.format)
	}

	target := importer.Target{Installments: opts.installments}
	var err error
	switch {
	case opts.card != "":
		target.CardID, err = s.card(opts.card)
	case opts.account != "":
		target.AccountID, err = s.account(opts.account)
	default:
		err = fmt.Errorf("--account, --card or --source is required")
	}
	if err != nil {
		return err
	}

	scanned := len(files) == 0
	if scanned {
		found, err := importer.Scan(s.dir)
		if err != nil {
			return err
		}
		if len(found) == 0 {
			s.printf("Nothing to import\n")
			return nil
		}
		for _, f := range found {
			files = append(files, f.Path)
		}
	}

	for _, path := range files {
		n, err := importFile(s, parser, target, path, opts.dryRun)
		if err != nil {
			return fmt.Errorf("importing %s: %w", filepath.Base(path), err)
		}
		if scanned && !opts.dryRun {
			if err := importer.MarkProcessed(s.dir, filepath.Base(path)); err != nil {
				return err
			}
		}
		s.log.Info().Str("file", path).Int("imported", n).Msg("import done")
	}
	return nil
}

func importFile(s *session, parser importer.Parser, target importer.Target, path string, dryRun bool) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	rows, err := parser.Parse(f)
	if err != nil {
		return 0, err
	}
	ins, skipped, err := importer.Plan(rows, target, s.engine.View().State)
	if err != nil {
		return 0, err
	}

	name := filepath.Base(path)
	for _, sk := range skipped {
		s.printf("skip %s %s %s: %s\n", sk.Row.Date, sk.Row.Description, s.signed(sk.Row.Amount), sk.Reason)
	}
	if dryRun {
		for _, in := range ins {
			s.printf("add  %s %s %s %s\n", in.Date, in.Kind, in.Description, s.money(in.Amount))
		}
		s.printf("%s: %d to import, %d skipped (dry run)\n", name, len(ins), len(skipped))
		return 0, nil
	}
	if len(ins) == 0 {
		s.printf("%s: nothing new, %d skipped\n", name, len(skipped))
		return 0, nil
	}

	v, err := s.engine.AddTransactions(ins)
	if err != nil {
		return 0, err
	}
	if err := s.commit("import", fmt.Sprintf("%d transactions from %s", len(ins), name), v); err != nil {
		return 0, err
	}
	s.printf("%s: imported %d, skipped %d\n", name, len(ins), len(skipped))
	return len(ins), nil
}
