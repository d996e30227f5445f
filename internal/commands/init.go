package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/pocket/internal/config"
	"github.com/cleared-dev/pocket/internal/id"
	"github.com/cleared-dev/pocket/internal/notify"
	"github.com/cleared-dev/pocket/internal/store"
)

type initOptions struct {
	name     string
	email    string
	currency string
	noGit    bool
}

func newInitCommand() *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new pocket ledger",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := ledgerDir(cmd)
			if err != nil {
				return err
			}
			if len(args) > 0 {
				if dir, err = filepath.Abs(args[0]); err != nil {
					return fmt.Errorf("resolving path: %w", err)
				}
			}
			return runInit(cmd.Context(), cmd.OutOrStdout(), dir, opts)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "owner name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&opts.email, "email", "", "owner email")
	cmd.Flags().StringVar(&opts.currency, "currency", "USD", "ISO 4217 currency code")
	cmd.Flags().BoolVar(&opts.noGit, "no-git", false, "do not keep the ledger under git")

	return cmd
}

func runInit(ctx context.Context, out io.Writer, dir string, opts initOptions) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	for _, d := range []string{"logs", "import", filepath.Join("import", "processed")} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default(opts.name, opts.email)
	cfg.Currency = opts.currency
	cfg.Sync.Git = !opts.noGit
	if cfg.Sync.AuthorEmail == "" {
		cfg.Sync.AuthorEmail = "pocket@localhost"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		return err
	}

	st := store.New(filepath.Join(dir, cfg.Data.File), store.Options{DefaultDueDay: cfg.Cards.DefaultDueDay}, id.UUID{})
	if err := st.Save(store.DefaultState(id.UUID{})); err != nil {
		return fmt.Errorf("writing ledger: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}
	gitignore := "exports/\nimport/*.csv\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if !cfg.Sync.Git {
		fmt.Fprintf(out, "Initialized pocket ledger at %s\n", dir)
		return nil
	}

	if err := notify.InitRepo(dir); err != nil {
		return err
	}
	hash, err := notify.CommitAll(ctx, dir, notify.Event{Op: "init", Summary: "initialize ledger for " + opts.name}.Message(),
		cfg.Sync.AuthorName, cfg.Sync.AuthorEmail)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(out, "Initialized pocket ledger at %s (%s)\n", dir, hash)
	return nil
}
