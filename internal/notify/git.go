package notify

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// InitRepo initializes a new git repository at dir.
func InitRepo(dir string) error {
	cmd := exec.Command("git", "init", "--quiet")
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git init: %s: %w", out, err)
	}
	return nil
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// CommitAll stages all files and creates a commit. Returns the short commit hash.
func CommitAll(ctx context.Context, dir, message, authorName, authorEmail string) (string, error) {
	author := fmt.Sprintf("%s <%s>", authorName, authorEmail)

	add := exec.CommandContext(ctx, "git", "add", "-A")
	add.Dir = dir
	if out, err := add.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	commit := exec.CommandContext(ctx, "git",
		"-c", "user.name="+authorName,
		"-c", "user.email="+authorEmail,
		"commit", "--quiet", "-m", message, "--author", author)
	commit.Dir = dir
	if out, err := commit.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	rev := exec.CommandContext(ctx, "git", "rev-parse", "--short", "HEAD")
	rev.Dir = dir
	out, err := rev.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// GitNotifier records every change as a commit in the data directory.
type GitNotifier struct {
	Dir         string
	AuthorName  string
	AuthorEmail string
}

// Notify commits the data directory with a message describing ev.
func (g GitNotifier) Notify(ctx context.Context, ev Event) error {
	if !IsRepo(g.Dir) {
		return fmt.Errorf("%s is not a git repository", g.Dir)
	}
	if _, err := CommitAll(ctx, g.Dir, ev.Message(), g.AuthorName, g.AuthorEmail); err != nil {
		return fmt.Errorf("committing %s: %w", ev.Op, err)
	}
	return nil
}
