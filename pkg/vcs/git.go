// Package vcs looks up authorship metadata for new documents.
package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNoHistory is returned when git knows nothing about the file or author.
var ErrNoHistory = errors.New("no version history")

// Provider answers who created a file and on which branch.
type Provider interface {
	// FirstCommitAuthor returns the author of the oldest commit touching filePath.
	FirstCommitAuthor(ctx context.Context, filePath string) (string, error)
	// FirstCommitBranch returns a branch containing author's oldest commit in
	// the repository enclosing dir.
	FirstCommitBranch(ctx context.Context, dir, author string) (string, error)
}

// runFunc runs git in dir and returns its stdout.
type runFunc func(ctx context.Context, dir string, args ...string) (string, error)

// GitProvider shells out to the git binary. Callers bound each call with a
// context deadline.
type GitProvider struct {
	run    runFunc
	logger *slog.Logger
}

// NewGitProvider creates a GitProvider using the git found on PATH.
func NewGitProvider(logger *slog.Logger) *GitProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &GitProvider{run: runGit, logger: logger}
}

func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return string(out), nil
}

// FirstCommitAuthor implements Provider. git log lists newest first, so the
// creator is on the last line.
func (g *GitProvider) FirstCommitAuthor(ctx context.Context, filePath string) (string, error) {
	out, err := g.run(ctx, filepath.Dir(filePath),
		"log", "--follow", "--format=%an", "--", filepath.Base(filePath))
	if err != nil {
		return "", err
	}
	author := lastLine(out)
	if author == "" {
		return "", fmt.Errorf("%w: %s", ErrNoHistory, filePath)
	}
	return author, nil
}

// FirstCommitBranch implements Provider.
func (g *GitProvider) FirstCommitBranch(ctx context.Context, dir, author string) (string, error) {
	out, err := g.run(ctx, dir,
		"log", "--all", "--reverse", "--fixed-strings", "--author="+author, "--format=%H")
	if err != nil {
		return "", err
	}
	hash := firstLine(out)
	if hash == "" {
		return "", fmt.Errorf("%w: no commits by %s", ErrNoHistory, author)
	}

	out, err = g.run(ctx, dir,
		"branch", "--all", "--contains", hash, "--format=%(refname:short)")
	if err != nil {
		return "", err
	}
	branch := firstLine(out)
	if branch == "" {
		return "", fmt.Errorf("%w: commit %s is on no branch", ErrNoHistory, hash)
	}
	g.logger.Debug("resolved first commit branch", "author", author, "commit", hash, "branch", branch)
	return branch, nil
}

func firstLine(out string) string {
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

func lastLine(out string) string {
	lines := strings.Split(out, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
