// Package gitsync commits and pushes the data directory to the tracker's
// git remote. It shells out to the system git binary so the CI runner's
// credentials and hooks apply unchanged.
package gitsync

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Config identifies the committer and the push target.
type Config struct {
	AuthorName  string `mapstructure:"author_name"`
	AuthorEmail string `mapstructure:"author_email"`
	// Remote is the push URL, typically carrying an access token. Empty
	// disables pushing (commit only).
	Remote string `mapstructure:"remote"`
	Branch string `mapstructure:"branch"`
	// WorkDir is the repository root holding the data directory.
	WorkDir string `mapstructure:"work_dir"`
}

// Syncer runs the add/commit/push sequence.
type Syncer struct {
	cfg    Config
	logger *zap.Logger
	// runGit is swappable for tests.
	runGit func(ctx context.Context, dir string, args ...string) (string, error)
}

// New builds a Syncer.
func New(cfg Config, logger *zap.Logger) *Syncer {
	if cfg.Branch == "" {
		cfg.Branch = "master"
	}
	return &Syncer{cfg: cfg, logger: logger, runGit: runGitCommand}
}

// Sync stages every YAML document under the data directory, commits with a
// sync message carrying the run ID, and pushes when a remote is configured.
// "Nothing to commit" is a normal outcome, not an error.
func (s *Syncer) Sync(ctx context.Context, now time.Time, runID string) error {
	if _, err := s.runGit(ctx, s.cfg.WorkDir, "add", "--all", "--", "*.yml"); err != nil {
		return fmt.Errorf("git add: %w", err)
	}

	message := fmt.Sprintf("sync: %s\n\nRun-ID: %s", now.Format("2006-01-02 15:04:05"), runID)
	out, err := s.runGit(ctx, s.cfg.WorkDir,
		"-c", "user.name="+s.cfg.AuthorName,
		"-c", "user.email="+s.cfg.AuthorEmail,
		"commit", "-m", message,
	)
	if err != nil {
		if strings.Contains(out, "nothing to commit") {
			s.logger.Info("No data changes to commit")
			return nil
		}
		return fmt.Errorf("git commit: %w", err)
	}

	if s.cfg.Remote == "" {
		s.logger.Info("No remote configured; skipping push")
		return nil
	}
	if _, err := s.runGit(ctx, s.cfg.WorkDir, "push", "-q", s.cfg.Remote, "HEAD:"+s.cfg.Branch); err != nil {
		return fmt.Errorf("git push: %w", err)
	}
	return nil
}

func runGitCommand(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}
