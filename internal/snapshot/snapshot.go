// Package snapshot keeps a local git history of the export directory, one
// commit per run that changed an artifact.
package snapshot

import (
	"errors"
	"fmt"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Commit stages every change under dir and commits it with the given
// message, initializing the repository on first use. A clean worktree
// commits nothing and reports committed=false.
func Commit(dir, message string) (hash string, committed bool, err error) {
	repo, err := git.PlainOpen(dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		repo, err = git.PlainInit(dir, false)
	}
	if err != nil {
		return "", false, fmt.Errorf("open export history: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return "", false, err
	}

	status, err := wt.Status()
	if err != nil {
		return "", false, err
	}
	if status.IsClean() {
		return "", false, nil
	}

	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return "", false, fmt.Errorf("stage export artifacts: %w", err)
	}

	commit, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "azfleet",
			Email: "azfleet@localhost",
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", false, fmt.Errorf("commit export artifacts: %w", err)
	}

	return commit.String()[:8], true, nil
}
