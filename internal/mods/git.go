package mods

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
)

var ErrNotGitRepo = errors.New("not a git repository")

// IsGitRepo checks if a mod directory is a git checkout
func IsGitRepo(path string) bool {
	_, err := git.PlainOpen(path)
	return err == nil
}

// Revision returns the short HEAD hash of a mod checked out with git
func Revision(path string) (string, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotGitRepo, err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}

	return head.Hash().String()[:8], nil
}
