package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// isGitURL checks if the selected project looks like a Git repository URL
// rather than a local directory.
func isGitURL(input string) bool {
	return strings.HasSuffix(input, ".git") ||
		strings.HasPrefix(input, "git@")
}

// cloneGitRepo clones a Git repository URL into a temporary directory so it
// can be scanned like a local project. It returns the path to the temporary
// directory; the caller removes it when the run finishes.
func cloneGitRepo(url string) (string, error) {
	tempDir, err := os.MkdirTemp("", "xcreview-git-")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary directory: %w", err)
	}

	fmt.Printf("Cloning %s into %s...\n", url, tempDir)
	_, err = git.PlainClone(tempDir, false, &git.CloneOptions{
		URL:           url,
		Progress:      os.Stderr,
		ReferenceName: plumbing.HEAD,
		SingleBranch:  true,
	})
	if err != nil {
		_ = os.RemoveAll(tempDir)
		return "", fmt.Errorf("failed to clone repository '%s': %w", url, err)
	}
	return tempDir, nil
}

// projectNameFromGitURL derives a report name from a repository URL.
func projectNameFromGitURL(url string) string {
	name := strings.TrimSuffix(url, ".git")
	if i := strings.LastIndexAny(name, "/:"); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return "repository"
	}
	return name
}
