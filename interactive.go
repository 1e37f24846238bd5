package main

import (
	"fmt"
	"os"
	"path/filepath"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
)

// runProjectFinder opens a fuzzy finder over the discoverable projects and
// returns the selected project name. A nil error with an empty string means
// the user aborted the selection.
func runProjectFinder(baseFolder string, projects []string) (string, error) {
	if len(projects) == 0 {
		return "", fmt.Errorf("no projects found under %s", baseFolder)
	}

	idx, err := fuzzyfinder.Find(
		projects,
		func(i int) string {
			return projects[i]
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return "Select a project to generate a review report for."
			}
			path := filepath.Join(baseFolder, projects[i])
			entries, readErr := os.ReadDir(path)
			if readErr != nil {
				return fmt.Sprintf("Project: %s\nError reading directory: %v", path, readErr)
			}
			return fmt.Sprintf("Project: %s\nEntries: %d", path, len(entries))
		}),
	)
	if err != nil {
		if err == fuzzyfinder.ErrAbort {
			return "", nil
		}
		return "", fmt.Errorf("fuzzy finder error: %w", err)
	}

	return projects[idx], nil
}

// listProjects returns the subdirectories of the base folder in lexical
// order; each one is a selectable project.
func listProjects(baseFolder string) ([]string, error) {
	entries, err := os.ReadDir(baseFolder)
	if err != nil {
		return nil, &NotFoundError{Path: baseFolder}
	}
	var projects []string
	for _, entry := range entries {
		if entry.IsDir() && !isHidden(entry.Name()) {
			projects = append(projects, entry.Name())
		}
	}
	return projects, nil
}
