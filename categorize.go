package main

import "strings"

// rootCategory is the sentinel label for files sitting directly at the
// project root.
const rootCategory = "Root"

// Categorize groups files by the first component of their root-relative
// path. Category order and the order of files within a category follow
// first-seen order of the input, so a lexically ordered collection yields
// the same grouping on every run.
func Categorize(files []*SourceFile) []CategoryGroup {
	index := make(map[string]int)
	var groups []CategoryGroup
	for _, file := range files {
		label := categoryFor(file.RelPath)
		idx, seen := index[label]
		if !seen {
			idx = len(groups)
			index[label] = idx
			groups = append(groups, CategoryGroup{Label: label})
		}
		groups[idx].Files = append(groups[idx].Files, file)
	}
	return groups
}

// categoryFor derives the category label from a slash-separated relative
// path: the first path segment, or the root sentinel when there is none.
func categoryFor(relPath string) string {
	rel := strings.Trim(relPath, "/")
	if i := strings.IndexByte(rel, '/'); i > 0 {
		return rel[:i]
	}
	return rootCategory
}
