package main

import (
	"fmt"
	"sort"
	"strings"
)

// Node represents an entry in the project structure tree.
type Node struct {
	Name     string
	IsDir    bool
	Children []*Node
}

// ReportOptions controls the optional sections of the rendered report.
type ReportOptions struct {
	IncludeTokens bool
	// Notes holds reference material fetched from the web, appended as a
	// final section.
	Notes []NoteDoc
}

const sectionRule = 50

// BuildSummary aggregates the counters for the report tail.
func BuildSummary(groups []CategoryGroup, includeTokens bool) Summary {
	summary := Summary{Categories: len(groups)}
	for _, group := range groups {
		for _, file := range group.Files {
			summary.TotalFiles++
			summary.TotalSize += file.Size
			if file.Err != nil {
				summary.SkippedFiles++
				continue
			}
			if includeTokens {
				summary.TotalTokens += file.TokenCount
			}
		}
	}
	return summary
}

// BuildReport renders the full report into a single string. It is pure:
// identical inputs produce byte-identical output, so there are no timestamps
// or other run-dependent fields.
func BuildReport(projectName string, groups []CategoryGroup, opts ReportOptions) string {
	summary := BuildSummary(groups, opts.IncludeTokens)

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Code Review: %s\n", projectName))
	builder.WriteString(strings.Repeat("=", sectionRule))
	builder.WriteString("\n")
	builder.WriteString(fmt.Sprintf("Files: %d | Categories: %d | Size: %d bytes\n\n",
		summary.TotalFiles, summary.Categories, summary.TotalSize))

	builder.WriteString("Project Structure\n")
	builder.WriteString(strings.Repeat("-", sectionRule))
	builder.WriteString("\n")
	builder.WriteString(printTree(buildTree(groups, projectName)))
	builder.WriteString("\n")

	for _, group := range groups {
		builder.WriteString(fmt.Sprintf("Category: %s\n", group.Label))
		builder.WriteString(strings.Repeat("=", sectionRule))
		builder.WriteString("\n")
		for _, file := range group.Files {
			writeFileSection(&builder, file, opts.IncludeTokens)
		}
	}

	for _, note := range opts.Notes {
		builder.WriteString("Notes\n")
		builder.WriteString(strings.Repeat("=", sectionRule))
		builder.WriteString("\n")
		builder.WriteString(fmt.Sprintf("Source: %s\n", note.URL))
		builder.WriteString(strings.Repeat("-", sectionRule))
		builder.WriteString("\n")
		builder.WriteString(note.Markdown)
		if !strings.HasSuffix(note.Markdown, "\n") {
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	}

	builder.WriteString("--- Summary ---\n")
	builder.WriteString(fmt.Sprintf("Total files: %d\n", summary.TotalFiles))
	builder.WriteString(fmt.Sprintf("Total size: %d bytes\n", summary.TotalSize))
	if opts.IncludeTokens {
		builder.WriteString(fmt.Sprintf("Total tokens: %d\n", summary.TotalTokens))
	}
	if summary.SkippedFiles > 0 {
		builder.WriteString(fmt.Sprintf("Files skipped (unreadable): %d\n", summary.SkippedFiles))
	}

	return builder.String()
}

// writeFileSection renders one file heading plus its stripped content, or a
// placeholder note when the file could not be read.
func writeFileSection(builder *strings.Builder, file *SourceFile, includeTokens bool) {
	builder.WriteString(fmt.Sprintf("File: %s\n", file.RelPath))
	if includeTokens && file.Err == nil {
		builder.WriteString(fmt.Sprintf("Tokens: %d\n", file.TokenCount))
	}
	builder.WriteString(strings.Repeat("-", sectionRule))
	builder.WriteString("\n")

	if file.Err != nil {
		builder.WriteString(fmt.Sprintf("[unreadable, skipped: %v]\n", file.Err))
	} else if file.Stripped == "" {
		builder.WriteString("[no code content]\n")
	} else {
		builder.WriteString(file.Stripped)
	}
	builder.WriteString("\n")
}

// buildTree constructs a hierarchical tree of the collected files, creating
// intermediate directory nodes as needed.
func buildTree(groups []CategoryGroup, rootName string) *Node {
	root := &Node{Name: rootName, IsDir: true}
	dirs := map[string]*Node{"": root}

	for _, group := range groups {
		for _, file := range group.Files {
			segments := strings.Split(file.RelPath, "/")
			parentKey := ""
			parent := root
			for _, segment := range segments[:len(segments)-1] {
				key := parentKey + "/" + segment
				node, exists := dirs[key]
				if !exists {
					node = &Node{Name: segment, IsDir: true}
					parent.Children = append(parent.Children, node)
					dirs[key] = node
				}
				parent = node
				parentKey = key
			}
			parent.Children = append(parent.Children, &Node{Name: segments[len(segments)-1]})
		}
	}

	sortChildren(root)
	return root
}

// sortChildren recursively sorts the children of a node, directories first,
// then alphabetically.
func sortChildren(node *Node) {
	if !node.IsDir || len(node.Children) == 0 {
		return
	}
	sort.Slice(node.Children, func(i, j int) bool {
		if node.Children[i].IsDir != node.Children[j].IsDir {
			return node.Children[i].IsDir
		}
		return node.Children[i].Name < node.Children[j].Name
	})
	for _, child := range node.Children {
		sortChildren(child)
	}
}

// printTree generates the string representation of the tree.
func printTree(root *Node) string {
	var builder strings.Builder
	builder.WriteString(root.Name)
	builder.WriteString("\n")
	printNode(&builder, root.Children, "")
	return builder.String()
}

// printNode is a helper function for recursively printing tree nodes.
func printNode(builder *strings.Builder, children []*Node, prefix string) {
	for i, node := range children {
		connector := "├── "
		newPrefix := prefix + "│   "
		if i == len(children)-1 {
			connector = "└── "
			newPrefix = prefix + "    "
		}

		builder.WriteString(prefix)
		builder.WriteString(connector)
		builder.WriteString(node.Name)
		builder.WriteString("\n")

		if node.IsDir && len(node.Children) > 0 {
			printNode(builder, node.Children, newPrefix)
		}
	}
}
