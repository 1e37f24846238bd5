package main

import "io/fs"

// SourceFile holds one collected project file and everything derived from it.
type SourceFile struct {
	Path     string // absolute (or as-collected) path on disk
	RelPath  string // slash-separated path relative to the project root
	Size     int64
	Mode     fs.FileMode
	Language Language // derived from the extension
	Stripped string   // comment-stripped content, populated by the pipeline
	// TokenCount is populated when token counting is enabled.
	TokenCount int
	// Err records a read failure; the file keeps its slot in the report
	// with a placeholder note instead of aborting the run.
	Err error
}

// CategoryGroup is one report section: a label and its files in first-seen order.
type CategoryGroup struct {
	Label string
	Files []*SourceFile
}

// Summary holds the aggregated counters appended to the end of the report.
type Summary struct {
	TotalFiles   int
	TotalSize    int64
	TotalTokens  int
	SkippedFiles int // files replaced by a placeholder note
	Categories   int
}
