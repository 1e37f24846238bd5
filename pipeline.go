package main

import (
	"os"
	"path/filepath"
)

// PipelineOptions bundles the parameters of a full report run.
type PipelineOptions struct {
	Collect CollectOptions
	// Syntax maps extensions to languages and comment syntax; nil means the
	// built-in Swift/Objective-C table.
	Syntax *SyntaxTable
	// KeepComments disables stripping and passes file content through.
	KeepComments bool
	Report       ReportOptions
}

// PrepareSourceFiles collects the project's source files and populates each
// with its language and stripped content. A file that cannot be read keeps
// its slot with Err set to a *ReadError; only a bad root aborts the run.
func PrepareSourceFiles(root string, opts PipelineOptions) ([]*SourceFile, error) {
	table := opts.Syntax
	if table == nil {
		table = defaultSyntaxTable()
	}
	collect := opts.Collect
	if len(collect.Extensions) == 0 {
		collect.Extensions = table.Extensions()
	}

	files, err := CollectSourceFiles(root, collect)
	if err != nil {
		return nil, err
	}

	for _, file := range files {
		if lang, ok := table.LanguageForFile(file.Path); ok {
			file.Language = lang
		}
		raw, readErr := os.ReadFile(file.Path)
		if readErr != nil {
			file.Err = &ReadError{Path: file.RelPath, Err: readErr}
			continue
		}
		if opts.KeepComments {
			file.Stripped = string(raw)
		} else {
			file.Stripped = StripComments(string(raw), table.Syntax(file.Language))
		}
	}
	return files, nil
}

// GenerateReport runs the whole pipeline for one project tree and returns
// the rendered report. Token counts are not computed here; callers that want
// them fill SourceFile.TokenCount between PrepareSourceFiles and BuildReport.
func GenerateReport(root, projectName string, opts PipelineOptions) (string, error) {
	files, err := PrepareSourceFiles(root, opts)
	if err != nil {
		return "", err
	}
	groups := Categorize(files)
	return BuildReport(projectName, groups, opts.Report), nil
}

// ReportFileName returns the conventional output file name for a project.
func ReportFileName(projectName string) string {
	return projectName + "_code_review.txt"
}

// WriteReportFile writes the report atomically: the content goes to a temp
// file in the destination directory which is then renamed into place, so a
// failed run never leaves a partial report behind.
func WriteReportFile(path, content string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &WriteError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &WriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
