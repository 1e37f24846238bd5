package main

import "fmt"

// NotFoundError indicates the selected project path is missing or not a
// directory. It is fatal: the pipeline aborts before producing any output.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("project path not found or not a directory: %s", e.Path)
}

// ReadError indicates a single source file could not be read. It is recovered
// locally: the file keeps its slot in the report with a placeholder note.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError indicates the final report could not be written. Fatal; the
// report is built fully in memory first, so no partial output file is left.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("cannot write report %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
