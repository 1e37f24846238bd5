package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReportEndToEnd(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Sources/Foo.swift": "// hello\nlet x = 1",
		"Sources/Bar.h":     "/* doc */\nint y;",
	})

	report, err := GenerateReport(root, "MyApp", PipelineOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(report, "Category: "))
	assert.Contains(t, report, "Category: Sources\n")
	assert.Contains(t, report, "File: Sources/Foo.swift\n")
	assert.Contains(t, report, "File: Sources/Bar.h\n")
	assert.Contains(t, report, "let x = 1\n")
	assert.Contains(t, report, "int y;\n")
	assert.NotContains(t, report, "hello")
	assert.NotContains(t, report, "doc")
}

func TestGenerateReportDeterministic(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"A/x.swift": "let x = 1 // one\n",
		"B/y.h":     "int y; /* two */\n",
		"z.m":       "int z;\n",
	})

	first, err := GenerateReport(root, "Proj", PipelineOptions{})
	require.NoError(t, err)
	second, err := GenerateReport(root, "Proj", PipelineOptions{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateReportMissingRoot(t *testing.T) {
	_, err := GenerateReport(filepath.Join(t.TempDir(), "gone"), "Gone", PipelineOptions{})
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestGenerateReportKeepComments(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Sources/Foo.swift": "// hello\nlet x = 1\n",
	})

	report, err := GenerateReport(root, "MyApp", PipelineOptions{KeepComments: true})
	require.NoError(t, err)
	assert.Contains(t, report, "// hello\nlet x = 1\n")
}

func TestPipelineRecoversUnreadableFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Sources/Good.swift": "let g = 1\n",
	})
	// A dangling symlink collects fine but fails to read, exercising the
	// per-file recovery path.
	broken := filepath.Join(root, "Sources", "Broken.swift")
	require.NoError(t, os.Symlink(filepath.Join(root, "missing-target"), broken))

	files, err := PrepareSourceFiles(root, PipelineOptions{})
	require.NoError(t, err)
	require.Len(t, files, 2)

	byRel := map[string]*SourceFile{}
	for _, f := range files {
		byRel[f.RelPath] = f
	}
	require.Contains(t, byRel, "Sources/Broken.swift")
	var readErr *ReadError
	require.ErrorAs(t, byRel["Sources/Broken.swift"].Err, &readErr)
	assert.NoError(t, byRel["Sources/Good.swift"].Err)

	report := BuildReport("MyApp", Categorize(files), ReportOptions{})
	assert.Contains(t, report, "File: Sources/Broken.swift\n")
	assert.Contains(t, report, "[unreadable, skipped:")
	assert.Contains(t, report, "let g = 1\n")
	assert.Contains(t, report, "Files skipped (unreadable): 1\n")
}

func TestBuildReportStructure(t *testing.T) {
	files := []*SourceFile{
		{RelPath: "Sources/App.swift", Size: 10, Stripped: "let a = 1\n"},
		{RelPath: "Main.swift", Size: 5, Stripped: "let m = 2\n"},
	}
	report := BuildReport("Demo", Categorize(files), ReportOptions{})

	assert.True(t, strings.HasPrefix(report, "Code Review: Demo\n"))
	assert.Contains(t, report, "Files: 2 | Categories: 2 | Size: 15 bytes\n")
	assert.Contains(t, report, "Project Structure\n")
	assert.Contains(t, report, "└── App.swift")
	assert.Contains(t, report, "Category: Sources\n")
	assert.Contains(t, report, "Category: "+rootCategory+"\n")
	assert.Contains(t, report, "--- Summary ---\nTotal files: 2\nTotal size: 15 bytes\n")
}

func TestBuildReportTokens(t *testing.T) {
	files := []*SourceFile{
		{RelPath: "A/a.swift", Stripped: "let a = 1\n", TokenCount: 7},
		{RelPath: "A/b.swift", Stripped: "let b = 2\n", TokenCount: 5},
	}
	report := BuildReport("Demo", Categorize(files), ReportOptions{IncludeTokens: true})
	assert.Contains(t, report, "Tokens: 7\n")
	assert.Contains(t, report, "Total tokens: 12\n")
}

func TestBuildReportNotes(t *testing.T) {
	files := []*SourceFile{{RelPath: "a.swift", Stripped: "let a = 1\n"}}
	notes := []NoteDoc{{URL: "https://example.com/guide", Markdown: "# Guide\nBody"}}
	report := BuildReport("Demo", Categorize(files), ReportOptions{Notes: notes})
	assert.Contains(t, report, "Notes\n")
	assert.Contains(t, report, "Source: https://example.com/guide\n")
	assert.Contains(t, report, "# Guide\nBody\n")
}

func TestBuildSummary(t *testing.T) {
	groups := Categorize([]*SourceFile{
		{RelPath: "A/a.swift", Size: 4, TokenCount: 3},
		{RelPath: "B/b.swift", Size: 6, TokenCount: 2},
		{RelPath: "B/c.swift", Size: 9, Err: &ReadError{Path: "B/c.swift", Err: os.ErrPermission}},
	})
	summary := BuildSummary(groups, true)

	assert.Equal(t, 3, summary.TotalFiles)
	assert.Equal(t, int64(19), summary.TotalSize)
	assert.Equal(t, 5, summary.TotalTokens)
	assert.Equal(t, 1, summary.SkippedFiles)
	assert.Equal(t, 2, summary.Categories)
}

func TestReportFileName(t *testing.T) {
	assert.Equal(t, "MyApp_code_review.txt", ReportFileName("MyApp"))
}

func TestWriteReportFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	require.NoError(t, WriteReportFile(path, "content\n"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content\n", string(data))

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteReportFileFailure(t *testing.T) {
	missingDir := filepath.Join(t.TempDir(), "nope")
	err := WriteReportFile(filepath.Join(missingDir, "out.txt"), "content\n")
	var writeErr *WriteError
	require.ErrorAs(t, err, &writeErr)

	// All-or-nothing: nothing was created.
	_, statErr := os.Stat(missingDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPrintTree(t *testing.T) {
	files := []*SourceFile{
		{RelPath: "Sources/App/Main.swift"},
		{RelPath: "Sources/App/View.swift"},
		{RelPath: "Sources/Util.swift"},
		{RelPath: "README.h"},
	}
	tree := printTree(buildTree(Categorize(files), "Demo"))

	want := strings.Join([]string{
		"Demo",
		"├── Sources",
		"│   ├── App",
		"│   │   ├── Main.swift",
		"│   │   └── View.swift",
		"│   └── Util.swift",
		"└── README.h",
		"",
	}, "\n")
	assert.Equal(t, want, tree)
}
