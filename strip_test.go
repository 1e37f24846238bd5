package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func swiftSyntax() CommentSyntax { return defaultSyntaxTable().Syntax(LangSwift) }
func objcSyntax() CommentSyntax  { return defaultSyntaxTable().Syntax(LangObjC) }

func TestStripLineComments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "comment-only line removed",
			input: "// hello\nlet x = 1\n",
			want:  "let x = 1\n",
		},
		{
			name:  "trailing comment removed",
			input: "let x = 1 // the answer\n",
			want:  "let x = 1\n",
		},
		{
			name:  "doc comment removed",
			input: "/// Returns the answer.\nfunc f() -> Int { 1 }\n",
			want:  "func f() -> Int { 1 }\n",
		},
		{
			name:  "comment at EOF without newline",
			input: "let x = 1\n// tail",
			want:  "let x = 1\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripComments(tt.input, swiftSyntax()))
		})
	}
}

func TestStripBlockComments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "multi-line block collapsed",
			input: "int a;\n/* one\ntwo\nthree */\nint b;\n",
			want:  "int a;\nint b;\n",
		},
		{
			name:  "inline block removed",
			input: "int a; /* mid */ int b;\n",
			want:  "int a;  int b;\n",
		},
		{
			name:  "doc block removed",
			input: "/** Doc block. */\nint y;\n",
			want:  "int y;\n",
		},
		{
			name:  "unterminated block strips to EOF",
			input: "int a;\n/* never closed\nmore text\n",
			want:  "int a;\n",
		},
		{
			name: "nesting not recognized, first close wins",
			// The trailing "c */" survives as code; matches the documented
			// non-nesting policy.
			input: "/* a /* b */ c */\nint x;\n",
			want:  " c */\nint x;\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripComments(tt.input, objcSyntax()))
		})
	}
}

func TestStripPreservesStringLiterals(t *testing.T) {
	tests := []struct {
		name   string
		syntax CommentSyntax
		input  string
		want   string
	}{
		{
			name:   "double slash inside string",
			syntax: swiftSyntax(),
			input:  "let url = \"https://example.com\" // trailing\n",
			want:   "let url = \"https://example.com\"\n",
		},
		{
			name:   "block marker inside string",
			syntax: swiftSyntax(),
			input:  "let s = \"/* not a comment */\"\n",
			want:   "let s = \"/* not a comment */\"\n",
		},
		{
			name:   "escaped quote does not close the string",
			syntax: swiftSyntax(),
			input:  "let s = \"a \\\" // b\" + x // real comment\n",
			want:   "let s = \"a \\\" // b\" + x\n",
		},
		{
			name:   "objc string literal with prefix",
			syntax: objcSyntax(),
			input:  "NSString *s = @\"// keep me\"; // drop me\n",
			want:   "NSString *s = @\"// keep me\";\n",
		},
		{
			name:   "objc char literal with quote",
			syntax: objcSyntax(),
			input:  "char c = '\"'; // comment\n",
			want:   "char c = '\"';\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripComments(tt.input, tt.syntax))
		})
	}
}

func TestStripIdempotent(t *testing.T) {
	input := "// header\nlet a = 1 /* inline */\n\n/* block\nspanning */\nlet b = \"// text\"\n/// doc\nlet c = 2\n"
	once := StripComments(input, swiftSyntax())
	twice := StripComments(once, swiftSyntax())
	require.Equal(t, once, twice)
}

func TestStripNoCommentsRoundTrip(t *testing.T) {
	input := "let x = 1\nlet y = 2\n"
	assert.Equal(t, input, StripComments(input, swiftSyntax()))
}

func TestStripDropsBlankLines(t *testing.T) {
	// Line count is not preserved: blank and whitespace-only lines go away.
	input := "let a = 1\n\n   \nlet b = 2\n"
	assert.Equal(t, "let a = 1\nlet b = 2\n", StripComments(input, swiftSyntax()))
}

func TestStripEdgeInputs(t *testing.T) {
	assert.Equal(t, "", StripComments("", swiftSyntax()))
	assert.Equal(t, "", StripComments("// only a comment", swiftSyntax()))
	assert.Equal(t, "", StripComments("/* only\na block */", swiftSyntax()))
}
