package main

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth  = 210 // A4 width in mm
	pdfMargin     = 10
	pdfLineHeight = 5
	pdfFontSize   = 9
	pdfTabWidth   = 4
)

// generatePDF renders the categorized report as a syntax-highlighted PDF.
func generatePDF(projectName string, groups []CategoryGroup, opts ReportOptions, outputPath string) error {
	summary := BuildSummary(groups, opts.IncludeTokens)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()

	style := styles.Get("github")
	if style == nil {
		style = styles.Fallback
	}

	pdf.SetFont("Helvetica", "B", pdfFontSize+3)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, fmt.Sprintf("Code Review: %s", projectName), "", "L", false)
	pdf.Ln(pdfLineHeight)

	pdf.SetFont("Helvetica", "B", pdfFontSize+2)
	pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, "Project Structure", "", "L", false)
	pdf.SetFont("Courier", "", pdfFontSize)
	pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, asciiTree(printTree(buildTree(groups, projectName))), "", "L", false)
	pdf.Ln(pdfLineHeight)

	for _, group := range groups {
		pdf.SetFont("Helvetica", "B", pdfFontSize+2)
		pdf.SetTextColor(0, 0, 0)
		pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, fmt.Sprintf("Category: %s", group.Label), "", "L", false)
		pdf.Ln(pdfLineHeight / 2)

		for _, file := range group.Files {
			pdf.SetFont("Helvetica", "B", pdfFontSize+1)
			pdf.SetTextColor(0, 0, 0)
			pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, fmt.Sprintf("File: %s", file.RelPath), "", "L", false)

			if opts.IncludeTokens && file.Err == nil {
				pdf.SetFont("Helvetica", "", pdfFontSize-1)
				pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, fmt.Sprintf("Tokens: %d", file.TokenCount), "", "L", false)
			}

			pdf.Line(pdfMargin, pdf.GetY(), pdfPageWidth-pdfMargin, pdf.GetY())
			pdf.Ln(pdfLineHeight / 2)

			if file.Err != nil {
				pdf.SetFont("Courier", "", pdfFontSize)
				pdf.SetTextColor(255, 0, 0)
				pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, fmt.Sprintf("[unreadable, skipped: %v]", file.Err), "", "L", false)
			} else if err := writeHighlightedCode(pdf, style, file.Stripped, file.Language); err != nil {
				pdf.SetFont("Courier", "", pdfFontSize)
				pdf.SetTextColor(0, 0, 0)
				pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, file.Stripped, "", "L", false)
			}
			pdf.Ln(pdfLineHeight)
		}
	}

	for _, note := range opts.Notes {
		pdf.SetFont("Helvetica", "B", pdfFontSize+2)
		pdf.SetTextColor(0, 0, 0)
		pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, "Notes", "", "L", false)
		pdf.SetFont("Helvetica", "", pdfFontSize-1)
		pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, fmt.Sprintf("Source: %s", note.URL), "", "L", false)

		pdf.Line(pdfMargin, pdf.GetY(), pdfPageWidth-pdfMargin, pdf.GetY())
		pdf.Ln(pdfLineHeight / 2)

		pdf.SetFont("Helvetica", "", pdfFontSize)
		pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, note.Markdown, "", "L", false)
		pdf.Ln(pdfLineHeight)
	}

	pdf.SetFont("Helvetica", "B", pdfFontSize+1)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(pdfLineHeight)
	pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, "--- Summary ---", "", "L", false)
	pdf.Ln(pdfLineHeight / 2)

	pdf.SetFont("Helvetica", "", pdfFontSize)
	summaryString := fmt.Sprintf("Total files: %d\nTotal size: %d bytes", summary.TotalFiles, summary.TotalSize)
	if opts.IncludeTokens {
		summaryString += fmt.Sprintf("\nTotal tokens: %d", summary.TotalTokens)
	}
	if summary.SkippedFiles > 0 {
		summaryString += fmt.Sprintf("\nFiles skipped (unreadable): %d", summary.SkippedFiles)
	}
	pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, summaryString, "", "L", false)

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return &WriteError{Path: outputPath, Err: err}
	}
	return nil
}

// asciiTree rewrites the tree's box-drawing connectors as ASCII; the core
// PDF fonts are cp1252 and cannot encode them.
func asciiTree(tree string) string {
	return strings.NewReplacer("├── ", "|-- ", "└── ", "`-- ", "│   ", "|   ").Replace(tree)
}

// chromaLexerName maps our language tags to chroma lexer names.
func chromaLexerName(lang Language) string {
	switch lang {
	case LangSwift:
		return "swift"
	case LangObjC:
		return "objective-c"
	default:
		return ""
	}
}

// writeHighlightedCode tokenizes code with chroma and writes styled tokens
// to the PDF.
func writeHighlightedCode(pdf *gofpdf.Fpdf, style *chroma.Style, codeContent string, lang Language) error {
	lexer := lexers.Get(chromaLexerName(lang))
	if lexer == nil {
		lexer = lexers.Analyse(codeContent)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, codeContent)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	pdf.SetFont("Courier", "", pdfFontSize)
	for token := iterator(); token != chroma.EOF; token = iterator() {
		entry := style.Get(token.Type)
		styleStr := ""
		if entry.Bold == chroma.Yes {
			styleStr += "B"
		}
		if entry.Italic == chroma.Yes {
			styleStr += "I"
		}
		pdf.SetFontStyle(styleStr)

		if entry.Colour.IsSet() {
			pdf.SetTextColor(int(entry.Colour.Red()), int(entry.Colour.Green()), int(entry.Colour.Blue()))
		} else {
			fg := style.Get(chroma.Text).Colour
			if fg.IsSet() {
				pdf.SetTextColor(int(fg.Red()), int(fg.Green()), int(fg.Blue()))
			} else {
				pdf.SetTextColor(0, 0, 0)
			}
		}

		tokenValue := strings.ReplaceAll(token.Value, "\t", strings.Repeat(" ", pdfTabWidth))
		pdf.Write(pdfLineHeight, tokenValue)
	}
	pdf.Ln(-1)

	return nil
}
