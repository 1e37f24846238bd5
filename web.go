package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// NoteDoc is one fetched reference page, converted to Markdown for the
// report's Notes section.
type NoteDoc struct {
	URL      string
	Markdown string
}

// isWebURL checks if the input string is an HTTP/HTTPS URL.
func isWebURL(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// fetchNotes fetches a reference page and, when traverse is set, follows
// links up to maxDepth, returning every page as a NoteDoc. Fetch and parse
// failures are warnings: a bad page is skipped, not fatal.
func fetchNotes(startURL string, traverse bool, maxDepth int) []NoteDoc {
	if !traverse {
		maxDepth = 0
	}
	visited := make(map[string]bool)
	return fetchNotesRecursive(startURL, 0, maxDepth, visited)
}

func fetchNotesRecursive(pageURL string, currentDepth, maxDepth int, visited map[string]bool) []NoteDoc {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid notes URL %s: %v\n", pageURL, err)
		return nil
	}
	parsedURL.Fragment = ""
	cleanURL := parsedURL.String()

	if currentDepth > maxDepth || visited[cleanURL] {
		return nil
	}
	visited[cleanURL] = true

	res, err := http.Get(cleanURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to fetch URL %s: %v\n", cleanURL, err)
		return nil
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		fmt.Fprintf(os.Stderr, "Warning: failed to fetch URL %s: status code %d\n", cleanURL, res.StatusCode)
		return nil
	}
	contentType := res.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		return nil
	}

	bodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to read response body from %s: %v\n", cleanURL, err)
		return nil
	}

	var notes []NoteDoc
	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(string(bodyBytes))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to convert HTML to Markdown for %s: %v\n", cleanURL, err)
	} else {
		notes = append(notes, NoteDoc{URL: cleanURL, Markdown: markdown})
	}

	if currentDepth < maxDepth {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(bodyBytes)))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to parse HTML for link extraction from %s: %v\n", cleanURL, err)
			return notes
		}
		doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
			link, exists := s.Attr("href")
			lower := strings.ToLower(link)
			if !exists || link == "" || strings.HasPrefix(link, "#") ||
				strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "javascript:") {
				return
			}
			resolvedURL, err := parsedURL.Parse(link)
			if err != nil {
				return
			}
			if resolvedURL.Scheme == "http" || resolvedURL.Scheme == "https" {
				notes = append(notes, fetchNotesRecursive(resolvedURL.String(), currentDepth+1, maxDepth, visited)...)
			}
		})
	}

	return notes
}
