// Package extract turns fetched content into plain text lines that can serve as documents.
// HTML is reduced to its readable content and converted to text; Markdown decoration
// is removed so each paragraph, heading, or list item becomes one clean line.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// IsHTML sniffs data and reports whether it looks like an HTML page.
func IsHTML(data []byte) bool {
	return strings.HasPrefix(http.DetectContentType(data), "text/html")
}

// Documents returns the text of data with one document per line. HTML is
// converted with ToText; anything else is returned unchanged.
func Documents(data []byte, selector string, includeAll bool, baseURL *url.URL) (string, error) {
	if !IsHTML(data) {
		return string(data), nil
	}
	return ToText(bytes.NewReader(data), selector, includeAll, baseURL)
}

// ToText extracts readable content from HTML and returns it as plain text lines.
//
// Parameters:
//   - content: io.Reader containing HTML content
//   - selector: optional CSS selector to restrict extraction (empty string for main content)
//   - includeAll: if true, skips readability extraction and converts the whole page
//   - baseURL: optional URL for context during readability extraction (can be nil)
func ToText(content io.Reader, selector string, includeAll bool, baseURL *url.URL) (string, error) {
	markdown, err := ToMarkdown(content, selector, includeAll, baseURL)
	if err != nil {
		return "", err
	}
	return StripMarkdown(markdown), nil
}

// ToMarkdown extracts the main content from HTML and converts it to Markdown.
// A selector takes precedence over includeAll.
func ToMarkdown(content io.Reader, selector string, includeAll bool, baseURL *url.URL) (string, error) {
	if selector != "" {
		return extractWithSelector(content, selector)
	}

	if includeAll {
		return convertAllHTML(content)
	}

	return extractMainContent(content, baseURL)
}

// extractMainContent uses go-readability to keep only the main article content
func extractMainContent(content io.Reader, baseURL *url.URL) (string, error) {
	if baseURL == nil {
		baseURL = &url.URL{}
	}

	article, err := readability.FromReader(content, baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract main content: %w", err)
	}

	return convertToMarkdown(article.Content)
}

// extractWithSelector keeps only the elements matching a CSS selector
func extractWithSelector(content io.Reader, selector string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(content)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	selection := doc.Find(selector)
	if selection.Length() == 0 {
		return "", fmt.Errorf("no elements found matching selector: %s", selector)
	}

	var htmlParts []string
	selection.Each(func(i int, s *goquery.Selection) {
		html, err := s.Html()
		if err == nil {
			// keep each element as its own block so it ends on its own line
			tagName := goquery.NodeName(s)
			htmlParts = append(htmlParts, fmt.Sprintf("<%s>%s</%s>", tagName, html, tagName))
		}
	})

	if len(htmlParts) == 0 {
		return "", fmt.Errorf("failed to extract HTML from selection")
	}

	return convertToMarkdown(strings.Join(htmlParts, "\n"))
}

// convertAllHTML converts the whole page without readability filtering
func convertAllHTML(content io.Reader) (string, error) {
	htmlBytes, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("failed to read HTML content: %w", err)
	}

	return convertToMarkdown(string(htmlBytes))
}

// convertToMarkdown converts an HTML string to Markdown with collapsed blank lines
func convertToMarkdown(htmlString string) (string, error) {
	converter := md.NewConverter("", true, nil)

	markdown, err := converter.ConvertString(htmlString)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to Markdown: %w", err)
	}

	cleaned := strings.TrimSpace(markdown)
	for strings.Contains(cleaned, "\n\n\n") {
		cleaned = strings.ReplaceAll(cleaned, "\n\n\n", "\n\n")
	}

	return cleaned, nil
}

// StripMarkdown removes headings, list markers, quotes, emphasis, links, and
// escapes from Markdown, returning the non-empty lines joined by newlines.
func StripMarkdown(markdown string) string {
	p := getMarkdownPatterns()

	var lines []string
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || p.ruleLine.MatchString(line) || p.fenceLine.MatchString(line) {
			continue
		}

		line = p.blockPrefix.ReplaceAllString(line, "")
		line = p.image.ReplaceAllString(line, "$1")
		line = p.link.ReplaceAllString(line, "$1")
		line = p.strong.ReplaceAllString(line, "$2")
		line = p.emphasis.ReplaceAllString(line, "${1}${2}${3}")
		line = p.inlineCode.ReplaceAllString(line, "$1")
		line = p.escape.ReplaceAllString(line, "$1")

		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n")
}
