// Package importer converts existing HTML posts into markdown notes.
package importer

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// htmlTagPattern matches common HTML tags to detect whether a string
// contains markup at all.
var htmlTagPattern = regexp.MustCompile(`<(p|br|div|span|b|i|strong|em|a|ul|ol|li|h[1-6]|blockquote|img|pre|code)[\s>/]`)

// titlePattern extracts the document <title>, if present.
var titlePattern = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

// ContainsHTML reports whether a string appears to contain HTML
// markup.
func ContainsHTML(s string) bool {
	return htmlTagPattern.MatchString(strings.ToLower(s))
}

// HTMLToMarkdown converts HTML content to Markdown. Plain text input
// is returned unchanged, as is input the converter cannot handle.
func HTMLToMarkdown(s string) string {
	if s == "" || !ContainsHTML(s) {
		return s
	}

	markdown, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return s
	}

	return strings.TrimSpace(markdown)
}

// ImportedNote is the result of converting an HTML document.
type ImportedNote struct {
	Title   string
	Content string
}

// FromHTML converts a full HTML document into a note. The title comes
// from the document <title>, falling back to the first markdown
// heading in the converted content.
func FromHTML(data []byte) ImportedNote {
	html := string(data)

	var title string
	if m := titlePattern.FindStringSubmatch(html); m != nil {
		title = strings.TrimSpace(m[1])
	}

	content := HTMLToMarkdown(html)

	if title == "" {
		title, content = titleFromHeading(content)
	}

	return ImportedNote{Title: title, Content: content}
}

// titleFromHeading pulls the first level-one heading out of the
// markdown and returns the remaining content.
func titleFromHeading(markdown string) (string, string) {
	lines := strings.Split(markdown, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if after, ok := strings.CutPrefix(trimmed, "# "); ok {
			rest := strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
			return strings.TrimSpace(after), rest
		}
		break
	}
	return "", markdown
}
