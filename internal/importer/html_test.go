package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{
			name:     "empty string",
			input:    "",
			expected: false,
		},
		{
			name:     "plain text",
			input:    "Just a plain paragraph of text.",
			expected: false,
		},
		{
			name:     "angle brackets but not HTML",
			input:    "Use <stdin> for input and 2 > 1 is true",
			expected: false,
		},
		{
			name:     "paragraph tags",
			input:    "<p>This is a paragraph.</p>",
			expected: true,
		},
		{
			name:     "image tag",
			input:    `<img src="cover.png">`,
			expected: true,
		},
		{
			name:     "uppercase tags",
			input:    "<P>Shouting markup</P>",
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ContainsHTML(tt.input))
		})
	}
}

func TestHTMLToMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text passes through",
			input:    "No markup here.",
			expected: "No markup here.",
		},
		{
			name:     "bold",
			input:    "<p>This is <strong>important</strong>.</p>",
			expected: "This is **important**.",
		},
		{
			name:     "heading",
			input:    "<h2>Section</h2>",
			expected: "## Section",
		},
		{
			name:     "link",
			input:    `<p><a href="https://example.com">here</a></p>`,
			expected: "[here](https://example.com)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTMLToMarkdown(tt.input))
		})
	}
}

func TestFromHTML_DocumentTitle(t *testing.T) {
	doc := []byte(`<html><head><title>My Post</title></head>
<body><p>Hello <em>world</em>.</p></body></html>`)

	note := FromHTML(doc)
	assert.Equal(t, "My Post", note.Title)
	assert.Contains(t, note.Content, "Hello *world*.")
}

func TestFromHTML_FallsBackToHeading(t *testing.T) {
	doc := []byte(`<body><h1>First Heading</h1><p>Body text.</p></body>`)

	note := FromHTML(doc)
	assert.Equal(t, "First Heading", note.Title)
	assert.Equal(t, "Body text.", note.Content)
}

func TestFromHTML_NoTitleAnywhere(t *testing.T) {
	note := FromHTML([]byte(`<p>Only a paragraph.</p>`))
	assert.Empty(t, note.Title)
	assert.Equal(t, "Only a paragraph.", note.Content)
}
