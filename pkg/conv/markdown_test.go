package conv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkdownToTelegramHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty input", input: "", expected: ""},
		{name: "plain text", input: "Hello world", expected: "Hello world\n"},
		{name: "bold title", input: "**Weather in Paris**", expected: "<strong>Weather in Paris</strong>\n"},
		{name: "italic note", input: "*cached 3 min ago*", expected: "<em>cached 3 min ago</em>\n"},
		{name: "inline code kind", input: "`meeting`", expected: "<code>meeting</code>\n"},
		{name: "blockquote", input: "> quote", expected: "<blockquote>\nquote\n</blockquote>\n"},
		{
			name:     "article link",
			input:    "[Markets rally](https://example.com/a)",
			expected: "<a href=\"https://example.com/a\">Markets rally</a>\n",
		},
		{name: "header tags stripped", input: "# Reminders", expected: "Reminders\n"},
		{name: "script tags sanitized", input: "<script>alert('xss')</script>", expected: "\n"},
		{
			name:     "mixed formatting",
			input:    "**Saved** reminder *call mom* at `15:00`",
			expected: "<strong>Saved</strong> reminder <em>call mom</em> at <code>15:00</code>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MarkdownToTelegramHTML([]byte(tt.input)))
		})
	}
}

func TestMarkdownToText(t *testing.T) {
	md := "**Top headlines**\n\n- [Markets rally](https://example.com/a)\n- Rain expected"

	withLinks := MarkdownToText(md, false)
	assert.Contains(t, withLinks, "Top headlines")
	assert.Contains(t, withLinks, "Markets rally")
	assert.Contains(t, withLinks, "https://example.com/a")
	assert.Contains(t, withLinks, "Rain expected")
	assert.NotContains(t, withLinks, "<")

	spoken := MarkdownToText(md, true)
	assert.Contains(t, spoken, "Markets rally")
	assert.NotContains(t, spoken, "https://")

	assert.Empty(t, MarkdownToText("  \n", false))
}
