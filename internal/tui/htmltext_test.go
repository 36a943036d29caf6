package tui

import (
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

func TestHTMLToTextStripsMarkup(t *testing.T) {
	in := `<html><head><title>x</title><style>p{color:red}</style></head>` +
		`<body><h1>Heading</h1><p>First <b>bold</b> paragraph.</p>` +
		`<script>alert(1)</script><p>Second.</p></body></html>`

	out := htmlToText(in)

	assert.Assert(t, strings.Contains(out, "Heading"))
	assert.Assert(t, strings.Contains(out, "First bold paragraph."))
	assert.Assert(t, strings.Contains(out, "Second."))
	assert.Assert(t, !strings.Contains(out, "alert"))
	assert.Assert(t, !strings.Contains(out, "color:red"))
	assert.Assert(t, !strings.Contains(out, "<"))
}

func TestHTMLToTextSeparatesBlocks(t *testing.T) {
	out := htmlToText("<p>one</p><p>two</p>")
	assert.Assert(t, strings.Contains(out, "one"))
	assert.Assert(t, strings.Contains(out, "two"))
	assert.Assert(t, !strings.Contains(out, "onetwo"))
}

func TestLooksLikeHTML(t *testing.T) {
	assert.Assert(t, looksLikeHTML("<p>hi</p>"))
	assert.Assert(t, looksLikeHTML("  <!DOCTYPE html><html>"))
	assert.Assert(t, !looksLikeHTML("plain text with 1 < 2 comparison"))
	assert.Assert(t, !looksLikeHTML(""))
}
