package api

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// raw HTML in model output is dropped; goldmark only passes it through with html.WithUnsafe
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// renderMarkdown turns recipe and answer text into HTML for the page.
// Text that fails to convert is shown escaped as-is.
func renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	return template.HTML(buf.String())
}
