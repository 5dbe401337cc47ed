package web

import (
	"bytes"
	"html"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// responseRenderer turns generated markdown into HTML that is safe to embed
// in a panel's output region.
type responseRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

var codeLanguage = regexp.MustCompile(`^language-[\w-]+$`)

func newResponseRenderer() *responseRenderer {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(codeLanguage).OnElements("code")

	return &responseRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
		policy: policy,
	}
}

var responses = newResponseRenderer()

// Render converts src to sanitized HTML. Raw HTML in src is dropped by
// goldmark's default renderer and anything that slips through is stripped by
// the sanitizer. If conversion fails the text is shown escaped.
func (r *responseRenderer) Render(src string) string {
	if src == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "<pre>" + html.EscapeString(src) + "</pre>"
	}
	return r.policy.Sanitize(buf.String())
}

// RenderMarkdown renders a generated response with the shared renderer.
func RenderMarkdown(src string) string {
	return responses.Render(src)
}
