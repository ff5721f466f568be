package content

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed landing.md
var landingSource []byte

var (
	markdown     goldmark.Markdown
	markdownOnce sync.Once
)

func parser() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return markdown
}

// Render converts Markdown to HTML. Raw HTML in the source is dropped by goldmark.
func Render(src []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := parser().Convert(src, &buf); err != nil {
		return "", fmt.Errorf("content.Render: %w", err)
	}
	return template.HTML(buf.String()), nil
}

var (
	landingHTML template.HTML
	landingErr  error
	landingOnce sync.Once
)

// Landing returns the rendered product description of the landing page.
func Landing() (template.HTML, error) {
	landingOnce.Do(func() {
		landingHTML, landingErr = Render(landingSource)
	})
	return landingHTML, landingErr
}
