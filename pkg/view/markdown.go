package view

import (
	"net/url"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ParseMarkdown extracts the image elements of a Markdown document.
// Markdown carries no dimensions, so elements rely on probing for their
// natural size.
func ParseMarkdown(source []byte, baseURL string) (*View, error) {
	md := goldmark.New()

	doc := md.Parser().Parse(text.NewReader(source))

	base, _ := url.Parse(baseURL)

	view := &View{
		URL: baseURL,
	}

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		if img, ok := n.(*ast.Image); ok {
			if locator := resolve(base, string(img.Destination)); locator != "" {
				view.Elements = append(view.Elements, &Element{Locator: locator})
			}
		}

		return ast.WalkContinue, nil
	})

	if err != nil {
		return nil, err
	}

	return view, nil
}
