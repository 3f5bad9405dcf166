package view

import (
	"io"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseHTML extracts the image elements of an HTML document. Relative
// sources resolve against baseURL, and width/height attributes become the
// displayed dimensions.
func ParseHTML(r io.Reader, baseURL string) (*View, error) {
	doc, err := html.Parse(r)

	if err != nil {
		return nil, err
	}

	base, _ := url.Parse(baseURL)

	view := &View{
		URL: baseURL,
	}

	var walk func(n *html.Node)

	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Img {
			if element := imageElement(n, base); element != nil {
				view.Elements = append(view.Elements, element)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)

	return view, nil
}

func imageElement(n *html.Node, base *url.URL) *Element {
	element := &Element{}

	for _, attr := range n.Attr {
		switch attr.Key {
		case "src":
			element.Locator = resolve(base, attr.Val)

		case "width":
			element.DisplayWidth = parseDimension(attr.Val)

		case "height":
			element.DisplayHeight = parseDimension(attr.Val)
		}
	}

	if element.Locator == "" {
		return nil
	}

	return element
}

func resolve(base *url.URL, src string) string {
	src = strings.TrimSpace(src)

	if src == "" || strings.HasPrefix(src, "data:") {
		return src
	}

	ref, err := url.Parse(src)

	if err != nil {
		return ""
	}

	if base == nil {
		return ref.String()
	}

	return base.ResolveReference(ref).String()
}

func parseDimension(value string) float64 {
	value = strings.TrimSuffix(strings.TrimSpace(value), "px")

	result, err := strconv.ParseFloat(value, 64)

	if err != nil || result < 0 {
		return 0
	}

	return result
}
