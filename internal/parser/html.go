package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/mategest/internal/doctree"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files, including reports saved from the
// evaluation portal where each field sits in its own table cell.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	title := baseTitle(filename)
	if t := findElement(doc, "title"); t != nil {
		if s := textContent(t); s != "" {
			title = s
		}
	}
	b := doctree.NewBuilder(title)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				b.Heading(level, textContent(n))
				return
			}
			switch n.Data {
			case "script", "style", "nav", "footer", "head", "noscript":
				return
			case "p", "li", "blockquote", "pre", "dt", "dd", "caption":
				b.Text(textContent(n))
				return
			case "tr":
				b.Text(rowText(n))
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findElement(doc, "body"); body != nil {
		walk(body)
	} else {
		walk(doc)
	}
	return b.Tree(), nil
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

// rowText joins the cells of a table row so "label | value" pairs stay on
// one line.
func rowText(tr *html.Node) string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			if t := textContent(c); t != "" {
				cells = append(cells, t)
			}
		}
	}
	return strings.Join(cells, " ")
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			buf.WriteString(n.Data)
		case n.Type == html.ElementNode && n.Data == "br":
			buf.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
