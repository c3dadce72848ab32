package message

import (
	"strings"

	"golang.org/x/net/html"
)

// MaxDepth bounds tree traversal. Parts nested deeper are ignored.
const MaxDepth = 64

// ExtractBody returns the best available plain-text body of the tree rooted
// at root. Traversal is depth-first, left to right: the first text/plain
// part with inline data wins outright; failing that, the first text/html
// part is reduced to its visible text; failing that, "" is returned.
func ExtractBody(root Part) string {
	if root == nil {
		return ""
	}

	var htmlPart []byte
	var plain []byte
	found := false

	walk(root, 0, func(p Part) bool {
		if p.Filename() != "" {
			return true
		}
		data, ok := p.Data()
		if !ok {
			return true
		}
		switch KindOf(p.MediaType()) {
		case KindPlain:
			plain, found = data, true
			return false
		case KindHTML:
			if htmlPart == nil {
				htmlPart = data
			}
		}
		return true
	})

	if found {
		return strings.ToValidUTF8(string(plain), "�")
	}
	if htmlPart != nil {
		return HTMLToText(string(htmlPart))
	}
	return ""
}

// walk visits parts depth-first until fn returns false.
func walk(p Part, depth int, fn func(Part) bool) bool {
	if p == nil || depth > MaxDepth {
		return true
	}
	if !fn(p) {
		return false
	}
	for _, c := range p.Children() {
		if !walk(c, depth+1, fn) {
			return false
		}
	}
	return true
}

// skippedElements hold no visible text.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"head":     true,
	"noscript": true,
	"iframe":   true,
	"template": true,
}

// HTMLToText strips markup and returns the visible text of an HTML
// document, whitespace collapsed to single spaces.
func HTMLToText(src string) string {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return strings.Join(strings.Fields(src), " ")
	}

	var words []string
	var visit func(n *html.Node, depth int)
	visit = func(n *html.Node, depth int) {
		if depth > MaxDepth*4 {
			return
		}
		switch n.Type {
		case html.ElementNode:
			if skippedElements[strings.ToLower(n.Data)] {
				return
			}
		case html.TextNode:
			words = append(words, strings.Fields(n.Data)...)
		case html.CommentNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c, depth+1)
		}
	}
	visit(doc, 0)

	return strings.Join(words, " ")
}
