package review

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// hiddenAtoms are elements whose text never renders.
var hiddenAtoms = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Head:     true,
	atom.Svg:      true,
	atom.Iframe:   true,
}

// blockAtoms break words apart when their text is joined.
var blockAtoms = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Br: true, atom.Dd: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Fieldset: true, atom.Figcaption: true, atom.Figure: true, atom.Footer: true,
	atom.Form: true, atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true,
	atom.H5: true, atom.H6: true, atom.Header: true, atom.Hr: true, atom.Li: true,
	atom.Main: true, atom.Nav: true, atom.Ol: true, atom.P: true, atom.Pre: true,
	atom.Section: true, atom.Table: true, atom.Td: true, atom.Th: true, atom.Tr: true,
	atom.Ul: true, atom.Time: true, atom.Button: true,
}

// VisibleText returns the rendered text of sel with whitespace collapsed to
// single spaces. Script, style and other non-rendering subtrees are skipped.
func VisibleText(sel *goquery.Selection) string {
	if sel == nil {
		return ""
	}

	var b strings.Builder
	for _, n := range sel.Nodes {
		collectVisibleText(n, &b)
		b.WriteByte(' ')
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func collectVisibleText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		if hiddenAtoms[n.DataAtom] || isHiddenElement(n) {
			return
		}
	case html.CommentNode:
		return
	}

	block := n.Type == html.ElementNode && blockAtoms[n.DataAtom]
	if block {
		b.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectVisibleText(c, b)
	}
	if block {
		b.WriteByte(' ')
	}
}

// isHiddenElement reports elements hidden through the hidden attribute or an
// inline display:none. Visually hidden text (screen reader labels) is kept.
func isHiddenElement(n *html.Node) bool {
	for _, a := range n.Attr {
		switch a.Key {
		case "hidden":
			return true
		case "style":
			style := strings.ReplaceAll(strings.ToLower(a.Val), " ", "")
			if strings.Contains(style, "display:none") {
				return true
			}
		}
	}
	return false
}

// runeLen counts characters rather than bytes.
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// truncateRunes cuts s to at most limit characters.
func truncateRunes(s string, limit int) string {
	if limit <= 0 || runeLen(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:limit]))
}

// exceedsLength reports whether text is longer than minLen characters.
func exceedsLength(text string, minLen int) bool {
	return runeLen(text) > minLen
}
