package textmonitor

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// VisibleText returns the text of the HTML document in content with runs of
// whitespace collapsed to single spaces. Text nodes inside inline elements
// are joined as rendered, block-level elements separate words. Markup,
// attribute values and the contents of script, style, noscript and template
// elements are dropped. Content that is not valid HTML is parsed leniently,
// as browsers do.
func VisibleText(content string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(content))

	var (
		text    strings.Builder
		skipped int
	)

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(text.String()), " ")
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			token := tokenizer.Token()

			switch {
			case !hidden(token.DataAtom):
			case token.Type == html.StartTagToken:
				skipped++
			case token.Type == html.EndTagToken && skipped > 0:
				skipped--
			}

			if block(token.DataAtom) {
				text.WriteByte(' ')
			}
		case html.TextToken:
			if skipped == 0 {
				text.Write(tokenizer.Text())
			}
		}
	}
}

func hidden(a atom.Atom) bool {
	switch a {
	case atom.Script, atom.Style, atom.Noscript, atom.Template:
		return true
	default:
		return false
	}
}

// block returns true for elements that break the line they appear in.
func block(a atom.Atom) bool {
	switch a {
	case atom.Address, atom.Article, atom.Aside, atom.Blockquote, atom.Body,
		atom.Br, atom.Caption, atom.Dd, atom.Details, atom.Div,
		atom.Dl, atom.Dt, atom.Fieldset, atom.Figcaption, atom.Figure,
		atom.Footer, atom.Form, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5,
		atom.H6, atom.Head, atom.Header, atom.Hr, atom.Html, atom.Li,
		atom.Main, atom.Nav, atom.Ol, atom.Option, atom.P, atom.Pre,
		atom.Section, atom.Select, atom.Summary, atom.Table, atom.Tbody,
		atom.Td, atom.Textarea, atom.Tfoot, atom.Th, atom.Thead, atom.Title,
		atom.Tr, atom.Ul:
		return true
	default:
		return false
	}
}
