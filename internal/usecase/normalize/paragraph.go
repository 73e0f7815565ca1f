package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var blankLine = regexp.MustCompile(`\n[ \t\r]*\n`)

// firstParagraph returns the text before the first blank line, skipping
// leading blank lines.
func firstParagraph(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	for _, p := range blankLine.Split(s, -1) {
		if p = strings.TrimSpace(p); p != "" {
			return p
		}
	}
	return ""
}

// blockBreaks are elements whose end starts a new paragraph.
var blockBreaks = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Section: true, atom.Article: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Li: true, atom.Tr: true, atom.Table: true, atom.Blockquote: true,
}

// htmlToText flattens markup into plain text with blank lines between blocks.
// Script and style contents are dropped.
func htmlToText(s string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			if skip == 0 {
				b.WriteString(collapseSpace(string(z.Text())))
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			switch {
			case a == atom.Script || a == atom.Style:
				skip++
			case a == atom.Br:
				b.WriteString("\n")
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			switch {
			case (a == atom.Script || a == atom.Style) && skip > 0:
				skip--
			case blockBreaks[a]:
				b.WriteString("\n\n")
			}
		}
	}
}

func collapseSpace(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s != "" {
			return " "
		}
		return ""
	}
	out := strings.Join(fields, " ")
	if strings.TrimLeft(s[:1], " \t\n\r") == "" {
		out = " " + out
	}
	if strings.TrimRight(s[len(s)-1:], " \t\n\r") == "" {
		out += " "
	}
	return out
}
