package render

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/ajramos/giztriage/internal/models"
	"github.com/mattn/go-runewidth"
	"golang.org/x/net/html"
)

// NoBodyText is shown when an email carries neither HTML nor plain body
const NoBodyText = "No full email body available."

// LinkRef represents a collected hyperlink reference
type LinkRef struct {
	Index int
	URL   string
	Text  string
}

// FormatOptions controls terminal formatting behavior
type FormatOptions struct {
	WrapWidth int
}

var urlRe = regexp.MustCompile(`(?i)\bhttps?://[\w\-\._~:/%\?#\[\]@!$&'()*+,;=]+`)

// FormatBody builds the full-body text shown in the modal. HTML wins over
// plain text; links are replaced by [n] references listed under [LINKS].
func FormatBody(e models.EmailRecord, opts FormatOptions) string {
	var body string
	var links []LinkRef
	if strings.TrimSpace(e.BodyHTML) != "" {
		if b, l, err := htmlToText(e.BodyHTML); err == nil {
			body, links = b, l
		}
	}
	if strings.TrimSpace(body) == "" {
		body = e.BodyPlain
	}
	body = normalizeNewlines(body)
	if strings.TrimSpace(body) == "" {
		return NoBodyText
	}

	if len(links) == 0 {
		links, body = detectPlainTextLinks(body)
	}
	if opts.WrapWidth > 0 {
		body = WrapText(body, opts.WrapWidth)
	}
	body = dedupeConsecutiveLines(sanitizeForTerminal(body))

	var out strings.Builder
	out.WriteString(strings.TrimSpace(body))
	if len(links) > 0 {
		out.WriteString("\n\n[LINKS]\n")
		for _, lr := range links {
			fmt.Fprintf(&out, "(%d) %s\n", lr.Index, lr.URL)
		}
	}
	return strings.TrimRight(out.String(), "\n")
}

// detectPlainTextLinks finds URLs in plain text and replaces them with [n] references
func detectPlainTextLinks(input string) ([]LinkRef, string) {
	idx := 0
	var links []LinkRef
	replaced := urlRe.ReplaceAllStringFunc(input, func(m string) string {
		idx++
		links = append(links, LinkRef{Index: idx, URL: m, Text: m})
		return fmt.Sprintf("[%d]", idx)
	})
	return links, replaced
}

// sanitizeForTerminal replaces rich-text glyphs that render as tofu
func sanitizeForTerminal(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\u00A0', '\u202F':
			b.WriteRune(' ')
		case '\u200B', '\u200C', '\u200D', '\uFEFF', '\u034F', '\u2060', '\u00AD':
		case '\u2013', '\u2014':
			b.WriteRune('-')
		case '\u2022', '\u25CF', '\u25E6':
			b.WriteString("- ")
		case '\u2018', '\u2019':
			b.WriteRune('\'')
		case '\u201C', '\u201D':
			b.WriteRune('"')
		case '\u2026':
			b.WriteString("...")
		default:
			if r >= '\u2000' && r <= '\u200A' {
				b.WriteRune(' ')
				continue
			}
			if unicode.IsControl(r) && r != '\n' && r != '\t' {
				continue
			}
			if unicode.Is(unicode.So, r) {
				continue
			}
			b.WriteRune(r)
		}
	}
	return collapseBlankLines(b.String())
}

// dedupeConsecutiveLines drops repeated lines and empty table remnants
func dedupeConsecutiveLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	var prev string
	for _, ln := range lines {
		cur := strings.TrimRight(ln, " ")
		trimmed := strings.TrimSpace(cur)
		if trimmed != "" && trimmed == prev {
			continue
		}
		if trimmed == "|" || trimmed == "| |" {
			continue
		}
		out = append(out, cur)
		prev = trimmed
	}
	return collapseBlankLines(strings.Join(out, "\n"))
}

// htmlToText walks the DOM emitting text and collecting links
func htmlToText(src string) (string, []LinkRef, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return "", nil, err
	}
	w := &htmlWriter{}
	w.visit(doc)
	return strings.TrimSpace(w.b.String()), w.links, nil
}

type htmlWriter struct {
	b          strings.Builder
	links      []LinkRef
	quoteDepth int
	// space seen after the last emitted text
	pendingSpace bool
}

func (w *htmlWriter) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.visit(c)
	}
}

func (w *htmlWriter) visit(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data)
		return
	case html.ElementNode:
	default:
		w.children(n)
		return
	}

	switch strings.ToLower(n.Data) {
	case "head", "style", "script", "title", "meta", "link", "img":
	case "br":
		w.raw("\n")
	case "hr":
		w.raw("\n-----\n")
	case "p", "h1", "h2", "h3", "h4", "h5", "h6":
		w.children(n)
		w.raw("\n\n")
	case "div", "section", "tr":
		w.children(n)
		w.raw("\n")
	case "td", "th":
		w.children(n)
		w.pendingSpace = true
	case "li":
		w.raw("- ")
		w.children(n)
		w.raw("\n")
	case "blockquote":
		w.quoteDepth++
		w.children(n)
		w.quoteDepth--
		w.raw("\n")
	case "a":
		w.anchor(n)
	default:
		w.children(n)
	}
}

// raw writes structural output and drops any pending word separator
func (w *htmlWriter) raw(s string) {
	w.b.WriteString(s)
	w.pendingSpace = false
}

func (w *htmlWriter) text(data string) {
	if data == "" {
		return
	}
	lead := unicode.IsSpace(rune(data[0]))
	trail := unicode.IsSpace(rune(data[len(data)-1]))
	text := strings.Join(strings.Fields(data), " ")
	if text == "" {
		w.pendingSpace = true
		return
	}
	w.emit(text, lead)
	w.pendingSpace = trail
}

func (w *htmlWriter) emit(text string, lead bool) {
	switch {
	case w.atLineStart():
		if w.quoteDepth > 0 {
			w.b.WriteString(strings.Repeat("> ", min(w.quoteDepth, 3)))
		}
	case lead || w.pendingSpace:
		w.b.WriteByte(' ')
	}
	w.b.WriteString(text)
	w.pendingSpace = false
}

func (w *htmlWriter) atLineStart() bool {
	s := w.b.String()
	return s == "" || s[len(s)-1] == '\n'
}

func (w *htmlWriter) anchor(n *html.Node) {
	href := attr(n, "href")
	var inner strings.Builder
	collectText(&inner, n)
	label := strings.Join(strings.Fields(inner.String()), " ")
	if label == "" {
		label = attr(n, "title")
	}
	if label == "" {
		label = href
	}
	if label == "" {
		return
	}
	if href == "" || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		w.emit(label, false)
		return
	}
	idx := len(w.links) + 1
	w.links = append(w.links, LinkRef{Index: idx, URL: href, Text: label})
	w.emit(fmt.Sprintf("%s [%d]", label, idx), false)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func collectText(b *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
			continue
		}
		collectText(b, c)
	}
}

// WrapText wraps text to a display width preserving "> " quote prefixes.
// URLs and words wider than the line are never split.
func WrapText(input string, width int) string {
	if width <= 0 {
		return input
	}
	lines := strings.Split(normalizeNewlines(input), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		prefix := ""
		rest := line
		for strings.HasPrefix(rest, "> ") {
			prefix += "> "
			rest = rest[2:]
		}
		words := strings.Fields(rest)
		if len(words) == 0 {
			out = append(out, strings.TrimRight(prefix, " "))
			continue
		}
		cur := prefix + words[0]
		for _, word := range words[1:] {
			if runewidth.StringWidth(cur)+1+runewidth.StringWidth(word) > width {
				out = append(out, cur)
				cur = prefix + word
				continue
			}
			cur += " " + word
		}
		out = append(out, cur)
	}
	return strings.Join(out, "\n")
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return collapseBlankLines(s)
}

func collapseBlankLines(s string) string {
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return s
}
