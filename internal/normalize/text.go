// Package normalize cleans extracted field text and parses heterogeneous
// date strings into canonical UTC instants.
package normalize

import (
	"html"
	"strings"

	xhtml "golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/newshound/newshound/internal/config"
)

// FieldKind selects field-specific normalization behavior.
type FieldKind int

const (
	// KindGeneric collapses all whitespace to single spaces.
	KindGeneric FieldKind = iota
	KindTitle
	KindAuthor
	// KindBody keeps paragraph breaks while collapsing whitespace
	// within lines.
	KindBody
)

// KindForField maps a logical field name to its normalization kind.
func KindForField(name string) FieldKind {
	switch name {
	case "title":
		return KindTitle
	case "author":
		return KindAuthor
	case "body", "content":
		return KindBody
	default:
		return KindGeneric
	}
}

// TextNormalizer strips markup residue and enforces per-field length
// limits. It never fails; the worst case is an empty string.
type TextNormalizer struct {
	titleMax  int
	authorMax int
	bodyMax   int
}

// NewTextNormalizer builds a normalizer from the extraction config.
// Limits of zero mean unlimited.
func NewTextNormalizer(cfg config.ExtractConfig) *TextNormalizer {
	return &TextNormalizer{
		titleMax:  cfg.TitleMaxLen,
		authorMax: cfg.AuthorMaxLen,
		bodyMax:   cfg.BodyMaxLen,
	}
}

// Normalize cleans a raw extracted value: residual tags are stripped,
// entities decoded, unicode NFC-normalized, whitespace collapsed, and the
// result truncated to the field's limit.
func (n *TextNormalizer) Normalize(raw string, kind FieldKind) string {
	s := raw
	if strings.ContainsRune(s, '<') {
		s = stripTags(s)
	}
	s = html.UnescapeString(s)
	s = norm.NFC.String(s)

	if kind == KindBody {
		s = collapseBody(s)
	} else {
		s = strings.Join(strings.Fields(s), " ")
	}

	return truncate(s, n.limit(kind))
}

func (n *TextNormalizer) limit(kind FieldKind) int {
	switch kind {
	case KindTitle:
		return n.titleMax
	case KindAuthor:
		return n.authorMax
	case KindBody:
		return n.bodyMax
	default:
		return 0
	}
}

// stripTags removes markup the selector stage left behind, keeping only
// text content. Block-level boundaries become newlines so body paragraph
// structure survives.
func stripTags(s string) string {
	var b strings.Builder
	tok := xhtml.NewTokenizer(strings.NewReader(s))
	depthSkip := 0

	for {
		switch tok.Next() {
		case xhtml.ErrorToken:
			return b.String()
		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			name, _ := tok.TagName()
			switch string(name) {
			case "script", "style", "noscript":
				depthSkip++
				b.WriteByte('\n')
			case "p", "br", "div", "li", "tr", "h1", "h2", "h3", "h4", "h5", "h6":
				b.WriteByte('\n')
			}
		case xhtml.EndTagToken:
			name, _ := tok.TagName()
			switch string(name) {
			case "script", "style", "noscript":
				if depthSkip > 0 {
					depthSkip--
				}
			case "p", "div", "li", "tr", "h1", "h2", "h3", "h4", "h5", "h6":
				b.WriteByte('\n')
			}
		case xhtml.TextToken:
			if depthSkip == 0 {
				b.Write(tok.Text())
			}
		}
	}
}

// collapseBody trims each line, drops empty lines, and collapses runs of
// whitespace within lines while keeping newlines between paragraphs.
func collapseBody(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// truncate cuts s to at most max runes. Zero means unlimited.
func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max]))
}
