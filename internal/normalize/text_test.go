package normalize

import (
	"strings"
	"testing"

	"github.com/newshound/newshound/internal/config"
)

func newTestNormalizer() *TextNormalizer {
	return NewTextNormalizer(config.ExtractConfig{
		TitleMaxLen:  512,
		AuthorMaxLen: 256,
		BodyMaxLen:   0,
	})
}

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	n := newTestNormalizer()

	got := n.Normalize("  Breaking\t\tNews \n Today  ", KindTitle)
	if got != "Breaking News Today" {
		t.Errorf("expected collapsed whitespace, got %q", got)
	}
}

func TestNormalizeStripsResidualTags(t *testing.T) {
	n := newTestNormalizer()

	got := n.Normalize(`<b>Bold</b> and <a href="/x">linked</a> text`, KindTitle)
	if got != "Bold and linked text" {
		t.Errorf("expected tags stripped, got %q", got)
	}
}

func TestNormalizeSkipsScriptContent(t *testing.T) {
	n := newTestNormalizer()

	got := n.Normalize(`before<script>var x = 1;</script>after`, KindGeneric)
	if got != "before after" {
		t.Errorf("expected script content dropped, got %q", got)
	}
}

func TestNormalizeDecodesEntities(t *testing.T) {
	n := newTestNormalizer()

	got := n.Normalize("Fish &amp; Chips &mdash; a review", KindTitle)
	if got != "Fish & Chips — a review" {
		t.Errorf("expected decoded entities, got %q", got)
	}
}

func TestNormalizeUnicodeNFC(t *testing.T) {
	n := newTestNormalizer()

	// "é" as e + combining acute must compose to the single rune.
	got := n.Normalize("Café", KindTitle)
	if got != "Café" {
		t.Errorf("expected NFC composition, got %q", got)
	}
}

func TestNormalizeBodyKeepsParagraphs(t *testing.T) {
	n := newTestNormalizer()

	raw := "First   paragraph here.\n\n  Second\tparagraph. \n\n\nThird."
	got := n.Normalize(raw, KindBody)
	want := "First paragraph here.\nSecond paragraph.\nThird."
	if got != want {
		t.Errorf("expected paragraph structure kept:\n got %q\nwant %q", got, want)
	}
}

func TestNormalizeBodyFromMarkup(t *testing.T) {
	n := newTestNormalizer()

	raw := "<p>One.</p><p>Two.</p><div>Three.</div>"
	got := n.Normalize(raw, KindBody)
	want := "One.\nTwo.\nThree."
	if got != want {
		t.Errorf("expected block tags to become breaks:\n got %q\nwant %q", got, want)
	}
}

func TestNormalizeTruncatesByRunes(t *testing.T) {
	n := NewTextNormalizer(config.ExtractConfig{TitleMaxLen: 10})

	got := n.Normalize(strings.Repeat("é", 20), KindTitle)
	if len([]rune(got)) != 10 {
		t.Errorf("expected 10 runes, got %d (%q)", len([]rune(got)), got)
	}
}

func TestNormalizeUnlimitedBody(t *testing.T) {
	n := newTestNormalizer()

	long := strings.Repeat("word ", 10000)
	got := n.Normalize(long, KindBody)
	if len(got) < len("word")*10000 {
		t.Errorf("body must not be truncated when the limit is zero, got %d bytes", len(got))
	}
}

func TestNormalizeEmpty(t *testing.T) {
	n := newTestNormalizer()

	if got := n.Normalize("   \n\t ", KindTitle); got != "" {
		t.Errorf("expected empty result, got %q", got)
	}
}

func TestKindForField(t *testing.T) {
	cases := map[string]FieldKind{
		"title":        KindTitle,
		"author":       KindAuthor,
		"body":         KindBody,
		"content":      KindBody,
		"section":      KindGeneric,
		"published_at": KindGeneric,
	}
	for name, want := range cases {
		if got := KindForField(name); got != want {
			t.Errorf("KindForField(%q) = %v, want %v", name, got, want)
		}
	}
}
