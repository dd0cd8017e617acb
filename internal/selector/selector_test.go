package selector

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/newshound/newshound/internal/config"
	"github.com/newshound/newshound/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

const articleHTML = `<!DOCTYPE html>
<html>
<head>
    <title>Breaking News - Example</title>
    <meta property="og:title" content="OG Fallback Title">
    <meta property="article:published_time" content="2024-12-21T10:30:00Z">
    <meta name="author" content="Meta Tag Author">
    <script type="application/ld+json">
    {"@context":"https://schema.org","@type":"NewsArticle","headline":"JSON-LD Headline","author":{"@type":"Person","name":"Jane Doe"},"datePublished":"2024-12-21T09:00:00Z"}
    </script>
</head>
<body>
    <h1>Breaking News</h1>
    <div class="byline">By John Smith</div>
    <time datetime="2024-12-21T10:30:00Z">December 21, 2024</time>
    <article>
        <p>First paragraph.</p>
        <p>Second paragraph.</p>
        <p>  </p>
        <p>Third paragraph.</p>
    </article>
    <span class="meta">story-id: ABC-4521</span>
</body>
</html>`

func makePage(body string) *types.Page {
	return types.NewPage("https://example.com/news/story-1", []byte(body), time.Now())
}

// --- Fallback Chain Tests ---

func TestResolveFieldFallback(t *testing.T) {
	r := NewResolver(testLogger)
	page := makePage(articleHTML)

	rules := []config.SelectorRule{
		{Expression: ".headline"},
		{Expression: "h1"},
	}

	got := r.ResolveField(page, "title", rules)
	if !got.Present {
		t.Fatal("expected title to resolve")
	}
	if got.Value != "Breaking News" {
		t.Errorf("expected 'Breaking News', got %q", got.Value)
	}
	if got.RuleIndex != 1 {
		t.Errorf("expected rule index 1, got %d", got.RuleIndex)
	}
}

func TestResolveFieldFirstRuleWins(t *testing.T) {
	r := NewResolver(testLogger)
	page := makePage(articleHTML)

	rules := []config.SelectorRule{
		{Expression: "h1"},
		{Expression: ".byline"},
	}

	got := r.ResolveField(page, "title", rules)
	if got.Value != "Breaking News" || got.RuleIndex != 0 {
		t.Errorf("expected first rule to win, got %q at index %d", got.Value, got.RuleIndex)
	}
}

func TestResolveFieldAbsent(t *testing.T) {
	r := NewResolver(testLogger)
	page := makePage(articleHTML)

	rules := []config.SelectorRule{
		{Expression: ".no-such-class"},
		{Expression: "aside"},
	}

	got := r.ResolveField(page, "section", rules)
	if got.Present {
		t.Errorf("expected absent field, got %q", got.Value)
	}
	if got.RuleIndex != -1 {
		t.Errorf("expected rule index -1, got %d", got.RuleIndex)
	}
}

func TestResolveFieldSkipsMalformedRule(t *testing.T) {
	r := NewResolver(testLogger)
	page := makePage(articleHTML)

	rules := []config.SelectorRule{
		{Expression: "//h1", Kind: "not-a-kind"},
		{Expression: "(unbalanced", Kind: config.KindRegex},
		{Expression: "h1"},
	}

	got := r.ResolveField(page, "title", rules)
	if !got.Present {
		t.Fatal("malformed rules must not abort the chain")
	}
	if got.Value != "Breaking News" || got.RuleIndex != 2 {
		t.Errorf("expected fallthrough to rule 2, got %q at index %d", got.Value, got.RuleIndex)
	}
}

func TestResolveFieldTrimsWhitespace(t *testing.T) {
	r := NewResolver(testLogger)
	page := makePage(`<html><body><h1>
		Padded Title
	</h1></body></html>`)

	got := r.ResolveField(page, "title", []config.SelectorRule{{Expression: "h1"}})
	if got.Value != "Padded Title" {
		t.Errorf("expected trimmed value, got %q", got.Value)
	}
}

// --- CSS Rule Tests ---

func TestCSSAttribute(t *testing.T) {
	r := NewResolver(testLogger)
	page := makePage(articleHTML)

	rules := []config.SelectorRule{{Expression: "time", Attribute: "datetime"}}
	got := r.ResolveField(page, "published_at", rules)
	if got.Value != "2024-12-21T10:30:00Z" {
		t.Errorf("expected datetime attribute, got %q", got.Value)
	}
}

func TestCSSJoin(t *testing.T) {
	r := NewResolver(testLogger)
	page := makePage(articleHTML)

	rules := []config.SelectorRule{{Expression: "article p", Join: "\n\n"}}
	got := r.ResolveField(page, "body", rules)

	want := "First paragraph.\n\nSecond paragraph.\n\nThird paragraph."
	if got.Value != want {
		t.Errorf("expected joined paragraphs, got %q", got.Value)
	}
}

// --- XPath Rule Tests ---

func TestXPathRule(t *testing.T) {
	r := NewResolver(testLogger)
	page := makePage(articleHTML)

	rules := []config.SelectorRule{
		{Expression: "//div[@class='byline']", Kind: config.KindXPath},
	}
	got := r.ResolveField(page, "author", rules)
	if got.Value != "By John Smith" {
		t.Errorf("expected byline text, got %q", got.Value)
	}
}

func TestXPathAttribute(t *testing.T) {
	r := NewResolver(testLogger)
	page := makePage(articleHTML)

	rules := []config.SelectorRule{
		{Expression: "//meta[@property='og:title']/@content", Kind: config.KindXPath},
	}
	got := r.ResolveField(page, "title", rules)
	if got.Value != "OG Fallback Title" {
		t.Errorf("expected og:title content, got %q", got.Value)
	}
}

// --- Regex Rule Tests ---

func TestRegexCaptureGroup(t *testing.T) {
	r := NewResolver(testLogger)
	page := makePage(articleHTML)

	rules := []config.SelectorRule{
		{Expression: `story-id: ([A-Z]+-\d+)`, Kind: config.KindRegex},
	}
	got := r.ResolveField(page, "story_id", rules)
	if got.Value != "ABC-4521" {
		t.Errorf("expected capture group value, got %q", got.Value)
	}
}

func TestRegexWholeMatch(t *testing.T) {
	r := NewResolver(testLogger)
	page := makePage(articleHTML)

	rules := []config.SelectorRule{
		{Expression: `[A-Z]{3}-\d+`, Kind: config.KindRegex},
	}
	got := r.ResolveField(page, "story_id", rules)
	if got.Value != "ABC-4521" {
		t.Errorf("expected whole match, got %q", got.Value)
	}
}

// --- Confidence Tests ---

func TestConfidence(t *testing.T) {
	cases := []struct {
		ruleIndex int
		want      float64
	}{
		{0, 1.0},
		{1, 0.5},
		{2, 1.0 / 3.0},
		{-1, 0},
	}
	for _, c := range cases {
		if got := Confidence(c.ruleIndex); got != c.want {
			t.Errorf("Confidence(%d) = %v, want %v", c.ruleIndex, got, c.want)
		}
	}
}

// --- Metadata Tests ---

func TestExtractMetaJSONLD(t *testing.T) {
	meta, err := ExtractMeta(makePage(articleHTML))
	if err != nil {
		t.Fatalf("meta extraction failed: %v", err)
	}

	if meta.Title != "JSON-LD Headline" {
		t.Errorf("expected JSON-LD headline, got %q", meta.Title)
	}
	if meta.Author != "Jane Doe" {
		t.Errorf("expected JSON-LD author, got %q", meta.Author)
	}
	if meta.Published != "2024-12-21T09:00:00Z" {
		t.Errorf("expected JSON-LD date, got %q", meta.Published)
	}
}

func TestExtractMetaOpenGraphFallback(t *testing.T) {
	page := makePage(`<html><head>
		<meta property="og:title" content="OG Only Title">
		<meta property="article:published_time" content="2024-01-05T08:00:00Z">
	</head><body></body></html>`)

	meta, err := ExtractMeta(page)
	if err != nil {
		t.Fatalf("meta extraction failed: %v", err)
	}
	if meta.Title != "OG Only Title" {
		t.Errorf("expected og:title, got %q", meta.Title)
	}
	if meta.Published != "2024-01-05T08:00:00Z" {
		t.Errorf("expected article:published_time, got %q", meta.Published)
	}
}

func TestExtractMetaSkipsMalformedJSONLD(t *testing.T) {
	page := makePage(`<html><head>
		<script type="application/ld+json">{not valid json</script>
		<meta name="author" content="Tag Author">
	</head><body></body></html>`)

	meta, err := ExtractMeta(page)
	if err != nil {
		t.Fatalf("meta extraction failed: %v", err)
	}
	if meta.Author != "Tag Author" {
		t.Errorf("expected meta tag author, got %q", meta.Author)
	}
}

func TestPageMetaField(t *testing.T) {
	meta := PageMeta{Title: "T", Author: "A", Published: "P"}
	if meta.Field("title") != "T" || meta.Field("author") != "A" || meta.Field("published_at") != "P" {
		t.Error("field mapping mismatch")
	}
	if meta.Field("body") != "" {
		t.Error("unknown fields must map to empty")
	}
}
