package pipeline

import (
	"log/slog"
	"os"
	"testing"

	"github.com/newshound/newshound/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func makeFields() FieldSet {
	return FieldSet{
		"title":  types.ExtractedField{Name: "title", Value: "  Big Story - CNN  ", SourceRuleIndex: 0, Confidence: 1.0},
		"author": types.ExtractedField{Name: "author", Value: "By Jane Doe", SourceRuleIndex: 1, Confidence: 0.5},
		"body":   types.ExtractedField{Name: "body", Value: "Short.", SourceRuleIndex: 0, Confidence: 1.0},
	}
}

func TestPipelineChain(t *testing.T) {
	p := New(testLogger)
	p.Use(&TrimMiddleware{})
	p.Use(&TitleSuffixMiddleware{Suffixes: []string{" - CNN"}})
	p.Use(&AuthorPrefixMiddleware{})

	if p.Len() != 3 {
		t.Fatalf("expected 3 middleware, got %d", p.Len())
	}

	out, err := p.Process(makeFields())
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	if got := out.Get("title"); got != "Big Story" {
		t.Errorf("title: got %q", got)
	}
	if got := out.Get("author"); got != "Jane Doe" {
		t.Errorf("author: got %q", got)
	}
}

func TestTrimMiddlewareKeepsProvenance(t *testing.T) {
	out, err := (&TrimMiddleware{}).Process(makeFields())
	if err != nil {
		t.Fatal(err)
	}
	f := out["author"]
	if f.SourceRuleIndex != 1 || f.Confidence != 0.5 {
		t.Errorf("provenance lost after rewrite: %+v", f)
	}
}

func TestTitleSuffixMiddleware(t *testing.T) {
	mw := &TitleSuffixMiddleware{Suffixes: []string{" - CNN", " | Reuters"}}

	cases := []struct {
		in   string
		want string
	}{
		{"Big Story - CNN", "Big Story"},
		{"Markets Fall | Reuters", "Markets Fall"},
		{"No Suffix Here", "No Suffix Here"},
		{"", ""},
	}
	for _, c := range cases {
		fields := FieldSet{"title": types.ExtractedField{Name: "title", Value: c.in}}
		out, err := mw.Process(fields)
		if err != nil {
			t.Fatal(err)
		}
		if got := out.Get("title"); got != c.want {
			t.Errorf("title %q: got %q, want %q", c.in, got, c.want)
		}
	}
}

func TestAuthorPrefixMiddleware(t *testing.T) {
	mw := &AuthorPrefixMiddleware{}

	cases := []struct {
		in   string
		want string
	}{
		{"By Jane Doe", "Jane Doe"},
		{"by John Smith", "John Smith"},
		{"Byron Author", "Byron Author"},
		{"", ""},
	}
	for _, c := range cases {
		fields := FieldSet{"author": types.ExtractedField{Name: "author", Value: c.in}}
		out, err := mw.Process(fields)
		if err != nil {
			t.Fatal(err)
		}
		if got := out.Get("author"); got != c.want {
			t.Errorf("author %q: got %q, want %q", c.in, got, c.want)
		}
	}
}

func TestShortFieldMiddlewareNeverDrops(t *testing.T) {
	mw := &ShortFieldMiddleware{Logger: testLogger, TitleMin: 10, BodyMin: 50}

	fields := FieldSet{
		"title": types.ExtractedField{Name: "title", Value: "Tiny"},
		"body":  types.ExtractedField{Name: "body", Value: "Short."},
	}
	out, err := mw.Process(fields)
	if err != nil {
		t.Fatalf("short fields must only warn: %v", err)
	}
	if out.Get("title") != "Tiny" || out.Get("body") != "Short." {
		t.Error("short fields must pass through unchanged")
	}
}

func TestFieldSetSetValue(t *testing.T) {
	fs := FieldSet{}
	fs.SetValue("section", "world")

	f := fs["section"]
	if f.Name != "section" || f.Value != "world" {
		t.Errorf("unexpected field after SetValue: %+v", f)
	}
}
