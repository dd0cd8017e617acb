package pipeline

import (
	"log/slog"
	"strings"
)

// TrimMiddleware trims whitespace from every field value.
type TrimMiddleware struct{}

func (m *TrimMiddleware) Name() string { return "trim" }

func (m *TrimMiddleware) Process(fields FieldSet) (FieldSet, error) {
	for name, f := range fields {
		if trimmed := strings.TrimSpace(f.Value); trimmed != f.Value {
			fields.SetValue(name, trimmed)
		}
	}
	return fields, nil
}

// TitleSuffixMiddleware strips configured boilerplate endings from the
// title (" - CNN", " | Reuters").
type TitleSuffixMiddleware struct {
	Suffixes []string
}

func (m *TitleSuffixMiddleware) Name() string { return "title_suffix" }

func (m *TitleSuffixMiddleware) Process(fields FieldSet) (FieldSet, error) {
	title := fields.Get("title")
	if title == "" {
		return fields, nil
	}
	for _, suffix := range m.Suffixes {
		if strings.HasSuffix(title, suffix) {
			title = strings.TrimSpace(strings.TrimSuffix(title, suffix))
			break
		}
	}
	fields.SetValue("title", title)
	return fields, nil
}

// ShortFieldMiddleware logs fields that look implausibly short. It never
// drops a record; length anomalies degrade confidence in downstream
// review, not validity.
type ShortFieldMiddleware struct {
	Logger   *slog.Logger
	TitleMin int
	BodyMin  int
}

func (m *ShortFieldMiddleware) Name() string { return "short_field" }

func (m *ShortFieldMiddleware) Process(fields FieldSet) (FieldSet, error) {
	if title := fields.Get("title"); title != "" && len([]rune(title)) < m.TitleMin {
		m.Logger.Warn("title is suspiciously short", "length", len([]rune(title)), "title", title)
	}
	if body := fields.Get("body"); body != "" && len([]rune(body)) < m.BodyMin {
		m.Logger.Warn("body is suspiciously short", "length", len([]rune(body)))
	}
	return fields, nil
}

// AuthorPrefixMiddleware strips byline prefixes ("By ", "Von ") from the
// author field.
type AuthorPrefixMiddleware struct{}

func (m *AuthorPrefixMiddleware) Name() string { return "author_prefix" }

var authorPrefixes = []string{"By ", "by ", "BY "}

func (m *AuthorPrefixMiddleware) Process(fields FieldSet) (FieldSet, error) {
	author := fields.Get("author")
	if author == "" {
		return fields, nil
	}
	for _, prefix := range authorPrefixes {
		if strings.HasPrefix(author, prefix) {
			fields.SetValue("author", strings.TrimSpace(strings.TrimPrefix(author, prefix)))
			break
		}
	}
	return fields, nil
}
