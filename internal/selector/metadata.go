package selector

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/newshound/newshound/internal/types"
)

// PageMeta holds article fields advertised by the page itself through
// OpenGraph tags, JSON-LD and standard meta tags. It is consulted as a
// last-resort source when a field's configured rules all miss.
type PageMeta struct {
	Title     string
	Author    string
	Published string
}

// Field returns the metadata value for a logical field name.
func (m PageMeta) Field(name string) string {
	switch name {
	case "title":
		return m.Title
	case "author":
		return m.Author
	case "published_at":
		return m.Published
	default:
		return ""
	}
}

// ExtractMeta collects article metadata from a page. Extraction is
// best-effort; malformed JSON-LD blocks are skipped.
func ExtractMeta(page *types.Page) (PageMeta, error) {
	doc, err := page.Document()
	if err != nil {
		return PageMeta{}, err
	}

	var meta PageMeta
	fillFromJSONLD(doc, &meta)
	fillFromOpenGraph(doc, &meta)
	fillFromMetaTags(doc, &meta)
	return meta, nil
}

// fillFromJSONLD parses <script type="application/ld+json"> blocks and
// takes Article-typed fields from the first usable one.
func fillFromJSONLD(doc *goquery.Document, meta *PageMeta) {
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(i int, sel *goquery.Selection) bool {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" {
			return true
		}

		var objs []map[string]any
		var single map[string]any
		if err := json.Unmarshal([]byte(raw), &single); err == nil {
			objs = append(objs, single)
		} else if err := json.Unmarshal([]byte(raw), &objs); err != nil {
			return true
		}

		for _, obj := range objs {
			if !isArticleType(obj["@type"]) {
				continue
			}
			if meta.Title == "" {
				meta.Title, _ = obj["headline"].(string)
			}
			if meta.Author == "" {
				meta.Author = jsonLDAuthor(obj["author"])
			}
			if meta.Published == "" {
				meta.Published, _ = obj["datePublished"].(string)
			}
			return false
		}
		return true
	})
}

func isArticleType(v any) bool {
	switch t := v.(type) {
	case string:
		return strings.Contains(t, "Article")
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && strings.Contains(s, "Article") {
				return true
			}
		}
	}
	return false
}

// jsonLDAuthor handles the three common author shapes: a plain string,
// a Person object, or a list of either.
func jsonLDAuthor(v any) string {
	switch a := v.(type) {
	case string:
		return a
	case map[string]any:
		name, _ := a["name"].(string)
		return name
	case []any:
		var names []string
		for _, item := range a {
			if name := jsonLDAuthor(item); name != "" {
				names = append(names, name)
			}
		}
		return strings.Join(names, ", ")
	}
	return ""
}

// fillFromOpenGraph reads og: and article: properties.
func fillFromOpenGraph(doc *goquery.Document, meta *PageMeta) {
	doc.Find(`meta[property^="og:"], meta[property^="article:"]`).Each(func(i int, sel *goquery.Selection) {
		property, _ := sel.Attr("property")
		content, _ := sel.Attr("content")
		if content == "" {
			return
		}
		switch property {
		case "og:title":
			if meta.Title == "" {
				meta.Title = content
			}
		case "article:published_time":
			if meta.Published == "" {
				meta.Published = content
			}
		case "article:author":
			if meta.Author == "" && !strings.HasPrefix(content, "http") {
				meta.Author = content
			}
		}
	})
}

// fillFromMetaTags reads standard meta tags as the lowest-priority source.
func fillFromMetaTags(doc *goquery.Document, meta *PageMeta) {
	doc.Find(`meta[name]`).Each(func(i int, sel *goquery.Selection) {
		name, _ := sel.Attr("name")
		content, _ := sel.Attr("content")
		if content == "" {
			return
		}
		switch name {
		case "author":
			if meta.Author == "" {
				meta.Author = content
			}
		case "date", "publish-date", "article:published_time":
			if meta.Published == "" {
				meta.Published = content
			}
		}
	})
}
