package types

import (
	"bytes"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Page is an already-fetched page handed to the extraction engine.
// Fetching, redirects and transport concerns happen upstream; the core
// only sees the final URL and body.
type Page struct {
	// URL is the page URL after any redirects.
	URL string

	// Body is the raw page markup.
	Body []byte

	// FetchedAt is when the page was retrieved. Relative dates
	// ("3 days ago") are resolved against this instant.
	FetchedAt time.Time

	doc  *goquery.Document
	root *html.Node
}

// NewPage wraps fetched page content for extraction.
func NewPage(url string, body []byte, fetchedAt time.Time) *Page {
	return &Page{URL: url, Body: body, FetchedAt: fetchedAt}
}

// Document returns a parsed goquery document, lazily initializing it.
// A Page is processed by a single worker, so no locking is needed.
func (p *Page) Document() (*goquery.Document, error) {
	if p.doc != nil {
		return p.doc, nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(p.Body))
	if err != nil {
		return nil, err
	}
	p.doc = doc
	return doc, nil
}

// Root returns the parsed html node tree used for XPath evaluation,
// lazily initializing it.
func (p *Page) Root() (*html.Node, error) {
	if p.root != nil {
		return p.root, nil
	}
	root, err := html.Parse(bytes.NewReader(p.Body))
	if err != nil {
		return nil, err
	}
	p.root = root
	return root, nil
}

// Text returns the raw body as a string, for regex rules.
func (p *Page) Text() string {
	return string(p.Body)
}
