// Package assemble combines resolved fields into canonical article
// records, applying required-field validation and fingerprinting.
package assemble

import (
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/newshound/newshound/internal/types"
)

// Assembler builds validated ArticleRecords from resolved fields.
type Assembler struct {
	logger *slog.Logger
}

// NewAssembler creates a record assembler.
func NewAssembler(logger *slog.Logger) *Assembler {
	return &Assembler{
		logger: logger.With("component", "assembler"),
	}
}

// Assemble validates the resolved fields and produces the canonical
// record. url must be a well-formed absolute URL and title must be
// non-empty after normalization; these are the only hard requirements.
// A missing body is tolerated but flagged, and a nil publishedAt is
// tolerated.
func (a *Assembler) Assemble(sourceID, pageURL string, fields map[string]types.ExtractedField, publishedAt *time.Time, fetchedAt time.Time) (*types.ArticleRecord, error) {
	cleanURL, err := normalizeURL(pageURL)
	if err != nil {
		return nil, types.MissingRequiredField("url")
	}

	title := fields["title"].Value
	if strings.TrimSpace(title) == "" {
		return nil, types.MissingRequiredField("title")
	}

	body := fields["body"].Value
	if body == "" {
		a.logger.Warn("record has no body", "source", sourceID, "url", cleanURL)
	}

	rec := &types.ArticleRecord{
		SourceID:           sourceID,
		URL:                cleanURL,
		Title:              title,
		Body:               body,
		Author:             fields["author"].Value,
		PublishedAt:        publishedAt,
		FetchedAt:          fetchedAt.UTC(),
		ContentFingerprint: Fingerprint(sourceID, cleanURL, title, body),
		RawFields:          fields,
	}
	return rec, nil
}

// normalizeURL validates the URL is absolute and strips query parameters
// and fragments, which on news sites carry tracking state rather than
// article identity.
func normalizeURL(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", &types.ValidationError{Field: "url", Reason: "not an absolute http(s) URL"}
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}
