// Package engine orchestrates the extraction flow for fetched pages:
// selector resolution, normalization, assembly and storage.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/newshound/newshound/internal/assemble"
	"github.com/newshound/newshound/internal/config"
	"github.com/newshound/newshound/internal/normalize"
	"github.com/newshound/newshound/internal/observability"
	"github.com/newshound/newshound/internal/pipeline"
	"github.com/newshound/newshound/internal/selector"
	"github.com/newshound/newshound/internal/storage"
	"github.com/newshound/newshound/internal/types"
)

// metaFields are the logical fields that page metadata (OpenGraph,
// JSON-LD) can stand in for when configured rules miss.
var metaFields = []string{"title", "author", "published_at"}

// Engine runs the full extraction flow for already-fetched pages. It is
// stateless per invocation; the record store is the only shared state.
type Engine struct {
	cfg       *config.Config
	sites     *config.Catalogue
	resolver  *selector.Resolver
	text      *normalize.TextNormalizer
	dates     *normalize.DateParser
	assembler *assemble.Assembler
	store     *storage.Pipeline
	metrics   *observability.Metrics
	filters   *urlFilterCache
	logger    *slog.Logger
}

// New wires an Engine from its collaborators.
func New(cfg *config.Config, sites *config.Catalogue, store storage.Store, metrics *observability.Metrics, logger *slog.Logger) (*Engine, error) {
	dates, err := normalize.NewDateParser(cfg.Extract, logger)
	if err != nil {
		return nil, err
	}

	return &Engine{
		cfg:       cfg,
		sites:     sites,
		resolver:  selector.NewResolver(logger),
		text:      normalize.NewTextNormalizer(cfg.Extract),
		dates:     dates,
		assembler: assemble.NewAssembler(logger),
		store:     storage.NewPipeline(store, logger),
		metrics:   metrics,
		filters:   newURLFilterCache(),
		logger:    logger.With("component", "engine"),
	}, nil
}

// ExtractAndStore resolves, normalizes, assembles and persists one page.
// Field-level misses degrade completeness but never fail the page; only
// required-field validation and storage failures surface as errors or
// rejected outcomes.
func (e *Engine) ExtractAndStore(ctx context.Context, sourceID string, page *types.Page) (*types.ArticleRecord, types.StorageOutcome, error) {
	site, ok := e.sites.Get(sourceID)
	if !ok {
		return nil, types.StorageOutcome{}, fmt.Errorf("%w: %q", types.ErrUnknownSource, sourceID)
	}

	if skip, err := e.filters.filtered(site, page.URL); err != nil {
		return nil, types.StorageOutcome{}, err
	} else if skip {
		e.metrics.PagesFiltered.Add(1)
		e.logger.Debug("page filtered by url patterns", "source", sourceID, "url", page.URL)
		return nil, types.StorageOutcome{}, types.ErrURLFiltered
	}

	e.metrics.PagesProcessed.Add(1)

	fields, rawDate := e.resolveFields(site, page)

	fields, err := e.sitePipeline(site).Process(fields)
	if err != nil {
		e.metrics.PagesFailed.Add(1)
		return nil, types.StorageOutcome{}, err
	}

	publishedAt := e.parsePublished(site, rawDate, page.FetchedAt)
	if publishedAt != nil {
		fields.SetValue("published_at", publishedAt.Format(time.RFC3339))
	}

	rec, err := e.assembler.Assemble(sourceID, page.URL, fields, publishedAt, page.FetchedAt)
	if err != nil {
		e.metrics.RecordsRejected.Add(1)
		return nil, types.StorageOutcome{}, err
	}
	e.metrics.RecordsAssembled.Add(1)

	outcome := e.store.Store(ctx, rec)
	switch outcome.Status {
	case types.StatusInserted:
		e.metrics.StoredInserted.Add(1)
	case types.StatusDuplicate:
		e.metrics.StoredDuplicate.Add(1)
	case types.StatusRejected:
		e.metrics.StoredFailed.Add(1)
	}
	return rec, outcome, nil
}

// resolveFields walks the site's configured fallback chains and fills
// gaps in title/author/published_at from page metadata. The raw (not yet
// parsed) published date string is returned separately.
func (e *Engine) resolveFields(site *config.SiteConfig, page *types.Page) (pipeline.FieldSet, string) {
	names := make([]string, 0, len(site.Fields))
	for name := range site.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make(pipeline.FieldSet, len(names))
	for _, name := range names {
		raw := e.resolver.ResolveField(page, name, site.Fields[name])
		if !raw.Present {
			e.metrics.FieldsMissed.Add(1)
			continue
		}
		e.metrics.FieldsResolved.Add(1)

		value := raw.Value
		if name != "published_at" {
			value = e.text.Normalize(value, normalize.KindForField(name))
		}
		if value == "" {
			continue
		}
		fields[name] = types.ExtractedField{
			Name:            name,
			Value:           value,
			SourceRuleIndex: raw.RuleIndex,
			Confidence:      selector.Confidence(raw.RuleIndex),
		}
	}

	e.fillFromMeta(page, fields)

	rawDate := fields.Get("published_at")
	return fields, rawDate
}

// fillFromMeta consults page metadata for fields still absent after the
// configured chains ran.
func (e *Engine) fillFromMeta(page *types.Page, fields pipeline.FieldSet) {
	missing := false
	for _, name := range metaFields {
		if fields.Get(name) == "" {
			missing = true
			break
		}
	}
	if !missing {
		return
	}

	meta, err := selector.ExtractMeta(page)
	if err != nil {
		e.logger.Warn("metadata extraction failed", "url", page.URL, "error", err)
		return
	}

	for _, name := range metaFields {
		if fields.Get(name) != "" {
			continue
		}
		value := meta.Field(name)
		if name != "published_at" {
			value = e.text.Normalize(value, normalize.KindForField(name))
		}
		if value == "" {
			continue
		}
		e.metrics.MetaFallbacks.Add(1)
		fields[name] = types.ExtractedField{
			Name:            name,
			Value:           value,
			SourceRuleIndex: -1,
			Confidence:      selector.MetaConfidence,
		}
	}
}

// parsePublished normalizes the raw date string, treating an unparsable
// date as a missing-but-not-fatal field.
func (e *Engine) parsePublished(site *config.SiteConfig, raw string, fetchedAt time.Time) *time.Time {
	if raw == "" {
		return nil
	}

	loc := e.siteLocation(site)
	t, err := e.dates.Parse(raw, normalize.Locale(site.Locale), loc, fetchedAt)
	if err != nil {
		e.metrics.DatesUnparsable.Add(1)
		if errors.Is(err, types.ErrUnparsableDate) {
			e.logger.Debug("unparsable published date", "source", site.ID, "raw", raw)
			return nil
		}
		e.logger.Warn("date parse error", "source", site.ID, "raw", raw, "error", err)
		return nil
	}

	e.metrics.DatesParsed.Add(1)
	return &t
}

func (e *Engine) siteLocation(site *config.SiteConfig) *time.Location {
	if site.Timezone == "" {
		return nil
	}
	// Validated at catalogue load, so failure here means a TZ database
	// problem; fall back to the engine default.
	loc, err := time.LoadLocation(site.Timezone)
	if err != nil {
		e.logger.Warn("timezone unavailable", "source", site.ID, "timezone", site.Timezone)
		return nil
	}
	return loc
}

// sitePipeline builds the cleaning chain for one site.
func (e *Engine) sitePipeline(site *config.SiteConfig) *pipeline.Pipeline {
	p := pipeline.New(e.logger)
	p.Use(&pipeline.TrimMiddleware{})
	if len(site.TitleSuffixes) > 0 {
		p.Use(&pipeline.TitleSuffixMiddleware{Suffixes: site.TitleSuffixes})
	}
	p.Use(&pipeline.AuthorPrefixMiddleware{})
	p.Use(&pipeline.ShortFieldMiddleware{Logger: e.logger, TitleMin: 10, BodyMin: 50})
	return p
}
