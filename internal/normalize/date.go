package normalize

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/newshound/newshound/internal/config"
	"github.com/newshound/newshound/internal/types"
)

// Locale disambiguates numeric date forms where day and month cannot be
// told apart ("03/04/2024").
type Locale string

const (
	// LocaleDayFirst reads 03/04/2024 as 3 April. This is the default
	// ordering when no hint is configured.
	LocaleDayFirst Locale = "dmy"

	// LocaleMonthFirst reads 03/04/2024 as March 4.
	LocaleMonthFirst Locale = "mdy"
)

// DateParser turns raw date strings of unknown format into canonical UTC
// instants. Matchers run in a fixed priority order from most specific
// (explicit ISO with zone) to most ambiguous (bare numeric forms), and
// the first success wins.
type DateParser struct {
	logger *slog.Logger
	loc    *time.Location
	locale Locale
}

// NewDateParser builds a parser with the configured default timezone and
// numeric-date ordering.
func NewDateParser(cfg config.ExtractConfig, logger *slog.Logger) (*DateParser, error) {
	loc := time.UTC
	if cfg.DefaultTimezone != "" {
		var err error
		loc, err = time.LoadLocation(cfg.DefaultTimezone)
		if err != nil {
			return nil, fmt.Errorf("default timezone: %w", err)
		}
	}

	locale := LocaleDayFirst
	if cfg.DefaultLocale == string(LocaleMonthFirst) {
		locale = LocaleMonthFirst
	}

	return &DateParser{
		logger: logger.With("component", "dates"),
		loc:    loc,
		locale: locale,
	}, nil
}

// exactLayouts are unambiguous formats, tried first. Forms carrying an
// explicit zone come before zone-less ones. Two-digit years follow the
// stdlib pivot: 00-68 resolve to the 2000s, 69-99 to the 1900s.
var exactLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.RFC850,
	time.UnixDate,
	time.ANSIC,
	"January 2, 2006 15:04:05 MST",
	"January 2, 2006 15:04 MST",
	"January 2, 2006 at 15:04",
	"January 2, 2006 15:04",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006 15:04 MST",
	"Jan 2, 2006 15:04",
	"Jan 2, 2006",
	"2 January 2006 15:04 MST",
	"2 January 2006 15:04",
	"2 January 2006",
	"2 Jan 2006 15:04",
	"2 Jan 2006",
	"Monday, January 2, 2006",
	"Monday, 2 January 2006",
	"2006/01/02 15:04",
	"2006/01/02",
}

// dayFirstLayouts and monthFirstLayouts are the inherently ambiguous
// numeric forms, tried last in the order the locale hint dictates.
var (
	dayFirstLayouts = []string{
		"02/01/2006 15:04",
		"02/01/2006",
		"02-01-2006",
		"02.01.2006",
		"02/01/06",
	}
	monthFirstLayouts = []string{
		"01/02/2006 15:04",
		"01/02/2006",
		"01-02-2006",
		"01.02.2006",
		"01/02/06",
	}
)

// Parse resolves raw into a UTC instant. hint overrides the default
// numeric ordering when non-empty; loc overrides the assumed zone for
// zone-less forms when non-nil; ref anchors relative forms such as
// "3 days ago".
func (p *DateParser) Parse(raw string, hint Locale, loc *time.Location, ref time.Time) (time.Time, error) {
	s := cleanDateString(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty string", types.ErrUnparsableDate)
	}
	if loc == nil {
		loc = p.loc
	}

	if t, ok := parseLayouts(s, exactLayouts, loc); ok {
		return t, nil
	}
	if t, ok := parseRelative(s, ref); ok {
		return t, nil
	}
	if t, ok := parseClockFirst(s, loc); ok {
		return t, nil
	}

	first, second := dayFirstLayouts, monthFirstLayouts
	locale := p.locale
	if hint != "" {
		locale = hint
	}
	if locale == LocaleMonthFirst {
		first, second = monthFirstLayouts, dayFirstLayouts
	}
	if t, ok := parseLayouts(s, first, loc); ok {
		return t, nil
	}
	if t, ok := parseLayouts(s, second, loc); ok {
		return t, nil
	}

	p.logger.Debug("date did not match any format", "raw", raw)
	return time.Time{}, fmt.Errorf("%w: %q", types.ErrUnparsableDate, raw)
}

func parseLayouts(s string, layouts []string, loc *time.Location) (time.Time, bool) {
	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			continue
		}
		return fixKnownZone(t).UTC(), true
	}
	return time.Time{}, false
}

var (
	ordinalRe = regexp.MustCompile(`(\d)(st|nd|rd|th)\b`)
	labelRe   = regexp.MustCompile(`^(?i)(published|updated|posted)(\s+on)?[:\s]+`)
)

// cleanDateString trims bylines and ordinal suffixes that wrap the date
// proper ("Published: March 3rd, 2023").
func cleanDateString(raw string) string {
	s := strings.TrimSpace(raw)
	s = labelRe.ReplaceAllString(s, "")
	s = ordinalRe.ReplaceAllString(s, "$1")
	return strings.TrimSpace(s)
}

// zoneOffsets maps common timezone abbreviations to their UTC offsets in
// seconds. time.Parse leaves unknown abbreviations at offset zero, which
// would silently shift instants; the common ones are corrected here.
var zoneOffsets = map[string]int{
	"UTC": 0, "GMT": 0,
	"EST": -5 * 3600, "EDT": -4 * 3600,
	"CST": -6 * 3600, "CDT": -5 * 3600,
	"MST": -7 * 3600, "MDT": -6 * 3600,
	"PST": -8 * 3600, "PDT": -7 * 3600,
	"BST": 1 * 3600, "CET": 1 * 3600, "CEST": 2 * 3600,
}

func fixKnownZone(t time.Time) time.Time {
	name, offset := t.Zone()
	want, ok := zoneOffsets[name]
	if !ok || offset == want {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(),
		t.Second(), t.Nanosecond(), time.FixedZone(name, want))
}

var relativeRe = regexp.MustCompile(`^(?i)(an?|\d+)\s+(second|minute|hour|day|week|month|year)s?\s+ago$`)

// relativeUnits approximates months as 30 days and years as 365, the
// usual convention for "N months ago" bylines.
var relativeUnits = map[string]time.Duration{
	"second": time.Second,
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
	"week":   7 * 24 * time.Hour,
	"month":  30 * 24 * time.Hour,
	"year":   365 * 24 * time.Hour,
}

// parseRelative resolves relative forms against the reference instant.
func parseRelative(s string, ref time.Time) (time.Time, bool) {
	switch strings.ToLower(s) {
	case "just now", "a moment ago", "now", "today":
		return ref.UTC(), true
	case "yesterday":
		return ref.Add(-24 * time.Hour).UTC(), true
	}

	m := relativeRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}

	n := 1
	if m[1] != "a" && m[1] != "an" && m[1] != "A" && m[1] != "An" {
		var err error
		n, err = strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}
	}

	unit, ok := relativeUnits[strings.ToLower(m[2])]
	if !ok {
		return time.Time{}, false
	}
	return ref.Add(-time.Duration(n) * unit).UTC(), true
}

var clockFirstRe = regexp.MustCompile(`(?i)(\d{1,2}):(\d{2})\s*(AM|PM)\s*([A-Z]{2,5}),\s*(?:[A-Za-z]+,?\s+)?([A-Za-z]+)\s+(\d{1,2}),\s+(\d{4})`)

var monthsByName = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// parseClockFirst handles time-leading bylines such as
// "10:30 AM EST, Thu December 21, 2024".
func parseClockFirst(s string, loc *time.Location) (time.Time, bool) {
	m := clockFirstRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if strings.EqualFold(m[3], "PM") && hour != 12 {
		hour += 12
	} else if strings.EqualFold(m[3], "AM") && hour == 12 {
		hour = 0
	}

	month, ok := monthsByName[strings.ToLower(m[5])]
	if !ok {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[6])
	year, _ := strconv.Atoi(m[7])

	zone := strings.ToUpper(m[4])
	if offset, ok := zoneOffsets[zone]; ok {
		loc = time.FixedZone(zone, offset)
	}

	return time.Date(year, month, day, hour, minute, 0, 0, loc).UTC(), true
}
