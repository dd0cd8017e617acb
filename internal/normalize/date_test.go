package normalize

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/newshound/newshound/internal/config"
	"github.com/newshound/newshound/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

var testRef = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

func newTestParser(t *testing.T, locale string) *DateParser {
	t.Helper()
	p, err := NewDateParser(config.ExtractConfig{
		DefaultTimezone: "UTC",
		DefaultLocale:   locale,
	}, testLogger)
	if err != nil {
		t.Fatalf("parser construction failed: %v", err)
	}
	return p
}

func mustParse(t *testing.T, p *DateParser, raw string) time.Time {
	t.Helper()
	got, err := p.Parse(raw, "", nil, testRef)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", raw, err)
	}
	return got
}

// --- Absolute Format Tests ---

func TestParseAbsoluteFormats(t *testing.T) {
	p := newTestParser(t, "dmy")

	cases := []struct {
		raw  string
		want time.Time
	}{
		{"2024-12-21T10:30:00Z", time.Date(2024, 12, 21, 10, 30, 0, 0, time.UTC)},
		{"2024-12-21T10:30:00+05:30", time.Date(2024, 12, 21, 5, 0, 0, 0, time.UTC)},
		{"2024-12-21 10:30:00", time.Date(2024, 12, 21, 10, 30, 0, 0, time.UTC)},
		{"2024-12-21", time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC)},
		{"March 3, 2023 14:00 GMT", time.Date(2023, 3, 3, 14, 0, 0, 0, time.UTC)},
		{"December 21, 2024", time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC)},
		{"21 December 2024", time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC)},
		{"Dec 21, 2024", time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC)},
		{"Sat, 21 Dec 2024 10:30:00 GMT", time.Date(2024, 12, 21, 10, 30, 0, 0, time.UTC)},
		{"2024/12/21", time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC)},
		{"Monday, January 8, 2024", time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)},
	}

	for _, c := range cases {
		got := mustParse(t, p, c.raw)
		if !got.Equal(c.want) {
			t.Errorf("Parse(%q) = %v, want %v", c.raw, got, c.want)
		}
		if got.Location() != time.UTC {
			t.Errorf("Parse(%q) not canonical UTC: %v", c.raw, got.Location())
		}
	}
}

func TestParseZoneAbbreviationOffsets(t *testing.T) {
	p := newTestParser(t, "dmy")

	// time.Parse accepts unknown zone abbreviations at offset zero;
	// the parser corrects the common ones.
	got := mustParse(t, p, "December 21, 2024 10:30 EST")
	want := time.Date(2024, 12, 21, 15, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("EST not applied: got %v, want %v", got, want)
	}

	got = mustParse(t, p, "December 21, 2024 10:30 PST")
	want = time.Date(2024, 12, 21, 18, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("PST not applied: got %v, want %v", got, want)
	}
}

func TestParseOrdinalsAndLabels(t *testing.T) {
	p := newTestParser(t, "dmy")

	cases := []string{
		"March 3rd, 2023",
		"Published: March 3, 2023",
		"Updated on March 3, 2023",
		"  March 3, 2023  ",
	}
	want := time.Date(2023, 3, 3, 0, 0, 0, 0, time.UTC)
	for _, raw := range cases {
		if got := mustParse(t, p, raw); !got.Equal(want) {
			t.Errorf("Parse(%q) = %v, want %v", raw, got, want)
		}
	}
}

// --- Relative Format Tests ---

func TestParseRelativeForms(t *testing.T) {
	p := newTestParser(t, "dmy")

	cases := []struct {
		raw  string
		want time.Time
	}{
		{"3 days ago", testRef.AddDate(0, 0, -3)},
		{"an hour ago", testRef.Add(-time.Hour)},
		{"a minute ago", testRef.Add(-time.Minute)},
		{"45 seconds ago", testRef.Add(-45 * time.Second)},
		{"2 weeks ago", testRef.AddDate(0, 0, -14)},
		{"6 months ago", testRef.Add(-6 * 30 * 24 * time.Hour)},
		{"1 year ago", testRef.Add(-365 * 24 * time.Hour)},
		{"yesterday", testRef.Add(-24 * time.Hour)},
		{"just now", testRef},
		{"Today", testRef},
	}

	for _, c := range cases {
		got := mustParse(t, p, c.raw)
		if !got.Equal(c.want) {
			t.Errorf("Parse(%q) = %v, want %v", c.raw, got, c.want)
		}
	}
}

// --- Clock-First Byline Tests ---

func TestParseClockFirstByline(t *testing.T) {
	p := newTestParser(t, "dmy")

	got := mustParse(t, p, "10:30 AM EST, Thu December 21, 2024")
	want := time.Date(2024, 12, 21, 15, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("clock-first byline: got %v, want %v", got, want)
	}

	got = mustParse(t, p, "12:05 PM GMT, December 1, 2024")
	want = time.Date(2024, 12, 1, 12, 5, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("noon handling: got %v, want %v", got, want)
	}
}

// --- Ambiguous Numeric Form Tests ---

func TestParseNumericLocaleDefault(t *testing.T) {
	p := newTestParser(t, "dmy")

	got := mustParse(t, p, "03/04/2024")
	want := time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("day-first default: got %v, want %v", got, want)
	}
}

func TestParseNumericLocaleHint(t *testing.T) {
	p := newTestParser(t, "dmy")

	got, err := p.Parse("03/04/2024", LocaleMonthFirst, nil, testRef)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("mdy hint: got %v, want %v", got, want)
	}
}

func TestParseNumericFallsBackAcrossOrders(t *testing.T) {
	p := newTestParser(t, "mdy")

	// 25 cannot be a month, so the day-first reading must win even
	// under a month-first locale.
	got := mustParse(t, p, "25/12/2024")
	want := time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("order fallback: got %v, want %v", got, want)
	}
}

func TestParseTwoDigitYearPivot(t *testing.T) {
	p := newTestParser(t, "dmy")

	got := mustParse(t, p, "03/04/69")
	if got.Year() != 1969 {
		t.Errorf("year 69 must pivot to 1969, got %d", got.Year())
	}

	got = mustParse(t, p, "03/04/24")
	if got.Year() != 2024 {
		t.Errorf("year 24 must pivot to 2024, got %d", got.Year())
	}
}

// --- Timezone Handling Tests ---

func TestParseZonelessUsesLocation(t *testing.T) {
	p := newTestParser(t, "dmy")

	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	got, err := p.Parse("2024-06-01 12:00", "", ny, testRef)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := time.Date(2024, 6, 1, 16, 0, 0, 0, time.UTC) // EDT is UTC-4
	if !got.Equal(want) {
		t.Errorf("zone-less with location: got %v, want %v", got, want)
	}
}

// --- Failure Tests ---

func TestParseUnparsable(t *testing.T) {
	p := newTestParser(t, "dmy")

	for _, raw := range []string{"not a date", "", "   ", "the day after tomorrow"} {
		_, err := p.Parse(raw, "", nil, testRef)
		if !errors.Is(err, types.ErrUnparsableDate) {
			t.Errorf("Parse(%q): expected ErrUnparsableDate, got %v", raw, err)
		}
	}
}

// --- Property Tests ---

func TestParseIdempotent(t *testing.T) {
	p := newTestParser(t, "dmy")

	inputs := []string{
		"March 3, 2023 14:00 GMT",
		"3 days ago",
		"10:30 AM EST, Thu December 21, 2024",
		"03/04/2024",
	}
	for _, raw := range inputs {
		first := mustParse(t, p, raw)
		second := mustParse(t, p, first.Format(time.RFC3339))
		if !first.Equal(second) {
			t.Errorf("re-parsing canonical form of %q drifted: %v vs %v", raw, first, second)
		}
	}
}
